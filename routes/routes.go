package routes

import (
	"bookline/handlers"

	"github.com/gin-gonic/gin"
)

// SetupRoutes registers the webhook surface. The dialogue layer posts one
// turn at a time; everything else is operational.
func SetupRoutes(r *gin.Engine, turn *handlers.TurnHandler, rec *handlers.RecordsHandler) {
	api := r.Group("/api")
	{
		api.POST("/turn", turn.HandleTurn)
		api.GET("/bookings", rec.HandleHistory)
	}
	r.GET("/healthz", handlers.HealthHandler)
}
