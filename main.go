// File: bookline/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookline/config"
	"bookline/cron"
	"bookline/database"
	recordsRepo "bookline/database/repository/records"
	sessionRepo "bookline/database/repository/session"
	"bookline/handlers"
	"bookline/middleware"
	"bookline/routes"
	"bookline/services/booking"
	"bookline/services/calendar"
	"bookline/services/extraction"
	"bookline/services/notification"
	"bookline/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitSessionCache()

	ctx := context.Background()

	calendarSvc, err := calendar.NewGoogleCalendarService(ctx)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize calendar service: %v", err)
	}

	gateway := notification.NewHTTPGateway()
	queue := cron.NewQueueClient()
	notifier, err := notification.NewDefaultNotificationService(gateway, queue)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize notification service: %v", err)
	}

	archive := recordsRepo.NewMongoRecordRepo(database.Database())
	engine := booking.NewDefaultBookingEngine(calendarSvc, notifier, archive, booking.PolicyFromConfig())

	sessionTTL := time.Duration(config.AppConfig.SessionTTLMinutes) * time.Minute
	sessions := sessionRepo.NewRedisSessionRepo(utils.GetSessionCacheClient(), sessionTTL)

	turnHandler := &handlers.TurnHandler{
		Engine:    engine,
		Extractor: extraction.NewDefaultExtractor(),
		Sessions:  sessions,
		Local:     sessionRepo.NewMemorySessionRepo(sessionTTL),
	}

	// Reminder worker and durable sweep.
	cron.InitReminderWorker(gateway, calendarSvc)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	routes.SetupRoutes(router, turnHandler, &handlers.RecordsHandler{Archive: archive})

	utils.StartHealthMonitor([]*redis.Client{utils.GetSessionCacheClient()}, database.MongoClient)

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.AppPort,
		Handler: router,
	}

	go func() {
		logger.Sugar().Infof("main: listening on :%s", config.AppConfig.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: forced shutdown: %v", err)
	}
	if err := queue.Close(); err != nil {
		logger.Sugar().Warnf("main: queue close: %v", err)
	}
}
