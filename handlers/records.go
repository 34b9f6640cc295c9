package handlers

import (
	"net/http"

	"bookline/database/repository/records"
	"bookline/utils"

	"github.com/gin-gonic/gin"
)

// RecordsHandler exposes the booking archive for operational lookups.
type RecordsHandler struct {
	Archive records.Repository
}

// HandleHistory returns the most recent archive entries for a phone number.
func (h *RecordsHandler) HandleHistory(c *gin.Context) {
	phone := c.Query("phone")
	if phone == "" {
		utils.JSONError(c, http.StatusBadRequest, "Missing phone query parameter", "")
		return
	}

	entries, err := h.Archive.FindByPhone(c.Request.Context(), phone, 20)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to query booking history", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"records": entries})
}
