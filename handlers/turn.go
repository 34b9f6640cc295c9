package handlers

import (
	"net/http"
	"time"

	"bookline/config"
	"bookline/database/repository/session"
	"bookline/models"
	"bookline/services/booking"
	"bookline/services/extraction"
	"bookline/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TurnHandler is the thin webhook shell around the booking engine. It owns
// zero booking logic: extraction, one ProcessTurn call, session save.
type TurnHandler struct {
	Engine    booking.Engine
	Extractor extraction.Extractor
	Sessions  session.Repository
	// Local holds this process's in-flight snapshots. When both a local and a
	// stored snapshot exist they are merged with the local value winning, so a
	// failed store save never rolls a session back a turn.
	Local session.Repository
}

// TurnRequest is one utterance from the surrounding dialogue layer.
type TurnRequest struct {
	CallerID  string `json:"callerId" binding:"required"`
	Utterance string `json:"utterance" binding:"required"`
	Timezone  string `json:"timezone"`
}

// TurnResponse mirrors the engine's TurnOutcome plus the resulting state for
// the dialogue layer's own bookkeeping.
type TurnResponse struct {
	Intercept bool                `json:"intercept"`
	Reply     string              `json:"reply,omitempty"`
	State     models.BookingState `json:"state"`
}

// HandleTurn processes one session turn. The transport guarantees one
// in-flight turn per caller, so no locking happens here.
func (h *TurnHandler) HandleTurn(c *gin.Context) {
	logger := utils.GetLogger()

	var req TurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid turn request", err.Error())
		return
	}

	tz := req.Timezone
	if tz == "" {
		tz = config.AppConfig.DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid timezone", err.Error())
		return
	}

	ctx := c.Request.Context()

	stored, err := h.Sessions.Load(ctx, req.CallerID)
	if err != nil {
		logger.Error("Session load failed", zap.String("callerId", req.CallerID), zap.Error(err))
		// A lost snapshot degrades to a fresh session rather than failing the turn.
		stored = nil
	}
	var local *models.BookingRecord
	if h.Local != nil {
		local, _ = h.Local.Load(ctx, req.CallerID)
	}
	rec := session.MergeRecords(stored, local)
	if rec == nil {
		rec = &models.BookingRecord{
			SessionID: uuid.New().String(),
			CallerID:  req.CallerID,
			State:     models.StateIdle,
		}
	}

	facts := h.Extractor.Extract(req.Utterance, loc, time.Now())
	outcome := h.Engine.ProcessTurn(ctx, rec, facts)

	if h.Local != nil {
		if err := h.Local.Save(ctx, rec); err != nil {
			logger.Warn("Local session save failed", zap.String("callerId", req.CallerID), zap.Error(err))
		}
	}
	if err := h.Sessions.Save(ctx, rec); err != nil {
		logger.Error("Session save failed", zap.String("callerId", req.CallerID), zap.Error(err))
	}

	c.JSON(http.StatusOK, TurnResponse{
		Intercept: outcome.Intercept,
		Reply:     outcome.Reply,
		State:     rec.State,
	})
}
