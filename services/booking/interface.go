package booking

import (
	"context"
	"time"

	"bookline/database/repository/records"
	"bookline/models"
	"bookline/services/calendar"
	"bookline/services/notification"
)

// Engine is the per-session booking orchestrator. ProcessTurn ingests one
// utterance's extracted facts, mutates the record, and returns the turn
// outcome. It never fails the turn: remote errors become apologetic
// scripted replies and the record is left in its last known-good shape.
type Engine interface {
	ProcessTurn(ctx context.Context, rec *models.BookingRecord, facts models.TurnFacts) models.TurnOutcome
}

// DefaultBookingEngine implements Engine on top of the scheduler, locator,
// lifecycle manager, and notification dispatcher.
type DefaultBookingEngine struct {
	Scheduler *Scheduler
	Locator   *Locator
	Lifecycle *Lifecycle
	Notifier  notification.Service
	// Archive is optional; inserts are best-effort and never block a turn.
	Archive records.Repository
	Policy  Policy

	// Clock is swappable for tests. Defaults to time.Now.
	Clock func() time.Time
}

// NewDefaultBookingEngine wires the engine's components around one calendar
// service and one policy.
func NewDefaultBookingEngine(cal calendar.Service, notifier notification.Service, archive records.Repository, policy Policy) *DefaultBookingEngine {
	return &DefaultBookingEngine{
		Scheduler: &Scheduler{Calendar: cal, Policy: policy},
		Locator:   &Locator{Calendar: cal, Policy: policy},
		Lifecycle: &Lifecycle{Calendar: cal, Policy: policy},
		Notifier:  notifier,
		Archive:   archive,
		Policy:    policy,
		Clock:     time.Now,
	}
}

func (e *DefaultBookingEngine) now() time.Time {
	if e.Clock != nil {
		return e.Clock().In(e.Policy.Location())
	}
	return time.Now().In(e.Policy.Location())
}
