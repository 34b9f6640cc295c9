package booking

import (
	"time"

	"bookline/models"
)

// applyFacts folds one turn's extracted facts into the record before the
// decision procedure runs. Fields fill without overwriting previously
// verified values unless an explicit override signal is present; a
// caller-specified time is pre-confirmed and supersedes a pending suggestion.
func (e *DefaultBookingEngine) applyFacts(rec *models.BookingRecord, facts models.TurnFacts, now time.Time) {
	// A confirmed cycle ends only when the caller explicitly starts a new one.
	if rec.State == models.StateConfirmed && facts.BookingIntent && (facts.Time != nil || facts.EarliestRequest) {
		rec.ResetForNewCycle(now)
	}

	if rec.State == models.StateIdle && (facts.BookingIntent || facts.EarliestRequest) {
		rec.State = models.StateCollecting
	}

	if facts.Name != "" && (rec.Contact.Name == "" || facts.NameOverride) {
		rec.Contact.Name = facts.Name
	}
	if facts.Phone != "" && rec.Contact.Phone == "" {
		rec.Contact.Phone = facts.Phone
	}
	if facts.Email != "" && rec.Contact.Email == "" {
		rec.Contact.Email = facts.Email
	}

	if facts.Time != nil && rec.State != models.StateConfirmed {
		rec.RequestedTime = &models.TimePoint{At: facts.Time.At, Spoken: facts.Time.Spoken}
		rec.SuggestedSlot = nil
		rec.CandidateSource = models.SourceCaller
		// An explicit time answers a pending suggestion; resolution of an
		// existing booking stays pending until the caller chooses.
		if rec.State == models.StateAwaitingConfirmation {
			rec.State = models.StateCollecting
		}
	}
}
