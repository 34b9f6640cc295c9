package booking

import (
	"context"
	"time"

	"bookline/models"
	"bookline/services/extraction"
	"bookline/utils"

	"go.uber.org/zap"
)

// ProcessTurn runs the turn-scoped decision procedure: merge the new facts,
// then walk the state machine. Remote calls are strictly sequential because
// each decision depends on the previous call's result.
func (e *DefaultBookingEngine) ProcessTurn(ctx context.Context, rec *models.BookingRecord, facts models.TurnFacts) models.TurnOutcome {
	now := e.now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	if rec.State == "" {
		rec.State = models.StateIdle
	}

	e.applyFacts(rec, facts, now)

	switch rec.State {
	case models.StateIdle, models.StateConfirmed:
		return models.PassThrough()

	case models.StatePendingResolution:
		return e.resolveExisting(ctx, rec, facts, now)

	case models.StateAwaitingConfirmation:
		switch {
		case facts.Affirmative:
			// Promote the suggestion to the active candidate and fall through
			// to the booking gates below.
			rec.State = models.StateCollecting
			rec.CandidateSource = models.SourceSuggested
		case facts.Negative:
			rec.SuggestedSlot = nil
			rec.CandidateSource = models.SourceNone
			rec.State = models.StateCollecting
			return models.Scripted(replyAskAlternative())
		default:
			return models.PassThrough()
		}
	}

	if facts.EarliestRequest && rec.SuggestedSlot == nil {
		return e.suggestEarliest(ctx, rec, now)
	}

	return e.tryBook(ctx, rec, now)
}

// suggestEarliest runs the slot search anchored at the caller's partial time
// when one is known, else now. The anchor is consumed: it narrowed the
// search, it is not itself a booking time.
func (e *DefaultBookingEngine) suggestEarliest(ctx context.Context, rec *models.BookingRecord, now time.Time) models.TurnOutcome {
	anchor := now
	if rec.RequestedTime != nil {
		anchor = rec.RequestedTime.At
	}
	rec.RequestedTime = nil
	rec.CandidateSource = models.SourceNone

	slot, err := e.Scheduler.FindEarliestSlot(ctx, anchor)
	if err != nil {
		return e.apologize("earliest slot search failed", err)
	}
	if slot == nil {
		return models.Scripted(replyFullyBooked())
	}
	rec.SuggestedSlot = slot
	rec.State = models.StateAwaitingConfirmation
	return models.Scripted(replyProposeSlot(slot.Spoken))
}

// tryBook walks the ready-to-book gates: contact completeness, existing
// booking resolution, conflict verification, then commit.
func (e *DefaultBookingEngine) tryBook(ctx context.Context, rec *models.BookingRecord, now time.Time) models.TurnOutcome {
	cand, source := rec.CandidateTime()
	if cand == nil || !rec.Contact.HasAny() {
		return models.PassThrough()
	}

	// Ask for email exactly once per cycle; next turn proceeds regardless of
	// the answer's content.
	if rec.Contact.Phone != "" && rec.Contact.Email == "" && !rec.EmailAsked {
		rec.EmailAsked = true
		rec.NeedsContactBeforeConfirm = true
		return models.Scripted(replyAskEmail())
	}
	rec.NeedsContactBeforeConfirm = false

	existing, err := e.Locator.FindExistingBooking(ctx, rec.Contact, now)
	if err != nil {
		return e.apologize("existing booking lookup failed", err)
	}
	if existing != nil {
		if sameMinute(existing.Start, cand.At) {
			// Same appointment: adopt the existing event, create nothing.
			rec.State = models.StateConfirmed
			rec.LastEventID = existing.EventID
			rec.Existing = nil
			return models.Scripted(replyAlreadyBooked(cand.Spoken))
		}
		rec.Existing = existing
		rec.State = models.StatePendingResolution
		return models.Scripted(replyExistingFound(extraction.SpokenTime(existing.Start)))
	}

	if source == models.SourceSuggested || e.Policy.VerifyCallerTimes {
		conflict, err := e.Scheduler.HasConflict(ctx, cand.At)
		if err != nil {
			return e.apologize("pre-commit conflict check failed", err)
		}
		if conflict {
			return e.resuggestFrom(ctx, rec, cand.At)
		}
	}

	return e.commit(ctx, rec, cand, models.MessageConfirmation, now)
}

// resuggestFrom handles a slot taken between suggestion and commit: search
// again from the conflicting time forward and go back to awaiting
// confirmation. The taken slot is never silently booked.
func (e *DefaultBookingEngine) resuggestFrom(ctx context.Context, rec *models.BookingRecord, from time.Time) models.TurnOutcome {
	slot, err := e.Scheduler.FindEarliestSlot(ctx, from)
	if err != nil {
		return e.apologize("slot re-search failed", err)
	}
	rec.ClearCandidate()
	if slot == nil {
		return models.Scripted(replyFullyBooked())
	}
	rec.SuggestedSlot = slot
	rec.State = models.StateAwaitingConfirmation
	return models.Scripted(replyProposeSlot(slot.Spoken))
}

// resolveExisting handles the move / keep / extra decision for a detected
// prior booking. Anything that is not a clear choice lets free-form dialogue
// continue with the resolution still pending.
func (e *DefaultBookingEngine) resolveExisting(ctx context.Context, rec *models.BookingRecord, facts models.TurnFacts, now time.Time) models.TurnOutcome {
	if rec.Existing == nil {
		// Impossible by invariant; recover by dropping the sub-state.
		rec.State = models.StateCollecting
		return models.PassThrough()
	}

	if facts.KeepExisting {
		spoken := extraction.SpokenTime(rec.Existing.Start)
		rec.RequestedTime = &models.TimePoint{At: rec.Existing.Start, Spoken: spoken}
		rec.CandidateSource = models.SourceCaller
		rec.SuggestedSlot = nil
		rec.Existing = nil
		rec.State = models.StateCollecting
		return models.Scripted(replyKeepConfirmed(spoken))
	}

	if facts.MoveExisting || facts.Affirmative {
		old := *rec.Existing

		// Cancel before create: there must never be two live events for one
		// session's booking.
		if err := e.Lifecycle.CancelBooking(ctx, old.EventID); err != nil {
			return e.apologize("cancel of existing booking failed", err)
		}
		e.archiveEntry(ctx, rec, old.EventID, old.Start, old.Start.Add(e.Policy.Duration()), "cancelled", now)
		rec.Existing = nil
		rec.State = models.StateCollecting

		cand, _ := rec.CandidateTime()
		if cand == nil {
			rec.ClearCandidate()
			if err := e.Notifier.SendCancellation(ctx, rec.Contact.Phone, old.Start); err != nil {
				utils.GetLogger().Warn("Cancellation notice failed", zap.Error(err))
			}
			return models.Scripted(replyCancelledAskNewTime())
		}
		return e.commit(ctx, rec, cand, models.MessageReschedule, now)
	}

	return models.PassThrough()
}

// commit durably creates the event and fires the notices. A create failure
// rolls back to a safe non-confirmed shape with the candidate intact.
func (e *DefaultBookingEngine) commit(ctx context.Context, rec *models.BookingRecord, cand *models.TimePoint, kind models.MessageKind, now time.Time) models.TurnOutcome {
	created, err := e.Lifecycle.CreateBooking(ctx, cand.At, rec.Contact)
	if err != nil {
		return e.apologize("booking creation failed", err)
	}

	rec.State = models.StateConfirmed
	rec.LastEventID = created.ID
	rec.Existing = nil
	rec.NeedsContactBeforeConfirm = false

	e.archiveEntry(ctx, rec, created.ID, created.Start, created.End, "created", now)

	logger := utils.GetLogger()
	if rec.Contact.Phone != "" {
		var notifyErr error
		switch kind {
		case models.MessageReschedule:
			notifyErr = e.Notifier.SendReschedule(ctx, rec.Contact.Phone, cand.Spoken)
		default:
			notifyErr = e.Notifier.SendBookingConfirmation(ctx, rec.Contact.Phone, cand.Spoken)
		}
		if notifyErr != nil {
			logger.Warn("Booking notice failed", zap.Error(notifyErr))
		}
		if err := e.Notifier.ScheduleReminders(ctx, created.ID, rec.Contact.Phone, created.Start, cand.Spoken); err != nil {
			logger.Warn("Reminder scheduling failed", zap.Error(err))
		}
	}

	if kind == models.MessageReschedule {
		return models.Scripted(replyRescheduled(cand.Spoken))
	}
	return models.Scripted(replyBooked(cand.Spoken))
}

// archiveEntry records the action in the audit archive, best-effort.
func (e *DefaultBookingEngine) archiveEntry(ctx context.Context, rec *models.BookingRecord, eventID string, start, end time.Time, action string, now time.Time) {
	if e.Archive == nil {
		return
	}
	entry := models.BookingRecordEntry{
		ID:        eventID + ":" + action,
		EventID:   eventID,
		CallerID:  rec.CallerID,
		Name:      rec.Contact.Name,
		Phone:     rec.Contact.Phone,
		Email:     rec.Contact.Email,
		Start:     start,
		End:       end,
		Action:    action,
		CreatedAt: now,
	}
	if err := e.Archive.Insert(ctx, entry); err != nil {
		utils.GetLogger().Warn("Booking archive insert failed", zap.Error(err))
	}
}

func (e *DefaultBookingEngine) apologize(msg string, err error) models.TurnOutcome {
	utils.GetLogger().Error(msg, zap.Error(err))
	return models.Scripted(replySorry())
}
