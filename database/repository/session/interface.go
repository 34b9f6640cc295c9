package session

import (
	"context"

	"bookline/models"
)

// Repository persists one BookingRecord snapshot per caller between turns,
// with a TTL so abandoned sessions age out.
type Repository interface {
	// Load returns the stored record for a caller, or (nil, nil) when none
	// exists or the snapshot has expired.
	Load(ctx context.Context, callerID string) (*models.BookingRecord, error)
	Save(ctx context.Context, rec *models.BookingRecord) error
	Delete(ctx context.Context, callerID string) error
}

// MergeRecords reconciles a stored snapshot with the current-turn record.
// The in-memory (current-turn) value wins for every field; stored values only
// fill gaps. Used when a turn starts while an in-flight record already exists.
func MergeRecords(stored, current *models.BookingRecord) *models.BookingRecord {
	if current == nil {
		return stored
	}
	if stored == nil {
		return current
	}

	merged := *current
	if merged.SessionID == "" {
		merged.SessionID = stored.SessionID
	}
	if merged.CallerID == "" {
		merged.CallerID = stored.CallerID
	}
	if merged.State == "" || merged.State == models.StateIdle {
		merged.State = stored.State
	}
	if merged.Contact.Name == "" {
		merged.Contact.Name = stored.Contact.Name
	}
	if merged.Contact.Phone == "" {
		merged.Contact.Phone = stored.Contact.Phone
	}
	if merged.Contact.Email == "" {
		merged.Contact.Email = stored.Contact.Email
	}
	if merged.RequestedTime == nil {
		merged.RequestedTime = stored.RequestedTime
	}
	if merged.SuggestedSlot == nil {
		merged.SuggestedSlot = stored.SuggestedSlot
	}
	if merged.CandidateSource == models.SourceNone {
		merged.CandidateSource = stored.CandidateSource
	}
	if !merged.EmailAsked {
		merged.EmailAsked = stored.EmailAsked
	}
	if merged.LastEventID == "" {
		merged.LastEventID = stored.LastEventID
	}
	if merged.Existing == nil {
		merged.Existing = stored.Existing
	}
	if merged.CreatedAt.IsZero() {
		merged.CreatedAt = stored.CreatedAt
	}
	return &merged
}
