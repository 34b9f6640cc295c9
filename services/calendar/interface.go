package calendar

import (
	"context"
	"time"

	"bookline/models"
)

// Service is the remote calendar contract. The calendar is the sole authority
// on conflicts; everything the engine decides is re-checked against it.
type Service interface {
	// ListEvents returns all events overlapping [from, to).
	ListEvents(ctx context.Context, from, to time.Time) ([]models.CalendarEvent, error)
	// InsertEvent creates an event and returns the canonical stored record.
	InsertEvent(ctx context.Context, input models.EventInput) (*models.ConfirmedEvent, error)
	// DeleteEvent removes an event by id.
	DeleteEvent(ctx context.Context, eventID string) error
}
