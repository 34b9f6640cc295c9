package notification

import (
	"context"
	"time"
)

// Gateway delivers one text message to a phone identifier. Primary/fallback
// channel selection (SMS vs chat app) is the gateway's concern, not ours.
type Gateway interface {
	SendText(ctx context.Context, phone, body string) error
}

// Service defines the outbound notices the booking engine can trigger.
// Sends are best-effort: a failed notice never fails a booking.
type Service interface {
	SendBookingConfirmation(ctx context.Context, phone, spoken string) error
	SendCancellation(ctx context.Context, phone string, start time.Time) error
	SendReschedule(ctx context.Context, phone, spoken string) error
	// ScheduleReminders registers delayed reminder sends at fixed offsets
	// before the confirmed start. Fire-and-forget; durability belongs to the
	// reminder sweep, which re-derives due reminders from calendar state.
	ScheduleReminders(ctx context.Context, eventID, phone string, start time.Time, spoken string) error
}
