package models

import "time"

// MessageKind distinguishes the outbound notices the dispatcher can send.
type MessageKind string

const (
	MessageConfirmation MessageKind = "confirmation"
	MessageCancellation MessageKind = "cancellation"
	MessageReschedule   MessageKind = "reschedule"
	MessageReminder     MessageKind = "reminder"
)

// ReminderPayload is the asynq task payload for a scheduled reminder send.
type ReminderPayload struct {
	EventID string    `json:"eventId"`
	Phone   string    `json:"phone"`
	Start   time.Time `json:"start"`
	Spoken  string    `json:"spoken"`
	Offset  string    `json:"offset"` // e.g. "24h" or "60m", for logging and dedupe
}

// BookingRecordEntry is one row of the mongo booking archive. The archive is
// an audit trail only; the calendar remains the source of truth.
type BookingRecordEntry struct {
	ID        string    `bson:"id" json:"id"`
	EventID   string    `bson:"event_id" json:"eventId"`
	CallerID  string    `bson:"caller_id" json:"callerId"`
	Name      string    `bson:"name,omitempty" json:"name,omitempty"`
	Phone     string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Email     string    `bson:"email,omitempty" json:"email,omitempty"`
	Start     time.Time `bson:"start" json:"start"`
	End       time.Time `bson:"end" json:"end"`
	Action    string    `bson:"action" json:"action"` // "created" or "cancelled"
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
