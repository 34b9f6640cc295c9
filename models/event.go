package models

import "time"

// CalendarEvent is one busy interval fetched from the remote calendar.
type CalendarEvent struct {
	ID          string    `json:"id"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
}

// EventInput is the payload for creating a calendar event. The description is
// the only persistence channel for the system tag and contact identity.
type EventInput struct {
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Timezone    string    `json:"timezone"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
}

// ConfirmedEvent is the canonical record of a created booking, echoing the
// start/end the calendar actually stored.
type ConfirmedEvent struct {
	ID    string    `json:"id"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps reports half-open interval overlap between the event and
// [start, end): two intervals [a,b) and [c,d) overlap iff a < d && c < b.
func (e CalendarEvent) Overlaps(start, end time.Time) bool {
	return e.End.After(start) && end.After(e.Start)
}
