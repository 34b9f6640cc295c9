package models

import "time"

// ExtractedTime is a parsed start instant plus the caller's phrasing.
type ExtractedTime struct {
	At     time.Time `json:"at"`
	Spoken string    `json:"spoken"`
}

// TurnFacts is the extraction layer's output for one utterance. Absent fields
// are simply unknown, never an error.
type TurnFacts struct {
	Name         string `json:"name,omitempty"`
	NameOverride bool   `json:"nameOverride,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`

	Time *ExtractedTime `json:"time,omitempty"`

	BookingIntent   bool `json:"bookingIntent,omitempty"`
	EarliestRequest bool `json:"earliestRequest,omitempty"`
	Affirmative     bool `json:"affirmative,omitempty"`
	Negative        bool `json:"negative,omitempty"`
	KeepExisting    bool `json:"keepExisting,omitempty"`
	MoveExisting    bool `json:"moveExisting,omitempty"`
}

// TurnOutcome tells the surrounding dialogue layer what to do with this turn.
// Intercept false means the free-form layer may speak; true means Reply must
// be delivered verbatim.
type TurnOutcome struct {
	Intercept bool   `json:"intercept"`
	Reply     string `json:"reply,omitempty"`
}

// PassThrough is the outcome that lets free-form dialogue continue.
func PassThrough() TurnOutcome {
	return TurnOutcome{Intercept: false}
}

// Scripted wraps a verbatim reply.
func Scripted(reply string) TurnOutcome {
	return TurnOutcome{Intercept: true, Reply: reply}
}
