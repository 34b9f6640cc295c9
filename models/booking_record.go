package models

import "time"

// BookingState is the explicit per-session state of a booking cycle.
type BookingState string

const (
	// StateIdle means no scheduling language has been detected yet.
	StateIdle BookingState = "idle"
	// StateCollecting means booking intent exists and fields are being gathered.
	StateCollecting BookingState = "collecting"
	// StateAwaitingConfirmation means a system-suggested slot has been spoken
	// and not yet accepted or rejected.
	StateAwaitingConfirmation BookingState = "awaiting_confirmation"
	// StatePendingResolution means a prior booking was found at a different
	// time and the caller must choose move / keep / extra.
	StatePendingResolution BookingState = "pending_resolution"
	// StateConfirmed means an event has been durably created. Terminal for the
	// current booking cycle.
	StateConfirmed BookingState = "confirmed"
)

// TimeSource records where the active candidate time came from. Only
// system-suggested times are conflict-checked before commit.
type TimeSource string

const (
	SourceNone      TimeSource = ""
	SourceCaller    TimeSource = "caller"
	SourceSuggested TimeSource = "suggested"
)

// TimePoint is a concrete start instant plus the phrasing spoken to the caller.
type TimePoint struct {
	At     time.Time `json:"at"`
	Spoken string    `json:"spoken"`
}

// Contact identifies the caller. Each field is set at most once per session
// unless the extraction layer signals an explicit correction.
type Contact struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// HasAny reports whether at least one contact method is known.
func (c Contact) HasAny() bool {
	return c.Name != "" || c.Phone != "" || c.Email != ""
}

// ExistingBooking is a previously created event found under the same contact.
type ExistingBooking struct {
	EventID string    `json:"eventId"`
	Start   time.Time `json:"start"`
}

// BookingRecord holds everything the engine knows about one session's booking.
// It is snapshotted to the session store between turns.
type BookingRecord struct {
	SessionID string       `json:"sessionId"`
	CallerID  string       `json:"callerId"`
	State     BookingState `json:"state"`

	Contact Contact `json:"contact"`

	// RequestedTime is an explicit caller-specified start. Pre-confirmed: no
	// yes/no round-trip is required before booking it.
	RequestedTime *TimePoint `json:"requestedTime,omitempty"`
	// SuggestedSlot is a system-proposed start from earliest-slot search. It
	// needs an affirmative before it becomes the active candidate.
	SuggestedSlot   *TimePoint `json:"suggestedSlot,omitempty"`
	CandidateSource TimeSource `json:"candidateSource,omitempty"`

	// EmailAsked is latched for the whole cycle so the email question is never
	// repeated. NeedsContactBeforeConfirm is true only for the single turn the
	// engine is blocked waiting on the answer.
	EmailAsked                bool `json:"emailAsked,omitempty"`
	NeedsContactBeforeConfirm bool `json:"needsContactBeforeConfirm,omitempty"`

	LastEventID string           `json:"lastEventId,omitempty"`
	Existing    *ExistingBooking `json:"existingBooking,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CandidateTime returns the time currently eligible for booking, if any.
// A caller-specified time always wins; an accepted suggestion is the fallback.
func (r *BookingRecord) CandidateTime() (*TimePoint, TimeSource) {
	if r.RequestedTime != nil {
		return r.RequestedTime, SourceCaller
	}
	if r.SuggestedSlot != nil && r.State != StateAwaitingConfirmation && r.CandidateSource == SourceSuggested {
		return r.SuggestedSlot, SourceSuggested
	}
	return nil, SourceNone
}

// ClearCandidate drops whichever time value is currently driving the booking.
func (r *BookingRecord) ClearCandidate() {
	r.RequestedTime = nil
	r.SuggestedSlot = nil
	r.CandidateSource = SourceNone
}

// ResetForNewCycle starts a fresh booking cycle after a confirmed booking,
// keeping verified contact identity but dropping all transient fields.
func (r *BookingRecord) ResetForNewCycle(now time.Time) {
	r.State = StateCollecting
	r.ClearCandidate()
	r.EmailAsked = false
	r.NeedsContactBeforeConfirm = false
	r.Existing = nil
	r.UpdatedAt = now
}
