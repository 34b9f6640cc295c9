package booking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"bookline/models"
	"bookline/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testNow is a Monday, 10:00 inside business hours.
var testNow = time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)

func testPolicy() Policy {
	return Policy{
		OpenHour:             9,
		CloseHour:            17,
		GranularityMin:       30,
		DurationMin:          30,
		WindowDays:           7,
		VerifyCallerTimes:    false,
		ClampToBusinessHours: true,
		Timezone:             time.UTC,
	}
}

type fakeCalendar struct {
	events    []models.CalendarEvent
	inserts   []models.EventInput
	deletes   []string
	nextID    int
	listErr   error
	insertErr error
	deleteErr error
}

func (f *fakeCalendar) ListEvents(_ context.Context, from, to time.Time) ([]models.CalendarEvent, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.CalendarEvent
	for _, ev := range f.events {
		if ev.Overlaps(from, to) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeCalendar) InsertEvent(_ context.Context, input models.EventInput) (*models.ConfirmedEvent, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	f.nextID++
	id := fmt.Sprintf("evt-%d", f.nextID)
	f.inserts = append(f.inserts, input)
	f.events = append(f.events, models.CalendarEvent{
		ID:          id,
		Start:       input.Start,
		End:         input.End,
		Title:       input.Title,
		Description: input.Description,
	})
	return &models.ConfirmedEvent{ID: id, Start: input.Start, End: input.End}, nil
}

func (f *fakeCalendar) DeleteEvent(_ context.Context, eventID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletes = append(f.deletes, eventID)
	for i, ev := range f.events {
		if ev.ID == eventID {
			f.events = append(f.events[:i], f.events[i+1:]...)
			break
		}
	}
	return nil
}

type fakeNotifier struct {
	confirmations []string
	cancellations []string
	reschedules   []string
	reminders     []string
}

func (f *fakeNotifier) SendBookingConfirmation(_ context.Context, phone, _ string) error {
	f.confirmations = append(f.confirmations, phone)
	return nil
}

func (f *fakeNotifier) SendCancellation(_ context.Context, phone string, _ time.Time) error {
	f.cancellations = append(f.cancellations, phone)
	return nil
}

func (f *fakeNotifier) SendReschedule(_ context.Context, phone, _ string) error {
	f.reschedules = append(f.reschedules, phone)
	return nil
}

func (f *fakeNotifier) ScheduleReminders(_ context.Context, eventID, _ string, _ time.Time, _ string) error {
	f.reminders = append(f.reminders, eventID)
	return nil
}

func newTestEngine(cal *fakeCalendar, notifier *fakeNotifier) *DefaultBookingEngine {
	e := NewDefaultBookingEngine(cal, notifier, nil, testPolicy())
	e.Clock = func() time.Time { return testNow }
	return e
}

func newTestRecord() *models.BookingRecord {
	return &models.BookingRecord{
		SessionID: "sess-1",
		CallerID:  "caller-1",
		State:     models.StateIdle,
	}
}

func fullContact() models.Contact {
	return models.Contact{Name: "John Smith", Phone: "+61412345678", Email: "john@example.com"}
}

// taggedEvent builds a calendar event the locator recognizes as ours.
func taggedEvent(id string, start time.Time, contact models.Contact) models.CalendarEvent {
	return models.CalendarEvent{
		ID:          id,
		Start:       start,
		End:         start.Add(30 * time.Minute),
		Title:       "Appointment - " + contact.Name,
		Description: BuildDescription(contact),
	}
}

func TestDirectBookingWithFullContact(t *testing.T) {
	cal := &fakeCalendar{}
	notifier := &fakeNotifier{}
	engine := newTestEngine(cal, notifier)

	rec := newTestRecord()
	rec.Contact = fullContact()

	tuesday3pm := time.Date(2025, 3, 4, 15, 0, 0, 0, time.UTC)
	outcome := engine.ProcessTurn(context.Background(), rec, models.TurnFacts{
		BookingIntent: true,
		Time:          &models.ExtractedTime{At: tuesday3pm, Spoken: "Tuesday, March 4 at 3:00 PM"},
	})

	require.True(t, outcome.Intercept)
	assert.Contains(t, outcome.Reply, "Tuesday")
	assert.Contains(t, outcome.Reply, "3:00 PM")
	assert.Equal(t, models.StateConfirmed, rec.State)
	assert.NotEmpty(t, rec.LastEventID)
	require.Len(t, cal.inserts, 1)
	assert.True(t, cal.inserts[0].Start.Equal(tuesday3pm))
	assert.Len(t, notifier.confirmations, 1)
	assert.Len(t, notifier.reminders, 1)
}

func TestEarliestFlowAsksEmailExactlyOnce(t *testing.T) {
	cal := &fakeCalendar{}
	notifier := &fakeNotifier{}
	engine := newTestEngine(cal, notifier)
	ctx := context.Background()

	rec := newTestRecord()

	// Turn 1: "earliest available", phone supplied.
	outcome := engine.ProcessTurn(ctx, rec, models.TurnFacts{
		BookingIntent:   true,
		EarliestRequest: true,
		Phone:           "+61412345678",
	})
	require.True(t, outcome.Intercept)
	assert.Contains(t, outcome.Reply, "Does that work")
	assert.Equal(t, models.StateAwaitingConfirmation, rec.State)
	require.NotNil(t, rec.SuggestedSlot)
	// Empty calendar, anchor already inside business hours: slot is now.
	assert.True(t, rec.SuggestedSlot.At.Equal(testNow))
	assert.False(t, rec.NeedsContactBeforeConfirm)

	// Turn 2: affirmative. Email is missing, so the engine asks once.
	outcome = engine.ProcessTurn(ctx, rec, models.TurnFacts{Affirmative: true})
	require.True(t, outcome.Intercept)
	assert.Contains(t, outcome.Reply, "email")
	assert.True(t, rec.EmailAsked)
	assert.True(t, rec.NeedsContactBeforeConfirm)
	assert.Empty(t, cal.inserts)

	// Turn 3: email answered. Booking proceeds, no second email question.
	outcome = engine.ProcessTurn(ctx, rec, models.TurnFacts{Email: "john@example.com"})
	require.True(t, outcome.Intercept)
	assert.Equal(t, models.StateConfirmed, rec.State)
	assert.False(t, rec.NeedsContactBeforeConfirm)
	require.Len(t, cal.inserts, 1)
	assert.True(t, cal.inserts[0].Start.Equal(testNow))
}

func TestEmailGateProceedsEvenWithoutAnswer(t *testing.T) {
	cal := &fakeCalendar{}
	engine := newTestEngine(cal, &fakeNotifier{})
	ctx := context.Background()

	rec := newTestRecord()
	rec.Contact.Phone = "+61412345678"
	rec.RequestedTime = &models.TimePoint{At: testNow.Add(2 * time.Hour), Spoken: "today at noon"}
	rec.CandidateSource = models.SourceCaller
	rec.State = models.StateCollecting

	outcome := engine.ProcessTurn(ctx, rec, models.TurnFacts{})
	require.True(t, outcome.Intercept)
	assert.Contains(t, outcome.Reply, "email")

	// Next turn carries no email at all; the engine must not loop.
	outcome = engine.ProcessTurn(ctx, rec, models.TurnFacts{})
	require.True(t, outcome.Intercept)
	assert.Equal(t, models.StateConfirmed, rec.State)
	assert.Empty(t, rec.Contact.Email)
	require.Len(t, cal.inserts, 1)
}

func TestSuggestionRejected(t *testing.T) {
	cal := &fakeCalendar{}
	engine := newTestEngine(cal, &fakeNotifier{})

	rec := newTestRecord()
	rec.Contact.Phone = "+61412345678"
	rec.State = models.StateAwaitingConfirmation
	rec.SuggestedSlot = &models.TimePoint{At: testNow, Spoken: "Monday at 10:00 AM"}

	outcome := engine.ProcessTurn(context.Background(), rec, models.TurnFacts{Negative: true})
	require.True(t, outcome.Intercept)
	assert.Contains(t, outcome.Reply, "What day and time")
	assert.Nil(t, rec.SuggestedSlot)
	assert.Equal(t, models.StateCollecting, rec.State)
	assert.Empty(t, cal.inserts)
}

func TestConflictAtCommitResuggests(t *testing.T) {
	slotAt := testNow.Add(30 * time.Minute)
	cal := &fakeCalendar{
		// Someone else took the suggested slot between suggestion and commit.
		events: []models.CalendarEvent{{
			ID:    "other-1",
			Start: slotAt,
			End:   slotAt.Add(30 * time.Minute),
		}},
	}
	engine := newTestEngine(cal, &fakeNotifier{})

	rec := newTestRecord()
	rec.Contact = fullContact()
	rec.State = models.StateAwaitingConfirmation
	rec.SuggestedSlot = &models.TimePoint{At: slotAt, Spoken: "Monday at 10:30 AM"}

	outcome := engine.ProcessTurn(context.Background(), rec, models.TurnFacts{Affirmative: true})
	require.True(t, outcome.Intercept)
	assert.Contains(t, outcome.Reply, "Does that work")
	assert.Equal(t, models.StateAwaitingConfirmation, rec.State)
	require.NotNil(t, rec.SuggestedSlot)
	// The taken slot is never silently booked; search resumed past it.
	assert.True(t, rec.SuggestedSlot.At.Equal(slotAt.Add(30*time.Minute)))
	assert.Empty(t, cal.inserts)
}

func TestIdempotentWhenExistingMatchesSameMinute(t *testing.T) {
	contact := fullContact()
	tuesday3pm := time.Date(2025, 3, 4, 15, 0, 0, 0, time.UTC)
	cal := &fakeCalendar{events: []models.CalendarEvent{taggedEvent("evt-old", tuesday3pm, contact)}}
	engine := newTestEngine(cal, &fakeNotifier{})

	rec := newTestRecord()
	rec.Contact = contact
	outcome := engine.ProcessTurn(context.Background(), rec, models.TurnFacts{
		BookingIntent: true,
		Time:          &models.ExtractedTime{At: tuesday3pm, Spoken: "Tuesday, March 4 at 3:00 PM"},
	})

	require.True(t, outcome.Intercept)
	assert.Contains(t, outcome.Reply, "already booked")
	assert.Equal(t, models.StateConfirmed, rec.State)
	assert.Equal(t, "evt-old", rec.LastEventID)
	assert.Empty(t, cal.inserts)
	assert.Empty(t, cal.deletes)
}

func TestExistingAtDifferentTimeThenMove(t *testing.T) {
	contact := fullContact()
	oldStart := time.Date(2025, 3, 5, 11, 0, 0, 0, time.UTC)
	newStart := time.Date(2025, 3, 6, 14, 0, 0, 0, time.UTC)
	cal := &fakeCalendar{events: []models.CalendarEvent{taggedEvent("evt-old", oldStart, contact)}}
	notifier := &fakeNotifier{}
	engine := newTestEngine(cal, notifier)
	ctx := context.Background()

	rec := newTestRecord()
	rec.Contact = contact

	// Turn 1: new time requested while an old booking exists.
	outcome := engine.ProcessTurn(ctx, rec, models.TurnFacts{
		BookingIntent: true,
		Time:          &models.ExtractedTime{At: newStart, Spoken: "Thursday, March 6 at 2:00 PM"},
	})
	require.True(t, outcome.Intercept)
	assert.Contains(t, outcome.Reply, "move it, keep it")
	assert.Equal(t, models.StatePendingResolution, rec.State)
	require.NotNil(t, rec.Existing)
	assert.Equal(t, "evt-old", rec.Existing.EventID)

	// Turn 2: caller chooses to move. Cancel must precede create.
	outcome = engine.ProcessTurn(ctx, rec, models.TurnFacts{MoveExisting: true})
	require.True(t, outcome.Intercept)
	assert.Contains(t, outcome.Reply, "moved your appointment")
	assert.Equal(t, models.StateConfirmed, rec.State)
	assert.Equal(t, []string{"evt-old"}, cal.deletes)
	require.Len(t, cal.inserts, 1)
	assert.True(t, cal.inserts[0].Start.Equal(newStart))
	assert.Len(t, notifier.reschedules, 1)

	// Exactly one live event remains, and the locator no longer sees the old one.
	existing, err := engine.Locator.FindExistingBooking(ctx, contact, testNow)
	require.NoError(t, err)
	require.NotNil(t, existing)
	assert.NotEqual(t, "evt-old", existing.EventID)
	assert.True(t, existing.Start.Equal(newStart))
}

func TestExistingKeepMakesNoCalendarWrites(t *testing.T) {
	contact := fullContact()
	oldStart := time.Date(2025, 3, 5, 11, 0, 0, 0, time.UTC)
	cal := &fakeCalendar{events: []models.CalendarEvent{taggedEvent("evt-old", oldStart, contact)}}
	engine := newTestEngine(cal, &fakeNotifier{})

	rec := newTestRecord()
	rec.Contact = contact
	rec.State = models.StatePendingResolution
	rec.Existing = &models.ExistingBooking{EventID: "evt-old", Start: oldStart}
	rec.RequestedTime = &models.TimePoint{At: oldStart.Add(2 * time.Hour), Spoken: "Wednesday at 1:00 PM"}
	rec.CandidateSource = models.SourceCaller

	outcome := engine.ProcessTurn(context.Background(), rec, models.TurnFacts{KeepExisting: true})
	require.True(t, outcome.Intercept)
	assert.Contains(t, outcome.Reply, "leave your appointment")
	require.NotNil(t, rec.RequestedTime)
	assert.True(t, rec.RequestedTime.At.Equal(oldStart))
	assert.Nil(t, rec.Existing)
	assert.Equal(t, models.StateCollecting, rec.State)
	assert.Empty(t, cal.inserts)
	assert.Empty(t, cal.deletes)
}

func TestMoveWithoutNewTimeCancelsAndAsks(t *testing.T) {
	contact := fullContact()
	oldStart := time.Date(2025, 3, 5, 11, 0, 0, 0, time.UTC)
	cal := &fakeCalendar{events: []models.CalendarEvent{taggedEvent("evt-old", oldStart, contact)}}
	notifier := &fakeNotifier{}
	engine := newTestEngine(cal, notifier)

	rec := newTestRecord()
	rec.Contact = contact
	rec.State = models.StatePendingResolution
	rec.Existing = &models.ExistingBooking{EventID: "evt-old", Start: oldStart}

	outcome := engine.ProcessTurn(context.Background(), rec, models.TurnFacts{MoveExisting: true})
	require.True(t, outcome.Intercept)
	assert.Contains(t, outcome.Reply, "What new day and time")
	assert.Equal(t, []string{"evt-old"}, cal.deletes)
	assert.Empty(t, cal.inserts)
	assert.Len(t, notifier.cancellations, 1)
	assert.Nil(t, rec.Existing)
	assert.Equal(t, models.StateCollecting, rec.State)
}

func TestPendingResolutionPassesThroughUnrelatedInput(t *testing.T) {
	contact := fullContact()
	oldStart := time.Date(2025, 3, 5, 11, 0, 0, 0, time.UTC)
	cal := &fakeCalendar{events: []models.CalendarEvent{taggedEvent("evt-old", oldStart, contact)}}
	engine := newTestEngine(cal, &fakeNotifier{})

	rec := newTestRecord()
	rec.Contact = contact
	rec.State = models.StatePendingResolution
	rec.Existing = &models.ExistingBooking{EventID: "evt-old", Start: oldStart}

	outcome := engine.ProcessTurn(context.Background(), rec, models.TurnFacts{})
	assert.False(t, outcome.Intercept)
	assert.Equal(t, models.StatePendingResolution, rec.State)
	require.NotNil(t, rec.Existing)
}

func TestCreateFailureRollsBackToSafeShape(t *testing.T) {
	cal := &fakeCalendar{insertErr: fmt.Errorf("calendar unavailable")}
	engine := newTestEngine(cal, &fakeNotifier{})

	rec := newTestRecord()
	rec.Contact = fullContact()
	tuesday3pm := time.Date(2025, 3, 4, 15, 0, 0, 0, time.UTC)

	outcome := engine.ProcessTurn(context.Background(), rec, models.TurnFacts{
		BookingIntent: true,
		Time:          &models.ExtractedTime{At: tuesday3pm, Spoken: "Tuesday, March 4 at 3:00 PM"},
	})

	require.True(t, outcome.Intercept)
	assert.Contains(t, outcome.Reply, "follow up")
	assert.NotEqual(t, models.StateConfirmed, rec.State)
	assert.Empty(t, rec.LastEventID)
	// Candidate survives so the next turn can retry.
	require.NotNil(t, rec.RequestedTime)
	assert.True(t, rec.RequestedTime.At.Equal(tuesday3pm))
}

func TestNewCycleAfterConfirmedPreservesContact(t *testing.T) {
	cal := &fakeCalendar{}
	engine := newTestEngine(cal, &fakeNotifier{})
	ctx := context.Background()

	rec := newTestRecord()
	rec.Contact = fullContact()
	rec.State = models.StateConfirmed
	rec.LastEventID = "evt-1"

	// Idle chatter after confirmation stays free-form.
	outcome := engine.ProcessTurn(ctx, rec, models.TurnFacts{Affirmative: true})
	assert.False(t, outcome.Intercept)
	assert.Equal(t, models.StateConfirmed, rec.State)

	// An explicit new booking request starts a fresh cycle with contact kept.
	friday10 := time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC)
	outcome = engine.ProcessTurn(ctx, rec, models.TurnFacts{
		BookingIntent: true,
		Time:          &models.ExtractedTime{At: friday10, Spoken: "Friday, March 7 at 10:00 AM"},
	})
	require.True(t, outcome.Intercept)
	assert.Equal(t, models.StateConfirmed, rec.State)
	assert.Equal(t, "John Smith", rec.Contact.Name)
	require.Len(t, cal.inserts, 1)
	assert.True(t, cal.inserts[0].Start.Equal(friday10))
}

func TestIdleWithoutIntentPassesThrough(t *testing.T) {
	engine := newTestEngine(&fakeCalendar{}, &fakeNotifier{})

	rec := newTestRecord()
	outcome := engine.ProcessTurn(context.Background(), rec, models.TurnFacts{
		Phone: "+61412345678",
	})
	assert.False(t, outcome.Intercept)
	assert.Equal(t, models.StateIdle, rec.State)
	// Contact is still captured for later turns.
	assert.Equal(t, "+61412345678", rec.Contact.Phone)
}

func TestDescriptionRoundTrip(t *testing.T) {
	contact := fullContact()
	desc := BuildDescription(contact)
	assert.Contains(t, desc, utils.BookingTag)

	parsed := ContactFromDescription(desc)
	assert.Equal(t, contact, parsed)
}
