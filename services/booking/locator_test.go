package booking

import (
	"context"
	"testing"
	"time"

	"bookline/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocatorIgnoresUntaggedEvents(t *testing.T) {
	start := day(4, 11, 0)
	cal := &fakeCalendar{events: []models.CalendarEvent{
		{ID: "foreign", Start: start, End: start.Add(30 * time.Minute), Description: "Phone: +61412345678"},
	}}
	l := &Locator{Calendar: cal, Policy: testPolicy()}

	found, err := l.FindExistingBooking(context.Background(), models.Contact{Phone: "+61412345678"}, testNow)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestLocatorMatchesPhoneDigitsOnly(t *testing.T) {
	contact := models.Contact{Name: "John Smith", Phone: "+61 412 345 678"}
	cal := &fakeCalendar{events: []models.CalendarEvent{taggedEvent("evt-1", day(4, 11, 0), contact)}}
	l := &Locator{Calendar: cal, Policy: testPolicy()}

	// Same number, different formatting.
	found, err := l.FindExistingBooking(context.Background(), models.Contact{Phone: "+61-412-345-678"}, testNow)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "evt-1", found.EventID)
}

func TestLocatorMatchesNameCaseInsensitive(t *testing.T) {
	contact := models.Contact{Name: "John Smith"}
	cal := &fakeCalendar{events: []models.CalendarEvent{taggedEvent("evt-1", day(4, 11, 0), contact)}}
	l := &Locator{Calendar: cal, Policy: testPolicy()}

	found, err := l.FindExistingBooking(context.Background(), models.Contact{Name: "john smith"}, testNow)
	require.NoError(t, err)
	require.NotNil(t, found)
}

func TestLocatorWindowExcludesFarFuture(t *testing.T) {
	contact := models.Contact{Phone: "+61412345678"}
	// Ten days out is past the seven-day lookup window.
	cal := &fakeCalendar{events: []models.CalendarEvent{taggedEvent("evt-1", day(13, 11, 0), contact)}}
	l := &Locator{Calendar: cal, Policy: testPolicy()}

	found, err := l.FindExistingBooking(context.Background(), contact, testNow)
	require.NoError(t, err)
	assert.Nil(t, found)
}
