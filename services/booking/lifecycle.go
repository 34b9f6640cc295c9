package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bookline/models"
	"bookline/services/calendar"
	"bookline/utils"

	"go.uber.org/zap"
)

// Lifecycle creates and cancels calendar events, stamping the system tag and
// contact identity into the description so the locator and the reminder
// sweep can recover them later without a separate database.
type Lifecycle struct {
	Calendar calendar.Service
	Policy   Policy
}

// CreateBooking inserts an event at the given start. When the clamp policy is
// on, an out-of-range start is pushed into business hours first; every clamp
// is logged because it silently moves a time the caller may have confirmed.
func (m *Lifecycle) CreateBooking(ctx context.Context, at time.Time, contact models.Contact) (*models.ConfirmedEvent, error) {
	loc := m.Policy.Location()
	start := at.In(loc)

	if m.Policy.ClampToBusinessHours {
		clamped := m.Policy.clampIntoBusinessHours(start, m.Policy.Duration())
		if !clamped.Equal(start) {
			utils.GetLogger().Warn("Clamped booking start into business hours",
				zap.Time("requested", start),
				zap.Time("clamped", clamped))
			start = clamped
		}
	}

	input := models.EventInput{
		Start:       start,
		End:         start.Add(m.Policy.Duration()),
		Timezone:    loc.String(),
		Title:       eventTitle(contact),
		Description: BuildDescription(contact),
	}
	created, err := m.Calendar.InsertEvent(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to create booking event: %w", err)
	}
	return created, nil
}

// CancelBooking deletes an event by id.
func (m *Lifecycle) CancelBooking(ctx context.Context, eventID string) error {
	if err := m.Calendar.DeleteEvent(ctx, eventID); err != nil {
		return fmt.Errorf("failed to cancel booking event: %w", err)
	}
	return nil
}

func eventTitle(contact models.Contact) string {
	if contact.Name != "" {
		return fmt.Sprintf("Appointment - %s", contact.Name)
	}
	return "Appointment"
}

// BuildDescription renders the description-as-database payload: the system
// tag followed by one line per known contact field.
func BuildDescription(contact models.Contact) string {
	lines := []string{utils.BookingTag}
	if contact.Name != "" {
		lines = append(lines, "Name: "+contact.Name)
	}
	if contact.Phone != "" {
		lines = append(lines, "Phone: "+contact.Phone)
	}
	if contact.Email != "" {
		lines = append(lines, "Email: "+contact.Email)
	}
	return strings.Join(lines, "\n")
}

// ContactFromDescription parses the contact lines back out of a tagged event
// description. Used by the reminder sweep to re-derive who to notify.
func ContactFromDescription(description string) models.Contact {
	var contact models.Contact
	for _, line := range strings.Split(description, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "Name: "):
			contact.Name = strings.TrimPrefix(line, "Name: ")
		case strings.HasPrefix(line, "Phone: "):
			contact.Phone = strings.TrimPrefix(line, "Phone: ")
		case strings.HasPrefix(line, "Email: "):
			contact.Email = strings.TrimPrefix(line, "Email: ")
		}
	}
	return contact
}
