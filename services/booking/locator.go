package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bookline/models"
	"bookline/services/calendar"
	"bookline/utils"
)

// Locator finds a previously created booking belonging to the same contact.
// Identity lives entirely in the event description (system tag plus contact
// lines), so duplicate prevention is per person, not per slot.
type Locator struct {
	Calendar calendar.Service
	Policy   Policy
}

// FindExistingBooking scans upcoming tagged events for a contact match.
// Returns (nil, nil) when none is found.
func (l *Locator) FindExistingBooking(ctx context.Context, contact models.Contact, from time.Time) (*models.ExistingBooking, error) {
	to := from.AddDate(0, 0, l.Policy.WindowDays)
	events, err := l.Calendar.ListEvents(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events for booking lookup: %w", err)
	}

	for _, ev := range events {
		if !strings.Contains(ev.Description, utils.BookingTag) {
			continue
		}
		if matchesContact(ev.Description, contact) {
			return &models.ExistingBooking{EventID: ev.ID, Start: ev.Start}, nil
		}
	}
	return nil, nil
}

// matchesContact does a substring match of any known contact identifier
// against the event description. Phone numbers compare digits-only so
// formatting differences don't hide a match.
func matchesContact(description string, contact models.Contact) bool {
	desc := strings.ToLower(description)

	if contact.Phone != "" {
		descDigits := digitsOnly(desc)
		phoneDigits := digitsOnly(contact.Phone)
		if phoneDigits != "" && strings.Contains(descDigits, phoneDigits) {
			return true
		}
	}
	if contact.Email != "" && strings.Contains(desc, strings.ToLower(contact.Email)) {
		return true
	}
	if contact.Name != "" && strings.Contains(desc, strings.ToLower(contact.Name)) {
		return true
	}
	return false
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
