package calendar

import (
	"context"
	"fmt"
	"time"

	"bookline/config"
	"bookline/models"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// GoogleCalendarService implements Service against the Google Calendar API.
type GoogleCalendarService struct {
	svc        *gcal.Service
	calendarID string
}

// NewGoogleCalendarService builds a calendar client from AppConfig. A service
// account credentials file is expected; the calendar must be shared with it.
func NewGoogleCalendarService(ctx context.Context) (*GoogleCalendarService, error) {
	opts := []option.ClientOption{}
	if config.AppConfig.GoogleCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(config.AppConfig.GoogleCredentialsFile))
	}
	svc, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize google calendar client: %w", err)
	}
	return &GoogleCalendarService{
		svc:        svc,
		calendarID: config.AppConfig.CalendarID,
	}, nil
}

func (g *GoogleCalendarService) ListEvents(ctx context.Context, from, to time.Time) ([]models.CalendarEvent, error) {
	call := g.svc.Events.List(g.calendarID).
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(2500)

	res, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar events: %w", err)
	}

	events := make([]models.CalendarEvent, 0, len(res.Items))
	for _, item := range res.Items {
		start, err := parseEventTime(item.Start)
		if err != nil {
			continue // all-day or malformed entries never block scheduling
		}
		end, err := parseEventTime(item.End)
		if err != nil {
			continue
		}
		events = append(events, models.CalendarEvent{
			ID:          item.Id,
			Start:       start,
			End:         end,
			Title:       item.Summary,
			Description: item.Description,
		})
	}
	return events, nil
}

func (g *GoogleCalendarService) InsertEvent(ctx context.Context, input models.EventInput) (*models.ConfirmedEvent, error) {
	ev := &gcal.Event{
		Summary:     input.Title,
		Description: input.Description,
		Start: &gcal.EventDateTime{
			DateTime: input.Start.Format(time.RFC3339),
			TimeZone: input.Timezone,
		},
		End: &gcal.EventDateTime{
			DateTime: input.End.Format(time.RFC3339),
			TimeZone: input.Timezone,
		},
	}

	created, err := g.svc.Events.Insert(g.calendarID, ev).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to insert calendar event: %w", err)
	}

	start, err := parseEventTime(created.Start)
	if err != nil {
		start = input.Start
	}
	end, err := parseEventTime(created.End)
	if err != nil {
		end = input.End
	}
	return &models.ConfirmedEvent{ID: created.Id, Start: start, End: end}, nil
}

func (g *GoogleCalendarService) DeleteEvent(ctx context.Context, eventID string) error {
	if err := g.svc.Events.Delete(g.calendarID, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete calendar event %s: %w", eventID, err)
	}
	return nil
}

func parseEventTime(edt *gcal.EventDateTime) (time.Time, error) {
	if edt == nil || edt.DateTime == "" {
		return time.Time{}, fmt.Errorf("event has no dateTime")
	}
	return time.Parse(time.RFC3339, edt.DateTime)
}
