package booking

import (
	"context"
	"fmt"
	"sort"
	"time"

	"bookline/models"
	"bookline/services/calendar"
	"bookline/services/extraction"
)

// Scheduler finds the earliest free slot inside business hours and answers
// point conflict queries. It holds no state: every call is a fresh read of
// the remote calendar.
type Scheduler struct {
	Calendar calendar.Service
	Policy   Policy
}

// FindEarliestSlot sweeps forward from anchor and returns the first slot of
// the policy duration that fits inside weekday business hours and overlaps no
// existing event. Returns (nil, nil) when the search window is exhausted.
//
// Events are fetched once and sorted; on overlap the cursor jumps to the
// latest end among all overlapping events, so occupied regions are crossed in
// one step instead of one granularity tick at a time.
func (s *Scheduler) FindEarliestSlot(ctx context.Context, anchor time.Time) (*models.TimePoint, error) {
	p := s.Policy
	loc := p.Location()
	anchor = anchor.In(loc)
	windowEnd := anchor.AddDate(0, 0, p.WindowDays)
	duration := p.Duration()

	events, err := s.Calendar.ListEvents(ctx, anchor, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events for slot search: %w", err)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Start.Before(events[j].Start) })

	cursor := p.roundUpToGranularity(anchor)
	for cursor.Before(windowEnd) {
		if snapped, moved := p.snapIntoBusinessHours(cursor, duration); moved {
			cursor = snapped
			continue
		}

		slotEnd := cursor.Add(duration)
		var latestEnd time.Time
		for _, ev := range events {
			if ev.Overlaps(cursor, slotEnd) && ev.End.After(latestEnd) {
				latestEnd = ev.End
			}
		}
		if latestEnd.IsZero() {
			return &models.TimePoint{At: cursor, Spoken: extraction.SpokenTime(cursor)}, nil
		}
		cursor = p.roundUpToGranularity(latestEnd.In(loc))
	}
	return nil, nil
}

// HasConflict reports whether any existing event overlaps
// [start, start+duration) under half-open interval semantics: an event ending
// exactly at start does not conflict.
func (s *Scheduler) HasConflict(ctx context.Context, start time.Time) (bool, error) {
	end := start.Add(s.Policy.Duration())
	events, err := s.Calendar.ListEvents(ctx, start, end)
	if err != nil {
		return false, fmt.Errorf("failed to fetch events for conflict check: %w", err)
	}
	for _, ev := range events {
		if ev.Overlaps(start, end) {
			return true, nil
		}
	}
	return false, nil
}
