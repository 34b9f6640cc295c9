package booking

import (
	"time"

	"bookline/config"
)

// Policy bundles the scheduling rules every component of the engine shares:
// business hours, slot shape, and the explicit behavior flags the engine
// refuses to hard-code.
type Policy struct {
	OpenHour  int
	CloseHour int

	GranularityMin int
	DurationMin    int
	WindowDays     int

	// VerifyCallerTimes controls whether caller-specified times get the same
	// pre-commit conflict check as system suggestions. Off by default:
	// a caller-stated time is taken at face value.
	VerifyCallerTimes bool
	// ClampToBusinessHours moves an out-of-range start into business hours at
	// creation time as a last-resort safety net. Every clamp is logged.
	ClampToBusinessHours bool

	Timezone *time.Location
}

// PolicyFromConfig builds the active policy from AppConfig.
func PolicyFromConfig() Policy {
	loc, err := time.LoadLocation(config.AppConfig.DefaultTimezone)
	if err != nil {
		loc = time.UTC
	}
	return Policy{
		OpenHour:             config.AppConfig.BusinessOpenHour,
		CloseHour:            config.AppConfig.BusinessCloseHour,
		GranularityMin:       config.AppConfig.SlotGranularityMin,
		DurationMin:          config.AppConfig.AppointmentMinutes,
		WindowDays:           config.AppConfig.SearchWindowDays,
		VerifyCallerTimes:    config.AppConfig.VerifyCallerTimes,
		ClampToBusinessHours: config.AppConfig.ClampToBusinessHours,
		Timezone:             loc,
	}
}

func (p Policy) Location() *time.Location {
	if p.Timezone != nil {
		return p.Timezone
	}
	return time.UTC
}

func (p Policy) Duration() time.Duration {
	return time.Duration(p.DurationMin) * time.Minute
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// dayOpen returns the opening instant of t's calendar day.
func (p Policy) dayOpen(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), p.OpenHour, 0, 0, 0, t.Location())
}

// dayClose returns the closing boundary of t's calendar day. A slot must end
// at or before this instant.
func (p Policy) dayClose(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), p.CloseHour, 0, 0, 0, t.Location())
}

// nextBusinessOpen returns the opening time of the next weekday strictly
// after t's day.
func (p Policy) nextBusinessOpen(t time.Time) time.Time {
	day := t.AddDate(0, 0, 1)
	for isWeekend(day) {
		day = day.AddDate(0, 0, 1)
	}
	return p.dayOpen(day)
}

// snapIntoBusinessHours moves a cursor forward to the nearest instant where a
// slot of the given duration fits inside weekday business hours. Returns the
// (possibly unchanged) cursor and whether it moved.
func (p Policy) snapIntoBusinessHours(cursor time.Time, duration time.Duration) (time.Time, bool) {
	switch {
	case isWeekend(cursor):
		return p.nextBusinessOpen(cursor), true
	case cursor.Before(p.dayOpen(cursor)):
		return p.dayOpen(cursor), true
	case cursor.Add(duration).After(p.dayClose(cursor)):
		// Starting before close is not enough: the slot must also end by it.
		return p.nextBusinessOpen(cursor), true
	default:
		return cursor, false
	}
}

// roundUpToGranularity advances t to the next slot boundary on the local
// wall clock. Already-aligned instants are returned unchanged.
func (p Policy) roundUpToGranularity(t time.Time) time.Time {
	mins := t.Hour()*60 + t.Minute()
	rem := mins % p.GranularityMin
	if rem == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t
	}
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return midnight.Add(time.Duration(mins+(p.GranularityMin-rem)) * time.Minute)
}

// clampIntoBusinessHours is the creation-time safety net: an out-of-range
// start is pushed forward until a full slot fits.
func (p Policy) clampIntoBusinessHours(start time.Time, duration time.Duration) time.Time {
	cursor := start
	for {
		snapped, moved := p.snapIntoBusinessHours(cursor, duration)
		if !moved {
			return cursor
		}
		cursor = snapped
	}
}

func sameMinute(a, b time.Time) bool {
	return a.Truncate(time.Minute).Equal(b.Truncate(time.Minute))
}
