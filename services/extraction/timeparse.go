package extraction

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"bookline/models"
)

var (
	clockRe   = regexp.MustCompile(`(?i)\b(\d{1,2})(?::(\d{2}))?\s*(am|pm|a\.m\.|p\.m\.)\b`)
	clock24Re = regexp.MustCompile(`\b([01]?\d|2[0-3]):([0-5]\d)\b`)
	noonRe    = regexp.MustCompile(`(?i)\b(noon|midday)\b`)

	weekdayNames = map[string]time.Weekday{
		"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
		"wednesday": time.Wednesday, "thursday": time.Thursday,
		"friday": time.Friday, "saturday": time.Saturday,
	}
	weekdayRe  = regexp.MustCompile(`(?i)\b(sunday|monday|tuesday|wednesday|thursday|friday|saturday)\b`)
	tomorrowRe = regexp.MustCompile(`(?i)\btomorrow\b`)
	todayRe    = regexp.MustCompile(`(?i)\btoday\b`)
)

// ExtractTime parses an explicit start instant from the utterance in the
// caller's timezone. A clock time is required; day words adjust the date.
// Returns nil when no parseable time is present — absence is not an error.
func (x *DefaultExtractor) ExtractTime(s string, loc *time.Location, now time.Time) *models.ExtractedTime {
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)

	hour, minute, ok := parseClock(s)
	if !ok {
		return nil
	}

	day := resolveDay(s, now, hour, minute)
	at := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, loc)

	return &models.ExtractedTime{
		At:     at,
		Spoken: SpokenTime(at),
	}
}

// SpokenTime renders an instant the way the agent reads times back to the
// caller, e.g. "Tuesday, March 3 at 3:00 PM".
func SpokenTime(t time.Time) string {
	return t.Format("Monday, January 2 at 3:04 PM")
}

func parseClock(s string) (hour, minute int, ok bool) {
	if m := clockRe.FindStringSubmatch(s); m != nil {
		hour, _ = strconv.Atoi(m[1])
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		meridiem := strings.ToLower(strings.ReplaceAll(m[3], ".", ""))
		if meridiem == "pm" && hour < 12 {
			hour += 12
		}
		if meridiem == "am" && hour == 12 {
			hour = 0
		}
		if hour > 23 || minute > 59 {
			return 0, 0, false
		}
		return hour, minute, true
	}
	if m := clock24Re.FindStringSubmatch(s); m != nil {
		hour, _ = strconv.Atoi(m[1])
		minute, _ = strconv.Atoi(m[2])
		return hour, minute, true
	}
	if noonRe.MatchString(s) {
		return 12, 0, true
	}
	return 0, 0, false
}

// resolveDay picks the date the clock time refers to: an explicit weekday
// means the next occurrence of that weekday; "tomorrow"/"today" are literal;
// otherwise today if the time is still ahead, else tomorrow.
func resolveDay(s string, now time.Time, hour, minute int) time.Time {
	if m := weekdayRe.FindString(s); m != "" {
		target := weekdayNames[strings.ToLower(m)]
		day := now
		for i := 0; i < 7; i++ {
			if day.Weekday() == target {
				if i > 0 {
					return day
				}
				// Same weekday today only counts while the time is ahead.
				if hour*60+minute > now.Hour()*60+now.Minute() {
					return day
				}
			}
			day = day.AddDate(0, 0, 1)
		}
		return now.AddDate(0, 0, 7)
	}
	if tomorrowRe.MatchString(s) {
		return now.AddDate(0, 0, 1)
	}
	if todayRe.MatchString(s) {
		return now
	}
	if hour*60+minute > now.Hour()*60+now.Minute() {
		return now
	}
	return now.AddDate(0, 0, 1)
}
