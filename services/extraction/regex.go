package extraction

import (
	"regexp"
	"strings"
	"time"

	"bookline/models"
)

// DefaultExtractor is the rule-based implementation of Extractor.
type DefaultExtractor struct{}

func NewDefaultExtractor() *DefaultExtractor {
	return &DefaultExtractor{}
}

var (
	bookingIntentRe = regexp.MustCompile(`(?i)\b(book|booking|booked|appointment|schedule|reschedule|reserve|reservation|come in|fit me in)\b`)
	earliestRe      = regexp.MustCompile(`(?i)\b(earliest|soonest|as soon as possible|asap|first available|next available|first opening|next opening)\b`)
	affirmativeRe   = regexp.MustCompile(`(?i)\b(yes|yeah|yep|yup|sure|okay|ok|sounds good|perfect|that works|works for me|go ahead|please do|confirm)\b`)
	negativeRe      = regexp.MustCompile(`(?i)\b(no|nope|nah|doesn'?t work|does not work|can'?t make|cannot make|not good|won'?t work|another time|something else)\b`)
	keepRe          = regexp.MustCompile(`(?i)\b(keep|leave) (it|that|the appointment|my appointment)\b|\bas it is\b|\bdon'?t change\b|\bstay(s)? as\b`)
	moveRe          = regexp.MustCompile(`(?i)\b(move|change|switch|cancel|reschedule)\b|\bdifferent time\b`)

	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phoneRe = regexp.MustCompile(`\+?\d[\d\s\-().]{6,}\d`)

	nameRe         = regexp.MustCompile(`(?i)\b(?:my name is|my name'?s|this is|i'?m|i am)\s+(?:actually\s+)?([a-zA-Z]+(?:\s+[a-zA-Z]+)?)`)
	nameOverrideRe = regexp.MustCompile(`(?i)\b(actually|sorry|correction|i meant|wrong name|not)\b.*\bname\b|\bname\b.*\b(actually|i meant)\b`)
)

// nameStopWords are words that follow "I'm ..." without being a name.
var nameStopWords = map[string]bool{
	"calling": true, "looking": true, "trying": true, "hoping": true,
	"going": true, "not": true, "just": true, "here": true, "good": true,
	"fine": true, "sorry": true, "booked": true, "free": true, "available": true,
	"wondering": true, "interested": true, "happy": true, "ready": true,
}

// Extract runs every detector over the utterance and assembles TurnFacts.
func (x *DefaultExtractor) Extract(utterance string, loc *time.Location, now time.Time) models.TurnFacts {
	facts := models.TurnFacts{
		BookingIntent:   x.DetectsBookingIntent(utterance),
		EarliestRequest: x.DetectsEarliestRequest(utterance),
		Affirmative:     x.IsAffirmative(utterance),
		Negative:        x.IsNegative(utterance),
		KeepExisting:    x.DetectsKeepPhrase(utterance),
		MoveExisting:    x.DetectsMovePhrase(utterance),
	}

	name, override := x.ExtractName(utterance)
	facts.Name = name
	facts.NameOverride = override
	facts.Phone = x.ExtractPhone(utterance)
	facts.Email = x.ExtractEmail(utterance)
	facts.Time = x.ExtractTime(utterance, loc, now)
	return facts
}

func (x *DefaultExtractor) DetectsBookingIntent(s string) bool {
	return bookingIntentRe.MatchString(s)
}

func (x *DefaultExtractor) DetectsEarliestRequest(s string) bool {
	return earliestRe.MatchString(s)
}

func (x *DefaultExtractor) IsAffirmative(s string) bool {
	// A "no" anywhere beats a trailing "that works".
	if negativeRe.MatchString(s) {
		return false
	}
	return affirmativeRe.MatchString(s)
}

func (x *DefaultExtractor) IsNegative(s string) bool {
	return negativeRe.MatchString(s)
}

func (x *DefaultExtractor) DetectsKeepPhrase(s string) bool {
	return keepRe.MatchString(s)
}

func (x *DefaultExtractor) DetectsMovePhrase(s string) bool {
	// "keep it, don't change it" is a keep, not a move.
	if keepRe.MatchString(s) {
		return false
	}
	return moveRe.MatchString(s)
}

// ExtractName returns a detected name and whether the caller explicitly
// corrected a previously given one.
func (x *DefaultExtractor) ExtractName(s string) (string, bool) {
	m := nameRe.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	candidate := strings.TrimSpace(m[1])
	first := strings.ToLower(strings.Fields(candidate)[0])
	if nameStopWords[first] {
		return "", false
	}
	return titleCase(candidate), nameOverrideRe.MatchString(s)
}

func (x *DefaultExtractor) ExtractEmail(s string) string {
	return emailRe.FindString(s)
}

func (x *DefaultExtractor) ExtractPhone(s string) string {
	raw := phoneRe.FindString(s)
	if raw == "" {
		return ""
	}
	digits := normalizeDigits(raw)
	// Clock times and dates also look like short digit runs.
	if len(digits) < 8 {
		return ""
	}
	if strings.HasPrefix(strings.TrimSpace(raw), "+") {
		return "+" + digits
	}
	return digits
}

func normalizeDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
		}
	}
	return strings.Join(words, " ")
}
