package extraction

import (
	"time"

	"bookline/models"
)

// Extractor turns one raw utterance into the structured facts the booking
// engine consumes. Implementations may be rule-based, a classifier, or an
// LLM; the engine never sees raw text.
type Extractor interface {
	Extract(utterance string, loc *time.Location, now time.Time) models.TurnFacts
}
