package spaced_repetition

import (
	"time"

	"github.com/example/phrasetrainer/pkg/models"
)

// Review distances in days for the two non-advancing outcomes.
const (
	// FailureIntervalDays applies when a presentation ends with no
	// understood signal: back to the minimum distance for a fast review.
	FailureIntervalDays = 1
	// HesitationIntervalDays applies when the phrase was understood only
	// after at least one replay: a small fixed bump, not yet trusted to the
	// growing schedule.
	HesitationIntervalDays = 2
)

// Fibonacci implements the interval policy for phrase reviews. Every
// fully-successful recall advances the phrase one position along the sequence
// 1,1,2,3,5,8,... and the distance to the next review is the term after the
// new position, so well-known phrases are reviewed exponentially less often.
// There is no maximum interval.
type Fibonacci struct{}

// New creates the policy.
func New() *Fibonacci {
	return &Fibonacci{}
}

// Interval returns the nth term of the sequence 1,1,2,3,5,8,... (1-based).
func Interval(n int) int {
	if n <= 2 {
		return 1
	}
	a, b := 1, 1
	for i := 3; i <= n; i++ {
		a, b = b, a+b
	}
	return b
}

// ApplyOutcome computes the updated record for one presentation of phraseID
// on the given day. A nil record means the phrase was presented for the first
// time; its counters initialize before the outcome rules apply. The input
// record is never mutated.
func (f *Fibonacci) ApplyOutcome(record *models.PhraseRecord, phraseID string, outcome models.SessionOutcome, today time.Time) models.PhraseRecord {
	day := models.DateOnly(today)

	var rec models.PhraseRecord
	if record != nil {
		rec = *record
	} else {
		rec = models.PhraseRecord{
			PhraseID:      phraseID,
			FirstSeenDate: day,
			FibIndex:      1,
		}
	}
	rec.LastPlayedDate = day

	switch {
	case !outcome.Understood():
		// Never understood this round, replays exhausted included.
		rec.FibIndex = 1
		rec.MissCount++
		rec.Hesitation = false
		rec.NextDueDate = day.AddDate(0, 0, FailureIntervalDays)
	case outcome.Hesitated():
		rec.FibIndex = 1
		rec.Hesitation = true
		rec.NextDueDate = day.AddDate(0, 0, HesitationIntervalDays)
	default:
		// Understood on the first signal.
		rec.FibIndex++
		rec.Hesitation = false
		rec.NextDueDate = day.AddDate(0, 0, Interval(rec.FibIndex+1))
	}
	return rec
}
