package stats

import (
	"time"

	"github.com/example/phrasetrainer/pkg/models"
)

// MasteredIndex is the Fibonacci position at which a phrase counts as
// mastered; from there the next interval is at least 13 days.
const MasteredIndex = 6

// Summary is an aggregate view over the phrase ledger.
type Summary struct {
	TotalPhrases int
	DueToday     int
	Mastered     int
	Hesitating   int       // last presentation needed a replay
	TotalMisses  int       // lifetime not-understood presentations
	NextDue      time.Time // earliest upcoming due date; zero when nothing is scheduled
}

// Compute aggregates the ledger for the given day.
func Compute(ledger map[string]models.PhraseRecord, today time.Time) Summary {
	var s Summary
	today = models.DateOnly(today)
	for _, rec := range ledger {
		s.TotalPhrases++
		s.TotalMisses += rec.MissCount
		if rec.Due(today) {
			s.DueToday++
		} else if s.NextDue.IsZero() || rec.NextDueDate.Before(s.NextDue) {
			s.NextDue = rec.NextDueDate
		}
		if rec.FibIndex >= MasteredIndex {
			s.Mastered++
		}
		if rec.Hesitation {
			s.Hesitating++
		}
	}
	return s
}
