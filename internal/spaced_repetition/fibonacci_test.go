package spaced_repetition

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/phrasetrainer/pkg/models"
)

// The policy strips the clock, so a mid-afternoon timestamp is fine here.
var day = time.Date(2026, 8, 23, 14, 30, 0, 0, time.UTC)

func date(t time.Time) time.Time {
	return models.DateOnly(t)
}

func outcome(signals ...models.Signal) models.SessionOutcome {
	return models.SessionOutcome{Signals: signals}
}

func TestInterval(t *testing.T) {
	want := []int{1, 1, 2, 3, 5, 8, 13, 21}
	for i, w := range want {
		assert.Equal(t, w, Interval(i+1), "term %d", i+1)
	}
}

func TestFirstPresentationImmediateSuccess(t *testing.T) {
	rec := New().ApplyOutcome(nil, "break the ice", outcome(models.SignalUnderstood), day)

	assert.Equal(t, "break the ice", rec.PhraseID)
	assert.Equal(t, date(day), rec.FirstSeenDate)
	assert.Equal(t, date(day), rec.LastPlayedDate)
	assert.Equal(t, 2, rec.FibIndex)
	// New index 2, interval is the following term: fib(3) = 2 days.
	assert.Equal(t, date(day).AddDate(0, 0, 2), rec.NextDueDate)
	assert.Equal(t, 0, rec.MissCount)
	assert.False(t, rec.Hesitation)
}

func TestHesitationResetsIndex(t *testing.T) {
	prev := models.PhraseRecord{
		PhraseID:       "give up",
		FirstSeenDate:  date(day).AddDate(0, 0, -30),
		LastPlayedDate: date(day).AddDate(0, 0, -5),
		NextDueDate:    date(day),
		FibIndex:       4,
		MissCount:      2,
	}

	rec := New().ApplyOutcome(&prev, prev.PhraseID, outcome(models.SignalNotUnderstood, models.SignalUnderstood), day)

	assert.Equal(t, 1, rec.FibIndex)
	assert.Equal(t, date(day).AddDate(0, 0, HesitationIntervalDays), rec.NextDueDate)
	assert.True(t, rec.Hesitation)
	assert.Equal(t, 2, rec.MissCount, "hesitation must not touch the miss counter")
	assert.Equal(t, prev.FirstSeenDate, rec.FirstSeenDate)
	assert.Equal(t, date(day), rec.LastPlayedDate)
}

func TestExhaustedOutcomeCountsAsMiss(t *testing.T) {
	prev := models.PhraseRecord{
		PhraseID:      "walk",
		FirstSeenDate: date(day).AddDate(0, 0, -10),
		NextDueDate:   date(day),
		FibIndex:      3,
		MissCount:     1,
	}

	rec := New().ApplyOutcome(&prev, prev.PhraseID, outcome(models.SignalNotUnderstood, models.SignalNotUnderstood), day)

	assert.Equal(t, 2, rec.MissCount)
	assert.Equal(t, 1, rec.FibIndex)
	assert.Equal(t, date(day).AddDate(0, 0, FailureIntervalDays), rec.NextDueDate)
	assert.False(t, rec.Hesitation)
}

func TestFailureAlwaysResetsRegardlessOfIndex(t *testing.T) {
	for fib := 1; fib <= 8; fib++ {
		prev := models.PhraseRecord{PhraseID: "p", FirstSeenDate: date(day), FibIndex: fib}
		rec := New().ApplyOutcome(&prev, "p", outcome(models.SignalNotUnderstood), day)
		assert.Equal(t, 1, rec.FibIndex, "starting from index %d", fib)
		assert.Equal(t, date(day).AddDate(0, 0, 1), rec.NextDueDate, "starting from index %d", fib)
	}
}

func TestImmediateSuccessesAccelerate(t *testing.T) {
	policy := New()
	rec := policy.ApplyOutcome(nil, "p", outcome(models.SignalUnderstood), day)
	prevInterval := 0
	today := day

	for i := 0; i < 8; i++ {
		today = rec.NextDueDate
		prevIndex := rec.FibIndex
		rec = policy.ApplyOutcome(&rec, "p", outcome(models.SignalUnderstood), today)

		require.Equal(t, prevIndex+1, rec.FibIndex)
		interval := int(rec.NextDueDate.Sub(rec.LastPlayedDate).Hours() / 24)
		assert.GreaterOrEqual(t, interval, prevInterval, "intervals must not shrink across successes")
		assert.Equal(t, Interval(rec.FibIndex+1), interval)
		prevInterval = interval
	}
	assert.Equal(t, 0, rec.MissCount)
}

func TestNextDueNeverBeforeLastPlayed(t *testing.T) {
	outcomes := []models.SessionOutcome{
		outcome(models.SignalUnderstood),
		outcome(models.SignalNotUnderstood, models.SignalUnderstood),
		outcome(models.SignalNotUnderstood, models.SignalNotUnderstood),
		outcome(),
	}
	for _, o := range outcomes {
		rec := New().ApplyOutcome(nil, "p", o, day)
		assert.False(t, rec.NextDueDate.Before(rec.LastPlayedDate), "outcome %v", o.Signals)
		assert.GreaterOrEqual(t, rec.FibIndex, 1, "outcome %v", o.Signals)
	}
}

func TestApplyOutcomeDoesNotMutateInput(t *testing.T) {
	prev := models.PhraseRecord{PhraseID: "p", FirstSeenDate: date(day), FibIndex: 3, MissCount: 1}
	saved := prev
	New().ApplyOutcome(&prev, "p", outcome(models.SignalUnderstood), day)
	assert.Equal(t, saved, prev)
}
