package models

import "time"

// DateLayout is the on-disk format for all ledger dates.
const DateLayout = "2006-01-02"

// PhraseRecord tracks learning history for a single audio phrase.
// A phrase without a record has never been presented.
type PhraseRecord struct {
	PhraseID       string    `json:"phrase_id" db:"phrase_id"`
	FirstSeenDate  time.Time `json:"first_seen_date" db:"first_seen_date"`   // immutable once set
	LastPlayedDate time.Time `json:"last_played_date" db:"last_played_date"` // updated on every presentation
	NextDueDate    time.Time `json:"next_due_date" db:"next_due_date"`       // never earlier than LastPlayedDate
	FibIndex       int       `json:"fib_index" db:"fib_index"`               // position in the 1,1,2,3,5,... sequence, >= 1
	MissCount      int       `json:"miss_count" db:"miss_count"`             // lifetime presentations with no understood signal
	Hesitation     bool      `json:"hesitation_flag" db:"hesitation_flag"`   // last presentation needed a replay before success
}

// Due reports whether the phrase is eligible for a repeat on the given day.
func (r PhraseRecord) Due(today time.Time) bool {
	return !r.NextDueDate.After(today)
}

// DateOnly reduces a timestamp to its civil date, pinned to UTC so dates
// parsed from the ledger and dates derived from the wall clock compare
// consistently.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
