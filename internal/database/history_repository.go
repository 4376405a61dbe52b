package database

import (
	"fmt"

	"github.com/example/phrasetrainer/internal/history"
	"github.com/example/phrasetrainer/pkg/models"
)

// HistoryRepository persists the phrase ledger in SQL. It satisfies
// history.Store: Load reads the full table, Save replaces it inside one
// transaction so a concurrent reader or a crash never sees a torn ledger.
type HistoryRepository struct{}

// NewHistoryRepository creates a new repository instance
func NewHistoryRepository() *HistoryRepository {
	return &HistoryRepository{}
}

// Load returns the full ledger keyed by phrase ID.
func (r *HistoryRepository) Load() (map[string]models.PhraseRecord, error) {
	var rows []models.PhraseRecord
	err := DB.Select(&rows, `
		SELECT phrase_id, first_seen_date, last_played_date, next_due_date,
		       fib_index, miss_count, hesitation_flag
		FROM phrase_history
	`)
	if err != nil {
		return nil, &history.StorageError{Path: "phrase_history", Err: err}
	}

	ledger := make(map[string]models.PhraseRecord, len(rows))
	for _, rec := range rows {
		if rec.FibIndex < 1 {
			return nil, &history.StorageError{
				Path: "phrase_history",
				Err:  fmt.Errorf("phrase %q: fib_index %d out of range", rec.PhraseID, rec.FibIndex),
			}
		}
		rec.FirstSeenDate = models.DateOnly(rec.FirstSeenDate)
		rec.LastPlayedDate = models.DateOnly(rec.LastPlayedDate)
		rec.NextDueDate = models.DateOnly(rec.NextDueDate)
		ledger[rec.PhraseID] = rec
	}
	return ledger, nil
}

// Save replaces the stored ledger with the given one.
func (r *HistoryRepository) Save(ledger map[string]models.PhraseRecord) error {
	tx, err := DB.Beginx()
	if err != nil {
		return &history.StorageError{Path: "phrase_history", Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM phrase_history"); err != nil {
		return &history.StorageError{Path: "phrase_history", Err: err}
	}

	insert := `
		INSERT INTO phrase_history (
			phrase_id, first_seen_date, last_played_date, next_due_date,
			fib_index, miss_count, hesitation_flag
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, rec := range ledger {
		_, err := tx.Exec(insert,
			rec.PhraseID,
			rec.FirstSeenDate.Format(models.DateLayout),
			rec.LastPlayedDate.Format(models.DateLayout),
			rec.NextDueDate.Format(models.DateLayout),
			rec.FibIndex,
			rec.MissCount,
			rec.Hesitation,
		)
		if err != nil {
			return &history.StorageError{Path: "phrase_history", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &history.StorageError{Path: "phrase_history", Err: err}
	}
	return nil
}
