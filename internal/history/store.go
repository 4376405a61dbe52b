package history

import (
	"fmt"

	"github.com/example/phrasetrainer/pkg/models"
)

// Store is the persistence contract for the phrase ledger. Load returns the
// full ledger keyed by phrase ID; Save atomically replaces it. There is no
// partial-update API: callers mutate an in-memory map and write it back whole,
// so a concurrent reader never observes a torn ledger.
type Store interface {
	Load() (map[string]models.PhraseRecord, error)
	Save(ledger map[string]models.PhraseRecord) error
}

// StorageError reports an unreadable or malformed ledger. It is fatal to
// session start: a corrupt ledger blocks the session instead of silently
// resetting history.
type StorageError struct {
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("history ledger %s: %v", e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
