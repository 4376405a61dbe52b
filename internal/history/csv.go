package history

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/example/phrasetrainer/pkg/models"
)

// Columns of the CSV ledger, in file order.
var columns = []string{
	"phrase_id",
	"first_seen_date",
	"last_played_date",
	"next_due_date",
	"fib_index",
	"miss_count",
	"hesitation_flag",
}

// CSVStore keeps the ledger in a single human-readable CSV file. Save writes
// to a temporary file in the same directory and renames it over the old
// ledger, so a crash mid-write never leaves a partial file visible.
type CSVStore struct {
	path string
}

// NewCSVStore creates a store backed by the given file path. The file is
// created on the first Save.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Load reads the full ledger. A missing file yields an empty ledger; an
// existing but unreadable or malformed file yields a StorageError.
func (s *CSVStore) Load() (map[string]models.PhraseRecord, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]models.PhraseRecord{}, nil
	}
	if err != nil {
		return nil, &StorageError{Path: s.path, Err: err}
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, &StorageError{Path: s.path, Err: err}
	}

	ledger := make(map[string]models.PhraseRecord, len(rows))
	for i, row := range rows {
		if i == 0 {
			if err := checkHeader(row); err != nil {
				return nil, &StorageError{Path: s.path, Err: err}
			}
			continue
		}
		rec, err := parseRow(row)
		if err != nil {
			return nil, &StorageError{Path: s.path, Err: fmt.Errorf("row %d: %w", i+1, err)}
		}
		if _, dup := ledger[rec.PhraseID]; dup {
			return nil, &StorageError{Path: s.path, Err: fmt.Errorf("row %d: duplicate phrase_id %q", i+1, rec.PhraseID)}
		}
		ledger[rec.PhraseID] = rec
	}
	return ledger, nil
}

// Save persists the full ledger, overwriting prior contents. Rows are written
// in phrase ID order so repeated saves of the same ledger are byte-identical.
func (s *CSVStore) Save(ledger map[string]models.PhraseRecord) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".history-*.csv")
	if err != nil {
		return &StorageError{Path: s.path, Err: err}
	}
	defer os.Remove(tmp.Name())

	writer := csv.NewWriter(tmp)
	if err := writer.Write(columns); err != nil {
		tmp.Close()
		return &StorageError{Path: s.path, Err: err}
	}

	ids := make([]string, 0, len(ledger))
	for id := range ledger {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if err := writer.Write(formatRow(ledger[id])); err != nil {
			tmp.Close()
			return &StorageError{Path: s.path, Err: err}
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		return &StorageError{Path: s.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &StorageError{Path: s.path, Err: err}
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return &StorageError{Path: s.path, Err: err}
	}
	return nil
}

func checkHeader(row []string) error {
	if len(row) != len(columns) {
		return fmt.Errorf("header has %d columns, want %d", len(row), len(columns))
	}
	for i, col := range columns {
		if row[i] != col {
			return fmt.Errorf("header column %d is %q, want %q", i+1, row[i], col)
		}
	}
	return nil
}

func parseRow(row []string) (models.PhraseRecord, error) {
	var rec models.PhraseRecord
	if len(row) != len(columns) {
		return rec, fmt.Errorf("has %d columns, want %d", len(row), len(columns))
	}
	rec.PhraseID = row[0]
	if rec.PhraseID == "" {
		return rec, fmt.Errorf("empty phrase_id")
	}

	var err error
	if rec.FirstSeenDate, err = time.Parse(models.DateLayout, row[1]); err != nil {
		return rec, fmt.Errorf("first_seen_date: %w", err)
	}
	if rec.LastPlayedDate, err = time.Parse(models.DateLayout, row[2]); err != nil {
		return rec, fmt.Errorf("last_played_date: %w", err)
	}
	if rec.NextDueDate, err = time.Parse(models.DateLayout, row[3]); err != nil {
		return rec, fmt.Errorf("next_due_date: %w", err)
	}
	if rec.FibIndex, err = strconv.Atoi(row[4]); err != nil {
		return rec, fmt.Errorf("fib_index: %w", err)
	}
	if rec.FibIndex < 1 {
		return rec, fmt.Errorf("fib_index %d out of range", rec.FibIndex)
	}
	if rec.MissCount, err = strconv.Atoi(row[5]); err != nil {
		return rec, fmt.Errorf("miss_count: %w", err)
	}
	if rec.MissCount < 0 {
		return rec, fmt.Errorf("miss_count %d out of range", rec.MissCount)
	}
	if rec.Hesitation, err = strconv.ParseBool(row[6]); err != nil {
		return rec, fmt.Errorf("hesitation_flag: %w", err)
	}
	return rec, nil
}

func formatRow(rec models.PhraseRecord) []string {
	return []string{
		rec.PhraseID,
		rec.FirstSeenDate.Format(models.DateLayout),
		rec.LastPlayedDate.Format(models.DateLayout),
		rec.NextDueDate.Format(models.DateLayout),
		strconv.Itoa(rec.FibIndex),
		strconv.Itoa(rec.MissCount),
		strconv.FormatBool(rec.Hesitation),
	}
}
