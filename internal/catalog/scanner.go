package catalog

import (
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/example/phrasetrainer/pkg/models"
)

// Error reports a problem with the phrase catalog source.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("catalog %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// File names may carry a leading track number, e.g. "012 break the ice.mp3".
var leadingNumber = regexp.MustCompile(`^\d+\s*`)

// PhraseID derives the stable identifier from an audio file path: the base
// name with the extension and any leading track number stripped.
func PhraseID(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = leadingNumber.ReplaceAllString(name, "")
	return strings.TrimSpace(name)
}

// Scan walks dir recursively and returns one entry per audio file with the
// given extension (e.g. ".mp3"). Hidden directories are skipped. Entries whose
// derived phrase ID collides with an earlier one are logged and dropped; the
// scan continues. An unreadable directory aborts the scan with an Error.
func Scan(dir, format string) ([]models.CatalogEntry, error) {
	format = strings.ToLower(format)
	if !strings.HasPrefix(format, ".") {
		format = "." + format
	}

	var entries []models.CatalogEntry
	seen := make(map[string]string)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() != "." && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.ToLower(filepath.Ext(path)) != format {
			return nil
		}
		id := PhraseID(path)
		if id == "" {
			log.Printf("Skipping %s: no phrase name left after stripping the track number", path)
			return nil
		}
		if prev, dup := seen[id]; dup {
			log.Printf("Skipping %s: duplicate phrase %q (already provided by %s)", path, id, prev)
			return nil
		}
		seen[id] = path
		entries = append(entries, models.CatalogEntry{PhraseID: id, FilePath: path})
		return nil
	})
	if err != nil {
		return nil, &Error{Path: dir, Err: err}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].PhraseID < entries[j].PhraseID
	})
	return entries, nil
}
