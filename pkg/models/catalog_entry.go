package models

// CatalogEntry is one available audio phrase file. It is a read-only snapshot
// of the sample directory and is never persisted.
type CatalogEntry struct {
	PhraseID string `json:"phrase_id"`
	FilePath string `json:"file_path"`
}
