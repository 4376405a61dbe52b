package config

import (
	"fmt"
	"time"
)

// Error reports invalid session configuration. It is fatal before any
// playback begins.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("config: %s %s", e.Field, e.Reason)
}

// Session holds the runtime configuration for one review session.
type Session struct {
	// Directory scanned for audio phrase files
	SampleDir string
	// Path of the CSV ledger (csv store only)
	HistoryPath string
	// Ledger store driver: "csv", "sqlite" or "postgres"
	StoreDriver string
	// Audio file extension to include, e.g. ".mp3"
	AudioFormat string
	// Number of due phrases to repeat per session
	SamplesRepeat int
	// Number of new phrases to introduce per session
	SamplesNew int
	// Playback rounds before a phrase counts as missed
	MaxReplays int
	// How long to wait for a recall signal per round; zero waits forever
	InputTimeout time.Duration
}

// Default returns the configuration used when no flags are given.
func Default() Session {
	return Session{
		SampleDir:     ".",
		HistoryPath:   "history.csv",
		StoreDriver:   "csv",
		AudioFormat:   ".mp3",
		SamplesRepeat: 5,
		SamplesNew:    3,
		MaxReplays:    3,
	}
}

// Validate checks the configuration and returns an Error on the first
// invalid field.
func (c Session) Validate() error {
	if c.SampleDir == "" {
		return &Error{Field: "dir", Reason: "must not be empty"}
	}
	if c.SamplesRepeat < 0 {
		return &Error{Field: "repeat", Reason: "must be non-negative"}
	}
	if c.SamplesNew < 0 {
		return &Error{Field: "new", Reason: "must be non-negative"}
	}
	if c.MaxReplays < 1 {
		return &Error{Field: "max-replays", Reason: "must be at least 1"}
	}
	if c.InputTimeout < 0 {
		return &Error{Field: "input-timeout", Reason: "must be non-negative"}
	}
	if c.AudioFormat == "" || c.AudioFormat == "." {
		return &Error{Field: "format", Reason: "must name a file extension"}
	}
	switch c.StoreDriver {
	case "csv":
		if c.HistoryPath == "" {
			return &Error{Field: "history", Reason: "must not be empty for the csv store"}
		}
	case "sqlite", "postgres":
	default:
		return &Error{Field: "store", Reason: `must be one of "csv", "sqlite", "postgres"`}
	}
	return nil
}
