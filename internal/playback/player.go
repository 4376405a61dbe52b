package playback

import (
	"context"
	"fmt"
)

// Player plays one audio file to completion or until the context is
// cancelled.
type Player interface {
	Play(ctx context.Context, filePath string) error
}

// Error reports a failed playback attempt (missing or corrupt file). It is
// scoped to a single round: the session logs it, counts the round as not
// understood and continues.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("playback %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
