package input

import (
	"bufio"
	"context"
	"io"
	"log"
	"strings"

	"github.com/example/phrasetrainer/pkg/models"
)

// Source yields one binary recall signal per playback round. AwaitSignal
// blocks until a signal arrives or the context ends; there is no timeout
// unless the caller puts a deadline on the context.
type Source interface {
	AwaitSignal(ctx context.Context) (models.Signal, error)
}

// TerminalSource maps lines on a reader to recall signals: an empty line
// (plain Enter) or "g" means understood, "a" or "again" means not understood.
// Anything else is re-prompted.
type TerminalSource struct {
	signals chan models.Signal
}

// NewTerminalSource starts reading from r. Typically r is os.Stdin.
func NewTerminalSource(r io.Reader) *TerminalSource {
	s := &TerminalSource{signals: make(chan models.Signal)}
	go s.readLoop(r)
	return s
}

func (s *TerminalSource) readLoop(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "", "g", "good":
			s.signals <- models.SignalUnderstood
		case "a", "again":
			s.signals <- models.SignalNotUnderstood
		default:
			log.Printf("Unrecognized input (Enter = understood, a = again)")
		}
	}
	close(s.signals)
}

// AwaitSignal returns the next signal. io.EOF means the input stream closed.
func (s *TerminalSource) AwaitSignal(ctx context.Context) (models.Signal, error) {
	select {
	case sig, ok := <-s.signals:
		if !ok {
			return models.SignalNotUnderstood, io.EOF
		}
		return sig, nil
	case <-ctx.Done():
		return models.SignalNotUnderstood, ctx.Err()
	}
}
