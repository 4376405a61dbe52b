package input

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/phrasetrainer/pkg/models"
)

func TestTerminalSourceMapsLines(t *testing.T) {
	src := NewTerminalSource(strings.NewReader("a\nxyz\n\ngood\nagain\n"))
	ctx := context.Background()

	want := []models.Signal{
		models.SignalNotUnderstood,
		models.SignalUnderstood, // "xyz" is re-prompted, the empty line counts
		models.SignalUnderstood,
		models.SignalNotUnderstood,
	}
	for i, w := range want {
		sig, err := src.AwaitSignal(ctx)
		require.NoError(t, err, "signal %d", i)
		assert.Equal(t, w, sig, "signal %d", i)
	}

	_, err := src.AwaitSignal(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestTerminalSourceHonorsContext(t *testing.T) {
	r, _ := io.Pipe() // never written to
	src := NewTerminalSource(r)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := src.AwaitSignal(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
