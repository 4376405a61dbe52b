package session

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/phrasetrainer/internal/config"
	"github.com/example/phrasetrainer/internal/playback"
	"github.com/example/phrasetrainer/internal/spaced_repetition"
	"github.com/example/phrasetrainer/pkg/models"
)

type fakePlayer struct {
	errs  map[string]error
	plays []string
}

func (p *fakePlayer) Play(_ context.Context, path string) error {
	p.plays = append(p.plays, path)
	if p.errs != nil {
		return p.errs[path]
	}
	return nil
}

// scriptedInput pops one signal per call and reports EOF when the script
// runs out, like a closed stdin.
type scriptedInput struct {
	signals []models.Signal
}

func (s *scriptedInput) AwaitSignal(_ context.Context) (models.Signal, error) {
	if len(s.signals) == 0 {
		return models.SignalNotUnderstood, io.EOF
	}
	sig := s.signals[0]
	s.signals = s.signals[1:]
	return sig, nil
}

// blockingInput never yields; only the context ends the wait.
type blockingInput struct{}

func (blockingInput) AwaitSignal(ctx context.Context) (models.Signal, error) {
	<-ctx.Done()
	return models.SignalNotUnderstood, ctx.Err()
}

type memStore struct {
	saves int
	last  map[string]models.PhraseRecord
}

func (s *memStore) Load() (map[string]models.PhraseRecord, error) {
	out := make(map[string]models.PhraseRecord, len(s.last))
	for k, v := range s.last {
		out[k] = v
	}
	return out, nil
}

func (s *memStore) Save(ledger map[string]models.PhraseRecord) error {
	s.saves++
	s.last = make(map[string]models.PhraseRecord, len(ledger))
	for k, v := range ledger {
		s.last[k] = v
	}
	return nil
}

var runDay = time.Date(2026, 8, 23, 9, 0, 0, 0, time.UTC)

func newTestRunner(store *memStore, player *fakePlayer, src interface {
	AwaitSignal(context.Context) (models.Signal, error)
}, cfg config.Session) *Runner {
	r := NewRunner(store, player, src, spaced_repetition.New(), cfg)
	r.now = func() time.Time { return runDay }
	return r
}

func TestRunCommitsEachPhrase(t *testing.T) {
	store := &memStore{}
	player := &fakePlayer{}
	src := &scriptedInput{signals: []models.Signal{models.SignalUnderstood, models.SignalUnderstood}}
	r := newTestRunner(store, player, src, config.Session{MaxReplays: 3})

	plan := []models.CatalogEntry{entry("a"), entry("b")}
	ledger := map[string]models.PhraseRecord{}
	require.NoError(t, r.Run(context.Background(), plan, ledger))

	// One checkpoint per phrase plus the final save.
	assert.Equal(t, 3, store.saves)
	require.Len(t, store.last, 2)
	for _, id := range []string{"a", "b"} {
		rec := store.last[id]
		assert.Equal(t, 2, rec.FibIndex, "phrase %s", id)
		assert.Equal(t, models.DateOnly(runDay), rec.LastPlayedDate)
	}
	assert.Equal(t, []string{"a.mp3", "b.mp3"}, player.plays)
}

func TestRunReplaysUntilUnderstood(t *testing.T) {
	store := &memStore{}
	player := &fakePlayer{}
	src := &scriptedInput{signals: []models.Signal{models.SignalNotUnderstood, models.SignalUnderstood}}
	r := newTestRunner(store, player, src, config.Session{MaxReplays: 3})

	require.NoError(t, r.Run(context.Background(), []models.CatalogEntry{entry("a")}, map[string]models.PhraseRecord{}))

	rec := store.last["a"]
	assert.True(t, rec.Hesitation)
	assert.Equal(t, 1, rec.FibIndex)
	assert.Equal(t, models.DateOnly(runDay).AddDate(0, 0, 2), rec.NextDueDate)
	assert.Len(t, player.plays, 2, "phrase replayed once")
}

func TestRunExhaustedReplaysCountAsMiss(t *testing.T) {
	store := &memStore{}
	src := &scriptedInput{signals: []models.Signal{models.SignalNotUnderstood, models.SignalNotUnderstood}}
	r := newTestRunner(store, &fakePlayer{}, src, config.Session{MaxReplays: 2})

	require.NoError(t, r.Run(context.Background(), []models.CatalogEntry{entry("a")}, map[string]models.PhraseRecord{}))

	rec := store.last["a"]
	assert.Equal(t, 1, rec.MissCount)
	assert.False(t, rec.Hesitation)
	assert.Equal(t, models.DateOnly(runDay).AddDate(0, 0, 1), rec.NextDueDate)
}

func TestRunPlaybackErrorIsNotFatal(t *testing.T) {
	store := &memStore{}
	player := &fakePlayer{errs: map[string]error{
		"a.mp3": &playback.Error{Path: "a.mp3", Err: io.ErrUnexpectedEOF},
	}}
	src := &scriptedInput{signals: []models.Signal{models.SignalUnderstood}}
	r := newTestRunner(store, player, src, config.Session{MaxReplays: 2})

	plan := []models.CatalogEntry{entry("a"), entry("b")}
	require.NoError(t, r.Run(context.Background(), plan, map[string]models.PhraseRecord{}))

	// Every round of "a" failed to play, so it counts as missed and no input
	// was consumed for it; "b" still ran normally.
	require.Len(t, store.last, 2)
	assert.Equal(t, 1, store.last["a"].MissCount)
	assert.Equal(t, 2, store.last["b"].FibIndex)
}

func TestRunInputClosedEndsSessionGracefully(t *testing.T) {
	store := &memStore{}
	src := &scriptedInput{}
	r := newTestRunner(store, &fakePlayer{}, src, config.Session{MaxReplays: 2})

	require.NoError(t, r.Run(context.Background(), []models.CatalogEntry{entry("a")}, map[string]models.PhraseRecord{}))

	// The in-flight phrase is discarded but the ledger is still saved.
	assert.Empty(t, store.last)
	assert.Equal(t, 1, store.saves)
}

func TestRunCancelledContextKeepsCompletedPhrases(t *testing.T) {
	store := &memStore{}
	src := &scriptedInput{signals: []models.Signal{models.SignalUnderstood, models.SignalUnderstood}}
	r := newTestRunner(store, &fakePlayer{}, src, config.Session{MaxReplays: 2})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, r.Run(ctx, []models.CatalogEntry{entry("a")}, map[string]models.PhraseRecord{}))

	assert.Empty(t, store.last)
	assert.Equal(t, 1, store.saves, "final save still happens on cancellation")
}

func TestRunInputTimeoutCountsAsMiss(t *testing.T) {
	store := &memStore{}
	r := newTestRunner(store, &fakePlayer{}, blockingInput{}, config.Session{
		MaxReplays:   1,
		InputTimeout: 10 * time.Millisecond,
	})

	require.NoError(t, r.Run(context.Background(), []models.CatalogEntry{entry("a")}, map[string]models.PhraseRecord{}))

	rec := store.last["a"]
	assert.Equal(t, 1, rec.MissCount)
	assert.Equal(t, models.DateOnly(runDay).AddDate(0, 0, 1), rec.NextDueDate)
}
