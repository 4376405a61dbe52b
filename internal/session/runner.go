package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/example/phrasetrainer/internal/config"
	"github.com/example/phrasetrainer/internal/history"
	"github.com/example/phrasetrainer/internal/input"
	"github.com/example/phrasetrainer/internal/playback"
	"github.com/example/phrasetrainer/internal/spaced_repetition"
	"github.com/example/phrasetrainer/pkg/models"
)

// Runner drives one review session over a planned phrase sequence. Phrases
// are presented strictly in order; the ledger is checkpointed through the
// store after every committed phrase, so an interrupted session keeps every
// completed outcome and loses only the in-flight presentation.
type Runner struct {
	store        history.Store
	player       playback.Player
	input        input.Source
	policy       *spaced_repetition.Fibonacci
	maxReplays   int
	inputTimeout time.Duration
	now          func() time.Time
}

// NewRunner wires a runner from its collaborators and the session config.
func NewRunner(store history.Store, player playback.Player, src input.Source, policy *spaced_repetition.Fibonacci, cfg config.Session) *Runner {
	return &Runner{
		store:        store,
		player:       player,
		input:        src,
		policy:       policy,
		maxReplays:   cfg.MaxReplays,
		inputTimeout: cfg.InputTimeout,
		now:          time.Now,
	}
}

// Run presents every phrase in the plan, applies the interval policy to each
// collected outcome and upserts the result into ledger. Cancelling the
// context (or closing the input stream) ends the session early; the ledger
// already holds every completed phrase and is saved once more on the way out.
func (r *Runner) Run(ctx context.Context, plan []models.CatalogEntry, ledger map[string]models.PhraseRecord) error {
	for i, entry := range plan {
		if ctx.Err() != nil {
			break
		}

		fmt.Printf("\n[%d/%d] Phrase: %s\n", i+1, len(plan), entry.PhraseID)
		outcome, err := r.present(ctx, entry)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, io.EOF) {
				log.Printf("Session ended early, discarding the in-flight phrase")
				break
			}
			return err
		}

		var prev *models.PhraseRecord
		if rec, ok := ledger[entry.PhraseID]; ok {
			prev = &rec
		}
		updated := r.policy.ApplyOutcome(prev, entry.PhraseID, outcome, r.now())
		ledger[entry.PhraseID] = updated

		if err := r.store.Save(ledger); err != nil {
			return err
		}
		fmt.Printf("Next review: %s\n", updated.NextDueDate.Format(models.DateLayout))
	}
	return r.store.Save(ledger)
}

// present runs playback and input rounds for one phrase until an understood
// signal arrives or maxReplays rounds are exhausted. A playback failure or a
// per-round input timeout counts as a not-understood round.
func (r *Runner) present(ctx context.Context, entry models.CatalogEntry) (models.SessionOutcome, error) {
	var outcome models.SessionOutcome
	for round := 0; round < r.maxReplays; round++ {
		if err := r.player.Play(ctx, entry.FilePath); err != nil {
			if ctx.Err() != nil {
				return outcome, ctx.Err()
			}
			var perr *playback.Error
			if errors.As(err, &perr) {
				log.Printf("Playback failed for %s: %v", entry.PhraseID, err)
				outcome.Signals = append(outcome.Signals, models.SignalNotUnderstood)
				continue
			}
			return outcome, err
		}

		sig, err := r.awaitSignal(ctx)
		if err != nil {
			return outcome, err
		}
		outcome.Signals = append(outcome.Signals, sig)
		if sig == models.SignalUnderstood {
			break
		}
	}
	return outcome, nil
}

// awaitSignal waits for the next recall signal, applying the per-round
// timeout when one is configured. A timed-out round is a not-understood
// signal, not an error.
func (r *Runner) awaitSignal(ctx context.Context) (models.Signal, error) {
	if r.inputTimeout <= 0 {
		return r.input.AwaitSignal(ctx)
	}

	roundCtx, cancel := context.WithTimeout(ctx, r.inputTimeout)
	defer cancel()
	sig, err := r.input.AwaitSignal(roundCtx)
	if err != nil && errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		log.Printf("No signal within %s, counting the round as not understood", r.inputTimeout)
		return models.SignalNotUnderstood, nil
	}
	return sig, err
}
