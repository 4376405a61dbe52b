package session

import (
	"math/rand"
	"time"

	"github.com/example/phrasetrainer/pkg/models"
)

// Planner selects the phrases for one session: a random sample of due
// repeats, a random sample of never-seen phrases, shuffled together. The
// random source is injected so planning is deterministic under test.
type Planner struct {
	rng *rand.Rand
}

// NewPlanner creates a planner. A nil rng falls back to a clock-seeded one.
func NewPlanner(rng *rand.Rand) *Planner {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Planner{rng: rng}
}

// Plan partitions the catalog against the ledger and samples up to nRepeat
// due phrases and up to nNew unseen phrases, each without replacement. When a
// pool is smaller than requested, all of it is taken; nothing pads from the
// other pool. The combined selection is fully shuffled so the session order
// never telegraphs whether a phrase is new or a repeat. Both pools empty
// yields an empty plan. Ledger entries whose file is gone from the catalog
// are ignored.
func (p *Planner) Plan(catalog []models.CatalogEntry, ledger map[string]models.PhraseRecord, today time.Time, nRepeat, nNew int) []models.CatalogEntry {
	var due, fresh []models.CatalogEntry
	for _, entry := range catalog {
		rec, ok := ledger[entry.PhraseID]
		switch {
		case !ok:
			fresh = append(fresh, entry)
		case rec.Due(today):
			due = append(due, entry)
		}
	}

	plan := p.sample(due, nRepeat)
	plan = append(plan, p.sample(fresh, nNew)...)
	p.rng.Shuffle(len(plan), func(i, j int) {
		plan[i], plan[j] = plan[j], plan[i]
	})
	return plan
}

// sample picks n entries without replacement, or all of them when the pool is
// smaller than n.
func (p *Planner) sample(pool []models.CatalogEntry, n int) []models.CatalogEntry {
	if n > len(pool) {
		n = len(pool)
	}
	if n <= 0 {
		return nil
	}
	out := make([]models.CatalogEntry, 0, n)
	for _, idx := range p.rng.Perm(len(pool))[:n] {
		out = append(out, pool[idx])
	}
	return out
}
