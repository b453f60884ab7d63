package core

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/terragraph/terragraph-planner-sub002/internal/logging"
	"github.com/terragraph/terragraph-planner-sub002/model"
)

// CandidateLink is one scored site pair. Confidence is 0 for
// infeasible pairs; callers typically filter before proposing a
// topology.
type CandidateLink struct {
	SiteA      string
	SiteB      string
	Confidence float64
}

// Planner evaluates every unordered site pair against a validator,
// fanning the work out across a bounded set of goroutines. Each pair
// writes into its own result slot, so no accumulator is shared.
type Planner struct {
	Validator LOSValidator

	// Workers bounds the fan-out; 0 uses GOMAXPROCS.
	Workers int

	Log logging.Logger
}

// PairCount returns the number of unordered pairs over n sites.
func PairCount(n int) int { return n * (n - 1) / 2 }

// EvaluateAll scores all unordered pairs of sites and returns the
// candidates ordered by descending confidence (ties broken by site
// IDs). Evaluation stops at the first domain error or context
// cancellation.
func (p *Planner) EvaluateAll(ctx context.Context, sites []*model.Site) ([]CandidateLink, error) {
	log := p.Log
	if log == nil {
		log = logging.Noop()
	}

	n := len(sites)
	results := make([]CandidateLink, PairCount(n))

	workers := p.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	k := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a, b, slot := sites[i], sites[j], k
			k++
			g.Go(func() error {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				confidence, err := p.Validator.ComputeConfidence(a, b)
				if err != nil {
					return fmt.Errorf("evaluate %q–%q: %w", a.ID, b.ID, err)
				}
				results[slot] = CandidateLink{SiteA: a.ID, SiteB: b.ID, Confidence: confidence}
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Confidence != results[j].Confidence {
			return results[i].Confidence > results[j].Confidence
		}
		if results[i].SiteA != results[j].SiteA {
			return results[i].SiteA < results[j].SiteA
		}
		return results[i].SiteB < results[j].SiteB
	})

	log.Info(ctx, "candidate evaluation complete",
		logging.Int("sites", n),
		logging.Int("pairs", len(results)),
		logging.Int("workers", workers),
	)
	return results, nil
}
