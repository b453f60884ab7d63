package core

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/terragraph/terragraph-planner-sub002/model"
)

// stubValidator scores pairs from a fixed table keyed by "a|b" with
// the IDs in lexical order, and counts calls.
type stubValidator struct {
	scores map[string]float64
	err    error
	calls  atomic.Int64
}

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

func (s *stubValidator) ComputeConfidence(a, b *model.Site) (float64, error) {
	s.calls.Add(1)
	if s.err != nil {
		return 0, s.err
	}
	return s.scores[pairKey(a.ID, b.ID)], nil
}

func plannerSites(ids ...string) []*model.Site {
	sites := make([]*model.Site, len(ids))
	for i, id := range ids {
		sites[i] = site(id, float64(i)*100, 0, 10)
	}
	return sites
}

func TestPairCount(t *testing.T) {
	cases := []struct{ n, want int }{
		{0, 0}, {1, 0}, {2, 1}, {3, 3}, {4, 6}, {10, 45},
	}
	for _, tc := range cases {
		if got := PairCount(tc.n); got != tc.want {
			t.Errorf("PairCount(%d) = %d, want %d", tc.n, got, tc.want)
		}
	}
}

func TestEvaluateAll_OrdersByConfidence(t *testing.T) {
	v := &stubValidator{scores: map[string]float64{
		"a|b": 0.2,
		"a|c": 1.0,
		"b|c": 0.7,
	}}
	p := &Planner{Validator: v, Workers: 2}

	links, err := p.EvaluateAll(context.Background(), plannerSites("a", "b", "c"))
	if err != nil {
		t.Fatalf("EvaluateAll: %v", err)
	}
	if len(links) != 3 {
		t.Fatalf("got %d links, want 3", len(links))
	}
	wantOrder := []string{"a|c", "b|c", "a|b"}
	for i, want := range wantOrder {
		if got := pairKey(links[i].SiteA, links[i].SiteB); got != want {
			t.Errorf("links[%d] = %s (%.1f), want %s", i, got, links[i].Confidence, want)
		}
	}
	if got := v.calls.Load(); got != 3 {
		t.Errorf("validator called %d times, want 3", got)
	}
}

func TestEvaluateAll_TiesBreakOnSiteIDs(t *testing.T) {
	v := &stubValidator{scores: map[string]float64{
		"a|b": 0.5, "a|c": 0.5, "b|c": 0.5,
	}}
	p := &Planner{Validator: v}

	links, err := p.EvaluateAll(context.Background(), plannerSites("c", "a", "b"))
	if err != nil {
		t.Fatalf("EvaluateAll: %v", err)
	}
	want := []string{"a|b", "a|c", "b|c"}
	for i, w := range want {
		if got := pairKey(links[i].SiteA, links[i].SiteB); got != w {
			t.Errorf("links[%d] = %s, want %s", i, got, w)
		}
	}
}

func TestEvaluateAll_NoSites(t *testing.T) {
	p := &Planner{Validator: &stubValidator{}}
	for _, sites := range [][]*model.Site{nil, plannerSites("only")} {
		links, err := p.EvaluateAll(context.Background(), sites)
		if err != nil {
			t.Fatalf("EvaluateAll: %v", err)
		}
		if len(links) != 0 {
			t.Errorf("got %d links for %d sites, want 0", len(links), len(sites))
		}
	}
}

func TestEvaluateAll_PropagatesValidatorError(t *testing.T) {
	wantErr := errors.New("boom")
	p := &Planner{Validator: &stubValidator{err: wantErr}}

	_, err := p.EvaluateAll(context.Background(), plannerSites("a", "b", "c"))
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want wrapped %v", err, wantErr)
	}
	if !strings.Contains(err.Error(), "evaluate") {
		t.Errorf("error %q should name the failing pair", err)
	}
}

func TestEvaluateAll_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &Planner{Validator: &stubValidator{scores: map[string]float64{}}}
	_, err := p.EvaluateAll(ctx, plannerSites("a", "b"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestEvaluateAll_ManySitesBoundedWorkers(t *testing.T) {
	v := &stubValidator{scores: map[string]float64{}}
	p := &Planner{Validator: v, Workers: 3}

	ids := []string{"s0", "s1", "s2", "s3", "s4", "s5", "s6", "s7"}
	links, err := p.EvaluateAll(context.Background(), plannerSites(ids...))
	if err != nil {
		t.Fatalf("EvaluateAll: %v", err)
	}
	if want := PairCount(len(ids)); len(links) != want {
		t.Errorf("got %d links, want %d", len(links), want)
	}
	if got := v.calls.Load(); got != int64(PairCount(len(ids))) {
		t.Errorf("validator called %d times, want %d", got, PairCount(len(ids)))
	}
}
