package core

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/golang/geo/r3"

	"github.com/terragraph/terragraph-planner-sub002/model"
)

var (
	ErrSiteExists   = errors.New("site already exists")
	ErrSiteBadInput = errors.New("invalid site")
)

// Scenario is an in-memory, thread-safe store for the inputs of one
// planning run: candidate sites, exclusion zones, and obstruction
// samples. Loaders populate it; the planner reads immutable snapshots.
type Scenario struct {
	mu sync.RWMutex

	sites        map[string]*model.Site
	zones        []model.ExclusionZone
	obstructions []r3.Vector
}

// NewScenario constructs an empty scenario store.
func NewScenario() *Scenario {
	return &Scenario{sites: make(map[string]*model.Site)}
}

// AddSite registers a candidate site. It returns an error for a nil
// or unnamed site, or a duplicate ID.
func (sc *Scenario) AddSite(s *model.Site) error {
	if s == nil || s.ID == "" {
		return fmt.Errorf("%w: nil or empty ID", ErrSiteBadInput)
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if _, exists := sc.sites[s.ID]; exists {
		return fmt.Errorf("%w: %q", ErrSiteExists, s.ID)
	}
	sc.sites[s.ID] = s
	return nil
}

// Sites returns all sites ordered by ID, so batch runs over the same
// scenario are deterministic.
func (sc *Scenario) Sites() []*model.Site {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	out := make([]*model.Site, 0, len(sc.sites))
	for _, s := range sc.sites {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AddExclusionZone appends a zone. Ring validity is checked later,
// when the validator builds its index.
func (sc *Scenario) AddExclusionZone(z model.ExclusionZone) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.zones = append(sc.zones, z)
}

// ExclusionZones returns a copy of the registered zones.
func (sc *Scenario) ExclusionZones() []model.ExclusionZone {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	out := make([]model.ExclusionZone, len(sc.zones))
	copy(out, sc.zones)
	return out
}

// AddObstruction appends one surface sample.
func (sc *Scenario) AddObstruction(p r3.Vector) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.obstructions = append(sc.obstructions, p)
}

// Obstructions returns a copy of the registered surface samples.
func (sc *Scenario) Obstructions() []r3.Vector {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	out := make([]r3.Vector, len(sc.obstructions))
	copy(out, sc.obstructions)
	return out
}

// Counts returns the store sizes, in the order the observability
// gauges expect them.
func (sc *Scenario) Counts() (sites, zones, obstructions int) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return len(sc.sites), len(sc.zones), len(sc.obstructions)
}
