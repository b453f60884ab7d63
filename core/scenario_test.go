package core

import (
	"errors"
	"sync"
	"testing"

	"github.com/golang/geo/r3"

	"github.com/terragraph/terragraph-planner-sub002/model"
)

func TestScenario_AddSite(t *testing.T) {
	sc := NewScenario()

	if err := sc.AddSite(site("a", 0, 0, 10)); err != nil {
		t.Fatalf("AddSite(a): %v", err)
	}
	if err := sc.AddSite(site("a", 5, 5, 12)); !errors.Is(err, ErrSiteExists) {
		t.Errorf("duplicate AddSite err = %v, want ErrSiteExists", err)
	}
	if err := sc.AddSite(nil); !errors.Is(err, ErrSiteBadInput) {
		t.Errorf("AddSite(nil) err = %v, want ErrSiteBadInput", err)
	}
	if err := sc.AddSite(&model.Site{}); !errors.Is(err, ErrSiteBadInput) {
		t.Errorf("AddSite(empty ID) err = %v, want ErrSiteBadInput", err)
	}
}

func TestScenario_SitesSortedByID(t *testing.T) {
	sc := NewScenario()
	for _, id := range []string{"gamma", "alpha", "beta"} {
		if err := sc.AddSite(site(id, 0, 0, 10)); err != nil {
			t.Fatalf("AddSite(%s): %v", id, err)
		}
	}

	sites := sc.Sites()
	want := []string{"alpha", "beta", "gamma"}
	if len(sites) != len(want) {
		t.Fatalf("got %d sites, want %d", len(sites), len(want))
	}
	for i, w := range want {
		if sites[i].ID != w {
			t.Errorf("sites[%d].ID = %q, want %q", i, sites[i].ID, w)
		}
	}
}

func TestScenario_ZonesAndObstructionsCopied(t *testing.T) {
	sc := NewScenario()
	sc.AddExclusionZone(squareZone("z1", 0, 0, 10, 10))
	sc.AddObstruction(r3.Vector{X: 1, Y: 2, Z: 3})

	zones := sc.ExclusionZones()
	zones[0].ID = "mutated"
	if got := sc.ExclusionZones()[0].ID; got != "z1" {
		t.Errorf("zone ID after caller mutation = %q, want z1", got)
	}

	obs := sc.Obstructions()
	obs[0].Z = 99
	if got := sc.Obstructions()[0].Z; got != 3 {
		t.Errorf("obstruction Z after caller mutation = %v, want 3", got)
	}
}

func TestScenario_Counts(t *testing.T) {
	sc := NewScenario()
	if err := sc.AddSite(site("a", 0, 0, 10)); err != nil {
		t.Fatalf("AddSite: %v", err)
	}
	sc.AddExclusionZone(squareZone("z1", 0, 0, 10, 10))
	sc.AddObstruction(r3.Vector{X: 1, Y: 2, Z: 3})
	sc.AddObstruction(r3.Vector{X: 4, Y: 5, Z: 6})

	sites, zones, obstructions := sc.Counts()
	if sites != 1 || zones != 1 || obstructions != 2 {
		t.Errorf("Counts() = (%d, %d, %d), want (1, 1, 2)", sites, zones, obstructions)
	}
}

func TestScenario_ConcurrentAccess(t *testing.T) {
	sc := NewScenario()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a' + i))
			if err := sc.AddSite(site(id, float64(i), 0, 10)); err != nil {
				t.Errorf("AddSite(%s): %v", id, err)
			}
			sc.AddObstruction(r3.Vector{X: float64(i)})
			_ = sc.Sites()
			_, _, _ = sc.Counts()
		}(i)
	}
	wg.Wait()

	sites, _, obstructions := sc.Counts()
	if sites != 8 || obstructions != 8 {
		t.Errorf("Counts() = (%d sites, %d obstructions), want (8, 8)", sites, obstructions)
	}
}
