package core

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/golang/geo/r3"

	"github.com/terragraph/terragraph-planner-sub002/model"
)

// ScenarioSummary is a small summary of what was loaded from JSON.
// It's mainly useful for logging from main().
type ScenarioSummary struct {
	SiteIDs      []string
	ZoneIDs      []string
	Obstructions int
}

// internal JSON shapes – kept unexported so we're free to evolve them.
type scenarioJSON struct {
	Sites          []siteJSON  `json:"sites"`
	ExclusionZones []zoneJSON  `json:"exclusion_zones"`
	Obstructions   []pointJSON `json:"obstructions"`
}

type siteJSON struct {
	ID         string   `json:"id"`
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	Altitude   *float64 `json:"altitude"`    // optional; metres
	Location   string   `json:"location"`    // "rooftop" | "street_level" | "unknown"
	BuildingID string   `json:"building_id"` // optional
}

type zoneJSON struct {
	ID       string      `json:"id"`
	Vertices []pointJSON `json:"vertices"`
}

type pointJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z,omitempty"`
}

// LoadScenario reads a JSON planning scenario from r, populates the
// store with sites, exclusion zones, and obstruction samples, and
// returns a summary of what was loaded.
//
// It fails on JSON / structural errors and duplicate site IDs.
// Geometric validity (ring sizes, coordinate ranges) is enforced by
// the components that consume the data.
func LoadScenario(sc *Scenario, r io.Reader) (*ScenarioSummary, error) {
	if sc == nil {
		return nil, fmt.Errorf("LoadScenario: scenario store is nil")
	}

	var payload scenarioJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("LoadScenario: decode failed: %w", err)
	}

	summary := &ScenarioSummary{
		SiteIDs: make([]string, 0, len(payload.Sites)),
		ZoneIDs: make([]string, 0, len(payload.ExclusionZones)),
	}

	for _, js := range payload.Sites {
		if js.ID == "" {
			return nil, fmt.Errorf("LoadScenario: site with empty id")
		}
		site := &model.Site{
			ID:         js.ID,
			X:          js.X,
			Y:          js.Y,
			Altitude:   js.Altitude,
			Location:   locationFromString(js.Location),
			BuildingID: js.BuildingID,
		}
		if err := sc.AddSite(site); err != nil {
			return nil, fmt.Errorf("LoadScenario: %w", err)
		}
		summary.SiteIDs = append(summary.SiteIDs, js.ID)
	}

	for _, jz := range payload.ExclusionZones {
		zone := model.ExclusionZone{
			ID:       jz.ID,
			Vertices: make([]model.Vertex, len(jz.Vertices)),
		}
		for i, v := range jz.Vertices {
			zone.Vertices[i] = model.Vertex{X: v.X, Y: v.Y}
		}
		sc.AddExclusionZone(zone)
		summary.ZoneIDs = append(summary.ZoneIDs, jz.ID)
	}

	for _, jp := range payload.Obstructions {
		sc.AddObstruction(r3.Vector{X: jp.X, Y: jp.Y, Z: jp.Z})
	}
	summary.Obstructions = len(payload.Obstructions)

	return summary, nil
}

// locationFromString maps the JSON "location" string to our
// LocationType constants.
//
// We keep this tolerant: unknown / empty values map to
// LocationUnknown, which exempts the site from the co-building check.
func locationFromString(s string) model.LocationType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rooftop", "roof":
		return model.LocationRooftop
	case "street_level", "street", "pole":
		return model.LocationStreetLevel
	default:
		return model.LocationUnknown
	}
}
