package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PlannerCollector bundles Prometheus metrics for the LOS planner and
// provides a ready-to-use /metrics handler. Its RecordEvaluation
// method satisfies the core package's EvaluationRecorder interface.
type PlannerCollector struct {
	gatherer prometheus.Gatherer

	Evaluations   *prometheus.CounterVec
	EvalDurations prometheus.Histogram

	ScenarioSites          prometheus.Gauge
	ScenarioExclusionZones prometheus.Gauge
	ScenarioObstructions   prometheus.Gauge
	CandidatePairs         prometheus.Gauge
}

// NewPlannerCollector registers the planner metrics against the
// provided registerer, defaulting to the global Prometheus registry
// when nil.
func NewPlannerCollector(reg prometheus.Registerer) (*PlannerCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	evaluations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "los_evaluations_total",
		Help: "Total number of LOS confidence evaluations, labeled by outcome (clear, partial, blocked, reject_*, error).",
	}, []string{"outcome"})
	evaluations, err := registerCounterVec(reg, evaluations, "los_evaluations_total")
	if err != nil {
		return nil, err
	}

	durations, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "los_evaluation_duration_seconds",
		Help:    "LOS confidence evaluation latency in seconds.",
		Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	}), "los_evaluation_duration_seconds")
	if err != nil {
		return nil, err
	}

	sites, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "scenario_sites",
		Help: "Number of candidate sites in the loaded scenario.",
	}), "scenario_sites")
	if err != nil {
		return nil, err
	}
	zones, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "scenario_exclusion_zones",
		Help: "Number of exclusion zones in the loaded scenario.",
	}), "scenario_exclusion_zones")
	if err != nil {
		return nil, err
	}
	obstructions, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "scenario_obstruction_samples",
		Help: "Number of obstruction samples in the loaded surface model.",
	}), "scenario_obstruction_samples")
	if err != nil {
		return nil, err
	}
	pairs, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "scenario_candidate_pairs",
		Help: "Number of unordered site pairs the planner will evaluate.",
	}), "scenario_candidate_pairs")
	if err != nil {
		return nil, err
	}

	return &PlannerCollector{
		gatherer:               gatherer,
		Evaluations:            evaluations,
		EvalDurations:          durations,
		ScenarioSites:          sites,
		ScenarioExclusionZones: zones,
		ScenarioObstructions:   obstructions,
		CandidatePairs:         pairs,
	}, nil
}

// RecordEvaluation counts one confidence evaluation and observes its
// duration. Safe for concurrent use.
func (c *PlannerCollector) RecordEvaluation(outcome string, seconds float64) {
	if c == nil {
		return
	}
	if c.Evaluations != nil {
		c.Evaluations.WithLabelValues(outcome).Inc()
	}
	if c.EvalDurations != nil {
		c.EvalDurations.Observe(seconds)
	}
}

// SetScenarioCounts drives the scenario gauges after a load.
func (c *PlannerCollector) SetScenarioCounts(sites, zones, obstructions, pairs int) {
	if c == nil {
		return
	}
	if c.ScenarioSites != nil {
		c.ScenarioSites.Set(float64(sites))
	}
	if c.ScenarioExclusionZones != nil {
		c.ScenarioExclusionZones.Set(float64(zones))
	}
	if c.ScenarioObstructions != nil {
		c.ScenarioObstructions.Set(float64(obstructions))
	}
	if c.CandidatePairs != nil {
		c.CandidatePairs.Set(float64(pairs))
	}
}

// Handler exposes a ready-to-use /metrics handler.
func (c *PlannerCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
