package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/terragraph/terragraph-planner-sub002/core"
	"github.com/terragraph/terragraph-planner-sub002/internal/logging"
	"github.com/terragraph/terragraph-planner-sub002/internal/observability"
)

func main() {
	configPath := flag.String("config", "", "path to a planner YAML config (defaults apply when empty)")
	scenarioPath := flag.String("scenario", "configs/scenario.json", "path to the JSON planning scenario")
	workers := flag.Int("workers", 0, "evaluation fan-out; 0 = GOMAXPROCS")
	metricsAddr := flag.String("metrics-addr", "", "listen address for /metrics (disabled when empty)")
	minConfidence := flag.Float64("min-confidence", -1, "report cutoff; overrides the config value when >= 0")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx := context.Background()

	cfg := core.DefaultPlannerConfig()
	if *configPath != "" {
		var err error
		cfg, err = core.LoadPlannerConfig(*configPath)
		if err != nil {
			log.Error(ctx, "failed to load config", logging.String("path", *configPath), logging.Any("error", err))
			os.Exit(1)
		}
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if *minConfidence >= 0 {
		cfg.MinReportConfidence = *minConfidence
	}

	shutdown, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "failed to initialise tracing", logging.Any("error", err))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(ctx, shutdown, log)

	collector, err := observability.NewPlannerCollector(nil)
	if err != nil {
		log.Error(ctx, "failed to register metrics", logging.Any("error", err))
		os.Exit(1)
	}

	scenario := core.NewScenario()
	f, err := os.Open(*scenarioPath)
	if err != nil {
		log.Error(ctx, "failed to open scenario", logging.String("path", *scenarioPath), logging.Any("error", err))
		os.Exit(1)
	}
	summary, err := core.LoadScenario(scenario, f)
	f.Close()
	if err != nil {
		log.Error(ctx, "failed to load scenario", logging.Any("error", err))
		os.Exit(1)
	}

	sites := scenario.Sites()
	nSites, nZones, nObstructions := scenario.Counts()
	log.Info(ctx, "scenario loaded",
		logging.String("path", *scenarioPath),
		logging.Int("sites", nSites),
		logging.Int("exclusion_zones", nZones),
		logging.Int("obstructions", summary.Obstructions),
	)
	collector.SetScenarioCounts(nSites, nZones, nObstructions, core.PairCount(nSites))

	// An empty surface model means "no data", which the validator
	// treats optimistically; keep the interface nil in that case.
	var source core.ObstructionSource
	if nObstructions > 0 {
		source = core.NewSurfaceModel(scenario.Obstructions(), cfg.SurfaceCellSizeM)
	}

	validator, err := core.NewEllipsoidalValidator(cfg.Validation, scenario.ExclusionZones(), source)
	if err != nil {
		log.Error(ctx, "failed to build validator", logging.Any("error", err))
		os.Exit(1)
	}
	validator.Recorder = collector

	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		go func() {
			log.Info(ctx, "serving metrics", logging.String("addr", *metricsAddr))
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				log.Warn(ctx, "metrics server stopped", logging.Any("error", err))
			}
		}()
	}

	planner := &core.Planner{Validator: validator, Workers: cfg.Workers, Log: log}

	tracer := otel.Tracer("los-planner")
	evalCtx, span := tracer.Start(ctx, "planner.evaluate_all", trace.WithAttributes(
		attribute.Int("sites", nSites),
		attribute.Int("pairs", core.PairCount(nSites)),
	))
	links, err := planner.EvaluateAll(evalCtx, sites)
	span.End()
	if err != nil {
		log.Error(ctx, "candidate evaluation failed", logging.Any("error", err))
		os.Exit(1)
	}

	reportCandidates(links, cfg.MinReportConfidence)
}

// reportCandidates prints the ranked candidate links at or above the
// cutoff, highest confidence first.
func reportCandidates(links []core.CandidateLink, minConfidence float64) {
	shown := 0
	for _, l := range links {
		if l.Confidence < minConfidence {
			continue
		}
		fmt.Printf("↳ Link %-16s ↔ %-16s confidence=%.4f\n", l.SiteA, l.SiteB, l.Confidence)
		shown++
	}
	fmt.Printf("%d of %d candidate pairs at or above confidence %.2f\n", shown, len(links), minConfidence)
}
