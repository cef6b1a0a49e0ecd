// Command consciousness-core wires the calculation core's engines, cache
// tiers, and orchestrator together and exposes a Prometheus metrics
// endpoint. Transport for the calculation API itself is an external
// collaborator (spec §1); this binary only demonstrates and exercises the
// wiring a real HTTP/gRPC front end would sit behind.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/R3E-Network/consciousness-core/internal/bridge"
	"github.com/R3E-Network/consciousness-core/internal/cache"
	"github.com/R3E-Network/consciousness-core/internal/cache/archive"
	"github.com/R3E-Network/consciousness-core/internal/calculation"
	"github.com/R3E-Network/consciousness-core/internal/config"
	"github.com/R3E-Network/consciousness-core/internal/engines/biorhythm"
	"github.com/R3E-Network/consciousness-core/internal/engines/genekeys"
	"github.com/R3E-Network/consciousness-core/internal/engines/humandesign"
	"github.com/R3E-Network/consciousness-core/internal/engines/iching"
	"github.com/R3E-Network/consciousness-core/internal/engines/numerology"
	"github.com/R3E-Network/consciousness-core/internal/engines/panchanga"
	"github.com/R3E-Network/consciousness-core/internal/engines/tarot"
	"github.com/R3E-Network/consciousness-core/internal/engines/vimshottari"
	"github.com/R3E-Network/consciousness-core/internal/ephemeris"
	"github.com/R3E-Network/consciousness-core/internal/ephemeris/native"
	"github.com/R3E-Network/consciousness-core/internal/ephemeris/swisseph"
	"github.com/R3E-Network/consciousness-core/internal/logger"
	"github.com/R3E-Network/consciousness-core/internal/metrics"
	"github.com/R3E-Network/consciousness-core/internal/registry"
	"github.com/R3E-Network/consciousness-core/internal/witness"
	"github.com/R3E-Network/consciousness-core/internal/workflow"
)

// App bundles the wiring this binary assembles: the engine registry, the
// per-engine Calculation Orchestrator (gate + fingerprint + cache cascade +
// compute), the concurrent workflow orchestrator built on top of it, and
// Prometheus metrics. It is the surface a real HTTP/gRPC front end (out of
// scope here) would hold onto and call into per request.
type App struct {
	Registry     *registry.Registry
	Calc         *calculation.Orchestrator
	Orchestrator *workflow.Orchestrator
	Cache        *cache.ThreeLayer
	Metrics      *metrics.Metrics
}

func main() {
	witnessDir := flag.String("witness-dir", "./data/witness", "directory of per-engine witness prompt corpora")
	tarotDir := flag.String("tarot-dir", "./data/tarot", "directory of tarot deck data")
	ichingDir := flag.String("iching-dir", "./data/iching", "directory of I Ching hexagram data")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ephemerisProvider, err := buildEphemerisProvider(ctx, cfg)
	if err != nil {
		log.WithField("error", err).Fatal("initialize ephemeris provider")
	}
	selector := ephemeris.NewSelector(native.NewCalculator(), ephemerisProvider)

	witnesses, err := witness.LoadDir(*witnessDir)
	if err != nil {
		log.WithField("error", err).Fatal("load witness prompt corpora")
	}

	threeLayer, populator := buildCache(cfg, log)
	populator.Start(cfg.L3PopulateCron)
	defer populator.Stop()

	reg, err := buildRegistry(selector, witnesses, cfg, *tarotDir, *ichingDir)
	if err != nil {
		log.WithField("error", err).Fatal("build engine registry")
	}

	m := metrics.New("consciousness-core")
	calcOrchestrator := calculation.New(reg, threeLayer, m)

	app := &App{
		Registry:     reg,
		Calc:         calcOrchestrator,
		Orchestrator: workflow.New(calcOrchestrator, log),
		Cache:        threeLayer,
		Metrics:      m,
	}

	if cfg.MetricsEnabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		addr := fmt.Sprintf(":%d", cfg.MetricsPort)
		go func() {
			log.WithField("addr", addr).Info("metrics endpoint listening")
			if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
				log.WithField("error", err).Error("metrics server stopped")
			}
		}()
	}

	log.WithField("engines", app.Registry.IDs()).Info("consciousness-core ready")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down")
}

func buildEphemerisProvider(ctx context.Context, cfg *config.Config) (ephemeris.Provider, error) {
	return swisseph.New(ctx, cfg.EphePath)
}

func buildCache(cfg *config.Config, log *logger.Logger) (*cache.ThreeLayer, *archive.Populator) {
	l1, err := cache.NewL1(cfg.L1Capacity)
	if err != nil {
		log.WithField("error", err).Fatal("initialize L1 cache")
	}

	var l2 *cache.L2
	if cfg.L2RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.L2RedisAddr})
		l2 = cache.NewL2(client, log)
	} else {
		l2 = cache.NewL2(nil, log)
	}

	archivePath := cfg.L3ArchiveDir + "/archive.jsonl"
	if err := archive.EnsureDir(archivePath); err != nil {
		log.WithField("error", err).Fatal("prepare L3 archive directory")
	}
	l3, err := archive.Open(archivePath)
	if err != nil {
		log.WithField("error", err).Fatal("open L3 archive")
	}

	threeLayer := cache.NewThreeLayer(l1, l2, l3, cfg.L2TTL)
	populator := archive.NewPopulator(l3, nil, log)
	return threeLayer, populator
}

func buildRegistry(selector *ephemeris.Selector, witnesses *witness.Generator, cfg *config.Config, tarotDir, ichingDir string) (*registry.Registry, error) {
	deck, err := tarot.LoadDeck(tarotDir)
	if err != nil {
		return nil, err
	}
	hexagrams, err := iching.LoadHexagrams(ichingDir)
	if err != nil {
		return nil, err
	}

	humanDesign := humandesign.New(selector, witnesses)

	engines := []registry.Engine{
		panchanga.New(selector, witnesses),
		humanDesign,
		genekeys.New(humanDesign, witnesses),
		vimshottari.New(selector, witnesses),
		numerology.New(witnesses),
		biorhythm.New(witnesses),
		tarot.New(deck, witnesses),
		iching.New(hexagrams, witnesses),
	}

	if cfg.BridgeBaseURL != "" {
		engines = append(engines, bridge.New("bridged", "Bridged Engine", 0, cfg.BridgeBaseURL, cfg.BridgeTimeout))
	}

	return registry.New(engines...), nil
}
