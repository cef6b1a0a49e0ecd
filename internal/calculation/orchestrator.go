// Package calculation implements the Calculation Orchestrator of spec.md's
// component table, row 7: the per-engine request path that validates,
// gates, fingerprints, consults the cache cascade, invokes the engine, and
// populates the cache on a miss (spec §2 "Validate → Gate on consciousness
// level → Fingerprint → L1 → L2 → L3 → Compute → Attach witness prompt →
// Populate caches → Return"). Both single-engine calls and the workflow
// orchestrator's per-engine dispatch go through this one component, so
// neither path can drift out of sync with the cache cascade or the
// Consciousness Gate.
package calculation

import (
	"context"
	"time"

	"github.com/R3E-Network/consciousness-core/internal/apitypes"
	"github.com/R3E-Network/consciousness-core/internal/cache"
	"github.com/R3E-Network/consciousness-core/internal/fingerprint"
	"github.com/R3E-Network/consciousness-core/internal/gate"
	"github.com/R3E-Network/consciousness-core/internal/metrics"
	"github.com/R3E-Network/consciousness-core/internal/registry"
)

// cacheBackendLabel is the fingerprint "backend" field used for cache-key
// purposes. An Engine Input carries no caller-facing backend override
// (spec §6 lists no such field), so every cache key is computed against
// the same empty label; this mirrors the empty Mode every engine already
// passes to internal/ephemeris.Selector.Resolve.
const cacheBackendLabel = ""

// Orchestrator resolves one engine call end to end: it looks the engine up
// in the registry, checks the Consciousness Gate, fingerprints the
// request, consults the three-layer cache, and falls through to the
// engine itself on a miss, populating the cache with the fresh result.
type Orchestrator struct {
	registry *registry.Registry
	cache    *cache.ThreeLayer // nil disables caching entirely
	metrics  *metrics.Metrics  // nil disables metric recording
}

// New builds a Calculation Orchestrator. cache and m may both be nil (no
// caching, no metrics, respectively) — useful in tests and for a registry
// wired up before the cache cascade is ready.
func New(reg *registry.Registry, threeLayer *cache.ThreeLayer, m *metrics.Metrics) *Orchestrator {
	return &Orchestrator{registry: reg, cache: threeLayer, metrics: m}
}

// Registry exposes the underlying registry so callers that already hold an
// Orchestrator don't need to carry a second reference to look engines up
// for metadata (required level, keywords projection).
func (o *Orchestrator) Registry() *registry.Registry { return o.registry }

// Calculate runs the full per-engine data flow for input (input.EngineID
// selects the engine). On a cache hit, the stored output is returned with
// Metadata.Cached set to true; everything else in the output is exactly
// what the original computation produced.
func (o *Orchestrator) Calculate(ctx context.Context, input apitypes.EngineInput) (apitypes.EngineOutput, error) {
	start := time.Now()

	engine, err := o.registry.Get(input.EngineID)
	if err != nil {
		return apitypes.EngineOutput{}, err
	}

	if err := gate.Check(input.ConsciousnessLevel, engine.RequiredLevel()); err != nil {
		if o.metrics != nil {
			o.metrics.RecordGateDenial(input.EngineID)
		}
		return apitypes.EngineOutput{}, err
	}

	digest, err := fingerprint.Of(input, cacheBackendLabel)
	if err != nil {
		return apitypes.EngineOutput{}, err
	}

	if o.cache != nil {
		if res := o.cache.Lookup(ctx, digest); res.Tier != "" {
			if o.metrics != nil {
				o.metrics.RecordCacheLookup(res.Tier)
			}
			output := res.Entry.Output
			output.Metadata.Cached = true
			return output, nil
		}
		if o.metrics != nil {
			o.metrics.RecordCacheLookup("miss")
		}
	}

	output, err := engine.Calculate(ctx, input)
	if o.metrics != nil {
		status := "success"
		if err != nil {
			status = "error"
		}
		o.metrics.RecordEngineCall(input.EngineID, status, time.Since(start))
	}
	if err != nil {
		return apitypes.EngineOutput{}, err
	}

	if o.cache != nil {
		o.cache.Store(ctx, digest, output, 0)
	}

	return output, nil
}
