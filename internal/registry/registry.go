// Package registry holds the engine id → Engine map used by the workflow
// orchestrator (spec §4.7, §5 "Shared resources"). It is assembled once at
// startup and read-only thereafter.
package registry

import (
	"context"

	"github.com/R3E-Network/consciousness-core/internal/apierrors"
	"github.com/R3E-Network/consciousness-core/internal/apitypes"
)

// Engine is the common contract every per-engine core and the Bridge
// Adapter implement (spec §4.7, §4.9). Keywords is the "per-engine
// projection function" synthesis uses to find themes/alignments/tensions.
type Engine interface {
	ID() string
	Name() string
	RequiredLevel() int
	Calculate(ctx context.Context, input apitypes.EngineInput) (apitypes.EngineOutput, error)
	Keywords(output apitypes.EngineOutput) []string
}

// Registry is the immutable, register-once-at-startup engine id → Engine
// map (spec §5 "Shared resources").
type Registry struct {
	engines map[string]Engine
}

// New builds a registry from a list of engines, keyed by their own ID().
func New(engines ...Engine) *Registry {
	m := make(map[string]Engine, len(engines))
	for _, e := range engines {
		m[e.ID()] = e
	}
	return &Registry{engines: m}
}

// Get returns the engine for id, or EngineNotFound.
func (r *Registry) Get(id string) (Engine, error) {
	e, ok := r.engines[id]
	if !ok {
		return nil, apierrors.NewEngineNotFound(id)
	}
	return e, nil
}

// IDs returns every registered engine id, in no particular order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.engines))
	for id := range r.engines {
		ids = append(ids, id)
	}
	return ids
}

// Len returns the number of registered engines.
func (r *Registry) Len() int {
	return len(r.engines)
}
