// Package genekeys implements the Gene-Keys-derived engine as an adapter
// over the Human Design engine's four gate/line activations: Gene Keys
// and Human Design are defined on the same sequential 64-gate wheel, so
// this engine reuses humandesign's activation resolution rather than
// recomputing it (an open design choice recorded in DESIGN.md), required
// level 1.
package genekeys

import (
	"context"
	"time"

	"github.com/R3E-Network/consciousness-core/internal/apierrors"
	"github.com/R3E-Network/consciousness-core/internal/apitypes"
	"github.com/R3E-Network/consciousness-core/internal/witness"
)

const engineID = "genekeys"

// shadowGiftSiddha is a minimal per-gate triad, indexed 1..64 (index 0
// unused). The full sixty-four-key correspondence table is domain data,
// not astronomy; only a representative slice is populated here, with a
// generic fallback for the remainder.
var shadowGiftSiddha = map[int][3]string{
	1:  {"Entropy", "Freshness", "Beauty"},
	2:  {"Dislocation", "Orientation", "Unity"},
	13: {"Discord", "Discernment", "Empathy"},
	64: {"Confusion", "Illumination", "Illumination"},
}

func triadFor(gate int) [3]string {
	if t, ok := shadowGiftSiddha[gate]; ok {
		return t
	}
	return [3]string{"Unrest", "Resolve", "Stillness"}
}

// helper is implemented by humandesign.Engine; kept as an interface so
// this package does not depend on humandesign.Engine's concrete internals
// beyond what it needs.
type helper interface {
	Calculate(ctx context.Context, input apitypes.EngineInput) (apitypes.EngineOutput, error)
}

// Engine implements registry.Engine for the Gene Keys calculation.
type Engine struct {
	hd        helper
	witnesses *witness.Generator
}

// New builds a Gene Keys engine over a Human Design engine instance (reused
// for gate/line resolution) and its own witness prompt generator.
func New(hd helper, witnesses *witness.Generator) *Engine {
	return &Engine{hd: hd, witnesses: witnesses}
}

func (e *Engine) ID() string         { return engineID }
func (e *Engine) Name() string       { return "Gene Keys" }
func (e *Engine) RequiredLevel() int { return 1 }

// Calculate delegates gate/line resolution to the Human Design engine, then
// reprojects the four activations onto their Shadow/Gift/Siddha triads.
func (e *Engine) Calculate(ctx context.Context, input apitypes.EngineInput) (apitypes.EngineOutput, error) {
	start := time.Now()

	hdInput := input
	hdInput.EngineID = "humandesign"
	hdOut, err := e.hd.Calculate(ctx, hdInput)
	if err != nil {
		return apitypes.EngineOutput{}, err
	}

	result := make(map[string]interface{}, 5)
	var keywords []string
	for _, key := range []string{"personality_sun", "personality_earth", "design_sun", "design_earth"} {
		activation, ok := hdOut.Result[key].(map[string]interface{})
		if !ok {
			continue
		}
		gate, _ := activation["gate"].(int)
		triad := triadFor(gate)
		result[key] = map[string]interface{}{
			"gate":   gate,
			"shadow": triad[0],
			"gift":   triad[1],
			"siddhi": triad[2],
		}
		keywords = append(keywords, triad[1])
	}
	result["keywords"] = keywords

	prompt, err := e.witnesses.Generate(engineID, hdOut.WitnessPrompt, input.ConsciousnessLevel)
	if err != nil {
		return apitypes.EngineOutput{}, apierrors.NewInternalError(err)
	}

	return apitypes.EngineOutput{
		EngineID:           engineID,
		Result:             result,
		WitnessPrompt:      prompt,
		ConsciousnessLevel: input.ConsciousnessLevel,
		Metadata: apitypes.Metadata{
			CalculationTimeMs: float64(time.Since(start).Microseconds()) / 1000.0,
			Backend:           hdOut.Metadata.Backend,
			PrecisionAchieved: hdOut.Metadata.PrecisionAchieved,
			Cached:            false,
			Timestamp:         time.Now().UTC(),
		},
	}, nil
}

// Keywords implements the per-engine projection function synthesis uses.
func (e *Engine) Keywords(output apitypes.EngineOutput) []string {
	if raw, ok := output.Result["keywords"].([]string); ok {
		return raw
	}
	return nil
}
