// Package biorhythm implements the biorhythm engine: physical, emotional,
// and intellectual sine-wave cycle values as of current_time, given days
// elapsed since birth, required level 0.
package biorhythm

import (
	"context"
	"math"
	"time"

	"github.com/R3E-Network/consciousness-core/internal/apierrors"
	"github.com/R3E-Network/consciousness-core/internal/apitypes"
	"github.com/R3E-Network/consciousness-core/internal/birthdata"
	"github.com/R3E-Network/consciousness-core/internal/witness"
)

const engineID = "biorhythm"

const (
	physicalCycleDays     = 23.0
	emotionalCycleDays    = 28.0
	intellectualCycleDays = 33.0
)

// Engine implements registry.Engine for the biorhythm calculation.
type Engine struct {
	witnesses *witness.Generator
}

// New builds a biorhythm engine.
func New(witnesses *witness.Generator) *Engine {
	return &Engine{witnesses: witnesses}
}

func (e *Engine) ID() string         { return engineID }
func (e *Engine) Name() string       { return "Biorhythm" }
func (e *Engine) RequiredLevel() int { return 0 }

// Calculate computes the three cycle values at current_time (defaulting to
// now), each in [-1, 1].
func (e *Engine) Calculate(ctx context.Context, input apitypes.EngineInput) (apitypes.EngineOutput, error) {
	start := time.Now()

	bd, err := birthdata.FromAPIInput(input.BirthData)
	if err != nil {
		return apitypes.EngineOutput{}, err
	}

	instant := time.Now().UTC()
	if input.CurrentTime != nil {
		instant = *input.CurrentTime
	}

	daysElapsed := instant.Sub(bd.Instant()).Hours() / 24.0

	physical := cycleValue(daysElapsed, physicalCycleDays)
	emotional := cycleValue(daysElapsed, emotionalCycleDays)
	intellectual := cycleValue(daysElapsed, intellectualCycleDays)

	result := map[string]interface{}{
		"physical":     physical,
		"emotional":    emotional,
		"intellectual": intellectual,
		"days_elapsed": daysElapsed,
		"keywords":     keywordsFor(physical, emotional, intellectual),
	}

	prompt, err := e.witnesses.Generate(engineID, band(physical, emotional, intellectual), input.ConsciousnessLevel)
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
			Backend:           "arithmetic",
			PrecisionAchieved: "exact",
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

func cycleValue(daysElapsed, cycleDays float64) float64 {
	return math.Sin(2 * math.Pi * daysElapsed / cycleDays)
}

func keywordsFor(physical, emotional, intellectual float64) []string {
	keywords := []string{"cycles"}
	if physical > 0 {
		keywords = append(keywords, "vitality")
	}
	if emotional > 0 {
		keywords = append(keywords, "sensitivity")
	}
	if intellectual > 0 {
		keywords = append(keywords, "clarity")
	}
	return keywords
}

func band(physical, emotional, intellectual float64) string {
	sum := physical + emotional + intellectual
	switch {
	case sum > 0.5:
		return "rising"
	case sum < -0.5:
		return "low"
	default:
		return "transitional"
	}
}
