// Package vimshottari implements the Vimshottari Dasha engine: the current
// Mahadasha/Antardasha/Pratyantardasha period plus the next few upcoming
// transitions, required level 0. A thin adapter over internal/dasha's
// 120-year/729-leaf period tree.
package vimshottari

import (
	"context"
	"time"

	"github.com/R3E-Network/consciousness-core/internal/apierrors"
	"github.com/R3E-Network/consciousness-core/internal/apitypes"
	"github.com/R3E-Network/consciousness-core/internal/birthdata"
	"github.com/R3E-Network/consciousness-core/internal/dasha"
	"github.com/R3E-Network/consciousness-core/internal/ephemeris"
	"github.com/R3E-Network/consciousness-core/internal/witness"
)

const engineID = "vimshottari"

const upcomingTransitionsLimit = 5

// Engine implements registry.Engine for the Vimshottari Dasha calculation.
type Engine struct {
	selector  *ephemeris.Selector
	witnesses *witness.Generator
}

// New builds a Vimshottari engine over a longitude selector and witness
// prompt generator.
func New(selector *ephemeris.Selector, witnesses *witness.Generator) *Engine {
	return &Engine{selector: selector, witnesses: witnesses}
}

func (e *Engine) ID() string         { return engineID }
func (e *Engine) Name() string       { return "Vimshottari Dasha" }
func (e *Engine) RequiredLevel() int { return 0 }

// Calculate builds the dasha tree from the Moon's longitude at birth and
// reports the period containing current_time (defaulting to now) plus the
// next upcoming transitions.
func (e *Engine) Calculate(ctx context.Context, input apitypes.EngineInput) (apitypes.EngineOutput, error) {
	start := time.Now()

	bd, err := birthdata.FromAPIInput(input.BirthData)
	if err != nil {
		return apitypes.EngineOutput{}, err
	}

	precision := ephemeris.Precision(input.Precision)
	if precision == "" {
		precision = ephemeris.Standard
	}

	birth := bd.Instant()
	moonRes, err := e.selector.Resolve(ctx, birth, ephemeris.Moon, precision, "")
	if err != nil {
		return apitypes.EngineOutput{}, err
	}

	instant := time.Now().UTC()
	if input.CurrentTime != nil {
		instant = *input.CurrentTime
	}

	tree := dasha.Build(birth, moonRes.LongitudeDeg)
	current, ok := tree.Lookup(instant)
	if !ok {
		return apitypes.EngineOutput{}, apierrors.New(apierrors.CalculationError, "vimshottari: current_time falls outside the 120-year dasha cycle")
	}
	upcoming := tree.UpcomingTransitions(instant, upcomingTransitionsLimit)

	transitions := make([]map[string]interface{}, 0, len(upcoming))
	for _, tr := range upcoming {
		transitions = append(transitions, map[string]interface{}{
			"at":              tr.At,
			"level":           string(tr.Level),
			"days_until":      tr.DaysUntil,
			"mahadasha":       tr.Mahadasha.String(),
			"antardasha":      tr.Antardasha.String(),
			"pratyantardasha": tr.Pratyantardasha.String(),
		})
	}

	result := map[string]interface{}{
		"mahadasha":            current.Mahadasha.Planet.String(),
		"antardasha":           current.Antardasha.Planet.String(),
		"pratyantardasha":      current.Pratyantardasha.Planet.String(),
		"mahadasha_start":      current.Mahadasha.Start,
		"mahadasha_end":        current.Mahadasha.End,
		"antardasha_start":     current.Antardasha.Start,
		"antardasha_end":       current.Antardasha.End,
		"upcoming_transitions": transitions,
		"balance_capped":       tree.BalanceCapped,
		"keywords":             keywordsFor(current),
	}

	prompt, err := e.witnesses.Generate(engineID, current.Mahadasha.Planet.String(), input.ConsciousnessLevel)
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
			Backend:           string(moonRes.Backend),
			PrecisionAchieved: string(precision),
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

func keywordsFor(period dasha.CurrentPeriod) []string {
	keywords := []string{"cycles"}
	switch period.Mahadasha.Planet {
	case dasha.Sun, dasha.Mars, dasha.Jupiter:
		keywords = append(keywords, "expansion")
	default:
		keywords = append(keywords, "consolidation")
	}
	return keywords
}
