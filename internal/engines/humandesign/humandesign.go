// Package humandesign implements the Human-Design-derived engine: four
// gate/line activations (PersonalitySun, PersonalityEarth, DesignSun,
// DesignEarth), required level 1. Accepts either birth data or a direct
// hd_gates options bypass (spec §6 "Recognized options keys").
package humandesign

import (
	"context"
	"fmt"
	"time"

	"github.com/R3E-Network/consciousness-core/internal/apierrors"
	"github.com/R3E-Network/consciousness-core/internal/apitypes"
	"github.com/R3E-Network/consciousness-core/internal/astro"
	"github.com/R3E-Network/consciousness-core/internal/astro/angle"
	"github.com/R3E-Network/consciousness-core/internal/astro/gateline"
	"github.com/R3E-Network/consciousness-core/internal/birthdata"
	"github.com/R3E-Network/consciousness-core/internal/ephemeris"
	"github.com/R3E-Network/consciousness-core/internal/witness"
)

const engineID = "humandesign"

// Activations is the four-gate/line record every chart carries.
type Activations struct {
	PersonalitySun   gateline.Activation
	PersonalityEarth gateline.Activation
	DesignSun        gateline.Activation
	DesignEarth      gateline.Activation
}

// Engine implements registry.Engine for the Human Design gate/line
// calculation.
type Engine struct {
	selector  *ephemeris.Selector
	witnesses *witness.Generator
}

// New builds a Human Design engine.
func New(selector *ephemeris.Selector, witnesses *witness.Generator) *Engine {
	return &Engine{selector: selector, witnesses: witnesses}
}

func (e *Engine) ID() string         { return engineID }
func (e *Engine) Name() string       { return "Human Design" }
func (e *Engine) RequiredLevel() int { return 1 }

// Calculate computes the four gate/line activations, either from the
// hd_gates options bypass or from birth data + Design Time refinement.
func (e *Engine) Calculate(ctx context.Context, input apitypes.EngineInput) (apitypes.EngineOutput, error) {
	start := time.Now()

	activations, backend, err := e.resolveActivations(ctx, input)
	if err != nil {
		return apitypes.EngineOutput{}, err
	}

	result := map[string]interface{}{
		"personality_sun":   activationMap(activations.PersonalitySun),
		"personality_earth": activationMap(activations.PersonalityEarth),
		"design_sun":        activationMap(activations.DesignSun),
		"design_earth":      activationMap(activations.DesignEarth),
		"keywords":          Project(activations),
	}

	prompt, err := e.witnesses.Generate(engineID, gateKey(activations.PersonalitySun), input.ConsciousnessLevel)
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
			Backend:           backend,
			PrecisionAchieved: precisionOrDefault(input.Precision),
			Cached:            false,
			Timestamp:         time.Now().UTC(),
		},
	}, nil
}

// resolveActivations implements the two documented input modes (spec §6):
// an hd_gates options bypass, or the full birth-data + Design Time path.
func (e *Engine) resolveActivations(ctx context.Context, input apitypes.EngineInput) (Activations, string, error) {
	if bypass, ok := input.Options["hd_gates"]; ok {
		activations, err := fromBypass(bypass)
		return activations, "hd-derived", err
	}

	if input.BirthData == nil {
		return Activations{}, "", apierrors.NewInvalidInput("birth_data", "required unless hd_gates option is supplied")
	}

	bd, err := birthdata.FromAPIInput(input.BirthData)
	if err != nil {
		return Activations{}, "", err
	}

	precision := ephemeris.Precision(precisionOrDefault(input.Precision))
	birth := bd.Instant()

	personalitySunRes, err := e.selector.Resolve(ctx, birth, ephemeris.Sun, precision, "")
	if err != nil {
		return Activations{}, "", err
	}

	designInstant, err := astro.DesignTime(ctx, birth, astro.FromSelector(e.selector, precision, ""))
	if err != nil {
		return Activations{}, "", err
	}
	designSunRes, err := e.selector.Resolve(ctx, designInstant, ephemeris.Sun, precision, "")
	if err != nil {
		return Activations{}, "", err
	}

	personalityEarthLon := angle.Normalize(personalitySunRes.LongitudeDeg + 180)
	designEarthLon := angle.Normalize(designSunRes.LongitudeDeg + 180)

	backend := string(personalitySunRes.Backend)

	return Activations{
		PersonalitySun:   gateline.FromLongitude(personalitySunRes.LongitudeDeg),
		PersonalityEarth: gateline.FromLongitude(personalityEarthLon),
		DesignSun:        gateline.FromLongitude(designSunRes.LongitudeDeg),
		DesignEarth:      gateline.FromLongitude(designEarthLon),
	}, backend, nil
}

func fromBypass(raw interface{}) (Activations, error) {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return Activations{}, apierrors.NewInvalidInput("hd_gates", "must be an object with personality_sun/personality_earth/design_sun/design_earth")
	}
	gate := func(key string) (int, error) {
		v, ok := m[key]
		if !ok {
			return 0, apierrors.NewInvalidInput("hd_gates."+key, "required")
		}
		f, ok := v.(float64)
		if !ok || f < 1 || f > 64 {
			return 0, apierrors.NewInvalidInput("hd_gates."+key, "must be an integer gate number in [1, 64]")
		}
		return int(f), nil
	}

	personalitySun, err := gate("personality_sun")
	if err != nil {
		return Activations{}, err
	}
	personalityEarth, err := gate("personality_earth")
	if err != nil {
		return Activations{}, err
	}
	designSun, err := gate("design_sun")
	if err != nil {
		return Activations{}, err
	}
	designEarth, err := gate("design_earth")
	if err != nil {
		return Activations{}, err
	}

	return Activations{
		PersonalitySun:   gateline.Activation{Gate: personalitySun, Line: 1},
		PersonalityEarth: gateline.Activation{Gate: personalityEarth, Line: 1},
		DesignSun:        gateline.Activation{Gate: designSun, Line: 1},
		DesignEarth:      gateline.Activation{Gate: designEarth, Line: 1},
	}, nil
}

func activationMap(a gateline.Activation) map[string]interface{} {
	return map[string]interface{}{"gate": a.Gate, "line": a.Line}
}

func gateKey(a gateline.Activation) string {
	return fmt.Sprintf("%d.%d", a.Gate, a.Line)
}

func precisionOrDefault(p string) string {
	if p == "" {
		return string(ephemeris.Standard)
	}
	return p
}

// Project is the per-engine projection function synthesis uses (spec
// §4.7): it derives a small keyword set from the four gate activations.
func Project(a Activations) []string {
	keywords := []string{"identity"}
	if a.PersonalitySun.Gate%2 == 0 {
		keywords = append(keywords, "structure")
	} else {
		keywords = append(keywords, "freedom")
	}
	if a.DesignSun.Gate == a.PersonalitySun.Gate {
		keywords = append(keywords, "continuity")
	}
	return keywords
}

// Keywords implements the per-engine projection function synthesis uses
// (spec §4.7).
func (e *Engine) Keywords(output apitypes.EngineOutput) []string {
	if raw, ok := output.Result["keywords"].([]string); ok {
		return raw
	}
	return nil
}
