// Package panchanga implements the Panchanga engine: tithi, nakshatra,
// yoga, karana, and vara for a given instant and coordinates, required
// level 0. Grounded on spec §4.10's engine enumeration and on
// internal/ephemeris's Sun/Moon longitudes.
package panchanga

import (
	"context"
	"time"

	"github.com/R3E-Network/consciousness-core/internal/apierrors"
	"github.com/R3E-Network/consciousness-core/internal/apitypes"
	"github.com/R3E-Network/consciousness-core/internal/astro/angle"
	"github.com/R3E-Network/consciousness-core/internal/dasha"
	"github.com/R3E-Network/consciousness-core/internal/ephemeris"
	"github.com/R3E-Network/consciousness-core/internal/witness"
)

const engineID = "panchanga"

var varaNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

var nakshatraNames = [27]string{
	"Ashwini", "Bharani", "Krittika", "Rohini", "Mrigashira", "Ardra",
	"Punarvasu", "Pushya", "Ashlesha", "Magha", "Purva Phalguni", "Uttara Phalguni",
	"Hasta", "Chitra", "Swati", "Vishakha", "Anuradha", "Jyeshtha",
	"Mula", "Purva Ashadha", "Uttara Ashadha", "Shravana", "Dhanishta", "Shatabhisha",
	"Purva Bhadrapada", "Uttara Bhadrapada", "Revati",
}

var yogaNames = [27]string{
	"Vishkambha", "Priti", "Ayushman", "Saubhagya", "Shobhana", "Atiganda",
	"Sukarman", "Dhriti", "Shula", "Ganda", "Vriddhi", "Dhruva",
	"Vyaghata", "Harshana", "Vajra", "Siddhi", "Vyatipata", "Variyan",
	"Parigha", "Shiva", "Siddha", "Sadhya", "Shubha", "Shukla",
	"Brahma", "Indra", "Vaidhriti",
}

var karanaNames = [11]string{
	"Bava", "Balava", "Kaulava", "Taitila", "Garaja", "Vanija", "Vishti",
	"Shakuni", "Chatushpada", "Naga", "Kimstughna",
}

// Engine implements registry.Engine for the Panchanga calculation.
type Engine struct {
	selector  *ephemeris.Selector
	witnesses *witness.Generator
}

// New builds a Panchanga engine over a longitude selector and witness
// prompt generator.
func New(selector *ephemeris.Selector, witnesses *witness.Generator) *Engine {
	return &Engine{selector: selector, witnesses: witnesses}
}

func (e *Engine) ID() string         { return engineID }
func (e *Engine) Name() string       { return "Panchanga" }
func (e *Engine) RequiredLevel() int { return 0 }

// Calculate computes tithi/nakshatra/yoga/karana/vara for input's
// current_time (defaulting to now).
func (e *Engine) Calculate(ctx context.Context, input apitypes.EngineInput) (apitypes.EngineOutput, error) {
	start := time.Now()

	instant := time.Now().UTC()
	if input.CurrentTime != nil {
		instant = *input.CurrentTime
	}

	precision := ephemeris.Precision(input.Precision)
	if precision == "" {
		precision = ephemeris.Standard
	}

	sunRes, err := e.selector.Resolve(ctx, instant, ephemeris.Sun, precision, "")
	if err != nil {
		return apitypes.EngineOutput{}, err
	}
	moonRes, err := e.selector.Resolve(ctx, instant, ephemeris.Moon, precision, "")
	if err != nil {
		return apitypes.EngineOutput{}, err
	}

	elongation := angle.Normalize(moonRes.LongitudeDeg - sunRes.LongitudeDeg)
	tithi := int(elongation/12.0) + 1
	if tithi > 30 {
		tithi = 30
	}

	nakshatraIdx := dasha.NakshatraIndex(moonRes.LongitudeDeg)

	yogaSum := angle.Normalize(sunRes.LongitudeDeg + moonRes.LongitudeDeg)
	yogaIdx := int(yogaSum / (360.0 / 27.0))
	if yogaIdx > 26 {
		yogaIdx = 26
	}

	karanaIdx := int(elongation/6.0) % 11
	if karanaIdx < 0 {
		karanaIdx += 11
	}

	vara := int(instant.Weekday())

	result := map[string]interface{}{
		"tithi":              tithi,
		"nakshatra":          nakshatraNames[nakshatraIdx],
		"nakshatra_index":    nakshatraIdx,
		"yoga":               yogaNames[yogaIdx],
		"karana":             karanaNames[karanaIdx],
		"vara":               varaNames[vara],
		"sun_longitude_deg":  sunRes.LongitudeDeg,
		"moon_longitude_deg": moonRes.LongitudeDeg,
		"keywords":           e.keywordsFor(tithi, nakshatraIdx),
	}

	backend := "native"
	if sunRes.Backend == ephemeris.Ephemeris || moonRes.Backend == ephemeris.Ephemeris {
		backend = "ephemeris"
	}
	if sunRes.Backend == ephemeris.CrossValidated || moonRes.Backend == ephemeris.CrossValidated {
		backend = "cross-validated"
	}

	prompt, err := e.witnesses.Generate(engineID, nakshatraNames[nakshatraIdx], input.ConsciousnessLevel)
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
			PrecisionAchieved: string(precision),
			Cached:            false,
			Timestamp:         time.Now().UTC(),
		},
	}, nil
}

// Keywords implements the per-engine projection function synthesis uses
// (spec §4.7).
func (e *Engine) Keywords(output apitypes.EngineOutput) []string {
	if raw, ok := output.Result["keywords"].([]string); ok {
		return raw
	}
	return nil
}

func (e *Engine) keywordsFor(tithi, nakshatraIdx int) []string {
	keywords := []string{"rhythm"}
	if tithi <= 15 {
		keywords = append(keywords, "growth")
	} else {
		keywords = append(keywords, "release")
	}
	if nakshatraIdx%3 == 0 {
		keywords = append(keywords, "grounding")
	}
	return keywords
}
