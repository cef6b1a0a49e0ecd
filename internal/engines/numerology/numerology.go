// Package numerology implements the numerology engine: life path,
// expression, and soul urge numbers reduced from birth date and an
// optional full name, required level 0. Reduction follows the
// conventional Pythagorean scheme with 11, 22, and 33 kept as master
// numbers rather than reduced further.
package numerology

import (
	"context"
	"strings"
	"time"

	"github.com/R3E-Network/consciousness-core/internal/apierrors"
	"github.com/R3E-Network/consciousness-core/internal/apitypes"
	"github.com/R3E-Network/consciousness-core/internal/birthdata"
	"github.com/R3E-Network/consciousness-core/internal/witness"
)

const engineID = "numerology"

var letterValues = map[rune]int{
	'a': 1, 'b': 2, 'c': 3, 'd': 4, 'e': 5, 'f': 6, 'g': 7, 'h': 8, 'i': 9,
	'j': 1, 'k': 2, 'l': 3, 'm': 4, 'n': 5, 'o': 6, 'p': 7, 'q': 8, 'r': 9,
	's': 1, 't': 2, 'u': 3, 'v': 4, 'w': 5, 'x': 6, 'y': 7, 'z': 8,
}

var vowels = map[rune]bool{'a': true, 'e': true, 'i': true, 'o': true, 'u': true}

// Engine implements registry.Engine for the numerology calculation.
type Engine struct {
	witnesses *witness.Generator
}

// New builds a numerology engine.
func New(witnesses *witness.Generator) *Engine {
	return &Engine{witnesses: witnesses}
}

func (e *Engine) ID() string         { return engineID }
func (e *Engine) Name() string       { return "Numerology" }
func (e *Engine) RequiredLevel() int { return 0 }

// Calculate reduces the birth date to a life path number and, if a name
// option is supplied, derives expression and soul urge numbers from it.
func (e *Engine) Calculate(ctx context.Context, input apitypes.EngineInput) (apitypes.EngineOutput, error) {
	start := time.Now()

	bd, err := birthdata.FromAPIInput(input.BirthData)
	if err != nil {
		return apitypes.EngineOutput{}, err
	}

	lifePath := lifePathNumber(bd.Instant())

	result := map[string]interface{}{
		"life_path": lifePath,
	}
	keywords := keywordsFor(lifePath)

	if name, ok := input.Options["name"].(string); ok && strings.TrimSpace(name) != "" {
		expression := reduce(sumLetters(name, func(r rune) bool { return true }))
		soulUrge := reduce(sumLetters(name, func(r rune) bool { return vowels[r] }))
		result["expression"] = expression
		result["soul_urge"] = soulUrge
		keywords = append(keywords, keywordsFor(expression)...)
	}
	result["keywords"] = dedupe(keywords)

	prompt, err := e.witnesses.Generate(engineID, formatInt(lifePath), input.ConsciousnessLevel)
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

func lifePathNumber(birth time.Time) int {
	digits := digitSum(birth.Year()) + digitSum(int(birth.Month())) + digitSum(birth.Day())
	return reduce(digits)
}

func sumLetters(name string, include func(r rune) bool) int {
	sum := 0
	for _, r := range strings.ToLower(name) {
		if v, ok := letterValues[r]; ok && include(r) {
			sum += v
		}
	}
	return sum
}

// reduce collapses n to a single digit by repeated digit-sum, except that
// 11, 22, and 33 are preserved as master numbers.
func reduce(n int) int {
	for n > 9 && n != 11 && n != 22 && n != 33 {
		n = digitSum(n)
	}
	return n
}

func digitSum(n int) int {
	if n < 0 {
		n = -n
	}
	sum := 0
	for n > 0 {
		sum += n % 10
		n /= 10
	}
	return sum
}

func keywordsFor(n int) []string {
	switch n {
	case 1:
		return []string{"initiative"}
	case 11, 22, 33:
		return []string{"mastery"}
	default:
		if n%2 == 0 {
			return []string{"cooperation"}
		}
		return []string{"independence"}
	}
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}

func formatInt(n int) string {
	if n < 0 {
		n = -n
	}
	if n == 0 {
		return "0"
	}
	digits := make([]byte, 0, 3)
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
