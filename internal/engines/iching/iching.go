// Package iching implements the I Ching engine: a deterministic six-line
// hexagram draw against the classical King Wen sequence of 64 hexagrams,
// required level 2. This is the numbered-sequence counterpart to the
// Human Design engine's sequential gate mapping — the same wheel of 64,
// read through a different, much older ordering.
package iching

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"time"

	"github.com/R3E-Network/consciousness-core/internal/apierrors"
	"github.com/R3E-Network/consciousness-core/internal/apitypes"
	"github.com/R3E-Network/consciousness-core/internal/fingerprint"
	"github.com/R3E-Network/consciousness-core/internal/witness"
)

const engineID = "iching"

const requiredLevel = 2

const lineCount = 6

// Hexagram is one entry of the classical 64-hexagram sequence.
type Hexagram struct {
	Number   int      `json:"number"`
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}

type hexagramFile struct {
	Hexagrams []Hexagram `json:"hexagrams"`
}

// LoadHexagrams reads the classical 64-hexagram data file under dir.
func LoadHexagrams(dir string) ([]Hexagram, error) {
	raw, err := os.ReadFile(filepath.Join(dir, "hexagrams.json"))
	if err != nil {
		return nil, fmt.Errorf("iching: reading hexagram data: %w", err)
	}
	var file hexagramFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("iching: parsing hexagram data: %w", err)
	}
	return file.Hexagrams, nil
}

// Engine implements registry.Engine for the I Ching calculation.
type Engine struct {
	hexagrams []Hexagram
	witnesses *witness.Generator
}

// New builds an I Ching engine over a loaded hexagram set and witness
// prompt generator.
func New(hexagrams []Hexagram, witnesses *witness.Generator) *Engine {
	return &Engine{hexagrams: hexagrams, witnesses: witnesses}
}

func (e *Engine) ID() string         { return engineID }
func (e *Engine) Name() string       { return "I Ching" }
func (e *Engine) RequiredLevel() int { return requiredLevel }

// Calculate casts six lines (a coin-toss equivalent seeded by a digest of
// the request), selects a hexagram by a separate hash of the same digest
// (the cast lines do not determine which hexagram is chosen), and reports
// any changing lines.
func (e *Engine) Calculate(ctx context.Context, input apitypes.EngineInput) (apitypes.EngineOutput, error) {
	start := time.Now()

	if len(e.hexagrams) == 0 {
		return apitypes.EngineOutput{}, apierrors.New(apierrors.CalculationError, "iching: hexagram set is empty")
	}

	digest, err := fingerprint.Of(input, "iching-cast")
	if err != nil {
		return apitypes.EngineOutput{}, err
	}

	lines, changing := castLines(string(digest))
	idx := int(fnvHash(string(digest)+"|hexagram") % uint32(len(e.hexagrams)))
	hexagram := e.hexagrams[idx]

	result := map[string]interface{}{
		"hexagram":       hexagram.Number,
		"name":           hexagram.Name,
		"lines":          lines,
		"changing_lines": changing,
		"keywords":       hexagram.Keywords,
	}

	prompt, err := e.witnesses.Generate(engineID, hexagram.Name, input.ConsciousnessLevel)
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
			Backend:           "deterministic-draw",
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

// castLines deterministically casts six yin/yang lines from digest, each
// with a one-in-four chance of being a "changing" line, in the manner of a
// traditional three-coin toss per line (four possible outcomes per line:
// old yin, young yang, young yin, old yang).
func castLines(digest string) (lines []string, changingLines []int) {
	lines = make([]string, lineCount)
	for i := 0; i < lineCount; i++ {
		outcome := fnvHash(fmt.Sprintf("%s|line|%d", digest, i)) % 8
		switch outcome {
		case 0: // old yin (1 in 8): changing, yin
			lines[i] = "yin"
			changingLines = append(changingLines, i+1)
		case 1, 2, 3: // young yang (3 in 8): stable
			lines[i] = "yang"
		case 4, 5, 6: // young yin (3 in 8): stable
			lines[i] = "yin"
		case 7: // old yang (1 in 8): changing, yang
			lines[i] = "yang"
			changingLines = append(changingLines, i+1)
		}
	}
	return lines, changingLines
}

func fnvHash(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}
