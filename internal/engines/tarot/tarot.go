// Package tarot implements the tarot engine: a deterministic three-card
// draw (past/present/future) from a 78-card deck, required level 2. The
// draw is seeded by a stable digest of the request rather than wall-clock
// randomness, so an identical request always yields an identical spread.
// The Major Arcana are data-driven (data/tarot/major_arcana.json); the
// Minor Arcana are generated from their four suits and fourteen ranks.
package tarot

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

const engineID = "tarot"

const requiredLevel = 2

var suits = [4]string{"Wands", "Cups", "Swords", "Pentacles"}

var rankNames = [14]string{
	"Ace", "Two", "Three", "Four", "Five", "Six", "Seven",
	"Eight", "Nine", "Ten", "Page", "Knight", "Queen", "King",
}

var suitKeywords = map[string]string{
	"Wands":     "passion",
	"Cups":      "feeling",
	"Swords":    "thought",
	"Pentacles": "substance",
}

// Card is a single deck entry.
type Card struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}

type majorArcanaFile struct {
	Cards []Card `json:"cards"`
}

// LoadDeck builds the full 78-card deck from the Major Arcana data file
// under dir plus a procedurally generated Minor Arcana.
func LoadDeck(dir string) ([]Card, error) {
	raw, err := os.ReadFile(filepath.Join(dir, "major_arcana.json"))
	if err != nil {
		return nil, fmt.Errorf("tarot: reading major arcana data: %w", err)
	}
	var file majorArcanaFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("tarot: parsing major arcana data: %w", err)
	}
	deck := make([]Card, 0, 78)
	deck = append(deck, file.Cards...)
	for _, suit := range suits {
		for _, rank := range rankNames {
			deck = append(deck, Card{
				Name:     rank + " of " + suit,
				Keywords: []string{suitKeywords[suit]},
			})
		}
	}
	return deck, nil
}

// Engine implements registry.Engine for the tarot calculation.
type Engine struct {
	deck      []Card
	witnesses *witness.Generator
}

// New builds a tarot engine over a loaded deck and witness prompt
// generator.
func New(deck []Card, witnesses *witness.Generator) *Engine {
	return &Engine{deck: deck, witnesses: witnesses}
}

func (e *Engine) ID() string         { return engineID }
func (e *Engine) Name() string       { return "Tarot" }
func (e *Engine) RequiredLevel() int { return requiredLevel }

// Calculate draws three distinct cards (past, present, future) seeded by a
// digest of the request.
func (e *Engine) Calculate(ctx context.Context, input apitypes.EngineInput) (apitypes.EngineOutput, error) {
	start := time.Now()

	if len(e.deck) == 0 {
		return apitypes.EngineOutput{}, apierrors.New(apierrors.CalculationError, "tarot: deck is empty")
	}

	digest, err := fingerprint.Of(input, "tarot-draw")
	if err != nil {
		return apitypes.EngineOutput{}, err
	}

	positions := []string{"past", "present", "future"}
	drawn := make(map[int]bool, len(positions))
	spread := make(map[string]interface{}, len(positions))
	var keywords []string

	for _, position := range positions {
		idx := drawUnused(string(digest), position, len(e.deck), drawn)
		drawn[idx] = true
		card := e.deck[idx]
		reversed := seededBool(string(digest), position)
		spread[position] = map[string]interface{}{
			"name":     card.Name,
			"reversed": reversed,
			"keywords": card.Keywords,
		}
		keywords = append(keywords, card.Keywords...)
	}

	result := map[string]interface{}{
		"spread":   spread,
		"keywords": dedupe(keywords),
	}

	prompt, err := e.witnesses.Generate(engineID, string(digest), input.ConsciousnessLevel)
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

func drawUnused(digest, position string, deckSize int, drawn map[int]bool) int {
	for salt := 0; ; salt++ {
		idx := int(fnvHash(fmt.Sprintf("%s|%s|%d", digest, position, salt)) % uint32(deckSize))
		if !drawn[idx] {
			return idx
		}
	}
}

func seededBool(digest, position string) bool {
	return fnvHash(digest+"|"+position+"|orientation")%2 == 1
}

func fnvHash(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
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
