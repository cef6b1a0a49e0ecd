package tarot

import (
	"context"
	"testing"

	"github.com/R3E-Network/consciousness-core/internal/apitypes"
	"github.com/R3E-Network/consciousness-core/internal/witness"
)

func testDeck() []Card {
	deck := make([]Card, 0, 78)
	deck = append(deck, Card{Name: "The Fool", Keywords: []string{"beginnings"}})
	deck = append(deck, Card{Name: "The Magician", Keywords: []string{"manifestation"}})
	for _, suit := range suits {
		for _, rank := range rankNames {
			deck = append(deck, Card{Name: rank + " of " + suit, Keywords: []string{suitKeywords[suit]}})
		}
	}
	return deck
}

func testEngine() *Engine {
	w := witness.NewFromCorpora(map[string]map[witness.Band][]string{
		engineID: {
			witness.Observational: {"Notice the cards."},
			witness.Inquiry:       {"What do the cards ask?"},
			witness.OpenAwareness: {"Rest in the cards."},
		},
	})
	return New(testDeck(), w)
}

func TestCalculateDrawsThreeDistinctCards(t *testing.T) {
	e := testEngine()
	input := apitypes.EngineInput{EngineID: engineID, ConsciousnessLevel: 2}
	out, err := e.Calculate(context.Background(), input)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	spread, ok := out.Result["spread"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected spread map, got %T", out.Result["spread"])
	}
	names := make(map[string]bool, 3)
	for _, position := range []string{"past", "present", "future"} {
		entry, ok := spread[position].(map[string]interface{})
		if !ok {
			t.Fatalf("expected %s entry", position)
		}
		name := entry["name"].(string)
		if names[name] {
			t.Fatalf("expected distinct cards, got duplicate %s", name)
		}
		names[name] = true
	}
}

func TestCalculateIsDeterministic(t *testing.T) {
	e := testEngine()
	input := apitypes.EngineInput{EngineID: engineID, ConsciousnessLevel: 2}
	first, err := e.Calculate(context.Background(), input)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	second, err := e.Calculate(context.Background(), input)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if first.Result["spread"].(map[string]interface{})["past"].(map[string]interface{})["name"] !=
		second.Result["spread"].(map[string]interface{})["past"].(map[string]interface{})["name"] {
		t.Fatal("expected identical draws for identical requests")
	}
}

func TestCalculateDifferentOptionsProduceDifferentDraws(t *testing.T) {
	e := testEngine()
	a, err := e.Calculate(context.Background(), apitypes.EngineInput{
		EngineID: engineID, Options: map[string]interface{}{"question": "career"},
	})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	b, err := e.Calculate(context.Background(), apitypes.EngineInput{
		EngineID: engineID, Options: map[string]interface{}{"question": "love"},
	})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	aSpread := a.Result["spread"].(map[string]interface{})
	bSpread := b.Result["spread"].(map[string]interface{})
	if aSpread["past"].(map[string]interface{})["name"] == bSpread["past"].(map[string]interface{})["name"] &&
		aSpread["present"].(map[string]interface{})["name"] == bSpread["present"].(map[string]interface{})["name"] &&
		aSpread["future"].(map[string]interface{})["name"] == bSpread["future"].(map[string]interface{})["name"] {
		t.Fatal("expected different options to plausibly change the draw")
	}
}

func TestRequiredLevelIsTwo(t *testing.T) {
	e := testEngine()
	if e.RequiredLevel() != 2 {
		t.Fatalf("expected required level 2, got %d", e.RequiredLevel())
	}
}

func TestCalculateRejectsEmptyDeck(t *testing.T) {
	w := witness.NewFromCorpora(map[string]map[witness.Band][]string{
		engineID: {witness.Observational: {"x"}, witness.Inquiry: {"x"}, witness.OpenAwareness: {"x"}},
	})
	e := New(nil, w)
	if _, err := e.Calculate(context.Background(), apitypes.EngineInput{EngineID: engineID}); err == nil {
		t.Fatal("expected error for empty deck")
	}
}
