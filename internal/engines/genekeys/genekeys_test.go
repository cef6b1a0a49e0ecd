package genekeys

import (
	"context"
	"errors"
	"testing"

	"github.com/R3E-Network/consciousness-core/internal/apitypes"
	"github.com/R3E-Network/consciousness-core/internal/witness"
)

type fakeHD struct {
	out apitypes.EngineOutput
	err error
}

func (f fakeHD) Calculate(ctx context.Context, input apitypes.EngineInput) (apitypes.EngineOutput, error) {
	return f.out, f.err
}

func testWitnesses() *witness.Generator {
	return witness.NewFromCorpora(map[string]map[witness.Band][]string{
		engineID: {
			witness.Observational: {"Notice the keys."},
			witness.Inquiry:       {"What do the keys ask?"},
			witness.OpenAwareness: {"Rest in the keys."},
		},
	})
}

func hdOutputWithGates(sun, earth, designSun, designEarth int) apitypes.EngineOutput {
	return apitypes.EngineOutput{
		EngineID:      "humandesign",
		WitnessPrompt: "1.1",
		Result: map[string]interface{}{
			"personality_sun":   map[string]interface{}{"gate": sun, "line": 1},
			"personality_earth": map[string]interface{}{"gate": earth, "line": 1},
			"design_sun":        map[string]interface{}{"gate": designSun, "line": 1},
			"design_earth":      map[string]interface{}{"gate": designEarth, "line": 1},
		},
		Metadata: apitypes.Metadata{Backend: "hd-derived", PrecisionAchieved: "standard"},
	}
}

func TestCalculateReprojectsHDGates(t *testing.T) {
	e := New(fakeHD{out: hdOutputWithGates(1, 2, 13, 64)}, testWitnesses())
	out, err := e.Calculate(context.Background(), apitypes.EngineInput{EngineID: engineID, ConsciousnessLevel: 1})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	entry, ok := out.Result["personality_sun"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected personality_sun map, got %T", out.Result["personality_sun"])
	}
	if entry["gate"] != 1 {
		t.Fatalf("expected gate 1, got %v", entry["gate"])
	}
	if entry["gift"] != "Freshness" {
		t.Fatalf("expected gift Freshness for gate 1, got %v", entry["gift"])
	}
	if out.Metadata.Backend != "hd-derived" {
		t.Fatalf("expected backend to pass through from humandesign, got %s", out.Metadata.Backend)
	}
	if out.WitnessPrompt == "" {
		t.Fatal("expected non-empty witness prompt")
	}
}

func TestCalculateUnknownGateFallsBackToGenericTriad(t *testing.T) {
	e := New(fakeHD{out: hdOutputWithGates(40, 41, 42, 43)}, testWitnesses())
	out, err := e.Calculate(context.Background(), apitypes.EngineInput{EngineID: engineID})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	entry := out.Result["personality_sun"].(map[string]interface{})
	if entry["gift"] != "Resolve" {
		t.Fatalf("expected generic fallback gift Resolve, got %v", entry["gift"])
	}
}

func TestCalculatePropagatesHumanDesignError(t *testing.T) {
	e := New(fakeHD{err: errors.New("boom")}, testWitnesses())
	if _, err := e.Calculate(context.Background(), apitypes.EngineInput{EngineID: engineID}); err == nil {
		t.Fatal("expected error to propagate from underlying humandesign engine")
	}
}

func TestKeywordsExtractsFromResult(t *testing.T) {
	e := New(fakeHD{out: hdOutputWithGates(1, 2, 13, 64)}, testWitnesses())
	out, err := e.Calculate(context.Background(), apitypes.EngineInput{EngineID: engineID})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if len(e.Keywords(out)) == 0 {
		t.Fatal("expected non-empty keywords")
	}
}
