package biorhythm

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/R3E-Network/consciousness-core/internal/apitypes"
	"github.com/R3E-Network/consciousness-core/internal/witness"
)

func testEngine() *Engine {
	w := witness.NewFromCorpora(map[string]map[witness.Band][]string{
		engineID: {
			witness.Observational: {"Notice the cycles."},
			witness.Inquiry:       {"What cycle is rising?"},
			witness.OpenAwareness: {"Rest in the cycles."},
		},
	})
	return New(w)
}

func TestCalculateAtBirthIsZero(t *testing.T) {
	e := testEngine()
	birth := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	input := apitypes.EngineInput{
		EngineID: engineID,
		BirthData: &apitypes.BirthDataInput{
			Date: "2000-01-01", Time: "00:00:00", Timezone: "UTC", Latitude: 0, Longitude: 0,
		},
		CurrentTime: &birth,
	}
	out, err := e.Calculate(context.Background(), input)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	for _, key := range []string{"physical", "emotional", "intellectual"} {
		v := out.Result[key].(float64)
		if math.Abs(v) > 1e-9 {
			t.Fatalf("expected %s at birth to be ~0, got %v", key, v)
		}
	}
}

func TestCalculateValuesWithinUnitRange(t *testing.T) {
	e := testEngine()
	instant := time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC)
	input := apitypes.EngineInput{
		EngineID: engineID,
		BirthData: &apitypes.BirthDataInput{
			Date: "1991-08-13", Time: "08:01:00", Timezone: "UTC", Latitude: 28.6, Longitude: 77.2,
		},
		CurrentTime: &instant,
	}
	out, err := e.Calculate(context.Background(), input)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	for _, key := range []string{"physical", "emotional", "intellectual"} {
		v := out.Result[key].(float64)
		if v < -1.0001 || v > 1.0001 {
			t.Fatalf("expected %s in [-1, 1], got %v", key, v)
		}
	}
}

func TestCalculatePhysicalCyclePeriod(t *testing.T) {
	e := testEngine()
	birth := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	oneFullCycleLater := birth.Add(time.Duration(physicalCycleDays*24) * time.Hour)
	input := apitypes.EngineInput{
		EngineID: engineID,
		BirthData: &apitypes.BirthDataInput{
			Date: "2000-01-01", Time: "00:00:00", Timezone: "UTC", Latitude: 0, Longitude: 0,
		},
		CurrentTime: &oneFullCycleLater,
	}
	out, err := e.Calculate(context.Background(), input)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	physical := out.Result["physical"].(float64)
	if math.Abs(physical) > 1e-6 {
		t.Fatalf("expected physical to return to ~0 after one full cycle, got %v", physical)
	}
}

func TestCalculateRequiresBirthData(t *testing.T) {
	e := testEngine()
	if _, err := e.Calculate(context.Background(), apitypes.EngineInput{EngineID: engineID}); err == nil {
		t.Fatal("expected error when birth data is missing")
	}
}
