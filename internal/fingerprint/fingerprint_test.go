package fingerprint

import (
	"testing"
	"time"

	"github.com/R3E-Network/consciousness-core/internal/apitypes"
)

func sampleInput() apitypes.EngineInput {
	return apitypes.EngineInput{
		EngineID: "panchanga",
		BirthData: &apitypes.BirthDataInput{
			Date:      "1991-08-13",
			Time:      "13:31",
			Timezone:  "+05:30",
			Latitude:  28.613895,
			Longitude: 77.209006,
		},
		Precision:          "Standard",
		ConsciousnessLevel: 0,
		Options:            map[string]interface{}{"b": 1.0, "a": "x"},
	}
}

func TestOfIsDeterministicAcrossCalls(t *testing.T) {
	input := sampleInput()
	d1, err := Of(input, "native")
	if err != nil {
		t.Fatalf("Of() error = %v", err)
	}
	d2, err := Of(input, "native")
	if err != nil {
		t.Fatalf("Of() error = %v", err)
	}
	if d1 != d2 {
		t.Fatalf("expected identical fingerprints, got %s vs %s", d1, d2)
	}
}

func TestOfIgnoresOptionsKeyOrder(t *testing.T) {
	a := sampleInput()
	a.Options = map[string]interface{}{"a": "x", "b": 1.0}
	b := sampleInput()
	b.Options = map[string]interface{}{"b": 1.0, "a": "x"}

	da, err := Of(a, "native")
	if err != nil {
		t.Fatalf("Of() error = %v", err)
	}
	db, err := Of(b, "native")
	if err != nil {
		t.Fatalf("Of() error = %v", err)
	}
	if da != db {
		t.Fatalf("expected map key order to not affect fingerprint, got %s vs %s", da, db)
	}
}

func TestOfDiffersWhenFieldChanges(t *testing.T) {
	base := sampleInput()
	baseDigest, err := Of(base, "native")
	if err != nil {
		t.Fatalf("Of() error = %v", err)
	}

	changed := sampleInput()
	changed.BirthData.Latitude = 28.613896
	changedDigest, err := Of(changed, "native")
	if err != nil {
		t.Fatalf("Of() error = %v", err)
	}

	if baseDigest == changedDigest {
		t.Fatal("expected fingerprint to change when latitude changes")
	}
}

func TestOfDiffersWhenBackendModeChanges(t *testing.T) {
	input := sampleInput()
	native, err := Of(input, "native")
	if err != nil {
		t.Fatalf("Of() error = %v", err)
	}
	ephemeris, err := Of(input, "ephemeris")
	if err != nil {
		t.Fatalf("Of() error = %v", err)
	}
	if native == ephemeris {
		t.Fatal("expected fingerprint to change when backend mode changes")
	}
}

func TestOfQuantizesCurrentTimeToSeconds(t *testing.T) {
	input := sampleInput()
	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(400 * time.Millisecond)
	input.CurrentTime = &t1
	d1, err := Of(input, "native")
	if err != nil {
		t.Fatalf("Of() error = %v", err)
	}
	input.CurrentTime = &t2
	d2, err := Of(input, "native")
	if err != nil {
		t.Fatalf("Of() error = %v", err)
	}
	if d1 != d2 {
		t.Fatalf("expected sub-second jitter to not affect fingerprint, got %s vs %s", d1, d2)
	}
}

func TestOfTreatsShortAndLongTimeOfDayIdentically(t *testing.T) {
	short := sampleInput()
	short.BirthData.Time = "13:31"
	long := sampleInput()
	long.BirthData.Time = "13:31:00"

	dShort, err := Of(short, "native")
	if err != nil {
		t.Fatalf("Of() error = %v", err)
	}
	dLong, err := Of(long, "native")
	if err != nil {
		t.Fatalf("Of() error = %v", err)
	}
	if dShort != dLong {
		t.Fatalf("expected HH:MM and HH:MM:SS forms to canonicalize identically, got %s vs %s", dShort, dLong)
	}
}

func TestOfRejectsEmptyTimezone(t *testing.T) {
	input := sampleInput()
	input.BirthData.Timezone = ""
	if _, err := Of(input, "native"); err == nil {
		t.Fatal("expected error for empty timezone")
	}
}

func TestOfHandlesNilBirthDataAndCurrentTime(t *testing.T) {
	input := apitypes.EngineInput{
		EngineID:           "numerology",
		Precision:          "Standard",
		ConsciousnessLevel: 0,
	}
	if _, err := Of(input, "native"); err != nil {
		t.Fatalf("Of() error = %v", err)
	}
}
