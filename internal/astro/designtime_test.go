package astro

import (
	"context"
	"testing"
	"time"

	"github.com/R3E-Network/consciousness-core/internal/astro/angle"
)

// linearSolar models a Sun whose longitude increases at a constant speed;
// enough to exercise the iteration without the native/ephemeris backends.
func linearSolar(speed float64, lonAtEpoch float64, epoch time.Time) SolarLongitudeFunc {
	return func(ctx context.Context, instant time.Time) (float64, float64, error) {
		days := instant.Sub(epoch).Hours() / 24
		return angle.Normalize(lonAtEpoch + speed*days), speed, nil
	}
}

func TestDesignTimeConvergesForConstantSpeed(t *testing.T) {
	epoch := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	birth := epoch.Add(200 * 24 * time.Hour)
	speed := 0.9856 // degrees/day, roughly Earth's mean solar motion

	fn := linearSolar(speed, 0, epoch)
	got, err := DesignTime(context.Background(), birth, fn)
	if err != nil {
		t.Fatalf("DesignTime() error = %v", err)
	}

	wantDays := designArcDeg / speed
	want := birth.Add(-time.Duration(wantDays * float64(24*time.Hour)))

	diff := got.Sub(want)
	if diff < 0 {
		diff = -diff
	}
	if diff > time.Hour {
		t.Fatalf("DesignTime result off by %v (> 1h tolerance): got %v want %v", diff, got, want)
	}
}

func TestDesignTimeResultIs88DegreesBeforeBirth(t *testing.T) {
	epoch := time.Date(1991, 8, 1, 0, 0, 0, 0, time.UTC)
	birth := epoch.Add(12 * 24 * time.Hour)
	speed := 1.0

	fn := linearSolar(speed, 123.0, epoch)
	got, err := DesignTime(context.Background(), birth, fn)
	if err != nil {
		t.Fatalf("DesignTime() error = %v", err)
	}

	birthLon, _, _ := fn(context.Background(), birth)
	designLon, _, _ := fn(context.Background(), got)

	arc := angle.ShortestArc(birthLon, designLon)
	if arc < 0 {
		arc = -arc
	}
	diff := arc - designArcDeg
	if diff < 0 {
		diff = -diff
	}
	if diff > 0.01 {
		t.Fatalf("expected ~88 degree arc, got %v degrees", arc)
	}
}

func TestDesignTimeFailsOnZeroSpeed(t *testing.T) {
	fn := func(ctx context.Context, instant time.Time) (float64, float64, error) {
		return 100.0, 0.0, nil
	}
	_, err := DesignTime(context.Background(), time.Now(), fn)
	if err == nil {
		t.Fatal("expected error for zero solar speed")
	}
}

func TestDesignTimeRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fn := linearSolar(1.0, 0, time.Now())
	_, err := DesignTime(ctx, time.Now(), fn)
	if err == nil {
		t.Fatal("expected error when context is already cancelled")
	}
}
