package ephemeris_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/R3E-Network/consciousness-core/internal/ephemeris"
)

type stubNative struct {
	supported map[ephemeris.Body]bool
	lon       float64
	speed     float64
}

func (s stubNative) Supports(body ephemeris.Body) bool { return s.supported[body] }

func (s stubNative) Longitude(jd float64, body ephemeris.Body) (float64, float64) {
	return s.lon, s.speed
}

type stubProvider struct {
	result ephemeris.Result
	err    error
}

func (s stubProvider) Longitude(ctx context.Context, instant time.Time, body ephemeris.Body) (ephemeris.Result, error) {
	return s.result, s.err
}

func TestResolveExplicitNativeMode(t *testing.T) {
	n := stubNative{supported: map[ephemeris.Body]bool{ephemeris.Sun: true}, lon: 42, speed: 1}
	sel := ephemeris.NewSelector(n, nil)

	res, err := sel.Resolve(context.Background(), time.Now(), ephemeris.Sun, ephemeris.Standard, ephemeris.Native)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Backend != ephemeris.Native {
		t.Fatalf("expected Native backend, got %v", res.Backend)
	}
	if res.LongitudeDeg != 42 {
		t.Fatalf("expected longitude 42, got %v", res.LongitudeDeg)
	}
}

func TestResolveNativeUnsupportedBodyErrors(t *testing.T) {
	n := stubNative{supported: map[ephemeris.Body]bool{ephemeris.Sun: true}}
	sel := ephemeris.NewSelector(n, nil)

	_, err := sel.Resolve(context.Background(), time.Now(), ephemeris.Mars, ephemeris.Standard, ephemeris.Native)
	if err == nil {
		t.Fatal("expected error for unsupported native body")
	}
}

func TestResolveExplicitEphemerisMode(t *testing.T) {
	p := stubProvider{result: ephemeris.Result{LongitudeDeg: 100, SpeedDegPerDay: 1, HasSpeed: true}}
	sel := ephemeris.NewSelector(nil, p)

	res, err := sel.Resolve(context.Background(), time.Now(), ephemeris.Mars, ephemeris.High, ephemeris.Ephemeris)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Backend != ephemeris.Ephemeris {
		t.Fatalf("expected Ephemeris backend, got %v", res.Backend)
	}
}

func TestResolveDefaultPolicyPrefersNativeForStandardSunMoon(t *testing.T) {
	n := stubNative{supported: map[ephemeris.Body]bool{ephemeris.Sun: true}, lon: 10, speed: 1}
	p := stubProvider{result: ephemeris.Result{LongitudeDeg: 999}}
	sel := ephemeris.NewSelector(n, p)

	res, err := sel.Resolve(context.Background(), time.Now(), ephemeris.Sun, ephemeris.Standard, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Backend != ephemeris.Native {
		t.Fatalf("expected default policy to prefer Native, got %v", res.Backend)
	}
}

func TestResolveDefaultPolicyUsesEphemerisForHighPrecision(t *testing.T) {
	n := stubNative{supported: map[ephemeris.Body]bool{ephemeris.Sun: true}, lon: 10, speed: 1}
	p := stubProvider{result: ephemeris.Result{LongitudeDeg: 999}}
	sel := ephemeris.NewSelector(n, p)

	res, err := sel.Resolve(context.Background(), time.Now(), ephemeris.Sun, ephemeris.High, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Backend != ephemeris.Ephemeris {
		t.Fatalf("expected default policy to use Ephemeris for non-standard precision, got %v", res.Backend)
	}
}

func TestResolveDefaultPolicyUsesEphemerisForUnsupportedBody(t *testing.T) {
	n := stubNative{supported: map[ephemeris.Body]bool{}}
	p := stubProvider{result: ephemeris.Result{LongitudeDeg: 999}}
	sel := ephemeris.NewSelector(n, p)

	res, err := sel.Resolve(context.Background(), time.Now(), ephemeris.Mars, ephemeris.Standard, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Backend != ephemeris.Ephemeris {
		t.Fatalf("expected Ephemeris backend for body native can't support, got %v", res.Backend)
	}
}

func TestResolveCrossValidatedAgreesWithinTolerance(t *testing.T) {
	n := stubNative{supported: map[ephemeris.Body]bool{ephemeris.Sun: true}, lon: 100.0001, speed: 1}
	p := stubProvider{result: ephemeris.Result{LongitudeDeg: 100.0002, SpeedDegPerDay: 1, HasSpeed: true}}
	sel := ephemeris.NewSelector(n, p)

	res, err := sel.Resolve(context.Background(), time.Now(), ephemeris.Sun, ephemeris.Extreme, ephemeris.CrossValidated)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Backend != ephemeris.CrossValidated {
		t.Fatalf("expected CrossValidated backend, got %v", res.Backend)
	}
}

func TestResolveCrossValidatedFailsOutsideTolerance(t *testing.T) {
	n := stubNative{supported: map[ephemeris.Body]bool{ephemeris.Sun: true}, lon: 100.0, speed: 1}
	p := stubProvider{result: ephemeris.Result{LongitudeDeg: 100.1, SpeedDegPerDay: 1, HasSpeed: true}}
	sel := ephemeris.NewSelector(n, p)

	_, err := sel.Resolve(context.Background(), time.Now(), ephemeris.Sun, ephemeris.Extreme, ephemeris.CrossValidated)
	if err == nil {
		t.Fatal("expected cross-validation disagreement error")
	}
}

func TestResolveCrossValidatedPropagatesBackendError(t *testing.T) {
	n := stubNative{supported: map[ephemeris.Body]bool{ephemeris.Sun: true}, lon: 100.0, speed: 1}
	p := stubProvider{err: errors.New("provider unavailable")}
	sel := ephemeris.NewSelector(n, p)

	_, err := sel.Resolve(context.Background(), time.Now(), ephemeris.Sun, ephemeris.Extreme, ephemeris.CrossValidated)
	if err == nil {
		t.Fatal("expected propagated backend error")
	}
}

func TestResolveUnknownModeErrors(t *testing.T) {
	sel := ephemeris.NewSelector(nil, nil)
	_, err := sel.Resolve(context.Background(), time.Now(), ephemeris.Sun, ephemeris.Standard, ephemeris.Mode("bogus"))
	if err == nil {
		t.Fatal("expected error for unknown mode")
	}
}
