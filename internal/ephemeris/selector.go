package ephemeris

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/R3E-Network/consciousness-core/internal/apierrors"
	"github.com/R3E-Network/consciousness-core/internal/astro/angle"
)

// crossValidationToleranceDeg is the maximum shortest-arc disagreement
// allowed between native and ephemeris backends before CrossValidated mode
// fails the request (spec §4.1).
const crossValidationToleranceDeg = 0.001

// NativeCalculator is implemented by the truncated-series package for the
// bodies it supports (Sun and Moon only, per spec §4.1).
type NativeCalculator interface {
	Supports(body Body) bool
	Longitude(jd float64, body Body) (lonDeg, speedDegPerDay float64)
}

// Selector implements the routing policy of spec §4.1: it chooses between
// native, ephemeris, or cross-validated computation per request.
type Selector struct {
	native    NativeCalculator
	ephemeris Provider
}

// NewSelector builds a Selector over a native calculator and the
// third-party ephemeris provider. Either may be nil, but at least one must
// be non-nil for Resolve to succeed for any given request.
func NewSelector(native NativeCalculator, ephemerisProvider Provider) *Selector {
	return &Selector{native: native, ephemeris: ephemerisProvider}
}

// Resolve computes longitude (and speed, when available) for body at
// instant, honoring the requested mode and precision. When mode is empty,
// the default policy applies: Native when precision is Standard and the
// native calculator supports body (Sun/Moon), Ephemeris otherwise.
func (s *Selector) Resolve(ctx context.Context, instant time.Time, body Body, precision Precision, mode Mode) (Result, error) {
	switch mode {
	case Native:
		return s.resolveNative(instant, body)
	case Ephemeris:
		return s.resolveEphemeris(ctx, instant, body)
	case CrossValidated:
		return s.resolveCrossValidated(ctx, instant, body)
	case "":
		if precision == Standard && s.native != nil && s.native.Supports(body) {
			return s.resolveNative(instant, body)
		}
		return s.resolveEphemeris(ctx, instant, body)
	default:
		return Result{}, apierrors.NewInvalidInput("backend_mode", fmt.Sprintf("unknown mode %q", mode))
	}
}

func (s *Selector) resolveNative(instant time.Time, body Body) (Result, error) {
	if s.native == nil || !s.native.Supports(body) {
		return Result{}, apierrors.New(apierrors.InvalidInput, "native backend does not support body").
			WithDetail("body", body.String())
	}
	jd := angle.ToJulianDay(instant)
	lon, speed := s.native.Longitude(jd, body)
	return Result{LongitudeDeg: angle.Normalize(lon), SpeedDegPerDay: speed, HasSpeed: true, Backend: Native}, nil
}

func (s *Selector) resolveEphemeris(ctx context.Context, instant time.Time, body Body) (Result, error) {
	if s.ephemeris == nil {
		return Result{}, apierrors.New(apierrors.ConfigError, "no ephemeris provider configured")
	}
	res, err := s.ephemeris.Longitude(ctx, instant, body)
	if err != nil {
		return Result{}, err
	}
	res.Backend = Ephemeris
	return res, nil
}

func (s *Selector) resolveCrossValidated(ctx context.Context, instant time.Time, body Body) (Result, error) {
	nativeRes, nativeErr := s.resolveNative(instant, body)
	ephemRes, ephemErr := s.resolveEphemeris(ctx, instant, body)

	var merr *multierror.Error
	if nativeErr != nil {
		merr = multierror.Append(merr, nativeErr)
	}
	if ephemErr != nil {
		merr = multierror.Append(merr, ephemErr)
	}
	if merr != nil {
		return Result{}, apierrors.Wrap(apierrors.CalculationError, "cross-validation backend error", merr)
	}

	diff := angle.ShortestArc(nativeRes.LongitudeDeg, ephemRes.LongitudeDeg)
	if diff < 0 {
		diff = -diff
	}
	if diff > crossValidationToleranceDeg {
		return Result{}, apierrors.New(apierrors.CalculationError, "cross-validation disagreement exceeds tolerance").
			WithDetail("body", body.String()).
			WithDetail("native_deg", nativeRes.LongitudeDeg).
			WithDetail("ephemeris_deg", ephemRes.LongitudeDeg).
			WithDetail("difference_deg", diff).
			WithDetail("tolerance_deg", crossValidationToleranceDeg)
	}

	return Result{
		LongitudeDeg:   ephemRes.LongitudeDeg,
		SpeedDegPerDay: ephemRes.SpeedDegPerDay,
		HasSpeed:       ephemRes.HasSpeed,
		Backend:        CrossValidated,
	}, nil
}
