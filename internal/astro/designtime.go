// Package astro implements the per-engine astronomical refinements of spec
// §4.4 that sit above the hybrid ephemeris backend: Design Time iterative
// refinement (this file) and, in its gateline subpackage, the sequential
// Gate/Line mapping of spec §4.5.
package astro

import (
	"context"
	"time"

	"github.com/R3E-Network/consciousness-core/internal/apierrors"
	"github.com/R3E-Network/consciousness-core/internal/astro/angle"
	"github.com/R3E-Network/consciousness-core/internal/ephemeris"
)

const (
	designArcDeg        = 88.0
	designTolerance     = 0.001
	designMaxIterations = 50
	designStepClampDays = 3.0
	designInitialOffset = -88.0 // days, initial estimate per spec §4.4 step 3
)

// SolarLongitudeFunc computes the Sun's ecliptic longitude at a given
// instant, using the given precision/mode. Selector.Resolve satisfies this
// shape when partially applied to ephemeris.Sun.
type SolarLongitudeFunc func(ctx context.Context, instant time.Time) (longitudeDeg, speedDegPerDay float64, err error)

// FromSelector adapts an ephemeris.Selector into a SolarLongitudeFunc for
// the Sun body at the given precision and backend mode.
func FromSelector(sel *ephemeris.Selector, precision ephemeris.Precision, mode ephemeris.Mode) SolarLongitudeFunc {
	return func(ctx context.Context, instant time.Time) (float64, float64, error) {
		res, err := sel.Resolve(ctx, instant, ephemeris.Sun, precision, mode)
		if err != nil {
			return 0, 0, err
		}
		return res.LongitudeDeg, res.SpeedDegPerDay, nil
	}
}

// DesignTime finds the instant 88 degrees of solar ecliptic arc before
// birth, per spec §4.4: not 88 days, since the Sun's apparent speed varies,
// so the instant is found by bounded Newton-like iteration on the
// shortest-arc difference between the candidate's solar longitude and the
// target longitude.
func DesignTime(ctx context.Context, birth time.Time, sunLongitude SolarLongitudeFunc) (time.Time, error) {
	birthLon, _, err := sunLongitude(ctx, birth)
	if err != nil {
		return time.Time{}, err
	}
	target := angle.Normalize(birthLon - designArcDeg)

	candidate := birth.Add(time.Duration(designInitialOffset*24) * time.Hour)

	for i := 0; i < designMaxIterations; i++ {
		if err := ctx.Err(); err != nil {
			return time.Time{}, err
		}

		lon, speed, err := sunLongitude(ctx, candidate)
		if err != nil {
			return time.Time{}, err
		}

		delta := angle.ShortestArc(lon, target)
		if delta > -designTolerance && delta < designTolerance {
			return candidate, nil
		}

		if speed == 0 {
			return time.Time{}, apierrors.New(apierrors.CalculationError, "design time refinement: zero solar speed").
				WithDetail("birth", birth.Format(time.RFC3339))
		}

		// Newton step: f(t) = longitude(t) - target, f'(t) = speed, so
		// t_new = t - f(t)/f'(t). Clamped to guard convergence near apsides
		// where speed is extreme.
		adjustDays := delta / speed
		if adjustDays > designStepClampDays {
			adjustDays = designStepClampDays
		} else if adjustDays < -designStepClampDays {
			adjustDays = -designStepClampDays
		}

		candidate = candidate.Add(-time.Duration(adjustDays * float64(24*time.Hour)))
	}

	return time.Time{}, apierrors.New(apierrors.CalculationError, "design time refinement did not converge").
		WithDetail("birth", birth.Format(time.RFC3339)).
		WithDetail("max_iterations", designMaxIterations)
}
