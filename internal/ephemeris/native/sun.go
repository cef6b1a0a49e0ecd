// Package native implements the independent, truncated analytic series for
// Sun and Moon ecliptic longitude (spec §2 item 2, §4.1 "Native path").
// These are deliberately low-order VSOP/ELP-style expansions: fast, and
// accurate enough to cross-validate the third-party ephemeris and to serve
// Precision=Standard requests without leaving the process.
package native

import (
	"math"

	"github.com/R3E-Network/consciousness-core/internal/astro/angle"
)

const speedProbeDays = 0.5 // central-difference step for speed estimation

// SunLongitude returns the Sun's apparent ecliptic longitude in degrees on
// [0, 360) at the given Julian Day, using the low-order series from Meeus,
// "Astronomical Algorithms" ch. 25 (geometric mean longitude, mean
// anomaly, equation of center, nutation-in-longitude correction).
func SunLongitude(jd float64) float64 {
	return angle.Normalize(sunApparentLongitude(jd))
}

// SunSpeed returns the Sun's longitudinal speed in degrees/day at jd,
// estimated by central finite difference across the shortest-arc
// difference (so the 0/360 seam never corrupts the estimate).
func SunSpeed(jd float64) float64 {
	lonPlus := sunApparentLongitude(jd + speedProbeDays/2)
	lonMinus := sunApparentLongitude(jd - speedProbeDays/2)
	return angle.ShortestArc(lonPlus, lonMinus) / speedProbeDays
}

func sunApparentLongitude(jd float64) float64 {
	t := julianCenturies(jd)

	l0 := 280.46646 + 36000.76983*t + 0.0003032*t*t
	m := 357.52911 + 35999.05029*t - 0.0001537*t*t

	mRad := deg2rad(m)
	c := (1.914602-0.004817*t-0.000014*t*t)*math.Sin(mRad) +
		(0.019993-0.000101*t)*math.Sin(2*mRad) +
		0.000289*math.Sin(3*mRad)

	trueLongitude := l0 + c

	omega := 125.04 - 1934.136*t
	apparent := trueLongitude - 0.00569 - 0.00478*math.Sin(deg2rad(omega))

	return apparent
}

func julianCenturies(jd float64) float64 {
	return (jd - 2451545.0) / 36525.0
}

func deg2rad(d float64) float64 { return d * math.Pi / 180.0 }
