package native

import (
	"math"

	"github.com/R3E-Network/consciousness-core/internal/astro/angle"
)

// MoonLongitude returns the Moon's ecliptic longitude in degrees on
// [0, 360) at the given Julian Day, using a truncated ELP2000-style
// periodic series (thirteen terms; the 2M' and 2F terms are not among them —
// used for cross-validation and Precision=Standard requests, per spec §4.1).
func MoonLongitude(jd float64) float64 {
	return angle.Normalize(moonLongitudeRaw(jd))
}

// MoonSpeed returns the Moon's longitudinal speed in degrees/day at jd,
// estimated by central finite difference.
func MoonSpeed(jd float64) float64 {
	const step = 0.25 // days
	lonPlus := moonLongitudeRaw(jd + step/2)
	lonMinus := moonLongitudeRaw(jd - step/2)
	return angle.ShortestArc(lonPlus, lonMinus) / step
}

func moonLongitudeRaw(jd float64) float64 {
	t := julianCenturies(jd)

	lp := 218.3164477 + 481267.88123421*t - 0.0015786*t*t + t*t*t/538841.0
	d := 297.8501921 + 445267.1114034*t - 0.0018819*t*t
	m := 357.5291092 + 35999.0502909*t - 0.0001536*t*t
	mp := 134.9633964 + 477198.8675055*t + 0.0087414*t*t
	f := 93.2720950 + 483202.0175233*t - 0.0036539*t*t

	dr := deg2rad(d)
	mr := deg2rad(m)
	mpr := deg2rad(mp)
	fr := deg2rad(f)

	// Thirteen periodic terms of the longitude series, in degrees.
	longitude := lp +
		6.288774*math.Sin(mpr) -
		1.274027*math.Sin(mpr-2*dr) +
		0.658314*math.Sin(2*dr) -
		0.185116*math.Sin(mr) -
		0.059399*math.Sin(2*mpr-2*dr) -
		0.057066*math.Sin(mpr-2*dr+mr) +
		0.053322*math.Sin(mpr+2*dr) +
		0.045758*math.Sin(2*dr-mr) -
		0.040923*math.Sin(mpr-mr) -
		0.034720*math.Sin(dr) -
		0.030383*math.Sin(mpr+mr) +
		0.015327*math.Sin(2*dr-2*fr) -
		0.012528*math.Sin(mpr+2*fr)

	return longitude
}

