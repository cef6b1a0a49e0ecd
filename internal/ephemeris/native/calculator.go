package native

import "github.com/R3E-Network/consciousness-core/internal/ephemeris"

// Calculator adapts the package-level Sun/Moon series to
// ephemeris.NativeCalculator, the interface the Selector dispatches
// through.
type Calculator struct{}

// NewCalculator returns the native Sun/Moon calculator.
func NewCalculator() Calculator { return Calculator{} }

// Supports reports whether the native series covers body.
func (Calculator) Supports(body ephemeris.Body) bool {
	return body == ephemeris.Sun || body == ephemeris.Moon
}

// Longitude returns the longitude and speed for body at the given Julian
// Day. It panics if body is unsupported; callers must check Supports first
// (the Selector always does).
func (Calculator) Longitude(jd float64, body ephemeris.Body) (lonDeg, speedDegPerDay float64) {
	switch body {
	case ephemeris.Sun:
		return SunLongitude(jd), SunSpeed(jd)
	case ephemeris.Moon:
		return MoonLongitude(jd), MoonSpeed(jd)
	default:
		panic("native: unsupported body")
	}
}
