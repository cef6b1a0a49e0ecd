// Package angle implements the time and angle primitives spec §2 item 3:
// Julian-day conversion, longitude normalization, and shortest-arc
// difference across the 0°/360° seam. These are pure, allocation-free
// functions with no suspension points (spec §5) so they may be called from
// the dasha binary search and the native series calculators without
// holding any scheduler lock.
package angle

import "time"

const (
	// JulianEpochUnix is the Julian Day number of the Unix epoch
	// (1970-01-01T00:00:00Z).
	JulianEpochUnix = 2440587.5
	// degreesPerCircle is the full turn of the ecliptic.
	degreesPerCircle = 360.0
)

// ToJulianDay converts a UTC instant to a Julian Day number.
func ToJulianDay(t time.Time) float64 {
	t = t.UTC()
	return JulianEpochUnix + float64(t.Unix())/86400.0 + float64(t.Nanosecond())/86400e9
}

// FromJulianDay converts a Julian Day number to a UTC instant.
func FromJulianDay(jd float64) time.Time {
	seconds := (jd - JulianEpochUnix) * 86400.0
	whole := int64(seconds)
	frac := seconds - float64(whole)
	return time.Unix(whole, int64(frac*1e9)).UTC()
}

// Normalize reduces a longitude in degrees to the half-open interval
// [0, 360).
func Normalize(degrees float64) float64 {
	d := degrees
	d = mod(d, degreesPerCircle)
	if d < 0 {
		d += degreesPerCircle
	}
	return d
}

// ShortestArc returns the signed shortest-arc difference a-b, normalized to
// (-180, 180]. A positive result means a is ahead of b travelling forward
// along the ecliptic.
func ShortestArc(a, b float64) float64 {
	d := Normalize(Normalize(a) - Normalize(b))
	if d > 180 {
		d -= 360
	}
	return d
}

func mod(x, m float64) float64 {
	r := x
	for r >= m {
		r -= m
	}
	for r < 0 {
		r += m
	}
	return r
}
