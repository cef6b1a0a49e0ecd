// Package gateline implements the sequential (non-classical) 64-gate,
// 6-line mapping of spec §4.5. This is the domain convention used by the
// Human Design and Gene Keys engines; it is deliberately distinct from the
// classical King-Wen hexagram order used by the I-Ching engine.
package gateline

import "github.com/R3E-Network/consciousness-core/internal/astro/angle"

const (
	degreesPerGate = 360.0 / 64.0
	degreesPerLine = degreesPerGate / 6.0
)

// Activation is a single gate/line pair derived from an ecliptic longitude.
type Activation struct {
	Gate int // 1..64
	Line int // 1..6
}

// FromLongitude maps a (possibly unnormalized) ecliptic longitude to its
// gate and line, per spec §4.5's floor-based tie-break: exact boundary
// values fall to the next gate/line.
func FromLongitude(longitude float64) Activation {
	lon := angle.Normalize(longitude)

	gate := int(lon/degreesPerGate) + 1
	if gate > 64 {
		gate = 64
	}

	positionWithinGate := lon - float64(gate-1)*degreesPerGate
	line := int(positionWithinGate/degreesPerLine) + 1
	if line < 1 {
		line = 1
	}
	if line > 6 {
		line = 6
	}

	return Activation{Gate: gate, Line: line}
}
