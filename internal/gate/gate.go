// Package gate implements the Consciousness Gate of spec §4.3: an access
// check comparing a caller's declared consciousness level against an
// engine's required level.
package gate

import "github.com/R3E-Network/consciousness-core/internal/apierrors"

// Check passes through when declared >= required, and otherwise fails with
// a PhaseAccessDenied error naming both values (spec §4.3).
func Check(declared, required int) error {
	if declared >= required {
		return nil
	}
	return apierrors.NewPhaseAccessDenied(declared, required)
}
