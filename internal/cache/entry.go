// Package cache implements the Three-Layer Cache of spec §4.2: an
// in-process LRU (L1), an optional distributed store (L2), and a read-only
// disk archive (L3), composed by ThreeLayer's lookup/store cascade.
package cache

import (
	"time"

	"github.com/R3E-Network/consciousness-core/internal/apitypes"
	"github.com/R3E-Network/consciousness-core/internal/fingerprint"
)

// Entry is a Cache Entry of spec §3: a fingerprint, a serialized Engine
// Output, a creation timestamp, and a TTL. Zero TTL means "never expires"
// (spec §4.2 "L1 — in-process").
type Entry struct {
	Fingerprint fingerprint.Digest
	Output      apitypes.EngineOutput
	CreatedAt   time.Time
	TTL         time.Duration
}

// Expired reports whether the entry's TTL has elapsed as of now. A zero TTL
// never expires.
func (e *Entry) Expired(now time.Time) bool {
	if e.TTL <= 0 {
		return false
	}
	return now.After(e.CreatedAt.Add(e.TTL))
}
