package cache

import (
	"context"
	"time"

	"github.com/R3E-Network/consciousness-core/internal/apitypes"
	"github.com/R3E-Network/consciousness-core/internal/cache/archive"
	"github.com/R3E-Network/consciousness-core/internal/fingerprint"
)

// ThreeLayer implements the lookup/store cascade of spec §2/§4.2: consult
// L1, then L2, then L3, then compute; on compute success write L1
// synchronously and L2 asynchronously. L3 is never written from the hot
// path (spec §4.2 "L3 is not written from the hot path").
type ThreeLayer struct {
	l1      *L1
	l2      *L2
	l3      *archive.Archive
	ttl     time.Duration
}

// NewThreeLayer composes the three tiers. l2 and l3 may be nil to disable
// those tiers entirely.
func NewThreeLayer(l1 *L1, l2 *L2, l3 *archive.Archive, defaultTTL time.Duration) *ThreeLayer {
	return &ThreeLayer{l1: l1, l2: l2, l3: l3, ttl: defaultTTL}
}

// Lookup consults L1, then L2, then L3, returning the first hit. The
// Result reports which tier, if any, served it (used by callers to
// populate EngineOutput.Metadata.Cached/backfill faster tiers).
type LookupResult struct {
	Entry *Entry
	Tier  string // "L1", "L2", "L3", or "" on miss
}

// Lookup implements the cascade read path.
func (t *ThreeLayer) Lookup(ctx context.Context, key fingerprint.Digest) LookupResult {
	k := string(key)

	if entry, ok := t.l1.Get(k); ok {
		return LookupResult{Entry: entry, Tier: "L1"}
	}

	if t.l2.Enabled() {
		if entry, ok := t.l2.Get(ctx, k); ok {
			t.l1.Put(k, entry) // backfill the faster tier
			return LookupResult{Entry: entry, Tier: "L2"}
		}
	}

	if t.l3 != nil {
		if output, ok := t.l3.Get(k); ok {
			entry := &Entry{Fingerprint: key, Output: output, CreatedAt: time.Now(), TTL: 0}
			t.l1.Put(k, entry)
			return LookupResult{Entry: entry, Tier: "L3"}
		}
	}

	return LookupResult{}
}

// Store writes a freshly computed output through L1 synchronously and L2
// asynchronously (spec §4.2 "Cascade"). It never writes L3.
func (t *ThreeLayer) Store(ctx context.Context, key fingerprint.Digest, output apitypes.EngineOutput, ttl time.Duration) {
	if ttl <= 0 {
		ttl = t.ttl
	}
	k := string(key)
	entry := &Entry{Fingerprint: key, Output: output, CreatedAt: time.Now(), TTL: ttl}

	t.l1.Put(k, entry)
	if t.l2.Enabled() {
		t.l2.PutAsync(ctx, k, entry)
	}
}
