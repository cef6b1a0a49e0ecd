// Package witness implements the Witness Prompt Generator of spec §4.8: a
// thin, deterministic selector over a data-driven template corpus. Prompt
// curation lives in data/witness/*.json, not in code (spec §9 "Witness
// prompt corpus").
package witness

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/R3E-Network/consciousness-core/internal/apierrors"
)

// Band is a consciousness-level tier of the template pool (spec §4.8
// "tiered by level band").
type Band string

const (
	Observational Band = "observational" // levels 0-1
	Inquiry       Band = "inquiry"       // levels 2-3
	OpenAwareness Band = "open-awareness" // levels 4-5
)

// BandFor maps a consciousness level to its template band.
func BandFor(level int) Band {
	switch {
	case level <= 1:
		return Observational
	case level <= 3:
		return Inquiry
	default:
		return OpenAwareness
	}
}

// corpus is the per-engine template pool, loaded once at startup.
type corpus struct {
	Templates map[Band][]string `json:"templates"`
}

// Generator selects a deterministic witness prompt from a loaded corpus.
type Generator struct {
	corpora map[string]corpus
}

// LoadDir loads every data/witness/<engine_id>.json file under dir into a
// Generator. Each file's top-level key is "templates", itself keyed by
// band name ("observational", "inquiry", "open-awareness").
func LoadDir(dir string) (*Generator, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, apierrors.Wrap(apierrors.ConfigError, "witness: failed to read template directory", err)
	}

	g := &Generator{corpora: make(map[string]corpus)}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		engineID := entry.Name()[:len(entry.Name())-len(".json")]
		raw, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, apierrors.Wrap(apierrors.ConfigError, "witness: failed to read template file", err)
		}
		var c corpus
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, apierrors.Wrap(apierrors.ConfigError, "witness: failed to parse template file", err)
		}
		g.corpora[engineID] = c
	}
	return g, nil
}

// NewFromCorpora builds a Generator directly from in-memory template pools,
// primarily for tests and for engines with a small inline corpus.
func NewFromCorpora(corpora map[string]map[Band][]string) *Generator {
	g := &Generator{corpora: make(map[string]corpus, len(corpora))}
	for engineID, templates := range corpora {
		g.corpora[engineID] = corpus{Templates: templates}
	}
	return g
}

// Generate deterministically selects a prompt for (engineID, fingerprint,
// level): identical inputs always select the same template (spec §4.8
// "Selection is deterministic"). resultFingerprint is any stable digest of
// the computed result (the cache fingerprint is a natural choice).
func (g *Generator) Generate(engineID string, resultFingerprint string, level int) (string, error) {
	c, ok := g.corpora[engineID]
	if !ok {
		return "", apierrors.New(apierrors.ConfigError, "witness: no template corpus for engine").
			WithDetail("engine_id", engineID)
	}
	band := BandFor(level)
	templates := c.Templates[band]
	if len(templates) == 0 {
		return "", apierrors.New(apierrors.ConfigError, "witness: empty template pool").
			WithDetail("engine_id", engineID).
			WithDetail("band", string(band))
	}

	idx := seededIndex(engineID, resultFingerprint, band, len(templates))
	return templates[idx], nil
}

// seededIndex computes a deterministic index into a pool of size n, seeded
// by the tuple (engine id, result fingerprint, band) — no math/rand, so
// the same tuple always yields the same index across restarts (spec §8
// reproducibility).
func seededIndex(engineID, resultFingerprint string, band Band, n int) int {
	seed := fnv32(fmt.Sprintf("%s|%s|%s", engineID, resultFingerprint, band))
	return int(seed % uint32(n))
}

// fnv32 is a small non-cryptographic string hash (FNV-1a), adequate for
// deterministic template selection where collision resistance is not a
// security requirement.
func fnv32(s string) uint32 {
	const offset32 = 2166136261
	const prime32 = 16777619
	h := uint32(offset32)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= prime32
	}
	return h
}
