// Package archive implements the L3 disk tier of spec §4.2: an append-only
// flat-file key/value store for precomputed hot queries (e.g. daily
// Panchanga for well-known coordinates), read-only in the request hot
// path and populated only by a background job (populator.go).
package archive

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/R3E-Network/consciousness-core/internal/apitypes"
)

// record is one line of the append-only archive file.
type record struct {
	Key    string                `json:"key"`
	Output apitypes.EngineOutput `json:"output"`
}

// Archive is a read-mostly, in-memory index backed by an append-only file
// on disk. It is loaded once at startup and refreshed by re-reading the
// file; writes only ever happen through Append, called by the populator.
type Archive struct {
	mu   sync.RWMutex
	path string
	data map[string]apitypes.EngineOutput
}

// Open loads an existing archive file (creating an empty one if it does
// not exist) at path.
func Open(path string) (*Archive, error) {
	a := &Archive{path: path, data: make(map[string]apitypes.EngineOutput)}
	if err := a.reload(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Archive) reload() error {
	f, err := os.OpenFile(a.path, os.O_CREATE|os.O_RDONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	data := make(map[string]apitypes.EngineOutput)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec record
		if err := json.Unmarshal(line, &rec); err != nil {
			continue // a partially written last line is tolerated, not fatal
		}
		data[rec.Key] = rec.Output
	}

	a.mu.Lock()
	a.data = data
	a.mu.Unlock()
	return scanner.Err()
}

// Get looks up key. L3 is read-only in the hot path (spec §4.2).
func (a *Archive) Get(key string) (apitypes.EngineOutput, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out, ok := a.data[key]
	return out, ok
}

// Append writes one record to the archive file and to the in-memory index.
// Only the populator (or an offline precompute job) should call this —
// never the request hot path (spec §4.2 "populated offline or by a
// background task").
func (a *Archive) Append(key string, output apitypes.EngineOutput) error {
	f, err := os.OpenFile(a.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	rec := record{Key: key, Output: output}
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if _, err := f.Write(append(raw, '\n')); err != nil {
		return err
	}

	a.mu.Lock()
	a.data[key] = output
	a.mu.Unlock()
	return nil
}

// EnsureDir creates the parent directory of path if it does not exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
