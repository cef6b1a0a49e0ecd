package cache

import (
	"testing"
	"time"

	"github.com/R3E-Network/consciousness-core/internal/apitypes"
)

func TestL1PutThenGetRoundTrips(t *testing.T) {
	l1, err := NewL1(64)
	if err != nil {
		t.Fatalf("NewL1() error = %v", err)
	}
	entry := &Entry{Output: apitypes.EngineOutput{EngineID: "panchanga"}, CreatedAt: time.Now()}
	l1.Put("key1", entry)

	got, ok := l1.Get("key1")
	if !ok {
		t.Fatal("expected hit")
	}
	if got.Output.EngineID != "panchanga" {
		t.Fatalf("expected round-tripped entry, got %+v", got)
	}
}

func TestL1GetMissesUnknownKey(t *testing.T) {
	l1, err := NewL1(64)
	if err != nil {
		t.Fatalf("NewL1() error = %v", err)
	}
	if _, ok := l1.Get("missing"); ok {
		t.Fatal("expected miss")
	}
}

func TestL1TreatsExpiredEntryAsMiss(t *testing.T) {
	l1, err := NewL1(64)
	if err != nil {
		t.Fatalf("NewL1() error = %v", err)
	}
	entry := &Entry{CreatedAt: time.Now().Add(-time.Hour), TTL: time.Minute}
	l1.Put("key1", entry)

	if _, ok := l1.Get("key1"); ok {
		t.Fatal("expected expired entry to be treated as a miss")
	}
}

func TestL1DistributesKeysAcrossShards(t *testing.T) {
	l1, err := NewL1(64)
	if err != nil {
		t.Fatalf("NewL1() error = %v", err)
	}
	for i := 0; i < 32; i++ {
		key := string(rune('a' + i%26))
		l1.Put(key, &Entry{CreatedAt: time.Now()})
	}
	if l1.Len() == 0 {
		t.Fatal("expected entries to be stored")
	}
}
