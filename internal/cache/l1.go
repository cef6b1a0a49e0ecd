package cache

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// l1ShardCount bounds per-shard lock contention by sharding on the first
// hex byte of the fingerprint (spec §4.2 "Lookup is lock-free or finely
// locked (per-shard)").
const l1ShardCount = 16

// L1 is the in-process bounded LRU cache tier.
type L1 struct {
	shards [l1ShardCount]*l1Shard
}

type l1Shard struct {
	mu    sync.Mutex
	cache *lru.Cache[string, *Entry]
}

// NewL1 builds an L1 cache whose total capacity is split evenly across
// l1ShardCount shards. capacity is the total number of entries, not bytes;
// the ~256MB sizing target of spec §4.2 is a deployment-time capacity
// choice, not encoded here.
func NewL1(capacity int) (*L1, error) {
	if capacity < l1ShardCount {
		capacity = l1ShardCount
	}
	perShard := capacity / l1ShardCount

	l1 := &L1{}
	for i := range l1.shards {
		c, err := lru.New[string, *Entry](perShard)
		if err != nil {
			return nil, err
		}
		l1.shards[i] = &l1Shard{cache: c}
	}
	return l1, nil
}

func (l *L1) shardFor(key string) *l1Shard {
	if len(key) == 0 {
		return l.shards[0]
	}
	return l.shards[int(key[0])%l1ShardCount]
}

// Get returns the entry for key if present and not expired.
func (l *L1) Get(key string) (*Entry, bool) {
	shard := l.shardFor(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	entry, ok := shard.cache.Get(key)
	if !ok {
		return nil, false
	}
	if entry.Expired(time.Now()) {
		shard.cache.Remove(key)
		return nil, false
	}
	return entry, true
}

// Put stores entry under key, evicting the shard's least-recently-used
// entry if it is at capacity.
func (l *L1) Put(key string, entry *Entry) {
	shard := l.shardFor(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	shard.cache.Add(key, entry)
}

// Len returns the total number of entries across all shards.
func (l *L1) Len() int {
	total := 0
	for _, shard := range l.shards {
		shard.mu.Lock()
		total += shard.cache.Len()
		shard.mu.Unlock()
	}
	return total
}
