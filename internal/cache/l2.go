package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/R3E-Network/consciousness-core/internal/logger"
)

// L2 is the optional distributed cache tier. A nil *redis.Client disables
// it entirely (spec §4.2 "L2 — distributed key/value. Optional.").
type L2 struct {
	client *redis.Client
	log    *logger.Logger
}

// NewL2 wraps an existing redis client. Pass nil to disable L2 (Get always
// misses, Put is a no-op).
func NewL2(client *redis.Client, log *logger.Logger) *L2 {
	return &L2{client: client, log: log}
}

// Enabled reports whether this L2 has a configured backing client.
func (l *L2) Enabled() bool {
	return l != nil && l.client != nil
}

// Get looks up key in Redis. Connection failures are logged at Warn and
// treated as misses, never as hard errors (spec §4.2, §7 "Cache I/O
// failures").
func (l *L2) Get(ctx context.Context, key string) (*Entry, bool) {
	if !l.Enabled() {
		return nil, false
	}
	raw, err := l.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			l.log.WithField("tier", "L2").WithField("error", err).Warn("cache lookup failed, treating as miss")
		}
		return nil, false
	}
	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		l.log.WithField("tier", "L2").WithField("error", err).Warn("cache entry unmarshal failed, treating as miss")
		return nil, false
	}
	if entry.Expired(time.Now()) {
		return nil, false
	}
	return &entry, true
}

// PutAsync stores entry under key in a fire-and-forget goroutine, logging
// failures instead of propagating them (spec §4.2 "write to L2
// asynchronously").
func (l *L2) PutAsync(ctx context.Context, key string, entry *Entry) {
	if !l.Enabled() {
		return
	}
	go func() {
		raw, err := json.Marshal(entry)
		if err != nil {
			l.log.WithField("tier", "L2").WithField("error", err).Warn("cache entry marshal failed")
			return
		}
		if err := l.client.Set(context.Background(), key, raw, entry.TTL).Err(); err != nil {
			l.log.WithField("tier", "L2").WithField("error", err).Warn("cache store failed")
		}
	}()
}
