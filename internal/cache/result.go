package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"go.uber.org/zap"
)

const KeyPrefix = "illuminate:result:"

type Observer interface {
	CacheHit()
	CacheMiss()
}

// ResultCache stores calculation responses keyed by a digest of the request
// body. A nil *ResultCache never hits and drops stores.
type ResultCache struct {
	kv       KVStore
	ttl      time.Duration
	observer Observer
	log      *zap.Logger
}

func NewResultCache(kv KVStore, ttl time.Duration, observer Observer, log *zap.Logger) *ResultCache {
	return &ResultCache{kv: kv, ttl: ttl, observer: observer, log: log}
}

func Key(kind string, request []byte) string {
	sum := sha256.Sum256(request)
	return KeyPrefix + kind + ":" + hex.EncodeToString(sum[:])
}

func (c *ResultCache) Lookup(ctx context.Context, kind string, request []byte) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	val, err := c.kv.Get(ctx, Key(kind, request))
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			c.log.Warn("result cache read failed", zap.String("kind", kind), zap.Error(err))
		}
		c.miss()
		return nil, false
	}
	c.hit()
	return []byte(val), true
}

func (c *ResultCache) Store(ctx context.Context, kind string, request, response []byte) {
	if c == nil {
		return
	}
	if err := c.kv.Set(ctx, Key(kind, request), string(response), c.ttl); err != nil {
		c.log.Warn("result cache write failed", zap.String("kind", kind), zap.Error(err))
	}
}

func (c *ResultCache) hit() {
	if c.observer != nil {
		c.observer.CacheHit()
	}
}

func (c *ResultCache) miss() {
	if c.observer != nil {
		c.observer.CacheMiss()
	}
}
