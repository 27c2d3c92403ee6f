// Package cache is a JSON cache on Redis that degrades to a no-op when Redis is unreachable.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jonathan/resume-matcher/internal/logging"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// DefaultTTL is used when Options.TTL is not positive
const DefaultTTL = 24 * time.Hour

// Options configures the Redis connection
type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
	// Prefix namespaces every key, e.g. "resume-matcher:"
	Prefix string
}

// Cache stores JSON values. A Cache without a client misses on every Get and ignores writes.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
	log    zerolog.Logger

	warnedUnavailable atomic.Bool
}

// New connects to Redis. An empty address or a failed ping yields a bypassing cache, never an error.
func New(ctx context.Context, opts Options) *Cache {
	c := &Cache{ttl: opts.TTL, prefix: opts.Prefix, log: logging.Logger.With().Str("component", "cache").Logger()}
	if c.ttl <= 0 {
		c.ttl = DefaultTTL
	}
	if strings.TrimSpace(opts.Addr) == "" {
		c.log.Debug().Msg("redis address not configured, cache disabled")
		return c
	}

	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		c.log.Warn().Err(err).Str("addr", opts.Addr).Msg("redis unavailable, bypassing cache")
		_ = client.Close()
		return c
	}

	c.client = client
	return c
}

// Disabled returns a cache that never stores anything
func Disabled() *Cache {
	return &Cache{ttl: DefaultTTL, log: logging.Nop()}
}

// Available reports whether a Redis connection is in use
func (c *Cache) Available() bool {
	return c != nil && c.client != nil
}

func (c *Cache) warnUnavailableOnce(err error) {
	if c.warnedUnavailable.CompareAndSwap(false, true) {
		c.log.Warn().Err(err).Msg("redis command failed, cache degraded")
	}
}

// Key derives a fixed-length key from arbitrary parts
func (c *Cache) Key(namespace string, parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	prefix := ""
	if c != nil {
		prefix = c.prefix
	}
	return prefix + namespace + ":" + hex.EncodeToString(h.Sum(nil))
}

// Ping checks the connection
func (c *Cache) Ping(ctx context.Context) error {
	if !c.Available() {
		return errors.New("redis unavailable")
	}
	return c.client.Ping(ctx).Err()
}

// GetJSON decodes the value at key into out. found is false on a miss.
func (c *Cache) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	if !c.Available() {
		return false, nil
	}
	b, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		c.warnUnavailableOnce(err)
		return false, err
	}
	if len(b) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON stores value at key. A non-positive ttl uses the cache default.
func (c *Cache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !c.Available() {
		return nil
	}
	if ttl <= 0 {
		ttl = c.ttl
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key, b, ttl).Err(); err != nil {
		c.warnUnavailableOnce(err)
		return err
	}
	return nil
}

// Delete removes key
func (c *Cache) Delete(ctx context.Context, key string) error {
	if !c.Available() {
		return nil
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.warnUnavailableOnce(err)
		return err
	}
	return nil
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	if !c.Available() {
		return nil
	}
	return c.client.Close()
}
