package valkey

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"sermap/internal/pkg/metrics"
)

// DefaultTTL bounds how stale a cached query answer can get. The parking
// dataset only changes on monthly reloads, so five minutes is conservative.
const DefaultTTL = 5 * time.Minute

// keyPrefix namespaces every sermap key, so the Valkey instance can be
// shared with other tenants without collisions.
const keyPrefix = "sermap:"

// ErrMiss reports an absent key, distinct from a broken connection. The use
// cases treat both as a miss; health checks must not.
var ErrMiss = errors.New("cache miss")

// Cache implements ports.CacheService on Valkey (Redis-compatible).
type Cache struct {
	client valkey.Client
}

// New connects to a Valkey instance.
func New(addr string) (*Cache, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{addr},
	})
	if err != nil {
		return nil, fmt.Errorf("valkey connect: %w", err)
	}
	return &Cache{client: client}, nil
}

// Get retrieves a value, returning ErrMiss when the key is absent.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	op := operation(key)
	cmd := c.client.Do(ctx, c.client.B().Get().Key(keyPrefix+key).Build())
	if err := cmd.Error(); err != nil {
		if valkey.IsValkeyNil(err) {
			metrics.CacheMisses.WithLabelValues(op).Inc()
			return nil, ErrMiss
		}
		return nil, err
	}
	b, err := cmd.AsBytes()
	if err != nil {
		return nil, err
	}
	metrics.CacheHits.WithLabelValues(op).Inc()
	return b, nil
}

// Set stores a value for ttlSeconds. Non-positive TTLs fall back to
// DefaultTTL; nothing sermap caches may live unbounded.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	ttl := time.Duration(ttlSeconds) * time.Second
	if ttlSeconds <= 0 {
		ttl = DefaultTTL
	}
	cmd := c.client.Do(ctx,
		c.client.B().Set().Key(keyPrefix+key).Value(string(value)).Ex(ttl).Build(),
	)
	return cmd.Error()
}

// Delete removes a key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	cmd := c.client.Do(ctx, c.client.B().Del().Key(keyPrefix+key).Build())
	return cmd.Error()
}

// Close releases the client.
func (c *Cache) Close() {
	c.client.Close()
}

// operation extracts the leading key segment ("parking", "streets") for the
// hit/miss counters.
func operation(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}
