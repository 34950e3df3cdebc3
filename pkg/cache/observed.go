package cache

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/linkgraph/pkg/observability"
)

// observed reports cache traffic to the registered cache hooks.
type observed struct {
	Cache
}

// Observe wraps c so that every Get and Set is reported to
// observability.Cache(). The key type passed to the hooks is the key prefix
// up to the first colon, e.g. "artifact".
func Observe(c Cache) Cache {
	if _, ok := c.(observed); ok {
		return c
	}
	return observed{Cache: c}
}

func (o observed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := o.Cache.Get(ctx, key)
	if err == nil {
		if hit {
			observability.Cache().OnCacheHit(ctx, keyType(key))
		} else {
			observability.Cache().OnCacheMiss(ctx, keyType(key))
		}
	}
	return data, hit, err
}

func (o observed) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := o.Cache.Set(ctx, key, data, ttl)
	if err == nil {
		observability.Cache().OnCacheSet(ctx, keyType(key), len(data))
	}
	return err
}

func keyType(key string) string {
	// Scoped keys carry extra prefix segments; the kind is the segment
	// before the hash.
	parts := strings.Split(key, ":")
	if len(parts) < 2 {
		return key
	}
	return parts[len(parts)-2]
}
