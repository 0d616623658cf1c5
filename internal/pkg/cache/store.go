package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrWrite marks a GetOrFetch error where the fetch succeeded but caching failed.
var ErrWrite = errors.New("cache write failed")

// Store is a byte cache with per-key TTL.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// GetOrFetch returns the cached value for key, or calls fetch and caches its
// result for ttl. The bool reports a cache hit. A cache read or decode failure
// falls through to fetch; a failed cache write returns the fresh value with
// an error wrapping ErrWrite.
func GetOrFetch[T any](ctx context.Context, s Store, key string, ttl time.Duration, fetch func(ctx context.Context) (T, error)) (T, bool, error) {
	var zero T
	if s != nil {
		if b, found, err := s.Get(ctx, key); err == nil && found {
			var v T
			if err := json.Unmarshal(b, &v); err == nil {
				return v, true, nil
			}
		}
	}

	v, err := fetch(ctx)
	if err != nil {
		return zero, false, err
	}
	if s == nil {
		return v, false, nil
	}

	b, err := json.Marshal(v)
	if err != nil {
		return v, false, fmt.Errorf("%w: encode %s: %v", ErrWrite, key, err)
	}
	if err := s.Set(ctx, key, b, ttl); err != nil {
		return v, false, fmt.Errorf("%w: key %s: %v", ErrWrite, key, err)
	}
	return v, false, nil
}
