package cache

import (
	"context"
	"time"
)

// Value reads key and asserts the cached payload to T. A stored value
// of the wrong type reports a miss rather than panicking.
func Value[T any](c *Cache, key Key) (T, bool) {
	var zero T
	v, ok := c.Get(key)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}

// Fetch is the read-through path: return the cached value for key, or
// run loader and write its result through with ttl. Concurrent misses
// on the same key share a single loader call; late arrivals get the
// winner's result. Loader errors are returned to every waiter and are
// never cached, so the next Fetch tries again.
func Fetch[T any](ctx context.Context, c *Cache, key Key, ttl time.Duration, loader func(context.Context) (T, error)) (T, error) {
	if v, ok := Value[T](c, key); ok {
		return v, nil
	}

	v, err, _ := c.sf.Do(key.String(), func() (any, error) {
		// Re-check: a finished flight may have populated the key while
		// this caller waited its turn.
		if v, ok := Value[T](c, key); ok {
			return v, nil
		}
		v, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		c.Put(key, v, ttl)
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
