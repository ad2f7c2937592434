package cache

import "context"

// ComputeFn produces the value for a key on a cache miss
type ComputeFn[T any] func(ctx context.Context) (T, error)

// GetOrCompute is the read-through path shared by every cached aggregate:
// return the cached value if present, otherwise compute, store, and return
// it. Concurrent misses on the same key may compute twice; resolution is
// pure so duplicate work is tolerated instead of serialized.
func GetOrCompute[T any](ctx context.Context, store *Store, ns, key string, fn ComputeFn[T]) (T, error) {
	if v, ok := store.Get(ns, key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	value, err := fn(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	store.Set(ns, key, value)
	return value, nil
}
