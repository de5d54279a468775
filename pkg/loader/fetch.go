package loader

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// FetchOne resolves a single key. ok reports whether the key exists;
// a false ok with a nil error is a plain miss, not a failure.
type FetchOne[K comparable, V any] func(ctx context.Context, key K) (V, bool, error)

// PerKey adapts a single-key fetch into a batch Fetch by resolving every
// key of a batch concurrently. Failed keys are logged and dropped from
// the result map so one bad key never poisons its batch.
func PerKey[K comparable, V any](fn FetchOne[K, V]) Fetch[K, V] {
	return func(ctx context.Context, keys []K) map[K]V {
		var (
			mu      sync.Mutex
			wg      sync.WaitGroup
			results = make(map[K]V, len(keys))
		)

		for _, key := range keys {
			wg.Add(1)
			go func(key K) {
				defer wg.Done()

				value, ok, err := fn(ctx, key)
				if err != nil {
					log.Warn().
						Err(err).
						Interface("key", key).
						Msg("Key fetch failed")
					return
				}
				if !ok {
					return
				}

				mu.Lock()
				results[key] = value
				mu.Unlock()
			}(key)
		}
		wg.Wait()

		return results
	}
}
