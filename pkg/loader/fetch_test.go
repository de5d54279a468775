package loader_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arlberg/hn-graphql/pkg/loader"
)

func TestPerKey_ResolvesEveryKey(t *testing.T) {
	fetch := loader.PerKey(func(ctx context.Context, key int) (int, bool, error) {
		return key * key, true, nil
	})

	results := fetch(context.Background(), []int{1, 2, 3})

	assert.Equal(t, map[int]int{1: 1, 2: 4, 3: 9}, results)
}

func TestPerKey_DropsFailuresAndMisses(t *testing.T) {
	fetch := loader.PerKey(func(ctx context.Context, key int) (int, bool, error) {
		switch key {
		case 2:
			return 0, false, errors.New("upstream exploded")
		case 3:
			return 0, false, nil // known-missing key
		default:
			return key * key, true, nil
		}
	})

	results := fetch(context.Background(), []int{1, 2, 3, 4})

	// The failing and missing keys are absent; their neighbors resolve.
	assert.Equal(t, map[int]int{1: 1, 4: 16}, results)
}

func TestPerKey_FetchesConcurrently(t *testing.T) {
	const perKeyDelay = 30 * time.Millisecond

	var inFlight, peak atomic.Int32
	fetch := loader.PerKey(func(ctx context.Context, key int) (int, bool, error) {
		current := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			observed := peak.Load()
			if current <= observed || peak.CompareAndSwap(observed, current) {
				break
			}
		}
		time.Sleep(perKeyDelay)
		return key, true, nil
	})

	start := time.Now()
	results := fetch(context.Background(), []int{1, 2, 3, 4, 5, 6, 7, 8})
	elapsed := time.Since(start)

	assert.Len(t, results, 8)
	assert.Greater(t, peak.Load(), int32(1), "keys should fetch in parallel")
	assert.Less(t, elapsed, 8*perKeyDelay, "batch should not resolve sequentially")
}

func TestPerKey_PassesContextThrough(t *testing.T) {
	type ctxKey struct{}

	var observed atomic.Value
	fetch := loader.PerKey(func(ctx context.Context, key int) (int, bool, error) {
		observed.Store(ctx.Value(ctxKey{}))
		return key, true, nil
	})

	ctx := context.WithValue(context.Background(), ctxKey{}, "batch-context")
	fetch(ctx, []int{1})

	assert.Equal(t, "batch-context", observed.Load())
}

func TestLoader_WithPerKeyFetch(t *testing.T) {
	l, err := loader.New(loader.Config[int, int]{
		Name: "per-key",
		Wait: 5 * time.Millisecond,
		Fetch: loader.PerKey(func(ctx context.Context, key int) (int, bool, error) {
			if key == 13 {
				return 0, false, errors.New("unlucky")
			}
			return key * 2, true, nil
		}),
	})
	require.NoError(t, err)

	values, oks := l.LoadMany(context.Background(), []int{4, 13, 6})

	assert.Equal(t, []bool{true, false, true}, oks)
	assert.Equal(t, 8, values[0])
	assert.Equal(t, 12, values[2])
}
