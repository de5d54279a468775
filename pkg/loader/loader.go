package loader

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultWait is how long a batch window stays open after its first key
// when no explicit wait is configured.
const DefaultWait = 2 * time.Millisecond

// Fetch resolves one batch of distinct keys into a result map. Keys arrive
// in first-enqueue order. Keys missing from the returned map are treated
// as misses by every waiting caller; a Fetch never fails a batch as a
// whole.
type Fetch[K comparable, V any] func(ctx context.Context, keys []K) map[K]V

// Config holds loader configuration.
type Config[K comparable, V any] struct {
	// Name identifies the loader in logs and metrics, e.g. "item".
	Name string

	// Fetch resolves a batch of keys. Required.
	Fetch Fetch[K, V]

	// Wait is how long a batch window stays open after its first key.
	// Defaults to DefaultWait.
	Wait time.Duration

	// MaxBatch dispatches a window early once it holds this many distinct
	// keys, 0 = no limit.
	MaxBatch int

	// Context is passed to Fetch on dispatch. It belongs to the loader,
	// not to any single caller: cancelling one caller's context must not
	// abort a batch other callers are waiting on. Defaults to
	// context.Background().
	Context context.Context
}

// Loader batches and deduplicates keyed lookups. Loads arriving close
// together are collected into one window and resolved by a single Fetch
// call per distinct key. Results are not cached: once a window is
// dispatched, the next load starts a fresh one.
type Loader[K comparable, V any] struct {
	name     string
	fetch    Fetch[K, V]
	wait     time.Duration
	maxBatch int
	ctx      context.Context
	logger   zerolog.Logger

	// the open window. keys are collected until the wait timer fires or
	// MaxBatch is reached, then the whole batch goes to fetch at once
	mu    sync.Mutex
	batch *batch[K, V]
}

type batch[K comparable, V any] struct {
	keys    []K
	seen    map[K]struct{}
	results map[K]V
	closing bool
	done    chan struct{}
}

// New creates a loader from cfg.
func New[K comparable, V any](cfg Config[K, V]) (*Loader[K, V], error) {
	if cfg.Fetch == nil {
		return nil, errors.New("fetch function is required")
	}
	if cfg.Name == "" {
		cfg.Name = "loader"
	}
	if cfg.Wait <= 0 {
		cfg.Wait = DefaultWait
	}
	if cfg.MaxBatch < 0 {
		cfg.MaxBatch = 0
	}
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}

	return &Loader[K, V]{
		name:     cfg.Name,
		fetch:    cfg.Fetch,
		wait:     cfg.Wait,
		maxBatch: cfg.MaxBatch,
		ctx:      cfg.Context,
		logger:   log.With().Str("component", "loader").Str("loader", cfg.Name).Logger(),
	}, nil
}

// Load resolves one key through the current batch window. It blocks until
// the window is dispatched and resolved, then reports whether the key was
// present. Misses cover both unknown keys and failed fetches; they are
// never errors.
//
// ctx bounds only this call's wait. Cancellation turns the call into a
// miss without affecting the batch or its other callers.
func (l *Loader[K, V]) Load(ctx context.Context, key K) (V, bool) {
	b := l.enqueue(key)

	select {
	case <-b.done:
		value, ok := b.results[key]
		return value, ok
	case <-ctx.Done():
		var zero V
		return zero, false
	}
}

// LoadThunk registers a key in the current batch window and returns a
// function that blocks until the result is available. Use it to collect
// keys for one window before waiting on any of them.
func (l *Loader[K, V]) LoadThunk(key K) func() (V, bool) {
	b := l.enqueue(key)

	return func() (V, bool) {
		<-b.done
		value, ok := b.results[key]
		return value, ok
	}
}

// LoadMany resolves many keys at once. All keys are registered before any
// result is awaited, so the whole slice lands in as few windows as
// MaxBatch allows. Results keep the argument order, duplicates included:
// oks[i] reports whether values[i] is valid.
func (l *Loader[K, V]) LoadMany(ctx context.Context, keys []K) ([]V, []bool) {
	batches := make([]*batch[K, V], len(keys))
	for i, key := range keys {
		batches[i] = l.enqueue(key)
	}

	values := make([]V, len(keys))
	oks := make([]bool, len(keys))
	for i, key := range keys {
		select {
		case <-batches[i].done:
			values[i], oks[i] = batches[i].results[key]
		case <-ctx.Done():
		}
	}
	return values, oks
}

// LoadManyThunk registers many keys and returns a function that blocks
// until all of them are resolved.
func (l *Loader[K, V]) LoadManyThunk(keys []K) func() ([]V, []bool) {
	thunks := make([]func() (V, bool), len(keys))
	for i, key := range keys {
		thunks[i] = l.LoadThunk(key)
	}

	return func() ([]V, []bool) {
		values := make([]V, len(keys))
		oks := make([]bool, len(keys))
		for i, thunk := range thunks {
			values[i], oks[i] = thunk()
		}
		return values, oks
	}
}

// Flush dispatches the current batch window immediately instead of waiting
// for the timer or MaxBatch. It is a no-op when no window is open.
func (l *Loader[K, V]) Flush() {
	l.mu.Lock()
	b := l.batch
	if b == nil || b.closing {
		l.mu.Unlock()
		return
	}
	b.closing = true
	l.batch = nil
	l.mu.Unlock()

	l.dispatch(b)
}

// enqueue adds a key to the open batch window, opening one if needed, and
// returns the window the key landed in. Duplicate keys within a window
// collapse onto the same fetch.
func (l *Loader[K, V]) enqueue(key K) *batch[K, V] {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.batch == nil {
		l.batch = &batch[K, V]{
			seen: make(map[K]struct{}),
			done: make(chan struct{}),
		}
		go l.startTimer(l.batch)
	}
	b := l.batch

	if _, dup := b.seen[key]; dup {
		return b
	}
	b.seen[key] = struct{}{}
	b.keys = append(b.keys, key)

	if l.maxBatch > 0 && len(b.keys) >= l.maxBatch && !b.closing {
		b.closing = true
		l.batch = nil
		go l.dispatch(b)
	}

	return b
}

func (l *Loader[K, V]) startTimer(b *batch[K, V]) {
	time.Sleep(l.wait)

	l.mu.Lock()
	// the window already hit MaxBatch or was flushed
	if b.closing {
		l.mu.Unlock()
		return
	}
	b.closing = true
	l.batch = nil
	l.mu.Unlock()

	l.dispatch(b)
}

// dispatch resolves a closed window. Writing results before closing done
// is what publishes them to the waiting thunks.
func (l *Loader[K, V]) dispatch(b *batch[K, V]) {
	start := time.Now()
	b.results = l.fetch(l.ctx, b.keys)
	duration := time.Since(start)

	close(b.done)

	hits := 0
	for _, key := range b.keys {
		if _, ok := b.results[key]; ok {
			hits++
		}
	}
	misses := len(b.keys) - hits

	loaderBatchesTotal.WithLabelValues(l.name).Inc()
	loaderBatchSize.WithLabelValues(l.name).Observe(float64(len(b.keys)))
	loaderDispatchDuration.WithLabelValues(l.name).Observe(duration.Seconds())
	loaderKeysTotal.WithLabelValues(l.name, "hit").Add(float64(hits))
	loaderKeysTotal.WithLabelValues(l.name, "miss").Add(float64(misses))

	l.logger.Debug().
		Int("batch_size", len(b.keys)).
		Int("misses", misses).
		Dur("duration", duration).
		Msg("Batch dispatched")
}
