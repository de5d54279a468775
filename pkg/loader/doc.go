// Package loader provides keyed request batching and deduplication.
//
// A loader collects the keys of loads arriving close together into one
// batch window. The window stays open for a short wait after its first
// key (or until MaxBatch distinct keys), then the whole batch is handed
// to a single fetch call. Duplicate keys within a window are fetched
// once and fan out to every waiting caller.
//
// Example usage:
//
//	items, _ := loader.New(loader.Config[uint32, hn.Item]{
//		Name:  "item",
//		Wait:  2 * time.Millisecond,
//		Fetch: loader.PerKey(func(ctx context.Context, id uint32) (hn.Item, bool, error) {
//			item, err := client.Item(ctx, id)
//			return item, item != nil, err
//		}),
//	})
//
//	item, ok := items.Load(ctx, 8863)
//
// The loader:
//   - Deduplicates keys within a window (one fetch per distinct key)
//   - Preserves argument order in LoadMany results
//   - Drops failed keys instead of failing the batch (callers see a miss)
//   - Starts a fresh window after each dispatch; results are never cached
//
// Prometheus metrics:
//
//   - loader_batches_total{loader} - Dispatched batch windows
//   - loader_batch_size{loader} - Distinct keys per window
//   - loader_keys_total{loader,result} - Loaded keys by hit/miss
//   - loader_dispatch_duration_seconds{loader} - Fetch duration per batch
package loader
