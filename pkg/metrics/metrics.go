// Package metrics provides the centralized Prometheus metrics reference.
// All metrics are defined in their respective packages (hn, loader) to
// maintain modularity and avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the service.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Upstream Request Metrics (pkg/hn):
//   - hn_requests_total{endpoint, status} (Counter): Total upstream requests by endpoint and HTTP status
//   - hn_request_duration_seconds{endpoint} (Histogram): Upstream request duration by endpoint
//   - hn_errors_total{kind} (Counter): Upstream errors by kind (transport, status, decode)
//
// Loader Metrics (pkg/loader):
//   - loader_batches_total{loader} (Counter): Dispatched batch windows by loader
//   - loader_batch_size{loader} (Histogram): Distinct keys per dispatched window
//   - loader_keys_total{loader, result} (Counter): Loaded keys by result (hit, miss)
//   - loader_dispatch_duration_seconds{loader} (Histogram): Batch fetch duration by loader
//
// Example Prometheus Queries:
//
//   # Loader Hit Rate
//   sum(rate(loader_keys_total{result="hit"}[5m])) /
//   sum(rate(loader_keys_total[5m]))
//
//   # Mean Batch Size (batching effectiveness)
//   rate(loader_batch_size_sum[5m]) / rate(loader_batch_size_count[5m])
//
//   # Upstream Error Rate
//   rate(hn_errors_total[5m])
//
//   # P95 Upstream Latency
//   histogram_quantile(0.95, rate(hn_request_duration_seconds_bucket[5m]))
//
//   # Requests Saved by Deduplication
//   sum(rate(loader_keys_total[5m])) - sum(rate(hn_requests_total{endpoint=~"item|user"}[5m]))
