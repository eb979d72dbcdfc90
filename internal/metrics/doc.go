// Package metrics exposes Prometheus counters and histograms for the panel:
// submission outcomes, poll results, disarm results and backend latency.
//
// Collectors are registered once by Init; every Observe/Inc helper is a no-op
// before that, so components never need to check whether metrics are on.
package metrics
