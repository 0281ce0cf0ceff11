// Package dbmetrics exposes Prometheus observability for the storage
// core: buffer-pool hit/miss/eviction counts and page/row lifecycle
// counters. None of it is load-bearing — the database behaves
// identically whether or not anything ever scrapes these metrics —
// but it's the kind of ambient visibility the teacher codebase wires
// in for every stateful subsystem it owns.
package dbmetrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	BufferPoolHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dbuf_buffer_pool_hits_total",
		Help: "Buffer pool lookups served from cache.",
	})

	BufferPoolMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dbuf_buffer_pool_misses_total",
		Help: "Buffer pool lookups that required a storage read.",
	})

	BufferPoolEvictions = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dbuf_buffer_pool_evictions_total",
		Help: "Pages evicted from the buffer pool to make room for a new one.",
	})

	BufferPoolSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dbuf_buffer_pool_size",
		Help: "Current number of pages resident in the buffer pool.",
	})

	PagesAllocated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dbuf_pages_allocated_total",
		Help: "Pages allocated by the storage allocator.",
	})

	PagesFreed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dbuf_pages_freed_total",
		Help: "Pages returned to the allocator's free list.",
	})

	OverflowObjectsWritten = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dbuf_overflow_objects_written_total",
		Help: "Rows that exceeded page size and were written as overflow objects.",
	})

	RowsInserted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dbuf_rows_inserted_total",
		Help: "Rows inserted, by table.",
	}, []string{"table"})

	RowsScanned = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dbuf_rows_scanned_total",
		Help: "Rows yielded by a TableScan, by table.",
	}, []string{"table"})
)

func init() {
	prometheus.MustRegister(
		BufferPoolHits,
		BufferPoolMisses,
		BufferPoolEvictions,
		BufferPoolSize,
		PagesAllocated,
		PagesFreed,
		OverflowObjectsWritten,
		RowsInserted,
		RowsScanned,
	)
}

// Handler returns the /metrics HTTP handler for the CLI's server mode.
func Handler() http.Handler {
	return promhttp.Handler()
}
