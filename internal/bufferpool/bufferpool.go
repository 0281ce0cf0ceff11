// Package bufferpool caches pages in front of internal/storage so that
// a hot working set doesn't round-trip through the blob store on
// every read. It is deliberately single-threaded — like the storage
// layer it wraps, it assumes one caller at a time — so the cache is a
// plain map rather than anything synchronized.
package bufferpool

import (
	"github.com/cuemby/dbuf/internal/dbmetrics"
	"github.com/cuemby/dbuf/internal/page"
	"github.com/cuemby/dbuf/internal/storage"
)

// entry is a cached page plus whether it has unflushed writes.
type entry struct {
	Page  *page.Page
	Dirty bool
}

// BufferPool is a bounded (Page, dirty) cache in front of a Storage.
// Capacity must be positive; NewBufferPool panics otherwise, matching
// the allocator's own refusal to operate in a degenerate configuration.
type BufferPool struct {
	storage  *storage.Storage
	pages    map[page.ID]*entry
	capacity int
}

// NewBufferPool wraps storage with a cache bounded to capacity pages.
func NewBufferPool(s *storage.Storage, capacity int) *BufferPool {
	if capacity == 0 {
		panic("bufferpool: capacity must not be zero")
	}
	return &BufferPool{
		storage:  s,
		pages:    make(map[page.ID]*entry, capacity),
		capacity: capacity,
	}
}

// PageSize returns the underlying storage's configured page size.
func (bp *BufferPool) PageSize() int {
	return bp.storage.PageSize()
}

// Storage exposes the wrapped Storage, for callers (like the table and
// planner catalogs) that need raw page access alongside the cache.
func (bp *BufferPool) Storage() *storage.Storage {
	return bp.storage
}

// popPage evicts one entry to make room: the first clean entry found,
// or — if every resident entry is dirty — an arbitrary one, flushed
// first. Map iteration order in Go is randomized per run, which gives
// this the same "arbitrary victim" character as the original's
// HashMap-iteration-order eviction.
func (bp *BufferPool) popPage() error {
	for id, e := range bp.pages {
		if !e.Dirty {
			delete(bp.pages, id)
			dbmetrics.BufferPoolEvictions.Inc()
			dbmetrics.BufferPoolSize.Dec()
			return nil
		}
	}

	for id, e := range bp.pages {
		if err := bp.storage.WritePage(e.Page); err != nil {
			return err
		}
		delete(bp.pages, id)
		dbmetrics.BufferPoolEvictions.Inc()
		dbmetrics.BufferPoolSize.Dec()
		return nil
	}

	return nil
}

// AllocatePage allocates a fresh page via the underlying storage and
// seats it in the cache (clean, since it is identical to what was just
// written to disk).
func (bp *BufferPool) AllocatePage(pageType storage.Type) (*page.Page, error) {
	p, err := bp.storage.AllocatePage(pageType)
	if err != nil {
		return nil, err
	}

	if len(bp.pages) >= bp.capacity {
		if err := bp.popPage(); err != nil {
			return nil, err
		}
	}

	bp.pages[p.Header.ID] = &entry{Page: p, Dirty: false}
	dbmetrics.BufferPoolSize.Inc()
	return p, nil
}

// DeletePage evicts id from the cache (if present) and frees it at the
// storage layer.
func (bp *BufferPool) DeletePage(id page.ID) error {
	if _, ok := bp.pages[id]; ok {
		delete(bp.pages, id)
		dbmetrics.BufferPoolSize.Dec()
	}
	return bp.storage.DeletePage(id)
}

// bumpPage loads id into the cache if it isn't resident already.
func (bp *BufferPool) bumpPage(id page.ID) error {
	if _, ok := bp.pages[id]; ok {
		dbmetrics.BufferPoolHits.Inc()
		return nil
	}

	dbmetrics.BufferPoolMisses.Inc()
	p, err := bp.storage.ReadPage(id)
	if err != nil {
		return err
	}

	if len(bp.pages) >= bp.capacity {
		if err := bp.popPage(); err != nil {
			return err
		}
	}

	bp.pages[id] = &entry{Page: p, Dirty: false}
	dbmetrics.BufferPoolSize.Inc()
	return nil
}

// GetPage returns the cached page for id, loading it from storage on a
// miss. The returned pointer is shared with the cache; callers that
// mutate it must call MarkDirty.
func (bp *BufferPool) GetPage(id page.ID) (*page.Page, error) {
	if err := bp.bumpPage(id); err != nil {
		return nil, err
	}
	return bp.pages[id].Page, nil
}

// MarkDirty flags id's cache entry as having unflushed writes. Callers
// that mutate a page returned by GetPage must call this afterward so
// Flush persists the change.
func (bp *BufferPool) MarkDirty(id page.ID) {
	if e, ok := bp.pages[id]; ok {
		e.Dirty = true
	}
}

// Flush writes every dirty cache entry to storage and clears the dirty
// bit on each.
func (bp *BufferPool) Flush() error {
	for _, e := range bp.pages {
		if e.Dirty {
			if err := bp.storage.WritePage(e.Page); err != nil {
				return err
			}
			e.Dirty = false
		}
	}
	return nil
}

// Maintenance flushes the cache, then forwards to the storage layer's
// compactor.
func (bp *BufferPool) Maintenance() (int, error) {
	if err := bp.Flush(); err != nil {
		return 0, err
	}
	return bp.storage.Maintenance()
}
