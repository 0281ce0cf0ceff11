// Package pagedstorage exposes a byte-range view over pages cached by
// internal/bufferpool: append/write/read/cut on a page's Data slice,
// plus access to a page's object count.
package pagedstorage

import (
	"github.com/cuemby/dbuf/internal/bufferpool"
	"github.com/cuemby/dbuf/internal/page"
	"github.com/cuemby/dbuf/internal/storage"
)

// PagedStorage is the object store's view of pages: byte ranges and
// object counts, never whole-page encode/decode.
type PagedStorage struct {
	pool *bufferpool.BufferPool
}

// New wraps a buffer pool.
func New(pool *bufferpool.BufferPool) *PagedStorage {
	return &PagedStorage{pool: pool}
}

func (ps *PagedStorage) PageSize() int {
	return ps.pool.PageSize()
}

func (ps *PagedStorage) Storage() *storage.Storage {
	return ps.pool.Storage()
}

func (ps *PagedStorage) AllocatePage(pageType storage.Type) (page.ID, error) {
	p, err := ps.pool.AllocatePage(pageType)
	if err != nil {
		return 0, err
	}
	return p.Header.ID, nil
}

func (ps *PagedStorage) DeletePage(id page.ID) error {
	return ps.pool.DeletePage(id)
}

// WriteData writes data into id's byte range starting at offset,
// growing the range if needed. Fails with ErrPageFull if the write
// would exceed the configured page size.
func (ps *PagedStorage) WriteData(id page.ID, offset int, data []byte) error {
	pageSize := ps.PageSize()
	p, err := ps.pool.GetPage(id)
	if err != nil {
		return err
	}

	end := offset + len(data)
	if end > pageSize {
		return storage.ErrPageFull
	}

	if end > len(p.Data) {
		grown := make([]byte, end)
		copy(grown, p.Data)
		p.Data = grown
	}
	copy(p.Data[offset:end], data)

	ps.pool.MarkDirty(id)
	return nil
}

// ReadData returns a copy of the len bytes of id's byte range starting
// at offset. Fails with ErrInvalidOperation if that range runs past
// the page's current data length.
func (ps *PagedStorage) ReadData(id page.ID, offset, length int) ([]byte, error) {
	p, err := ps.pool.GetPage(id)
	if err != nil {
		return nil, err
	}

	if offset+length > len(p.Data) {
		return nil, storage.ErrInvalidOperation
	}

	out := make([]byte, length)
	copy(out, p.Data[offset:offset+length])
	return out, nil
}

// Page returns the cached page for id directly, for callers (like the
// object store's row iterator) that need to read header and data
// together without a defensive copy.
func (ps *PagedStorage) Page(id page.ID) (*page.Page, error) {
	return ps.pool.GetPage(id)
}

// GetObjCount returns id's logical object count.
func (ps *PagedStorage) GetObjCount(id page.ID) (int, error) {
	p, err := ps.pool.GetPage(id)
	if err != nil {
		return 0, err
	}
	return p.Header.ObjCount, nil
}

// SetObjCount sets id's logical object count.
func (ps *PagedStorage) SetObjCount(id page.ID, count int) error {
	p, err := ps.pool.GetPage(id)
	if err != nil {
		return err
	}
	p.Header.ObjCount = count
	ps.pool.MarkDirty(id)
	return nil
}

// BumpObjCount increments id's logical object count by one and
// returns the new value.
func (ps *PagedStorage) BumpObjCount(id page.ID) (int, error) {
	count, err := ps.GetObjCount(id)
	if err != nil {
		return 0, err
	}
	count++
	if err := ps.SetObjCount(id, count); err != nil {
		return 0, err
	}
	return count, nil
}

// AppendData appends data to id's byte range and returns the new end
// offset. Fails with ErrPageFull if the append would exceed the
// configured page size.
func (ps *PagedStorage) AppendData(id page.ID, data []byte) (int, error) {
	pageSize := ps.PageSize()
	p, err := ps.pool.GetPage(id)
	if err != nil {
		return 0, err
	}

	offset := len(p.Data)
	end := offset + len(data)
	if end > pageSize {
		return 0, storage.ErrPageFull
	}

	grown := make([]byte, end)
	copy(grown, p.Data)
	copy(grown[offset:end], data)
	p.Data = grown

	ps.pool.MarkDirty(id)
	return end, nil
}

// CutData truncates id's byte range to length, if it is currently
// longer. A no-op if length is already >= the current length.
func (ps *PagedStorage) CutData(id page.ID, length int) error {
	p, err := ps.pool.GetPage(id)
	if err != nil {
		return err
	}

	if length >= len(p.Data) {
		return nil
	}

	p.Data = p.Data[:length]
	ps.pool.MarkDirty(id)
	return nil
}

// Flush writes every dirty cached page to storage.
func (ps *PagedStorage) Flush() error {
	return ps.pool.Flush()
}

// Maintenance flushes the cache, then runs the storage layer's
// compactor.
func (ps *PagedStorage) Maintenance() (int, error) {
	return ps.pool.Maintenance()
}
