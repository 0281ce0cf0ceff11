// Package storage wraps the blob store with typed page
// allocation/read/write and a persisted allocator state, per spec.md
// §4.1.
package storage

import (
	"fmt"

	"github.com/cuemby/dbuf/internal/blobstore"
	"github.com/cuemby/dbuf/internal/codec"
	"github.com/cuemby/dbuf/internal/dbmetrics"
	"github.com/cuemby/dbuf/internal/page"
	"github.com/cuemby/dbuf/pkg/log"
)

// ID and Type are re-exported so callers rarely need to import
// internal/page directly.
type ID = page.ID
type Type = page.Type

const (
	TypeTableData = page.TypeTableData
	TypeIndexData = page.TypeIndexData
	TypeFree      = page.TypeFree
)

// Reserved ids, per spec.md §6.
const (
	StorageStateIndex ID = 0
	TableStateIndex   ID = 1
	PlannerStateIndex ID = 2

	// DefaultPage is where user-allocated page ids begin.
	DefaultPage ID = 100
)

// State is the allocator's own persisted bookkeeping: the configured
// page size, the next fresh id to hand out, and the FIFO queue of
// freed ids available for reuse by AllocateID.
type State struct {
	PageSize   int
	NextPageID ID
	FreeIDs    []ID
}

// Storage is the thinnest layer over the blob store: it knows about
// Page and PageId, nothing about rows or schemas.
type Storage struct {
	blobs blobstore.Store
	state State
}

// Open constructs a Storage over an already-opened blob store.
// pageSize is ignored if a State was already persisted — the value on
// disk always wins on reopen.
func Open(blobs blobstore.Store, pageSize int) (*Storage, error) {
	s := &Storage{blobs: blobs}

	data, found, err := blobs.Read(StorageStateIndex)
	if err != nil {
		return nil, fmt.Errorf("read storage state: %w", err)
	}
	if found {
		var state State
		if err := codec.Decode(data, &state); err != nil {
			return nil, fmt.Errorf("decode storage state: %w", err)
		}
		s.state = state
		return s, nil
	}

	s.state = State{
		PageSize:   pageSize,
		NextPageID: DefaultPage,
		FreeIDs:    nil,
	}
	if err := s.saveState(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Storage) saveState() error {
	encoded, err := codec.Encode(s.state)
	if err != nil {
		return fmt.Errorf("encode storage state: %w", err)
	}
	return s.blobs.WriteBatch([]blobstore.Entry{{ID: StorageStateIndex, Value: encoded}})
}

// PageSize returns the effective page size (the one on disk, if any).
func (s *Storage) PageSize() int {
	return s.state.PageSize
}

// AllocateID consumes the head of the free-id queue if non-empty,
// otherwise mints a fresh id. Used by overflow storage, which needs an
// id but not a freshly written empty Page.
func (s *Storage) AllocateID() (ID, error) {
	if len(s.state.FreeIDs) > 0 {
		id := s.state.FreeIDs[0]
		s.state.FreeIDs = s.state.FreeIDs[1:]
		if err := s.saveState(); err != nil {
			return 0, err
		}
		return id, nil
	}

	id := s.state.NextPageID
	s.state.NextPageID++
	if err := s.saveState(); err != nil {
		return 0, err
	}
	return id, nil
}

// FreeID tombstones id in the blob store and appends it to the free
// list. Calling this twice on the same id double-pushes it onto the
// free list; callers must not double-free.
func (s *Storage) FreeID(id ID) error {
	if err := s.blobs.WriteBatch([]blobstore.Entry{{ID: id, Value: nil}}); err != nil {
		return err
	}
	s.state.FreeIDs = append(s.state.FreeIDs, id)
	return s.saveState()
}

// AllocatePage always mints a fresh id via NextPageID — never the free
// list — writes an initial empty page, and returns it. Fresh
// allocation deliberately bypasses the reuse pool so the common
// insertion path never has to branch on where its id came from;
// AllocateID (used by overflow rows) is the only consumer of the free
// list.
func (s *Storage) AllocatePage(pageType Type) (*page.Page, error) {
	id := s.state.NextPageID
	s.state.NextPageID++
	if err := s.saveState(); err != nil {
		return nil, err
	}

	p := &page.Page{
		Header: page.Header{ID: id, Type: pageType, ObjCount: 0},
		Data:   nil,
	}
	if err := s.WritePage(p); err != nil {
		return nil, err
	}

	dbmetrics.PagesAllocated.Inc()
	log.WithComponent("storage").Debug("allocated page")
	return p, nil
}

// ReadPage decodes the whole Page stored at id.
func (s *Storage) ReadPage(id ID) (*page.Page, error) {
	data, found, err := s.blobs.Read(id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &PageNotFoundError{ID: id}
	}
	var p page.Page
	if err := codec.Decode(data, &p); err != nil {
		return nil, fmt.Errorf("decode page %d: %w", id, err)
	}
	return &p, nil
}

// WritePage encodes and persists the whole Page.
func (s *Storage) WritePage(p *page.Page) error {
	encoded, err := codec.Encode(*p)
	if err != nil {
		return fmt.Errorf("encode page %d: %w", p.Header.ID, err)
	}
	return s.blobs.WriteBatch([]blobstore.Entry{{ID: p.Header.ID, Value: encoded}})
}

// DeletePage tombstones id and pushes it to the free list. Idempotent
// in the sense that a second call still succeeds, but it will
// double-push id; callers must not double-delete.
func (s *Storage) DeletePage(id ID) error {
	if err := s.FreeID(id); err != nil {
		return err
	}
	dbmetrics.PagesFreed.Inc()
	return nil
}

// WriteRaw writes data directly at id, bypassing Page encoding. Used
// for overflow rows, which are not pages and never go through the
// buffer pool.
func (s *Storage) WriteRaw(id ID, data []byte) error {
	return s.blobs.WriteBatch([]blobstore.Entry{{ID: id, Value: data}})
}

// ReadRaw reads the raw bytes stored at id, bypassing Page decoding.
func (s *Storage) ReadRaw(id ID) ([]byte, error) {
	data, found, err := s.blobs.Read(id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &PageNotFoundError{ID: id}
	}
	return data, nil
}

// Maintenance forwards to the blob store's compactor.
func (s *Storage) Maintenance() (int, error) {
	return s.blobs.Maintenance()
}
