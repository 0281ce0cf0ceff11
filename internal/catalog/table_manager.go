// Package catalog persists the two top-level name→definition maps the
// rest of the system is built on: the table manager (name → row
// storage) and the planner catalog (name → type definition). Both are
// single records living at the reserved ids internal/storage reserves
// for them.
package catalog

import (
	"fmt"

	"github.com/cuemby/dbuf/internal/codec"
	"github.com/cuemby/dbuf/internal/dbmetrics"
	"github.com/cuemby/dbuf/internal/dbtype"
	"github.com/cuemby/dbuf/internal/objectstore"
	"github.com/cuemby/dbuf/internal/pagedstorage"
	"github.com/cuemby/dbuf/internal/storage"
	"github.com/cuemby/dbuf/pkg/log"
)

// tableManagerState is the persisted shape of the table catalog: every
// table's schema and page bookkeeping lives inline here, since
// ObjectStorage itself holds only page ids, not row data.
type tableManagerState struct {
	Tables map[string]*objectstore.ObjectStorage
}

// TableManager is the catalog of tables: name → row storage, backed by
// a single persisted record at storage.TableStateIndex.
type TableManager struct {
	state tableManagerState
	paged *pagedstorage.PagedStorage
}

// OpenTableManager loads (or initializes) the table catalog from ps's
// underlying storage.
func OpenTableManager(ps *pagedstorage.PagedStorage) (*TableManager, error) {
	tm := &TableManager{paged: ps}

	raw, err := ps.Storage().ReadRaw(storage.TableStateIndex)
	if _, notFound := err.(*storage.PageNotFoundError); notFound {
		tm.state = tableManagerState{Tables: map[string]*objectstore.ObjectStorage{}}
		return tm, tm.save()
	}
	if err != nil {
		return nil, err
	}

	var state tableManagerState
	if err := codec.Decode(raw, &state); err != nil {
		return nil, fmt.Errorf("decode table catalog: %w", err)
	}
	if state.Tables == nil {
		state.Tables = map[string]*objectstore.ObjectStorage{}
	}
	tm.state = state
	return tm, nil
}

func (tm *TableManager) save() error {
	encoded, err := codec.Encode(tm.state)
	if err != nil {
		return fmt.Errorf("encode table catalog: %w", err)
	}
	return tm.paged.Storage().WriteRaw(storage.TableStateIndex, encoded)
}

// CreateTable registers an empty table named name with the given
// schema. Fails with ErrTableAlreadyExists if name is already
// registered.
func (tm *TableManager) CreateTable(name string, schema dbtype.MessageType) error {
	if _, ok := tm.state.Tables[name]; ok {
		return ErrTableAlreadyExists
	}

	tm.state.Tables[name] = objectstore.New(schema)
	if err := tm.save(); err != nil {
		return err
	}
	if err := tm.paged.Flush(); err != nil {
		return err
	}
	log.WithTable(name).Info("created table")
	return nil
}

// DropTable frees every page and overflow id owned by name and
// removes it from the catalog. Fails with ErrTableNotFound if absent.
func (tm *TableManager) DropTable(name string) error {
	os, ok := tm.state.Tables[name]
	if !ok {
		return ErrTableNotFound
	}

	if err := os.DropItems(tm.paged); err != nil {
		return err
	}
	delete(tm.state.Tables, name)

	if err := tm.save(); err != nil {
		return err
	}
	if err := tm.paged.Flush(); err != nil {
		return err
	}
	log.WithTable(name).Info("dropped table")
	return nil
}

// InsertMessages appends rows to name. The catalog record is re-saved
// after every batch, since the table's page-list bookkeeping lives
// inside it.
func (tm *TableManager) InsertMessages(name string, messages []dbtype.Message) error {
	os, ok := tm.state.Tables[name]
	if !ok {
		return ErrTableNotFound
	}

	if err := os.InsertMessages(tm.paged, messages); err != nil {
		return err
	}
	if err := tm.save(); err != nil {
		return err
	}
	if err := tm.paged.Flush(); err != nil {
		return err
	}
	dbmetrics.RowsInserted.WithLabelValues(name).Add(float64(len(messages)))
	return nil
}

// Iter returns a row iterator over name. Fails with ErrTableNotFound
// if absent.
func (tm *TableManager) Iter(name string) (*objectstore.MessageIterator, error) {
	os, ok := tm.state.Tables[name]
	if !ok {
		return nil, ErrTableNotFound
	}
	return os.Iter(tm.paged), nil
}

// Schema returns the registered schema for name. Fails with
// ErrTableNotFound if absent.
func (tm *TableManager) Schema(name string) (dbtype.MessageType, error) {
	os, ok := tm.state.Tables[name]
	if !ok {
		return dbtype.MessageType{}, ErrTableNotFound
	}
	return os.Schema, nil
}

// HasTable reports whether name is registered.
func (tm *TableManager) HasTable(name string) bool {
	_, ok := tm.state.Tables[name]
	return ok
}
