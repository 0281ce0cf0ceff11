package catalog

import (
	"path/filepath"
	"testing"

	"github.com/cuemby/dbuf/internal/blobstore"
	"github.com/cuemby/dbuf/internal/bufferpool"
	"github.com/cuemby/dbuf/internal/dbtype"
	"github.com/cuemby/dbuf/internal/pagedstorage"
	"github.com/cuemby/dbuf/internal/storage"
)

func newTestPaged(t *testing.T) (*pagedstorage.PagedStorage, *storage.Storage) {
	t.Helper()
	blobs, err := blobstore.Open(filepath.Join(t.TempDir(), "data"))
	if err != nil {
		t.Fatalf("open blob store: %v", err)
	}
	t.Cleanup(func() { _ = blobs.Close() })

	st, err := storage.Open(blobs, 4096)
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	return pagedstorage.New(bufferpool.NewBufferPool(st, 10)), st
}

func sampleType() dbtype.MessageType {
	return dbtype.MessageType{
		Name:    "Person",
		Columns: []dbtype.Column{{Name: "name", Type: dbtype.String()}},
	}
}

func TestCreateTableThenInsertThenIter(t *testing.T) {
	ps, _ := newTestPaged(t)
	tm, err := OpenTableManager(ps)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if err := tm.CreateTable("people", sampleType()); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := tm.InsertMessages("people", []dbtype.Message{{Fields: []dbtype.DBValue{dbtype.NewString("Ann")}}}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	it, err := tm.Iter("people")
	if err != nil {
		t.Fatalf("iter: %v", err)
	}
	m, ok, err := it.Next()
	if err != nil || !ok {
		t.Fatalf("expected one row, ok=%v err=%v", ok, err)
	}
	if m.Fields[0].Str != "Ann" {
		t.Fatalf("unexpected row: %+v", m)
	}
}

func TestCreateTableRejectsDuplicate(t *testing.T) {
	ps, _ := newTestPaged(t)
	tm, err := OpenTableManager(ps)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := tm.CreateTable("people", sampleType()); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := tm.CreateTable("people", sampleType()); err != ErrTableAlreadyExists {
		t.Fatalf("expected ErrTableAlreadyExists, got %v", err)
	}
}

func TestDropTableRejectsUnknown(t *testing.T) {
	ps, _ := newTestPaged(t)
	tm, err := OpenTableManager(ps)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := tm.DropTable("ghost"); err != ErrTableNotFound {
		t.Fatalf("expected ErrTableNotFound, got %v", err)
	}
}

func TestTableManagerSurvivesReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	blobs, err := blobstore.Open(dir)
	if err != nil {
		t.Fatalf("open blob store: %v", err)
	}

	st, err := storage.Open(blobs, 4096)
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	ps := pagedstorage.New(bufferpool.NewBufferPool(st, 10))

	tm, err := OpenTableManager(ps)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := tm.CreateTable("people", sampleType()); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := ps.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := blobs.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	blobs2, err := blobstore.Open(dir)
	if err != nil {
		t.Fatalf("reopen blob store: %v", err)
	}
	defer blobs2.Close()
	st2, err := storage.Open(blobs2, 4096)
	if err != nil {
		t.Fatalf("reopen storage: %v", err)
	}
	ps2 := pagedstorage.New(bufferpool.NewBufferPool(st2, 10))
	tm2, err := OpenTableManager(ps2)
	if err != nil {
		t.Fatalf("reopen table manager: %v", err)
	}
	if !tm2.HasTable("people") {
		t.Fatalf("expected the table to survive reopen")
	}
}

func TestPlannerCatalogRegisterAndLookup(t *testing.T) {
	_, st := newTestPaged(t)
	pc, err := OpenPlannerCatalog(st)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	mt := sampleType()
	if err := pc.RegisterMessageType(mt); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := pc.RegisterMessageType(mt); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}

	got, err := pc.MessageType("Person")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !got.Equal(mt) {
		t.Fatalf("unexpected type: %+v", got)
	}

	if _, err := pc.MessageType("Ghost"); err == nil {
		t.Fatalf("expected unknown type lookup to fail")
	}
}
