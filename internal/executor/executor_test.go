package executor

import (
	"path/filepath"
	"testing"

	"github.com/cuemby/dbuf/internal/blobstore"
	"github.com/cuemby/dbuf/internal/bufferpool"
	"github.com/cuemby/dbuf/internal/catalog"
	"github.com/cuemby/dbuf/internal/dbtype"
	"github.com/cuemby/dbuf/internal/pagedstorage"
	"github.com/cuemby/dbuf/internal/planner"
	"github.com/cuemby/dbuf/internal/storage"
)

func newTestTables(t *testing.T) *catalog.TableManager {
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
	ps := pagedstorage.New(bufferpool.NewBufferPool(st, 10))

	tm, err := catalog.OpenTableManager(ps)
	if err != nil {
		t.Fatalf("open table manager: %v", err)
	}
	return tm
}

func peopleType() dbtype.MessageType {
	return dbtype.MessageType{
		Name: "Person",
		Columns: []dbtype.Column{
			{Name: "name", Type: dbtype.String()},
			{Name: "age", Type: dbtype.Int()},
		},
	}
}

func TestFilterAndProjectionPipeline(t *testing.T) {
	tables := newTestTables(t)
	mt := peopleType()
	if err := tables.CreateTable("people", mt); err != nil {
		t.Fatalf("create: %v", err)
	}
	rows := []dbtype.Message{
		{Fields: []dbtype.DBValue{dbtype.NewString("Ann"), dbtype.NewInt(30)}},
		{Fields: []dbtype.DBValue{dbtype.NewString("Bo"), dbtype.NewInt(12)}},
	}
	if err := tables.InsertMessages("people", rows); err != nil {
		t.Fatalf("insert: %v", err)
	}

	qp := planner.New(tables, nil)
	raw := planner.ProjectionPlan(
		[]planner.ProjectionItem{{Alias: "n", Expression: planner.ColumnRefExpr("name")}},
		planner.FilterPlan(
			planner.BinaryOpExpr(planner.GreaterThan, planner.ColumnRefExpr("age"), planner.LiteralExpr(dbtype.NewInt(18))),
			planner.ScanPlan("people"),
		),
	)

	lp, err := qp.BuildLogicalPlan(raw)
	if err != nil {
		t.Fatalf("build logical plan: %v", err)
	}

	phys, err := Build(lp, tables)
	if err != nil {
		t.Fatalf("build physical plan: %v", err)
	}
	if err := phys.Open(); err != nil {
		t.Fatalf("open: %v", err)
	}

	var got []string
	for {
		row, ok, err := phys.Next()
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if !ok {
			break
		}
		got = append(got, row.Fields[0].Str)
	}
	if len(got) != 1 || got[0] != "Ann" {
		t.Fatalf("expected only Ann to pass the filter, got %v", got)
	}
}

func TestBareScanReturnsEveryRow(t *testing.T) {
	tables := newTestTables(t)
	mt := peopleType()
	if err := tables.CreateTable("people2", mt); err != nil {
		t.Fatalf("create: %v", err)
	}
	rows := []dbtype.Message{
		{Fields: []dbtype.DBValue{dbtype.NewString("Ann"), dbtype.NewInt(30)}},
		{Fields: []dbtype.DBValue{dbtype.NewString("Bo"), dbtype.NewInt(12)}},
	}
	if err := tables.InsertMessages("people2", rows); err != nil {
		t.Fatalf("insert: %v", err)
	}

	qp := planner.New(tables, nil)
	lp, err := qp.BuildLogicalPlan(planner.ScanPlan("people2"))
	if err != nil {
		t.Fatalf("build logical plan: %v", err)
	}
	phys, err := Build(lp, tables)
	if err != nil {
		t.Fatalf("build physical plan: %v", err)
	}
	if err := phys.Open(); err != nil {
		t.Fatalf("open: %v", err)
	}

	count := 0
	for {
		_, ok, err := phys.Next()
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if !ok {
			break
		}
		count++
	}
	if count != 2 {
		t.Fatalf("expected 2 rows, got %d", count)
	}
}
