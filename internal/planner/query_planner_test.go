package planner

import (
	"path/filepath"
	"testing"

	"github.com/cuemby/dbuf/internal/blobstore"
	"github.com/cuemby/dbuf/internal/bufferpool"
	"github.com/cuemby/dbuf/internal/catalog"
	"github.com/cuemby/dbuf/internal/dbtype"
	"github.com/cuemby/dbuf/internal/pagedstorage"
	"github.com/cuemby/dbuf/internal/storage"
)

func newTestPlanner(t *testing.T) *QueryPlanner {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "data")

	blobs, err := blobstore.Open(dir)
	if err != nil {
		t.Fatalf("open blob store: %v", err)
	}
	t.Cleanup(func() { _ = blobs.Close() })

	st, err := storage.Open(blobs, 4096)
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	paged := pagedstorage.New(bufferpool.NewBufferPool(st, 10))

	tables, err := catalog.OpenTableManager(paged)
	if err != nil {
		t.Fatalf("open table manager: %v", err)
	}
	types, err := catalog.OpenPlannerCatalog(st)
	if err != nil {
		t.Fatalf("open planner catalog: %v", err)
	}

	return New(tables, types)
}

func personType() dbtype.MessageType {
	return dbtype.MessageType{
		Name: "Person",
		Columns: []dbtype.Column{
			{Name: "name", Type: dbtype.String()},
			{Name: "age", Type: dbtype.Int()},
		},
	}
}

func TestDeduceBinaryOpTypeComparisonsYieldBool(t *testing.T) {
	qp := newTestPlanner(t)

	for _, op := range []BinaryOperator{LessThan, GreaterThan} {
		got, err := qp.DeduceBinaryOpType(op, dbtype.Int(), dbtype.Int())
		if err != nil {
			t.Fatalf("%v: unexpected error: %v", op, err)
		}
		if got.Kind != dbtype.KindBool {
			t.Fatalf("%v: expected Bool, got %v", op, got.Kind)
		}
	}

	got, err := qp.DeduceBinaryOpType(Add, dbtype.Int(), dbtype.Int())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != dbtype.KindInt {
		t.Fatalf("Add: expected Int preserved, got %v", got.Kind)
	}
}

func TestBuildExpressionOrOfColumnAndComparison(t *testing.T) {
	qp := newTestPlanner(t)
	mt := personType()

	raw := BinaryOpExpr(Or,
		ColumnRefExpr("age"),
		BinaryOpExpr(GreaterThan, ColumnRefExpr("age"), LiteralExpr(dbtype.NewInt(18))),
	)

	// Or requires both operands to deduce to Bool; a bare ColumnRef to
	// an Int column does not, so this must fail type-checking.
	expr, err := qp.BuildExpression(raw, mt)
	if err != nil {
		return
	}
	if _, err := qp.DeduceExpressionType(expr, mt); err == nil {
		t.Fatalf("expected Or(Int, Bool) to be rejected by type deduction")
	}
}

func TestBuildExpressionComparisonDeducesBool(t *testing.T) {
	qp := newTestPlanner(t)
	mt := personType()

	raw := BinaryOpExpr(GreaterThan, ColumnRefExpr("age"), LiteralExpr(dbtype.NewInt(18)))
	expr, err := qp.BuildExpression(raw, mt)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	got, err := qp.DeduceExpressionType(expr, mt)
	if err != nil {
		t.Fatalf("deduce: %v", err)
	}
	if got.Kind != dbtype.KindBool {
		t.Fatalf("expected Bool, got %v", got.Kind)
	}
}

// payloadType returns a Message type whose second column depends on
// its first. isComplexType gates dependency propagation on Message/Enum
// columns only (query_planner.go's buildProjection, spec.md §4.9's
// "composite" rule), so only a Message- or Enum-typed dependent column
// exercises ErrDependencyDropped and the ref_map remapping.
func payloadType() dbtype.MessageType {
	return dbtype.MessageType{
		Name: "Row",
		Columns: []dbtype.Column{
			{Name: "len", Type: dbtype.UInt()},
			{
				Name: "payload",
				Type: dbtype.MessageTypeOf(dbtype.MessageType{
					Name:    "Inner",
					Columns: []dbtype.Column{{Name: "value", Type: dbtype.String()}},
				}),
				Dependencies: []int{0},
			},
		},
	}
}

func TestBuildLogicalPlanDependencyDropped(t *testing.T) {
	qp := newTestPlanner(t)

	mt := payloadType()
	if err := qp.Tables.CreateTable("rows", mt); err != nil {
		t.Fatalf("create table: %v", err)
	}

	// Projecting "payload" alone drops its dependency on "len".
	raw := ProjectionPlan(
		[]ProjectionItem{{Alias: "payload", Expression: ColumnRefExpr("payload")}},
		ScanPlan("rows"),
	)

	if _, err := qp.BuildLogicalPlan(raw); err == nil {
		t.Fatalf("expected a dropped dependency to be rejected")
	}
}

func TestBuildLogicalPlanKeepsDependencyWhenBothProjected(t *testing.T) {
	qp := newTestPlanner(t)

	mt := payloadType()
	if err := qp.Tables.CreateTable("rows2", mt); err != nil {
		t.Fatalf("create table: %v", err)
	}

	raw := ProjectionPlan(
		[]ProjectionItem{
			{Alias: "len", Expression: ColumnRefExpr("len")},
			{Alias: "payload", Expression: ColumnRefExpr("payload")},
		},
		ScanPlan("rows2"),
	)

	lp, err := qp.BuildLogicalPlan(raw)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(lp.MessageType.Columns[1].Dependencies) != 1 || lp.MessageType.Columns[1].Dependencies[0] != 0 {
		t.Fatalf("expected payload's dependency remapped to index 0, got %+v", lp.MessageType.Columns[1])
	}
}
