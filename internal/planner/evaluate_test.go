package planner

import (
	"testing"

	"github.com/cuemby/dbuf/internal/dbtype"
)

func TestEvaluateColumnRefAndComparison(t *testing.T) {
	row := dbtype.Message{Fields: []dbtype.DBValue{dbtype.NewString("Ann"), dbtype.NewInt(30)}}

	expr := binaryOpExpr(GreaterThan, columnRefExpr(1), literalExpr(dbtype.NewInt(18)))
	got := Evaluate(expr, row)
	if got.Kind != dbtype.KindBool || !got.Bool {
		t.Fatalf("expected true, got %+v", got)
	}
}

func TestEvaluateArithmetic(t *testing.T) {
	row := dbtype.Message{Fields: []dbtype.DBValue{dbtype.NewInt(4), dbtype.NewInt(5)}}

	expr := binaryOpExpr(Add, columnRefExpr(0), columnRefExpr(1))
	got := Evaluate(expr, row)
	if got.Kind != dbtype.KindInt || got.Int != 9 {
		t.Fatalf("expected 9, got %+v", got)
	}
}

func TestEvaluateMessageField(t *testing.T) {
	inner := dbtype.Message{Fields: []dbtype.DBValue{dbtype.NewInt(7)}}
	row := dbtype.Message{Fields: []dbtype.DBValue{dbtype.NewMessage(inner)}}

	expr := unaryOpExpr(MessageFieldOp(0), columnRefExpr(0))
	got := Evaluate(expr, row)
	if got.Kind != dbtype.KindInt || got.Int != 7 {
		t.Fatalf("expected 7, got %+v", got)
	}
}

func TestEvaluateEnumMatchSelectsChosenArm(t *testing.T) {
	enumVal := dbtype.EnumValue{Choice: 1, Fields: []dbtype.DBValue{dbtype.NewInt(42)}}
	row := dbtype.Message{Fields: []dbtype.DBValue{dbtype.NewEnumValue(enumVal)}}

	arms := []*Expression{
		literalExpr(dbtype.NewInt(-1)),
		columnRefExpr(0),
	}
	expr := unaryOpExpr(EnumMatchOp(arms), columnRefExpr(0))
	got := Evaluate(expr, row)
	if got.Kind != dbtype.KindInt || got.Int != 42 {
		t.Fatalf("expected the second arm's field 42, got %+v", got)
	}
}

func TestEvaluateNegateAndNot(t *testing.T) {
	row := dbtype.Message{}

	neg := unaryOpExpr(NegateOp(), literalExpr(dbtype.NewInt(5)))
	if got := Evaluate(neg, row); got.Int != -5 {
		t.Fatalf("expected -5, got %+v", got)
	}

	not := unaryOpExpr(NotOp(), literalExpr(dbtype.NewBool(false)))
	if got := Evaluate(not, row); !got.Bool {
		t.Fatalf("expected true, got %+v", got)
	}
}
