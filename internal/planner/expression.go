package planner

import "github.com/cuemby/dbuf/internal/dbtype"

// exprKind discriminates Expression's cases.
type exprKind uint8

const (
	exprLiteral exprKind = iota
	exprColumnRef
	exprBinaryOp
	exprUnaryOp
)

// Expression is a type-checked expression: ColumnRef and MessageField
// carry resolved indices rather than names. Every Expression in a
// LogicalPlan has passed QueryPlanner.DeduceExpressionType, so it is
// well-typed by the time it is evaluated.
type Expression struct {
	Kind exprKind

	Literal dbtype.DBValue

	ColumnRefIndex int

	BinaryOp    BinaryOperator
	BinaryLeft  *Expression
	BinaryRight *Expression

	UnaryOp   UnaryOperator
	UnaryExpr *Expression
}

func literalExpr(v dbtype.DBValue) *Expression {
	return &Expression{Kind: exprLiteral, Literal: v}
}

func columnRefExpr(index int) *Expression {
	return &Expression{Kind: exprColumnRef, ColumnRefIndex: index}
}

func binaryOpExpr(op BinaryOperator, left, right *Expression) *Expression {
	return &Expression{Kind: exprBinaryOp, BinaryOp: op, BinaryLeft: left, BinaryRight: right}
}

func unaryOpExpr(op UnaryOperator, expr *Expression) *Expression {
	return &Expression{Kind: exprUnaryOp, UnaryOp: op, UnaryExpr: expr}
}

// leafColumnRef returns the source column index an expression
// ultimately reads from, if it is a (possibly empty) chain of unary
// operators sitting directly on a ColumnRef, and false otherwise. Used
// by Projection lowering to trace a composite-typed output column back
// to the single source column whose dependencies it inherits.
func leafColumnRef(e *Expression) (int, bool) {
	switch e.Kind {
	case exprColumnRef:
		return e.ColumnRefIndex, true
	case exprUnaryOp:
		return leafColumnRef(e.UnaryExpr)
	default:
		return 0, false
	}
}
