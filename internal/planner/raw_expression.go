package planner

import "github.com/cuemby/dbuf/internal/dbtype"

// rawKind discriminates RawExpression's cases.
type rawKind uint8

const (
	rawLiteral rawKind = iota
	rawColumnRef
	rawBinaryOp
	rawUnaryOp
)

// RawExpression is a name-resolved, type-unchecked expression: the
// surface the query grammar parses into, before the planner resolves
// column names to indices and deduces types.
type RawExpression struct {
	Kind rawKind

	Literal dbtype.DBValue

	ColumnRef string

	BinaryOp    BinaryOperator
	BinaryLeft  *RawExpression
	BinaryRight *RawExpression

	UnaryOp   RawUnaryOperator
	UnaryExpr *RawExpression
}

func LiteralExpr(v dbtype.DBValue) RawExpression {
	return RawExpression{Kind: rawLiteral, Literal: v}
}

func ColumnRefExpr(name string) RawExpression {
	return RawExpression{Kind: rawColumnRef, ColumnRef: name}
}

func BinaryOpExpr(op BinaryOperator, left, right RawExpression) RawExpression {
	return RawExpression{Kind: rawBinaryOp, BinaryOp: op, BinaryLeft: &left, BinaryRight: &right}
}

func UnaryOpExpr(op RawUnaryOperator, expr RawExpression) RawExpression {
	return RawExpression{Kind: rawUnaryOp, UnaryOp: op, UnaryExpr: &expr}
}

// rawUnaryKind discriminates RawUnaryOperator's cases.
type rawUnaryKind uint8

const (
	rawUnaryNegate rawUnaryKind = iota
	rawUnaryNot
	rawUnaryMessageField
	rawUnaryEnumMatch
)

// RawUnaryOperator is the unresolved counterpart of UnaryOperator:
// MessageField carries a field *name*, EnumMatch carries raw arm
// expressions, both resolved by the planner during build_expression.
type RawUnaryOperator struct {
	Kind rawUnaryKind

	MessageFieldName string
	EnumMatchArms    []RawExpression
}

func RawNegate() RawUnaryOperator { return RawUnaryOperator{Kind: rawUnaryNegate} }
func RawNot() RawUnaryOperator    { return RawUnaryOperator{Kind: rawUnaryNot} }
func RawMessageField(name string) RawUnaryOperator {
	return RawUnaryOperator{Kind: rawUnaryMessageField, MessageFieldName: name}
}
func RawEnumMatch(arms []RawExpression) RawUnaryOperator {
	return RawUnaryOperator{Kind: rawUnaryEnumMatch, EnumMatchArms: arms}
}
