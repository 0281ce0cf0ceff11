// Package planner turns name-resolved query plans into fully-typed
// ones, resolving table and literal types against a persisted catalog
// of registered schemas, and evaluates the resulting expressions
// against rows during execution.
package planner

import "fmt"

// BinaryOperator is a binary expression operator.
type BinaryOperator uint8

const (
	Add BinaryOperator = iota
	Subtract
	Multiply
	Divide
	Equals
	NotEquals
	LessThan
	GreaterThan
	And
	Or
)

func (op BinaryOperator) String() string {
	switch op {
	case Add:
		return "+"
	case Subtract:
		return "-"
	case Multiply:
		return "*"
	case Divide:
		return "/"
	case Equals:
		return "="
	case NotEquals:
		return "!="
	case LessThan:
		return "<"
	case GreaterThan:
		return ">"
	case And:
		return "&"
	case Or:
		return "|"
	default:
		return fmt.Sprintf("BinaryOperator(%d)", uint8(op))
	}
}

// unaryKind discriminates UnaryOperator's cases.
type unaryKind uint8

const (
	unaryNegate unaryKind = iota
	unaryNot
	unaryMessageField
	unaryEnumMatch
)

// UnaryOperator is a unary expression operator. MessageField and
// EnumMatch carry payloads, so — like DBType/DBValue — this is a
// discriminated struct rather than a bare enum.
type UnaryOperator struct {
	Kind unaryKind

	// MessageFieldIndex is set when Kind == unaryMessageField: the
	// resolved index of the subfield to select out of a Message
	// result.
	MessageFieldIndex int

	// EnumMatchArms is set when Kind == unaryEnumMatch: one expression
	// per variant of the enum the operand evaluates to, in
	// variant-declaration order.
	EnumMatchArms []*Expression
}

func NegateOp() UnaryOperator { return UnaryOperator{Kind: unaryNegate} }
func NotOp() UnaryOperator    { return UnaryOperator{Kind: unaryNot} }
func MessageFieldOp(index int) UnaryOperator {
	return UnaryOperator{Kind: unaryMessageField, MessageFieldIndex: index}
}
func EnumMatchOp(arms []*Expression) UnaryOperator {
	return UnaryOperator{Kind: unaryEnumMatch, EnumMatchArms: arms}
}

func (op UnaryOperator) IsNegate() bool       { return op.Kind == unaryNegate }
func (op UnaryOperator) IsNot() bool          { return op.Kind == unaryNot }
func (op UnaryOperator) IsMessageField() bool { return op.Kind == unaryMessageField }
func (op UnaryOperator) IsEnumMatch() bool    { return op.Kind == unaryEnumMatch }
