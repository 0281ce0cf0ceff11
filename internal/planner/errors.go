package planner

import "fmt"

// ErrWrongOperandTypes is returned whenever an expression's operand
// types don't satisfy the operator's typing rule.
var ErrWrongOperandTypes = fmt.Errorf("planner: wrong operand types")

// ErrAmbiguousMatchType is returned when an EnumMatch's arms deduce to
// more than one distinct type.
var ErrAmbiguousMatchType = fmt.Errorf("planner: ambiguous match return type")

// ErrEmptyMatchCases is returned when an EnumMatch has zero arms.
var ErrEmptyMatchCases = fmt.Errorf("planner: empty match cases")

// ErrIllFormedMatchStatement is returned when an EnumMatch's arm count
// doesn't match the operand enum's variant count.
var ErrIllFormedMatchStatement = fmt.Errorf("planner: ill-formed match statement")

// ErrDependencyDropped is returned by Projection lowering when a
// projected composite column depends on a source column that was not
// also projected.
var ErrDependencyDropped = fmt.Errorf("planner: dependency dropped")

// ColumnNotFoundError is returned when a RawExpression ColumnRef names
// a column absent from the expression's schema.
type ColumnNotFoundError struct {
	Name string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("planner: column not found: %q", e.Name)
}

// EnumVariantNotFoundError is returned when a variant name is looked
// up against an EnumType and isn't present.
type EnumVariantNotFoundError struct {
	Enum    string
	Variant string
}

func (e *EnumVariantNotFoundError) Error() string {
	return fmt.Sprintf("planner: enum %q has no variant %q", e.Enum, e.Variant)
}

// MismatchedFieldTypesError is returned when a literal Message/Enum
// value's fields don't structurally match its declared type.
type MismatchedFieldTypesError struct {
	TypeName string
}

func (e *MismatchedFieldTypesError) Error() string {
	return fmt.Sprintf("planner: value does not match declared type %q", e.TypeName)
}
