package schemadef

import "fmt"

// DuplicateTypeNameError is returned when two declarations in the same
// file (or a declaration and a builtin) share a name.
type DuplicateTypeNameError struct {
	Name string
}

func (e *DuplicateTypeNameError) Error() string {
	return fmt.Sprintf("schemadef: duplicate type name %q", e.Name)
}

// UnknownTypeError is returned when a field or variant references a
// type name not yet declared (or a misspelled builtin).
type UnknownTypeError struct {
	Name string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("schemadef: unknown type %q", e.Name)
}

// DuplicateFieldError is returned when a declaration repeats a field
// name.
type DuplicateFieldError struct {
	Field string
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("schemadef: duplicate field %q", e.Field)
}

// FieldNotFoundError is returned when a dependency argument names a
// field that hasn't been declared yet (or at all) within the same
// definition.
type FieldNotFoundError struct {
	Field string
}

func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("schemadef: field not found: %q", e.Field)
}
