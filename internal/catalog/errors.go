package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrTableAlreadyExists is returned by CreateTable for a name that
	// is already registered.
	ErrTableAlreadyExists = errors.New("catalog: table already exists")
	// ErrTableNotFound is returned by any table operation on an
	// unregistered name.
	ErrTableNotFound = errors.New("catalog: table not found")
)

// DuplicateMessageTypeError is returned by the planner catalog's
// RegisterMessageType for a name already registered.
type DuplicateMessageTypeError struct {
	Name string
}

func (e *DuplicateMessageTypeError) Error() string {
	return fmt.Sprintf("catalog: duplicate message type %q", e.Name)
}

// DuplicateEnumTypeError is returned by the planner catalog's
// RegisterEnumType for a name already registered.
type DuplicateEnumTypeError struct {
	Name string
}

func (e *DuplicateEnumTypeError) Error() string {
	return fmt.Sprintf("catalog: duplicate enum type %q", e.Name)
}

// UnknownMessageTypeError is returned when a name is looked up in the
// planner catalog's message types and isn't present.
type UnknownMessageTypeError struct {
	Name string
}

func (e *UnknownMessageTypeError) Error() string {
	return fmt.Sprintf("catalog: unknown message type %q", e.Name)
}

// UnknownEnumTypeError is returned when a name is looked up in the
// planner catalog's enum types and isn't present.
type UnknownEnumTypeError struct {
	Name string
}

func (e *UnknownEnumTypeError) Error() string {
	return fmt.Sprintf("catalog: unknown enum type %q", e.Name)
}
