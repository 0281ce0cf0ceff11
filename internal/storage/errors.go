package storage

import (
	"errors"
	"fmt"
)

// ErrPageFull is returned by PagedStorage mutators (not by Storage
// itself) when an append or write would exceed the configured page
// size.
var ErrPageFull = errors.New("storage: page full")

// ErrInvalidOperation is returned by a read that falls outside a
// page's current data length.
var ErrInvalidOperation = errors.New("storage: invalid operation")

// PageNotFoundError reports a read of an id the blob store has no
// (live) value for.
type PageNotFoundError struct {
	ID ID
}

func (e *PageNotFoundError) Error() string {
	return fmt.Sprintf("storage: page not found: %d", e.ID)
}
