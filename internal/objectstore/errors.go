package objectstore

import "errors"

// ErrMessageTypeMismatch is returned by InsertMessages when a row
// doesn't structurally match the object store's schema.
var ErrMessageTypeMismatch = errors.New("objectstore: message type mismatch")
