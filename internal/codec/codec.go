// Package codec supplies the single deterministic binary encoding used
// by every persisted record in dbuf: pages, the storage allocator
// state, the table and planner catalogs, and wrapped rows.
//
// Structs encode by field position (codec.Handle.StructToArray),
// never by field name, so nothing carries an embedded schema or
// version tag — the same property the storage layer's original
// bincode-based encoding relied on. See DESIGN.md for why msgpack's
// byte layout is used instead of a literal little-endian-varint
// format: both are deterministic and tagless, only the concrete byte
// layout differs.
package codec

import (
	"github.com/hashicorp/go-msgpack/v2/codec"
)

// Handle is shared by every package that persists a record, so the
// same wire format is used everywhere.
var Handle = &codec.MsgpackHandle{}

func init() {
	Handle.StructToArray = true
	Handle.Canonical = true
}

// Encode serializes v using the shared handle.
func Encode(v interface{}) ([]byte, error) {
	var buf []byte
	enc := codec.NewEncoderBytes(&buf, Handle)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf, nil
}

// Decode deserializes data into v, which must be a pointer.
func Decode(data []byte, v interface{}) error {
	dec := codec.NewDecoderBytes(data, Handle)
	return dec.Decode(v)
}

// DecodeCounted is Decode, but also reports how many leading bytes of
// data the value occupied. Used by the object store's row iterator,
// which packs consecutive encoded rows back to back on a page and
// needs to know where one ends and the next begins.
func DecodeCounted(data []byte, v interface{}) (int, error) {
	dec := codec.NewDecoderBytes(data, Handle)
	if err := dec.Decode(v); err != nil {
		return 0, err
	}
	return dec.NumBytesRead(), nil
}
