// Package objectstore turns a PagedStorage's raw byte ranges into a
// sequence of rows (dbtype.Message values) for a single table,
// transparently spilling any row whose encoding exceeds the page size
// into its own overflow slot.
package objectstore

import (
	"fmt"

	"github.com/cuemby/dbuf/internal/codec"
	"github.com/cuemby/dbuf/internal/dbmetrics"
	"github.com/cuemby/dbuf/internal/dbtype"
	"github.com/cuemby/dbuf/internal/page"
	"github.com/cuemby/dbuf/internal/pagedstorage"
	"github.com/cuemby/dbuf/internal/storage"
)

// wrappedKind discriminates WrappedMessage's two cases.
type wrappedKind uint8

const (
	wrappedReal wrappedKind = iota
	wrappedIndex
)

// wrappedMessage is a row as it is physically encoded on a page: either
// the row itself, or — if that encoding would not fit in a page — the
// id of an overflow slot holding it instead. Every row goes through
// this wrapper so the object store can always guarantee each entry
// fits in a page, regardless of row size.
type wrappedMessage struct {
	Kind    wrappedKind
	Message *dbtype.Message
	Index   storage.ID
}

// ObjectStorage is the page-resident, append-only row store for one
// table: a schema, the ordered list of pages holding encoded rows, and
// the list of overflow ids those rows may have spilled into.
type ObjectStorage struct {
	Schema        dbtype.MessageType
	Pages         []page.ID
	OverflowPages []page.ID
}

// New creates an empty object store for schema. Its first page is
// allocated lazily, on the first InsertMessages call.
func New(schema dbtype.MessageType) *ObjectStorage {
	return &ObjectStorage{Schema: schema}
}

// wrapAndEncode encodes message for on-page storage, spilling to an
// overflow slot if the direct encoding would not fit in a page.
func (os *ObjectStorage) wrapAndEncode(message dbtype.Message, st *storage.Storage) ([]byte, error) {
	wrapped := wrappedMessage{Kind: wrappedReal, Message: &message}
	encoded, err := codec.Encode(wrapped)
	if err != nil {
		return nil, fmt.Errorf("encode row: %w", err)
	}
	if len(encoded) <= st.PageSize() {
		return encoded, nil
	}

	overflowID, err := st.AllocateID()
	if err != nil {
		return nil, err
	}
	os.OverflowPages = append(os.OverflowPages, overflowID)
	if err := st.WriteRaw(overflowID, encoded); err != nil {
		return nil, err
	}
	dbmetrics.OverflowObjectsWritten.Inc()

	index := wrappedMessage{Kind: wrappedIndex, Index: overflowID}
	encodedIndex, err := codec.Encode(index)
	if err != nil {
		return nil, fmt.Errorf("encode overflow index: %w", err)
	}
	return encodedIndex, nil
}

// decodeAndUnwrap decodes one wrappedMessage from the head of encoded
// and returns the row along with the byte length that encoding
// occupied on the page (the index's length, not the overflow row's).
func decodeAndUnwrap(st *storage.Storage, encoded []byte) (dbtype.Message, int, error) {
	var wrapped wrappedMessage
	read, err := codec.DecodeCounted(encoded, &wrapped)
	if err != nil {
		return dbtype.Message{}, 0, fmt.Errorf("decode row: %w", err)
	}

	switch wrapped.Kind {
	case wrappedReal:
		return *wrapped.Message, read, nil
	case wrappedIndex:
		raw, err := st.ReadRaw(wrapped.Index)
		if err != nil {
			return dbtype.Message{}, 0, err
		}
		var overflow wrappedMessage
		if err := codec.Decode(raw, &overflow); err != nil {
			return dbtype.Message{}, 0, fmt.Errorf("decode overflow row: %w", err)
		}
		if overflow.Kind != wrappedReal {
			return dbtype.Message{}, 0, fmt.Errorf("objectstore: incorrect overflow decoding")
		}
		return *overflow.Message, read, nil
	default:
		return dbtype.Message{}, 0, fmt.Errorf("objectstore: unknown wrapped message kind %d", wrapped.Kind)
	}
}

func (os *ObjectStorage) addPage(ps *pagedstorage.PagedStorage) error {
	id, err := ps.AllocatePage(storage.TypeTableData)
	if err != nil {
		return err
	}
	os.Pages = append(os.Pages, id)
	return nil
}

func (os *ObjectStorage) tryPush(ps *pagedstorage.PagedStorage, encoded []byte) error {
	last := os.Pages[len(os.Pages)-1]
	_, err := ps.AppendData(last, encoded)
	return err
}

// InsertMessages appends each message to the table, wrapping/spilling
// as needed and bumping the destination page's object count. Fails
// with ErrMessageTypeMismatch on the first row that doesn't match the
// store's schema; rows inserted before that point remain committed.
func (os *ObjectStorage) InsertMessages(ps *pagedstorage.PagedStorage, messages []dbtype.Message) error {
	for _, message := range messages {
		if !dbtype.MatchMessage(os.Schema, message) {
			return ErrMessageTypeMismatch
		}

		if len(os.Pages) == 0 {
			if err := os.addPage(ps); err != nil {
				return err
			}
		}

		encoded, err := os.wrapAndEncode(message, ps.Storage())
		if err != nil {
			return err
		}

		if err := os.tryPush(ps, encoded); err != nil {
			if err := os.addPage(ps); err != nil {
				return err
			}
			if err := os.tryPush(ps, encoded); err != nil {
				return fmt.Errorf("row does not fit a fresh page, increase page size: %w", err)
			}
		}

		if _, err := ps.BumpObjCount(os.Pages[len(os.Pages)-1]); err != nil {
			return err
		}
	}

	return nil
}

// DropItems frees every page and overflow id owned by this table. The
// ObjectStorage itself is left empty and ready for reuse, though
// callers normally discard it after dropping a table.
func (os *ObjectStorage) DropItems(ps *pagedstorage.PagedStorage) error {
	for _, id := range os.Pages {
		if err := ps.DeletePage(id); err != nil {
			return err
		}
	}
	os.Pages = nil

	for _, id := range os.OverflowPages {
		if err := ps.Storage().FreeID(id); err != nil {
			return err
		}
	}
	os.OverflowPages = nil

	return nil
}

// MessageIterator walks every row across every page owned by an
// ObjectStorage, in insertion order.
type MessageIterator struct {
	store       *ObjectStorage
	ps          *pagedstorage.PagedStorage
	pageIndex   int
	pageOffset  int
	pageObjSeen int
}

// Iter returns an iterator over every row currently stored.
func (os *ObjectStorage) Iter(ps *pagedstorage.PagedStorage) *MessageIterator {
	return &MessageIterator{store: os, ps: ps}
}

// Next returns the next row, or ok=false once every page is exhausted.
func (it *MessageIterator) Next() (dbtype.Message, bool, error) {
	if it.pageIndex >= len(it.store.Pages) {
		return dbtype.Message{}, false, nil
	}

	pageID := it.store.Pages[it.pageIndex]
	p, err := it.ps.Page(pageID)
	if err != nil {
		return dbtype.Message{}, false, err
	}

	message, n, err := decodeAndUnwrap(it.ps.Storage(), p.Data[it.pageOffset:])
	if err != nil {
		return dbtype.Message{}, false, err
	}

	it.pageOffset += n
	it.pageObjSeen++
	if it.pageObjSeen == p.Header.ObjCount {
		it.pageOffset = 0
		it.pageObjSeen = 0
		it.pageIndex++
	}

	dbmetrics.RowsScanned.WithLabelValues(it.store.Schema.Name).Inc()
	return message, true, nil
}
