// Package blobstore implements the opaque id→bytes persistent map that
// spec.md §1 treats as an external collaborator: append-batch writes,
// single-key reads, deletion via absent value, and background
// compaction. Everything above this package — the page allocator, the
// buffer pool, the object store — only ever sees ids and byte slices;
// none of bbolt's own page format leaks upward.
//
// Backed by go.etcd.io/bbolt, the embedded B+Tree the teacher codebase
// already uses for its own cluster-state persistence.
package blobstore

import (
	"fmt"
	"os"

	bolt "go.etcd.io/bbolt"

	"github.com/cuemby/dbuf/internal/page"
)

var bucketName = []byte("objects")

// Entry is one write in a batch. A nil Value tombstones the id.
type Entry struct {
	ID    page.ID
	Value []byte
}

// Store is the blob store's interface to the rest of the system.
type Store interface {
	// Read returns the bytes stored at id, or found=false if absent
	// or tombstoned.
	Read(id page.ID) (data []byte, found bool, err error)
	// WriteBatch applies every entry atomically. A nil Value deletes
	// the id.
	WriteBatch(entries []Entry) error
	// Maintenance runs the store's compactor and returns the number
	// of objects it rewrote.
	Maintenance() (int, error)
	Close() error
}

// BoltStore is the bbolt-backed Store implementation.
type BoltStore struct {
	db   *bolt.DB
	path string
}

// Open opens (or creates) a blob store rooted at a single file inside
// dir.
func Open(dir string) (*BoltStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	path := dir + "/dbuf.blob"
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("open blob store: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create objects bucket: %w", err)
	}

	return &BoltStore{db: db, path: path}, nil
}

func idKey(id page.ID) []byte {
	key := make([]byte, 8)
	for i := 0; i < 8; i++ {
		key[7-i] = byte(id >> (8 * i))
	}
	return key
}

func (s *BoltStore) Read(id page.ID) ([]byte, bool, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		v := b.Get(idKey(id))
		if v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return data, data != nil, nil
}

func (s *BoltStore) WriteBatch(entries []Entry) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		for _, e := range entries {
			key := idKey(e.ID)
			if e.Value == nil {
				if err := b.Delete(key); err != nil {
					return err
				}
				continue
			}
			if err := b.Put(key, e.Value); err != nil {
				return err
			}
		}
		return nil
	})
}

// Maintenance rewrites the backing file into a fresh one containing
// only live keys, then swaps it in. bbolt never shrinks its file on
// delete, so this is what reclaims space freed by tombstoned pages
// and overflow rows.
func (s *BoltStore) Maintenance() (int, error) {
	compactPath := s.path + ".compact"
	_ = os.Remove(compactPath)

	dst, err := bolt.Open(compactPath, 0o600, nil)
	if err != nil {
		return 0, fmt.Errorf("open compaction target: %w", err)
	}

	count := 0
	err = s.db.View(func(srcTx *bolt.Tx) error {
		return dst.Update(func(dstTx *bolt.Tx) error {
			dstBucket, err := dstTx.CreateBucketIfNotExists(bucketName)
			if err != nil {
				return err
			}
			srcBucket := srcTx.Bucket(bucketName)
			return srcBucket.ForEach(func(k, v []byte) error {
				count++
				return dstBucket.Put(append([]byte(nil), k...), append([]byte(nil), v...))
			})
		})
	})
	if err != nil {
		_ = dst.Close()
		_ = os.Remove(compactPath)
		return 0, fmt.Errorf("compact: %w", err)
	}
	if err := dst.Close(); err != nil {
		return 0, fmt.Errorf("close compaction target: %w", err)
	}

	if err := s.db.Close(); err != nil {
		return 0, fmt.Errorf("close current store: %w", err)
	}
	if err := os.Rename(compactPath, s.path); err != nil {
		return 0, fmt.Errorf("swap compacted store: %w", err)
	}

	reopened, err := bolt.Open(s.path, 0o600, nil)
	if err != nil {
		return 0, fmt.Errorf("reopen compacted store: %w", err)
	}
	s.db = reopened

	return count, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
