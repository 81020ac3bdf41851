// Package bolt provides a [journal.VersionStore] that persists the schema
// version in a bbolt database file.
package bolt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dogmatiq/filejournal/journal"
	"go.etcd.io/bbolt"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// VersionStore is an implementation of [journal.VersionStore] that keeps the
// version in a bbolt database.
//
// The version is stored as a protocol buffers Int64Value in the bucket named
// by Namespace, under Key.
type VersionStore struct {
	DB *bbolt.DB

	// Namespace is the name of the bucket that contains the version. If it is
	// empty, [journal.VersionNamespace] is used.
	Namespace string

	// Key is the key under which the version is stored. If it is empty,
	// [journal.VersionKey] is used.
	Key string
}

var _ journal.VersionStore = (*VersionStore)(nil)

// Open opens (or creates) the bbolt database file at the given path.
//
// The caller is responsible for closing the database.
func Open(path string) (*bbolt.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}

	return bbolt.Open(
		path,
		0o600,
		&bbolt.Options{Timeout: 1 * time.Second},
	)
}

// LoadVersion returns the persisted version.
func (s *VersionStore) LoadVersion(ctx context.Context) (int, error) {
	var v wrapperspb.Int64Value

	err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.namespace())
		if b == nil {
			return nil
		}

		data := b.Get(s.key())
		if data == nil {
			return nil
		}

		return proto.Unmarshal(data, &v)
	})
	if err != nil {
		return 0, fmt.Errorf("unable to load version: %w", err)
	}

	return int(v.GetValue()), ctx.Err()
}

// SaveVersion persists the version.
func (s *VersionStore) SaveVersion(ctx context.Context, v int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := proto.Marshal(wrapperspb.Int64(int64(v)))
	if err != nil {
		return err
	}

	if err := s.DB.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(s.namespace())
		if err != nil {
			return err
		}
		return b.Put(s.key(), data)
	}); err != nil {
		return fmt.Errorf("unable to save version: %w", err)
	}

	return nil
}

func (s *VersionStore) namespace() []byte {
	if s.Namespace == "" {
		return []byte(journal.VersionNamespace)
	}
	return []byte(s.Namespace)
}

func (s *VersionStore) key() []byte {
	if s.Key == "" {
		return []byte(journal.VersionKey)
	}
	return []byte(s.Key)
}
