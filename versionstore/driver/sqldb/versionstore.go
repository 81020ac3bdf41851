// Package sqldb provides a [journal.VersionStore] that persists the schema
// version in an SQL database.
//
// The queries are compatible with PostgreSQL and SQLite.
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dogmatiq/filejournal/journal"
)

// VersionStore is an implementation of [journal.VersionStore] that keeps the
// version in an SQL database.
//
// The table must first be created using [CreateSchema].
type VersionStore struct {
	DB *sql.DB

	// Namespace is the namespace in which the version is stored. If it is
	// empty, [journal.VersionNamespace] is used.
	Namespace string

	// Key is the key under which the version is stored. If it is empty,
	// [journal.VersionKey] is used.
	Key string
}

var _ journal.VersionStore = (*VersionStore)(nil)

// LoadVersion returns the persisted version.
func (s *VersionStore) LoadVersion(ctx context.Context) (int, error) {
	row := s.DB.QueryRowContext(
		ctx,
		`SELECT
			version
		FROM filejournal_version
		WHERE namespace = $1
		AND key = $2`,
		s.namespace(),
		s.key(),
	)

	var v int64
	if err := row.Scan(&v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("unable to load version: %w", err)
	}

	return int(v), nil
}

// SaveVersion persists the version.
func (s *VersionStore) SaveVersion(ctx context.Context, v int) error {
	if _, err := s.DB.ExecContext(
		ctx,
		`INSERT INTO filejournal_version (
			namespace,
			key,
			version
		) VALUES (
			$1, $2, $3
		) ON CONFLICT (namespace, key) DO UPDATE SET
			version = excluded.version`,
		s.namespace(),
		s.key(),
		int64(v),
	); err != nil {
		return fmt.Errorf("unable to save version: %w", err)
	}

	return nil
}

func (s *VersionStore) namespace() string {
	if s.Namespace == "" {
		return journal.VersionNamespace
	}
	return s.Namespace
}

func (s *VersionStore) key() string {
	if s.Key == "" {
		return journal.VersionKey
	}
	return s.Key
}

// CreateSchema creates the table required by [VersionStore].
func CreateSchema(
	ctx context.Context,
	db *sql.DB,
) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() // nolint:errcheck

	if _, err := tx.ExecContext(
		ctx,
		`CREATE TABLE IF NOT EXISTS filejournal_version (
			namespace TEXT NOT NULL,
			key       TEXT NOT NULL,
			version   BIGINT NOT NULL,

			PRIMARY KEY (namespace, key)
		)`,
	); err != nil {
		return err
	}

	return tx.Commit()
}
