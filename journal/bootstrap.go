package journal

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dogmatiq/filejournal/internal/telemetry"
)

// directory returns the path to the journal directory, ensuring that it exists.
//
// The first call resolves the directory using the directory provisioner and
// discards all existing journals if the persisted schema version does not
// match [SchemaVersion].
func (s *Store) directory(ctx context.Context, span *telemetry.Span) (string, error) {
	s.m.Lock()
	defer s.m.Unlock()

	if s.dir != "" {
		return s.dir, s.ensureDirectory(span)
	}

	dir, err := s.resolveDirectory(ctx)
	if err != nil {
		return "", err
	}

	if s.version != SchemaVersion {
		s.migrate(ctx, span, dir)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("unable to create journal directory: %w", err)
	}

	s.dir = dir

	span.Debug(
		"initialized journal directory",
		telemetry.String("directory", dir),
	)

	return dir, nil
}

// resolveDirectory returns the path of the journal directory.
func (s *Store) resolveDirectory(ctx context.Context) (string, error) {
	if s.subdir == "" {
		dir, err := s.dirs.Directory(ctx, DirectoryName)
		if err != nil {
			return "", fmt.Errorf("unable to provision journal directory: %w", err)
		}
		return dir, nil
	}

	parent, err := s.dirs.Directory(ctx, s.subdir)
	if err != nil {
		return "", fmt.Errorf("unable to provision %q directory: %w", s.subdir, err)
	}

	return filepath.Join(parent, DirectoryName), nil
}

// migrate discards all journals in dir and records the current schema
// version.
//
// Failures are logged but do not prevent the store from being used. If the
// journals can not be discarded the version is not updated, so the next store
// instance tries again.
func (s *Store) migrate(
	ctx context.Context,
	span *telemetry.Span,
	dir string,
) {
	span.Info(
		"journal schema version has changed, discarding all journals",
		telemetry.Int("persisted_version", s.version),
		telemetry.Int("expected_version", SchemaVersion),
	)

	n, err := removeDirectory(dir)
	if err != nil {
		span.Warn(
			"unable to discard journals",
			telemetry.String("error", err.Error()),
		)
		return
	}

	if err := s.versions.SaveVersion(ctx, SchemaVersion); err != nil {
		span.Warn(
			"unable to persist journal schema version",
			telemetry.String("error", err.Error()),
		)
		return
	}

	s.version = SchemaVersion

	span.Info(
		"discarded all journals",
		telemetry.Int("journal_count", n),
	)
}

// ensureDirectory recreates the journal directory if it has been removed.
func (s *Store) ensureDirectory(span *telemetry.Span) error {
	_, err := os.Stat(s.dir)
	if err == nil {
		return nil
	}

	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("unable to stat journal directory: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("unable to recreate journal directory: %w", err)
	}

	if s.removed {
		s.removed = false
		span.Debug(
			"recreated journal directory",
			telemetry.String("directory", s.dir),
		)
	} else {
		span.Warn(
			"journal directory was removed externally, recreated it",
			telemetry.String("directory", s.dir),
		)
	}

	return nil
}
