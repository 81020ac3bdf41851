package journal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/dogmatiq/filejournal/internal/telemetry"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	readIO  = telemetry.ReadIO.Option()
	writeIO = telemetry.WriteIO.Option()

	readOperation      = telemetry.ReadIO.Operation("read")
	commitOperation    = telemetry.WriteIO.Operation("commit")
	existsOperation    = telemetry.ReadIO.Operation("exists")
	listOperation      = telemetry.ReadIO.Operation("list")
	deleteAllOperation = telemetry.WriteIO.Operation("delete_all")
)

// Store is a collection of journals kept in a single directory.
//
// Store does not serialize operations on the same journal; callers that may
// mutate a journal concurrently must coordinate amongst themselves, for example
// by using an [AsyncStore] with a partitioned [Executor].
type Store struct {
	dirs      DirectoryProvisioner
	versions  VersionStore
	subdir    string
	telemetry *telemetry.Recorder

	operations metric.Int64Counter
	recordIO   metric.Int64Counter
	dataIO     metric.Int64Counter
	recordSize metric.Int64Histogram

	// m guards the bootstrapping of the journal directory.
	m       sync.Mutex
	dir     string
	version int
	removed bool
}

// StoreOption is an option that changes the behavior of a [Store].
type StoreOption func(*storeOptions)

type storeOptions struct {
	Subdirectory string
	Telemetry    telemetry.Provider
}

// WithSubdirectory is a [StoreOption] that nests the journal directory within
// a subdirectory with the given name.
func WithSubdirectory(name string) StoreOption {
	return func(o *storeOptions) {
		o.Subdirectory = name
	}
}

// WithTelemetry is a [StoreOption] that sets the OpenTelemetry providers and
// logger used by the store.
//
// Any of the arguments may be nil, in which case a no-op provider (or the
// default logger) is used.
func WithTelemetry(
	tp trace.TracerProvider,
	mp metric.MeterProvider,
	logger *slog.Logger,
) StoreOption {
	return func(o *storeOptions) {
		o.Telemetry.TracerProvider = tp
		o.Telemetry.MeterProvider = mp
		o.Telemetry.Logger = logger
	}
}

// NewStore returns a new store that keeps its journals in a directory
// allocated by dirs.
//
// The persisted schema version is loaded from versions immediately. The
// journal directory itself is not touched until the first operation.
func NewStore(
	ctx context.Context,
	dirs DirectoryProvisioner,
	versions VersionStore,
	options ...StoreOption,
) (*Store, error) {
	var opts storeOptions
	for _, opt := range options {
		opt(&opts)
	}

	v, err := versions.LoadVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load journal schema version: %w", err)
	}

	r := opts.Telemetry.Recorder(
		"github.com/dogmatiq/filejournal/journal",
		"journal",
		telemetry.Type("directory_provisioner", dirs),
		telemetry.Type("version_store", versions),
		telemetry.String("handle", telemetry.HandleID()),
		telemetry.If(opts.Subdirectory != "", telemetry.String("subdirectory", opts.Subdirectory)),
	)

	return &Store{
		dirs:      dirs,
		versions:  versions,
		subdir:    opts.Subdirectory,
		telemetry: r,
		version:   v,

		operations: r.Int64Counter(
			"operations",
			metric.WithDescription("The number of operations that have been performed."),
			metric.WithUnit("{operation}"),
		),
		recordIO: r.Int64Counter(
			"record.io",
			metric.WithDescription("The number of journal records that have been read and written."),
			metric.WithUnit("{record}"),
		),
		dataIO: r.Int64Counter(
			"io",
			metric.WithDescription("The cumulative size of the journal records that have been read and written."),
			metric.WithUnit("By"),
		),
		recordSize: r.Int64Histogram(
			"record.size",
			metric.WithDescription("The sizes of the journal records that have been read and written."),
			metric.WithUnit("By"),
		),
	}, nil
}

// Read returns all of the records in the named journal, in the order they
// were appended.
//
// It returns an empty slice if the journal does not exist.
func (s *Store) Read(ctx context.Context, name string) ([][]byte, error) {
	ctx, span := s.telemetry.StartSpan(
		ctx,
		"journal.read",
		telemetry.String("journal", name),
	)
	defer span.End()

	s.operations.Add(ctx, 1, readOperation)

	dir, err := s.directory(ctx, span)
	if err != nil {
		span.Error("could not initialize journal directory", err)
		return nil, err
	}

	filename, err := s.filename(name)
	if err != nil {
		span.Error("could not read journal", err)
		return nil, err
	}

	f, err := os.Open(filepath.Join(dir, filename))
	if errors.Is(err, fs.ErrNotExist) {
		span.Debug("journal does not exist")
		return nil, nil
	}
	if err != nil {
		err = fmt.Errorf("unable to open %q journal: %w", name, err)
		span.Error("could not read journal", err)
		return nil, err
	}
	defer f.Close()

	records, err := ReadRecords(f)
	if err != nil {
		var corrupt *CorruptJournalError
		if errors.As(err, &corrupt) {
			corrupt.Journal = name
		} else {
			err = fmt.Errorf("unable to read %q journal: %w", name, err)
		}

		span.Error("could not read journal", err)
		return nil, err
	}

	var size int64
	for _, rec := range records {
		n := int64(len(rec))
		size += n
		s.recordSize.Record(ctx, n, readIO)
	}

	s.recordIO.Add(ctx, int64(len(records)), readIO)
	s.dataIO.Add(ctx, size, readIO)

	span.SetAttributes(
		telemetry.Int("record_count", len(records)),
		telemetry.Int("journal_size", size),
	)
	span.Debug("read journal")

	return records, nil
}

// Commit applies a mutation to a journal.
//
// The operations within m are applied in order. If an operation fails, the
// remaining operations are skipped and the error is returned. Operations that
// were already applied are not rolled back. Operations of an unrecognized type
// are logged and skipped.
func (s *Store) Commit(ctx context.Context, m Mutation) error {
	ctx, span := s.telemetry.StartSpan(
		ctx,
		"journal.commit",
		telemetry.String("journal", m.Journal),
		telemetry.Int("operation_count", len(m.Operations)),
	)
	defer span.End()

	s.operations.Add(ctx, 1, commitOperation)

	dir, err := s.directory(ctx, span)
	if err != nil {
		span.Error("could not initialize journal directory", err)
		return err
	}

	filename, err := s.filename(m.Journal)
	if err != nil {
		span.Error("could not commit mutation", err)
		return err
	}

	for i, op := range m.Operations {
		var err error

		switch op.Type {
		case AppendOperation:
			err = s.append(ctx, span, dir, m.Journal, filename, op.Record)
		case CopyOperation:
			err = s.copy(span, dir, m.Journal, filename, op.Destination)
		case DeleteOperation:
			err = s.delete(span, dir, m.Journal, filename)
		default:
			span.Warn(
				"skipping unrecognized operation",
				telemetry.Int("operation_index", i),
				telemetry.Stringer("operation_type", op.Type),
			)
			continue
		}

		if err != nil {
			span.Error(
				"could not commit mutation",
				err,
				telemetry.Int("operation_index", i),
				telemetry.Stringer("operation_type", op.Type),
			)
			return err
		}
	}

	span.Debug("committed mutation")

	return nil
}

func (s *Store) append(
	ctx context.Context,
	span *telemetry.Span,
	dir, name, filename string,
	rec []byte,
) error {
	f, err := os.OpenFile(
		filepath.Join(dir, filename),
		os.O_WRONLY|os.O_CREATE|os.O_APPEND,
		0o600,
	)
	if err != nil {
		return fmt.Errorf("unable to open %q journal for appending: %w", name, err)
	}

	err = AppendRecord(f, rec)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("unable to append to %q journal: %w", name, err)
	}

	size := int64(len(rec))
	s.recordIO.Add(ctx, 1, writeIO)
	s.dataIO.Add(ctx, size, writeIO)
	s.recordSize.Record(ctx, size, writeIO)

	span.Debug(
		"appended record",
		telemetry.Int("record_size", size),
		telemetry.Binary("record", rec),
	)

	return nil
}

func (s *Store) copy(
	span *telemetry.Span,
	dir, name, filename, destination string,
) error {
	target, err := s.filename(destination)
	if err != nil {
		return err
	}

	src, err := os.Open(filepath.Join(dir, filename))
	if errors.Is(err, fs.ErrNotExist) {
		span.Warn(
			"copy source journal does not exist, creating an empty journal",
			telemetry.String("destination", destination),
		)

		src, err = os.OpenFile(
			filepath.Join(dir, filename),
			os.O_RDONLY|os.O_CREATE,
			0o600,
		)
	}
	if err != nil {
		return fmt.Errorf("unable to open %q journal for copying: %w", name, err)
	}
	defer src.Close()

	if target == filename {
		span.Debug(
			"journal is already at copy destination",
			telemetry.String("destination", destination),
		)
		return nil
	}

	dst, err := os.OpenFile(
		filepath.Join(dir, target),
		os.O_WRONLY|os.O_CREATE|os.O_TRUNC,
		0o600,
	)
	if err != nil {
		return fmt.Errorf("unable to open %q journal as copy destination: %w", destination, err)
	}

	n, err := io.Copy(dst, src)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("unable to copy %q journal to %q: %w", name, destination, err)
	}

	span.Debug(
		"copied journal",
		telemetry.String("destination", destination),
		telemetry.Int("journal_size", n),
	)

	return nil
}

func (s *Store) delete(
	span *telemetry.Span,
	dir, name, filename string,
) error {
	err := os.Remove(filepath.Join(dir, filename))

	if errors.Is(err, fs.ErrNotExist) {
		span.Debug("journal to be deleted does not exist")
		return nil
	}

	if err != nil {
		return fmt.Errorf("unable to delete %q journal: %w", name, err)
	}

	span.Debug("deleted journal")

	return nil
}

// Exists returns true if the named journal exists.
//
// It returns an error if the journal file can not be inspected for any reason
// other than it not existing.
func (s *Store) Exists(ctx context.Context, name string) (bool, error) {
	ctx, span := s.telemetry.StartSpan(
		ctx,
		"journal.exists",
		telemetry.String("journal", name),
	)
	defer span.End()

	s.operations.Add(ctx, 1, existsOperation)

	dir, err := s.directory(ctx, span)
	if err != nil {
		span.Error("could not initialize journal directory", err)
		return false, err
	}

	filename, err := s.filename(name)
	if err != nil {
		span.Error("could not check for journal", err)
		return false, err
	}

	_, err = os.Stat(filepath.Join(dir, filename))

	if err == nil {
		span.SetAttributes(telemetry.Bool("journal_exists", true))
		span.Debug("journal exists")
		return true, nil
	}

	if !errors.Is(err, fs.ErrNotExist) {
		err = fmt.Errorf("unable to stat %q journal: %w", name, err)
		span.Error("could not check for journal", err)
		return false, err
	}

	span.SetAttributes(telemetry.Bool("journal_exists", false))
	span.Debug("journal does not exist")

	return false, nil
}

// Journals returns the names of all journals in the store.
//
// The order of the names is unspecified.
func (s *Store) Journals(ctx context.Context) ([]string, error) {
	ctx, span := s.telemetry.StartSpan(ctx, "journal.list")
	defer span.End()

	s.operations.Add(ctx, 1, listOperation)

	dir, err := s.directory(ctx, span)
	if err != nil {
		span.Error("could not initialize journal directory", err)
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		err = fmt.Errorf("unable to list journals: %w", err)
		span.Error("could not list journals", err)
		return nil, err
	}

	names := make([]string, 0, len(entries))

	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		name := Desanitize(e.Name())
		if name == "" {
			span.Warn(
				"ignoring file that does not contain a valid journal name",
				telemetry.String("filename", e.Name()),
			)
			continue
		}

		names = append(names, name)
	}

	span.SetAttributes(
		telemetry.Int("journal_count", len(names)),
	)
	span.Debug("listed journals")

	return names, nil
}

// DeleteAll deletes every journal in the store, along with the journal
// directory itself.
//
// The directory is recreated by the next operation that requires it. Removal
// of every file is attempted even if some removals fail.
func (s *Store) DeleteAll(ctx context.Context) error {
	ctx, span := s.telemetry.StartSpan(ctx, "journal.delete_all")
	defer span.End()

	s.operations.Add(ctx, 1, deleteAllOperation)

	dir, err := s.directory(ctx, span)
	if err != nil {
		span.Error("could not initialize journal directory", err)
		return err
	}

	s.m.Lock()
	defer s.m.Unlock()

	n, err := removeDirectory(dir)
	s.removed = true

	span.SetAttributes(
		telemetry.Int("journal_count", n),
	)

	if err != nil {
		err = fmt.Errorf("unable to delete all journals: %w", err)
		span.Error("could not delete all journals", err)
		return err
	}

	span.Debug("deleted all journals")

	return nil
}

// filename returns the name of the file used to store the named journal.
func (s *Store) filename(name string) (string, error) {
	if f := Sanitize(name); f != "" {
		return f, nil
	}
	return "", InvalidNameError{name}
}

// removeDirectory removes every file in dir, then dir itself. It returns the
// number of files that were removed.
func removeDirectory(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var (
		errs    []error
		removed int
	)

	for _, e := range entries {
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			errs = append(errs, err)
		} else {
			removed++
		}
	}

	if err := os.Remove(dir); err != nil && !errors.Is(err, fs.ErrNotExist) {
		errs = append(errs, err)
	}

	return removed, errors.Join(errs...)
}
