package filejournal

import (
	"context"
	"errors"

	"github.com/dogmatiq/filejournal/dirprovision"
	"github.com/dogmatiq/filejournal/internal/storeconfig"
	"github.com/dogmatiq/filejournal/journal"
)

// Store is a journal store opened by [Open].
//
// The embedded [journal.Store] performs each operation synchronously. Async
// performs the same operations in the background using the configured
// executor.
type Store struct {
	*journal.Store

	Async *journal.AsyncStore

	cfg storeconfig.Config
}

// Open returns a journal store configured by the given options.
//
// The store must be closed when it is no longer needed.
func Open(ctx context.Context, options ...Option) (*Store, error) {
	cfg, err := storeconfig.New(ctx, options)
	if err != nil {
		return nil, err
	}

	var storeOptions []journal.StoreOption

	if cfg.Subdirectory != "" {
		storeOptions = append(
			storeOptions,
			journal.WithSubdirectory(cfg.Subdirectory),
		)
	}

	storeOptions = append(
		storeOptions,
		journal.WithTelemetry(
			cfg.Telemetry.TracerProvider,
			cfg.Telemetry.MeterProvider,
			cfg.Telemetry.Logger,
		),
	)

	s, err := journal.NewStore(
		ctx,
		&dirprovision.Base{Path: cfg.BaseDirectory},
		cfg.Versions,
		storeOptions...,
	)
	if err != nil {
		return nil, errors.Join(err, cfg.Close())
	}

	return &Store{
		Store: s,
		Async: &journal.AsyncStore{
			Store:    s,
			Executor: cfg.Executor,
		},
		cfg: cfg,
	}, nil
}

// BaseDirectory returns the directory that contains the store's files.
func (s *Store) BaseDirectory() string {
	return s.cfg.BaseDirectory
}

// Close releases the resources held by the store, such as the connection to
// the version store.
func (s *Store) Close() error {
	return s.cfg.Close()
}
