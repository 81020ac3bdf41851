package storeconfig

import (
	"context"
	"errors"

	"github.com/dogmatiq/ferrite"
	"github.com/dogmatiq/filejournal/internal/telemetry"
	"github.com/dogmatiq/filejournal/journal"
)

// FerriteRegistry is a registry of the environment variables used by
// filejournal.
var FerriteRegistry = ferrite.NewRegistry(
	"dogmatiq.filejournal",
	"filejournal",
	ferrite.WithDocumentationURL("https://github.com/dogmatiq/filejournal#readme"),
)

// Config encapsulates the configuration of a journal store, built by applying
// option functions.
type Config struct {
	UseEnv        bool
	BaseDirectory string
	Subdirectory  string
	Telemetry     *telemetry.Provider
	Versions      journal.VersionStore
	VersionDSN    string
	Executor      journal.Executor

	// Closers are called, in reverse order, when the store is closed. They
	// release resources opened while finalizing the configuration.
	Closers []func() error
}

// New returns a new configuration built by applying the given options.
//
// Any values that are not set explicitly are populated from the environment
// (if c.UseEnv is set), or from defaults.
func New[Option ~func(*Config)](
	ctx context.Context,
	options []Option,
) (Config, error) {
	c := Config{
		Telemetry: &telemetry.Provider{},
	}

	for _, opt := range options {
		opt(&c)
	}

	if err := c.finalize(ctx); err != nil {
		return Config{}, errors.Join(err, c.Close())
	}

	return c, nil
}

func (c *Config) finalize(ctx context.Context) error {
	c.finalizeTelemetry()

	if err := c.finalizeDirectories(); err != nil {
		return err
	}

	if err := c.finalizeVersions(ctx); err != nil {
		return err
	}

	c.finalizeExecutor()

	return nil
}

// Close releases any resources opened while finalizing the configuration.
func (c *Config) Close() error {
	var errs []error

	for i := len(c.Closers) - 1; i >= 0; i-- {
		if err := c.Closers[i](); err != nil {
			errs = append(errs, err)
		}
	}

	c.Closers = nil

	return errors.Join(errs...)
}
