package storeconfig_test

import (
	"context"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/dogmatiq/filejournal/executor"
	. "github.com/dogmatiq/filejournal/internal/storeconfig"
	"github.com/dogmatiq/filejournal/journal"
	"github.com/dogmatiq/filejournal/versionstore/driver/bolt"
	"github.com/dogmatiq/filejournal/versionstore/driver/memory"
	"github.com/dogmatiq/filejournal/versionstore/driver/sqldb"
)

type option func(*Config)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("it uses a bolt version store within the base directory by default", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()

		cfg, err := New(
			context.Background(),
			[]option{
				func(c *Config) { c.BaseDirectory = base },
			},
		)
		if err != nil {
			t.Fatal(err)
		}
		defer cfg.Close()

		s, ok := cfg.Versions.(*bolt.VersionStore)
		if !ok {
			t.Fatalf("unexpected version store type: %T", cfg.Versions)
		}

		if want := filepath.Join(base, DefaultVersionFile); s.DB.Path() != want {
			t.Fatalf("unexpected version store path: got %q, want %q", s.DB.Path(), want)
		}
	})

	t.Run("it uses the explicit version store", func(t *testing.T) {
		t.Parallel()

		v := &memory.VersionStore{}

		cfg, err := New(
			context.Background(),
			[]option{
				func(c *Config) {
					c.BaseDirectory = t.TempDir()
					c.Versions = v
				},
			},
		)
		if err != nil {
			t.Fatal(err)
		}
		defer cfg.Close()

		if cfg.Versions != v {
			t.Fatal("expected explicit version store to be used")
		}
	})

	t.Run("it uses the version store described by the DSN", func(t *testing.T) {
		t.Parallel()

		cfg, err := New(
			context.Background(),
			[]option{
				func(c *Config) {
					c.BaseDirectory = t.TempDir()
					c.VersionDSN = "memory:"
				},
			},
		)
		if err != nil {
			t.Fatal(err)
		}
		defer cfg.Close()

		if _, ok := cfg.Versions.(*memory.VersionStore); !ok {
			t.Fatalf("unexpected version store type: %T", cfg.Versions)
		}
	})

	t.Run("it populates defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := New(
			context.Background(),
			[]option{
				func(c *Config) {
					c.BaseDirectory = t.TempDir()
					c.Versions = &memory.VersionStore{}
				},
			},
		)
		if err != nil {
			t.Fatal(err)
		}
		defer cfg.Close()

		if _, ok := cfg.Executor.(executor.Goroutines); !ok {
			t.Fatalf("unexpected executor type: %T", cfg.Executor)
		}

		if cfg.Telemetry.TracerProvider == nil {
			t.Fatal("expected a tracer provider")
		}

		if cfg.Telemetry.MeterProvider == nil {
			t.Fatal("expected a meter provider")
		}

		if cfg.Telemetry.Logger == nil {
			t.Fatal("expected a logger")
		}
	})

	t.Run("it returns an error if the subdirectory is not a single path element", func(t *testing.T) {
		t.Parallel()

		for _, dir := range []string{"a/b", ".", ".."} {
			_, err := New(
				context.Background(),
				[]option{
					func(c *Config) {
						c.BaseDirectory = t.TempDir()
						c.Subdirectory = dir
						c.Versions = &memory.VersionStore{}
					},
				},
			)
			if err == nil {
				t.Fatalf("expected an error for %q", dir)
			}
		}
	})

	t.Run("it returns an error if the DSN is not supported", func(t *testing.T) {
		t.Parallel()

		_, err := New(
			context.Background(),
			[]option{
				func(c *Config) {
					c.BaseDirectory = t.TempDir()
					c.VersionDSN = "<unsupported>://"
				},
			},
		)
		if err == nil {
			t.Fatal("expected an error")
		}
	})
}

func TestVersionStoreFromDSN(t *testing.T) {
	t.Parallel()

	t.Run("it supports bolt", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "versions.db")
		dsn := &url.URL{
			Scheme:   "bolt",
			Path:     path,
			RawQuery: "namespace=%3Cnamespace%3E&key=%3Ckey%3E",
		}

		v, closer, err := VersionStoreFromDSN(context.Background(), dsn)
		if err != nil {
			t.Fatal(err)
		}
		defer closer()

		s, ok := v.(*bolt.VersionStore)
		if !ok {
			t.Fatalf("unexpected version store type: %T", v)
		}

		if s.DB.Path() != path {
			t.Fatalf("unexpected path: got %q, want %q", s.DB.Path(), path)
		}

		if s.Namespace != "<namespace>" || s.Key != "<key>" {
			t.Fatalf("unexpected location: %q/%q", s.Namespace, s.Key)
		}

		roundTrip(t, v)
	})

	t.Run("it supports sqlite", func(t *testing.T) {
		t.Parallel()

		dsn := &url.URL{
			Scheme: "sqlite",
			Path:   filepath.Join(t.TempDir(), "versions.db"),
		}

		v, closer, err := VersionStoreFromDSN(context.Background(), dsn)
		if err != nil {
			t.Fatal(err)
		}
		defer closer()

		if _, ok := v.(*sqldb.VersionStore); !ok {
			t.Fatalf("unexpected version store type: %T", v)
		}

		roundTrip(t, v)
	})

	t.Run("it supports memory", func(t *testing.T) {
		t.Parallel()

		dsn, err := url.Parse("memory:")
		if err != nil {
			t.Fatal(err)
		}

		v, closer, err := VersionStoreFromDSN(context.Background(), dsn)
		if err != nil {
			t.Fatal(err)
		}

		if closer != nil {
			t.Fatal("did not expect a closer")
		}

		roundTrip(t, v)
	})

	t.Run("it returns an error if the dynamodb table is not specified", func(t *testing.T) {
		t.Parallel()

		dsn, err := url.Parse("dynamodb:///")
		if err != nil {
			t.Fatal(err)
		}

		if _, _, err := VersionStoreFromDSN(context.Background(), dsn); err == nil {
			t.Fatal("expected an error")
		}
	})
}

func roundTrip(t *testing.T, v journal.VersionStore) {
	t.Helper()

	ctx := context.Background()

	if err := v.SaveVersion(ctx, journal.SchemaVersion); err != nil {
		t.Fatal(err)
	}

	got, err := v.LoadVersion(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if got != journal.SchemaVersion {
		t.Fatalf("unexpected version: got %d, want %d", got, journal.SchemaVersion)
	}
}
