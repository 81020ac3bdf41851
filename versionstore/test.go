package versionstore

import (
	"context"
	"testing"
	"time"

	"github.com/dogmatiq/filejournal/journal"
)

// RunTests runs tests that confirm a version store implementation behaves
// correctly.
//
// newStore must return a store that has never had a version saved.
func RunTests(
	t *testing.T,
	newStore func(t *testing.T) journal.VersionStore,
) {
	t.Run("func LoadVersion()", func(t *testing.T) {
		t.Run("it returns zero if no version has been saved", func(t *testing.T) {
			ctx, s := setup(t, newStore)

			v, err := s.LoadVersion(ctx)
			if err != nil {
				t.Fatal(err)
			}

			if v != 0 {
				t.Fatalf("unexpected version: got %d, want 0", v)
			}
		})

		t.Run("it returns the most recently saved version", func(t *testing.T) {
			ctx, s := setup(t, newStore)

			for _, want := range []int{journal.SchemaVersion, 7, 3} {
				if err := s.SaveVersion(ctx, want); err != nil {
					t.Fatal(err)
				}

				got, err := s.LoadVersion(ctx)
				if err != nil {
					t.Fatal(err)
				}

				if got != want {
					t.Fatalf("unexpected version: got %d, want %d", got, want)
				}
			}
		})
	})

	t.Run("func SaveVersion()", func(t *testing.T) {
		t.Run("it can save the zero version", func(t *testing.T) {
			ctx, s := setup(t, newStore)

			if err := s.SaveVersion(ctx, 5); err != nil {
				t.Fatal(err)
			}

			if err := s.SaveVersion(ctx, 0); err != nil {
				t.Fatal(err)
			}

			v, err := s.LoadVersion(ctx)
			if err != nil {
				t.Fatal(err)
			}

			if v != 0 {
				t.Fatalf("unexpected version: got %d, want 0", v)
			}
		})
	})
}

func setup(
	t *testing.T,
	newStore func(t *testing.T) journal.VersionStore,
) (context.Context, journal.VersionStore) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)

	return ctx, newStore(t)
}
