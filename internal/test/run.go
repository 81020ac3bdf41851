package test

import (
	"context"
	"errors"
	"testing"
	"time"
)

// RunInBackground executes fn in its own goroutine until the test ends.
//
// It fails the test if fn returns an error other than [context.Canceled], or if
// fn does not return promptly once the test ends.
func RunInBackground(
	t *testing.T,
	fn func(ctx context.Context) error,
) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- fn(ctx)
	}()

	t.Cleanup(func() {
		t.Helper()

		cancel()

		select {
		case err := <-done:
			if err != nil && !errors.Is(err, context.Canceled) {
				t.Errorf("background task returned an unexpected error: %s", err)
			}
		case <-time.After(shutdownTimeout):
			t.Errorf("background task's context was canceled but it did not return within %s", shutdownTimeout)
		}
	})
}

const shutdownTimeout = 10 * time.Second
