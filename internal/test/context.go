package test

import (
	"context"
	"time"
)

// ContextWithTimeout returns a context that is canceled when the test completes
// or the timeout elapses, whichever comes first.
func ContextWithTimeout(
	t TestingT,
	timeout time.Duration,
) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)

	return ctx
}
