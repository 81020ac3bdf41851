// Package executor provides implementations of [journal.Executor].
package executor

import (
	"context"
	"errors"

	"github.com/dogmatiq/filejournal/journal"
)

// ErrStopped is returned when a task is submitted to an executor that is not
// running.
var ErrStopped = errors.New("executor is not running")

// Goroutines is an executor that runs each task on its own goroutine.
type Goroutines struct{}

var _ journal.Executor = Goroutines{}

// Execute runs fn on a new goroutine.
func (Goroutines) Execute(ctx context.Context, _ string, fn func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	go fn()

	return nil
}
