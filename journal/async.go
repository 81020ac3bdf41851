package journal

import (
	"context"

	"github.com/dogmatiq/filejournal/future"
)

// AsyncStore performs [Store] operations in the background.
//
// Each method schedules the equivalent synchronous operation on the executor
// and returns a future that is resolved with its result. The semantics of each
// operation are identical to those of the [Store] method of the same name.
//
// Once scheduled, an operation always runs to completion; canceling ctx only
// affects scheduling.
type AsyncStore struct {
	Store *Store

	// Executor runs the operations. If it is nil, each operation is run on
	// its own goroutine.
	Executor Executor
}

// Read reads all records from the named journal.
func (s *AsyncStore) Read(ctx context.Context, name string) future.Future[[][]byte] {
	return dispatch(ctx, s.Executor, name, func(ctx context.Context) ([][]byte, error) {
		return s.Store.Read(ctx, name)
	})
}

// Commit applies a mutation to a journal.
//
// Tasks are keyed by m.Journal. The destination of any copy operation within m
// does not participate in the key.
func (s *AsyncStore) Commit(ctx context.Context, m Mutation) future.Future[struct{}] {
	return dispatch(ctx, s.Executor, m.Journal, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.Store.Commit(ctx, m)
	})
}

// Exists returns true if the named journal exists.
func (s *AsyncStore) Exists(ctx context.Context, name string) future.Future[bool] {
	return dispatch(ctx, s.Executor, name, func(ctx context.Context) (bool, error) {
		return s.Store.Exists(ctx, name)
	})
}

// Journals returns the names of all journals in the store.
func (s *AsyncStore) Journals(ctx context.Context) future.Future[[]string] {
	return dispatch(ctx, s.Executor, "", s.Store.Journals)
}

// DeleteAll deletes every journal in the store.
func (s *AsyncStore) DeleteAll(ctx context.Context) future.Future[struct{}] {
	return dispatch(ctx, s.Executor, "", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.Store.DeleteAll(ctx)
	})
}

func dispatch[T any](
	ctx context.Context,
	e Executor,
	key string,
	fn func(context.Context) (T, error),
) future.Future[T] {
	f, r := future.New[T]()

	task := func() {
		v, err := fn(context.WithoutCancel(ctx))
		if err != nil {
			r.Err(err)
		} else {
			r.Set(v)
		}
	}

	if e == nil {
		go task()
	} else if err := e.Execute(ctx, key, task); err != nil {
		r.Err(err)
	}

	return f
}
