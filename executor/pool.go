package executor

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/dogmatiq/filejournal/journal"
	"golang.org/x/sync/errgroup"
)

// DefaultQueueSize is the default number of tasks that may be queued for each
// worker in a [Pool].
const DefaultQueueSize = 16

// Pool is an executor that runs tasks on a fixed set of worker goroutines.
//
// Each task is assigned to a worker based on a hash of its key, so tasks that
// share a key are run one at a time, in the order they were submitted.
type Pool struct {
	// Workers is the number of worker goroutines. If it is non-positive,
	// runtime.GOMAXPROCS(0) is used.
	Workers int

	// QueueSize is the number of tasks that may be waiting for each worker
	// before Execute blocks. If it is non-positive, [DefaultQueueSize] is used.
	QueueSize int

	m        sync.RWMutex
	running  bool
	queues   []chan func()
	stopping chan struct{}
}

var _ journal.Executor = (*Pool)(nil)

// Run starts the workers and blocks until ctx is canceled.
//
// Tasks that have been accepted by Execute before Run returns are always run,
// even if their worker has already stopped.
func (p *Pool) Run(ctx context.Context) error {
	queues, stopping, err := p.start()
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	for _, q := range queues {
		q := q // capture loop variable
		g.Go(func() error {
			return work(ctx, q)
		})
	}

	err = g.Wait()

	// Unblock any callers waiting to enqueue a task, then wait for them to
	// return before draining the queues.
	close(stopping)

	p.m.Lock()
	p.running = false
	p.queues = nil
	p.m.Unlock()

	for _, q := range queues {
		drain(q)
	}

	return err
}

// Execute schedules fn to run on the worker assigned to key.
//
// It blocks if the worker's queue is full. It returns [ErrStopped] if the pool
// is not running.
func (p *Pool) Execute(ctx context.Context, key string, fn func()) error {
	p.m.RLock()
	defer p.m.RUnlock()

	if !p.running {
		return ErrStopped
	}

	q := p.queues[xxhash.Sum64String(key)%uint64(len(p.queues))]

	select {
	case q <- fn:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.stopping:
		return ErrStopped
	}
}

func (p *Pool) start() ([]chan func(), chan struct{}, error) {
	p.m.Lock()
	defer p.m.Unlock()

	if p.running {
		return nil, nil, errors.New("pool is already running")
	}

	workers := p.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	size := p.QueueSize
	if size <= 0 {
		size = DefaultQueueSize
	}

	p.queues = make([]chan func(), workers)
	for i := range p.queues {
		p.queues[i] = make(chan func(), size)
	}

	p.stopping = make(chan struct{})
	p.running = true

	return p.queues, p.stopping, nil
}

func work(ctx context.Context, q <-chan func()) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-q:
			fn()
		}
	}
}

func drain(q <-chan func()) {
	for {
		select {
		case fn := <-q:
			fn()
		default:
			return
		}
	}
}
