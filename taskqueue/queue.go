// Package taskqueue runs jobs on a fixed pool of goroutines.
package taskqueue

import (
	"fmt"
	"sync"
)

type WorkerFunc[T any] func(T)

type job[T any] struct {
	run  WorkerFunc[T]
	item T
}

// Queue feeds items to workerCount goroutines through a buffered channel.
// Submit blocks while the buffer is full; Enqueue never does.
type Queue[T any] struct {
	jobs   chan job[T]
	wg     sync.WaitGroup
	worker WorkerFunc[T]

	mu      sync.Mutex
	backlog []job[T]
	feeding bool
	closed  bool

	// OnPanic, when set, receives values recovered from a panicking job.
	OnPanic func(any)
}

func New[T any](workerCount, queueSize int, worker WorkerFunc[T]) (*Queue[T], error) {
	if worker == nil {
		return nil, fmt.Errorf("taskqueue: worker cannot be nil")
	}
	if workerCount <= 0 {
		return nil, fmt.Errorf("taskqueue: worker count must be at least 1, got %d", workerCount)
	}
	if queueSize < 0 {
		queueSize = 0
	}

	q := &Queue[T]{
		jobs:   make(chan job[T], queueSize),
		worker: worker,
	}
	for n := 0; n < workerCount; n++ {
		go func() {
			for j := range q.jobs {
				q.run(j)
			}
		}()
	}
	return q, nil
}

func (q *Queue[T]) run(j job[T]) {
	defer q.wg.Done()
	defer func() {
		if r := recover(); r != nil && q.OnPanic != nil {
			q.OnPanic(r)
		}
	}()
	j.run(j.item)
}

// Submit hands item to the default worker.
func (q *Queue[T]) Submit(item T) {
	q.wg.Add(1)
	q.jobs <- job[T]{run: q.worker, item: item}
}

// SubmitJob runs fn instead of the default worker for this item.
func (q *Queue[T]) SubmitJob(item T, fn WorkerFunc[T]) {
	q.wg.Add(1)
	q.jobs <- job[T]{run: fn, item: item}
}

// Enqueue hands item to the default worker without blocking. Items that do
// not fit in the buffer wait in an unbounded backlog, in order. It reports
// false once the queue is closed.
func (q *Queue[T]) Enqueue(item T) bool {
	j := job[T]{run: q.worker, item: item}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.wg.Add(1)
	if !q.feeding {
		select {
		case q.jobs <- j:
			return true
		default:
		}
		q.feeding = true
		go q.feed()
	}
	q.backlog = append(q.backlog, j)
	return true
}

// Backlog returns the number of items waiting for buffer space.
func (q *Queue[T]) Backlog() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.backlog)
}

func (q *Queue[T]) feed() {
	for {
		q.mu.Lock()
		if len(q.backlog) == 0 {
			q.feeding = false
			if q.closed {
				close(q.jobs)
			}
			q.mu.Unlock()
			return
		}
		j := q.backlog[0]
		q.mu.Unlock()

		q.jobs <- j

		q.mu.Lock()
		q.backlog[0] = job[T]{}
		q.backlog = q.backlog[1:]
		q.mu.Unlock()
	}
}

// Wait blocks until every submitted job has returned.
func (q *Queue[T]) Wait() {
	q.wg.Wait()
}

// Close stops the workers once the buffer and backlog drain. Submitting after
// Close panics.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	if !q.feeding {
		close(q.jobs)
	}
}
