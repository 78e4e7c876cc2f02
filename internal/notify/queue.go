package notify

import (
	"context"
	"errors"
	"sync"

	"foodshare/pkg/logger"
)

var (
	errQueueFull   = errors.New("notification queue is full")
	errQueueClosed = errors.New("notification queue is closed")
)

// Sender makes the single attempt for a queued notification. Deliverer sends
// the email itself, AMQPPublisher hands it to the broker.
type Sender interface {
	Deliver(ctx context.Context, n Notification) error
	RecordFailure(ctx context.Context, n Notification, cause error)
}

// Queue is an in-process Dispatcher: a bounded buffer drained by a fixed
// number of workers. A notification that does not fit in the buffer is
// dropped and recorded as failed.
type Queue struct {
	sender    Sender
	jobs      chan Notification
	workers   int

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewQueue(sender Sender, size, workers int) *Queue {
	if size < 1 {
		size = 1
	}
	if workers < 1 {
		workers = 1
	}
	return &Queue{
		sender:    sender,
		jobs:      make(chan Notification, size),
		workers:   workers,
	}
}

// Start launches the workers.
func (q *Queue) Start() {
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.work()
	}
}

func (q *Queue) work() {
	defer q.wg.Done()
	for n := range q.jobs {
		// errors are already logged and recorded by the sender
		_ = q.sender.Deliver(context.Background(), n)
	}
}

// Dispatch enqueues notifications without blocking.
func (q *Queue) Dispatch(ctx context.Context, notifications ...Notification) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	for _, n := range notifications {
		if q.closed {
			q.sender.RecordFailure(ctx, n, errQueueClosed)
			continue
		}
		select {
		case q.jobs <- n:
			logger.InfoContext(ctx, "notification queued", "id", n.ID, "kind", n.Kind, "request_id", n.RequestID)
		default:
			q.sender.RecordFailure(ctx, n, errQueueFull)
		}
	}
}

// Close stops accepting notifications and waits until the queued ones have
// been attempted.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.jobs)
	q.mu.Unlock()

	q.wg.Wait()
}
