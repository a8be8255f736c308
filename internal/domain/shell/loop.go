package shell

import (
	"context"
	"errors"
	"sync"
)

// ErrStopped is returned when work is posted to a stopped loop
var ErrStopped = errors.New("control loop stopped")

// DefaultQueueSize bounds pending work before Post blocks
const DefaultQueueSize = 64

// Loop serializes all shell work onto one goroutine
type Loop struct {
	queue    chan func()
	stopped  chan struct{}
	stopOnce sync.Once
}

// NewLoop creates a loop with a buffered queue
func NewLoop(size int) *Loop {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Loop{
		queue:   make(chan func(), size),
		stopped: make(chan struct{}),
	}
}

// Post enqueues fn. It blocks while the queue is full and drops fn once
// the loop has stopped. Never call Post with a full queue from the loop
// goroutine itself.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.stopped:
		return false
	default:
	}
	select {
	case l.queue <- fn:
		return true
	case <-l.stopped:
		return false
	}
}

// Do runs fn on the loop and waits for it to finish
func (l *Loop) Do(ctx context.Context, fn func()) error {
	started := make(chan struct{})
	done := make(chan struct{})
	task := func() {
		close(started)
		defer close(done)
		fn()
	}

	select {
	case <-l.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	case l.queue <- task:
	}

	select {
	case <-done:
		return nil
	case <-l.stopped:
		// The task may be the one that stopped the loop.
		select {
		case <-started:
			<-done
			return nil
		default:
			return ErrStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run drains the queue until ctx is cancelled or Stop is called
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.stopped:
			return nil
		case fn := <-l.queue:
			select {
			case <-l.stopped:
				return nil
			default:
			}
			fn()
		}
	}
}

// Stop ends Run. Pending work is discarded.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stopped) })
}

// Stopped is closed once the loop stops
func (l *Loop) Stopped() <-chan struct{} {
	return l.stopped
}
