// Package loop provides a single-goroutine event loop with cancelable
// delayed tasks. Everything posted to a Loop, including fired tasks, runs
// on the goroutine that called Run, one function at a time.
package loop

import (
	"context"
	"time"
)

// Scheduler schedules a function to run on the loop after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Canceler
}

// Canceler is a handle to a scheduled function.
type Canceler interface {
	// Cancel stops the function from running. It reports whether the call
	// stopped it; canceling a fired or canceled task is a no-op.
	Cancel() bool
}

// Loop serializes work onto one goroutine.
type Loop struct {
	queue chan func()
	done  chan struct{}
}

// New creates a loop with a buffered work queue.
func New() *Loop {
	return &Loop{
		queue: make(chan func(), 64),
		done:  make(chan struct{}),
	}
}

// Run processes posted work until ctx is canceled.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.queue:
			fn()
		}
	}
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Post queues fn to run on the loop goroutine. It returns false if the loop
// has already stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.queue <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Task is a delayed function bound to a Loop.
type Task struct {
	timer *time.Timer
	// state is only read and written on the loop goroutine.
	state taskState
}

type taskState int

const (
	taskPending taskState = iota
	taskFired
	taskCanceled
)

// AfterFunc runs f on the loop after d. Cancel must be called from the loop
// goroutine; a task canceled after its timer expired but before its turn on
// the loop does not run.
func (l *Loop) AfterFunc(d time.Duration, f func()) Canceler {
	t := &Task{}
	t.timer = time.AfterFunc(d, func() {
		l.Post(func() {
			if t.state != taskPending {
				return
			}
			t.state = taskFired
			f()
		})
	})
	return t
}

// Cancel implements Canceler.
func (t *Task) Cancel() bool {
	if t.state != taskPending {
		return false
	}
	t.state = taskCanceled
	t.timer.Stop()
	return true
}

// Pending reports whether the task has neither fired nor been canceled.
func (t *Task) Pending() bool {
	return t.state == taskPending
}
