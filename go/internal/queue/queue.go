// Package queue serializes the application of inbound room events.
//
// Events arrive from the socket read loop but may take uneven time to
// apply. The queue guarantees they are applied in exactly the order they
// were enqueued: a single drain loop runs at a time, and it finishes one
// task before taking the next.
package queue

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Task is one unit of deferred event application.
type Task func() error

// Queue is a single-consumer FIFO with at most one active drain loop.
type Queue struct {
	mu       sync.Mutex
	idle     sync.Cond
	tasks    []Task
	draining bool
}

// New returns an empty queue.
func New() *Queue {
	q := &Queue{}
	q.idle.L = &q.mu
	return q
}

// Add appends a task and starts the drain loop if none is running.
func (q *Queue) Add(task Task) {
	q.mu.Lock()
	q.tasks = append(q.tasks, task)
	if q.draining {
		q.mu.Unlock()
		return
	}
	q.draining = true
	q.mu.Unlock()

	go q.drain()
}

// drain applies tasks head-first until the queue is empty, then stops. A
// failing task is logged and skipped; one bad event must not wedge the
// session, and later events overwrite its effects anyway since every store
// write is absolute.
func (q *Queue) drain() {
	for {
		q.mu.Lock()
		if len(q.tasks) == 0 {
			q.draining = false
			q.idle.Broadcast()
			q.mu.Unlock()
			return
		}
		task := q.tasks[0]
		q.tasks = q.tasks[1:]
		q.mu.Unlock()

		if err := task(); err != nil {
			log.Warn().Err(err).Msg("event application failed; continuing")
		}
	}
}

// Wait blocks until every task enqueued so far has been applied and the
// drain loop has stopped.
func (q *Queue) Wait() {
	q.mu.Lock()
	for q.draining || len(q.tasks) > 0 {
		q.idle.Wait()
	}
	q.mu.Unlock()
}

// Len reports the number of tasks not yet taken by the drain loop.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}
