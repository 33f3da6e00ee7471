package queue

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestTasksApplyInEnqueueOrder(t *testing.T) {
	t.Parallel()

	q := New()

	var mu sync.Mutex
	var order []int

	record := func(n int, delay time.Duration) Task {
		return func() error {
			time.Sleep(delay)
			mu.Lock()
			order = append(order, n)
			mu.Unlock()
			return nil
		}
	}

	// The first task is much slower than the ones behind it; order must
	// still hold.
	q.Add(record(1, 50*time.Millisecond))
	q.Add(record(2, 0))
	q.Add(record(3, 0))

	q.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("tasks applied out of order: %v", order)
	}
}

func TestFailingTaskDoesNotStopTheDrain(t *testing.T) {
	t.Parallel()

	q := New()

	var mu sync.Mutex
	var applied []string

	q.Add(func() error {
		return errors.New("bad event")
	})
	q.Add(func() error {
		mu.Lock()
		applied = append(applied, "after-failure")
		mu.Unlock()
		return nil
	})

	q.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(applied) != 1 || applied[0] != "after-failure" {
		t.Fatalf("task after a failure was not applied: %v", applied)
	}
}

func TestAddDuringDrainIsPickedUp(t *testing.T) {
	t.Parallel()

	q := New()

	var mu sync.Mutex
	var order []int

	q.Add(func() error {
		q.Add(func() error {
			mu.Lock()
			order = append(order, 2)
			mu.Unlock()
			return nil
		})
		mu.Lock()
		order = append(order, 1)
		mu.Unlock()
		return nil
	})

	q.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("nested add mishandled: %v", order)
	}
}

func TestWaitOnEmptyQueueReturns(t *testing.T) {
	t.Parallel()

	q := New()
	done := make(chan struct{})
	go func() {
		q.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Wait blocked on an empty queue")
	}
}
