package auralis

import "sync"

// sendQueue serializes outbound work into a strictly ordered chain with a
// single in-flight worker. Enqueue never blocks the caller; tasks run in
// enqueue order no matter how long each one takes.
//
// Reset starts a new generation and discards tasks queued under previous
// generations that have not run yet, so frames from an ended capture session
// are never sent after the new session's frames. A task that is already
// executing when Reset is called finishes first; the worker then only sees
// current-generation tasks.
type sendQueue struct {
	mu      sync.Mutex
	tasks   []func()
	running bool
	gen     uint64
}

// Generation returns the current generation token for Enqueue.
func (q *sendQueue) Generation() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.gen
}

// Reset discards all pending tasks and returns the new generation token.
func (q *sendQueue) Reset() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.gen++
	q.tasks = nil
	return q.gen
}

// Enqueue appends task to the chain. Tasks tagged with a stale generation are
// dropped. Returns whether the task was accepted.
func (q *sendQueue) Enqueue(gen uint64, task func()) bool {
	q.mu.Lock()
	if gen != q.gen {
		q.mu.Unlock()
		return false
	}
	q.tasks = append(q.tasks, task)
	if q.running {
		q.mu.Unlock()
		return true
	}
	q.running = true
	q.mu.Unlock()

	go q.drain()
	return true
}

func (q *sendQueue) drain() {
	for {
		q.mu.Lock()
		if len(q.tasks) == 0 {
			q.running = false
			q.mu.Unlock()
			return
		}
		task := q.tasks[0]
		q.tasks = q.tasks[1:]
		q.mu.Unlock()

		task()
	}
}
