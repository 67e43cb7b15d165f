package auralis

import (
	"sync"
	"testing"
	"time"
)

func TestSendQueueRunsInOrder(t *testing.T) {
	t.Parallel()

	var q sendQueue
	gen := q.Generation()

	var mu sync.Mutex
	var got []int
	var wg sync.WaitGroup
	wg.Add(10)
	for i := 0; i < 10; i++ {
		i := i
		q.Enqueue(gen, func() {
			defer wg.Done()
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		})
	}
	wg.Wait()

	for i, v := range got {
		if v != i {
			t.Fatalf("task order %v, want ascending", got)
		}
	}
}

func TestSendQueueDropsStaleGeneration(t *testing.T) {
	t.Parallel()

	var q sendQueue
	stale := q.Generation()
	fresh := q.Reset()

	if q.Enqueue(stale, func() { t.Error("stale task ran") }) {
		t.Error("Enqueue accepted a stale generation")
	}

	ran := make(chan struct{})
	if !q.Enqueue(fresh, func() { close(ran) }) {
		t.Fatal("Enqueue rejected the current generation")
	}
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for current-generation task")
	}
}

func TestSendQueueResetDiscardsQueuedTasks(t *testing.T) {
	t.Parallel()

	var q sendQueue
	gen := q.Generation()

	release := make(chan struct{})
	started := make(chan struct{})
	q.Enqueue(gen, func() {
		close(started)
		<-release
	})
	<-started

	// Queued behind the in-flight task; must vanish on Reset.
	q.Enqueue(gen, func() { t.Error("discarded task ran") })

	next := q.Reset()
	close(release)

	ran := make(chan struct{})
	q.Enqueue(next, func() { close(ran) })
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for post-reset task")
	}
}
