package auralis

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// recordingSink logs played clips and can block or fail on demand.
type recordingSink struct {
	mu      sync.Mutex
	played  []string
	gate    chan struct{}
	failOn  string
	inPlay  int
	maxPlay int
}

func (s *recordingSink) Play(payload string) error {
	s.mu.Lock()
	s.inPlay++
	if s.inPlay > s.maxPlay {
		s.maxPlay = s.inPlay
	}
	s.mu.Unlock()

	if s.gate != nil {
		<-s.gate
	}

	s.mu.Lock()
	s.inPlay--
	fail := s.failOn != "" && payload == s.failOn
	if !fail {
		s.played = append(s.played, payload)
	}
	s.mu.Unlock()

	if fail {
		return errors.New("device rejected clip")
	}
	return nil
}

func (s *recordingSink) snapshot() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.played...)
}

func waitUntil(t *testing.T, cond func() bool, what string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestPlaybackQueuePlaysInOrder(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	idle := make(chan struct{}, 1)
	q := &playbackQueue{sink: sink, onIdle: func() { idle <- struct{}{} }}

	q.Enqueue("a")
	q.Enqueue("b")
	q.Enqueue("c")

	select {
	case <-idle:
	case <-time.After(2 * time.Second):
		t.Fatal("queue never drained")
	}

	got := sink.snapshot()
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("played %v, want [a b c]", got)
	}
	if sink.maxPlay != 1 {
		t.Errorf("max concurrent plays = %d, want 1", sink.maxPlay)
	}
}

func TestPlaybackQueuePendingCounts(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{gate: make(chan struct{})}
	q := &playbackQueue{sink: sink}

	q.Enqueue("a")
	q.Enqueue("b")
	q.Enqueue("c")
	waitUntil(t, func() bool {
		sink.mu.Lock()
		defer sink.mu.Unlock()
		return sink.inPlay == 1
	}, "first clip to start")

	if got := q.Pending(); got != 3 {
		t.Errorf("Pending = %d, want 3 (one in flight, two queued)", got)
	}

	close(sink.gate)
	waitUntil(t, func() bool { return q.Pending() == 0 }, "queue to drain")
}

func TestPlaybackQueueFailureDiscardsRest(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{failOn: "bad"}
	var failErr error
	failed := make(chan struct{})
	q := &playbackQueue{sink: sink, onFailure: func(err error) {
		failErr = err
		close(failed)
	}}

	q.Enqueue("ok")
	q.Enqueue("bad")
	q.Enqueue("never")

	select {
	case <-failed:
	case <-time.After(2 * time.Second):
		t.Fatal("onFailure never fired")
	}
	if failErr == nil {
		t.Error("onFailure got nil error")
	}

	waitUntil(t, func() bool { return q.Pending() == 0 }, "queue to settle")
	got := sink.snapshot()
	if len(got) != 1 || got[0] != "ok" {
		t.Errorf("played %v, want [ok]", got)
	}

	// Queue stays usable after a failure.
	idle := make(chan struct{}, 1)
	q.onIdle = func() { idle <- struct{}{} }
	q.Enqueue("after")
	select {
	case <-idle:
	case <-time.After(2 * time.Second):
		t.Fatal("queue did not recover after failure")
	}
}

func TestPlaybackQueueClear(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{gate: make(chan struct{})}
	q := &playbackQueue{sink: sink}

	q.Enqueue("playing")
	q.Enqueue("queued")
	waitUntil(t, func() bool {
		sink.mu.Lock()
		defer sink.mu.Unlock()
		return sink.inPlay == 1
	}, "first clip to start")

	q.Clear()
	close(sink.gate)

	waitUntil(t, func() bool { return q.Pending() == 0 }, "queue to settle")
	if got := sink.snapshot(); len(got) != 1 {
		t.Errorf("played %v, want only the in-flight clip", got)
	}
}
