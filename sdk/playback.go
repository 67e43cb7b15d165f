package auralis

import "sync"

// playbackQueue buffers inbound clips and plays them back-to-back in arrival
// order through the output sink, exactly one at a time. The playing flag
// guards the drain loop against re-entrancy: at most one drain goroutine
// exists per queue.
type playbackQueue struct {
	sink OutputSink

	mu      sync.Mutex
	queue   []string
	playing bool

	// onStart fires when the queue transitions from drained to active.
	// onIdle fires when the queue drains empty normally. onFailure fires
	// when the sink rejects a clip; the remaining queue is discarded
	// first. onDepth reports queue depth changes for observability.
	onStart   func()
	onIdle    func()
	onFailure func(error)
	onPlayed  func()
	onDepth   func(int)
}

// Enqueue appends clip and starts the drain loop if it is not already
// running. Returns immediately in either case.
func (p *playbackQueue) Enqueue(clip string) {
	p.mu.Lock()
	p.queue = append(p.queue, clip)
	p.reportDepthLocked()
	if p.playing {
		p.mu.Unlock()
		return
	}
	p.playing = true
	p.mu.Unlock()

	if p.onStart != nil {
		p.onStart()
	}
	go p.drain()
}

// Pending reports how many clips are queued or in flight. The session uses
// it to suppress a backend idle status while audio is still owed.
func (p *playbackQueue) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := len(p.queue)
	if p.playing {
		n++
	}
	return n
}

// Clear abandons all buffered clips. The in-flight clip, if any, finishes on
// its own; used at session teardown.
func (p *playbackQueue) Clear() {
	p.mu.Lock()
	p.queue = nil
	p.reportDepthLocked()
	p.mu.Unlock()
}

func (p *playbackQueue) drain() {
	for {
		p.mu.Lock()
		if len(p.queue) == 0 {
			p.playing = false
			p.mu.Unlock()
			if p.onIdle != nil {
				p.onIdle()
			}
			return
		}
		clip := p.queue[0]
		p.queue = p.queue[1:]
		p.reportDepthLocked()
		p.mu.Unlock()

		if err := p.sink.Play(clip); err != nil {
			// One bad clip ends the session's audio playback; the
			// rest of the queue is discarded rather than skipped
			// over or stalled on.
			p.mu.Lock()
			p.queue = nil
			p.playing = false
			p.reportDepthLocked()
			p.mu.Unlock()
			if p.onFailure != nil {
				p.onFailure(err)
			}
			return
		}
		if p.onPlayed != nil {
			p.onPlayed()
		}
	}
}

func (p *playbackQueue) reportDepthLocked() {
	if p.onDepth != nil {
		p.onDepth(len(p.queue))
	}
}
