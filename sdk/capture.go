package auralis

import (
	"context"
	"io"
)

// CaptureSource yields raw audio chunks from a microphone-like device.
//
// Start begins capture and returns a channel of bounded chunks delivered at
// the source's cadence (typically ~200ms). After Stop, the source delivers
// any final chunk and closes the channel; the closed channel is the end
// signal. Implementations that cannot access the device return an error from
// Start, which the session surfaces as a capture_denied error.
type CaptureSource interface {
	Start(ctx context.Context) (<-chan io.Reader, error)
	Stop()
}

// OutputSink decodes and plays one encoded audio clip.
//
// Play blocks until the clip finishes or fails; the playback queue relies on
// that to keep clips strictly sequential with no overlap.
type OutputSink interface {
	Play(payload string) error
}
