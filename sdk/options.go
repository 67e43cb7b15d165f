package auralis

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/auralis-go/auralis-lite/pkg/chat/metrics"
)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger sets the logger used by sessions. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics wires Prometheus session metrics.
func WithMetrics(m *metrics.Metrics) ClientOption {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithDialer overrides the WebSocket dialer.
func WithDialer(dialer *websocket.Dialer) ClientOption {
	return func(c *Client) {
		if dialer != nil {
			c.dialer = dialer
		}
	}
}

// WithHeader adds an HTTP header to the connection handshake.
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.header.Set(key, value)
	}
}

// WithConnectTimeout bounds the WebSocket dial when the caller's context has
// no deadline of its own.
func WithConnectTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.connectTimeout = d
		}
	}
}

// WithCaptureSource sets the microphone capture source used by
// StartRecording. Sessions without one are text-only.
func WithCaptureSource(source CaptureSource) ClientOption {
	return func(c *Client) {
		c.source = source
	}
}

// WithOutputSink sets the audio output sink that plays inbound clips.
// Sessions without one discard inbound audio.
func WithOutputSink(sink OutputSink) ClientOption {
	return func(c *Client) {
		c.sink = sink
	}
}

// WithPlaceholder overrides the provisional text of the optimistic user
// entry created at capture start.
func WithPlaceholder(text string) ClientOption {
	return func(c *Client) {
		if text != "" {
			c.placeholder = text
		}
	}
}

// WithStatusHandler registers a callback invoked on every session status
// change. It may fire from the session's read loop or from the playback
// drain goroutine; implementations that touch shared state must synchronize.
func WithStatusHandler(fn func(Status)) ClientOption {
	return func(c *Client) {
		c.statusHandler = fn
	}
}

// WithTranscriptHandler registers a callback invoked with a fresh transcript
// snapshot after every transcript mutation.
func WithTranscriptHandler(fn func([]Message)) ClientOption {
	return func(c *Client) {
		c.transcriptHandler = fn
	}
}

// WithDisconnectHandler registers a callback invoked once when the session's
// connection closes; err is nil on a clean close.
func WithDisconnectHandler(fn func(error)) ClientOption {
	return func(c *Client) {
		c.disconnectHandler = fn
	}
}

// WithHTTPClientHeader batches multiple handshake headers.
func WithHTTPClientHeader(header http.Header) ClientOption {
	return func(c *Client) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}
