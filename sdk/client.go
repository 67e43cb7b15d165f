// Package auralis provides the Auralis realtime voice/text chat client for Go.
//
// The client multiplexes an outbound microphone stream and text messages onto
// one backend WebSocket, demultiplexes inbound transcript and audio events,
// and drives a strictly ordered audio playback pipeline.
package auralis

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/auralis-go/auralis-lite/pkg/chat/metrics"
)

const (
	defaultConnectTimeout = 15 * time.Second

	// DefaultPlaceholder is the provisional text shown for a user turn
	// before the backend transcribes it.
	DefaultPlaceholder = "..."
)

// Client is the main entry point for the SDK.
type Client struct {
	Chat *ChatService

	// Internal
	url            string
	header         http.Header
	dialer         *websocket.Dialer
	connectTimeout time.Duration

	logger  *slog.Logger
	metrics *metrics.Metrics

	source      CaptureSource
	sink        OutputSink
	placeholder string

	statusHandler     func(Status)
	transcriptHandler func([]Message)
	disconnectHandler func(error)
}

// NewClient creates a client for the chat backend at the given URL. The URL
// may use http(s) or ws(s) scheme; it is normalized to a WebSocket endpoint
// at connect time.
func NewClient(url string, opts ...ClientOption) *Client {
	c := &Client{
		url:            url,
		header:         make(http.Header),
		connectTimeout: defaultConnectTimeout,
		logger:         slog.Default(),
		placeholder:    DefaultPlaceholder,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.dialer == nil {
		c.dialer = websocket.DefaultDialer
	}

	c.Chat = &ChatService{client: c}
	return c
}
