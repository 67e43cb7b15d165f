package auralis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/auralis-go/auralis-lite/pkg/chat/protocol"
	"github.com/auralis-go/auralis-lite/pkg/core"
)

// ChatService opens realtime chat sessions against the backend WebSocket.
type ChatService struct {
	client *Client
}

// ChatSession is one live duplex chat connection. It owns the session status
// state machine and wires capture, text submission, inbound events, and
// audio playback together.
type ChatSession struct {
	client *Client
	conn   *websocket.Conn

	sendq      sendQueue
	transcript transcript
	playback   *playbackQueue

	statusMu sync.Mutex
	status   Status

	recordingMu sync.Mutex
	recording   bool

	writeMu   sync.Mutex
	closeOnce sync.Once
	closed    atomic.Bool
	done      chan struct{}

	errMu sync.Mutex
	err   error
}

// Connect dials the backend and starts the session's event loop. Status
// begins at idle.
func (s *ChatService) Connect(ctx context.Context) (*ChatSession, error) {
	if s == nil || s.client == nil {
		return nil, fmt.Errorf("chat service is not initialized")
	}

	wsURL, err := websocketEndpoint(s.client.url)
	if err != nil {
		return nil, err
	}

	dialCtx := ctx
	var cancel context.CancelFunc
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		dialCtx, cancel = context.WithTimeout(ctx, s.client.connectTimeout)
		defer cancel()
	}

	conn, resp, err := s.client.dialer.DialContext(dialCtx, wsURL, s.client.header)
	if err != nil {
		if resp != nil {
			return nil, &TransportError{Op: "GET", URL: wsURL, Err: fmt.Errorf("websocket dial failed (status %d): %w", resp.StatusCode, err)}
		}
		return nil, &TransportError{Op: "GET", URL: wsURL, Err: err}
	}

	session := &ChatSession{
		client: s.client,
		conn:   conn,
		status: StatusIdle,
		done:   make(chan struct{}),
	}
	if s.client.sink != nil {
		session.playback = &playbackQueue{
			sink:      s.client.sink,
			onStart:   func() { session.setStatus(StatusPlaying) },
			onIdle:    session.playbackDrained,
			onFailure: session.playbackFailed,
			onPlayed:  s.client.metrics.RecordClipPlayed,
			onDepth:   s.client.metrics.SetClipQueueDepth,
		}
	}

	s.client.metrics.RecordSessionStart()
	go session.readLoop()
	return session, nil
}

func websocketEndpoint(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("invalid chat URL: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(u.Scheme)) {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
		// already websocket scheme.
	default:
		return "", fmt.Errorf("chat URL must use http(s) or ws(s) scheme")
	}
	return u.String(), nil
}

// Connected reports whether the channel is open for sending.
func (s *ChatSession) Connected() bool {
	if s == nil {
		return false
	}
	return !s.closed.Load()
}

// Status returns the current session status.
func (s *ChatSession) Status() Status {
	if s == nil {
		return StatusIdle
	}
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	return s.status
}

// Messages returns a snapshot of the conversation transcript.
func (s *ChatSession) Messages() []Message {
	if s == nil {
		return nil
	}
	return s.transcript.Messages()
}

// StartRecording begins a voice capture session. It fails with
// channel_unavailable when the connection is closed and capture_denied when
// the capture source refuses to start; status is unchanged on failure.
// Starting resets the outbound send chain, appends the optimistic
// placeholder entry, and moves status to recording.
func (s *ChatSession) StartRecording(ctx context.Context) error {
	if !s.Connected() {
		return core.NewChannelUnavailableError("channel is not open")
	}

	s.recordingMu.Lock()
	if s.recording {
		s.recordingMu.Unlock()
		return nil
	}
	source := s.client.source
	if source == nil {
		s.recordingMu.Unlock()
		return core.NewCaptureDeniedError(errors.New("no capture source configured"))
	}
	chunks, err := source.Start(ctx)
	if err != nil {
		s.recordingMu.Unlock()
		return core.NewCaptureDeniedError(err)
	}
	s.recording = true
	s.recordingMu.Unlock()

	gen := s.sendq.Reset()
	s.transcript.AppendPlaceholder(s.client.placeholder)
	s.notifyTranscript()
	s.setStatus(StatusRecording)

	go s.forwardChunks(gen, chunks)
	return nil
}

// StopRecording ends the capture session and moves status to processing.
// Chunks already scheduled still drain through the send chain; the end
// marker rides the same chain and is guaranteed to be the session's last
// capture frame.
func (s *ChatSession) StopRecording() {
	if s == nil {
		return
	}
	s.recordingMu.Lock()
	if !s.recording {
		s.recordingMu.Unlock()
		return
	}
	s.recording = false
	source := s.client.source
	s.recordingMu.Unlock()

	source.Stop()
	s.setStatus(StatusProcessing)
}

// SendText submits one typed message. The frame is written immediately, not
// through the capture send chain: a capture session starting afterwards
// resets that chain and must never discard an accepted text message. The
// transcript entry is added only when the backend echoes it back as a
// user-message event.
func (s *ChatSession) SendText(content string) error {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return core.NewEmptyInputError("text input is empty")
	}
	if !s.Connected() {
		return core.NewChannelUnavailableError("channel is not open")
	}
	s.sendFrame(protocol.NewTextInput(trimmed), protocol.TypeTextInput)
	return nil
}

// Err returns the terminal session error, if any, after the session ends.
func (s *ChatSession) Err() error {
	if s == nil {
		return nil
	}
	<-s.done
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.err
}

// Close tears the session down. In-flight capture and playback are
// abandoned, not drained.
func (s *ChatSession) Close() error {
	if s == nil {
		return nil
	}
	s.closeOnce.Do(func() {
		s.closed.Store(true)

		s.recordingMu.Lock()
		wasRecording := s.recording
		s.recording = false
		source := s.client.source
		s.recordingMu.Unlock()
		if wasRecording && source != nil {
			source.Stop()
		}
		if s.playback != nil {
			s.playback.Clear()
		}

		s.writeMu.Lock()
		_ = s.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(2*time.Second))
		s.writeMu.Unlock()
		_ = s.conn.Close()
	})
	<-s.done
	return nil
}

func (s *ChatSession) forwardChunks(gen uint64, chunks <-chan io.Reader) {
	for chunk := range chunks {
		chunk := chunk
		accepted := s.sendq.Enqueue(gen, func() {
			payload, err := EncodeChunk(chunk)
			if err != nil {
				// Best-effort streaming: losing one chunk of many
				// beats stalling the whole stream.
				s.client.logger.Warn("dropping audio chunk", "error", err)
				s.client.metrics.RecordFrameDropped("codec_error")
				return
			}
			s.sendFrame(protocol.NewAudioChunk(payload), protocol.TypeAudioChunk)
		})
		if !accepted {
			s.client.metrics.RecordFrameDropped("stale_session")
		}
	}
	s.sendq.Enqueue(gen, func() {
		s.sendFrame(protocol.NewAudioEnd(), protocol.TypeAudioEnd)
	})
}

func (s *ChatSession) sendFrame(frame any, frameType string) {
	if s.closed.Load() {
		s.client.logger.Debug("dropping frame on closed channel", "type", frameType)
		s.client.metrics.RecordFrameDropped("channel_closed")
		return
	}
	s.writeMu.Lock()
	err := s.conn.WriteJSON(frame)
	s.writeMu.Unlock()
	if err != nil {
		s.client.logger.Debug("dropping frame on write failure", "type", frameType, "error", err)
		s.client.metrics.RecordFrameDropped("write_error")
		return
	}
	s.client.metrics.RecordFrameSent(frameType)
}

func (s *ChatSession) readLoop() {
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if !s.closed.Load() && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.setErr(err)
			}
			break
		}
		s.dispatch(data)
	}
	s.teardown()
}

// dispatch applies one inbound frame. It runs only on the read loop
// goroutine, so events are processed strictly in channel-delivery order.
func (s *ChatSession) dispatch(data []byte) {
	event, err := protocol.DecodeServerEvent(data)
	if err != nil {
		s.client.logger.Warn("discarding malformed event", "error", core.NewMalformedEventError(err))
		s.client.metrics.RecordMalformedEvent()
		return
	}

	switch e := event.(type) {
	case protocol.ServerUserMessage:
		s.client.metrics.RecordEvent(protocol.TypeUserMessage)
		s.transcript.ApplyUserMessage(e.Content)
		s.notifyTranscript()
	case protocol.ServerTextUpdate:
		s.client.metrics.RecordEvent(protocol.TypeTextUpdate)
		s.transcript.ApplyTextUpdate(e.Content)
		s.notifyTranscript()
	case protocol.ServerAudioChunk:
		s.client.metrics.RecordEvent(protocol.TypeAudioChunk)
		if s.playback == nil {
			s.client.logger.Debug("no output sink configured, discarding clip")
			return
		}
		s.playback.Enqueue(e.Content)
	case protocol.ServerStatus:
		s.client.metrics.RecordEvent(protocol.TypeStatus)
		s.applyServerStatus(Status(e.Content))
	case protocol.ServerUnknown:
		s.client.logger.Debug("ignoring unknown event", "type", e.Type)
	}
}

// applyServerStatus applies a backend-driven status change. A backend idle
// is suppressed while the playback queue still owes audio; the queue's own
// drain transition reports idle once the last clip finishes.
func (s *ChatSession) applyServerStatus(status Status) {
	if status == StatusIdle && s.pendingClips() > 0 {
		s.client.logger.Debug("suppressing idle status, playback pending")
		return
	}
	s.setStatus(status)
}

func (s *ChatSession) playbackDrained() {
	// A new clip may have arrived between the drain loop observing an
	// empty queue and this callback; the fresh drain owns status then.
	if s.pendingClips() > 0 {
		return
	}
	s.statusMu.Lock()
	if s.status != StatusPlaying {
		s.statusMu.Unlock()
		return
	}
	s.status = StatusIdle
	s.statusMu.Unlock()
	s.notifyStatus(StatusIdle)
}

func (s *ChatSession) playbackFailed(err error) {
	s.client.logger.Warn("playback failed, discarding queued clips", "error", core.NewPlaybackError(err))
	s.client.metrics.RecordPlaybackFailure()
	s.setStatus(StatusIdle)
}

func (s *ChatSession) pendingClips() int {
	if s.playback == nil {
		return 0
	}
	return s.playback.Pending()
}

func (s *ChatSession) setStatus(status Status) {
	s.statusMu.Lock()
	if s.status == status {
		s.statusMu.Unlock()
		return
	}
	s.status = status
	s.statusMu.Unlock()
	s.notifyStatus(status)
}

func (s *ChatSession) notifyStatus(status Status) {
	if s.client.statusHandler != nil {
		s.client.statusHandler(status)
	}
}

func (s *ChatSession) notifyTranscript() {
	if s.client.transcriptHandler != nil {
		s.client.transcriptHandler(s.transcript.Messages())
	}
}

func (s *ChatSession) setErr(err error) {
	if err == nil {
		return
	}
	s.errMu.Lock()
	defer s.errMu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

func (s *ChatSession) teardown() {
	s.closed.Store(true)
	if s.playback != nil {
		s.playback.Clear()
	}
	s.setStatus(StatusIdle)
	s.client.metrics.RecordSessionEnd()
	if s.client.disconnectHandler != nil {
		s.errMu.Lock()
		err := s.err
		s.errMu.Unlock()
		s.client.disconnectHandler(err)
	}
	close(s.done)
}
