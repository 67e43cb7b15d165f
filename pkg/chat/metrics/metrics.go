package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus metrics for chat sessions.
type Metrics struct {
	registry *prometheus.Registry

	// Outbound frame metrics
	FramesSent    *prometheus.CounterVec
	FramesDropped *prometheus.CounterVec

	// Inbound event metrics
	EventsReceived  *prometheus.CounterVec
	MalformedEvents prometheus.Counter

	// Playback metrics
	ClipsPlayed      prometheus.Counter
	PlaybackFailures prometheus.Counter
	ClipQueueDepth   prometheus.Gauge

	// Session metrics
	SessionsActive prometheus.Gauge
	SessionsTotal  prometheus.Counter
}

// NewMetrics creates a Metrics instance with all metrics registered on a
// dedicated registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "auralis"
	}

	registry := prometheus.NewRegistry()

	framesSent := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_sent_total",
			Help:      "Total outbound frames written to the channel",
		},
		[]string{"type"},
	)

	framesDropped := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_dropped_total",
			Help:      "Total outbound frames dropped before reaching the channel",
		},
		[]string{"reason"},
	)

	eventsReceived := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_received_total",
			Help:      "Total inbound events decoded from the channel",
		},
		[]string{"type"},
	)

	malformedEvents := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "malformed_events_total",
			Help:      "Total inbound frames discarded as malformed",
		},
	)

	clipsPlayed := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clips_played_total",
			Help:      "Total audio clips played to completion",
		},
	)

	playbackFailures := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "playback_failures_total",
			Help:      "Total audio clips rejected by the output sink",
		},
	)

	clipQueueDepth := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "clip_queue_depth",
			Help:      "Audio clips buffered and awaiting playback",
		},
	)

	sessionsActive := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Number of open chat sessions",
		},
	)

	sessionsTotal := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "Total chat sessions opened",
		},
	)

	registry.MustRegister(
		framesSent,
		framesDropped,
		eventsReceived,
		malformedEvents,
		clipsPlayed,
		playbackFailures,
		clipQueueDepth,
		sessionsActive,
		sessionsTotal,
	)

	return &Metrics{
		registry:         registry,
		FramesSent:       framesSent,
		FramesDropped:    framesDropped,
		EventsReceived:   eventsReceived,
		MalformedEvents:  malformedEvents,
		ClipsPlayed:      clipsPlayed,
		PlaybackFailures: playbackFailures,
		ClipQueueDepth:   clipQueueDepth,
		SessionsActive:   sessionsActive,
		SessionsTotal:    sessionsTotal,
	}
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordSessionStart records a new session opening.
func (m *Metrics) RecordSessionStart() {
	if m == nil {
		return
	}
	m.SessionsTotal.Inc()
	m.SessionsActive.Inc()
}

// RecordSessionEnd records a session closing.
func (m *Metrics) RecordSessionEnd() {
	if m == nil {
		return
	}
	m.SessionsActive.Dec()
}

// RecordFrameSent records one outbound frame reaching the channel.
func (m *Metrics) RecordFrameSent(frameType string) {
	if m == nil {
		return
	}
	m.FramesSent.WithLabelValues(frameType).Inc()
}

// RecordFrameDropped records one outbound frame lost before send.
func (m *Metrics) RecordFrameDropped(reason string) {
	if m == nil {
		return
	}
	m.FramesDropped.WithLabelValues(reason).Inc()
}

// RecordEvent records one decoded inbound event.
func (m *Metrics) RecordEvent(eventType string) {
	if m == nil {
		return
	}
	m.EventsReceived.WithLabelValues(eventType).Inc()
}

// RecordMalformedEvent records one discarded inbound frame.
func (m *Metrics) RecordMalformedEvent() {
	if m == nil {
		return
	}
	m.MalformedEvents.Inc()
}

// RecordClipPlayed records one clip played to completion.
func (m *Metrics) RecordClipPlayed() {
	if m == nil {
		return
	}
	m.ClipsPlayed.Inc()
}

// RecordPlaybackFailure records one clip the sink rejected.
func (m *Metrics) RecordPlaybackFailure() {
	if m == nil {
		return
	}
	m.PlaybackFailures.Inc()
}

// SetClipQueueDepth reports the current playback queue depth.
func (m *Metrics) SetClipQueueDepth(n int) {
	if m == nil {
		return
	}
	m.ClipQueueDepth.Set(float64(n))
}
