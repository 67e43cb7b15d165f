package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/gen2brain/malgo"

	"github.com/auralis-go/auralis-lite/internal/wav"
)

const (
	micSampleRate = 16000
	micChannels   = 1

	// One outbound chunk per cadence tick keeps frames small enough for
	// incremental server-side transcription without flooding the socket.
	micCadence = 200 * time.Millisecond
)

// micSource captures microphone PCM through malgo and hands it out as
// fixed-cadence chunks. It satisfies auralis.CaptureSource and supports
// repeated start/stop cycles on one audio context.
type micSource struct {
	actx *malgo.AllocatedContext

	mu  sync.Mutex
	run *captureRun
}

type captureRun struct {
	device *malgo.Device

	mu   sync.Mutex
	pcm  []byte
	out  chan io.Reader
	done chan struct{}
	once sync.Once
}

func newMicSource() (*micSource, error) {
	cfg := malgo.ContextConfig{}
	cfg.ThreadPriority = malgo.ThreadPriorityRealtime
	actx, err := malgo.InitContext(nil, cfg, nil)
	if err != nil {
		return nil, fmt.Errorf("init audio context: %w", err)
	}
	return &micSource{actx: actx}, nil
}

func (m *micSource) Start(ctx context.Context) (<-chan io.Reader, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.run != nil {
		return nil, fmt.Errorf("microphone already capturing")
	}

	run := &captureRun{
		out:  make(chan io.Reader),
		done: make(chan struct{}),
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = micChannels
	deviceConfig.SampleRate = micSampleRate
	deviceConfig.PeriodSizeInMilliseconds = 20

	device, err := malgo.InitDevice(m.actx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: func(_, samples []byte, _ uint32) {
			run.mu.Lock()
			run.pcm = append(run.pcm, samples...)
			run.mu.Unlock()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("init microphone: %w", err)
	}
	if err := device.Start(); err != nil {
		device.Uninit()
		return nil, fmt.Errorf("start microphone: %w", err)
	}
	run.device = device
	m.run = run

	go run.emit(ctx)
	return run.out, nil
}

func (m *micSource) Stop() {
	m.mu.Lock()
	run := m.run
	m.run = nil
	m.mu.Unlock()
	if run == nil {
		return
	}

	_ = run.device.Stop()
	run.device.Uninit()
	run.once.Do(func() { close(run.done) })
}

func (m *micSource) Close() {
	m.Stop()
	_ = m.actx.Uninit()
	m.actx.Free()
}

// emit flushes buffered PCM on a fixed cadence until the run is stopped,
// then sends the tail and closes the channel.
func (r *captureRun) emit(ctx context.Context) {
	defer close(r.out)

	ticker := time.NewTicker(micCadence)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !r.flush(ctx) {
				return
			}
		case <-r.done:
			r.flush(ctx)
			return
		case <-ctx.Done():
			return
		}
	}
}

func (r *captureRun) flush(ctx context.Context) bool {
	r.mu.Lock()
	pcm := r.pcm
	r.pcm = nil
	r.mu.Unlock()
	if len(pcm) == 0 {
		return true
	}

	clip, err := wav.Encode(pcm, wav.Format{
		SampleRate:    micSampleRate,
		Channels:      micChannels,
		BitsPerSample: 16,
	})
	if err != nil {
		return true
	}

	select {
	case r.out <- bytes.NewReader(clip):
		return true
	case <-ctx.Done():
		return false
	}
}

// speakerSink plays base64 WAV clips through oto. Play blocks until the
// clip has been fully rendered, which is what keeps queued clips gapless
// and strictly ordered. It satisfies auralis.OutputSink.
type speakerSink struct {
	mu     sync.Mutex
	otoCtx *oto.Context
	format wav.Format
}

func newSpeakerSink() *speakerSink {
	return &speakerSink{}
}

func (s *speakerSink) Play(payload string) error {
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return fmt.Errorf("decode clip: %w", err)
	}
	format, pcm, err := wav.Decode(raw)
	if err != nil {
		return fmt.Errorf("decode clip: %w", err)
	}
	if len(pcm) == 0 {
		return nil
	}

	otoCtx, err := s.contextFor(format)
	if err != nil {
		return err
	}

	player := otoCtx.NewPlayer(bytes.NewReader(pcm))
	player.Play()
	for player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}
	return player.Close()
}

// contextFor lazily opens the audio device with the first clip's format.
// oto contexts are fixed-rate, so a mid-session format change is an error
// rather than a silently detuned clip.
func (s *speakerSink) contextFor(f wav.Format) (*oto.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.otoCtx != nil {
		if f != s.format {
			return nil, fmt.Errorf("clip format %+v does not match device format %+v", f, s.format)
		}
		return s.otoCtx, nil
	}

	var sampleFormat oto.Format
	switch f.BitsPerSample {
	case 16:
		sampleFormat = oto.FormatSignedInt16LE
	case 8:
		sampleFormat = oto.FormatUnsignedInt8
	default:
		return nil, fmt.Errorf("unsupported bit depth %d", f.BitsPerSample)
	}

	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   f.SampleRate,
		ChannelCount: f.Channels,
		Format:       sampleFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	<-ready

	s.otoCtx = otoCtx
	s.format = f
	return otoCtx, nil
}
