// Command auralis-chat is a terminal client for an Auralis voice chat
// backend. It streams microphone audio and typed text over one WebSocket
// session and plays the assistant's spoken replies as they arrive.
//
// Usage:
//
//	auralis-chat -url ws://localhost:8000/ws
//
// Controls:
//
//	r           Toggle voice recording
//	/t <text>   Send a text message
//	q           Quit
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/auralis-go/auralis-lite/pkg/chat/metrics"
	auralis "github.com/auralis-go/auralis-lite/sdk"
)

func main() {
	_ = godotenv.Load()

	var (
		urlFlag     = flag.String("url", envOr("AURALIS_URL", "ws://localhost:8000/ws"), "chat backend WebSocket URL")
		metricsAddr = flag.String("metrics-addr", envOr("AURALIS_METRICS_ADDR", ""), "serve Prometheus metrics on this address (empty = disabled)")
		placeholder = flag.String("placeholder", "", "override the provisional transcript text shown while recording")
		noAudio     = flag.Bool("no-audio", false, "disable microphone and speaker (text only)")
		logJSON     = flag.Bool("log-json", false, "emit JSON logs")
		logLevel    = flag.String("log-level", "warn", "log level (debug, info, warn, error)")
	)
	flag.Parse()

	logger := newLogger(*logJSON, *logLevel)
	slog.SetDefault(logger)

	if err := run(*urlFlag, *metricsAddr, *placeholder, *noAudio, logger); err != nil {
		fmt.Fprintf(os.Stderr, "auralis-chat: %v\n", err)
		os.Exit(1)
	}
}

func run(url, metricsAddr, placeholder string, noAudio bool, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nshutting down...")
		cancel()
	}()

	m := metrics.NewMetrics("auralis")
	if metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", m.Handler())
			if err := http.ListenAndServe(metricsAddr, mux); err != nil {
				logger.Error("metrics listener failed", "error", err)
			}
		}()
	}

	printer := &transcriptPrinter{}
	opts := []auralis.ClientOption{
		auralis.WithLogger(logger),
		auralis.WithMetrics(m),
		auralis.WithStatusHandler(func(s auralis.Status) {
			fmt.Printf("[status] %s\n", s)
		}),
		auralis.WithTranscriptHandler(printer.update),
		auralis.WithDisconnectHandler(func(err error) {
			if err != nil {
				fmt.Printf("[disconnected] %v\n", err)
				return
			}
			fmt.Println("[disconnected]")
		}),
	}
	if placeholder != "" {
		opts = append(opts, auralis.WithPlaceholder(placeholder))
	}

	if !noAudio {
		mic, err := newMicSource()
		if err != nil {
			return err
		}
		defer mic.Close()
		opts = append(opts,
			auralis.WithCaptureSource(mic),
			auralis.WithOutputSink(newSpeakerSink()),
		)
	}

	client := auralis.NewClient(url, opts...)
	session, err := client.Chat.Connect(ctx)
	if err != nil {
		return err
	}
	defer session.Close()
	go func() {
		<-ctx.Done()
		session.Close()
	}()

	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Printf("connected to %s\n", url)
		if noAudio {
			fmt.Println("commands: /t <text> to send, q to quit")
		} else {
			fmt.Println("commands: r to toggle recording, /t <text> to send, q to quit")
		}
	}

	recording := false
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		switch {
		case strings.EqualFold(input, "q"):
			return nil

		case strings.EqualFold(input, "r"):
			if noAudio {
				fmt.Println("[info] audio is disabled (-no-audio)")
				continue
			}
			if recording {
				session.StopRecording()
				recording = false
				fmt.Println("[recording stopped]")
				continue
			}
			if err := session.StartRecording(ctx); err != nil {
				fmt.Printf("[error] %v\n", err)
				continue
			}
			recording = true
			fmt.Println("[recording]")

		case strings.HasPrefix(input, "/t "):
			text := strings.TrimPrefix(input, "/t ")
			if err := session.SendText(text); err != nil {
				fmt.Printf("[error] %v\n", err)
			}

		default:
			fmt.Println("[info] commands: r, /t <text>, q")
		}

		if !session.Connected() {
			return session.Err()
		}
	}
	return scanner.Err()
}

// transcriptPrinter renders transcript changes incrementally: each user
// turn on its own line, assistant deltas appended in place. The tail entry
// can mutate between updates (growing assistant text, or the provisional
// recording line resolving into the transcribed words), so it is tracked
// separately from fully-printed history.
type transcriptPrinter struct {
	mu           sync.Mutex
	printed      int
	partial      int
	pendingShown bool
}

func (p *transcriptPrinter) update(msgs []auralis.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.printed > 0 && p.printed <= len(msgs) {
		last := msgs[p.printed-1]
		switch {
		case last.Role == auralis.RoleAssistant && len(last.Text) > p.partial:
			fmt.Print(last.Text[p.partial:])
			p.partial = len(last.Text)
		case p.pendingShown && last.Role == auralis.RoleUser && !last.Pending:
			fmt.Printf("[you] %s\n", last.Text)
			p.pendingShown = false
		}
	}

	for i := p.printed; i < len(msgs); i++ {
		msg := msgs[i]
		if p.partial > 0 {
			fmt.Println()
			p.partial = 0
		}
		if msg.Role == auralis.RoleAssistant {
			fmt.Printf("[assistant] %s", msg.Text)
			p.partial = len(msg.Text)
		} else {
			fmt.Printf("[you] %s\n", msg.Text)
			p.pendingShown = msg.Pending
		}
		p.printed = i + 1
	}
}

func newLogger(jsonOut bool, level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if jsonOut {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
