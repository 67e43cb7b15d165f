package protocol

import (
	"encoding/json"
	"testing"
)

func TestDecodeServerEvent_KnownTypes(t *testing.T) {
	t.Parallel()

	event, err := DecodeServerEvent([]byte(`{"type":"user-message","content":"hello"}`))
	if err != nil {
		t.Fatalf("decode user-message: %v", err)
	}
	if msg, ok := event.(ServerUserMessage); !ok || msg.Content != "hello" {
		t.Fatalf("event=%#v", event)
	}

	event, err = DecodeServerEvent([]byte(`{"type":"text-update","content":" there"}`))
	if err != nil {
		t.Fatalf("decode text-update: %v", err)
	}
	if msg, ok := event.(ServerTextUpdate); !ok || msg.Content != " there" {
		t.Fatalf("event=%#v", event)
	}

	event, err = DecodeServerEvent([]byte(`{"type":"audio-chunk","content":"UklGRg=="}`))
	if err != nil {
		t.Fatalf("decode audio-chunk: %v", err)
	}
	if msg, ok := event.(ServerAudioChunk); !ok || msg.Content != "UklGRg==" {
		t.Fatalf("event=%#v", event)
	}

	event, err = DecodeServerEvent([]byte(`{"type":"status","content":"processing"}`))
	if err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if msg, ok := event.(ServerStatus); !ok || msg.Content != "processing" {
		t.Fatalf("event=%#v", event)
	}
}

func TestDecodeServerEvent_Malformed(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		data string
	}{
		{"invalid json", `{"type":"status"`},
		{"missing type", `{"content":"hi"}`},
		{"empty type", `{"type":"  "}`},
		{"empty audio chunk", `{"type":"audio-chunk","content":""}`},
		{"bad status value", `{"type":"status","content":"thinking"}`},
	}
	for _, tc := range cases {
		if _, err := DecodeServerEvent([]byte(tc.data)); err == nil {
			t.Fatalf("%s: expected decode error", tc.name)
		}
	}
}

func TestDecodeServerEvent_UnknownTypePassesThrough(t *testing.T) {
	t.Parallel()

	event, err := DecodeServerEvent([]byte(`{"type":"turn-hint","content":"x"}`))
	if err != nil {
		t.Fatalf("unknown type should not error: %v", err)
	}
	unknown, ok := event.(ServerUnknown)
	if !ok {
		t.Fatalf("event=%#v, want ServerUnknown", event)
	}
	if unknown.Type != "turn-hint" {
		t.Fatalf("type=%q", unknown.Type)
	}
	var round map[string]any
	if err := json.Unmarshal(unknown.Raw, &round); err != nil {
		t.Fatalf("raw payload not preserved: %v", err)
	}
}

func TestClientFrameConstructors(t *testing.T) {
	t.Parallel()

	chunk := NewAudioChunk("Zm9v")
	data, err := json.Marshal(chunk)
	if err != nil {
		t.Fatalf("marshal audio chunk: %v", err)
	}
	if string(data) != `{"type":"audio-chunk","content":"Zm9v"}` {
		t.Fatalf("frame=%s", data)
	}

	end, err := json.Marshal(NewAudioEnd())
	if err != nil {
		t.Fatalf("marshal audio end: %v", err)
	}
	if string(end) != `{"type":"audio-end"}` {
		t.Fatalf("frame=%s", end)
	}

	text, err := json.Marshal(NewTextInput("ping"))
	if err != nil {
		t.Fatalf("marshal text input: %v", err)
	}
	if string(text) != `{"type":"text-input","content":"ping"}` {
		t.Fatalf("frame=%s", text)
	}
}

func TestValidStatus(t *testing.T) {
	t.Parallel()

	for _, s := range []string{StatusIdle, StatusRecording, StatusProcessing, StatusPlaying} {
		if !ValidStatus(s) {
			t.Fatalf("status %q should be valid", s)
		}
	}
	if ValidStatus("") || ValidStatus("paused") {
		t.Fatalf("invalid status accepted")
	}
}
