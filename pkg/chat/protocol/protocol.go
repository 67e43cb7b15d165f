package protocol

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Frame type tags used on the wire, client -> server.
const (
	TypeAudioChunk = "audio-chunk"
	TypeAudioEnd   = "audio-end"
	TypeTextInput  = "text-input"
)

// Frame type tags used on the wire, server -> client. The audio-chunk tag is
// shared by both directions.
const (
	TypeUserMessage = "user-message"
	TypeTextUpdate  = "text-update"
	TypeStatus      = "status"
)

// Session status values carried by status frames.
const (
	StatusIdle       = "idle"
	StatusRecording  = "recording"
	StatusProcessing = "processing"
	StatusPlaying    = "playing"
)

type DecodeError struct {
	Code    string
	Message string
	Param   string
}

func (e *DecodeError) Error() string {
	if e == nil {
		return ""
	}
	if strings.TrimSpace(e.Param) == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Param)
}

func badFrame(message, param string) *DecodeError {
	return &DecodeError{Code: "bad_frame", Message: message, Param: param}
}

// ClientAudioChunk carries one base64-encoded captured audio chunk.
type ClientAudioChunk struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// ClientAudioEnd marks the end of a capture session.
type ClientAudioEnd struct {
	Type string `json:"type"`
}

// ClientTextInput carries a one-shot typed user message.
type ClientTextInput struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// NewAudioChunk builds an audio-chunk frame around an encoded payload.
func NewAudioChunk(content string) ClientAudioChunk {
	return ClientAudioChunk{Type: TypeAudioChunk, Content: content}
}

// NewAudioEnd builds the end-of-capture marker frame.
func NewAudioEnd() ClientAudioEnd {
	return ClientAudioEnd{Type: TypeAudioEnd}
}

// NewTextInput builds a text-input frame.
func NewTextInput(content string) ClientTextInput {
	return ClientTextInput{Type: TypeTextInput, Content: content}
}

// ServerUserMessage is the backend's authoritative user utterance, echoing
// text input or carrying a speech transcription.
type ServerUserMessage struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// ServerTextUpdate is one streaming assistant-text delta.
type ServerTextUpdate struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// ServerAudioChunk carries one complete base64-encoded playable clip.
type ServerAudioChunk struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// ServerStatus announces a backend-driven session status change.
type ServerStatus struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// ServerUnknown wraps a frame with an unrecognized type tag. Callers that
// want to stay forward compatible ignore it.
type ServerUnknown struct {
	Type string
	Raw  json.RawMessage
}

// ValidStatus reports whether s is one of the four session status values.
func ValidStatus(s string) bool {
	switch s {
	case StatusIdle, StatusRecording, StatusProcessing, StatusPlaying:
		return true
	default:
		return false
	}
}

// DecodeServerEvent decodes one inbound JSON frame into its typed event.
// Frames with an unrecognized type decode to ServerUnknown without error;
// frames that fail to parse as a known shape return a *DecodeError.
func DecodeServerEvent(data []byte) (any, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, badFrame("invalid json frame", "")
	}
	typ := strings.TrimSpace(envelope.Type)
	if typ == "" {
		return nil, badFrame("missing type", "type")
	}

	switch typ {
	case TypeUserMessage:
		var msg ServerUserMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, badFrame("invalid user-message frame", "")
		}
		return msg, nil
	case TypeTextUpdate:
		var msg ServerTextUpdate
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, badFrame("invalid text-update frame", "")
		}
		return msg, nil
	case TypeAudioChunk:
		var msg ServerAudioChunk
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, badFrame("invalid audio-chunk frame", "")
		}
		if strings.TrimSpace(msg.Content) == "" {
			return nil, badFrame("audio-chunk.content is required", "content")
		}
		return msg, nil
	case TypeStatus:
		var msg ServerStatus
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, badFrame("invalid status frame", "")
		}
		if !ValidStatus(msg.Content) {
			return nil, badFrame("unknown status value", "content")
		}
		return msg, nil
	default:
		return ServerUnknown{
			Type: typ,
			Raw:  append(json.RawMessage(nil), data...),
		}, nil
	}
}
