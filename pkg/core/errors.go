package core

import (
	"errors"
	"fmt"
)

// Error represents a canonical client error.
type Error struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    string    `json:"code,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (code: %s)", e.Type, e.Message, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// ErrorType categorizes errors.
type ErrorType string

const (
	ErrChannelUnavailable ErrorType = "channel_unavailable"
	ErrEmptyInput         ErrorType = "empty_input"
	ErrCodec              ErrorType = "codec_error"
	ErrPlayback           ErrorType = "playback_failure"
	ErrMalformedEvent     ErrorType = "malformed_event"
	ErrCaptureDenied      ErrorType = "capture_denied"
)

// NewChannelUnavailableError creates an error for sends attempted while the
// channel is not open.
func NewChannelUnavailableError(message string) *Error {
	return &Error{
		Type:    ErrChannelUnavailable,
		Message: message,
	}
}

// NewEmptyInputError creates an error for blank text submissions.
func NewEmptyInputError(message string) *Error {
	return &Error{
		Type:    ErrEmptyInput,
		Message: message,
	}
}

// NewCodecError creates an error for audio chunks that could not be encoded.
func NewCodecError(underlying error) *Error {
	return &Error{
		Type:    ErrCodec,
		Message: fmt.Sprintf("encode audio chunk: %v", underlying),
	}
}

// NewPlaybackError creates an error for clips the output sink rejected.
func NewPlaybackError(underlying error) *Error {
	return &Error{
		Type:    ErrPlayback,
		Message: fmt.Sprintf("play audio clip: %v", underlying),
	}
}

// NewMalformedEventError creates an error for inbound frames that failed to
// decode as a known event shape.
func NewMalformedEventError(underlying error) *Error {
	return &Error{
		Type:    ErrMalformedEvent,
		Message: fmt.Sprintf("decode inbound event: %v", underlying),
	}
}

// NewCaptureDeniedError creates an error for capture sources that refused to
// start.
func NewCaptureDeniedError(underlying error) *Error {
	return &Error{
		Type:    ErrCaptureDenied,
		Message: fmt.Sprintf("start audio capture: %v", underlying),
	}
}

// IsType reports whether err is (or wraps) an *Error of the given type.
func IsType(err error, t ErrorType) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Type == t
	}
	return false
}
