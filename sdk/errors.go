package auralis

import (
	"fmt"
	"net/url"

	"github.com/auralis-go/auralis-lite/pkg/core"
)

// SDK-level error type that wraps core errors
type Error = core.Error

// Error types
const (
	ErrChannelUnavailable = core.ErrChannelUnavailable
	ErrEmptyInput         = core.ErrEmptyInput
	ErrCodec              = core.ErrCodec
	ErrPlayback           = core.ErrPlayback
	ErrMalformedEvent     = core.ErrMalformedEvent
	ErrCaptureDenied      = core.ErrCaptureDenied
)

// Error constructors
var (
	NewChannelUnavailableError = core.NewChannelUnavailableError
	NewEmptyInputError         = core.NewEmptyInputError
	NewCodecError              = core.NewCodecError
	NewPlaybackError           = core.NewPlaybackError
	NewMalformedEventError     = core.NewMalformedEventError
	NewCaptureDeniedError      = core.NewCaptureDeniedError
)

// IsType reports whether err is (or wraps) a canonical client error of the
// given type.
var IsType = core.IsType

// TransportError represents transport-level failures (DNS, timeouts,
// connection reset, TLS handshake, etc.) while dialing the backend.
//
// Use errors.As(err, &TransportError{}) to distinguish transport failures
// from canonical client errors (*core.Error).
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	switch {
	case e == nil:
		return ""
	case e.Op != "" && e.URL != "":
		return fmt.Sprintf("transport error during %s %s: %v", e.Op, redactURLUserInfo(e.URL), e.Err)
	case e.Op != "":
		return fmt.Sprintf("transport error during %s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("transport error: %v", e.Err)
	}
}

func (e *TransportError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func redactURLUserInfo(raw string) string {
	if raw == "" {
		return raw
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil {
		return raw
	}
	parsed.User = nil
	return parsed.String()
}
