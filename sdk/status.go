package auralis

import "github.com/auralis-go/auralis-lite/pkg/chat/protocol"

// Status is the session-wide activity state. Exactly one value is active at
// any instant.
type Status string

const (
	StatusIdle       Status = protocol.StatusIdle
	StatusRecording  Status = protocol.StatusRecording
	StatusProcessing Status = protocol.StatusProcessing
	StatusPlaying    Status = protocol.StatusPlaying
)

func (s Status) String() string { return string(s) }
