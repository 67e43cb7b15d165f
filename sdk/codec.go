package auralis

import (
	"encoding/base64"
	"io"

	"github.com/auralis-go/auralis-lite/pkg/core"
)

// EncodeChunk converts one raw captured audio chunk to its transport-safe
// base64 text encoding. It fails only when the chunk cannot be read;
// malformed-but-readable audio still encodes (the backend decides what to do
// with it).
func EncodeChunk(chunk io.Reader) (string, error) {
	data, err := io.ReadAll(chunk)
	if err != nil {
		return "", core.NewCodecError(err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
