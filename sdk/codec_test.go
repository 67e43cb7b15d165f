package auralis

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("capture device gone")
}

func TestEncodeChunk(t *testing.T) {
	t.Parallel()

	payload, err := EncodeChunk(strings.NewReader("raw pcm bytes"))
	if err != nil {
		t.Fatalf("EncodeChunk returned error: %v", err)
	}
	want := base64.StdEncoding.EncodeToString([]byte("raw pcm bytes"))
	if payload != want {
		t.Errorf("payload = %q, want %q", payload, want)
	}
}

func TestEncodeChunkEmpty(t *testing.T) {
	t.Parallel()

	payload, err := EncodeChunk(strings.NewReader(""))
	if err != nil {
		t.Fatalf("EncodeChunk returned error: %v", err)
	}
	if payload != "" {
		t.Errorf("payload = %q, want empty", payload)
	}
}

func TestEncodeChunkReadFailure(t *testing.T) {
	t.Parallel()

	_, err := EncodeChunk(failingReader{})
	if err == nil {
		t.Fatal("expected error from failing reader")
	}
	if !IsType(err, ErrCodec) {
		t.Errorf("error type = %v, want %s", err, ErrCodec)
	}
}
