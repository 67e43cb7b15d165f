package wav

import (
	"encoding/binary"
	"fmt"
)

const headerSize = 44

// Format describes the PCM shape of a decoded WAV clip.
type Format struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
}

// Encode wraps little-endian PCM bytes in a minimal RIFF/WAVE container.
func Encode(pcm []byte, f Format) ([]byte, error) {
	if len(pcm) == 0 {
		return nil, fmt.Errorf("cannot encode empty audio payload")
	}
	if f.SampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", f.SampleRate)
	}
	if f.Channels <= 0 {
		f.Channels = 1
	}
	if f.BitsPerSample <= 0 {
		f.BitsPerSample = 16
	}

	blockAlign := f.Channels * f.BitsPerSample / 8
	byteRate := f.SampleRate * blockAlign

	out := make([]byte, 0, headerSize+len(pcm))
	out = append(out, 'R', 'I', 'F', 'F')
	out = binary.LittleEndian.AppendUint32(out, uint32(36+len(pcm)))
	out = append(out, 'W', 'A', 'V', 'E')
	out = append(out, 'f', 'm', 't', ' ')
	out = binary.LittleEndian.AppendUint32(out, 16)
	out = binary.LittleEndian.AppendUint16(out, 1) // PCM
	out = binary.LittleEndian.AppendUint16(out, uint16(f.Channels))
	out = binary.LittleEndian.AppendUint32(out, uint32(f.SampleRate))
	out = binary.LittleEndian.AppendUint32(out, uint32(byteRate))
	out = binary.LittleEndian.AppendUint16(out, uint16(blockAlign))
	out = binary.LittleEndian.AppendUint16(out, uint16(f.BitsPerSample))
	out = append(out, 'd', 'a', 't', 'a')
	out = binary.LittleEndian.AppendUint32(out, uint32(len(pcm)))
	out = append(out, pcm...)
	return out, nil
}

// Decode extracts the PCM payload and format from a RIFF/WAVE clip. It scans
// subchunks so clips with extra metadata (LIST, fact) still decode.
func Decode(data []byte) (Format, []byte, error) {
	if len(data) < 12 {
		return Format{}, nil, fmt.Errorf("wav data too short: %d bytes", len(data))
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return Format{}, nil, fmt.Errorf("not a RIFF/WAVE clip")
	}

	var f Format
	haveFmt := false
	offset := 12
	for offset+8 <= len(data) {
		id := string(data[offset : offset+4])
		size := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8
		if size < 0 || body+size > len(data) {
			return Format{}, nil, fmt.Errorf("truncated %q subchunk", id)
		}

		switch id {
		case "fmt ":
			if size < 16 {
				return Format{}, nil, fmt.Errorf("fmt subchunk too short: %d bytes", size)
			}
			audioFormat := binary.LittleEndian.Uint16(data[body : body+2])
			if audioFormat != 1 {
				return Format{}, nil, fmt.Errorf("unsupported audio format %d (PCM only)", audioFormat)
			}
			f.Channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			f.SampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			f.BitsPerSample = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
			haveFmt = true
		case "data":
			if !haveFmt {
				return Format{}, nil, fmt.Errorf("data subchunk before fmt")
			}
			if f.SampleRate <= 0 || f.Channels <= 0 || f.BitsPerSample <= 0 {
				return Format{}, nil, fmt.Errorf("invalid format: %+v", f)
			}
			return f, data[body : body+size], nil
		}

		// Subchunks are word aligned.
		offset = body + size
		if size%2 == 1 {
			offset++
		}
	}

	return Format{}, nil, fmt.Errorf("missing data subchunk")
}
