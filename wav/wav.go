package wav

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cwbudde/algo-denoise/pcm"
)

// Errors returned by the codec. All of them abort decoding; no partial
// result is ever returned alongside an error.
var (
	ErrBadMagic         = errors.New("wav: bad container magic")
	ErrUnsupportedCodec = errors.New("wav: unsupported codec tag, only uncompressed PCM is handled")
	ErrTruncatedData    = errors.New("wav: declared chunk size exceeds remaining bytes")
	ErrMissingChunk     = errors.New("wav: required chunk not found")
	ErrBadAlignment     = errors.New("wav: data size is not a whole number of frames")
)

const (
	headerSize   = 44 // canonical RIFF + fmt(16) + data header layout
	fmtChunkSize = 16
	tagPCM       = 1
)

// Decode parses a RIFF/WAVE container and returns its format plus the raw
// interleaved PCM payload.
//
// Chunks other than "fmt " and "data" are skipped, so containers carrying
// LIST/INFO or other metadata decode fine. The data chunk's declared size
// must fit in the remaining bytes and be a whole number of frames.
func Decode(data []byte) (pcm.Format, []byte, error) {
	if len(data) < 12 {
		return pcm.Format{}, nil, fmt.Errorf("%w: %d bytes is too short for a RIFF header", ErrTruncatedData, len(data))
	}

	if string(data[0:4]) != "RIFF" {
		return pcm.Format{}, nil, fmt.Errorf("%w: expected \"RIFF\", found %q", ErrBadMagic, data[0:4])
	}
	if string(data[8:12]) != "WAVE" {
		return pcm.Format{}, nil, fmt.Errorf("%w: expected \"WAVE\", found %q", ErrBadMagic, data[8:12])
	}

	var (
		format  pcm.Format
		haveFmt bool
		payload []byte
	)

	offset := 12
	for offset+8 <= len(data) {
		id := string(data[offset : offset+4])
		size := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8

		if size > len(data)-body {
			if id == "data" || id == "fmt " {
				return pcm.Format{}, nil, fmt.Errorf("%w: %q chunk declares %d bytes, %d remain",
					ErrTruncatedData, id, size, len(data)-body)
			}
			// A malformed trailing chunk we were going to skip anyway.
			break
		}

		switch id {
		case "fmt ":
			f, err := parseFormatChunk(data[body : body+size])
			if err != nil {
				return pcm.Format{}, nil, err
			}
			format = f
			haveFmt = true
		case "data":
			payload = data[body : body+size]
		}

		// Chunks are word-aligned; odd sizes carry a pad byte.
		offset = body + size + size%2
	}

	if !haveFmt {
		return pcm.Format{}, nil, fmt.Errorf("%w: \"fmt \"", ErrMissingChunk)
	}
	if payload == nil {
		return pcm.Format{}, nil, fmt.Errorf("%w: \"data\"", ErrMissingChunk)
	}

	if len(payload)%format.FrameSize() != 0 {
		return pcm.Format{}, nil, fmt.Errorf("%w: %d bytes, frame size %d",
			ErrBadAlignment, len(payload), format.FrameSize())
	}

	return format, payload, nil
}

func parseFormatChunk(chunk []byte) (pcm.Format, error) {
	if len(chunk) < fmtChunkSize {
		return pcm.Format{}, fmt.Errorf("%w: \"fmt \" chunk has %d bytes, need %d",
			ErrTruncatedData, len(chunk), fmtChunkSize)
	}

	tag := binary.LittleEndian.Uint16(chunk[0:2])
	if tag != tagPCM {
		return pcm.Format{}, fmt.Errorf("%w: tag %d", ErrUnsupportedCodec, tag)
	}

	channels := int(binary.LittleEndian.Uint16(chunk[2:4]))
	sampleRate := int(binary.LittleEndian.Uint32(chunk[4:8]))
	bits := int(binary.LittleEndian.Uint16(chunk[14:16]))

	enc, err := pcm.EncodingForBits(bits)
	if err != nil {
		return pcm.Format{}, fmt.Errorf("%w: %d bits per sample", ErrUnsupportedCodec, bits)
	}

	f := pcm.Format{SampleRate: sampleRate, Channels: channels, Encoding: enc}
	if err := f.Validate(); err != nil {
		return pcm.Format{}, fmt.Errorf("wav: invalid \"fmt \" chunk: %w", err)
	}

	return f, nil
}

// Encode serializes raw PCM bytes into a canonical RIFF/WAVE container:
// 44-byte header with a 16-byte fmt chunk followed by the data chunk, with
// declared sizes exactly matching the payload, regardless of the chunk
// layout any decoded source used.
func Encode(f pcm.Format, raw []byte) ([]byte, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if len(raw)%f.FrameSize() != 0 {
		return nil, fmt.Errorf("%w: %d bytes, frame size %d", ErrBadAlignment, len(raw), f.FrameSize())
	}

	bits := f.Encoding.Bits()
	blockAlign := f.FrameSize()
	byteRate := f.SampleRate * blockAlign

	out := make([]byte, headerSize+len(raw))

	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], uint32(headerSize-8+len(raw)))
	copy(out[8:12], "WAVE")

	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:20], fmtChunkSize)
	binary.LittleEndian.PutUint16(out[20:22], tagPCM)
	binary.LittleEndian.PutUint16(out[22:24], uint16(f.Channels))
	binary.LittleEndian.PutUint32(out[24:28], uint32(f.SampleRate))
	binary.LittleEndian.PutUint32(out[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:36], uint16(bits))

	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:44], uint32(len(raw)))
	copy(out[headerSize:], raw)

	return out, nil
}
