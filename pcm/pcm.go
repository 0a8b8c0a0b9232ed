package pcm

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-denoise/dsp/core"
)

// Errors returned by conversion functions.
var (
	ErrChannelLength       = errors.New("pcm: channel lengths differ")
	ErrInvalidFormat       = errors.New("pcm: invalid format")
	ErrMisalignedData      = errors.New("pcm: data size is not a whole number of frames")
	ErrUnsupportedEncoding = errors.New("pcm: unsupported sample encoding")
)

// Encoding is the closed set of supported integer sample encodings.
// WAV stores 8-bit samples unsigned with a 128 zero offset; wider samples
// are signed little-endian.
type Encoding int

const (
	Uint8 Encoding = iota
	Int16
	Int24
	Int32
)

// Bits returns the sample width in bits.
func (e Encoding) Bits() int {
	switch e {
	case Uint8:
		return 8
	case Int16:
		return 16
	case Int24:
		return 24
	case Int32:
		return 32
	default:
		return 0
	}
}

// Bytes returns the sample width in bytes.
func (e Encoding) Bytes() int { return e.Bits() / 8 }

// String returns the encoding name.
func (e Encoding) String() string {
	switch e {
	case Uint8:
		return "uint8"
	case Int16:
		return "int16"
	case Int24:
		return "int24"
	case Int32:
		return "int32"
	default:
		return "unknown"
	}
}

// EncodingForBits maps a bits-per-sample value to its Encoding.
func EncodingForBits(bits int) (Encoding, error) {
	switch bits {
	case 8:
		return Uint8, nil
	case 16:
		return Int16, nil
	case 24:
		return Int24, nil
	case 32:
		return Int32, nil
	default:
		return 0, fmt.Errorf("%w: %d bits", ErrUnsupportedEncoding, bits)
	}
}

// Format describes the shape of a PCM stream.
type Format struct {
	SampleRate int
	Channels   int
	Encoding   Encoding
}

// FrameSize returns the byte size of one interleaved sample frame.
func (f Format) FrameSize() int { return f.Channels * f.Encoding.Bytes() }

// Validate reports whether the format is internally consistent.
func (f Format) Validate() error {
	if f.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidFormat, f.SampleRate)
	}
	if f.Channels <= 0 {
		return fmt.Errorf("%w: channel count %d", ErrInvalidFormat, f.Channels)
	}
	if f.Encoding.Bits() == 0 {
		return fmt.Errorf("%w: %d", ErrUnsupportedEncoding, int(f.Encoding))
	}

	return nil
}

// Buffer holds de-interleaved normalized samples, one slice per channel.
// All channels have equal length; values are nominally in [-1, 1].
type Buffer struct {
	channels [][]float64
}

// NewBuffer returns a zero-filled buffer of the given shape.
func NewBuffer(channels, frames int) *Buffer {
	if channels < 0 {
		channels = 0
	}
	if frames < 0 {
		frames = 0
	}

	ch := make([][]float64, channels)
	for i := range ch {
		ch[i] = make([]float64, frames)
	}

	return &Buffer{channels: ch}
}

// FromChannels wraps existing channel slices without copying.
// All slices must have equal length.
func FromChannels(channels [][]float64) (*Buffer, error) {
	for i := 1; i < len(channels); i++ {
		if len(channels[i]) != len(channels[0]) {
			return nil, fmt.Errorf("%w: channel 0 has %d frames, channel %d has %d",
				ErrChannelLength, len(channels[0]), i, len(channels[i]))
		}
	}

	return &Buffer{channels: channels}, nil
}

// Channels returns the channel count.
func (b *Buffer) Channels() int { return len(b.channels) }

// Frames returns the per-channel sample count.
func (b *Buffer) Frames() int {
	if len(b.channels) == 0 {
		return 0
	}

	return len(b.channels[0])
}

// Channel returns the backing slice for channel i.
// Mutations are visible through the buffer.
func (b *Buffer) Channel(i int) []float64 { return b.channels[i] }

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	out := make([][]float64, len(b.channels))
	for i, ch := range b.channels {
		out[i] = append([]float64(nil), ch...)
	}

	return &Buffer{channels: out}
}

// FromRaw de-interleaves and normalizes raw little-endian PCM bytes.
//
// Signed samples of width W are divided by 2^(W-1); unsigned 8-bit samples
// are shifted by their 128 zero offset first. The raw size must be a whole
// number of frames.
func FromRaw(f Format, raw []byte) (*Buffer, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	frameSize := f.FrameSize()
	if len(raw)%frameSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes, frame size %d", ErrMisalignedData, len(raw), frameSize)
	}

	frames := len(raw) / frameSize
	buf := NewBuffer(f.Channels, frames)

	decode := decoderFor(f.Encoding)
	scale := 1 / float64(int64(1)<<(f.Encoding.Bits()-1))
	width := f.Encoding.Bytes()

	pos := 0
	for frame := range frames {
		for c := 0; c < f.Channels; c++ {
			buf.channels[c][frame] = float64(decode(raw[pos:])) * scale
			pos += width
		}
	}

	return buf, nil
}

// ToRaw normalizes back to interleaved little-endian bytes.
//
// Samples are scaled by 2^(W-1), rounded, and clamped to the representable
// integer range, so values pushed outside [-1, 1] by processing saturate
// instead of wrapping.
func ToRaw(f Format, b *Buffer) ([]byte, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	if b.Channels() != f.Channels {
		return nil, fmt.Errorf("%w: format has %d channels, buffer has %d",
			ErrInvalidFormat, f.Channels, b.Channels())
	}

	frames := b.Frames()
	for i := 1; i < b.Channels(); i++ {
		if len(b.channels[i]) != frames {
			return nil, fmt.Errorf("%w: channel 0 has %d frames, channel %d has %d",
				ErrChannelLength, frames, i, len(b.channels[i]))
		}
	}

	encode := encoderFor(f.Encoding)
	bits := f.Encoding.Bits()
	scale := float64(int64(1) << (bits - 1))
	lo := -scale
	hi := scale - 1
	width := f.Encoding.Bytes()

	raw := make([]byte, frames*f.FrameSize())
	pos := 0
	for frame := range frames {
		for c := 0; c < f.Channels; c++ {
			v := core.Clamp(math.Round(b.channels[c][frame]*scale), lo, hi)
			encode(raw[pos:], int32(v))
			pos += width
		}
	}

	return raw, nil
}

// decoderFor returns the little-endian integer reader for one encoding,
// selected once per conversion rather than per sample.
func decoderFor(e Encoding) func([]byte) int32 {
	switch e {
	case Uint8:
		return func(b []byte) int32 { return int32(b[0]) - 128 }
	case Int16:
		return func(b []byte) int32 { return int32(int16(uint16(b[0]) | uint16(b[1])<<8)) }
	case Int24:
		return func(b []byte) int32 {
			v := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
			// sign-extend from 24 bits
			return v << 8 >> 8
		}
	default:
		return func(b []byte) int32 {
			return int32(uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24)
		}
	}
}

func encoderFor(e Encoding) func([]byte, int32) {
	switch e {
	case Uint8:
		return func(b []byte, v int32) { b[0] = byte(v + 128) }
	case Int16:
		return func(b []byte, v int32) {
			b[0] = byte(v)
			b[1] = byte(v >> 8)
		}
	case Int24:
		return func(b []byte, v int32) {
			b[0] = byte(v)
			b[1] = byte(v >> 8)
			b[2] = byte(v >> 16)
		}
	default:
		return func(b []byte, v int32) {
			b[0] = byte(v)
			b[1] = byte(v >> 8)
			b[2] = byte(v >> 16)
			b[3] = byte(v >> 24)
		}
	}
}
