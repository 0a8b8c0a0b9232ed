package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/cwbudde/algo-denoise/pcm"
)

func testFormat() pcm.Format {
	return pcm.Format{SampleRate: 8000, Channels: 1, Encoding: pcm.Int16}
}

// buildContainer assembles a RIFF/WAVE byte stream from arbitrary chunks,
// so tests can exercise non-canonical layouts.
func buildContainer(chunks ...[]byte) []byte {
	var body bytes.Buffer
	body.WriteString("WAVE")
	for _, c := range chunks {
		body.Write(c)
	}

	var out bytes.Buffer
	out.WriteString("RIFF")
	_ = binary.Write(&out, binary.LittleEndian, uint32(body.Len()))
	out.Write(body.Bytes())

	return out.Bytes()
}

func chunk(id string, body []byte) []byte {
	var out bytes.Buffer
	out.WriteString(id)
	_ = binary.Write(&out, binary.LittleEndian, uint32(len(body)))
	out.Write(body)
	if len(body)%2 == 1 {
		out.WriteByte(0) // pad byte
	}

	return out.Bytes()
}

func fmtChunk(tag, channels uint16, sampleRate uint32, bits uint16) []byte {
	body := make([]byte, 16)
	binary.LittleEndian.PutUint16(body[0:2], tag)
	binary.LittleEndian.PutUint16(body[2:4], channels)
	binary.LittleEndian.PutUint32(body[4:8], sampleRate)
	binary.LittleEndian.PutUint32(body[8:12], sampleRate*uint32(channels)*uint32(bits)/8)
	binary.LittleEndian.PutUint16(body[12:14], channels*bits/8)
	binary.LittleEndian.PutUint16(body[14:16], bits)

	return chunk("fmt ", body)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	f := pcm.Format{SampleRate: 44100, Channels: 2, Encoding: pcm.Int16}
	raw := make([]byte, 32)
	for i := range raw {
		raw[i] = byte(i * 7)
	}

	data, err := Encode(f, raw)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(data) != 44+len(raw) {
		t.Fatalf("container size = %d, want %d", len(data), 44+len(raw))
	}

	gotFormat, gotRaw, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if gotFormat != f {
		t.Errorf("format = %+v, want %+v", gotFormat, f)
	}
	if !bytes.Equal(gotRaw, raw) {
		t.Error("payload does not round-trip")
	}
}

func TestDecodeSkipsUnknownChunks(t *testing.T) {
	payload := []byte{0x01, 0x02, 0x03, 0x04}
	data := buildContainer(
		chunk("JUNK", []byte{0xDE, 0xAD, 0xBE}), // odd length, needs padding
		fmtChunk(1, 1, 8000, 16),
		chunk("LIST", []byte("INFOsomething")),
		chunk("data", payload),
	)

	format, raw, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if format != testFormat() {
		t.Errorf("format = %+v, want %+v", format, testFormat())
	}
	if !bytes.Equal(raw, payload) {
		t.Errorf("payload = %v, want %v", raw, payload)
	}
}

func TestDecodeCanonicalizesOnEncode(t *testing.T) {
	// A container with extra chunks re-encodes to the fixed 44-byte layout.
	payload := []byte{1, 0, 2, 0}
	messy := buildContainer(
		chunk("LIST", []byte("INFO")),
		fmtChunk(1, 1, 8000, 16),
		chunk("data", payload),
	)

	format, raw, err := Decode(messy)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	clean, err := Encode(format, raw)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(clean) != 44+len(payload) {
		t.Fatalf("canonical size = %d, want %d", len(clean), 44+len(payload))
	}
	if got := binary.LittleEndian.Uint32(clean[40:44]); got != uint32(len(payload)) {
		t.Errorf("declared data size = %d, want %d", got, len(payload))
	}
	if got := binary.LittleEndian.Uint32(clean[4:8]); got != uint32(36+len(payload)) {
		t.Errorf("declared RIFF size = %d, want %d", got, 36+len(payload))
	}
}

func TestDecodeBadMagic(t *testing.T) {
	good, err := Encode(testFormat(), []byte{0, 0})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	riff := append([]byte(nil), good...)
	copy(riff[0:4], "RIFX")
	if _, _, err := Decode(riff); !errors.Is(err, ErrBadMagic) {
		t.Errorf("corrupt outer magic error = %v, want ErrBadMagic", err)
	}

	wave := append([]byte(nil), good...)
	copy(wave[8:12], "AVI ")
	if _, _, err := Decode(wave); !errors.Is(err, ErrBadMagic) {
		t.Errorf("corrupt format magic error = %v, want ErrBadMagic", err)
	}
}

func TestDecodeTooShort(t *testing.T) {
	if _, _, err := Decode([]byte("RIFF")); !errors.Is(err, ErrTruncatedData) {
		t.Errorf("error = %v, want ErrTruncatedData", err)
	}
}

func TestDecodeUnsupportedCodec(t *testing.T) {
	data := buildContainer(
		fmtChunk(3, 1, 8000, 32), // IEEE float tag
		chunk("data", make([]byte, 8)),
	)
	if _, _, err := Decode(data); !errors.Is(err, ErrUnsupportedCodec) {
		t.Errorf("float tag error = %v, want ErrUnsupportedCodec", err)
	}

	data = buildContainer(
		fmtChunk(1, 1, 8000, 12), // PCM but unusable width
		chunk("data", make([]byte, 8)),
	)
	if _, _, err := Decode(data); !errors.Is(err, ErrUnsupportedCodec) {
		t.Errorf("12-bit error = %v, want ErrUnsupportedCodec", err)
	}
}

func TestDecodeTruncatedData(t *testing.T) {
	data := buildContainer(
		fmtChunk(1, 1, 8000, 16),
		chunk("data", make([]byte, 16)),
	)
	// Inflate the declared data size past the actual bytes.
	idx := bytes.Index(data, []byte("data"))
	binary.LittleEndian.PutUint32(data[idx+4:idx+8], 1<<20)

	if _, _, err := Decode(data); !errors.Is(err, ErrTruncatedData) {
		t.Errorf("error = %v, want ErrTruncatedData", err)
	}
}

func TestDecodeMissingChunks(t *testing.T) {
	noData := buildContainer(fmtChunk(1, 1, 8000, 16))
	if _, _, err := Decode(noData); !errors.Is(err, ErrMissingChunk) {
		t.Errorf("missing data error = %v, want ErrMissingChunk", err)
	}

	noFmt := buildContainer(chunk("data", make([]byte, 4)))
	if _, _, err := Decode(noFmt); !errors.Is(err, ErrMissingChunk) {
		t.Errorf("missing fmt error = %v, want ErrMissingChunk", err)
	}
}

func TestDecodeMisalignedData(t *testing.T) {
	data := buildContainer(
		fmtChunk(1, 2, 8000, 16), // frame size 4
		chunk("data", make([]byte, 6)),
	)
	if _, _, err := Decode(data); !errors.Is(err, ErrBadAlignment) {
		t.Errorf("error = %v, want ErrBadAlignment", err)
	}
}

func TestEncodeRejectsMisalignedPayload(t *testing.T) {
	if _, err := Encode(testFormat(), make([]byte, 3)); !errors.Is(err, ErrBadAlignment) {
		t.Errorf("error = %v, want ErrBadAlignment", err)
	}
}

func TestEncodeHeaderFields(t *testing.T) {
	f := pcm.Format{SampleRate: 48000, Channels: 2, Encoding: pcm.Int24}
	data, err := Encode(f, make([]byte, 12))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	if got := binary.LittleEndian.Uint16(data[22:24]); got != 2 {
		t.Errorf("channels = %d, want 2", got)
	}
	if got := binary.LittleEndian.Uint32(data[24:28]); got != 48000 {
		t.Errorf("sample rate = %d, want 48000", got)
	}
	if got := binary.LittleEndian.Uint32(data[28:32]); got != 48000*6 {
		t.Errorf("byte rate = %d, want %d", got, 48000*6)
	}
	if got := binary.LittleEndian.Uint16(data[32:34]); got != 6 {
		t.Errorf("block align = %d, want 6", got)
	}
	if got := binary.LittleEndian.Uint16(data[34:36]); got != 24 {
		t.Errorf("bits per sample = %d, want 24", got)
	}
}
