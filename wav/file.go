package wav

import (
	"fmt"
	"os"

	"github.com/cwbudde/algo-denoise/pcm"
)

// LoadFile reads and decodes a WAV file into a normalized sample buffer.
func LoadFile(path string) (pcm.Format, *pcm.Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return pcm.Format{}, nil, fmt.Errorf("wav: read %s: %w", path, err)
	}

	format, raw, err := Decode(data)
	if err != nil {
		return pcm.Format{}, nil, fmt.Errorf("wav: decode %s: %w", path, err)
	}

	buf, err := pcm.FromRaw(format, raw)
	if err != nil {
		return pcm.Format{}, nil, fmt.Errorf("wav: convert %s: %w", path, err)
	}

	return format, buf, nil
}

// SaveFile converts a sample buffer back to raw PCM and writes it as a
// canonical WAV file.
func SaveFile(path string, f pcm.Format, buf *pcm.Buffer) error {
	raw, err := pcm.ToRaw(f, buf)
	if err != nil {
		return fmt.Errorf("wav: convert for %s: %w", path, err)
	}

	data, err := Encode(f, raw)
	if err != nil {
		return fmt.Errorf("wav: encode %s: %w", path, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("wav: write %s: %w", path, err)
	}

	return nil
}
