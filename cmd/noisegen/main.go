// Command noisegen adds Gaussian noise to a PCM WAV file, producing test
// material for the denoiser.
//
// Usage:
//
//	noisegen [flags] -in clean.wav -out noisy.wav
//
// Examples:
//
//	noisegen -in clean.wav -out noisy.wav
//	noisegen -in clean.wav -out noisy.wav -level 0.02 -seed 42
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cwbudde/algo-denoise/dsp/signal"
	"github.com/cwbudde/algo-denoise/pcm"
	"github.com/cwbudde/algo-denoise/wav"
)

func main() {
	in := flag.String("in", "", "input WAV file")
	out := flag.String("out", "", "output WAV file")
	level := flag.Float64("level", 0.05, "noise standard deviation in normalized amplitude")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: noisegen [flags] -in clean.wav -out noisy.wav\n\n")
		fmt.Fprintf(os.Stderr, "Adds Gaussian noise to a PCM WAV file.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  noisegen -in clean.wav -out noisy.wav -level 0.02 -seed 42\n")
	}
	flag.Parse()

	if *in == "" || *out == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*in, *out, *level, *seed); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(in, out string, level float64, seed int64) error {
	format, buf, err := wav.LoadFile(in)
	if err != nil {
		return err
	}

	channels := make([][]float64, buf.Channels())
	for ch := range buf.Channels() {
		// Per-channel seed offset keeps stereo noise uncorrelated.
		gen := signal.NewGenerator(float64(format.SampleRate), signal.WithSeed(seed+int64(ch)))

		samples := buf.Channel(ch)
		if len(samples) == 0 {
			channels[ch] = []float64{}
			continue
		}

		noise, err := gen.GaussianNoise(level, len(samples))
		if err != nil {
			return err
		}

		noisy, err := signal.MixClipped(samples, noise)
		if err != nil {
			return err
		}
		channels[ch] = noisy
	}

	noisyBuf, err := pcm.FromChannels(channels)
	if err != nil {
		return err
	}

	return wav.SaveFile(out, format, noisyBuf)
}
