// Command denoise removes broadband noise from PCM WAV files with a
// spectral gate.
//
// Usage:
//
//	denoise [flags] -in noisy.wav -out clean.wav
//
// Interactive mode browses a directory of WAV files instead:
//
//	denoise -tui -dir data -outdir data/denoised
//
// Examples:
//
//	denoise -in noisy.wav -out clean.wav
//	denoise -in noisy.wav -out clean.wav -threshold 0.05 -window 2048
//	denoise -tui -dir recordings
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cwbudde/algo-denoise/dsp/denoise"
	"github.com/cwbudde/algo-denoise/dsp/window"
	"github.com/cwbudde/algo-denoise/internal/ui"
	"github.com/cwbudde/algo-denoise/pcm"
	timestats "github.com/cwbudde/algo-denoise/stats/time"
	"github.com/cwbudde/algo-denoise/wav"
)

func main() {
	in := flag.String("in", "", "input WAV file")
	out := flag.String("out", "", "output WAV file")
	threshold := flag.Float64("threshold", denoise.DefaultThresholdFraction,
		"gate threshold as a fraction of the per-window peak magnitude")
	windowSize := flag.Int("window", denoise.DefaultWindowSize, "analysis window size in samples (power of two)")
	hopSize := flag.Int("hop", 0, "hop size in samples (default window/2)")
	windowName := flag.String("windowtype", "hann", "window function: rectangular, hann, hamming, blackman")
	quiet := flag.Bool("q", false, "suppress the level report")
	tui := flag.Bool("tui", false, "run the interactive terminal UI")
	dir := flag.String("dir", "data", "directory to browse in -tui mode")
	outDir := flag.String("outdir", "", "output directory in -tui mode (default <dir>/denoised)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: denoise [flags] -in noisy.wav -out clean.wav\n\n")
		fmt.Fprintf(os.Stderr, "Removes broadband noise from PCM WAV files with a spectral gate.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  denoise -in noisy.wav -out clean.wav\n")
		fmt.Fprintf(os.Stderr, "  denoise -in noisy.wav -out clean.wav -threshold 0.05 -window 2048\n")
		fmt.Fprintf(os.Stderr, "  denoise -tui -dir recordings\n")
	}
	flag.Parse()

	if *hopSize == 0 {
		*hopSize = *windowSize / 2
	}

	if *tui {
		od := *outDir
		if od == "" {
			od = *dir + "/denoised"
		}
		if err := ui.Run(*dir, od, *threshold, *windowSize, *hopSize); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *in == "" || *out == "" {
		flag.Usage()
		os.Exit(2)
	}

	wt, err := parseWindowType(*windowName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	if err := run(*in, *out, *threshold, *windowSize, *hopSize, wt, *quiet); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(in, out string, threshold float64, windowSize, hopSize int, wt window.Type, quiet bool) error {
	format, buf, err := wav.LoadFile(in)
	if err != nil {
		return err
	}

	d, err := denoise.New(
		denoise.WithThresholdFraction(threshold),
		denoise.WithWindowSize(windowSize),
		denoise.WithHopSize(hopSize),
		denoise.WithWindowType(wt),
	)
	if err != nil {
		return err
	}

	clean, err := d.Process(buf)
	if err != nil {
		return err
	}

	if err := wav.SaveFile(out, format, clean); err != nil {
		return err
	}

	if !quiet {
		report(os.Stdout, format, buf, clean)
	}

	return nil
}

func report(w *os.File, format pcm.Format, before, after *pcm.Buffer) {
	fmt.Fprintf(w, "%d Hz, %d channel(s), %s\n",
		format.SampleRate, format.Channels, format.Encoding)
	for ch := range before.Channels() {
		b := timestats.Calculate(before.Channel(ch))
		a := timestats.Calculate(after.Channel(ch))
		fmt.Fprintf(w, "channel %d: RMS %.5f -> %.5f (%.1f dB), peak %.5f -> %.5f\n",
			ch, b.RMS, a.RMS, timestats.ReductionDB(before.Channel(ch), after.Channel(ch)),
			b.Peak, a.Peak)
	}
}

func parseWindowType(name string) (window.Type, error) {
	switch name {
	case "rectangular":
		return window.TypeRectangular, nil
	case "hann":
		return window.TypeHann, nil
	case "hamming":
		return window.TypeHamming, nil
	case "blackman":
		return window.TypeBlackman, nil
	default:
		return 0, fmt.Errorf("unknown window type %q", name)
	}
}
