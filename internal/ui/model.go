// Package ui implements the interactive terminal front-end for the denoiser.
package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cwbudde/algo-denoise/dsp/denoise"
	"github.com/cwbudde/algo-denoise/pcm"
	timestats "github.com/cwbudde/algo-denoise/stats/time"
	"github.com/cwbudde/algo-denoise/wav"
)

const (
	thresholdStep = 0.01
	thresholdMax  = 1.0
)

// Model represents the TUI state.
type Model struct {
	// File browser
	dir      string
	outDir   string
	files    []string
	selected int

	// Denoiser settings
	threshold  float64
	windowSize int
	hopSize    int

	// Run state
	running bool
	status  string

	// Last result
	result *Result

	// Dimensions
	width  int
	height int
}

// Result summarizes a completed denoise run.
type Result struct {
	Input       string
	Output      string
	SampleRate  int
	Channels    int
	InputRMS    float64
	OutputRMS   float64
	ReductionDB float64
}

// DoneMsg reports a finished denoise run.
type DoneMsg struct {
	Result *Result
	Err    error
}

// NewModel creates a TUI model browsing WAV files in dir. Denoised files are
// written to outDir under their original name.
func NewModel(dir, outDir string, threshold float64, windowSize, hopSize int) Model {
	return Model{
		dir:        dir,
		outDir:     outDir,
		threshold:  threshold,
		windowSize: windowSize,
		hopSize:    hopSize,
		status:     "Press <enter> to denoise the selected file",
	}
}

// Init scans the input directory.
func (m Model) Init() tea.Cmd {
	return m.scanFiles
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case filesMsg:
		m.files = msg.files
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else if len(m.files) == 0 {
			m.status = fmt.Sprintf("No .wav files in %s", m.dir)
		}
	case DoneMsg:
		m.running = false
		if msg.Err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.Err)
		} else {
			m.result = msg.Result
			m.status = fmt.Sprintf("Wrote %s", msg.Result.Output)
		}
	}

	return m, nil
}

// View renders the TUI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString("┌─ WAV Denoiser ───────────────────────────────────────┐\n")
	b.WriteString(m.renderFiles())
	b.WriteString("├──────────────────────────────────────────────────────┤\n")
	b.WriteString(fmt.Sprintf("│ Threshold: [%s] %.2f%-28s │\n",
		renderBar(m.threshold, thresholdMax, 10), m.threshold, ""))
	b.WriteString(fmt.Sprintf("│ Window: %d  Hop: %d%-30s │\n",
		m.windowSize, m.hopSize, ""))
	b.WriteString(m.renderResult())
	b.WriteString(fmt.Sprintf("│ %-52s │\n", truncate(m.status, 52)))
	b.WriteString("│ ↑/↓:File  ←/→:Threshold  enter:Denoise  q:Quit      │\n")
	b.WriteString("└──────────────────────────────────────────────────────┘\n")

	return b.String()
}

func (m Model) renderFiles() string {
	if len(m.files) == 0 {
		return "│ (no files)                                           │\n"
	}

	var b strings.Builder
	for i, f := range m.files {
		marker := "  "
		if i == m.selected {
			marker = ">>"
		}
		b.WriteString(fmt.Sprintf("│ %s %-49s │\n", marker, truncate(f, 49)))
	}

	return b.String()
}

func (m Model) renderResult() string {
	if m.result == nil {
		return ""
	}

	r := m.result

	return fmt.Sprintf("│ %d Hz, %d ch  RMS %.4f → %.4f  (%.1f dB)%-8s │\n",
		r.SampleRate, r.Channels, r.InputRMS, r.OutputRMS, r.ReductionDB, "")
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up":
		if m.selected > 0 {
			m.selected--
		}
	case "down":
		if m.selected+1 < len(m.files) {
			m.selected++
		}
	case "left":
		m.threshold -= thresholdStep
		if m.threshold < 0 {
			m.threshold = 0
		}
	case "right":
		m.threshold += thresholdStep
		if m.threshold > thresholdMax {
			m.threshold = thresholdMax
		}
	case "enter":
		if m.running || len(m.files) == 0 {
			return m, nil
		}
		m.running = true
		m.status = "Denoising..."
		return m, m.denoiseCmd(m.files[m.selected])
	}

	return m, nil
}

// denoiseCmd runs the full load/denoise/save pipeline off the UI goroutine.
func (m Model) denoiseCmd(name string) tea.Cmd {
	in := filepath.Join(m.dir, name)
	out := filepath.Join(m.outDir, name)
	threshold := m.threshold
	windowSize := m.windowSize
	hopSize := m.hopSize

	return func() tea.Msg {
		format, buf, err := wav.LoadFile(in)
		if err != nil {
			return DoneMsg{Err: err}
		}

		clean, err := denoise.Denoise(buf, threshold, windowSize, hopSize)
		if err != nil {
			return DoneMsg{Err: err}
		}

		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return DoneMsg{Err: err}
		}
		if err := wav.SaveFile(out, format, clean); err != nil {
			return DoneMsg{Err: err}
		}

		return DoneMsg{Result: &Result{
			Input:       in,
			Output:      out,
			SampleRate:  format.SampleRate,
			Channels:    format.Channels,
			InputRMS:    bufferRMS(buf),
			OutputRMS:   bufferRMS(clean),
			ReductionDB: timestats.ReductionDB(flatten(buf), flatten(clean)),
		}}
	}
}

type filesMsg struct {
	files []string
	err   error
}

// scanFiles lists the .wav files in the input directory.
func (m Model) scanFiles() tea.Msg {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return filesMsg{err: err}
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".wav") {
			files = append(files, e.Name())
		}
	}

	return filesMsg{files: files}
}

func bufferRMS(buf *pcm.Buffer) float64 {
	return timestats.RMS(flatten(buf))
}

func flatten(buf *pcm.Buffer) []float64 {
	var all []float64
	for ch := range buf.Channels() {
		all = append(all, buf.Channel(ch)...)
	}

	return all
}

func renderBar(value, max float64, width int) string {
	filled := int(value / max * float64(width))
	if filled > width {
		filled = width
	}

	var b strings.Builder
	for i := range width {
		if i < filled {
			b.WriteString("█")
		} else {
			b.WriteString("░")
		}
	}

	return b.String()
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}

	return s[:length-3] + "..."
}
