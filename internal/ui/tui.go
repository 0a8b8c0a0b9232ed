package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive denoiser over the WAV files in dir, writing
// results to outDir. It blocks until the user quits.
func Run(dir, outDir string, threshold float64, windowSize, hopSize int) error {
	p := tea.NewProgram(NewModel(dir, outDir, threshold, windowSize, hopSize), tea.WithAltScreen())
	_, err := p.Run()

	return err
}
