package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestNewModelDefaults(t *testing.T) {
	m := NewModel("in", "out", 0.1, 1024, 512)

	if m.threshold != 0.1 {
		t.Errorf("threshold = %f, want 0.1", m.threshold)
	}
	if m.running {
		t.Error("expected running to be false initially")
	}
	if m.selected != 0 {
		t.Errorf("selected = %d, want 0", m.selected)
	}
}

func TestThresholdAdjustment(t *testing.T) {
	m := NewModel("in", "out", 0.1, 1024, 512)

	next, _ := m.Update(keyMsg("right"))
	m = next.(Model)
	if m.threshold != 0.11 {
		t.Errorf("threshold after right = %f, want 0.11", m.threshold)
	}

	next, _ = m.Update(keyMsg("left"))
	m = next.(Model)
	if m.threshold != 0.1 {
		t.Errorf("threshold after left = %f, want 0.1", m.threshold)
	}
}

func TestThresholdClampedAtZero(t *testing.T) {
	m := NewModel("in", "out", 0.0, 1024, 512)

	next, _ := m.Update(keyMsg("left"))
	m = next.(Model)
	if m.threshold != 0 {
		t.Errorf("threshold clamped low = %f, want 0", m.threshold)
	}
}

func TestThresholdClampedAtMax(t *testing.T) {
	m := NewModel("in", "out", 1.0, 1024, 512)

	next, _ := m.Update(keyMsg("right"))
	m = next.(Model)
	if m.threshold != 1.0 {
		t.Errorf("threshold clamped high = %f, want 1.0", m.threshold)
	}
}

func TestFileSelection(t *testing.T) {
	m := NewModel("in", "out", 0.1, 1024, 512)
	next, _ := m.Update(filesMsg{files: []string{"a.wav", "b.wav", "c.wav"}})
	m = next.(Model)

	next, _ = m.Update(keyMsg("down"))
	m = next.(Model)
	if m.selected != 1 {
		t.Errorf("selected after down = %d, want 1", m.selected)
	}

	next, _ = m.Update(keyMsg("down"))
	m = next.(Model)
	next, _ = m.Update(keyMsg("down"))
	m = next.(Model)
	if m.selected != 2 {
		t.Errorf("selected clamped = %d, want 2", m.selected)
	}

	next, _ = m.Update(keyMsg("up"))
	m = next.(Model)
	if m.selected != 1 {
		t.Errorf("selected after up = %d, want 1", m.selected)
	}
}

func TestQuitKeys(t *testing.T) {
	m := NewModel("in", "out", 0.1, 1024, 512)

	for _, key := range []string{"q", "ctrl+c"} {
		var msg tea.KeyMsg
		if key == "ctrl+c" {
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		} else {
			msg = keyMsg(key)
		}

		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Errorf("key %q should produce a quit command", key)
			continue
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("key %q command should be tea.Quit", key)
		}
	}
}

func TestEnterWithoutFilesDoesNothing(t *testing.T) {
	m := NewModel("in", "out", 0.1, 1024, 512)

	next, cmd := m.Update(keyMsg("enter"))
	m = next.(Model)
	if cmd != nil {
		t.Error("enter with no files should not start a run")
	}
	if m.running {
		t.Error("model should not be running")
	}
}

func TestEnterStartsRun(t *testing.T) {
	m := NewModel("in", "out", 0.1, 1024, 512)
	next, _ := m.Update(filesMsg{files: []string{"a.wav"}})
	m = next.(Model)

	next, cmd := m.Update(keyMsg("enter"))
	m = next.(Model)
	if !m.running {
		t.Error("model should be running after enter")
	}
	if cmd == nil {
		t.Error("enter should return a denoise command")
	}

	// A second enter while running must not launch another run.
	_, cmd = m.Update(keyMsg("enter"))
	if cmd != nil {
		t.Error("enter while running should be ignored")
	}
}

func TestDoneMsgUpdatesResult(t *testing.T) {
	m := NewModel("in", "out", 0.1, 1024, 512)
	m.running = true

	r := &Result{Output: "out/a.wav", SampleRate: 44100, Channels: 2}
	next, _ := m.Update(DoneMsg{Result: r})
	m = next.(Model)

	if m.running {
		t.Error("running should be cleared after DoneMsg")
	}
	if m.result != r {
		t.Error("result not stored")
	}
	if !strings.Contains(m.status, "out/a.wav") {
		t.Errorf("status %q should mention output path", m.status)
	}
}

func TestViewRendersState(t *testing.T) {
	m := NewModel("in", "out", 0.25, 2048, 1024)
	next, _ := m.Update(filesMsg{files: []string{"noisy.wav"}})
	m = next.(Model)

	view := m.View()
	if !strings.Contains(view, "noisy.wav") {
		t.Error("view should list files")
	}
	if !strings.Contains(view, "0.25") {
		t.Error("view should show threshold")
	}
	if !strings.Contains(view, "2048") {
		t.Error("view should show window size")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate short = %q", got)
	}
	if got := truncate("a very long file name.wav", 10); got != "a very ..." {
		t.Errorf("truncate long = %q", got)
	}
}
