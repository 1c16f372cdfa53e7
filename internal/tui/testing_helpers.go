package tui

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nbtree/nbtree/internal/config"
	"github.com/nbtree/nbtree/internal/session"
)

// minimalNotebook is the smallest valid nbformat 4 document.
const minimalNotebook = `{"cells":[],"metadata":{},"nbformat":4,"nbformat_minor":5}`

// newTestModel creates a Model browsing a temp directory seeded with the
// given notebooks, with config paths isolated from the real home directory.
func newTestModel(t *testing.T, notebooks map[string]string) *Model {
	t.Helper()

	dir := t.TempDir()
	for name, content := range notebooks {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write notebook %s: %v", name, err)
		}
	}

	confDir := t.TempDir()
	origKeymap := config.KeymapPath
	origSession := config.SessionPath
	origDB := config.DatabasePath
	config.KeymapPath = filepath.Join(confDir, "keymap.json")
	config.SessionPath = filepath.Join(confDir, "session.json")
	config.DatabasePath = filepath.Join(confDir, "nbtree.db")
	t.Cleanup(func() {
		config.KeymapPath = origKeymap
		config.SessionPath = origSession
		config.DatabasePath = origDB
	})

	mgr := session.NewManager()
	if err := mgr.Load(); err != nil {
		t.Fatalf("Failed to load session: %v", err)
	}

	m, err := New(mgr, Options{Dir: dir, Version: "test-version"})
	if err != nil {
		t.Fatalf("Failed to create test model: %v", err)
	}
	t.Cleanup(m.Cleanup)

	m.width = 100
	m.height = 30
	m.updateViewports()
	return m
}

// keyMsg converts a chord string into the key message that produces it.
func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "delete":
		return tea.KeyMsg{Type: tea.KeyDelete}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "home":
		return tea.KeyMsg{Type: tea.KeyHome}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+d":
		return tea.KeyMsg{Type: tea.KeyCtrlD}
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}
	case "ctrl+k":
		return tea.KeyMsg{Type: tea.KeyCtrlK}
	case "ctrl+a":
		return tea.KeyMsg{Type: tea.KeyCtrlA}
	case "ctrl+e":
		return tea.KeyMsg{Type: tea.KeyCtrlE}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// press dispatches one chord and returns the resulting command.
func press(t *testing.T, m *Model, chord string) tea.Cmd {
	t.Helper()
	return m.handleKeyPress(keyMsg(chord))
}

// pressAndRun dispatches a chord and feeds any resulting message back into
// the model, the way the bubbletea runtime would.
func pressAndRun(t *testing.T, m *Model, chord string) {
	t.Helper()
	if cmd := press(t, m, chord); cmd != nil {
		if msg := cmd(); msg != nil {
			m.Update(msg)
		}
	}
}

// AssertModelField is a generic helper for checking model field values.
func AssertModelField[T comparable](t *testing.T, fieldName string, got, want T) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %v, want %v", fieldName, got, want)
	}
}
