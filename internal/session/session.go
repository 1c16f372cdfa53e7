package session

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/nbtree/nbtree/internal/config"
	"github.com/nbtree/nbtree/internal/notebook"
)

// maxRecent caps the MRU notebook list.
const maxRecent = 20

// State is the persisted UI state, written to ~/.nbtree/session.json.
type State struct {
	Dir            string   `json:"dir,omitempty"`
	Sort           string   `json:"sort"`
	ShowHidden     bool     `json:"show_hidden,omitempty"`
	PreviewVisible *bool    `json:"preview,omitempty"`
	Recent         []string `json:"recent"`
	HistoryEnabled *bool    `json:"history_enabled,omitempty"`
}

// Manager loads and saves the session state.
type Manager struct {
	state *State
}

// NewManager creates a session manager with default state.
func NewManager() *Manager {
	return &Manager{state: defaultState()}
}

func defaultState() *State {
	return &State{
		Sort:   string(notebook.SortName),
		Recent: []string{},
	}
}

// Load reads the session file. A missing file yields the default state.
func (m *Manager) Load() error {
	data, err := os.ReadFile(config.SessionPath)
	if err != nil {
		m.state = defaultState()
		return nil
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("failed to parse session file: %w", err)
	}

	if state.Recent == nil {
		state.Recent = []string{}
	}
	switch notebook.SortMode(state.Sort) {
	case notebook.SortName, notebook.SortModified, notebook.SortSize:
	default:
		state.Sort = string(notebook.SortName)
	}

	m.state = &state
	return nil
}

// Save writes the session to disk.
func (m *Manager) Save() error {
	data, err := json.MarshalIndent(m.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := os.WriteFile(config.SessionPath, data, config.FilePermissions); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// State returns the current session state.
func (m *Manager) State() *State {
	return m.state
}

// Dir returns the last browsed directory, or "" when none was saved.
func (m *Manager) Dir() string {
	return m.state.Dir
}

// SetDir records the browsed directory.
func (m *Manager) SetDir(dir string) error {
	m.state.Dir = dir
	return m.Save()
}

// Sort returns the persisted sort mode.
func (m *Manager) Sort() notebook.SortMode {
	return notebook.SortMode(m.state.Sort)
}

// SetSort records the sort mode.
func (m *Manager) SetSort(mode notebook.SortMode) error {
	m.state.Sort = string(mode)
	return m.Save()
}

// ShowHidden returns whether dotfiles are listed.
func (m *Manager) ShowHidden() bool {
	return m.state.ShowHidden
}

// SetShowHidden records the dotfile visibility.
func (m *Manager) SetShowHidden(show bool) error {
	m.state.ShowHidden = show
	return m.Save()
}

// PreviewVisible returns whether the preview pane is open. Defaults to true
// when the session never recorded a choice.
func (m *Manager) PreviewVisible() bool {
	if m.state.PreviewVisible == nil {
		return true
	}
	return *m.state.PreviewVisible
}

// SetPreviewVisible records the preview pane visibility.
func (m *Manager) SetPreviewVisible(visible bool) error {
	m.state.PreviewVisible = &visible
	return m.Save()
}

// AddRecent pushes a notebook path to the front of the MRU list, dropping
// duplicates and trimming to the cap.
func (m *Manager) AddRecent(path string) error {
	recent := make([]string, 0, len(m.state.Recent)+1)
	recent = append(recent, path)
	for _, p := range m.state.Recent {
		if p != path {
			recent = append(recent, p)
		}
	}
	if len(recent) > maxRecent {
		recent = recent[:maxRecent]
	}
	m.state.Recent = recent
	return m.Save()
}

// Recent returns the MRU notebook list, most recent first.
func (m *Manager) Recent() []string {
	return m.state.Recent
}

// IsHistoryEnabled reports whether invocation history is recorded. Defaults
// to true.
func (m *Manager) IsHistoryEnabled() bool {
	if m.state.HistoryEnabled == nil {
		return true
	}
	return *m.state.HistoryEnabled
}

// SetHistoryEnabled toggles invocation history recording.
func (m *Manager) SetHistoryEnabled(enabled bool) error {
	m.state.HistoryEnabled = &enabled
	return m.Save()
}
