package tui

import (
	"errors"
	"path/filepath"

	"github.com/nbtree/nbtree/internal/logging"
)

// The action registry's environment points back into the model through the
// bridges below. Handlers run synchronously inside Update, so no locking is
// needed; anything that must become a bubbletea command is queued as a flag
// and picked up by drainEffects.

var errReadOnlyListing = errors.New("server listings are read-only")

// previewBridge adapts the preview pane to actions.PreviewScroller.
type previewBridge struct {
	m *Model
}

func (b *previewBridge) Visible() bool {
	return b.m.preview.visible
}

func (b *previewBridge) Toggle() {
	b.m.togglePreview()
}

func (b *previewBridge) ScrollDown(lines int) {
	b.m.preview.view.LineDown(lines)
}

func (b *previewBridge) ScrollUp(lines int) {
	b.m.preview.view.LineUp(lines)
}

// storeBridge adapts file operations to actions.NotebookStore. On a server
// listing every mutation reports the read-only restriction.
type storeBridge struct {
	m *Model
}

func (b *storeBridge) SelectedPath() (string, bool) {
	return b.m.list.selectedPath()
}

func (b *storeBridge) CreateUntitled() (string, error) {
	if b.m.store == nil {
		return "", errReadOnlyListing
	}
	name, err := b.m.store.CreateUntitled()
	if err != nil {
		return "", err
	}
	b.m.list.selectPath(filepath.Join(b.m.store.Dir(), name))
	b.m.reloadNeeded = true
	return name, nil
}

func (b *storeBridge) Duplicate(path string) (string, error) {
	if b.m.store == nil {
		return "", errReadOnlyListing
	}
	name, err := b.m.store.Duplicate(path)
	if err != nil {
		return "", err
	}
	b.m.list.selectPath(filepath.Join(filepath.Dir(path), name))
	b.m.reloadNeeded = true
	return name, nil
}

func (b *storeBridge) Checkpoint(path string) (string, error) {
	if b.m.store == nil {
		return "", errReadOnlyListing
	}
	// Checkpoints land in a dot directory, so the listing does not change.
	return b.m.store.Checkpoint(path)
}

func (b *storeBridge) Refresh() error {
	b.m.reloadNeeded = true
	return nil
}

// uiBridge adapts host control to actions.UI.
type uiBridge struct {
	m *Model
}

func (b *uiBridge) EnterMode(name string) {
	b.m.enterMode(name)
}

func (b *uiBridge) SetStatus(msg string) {
	b.m.setStatusMessage(msg)
}

func (b *uiBridge) SetError(msg string) {
	b.m.setErrorMessage(msg)
}

func (b *uiBridge) Quit() {
	b.m.quitRequested = true
}

func (b *uiBridge) OpenEditor(path string) {
	if b.m.remote != nil {
		b.m.setErrorMessage("cannot open notebooks from a server listing")
		return
	}
	b.m.pendingEditor = path
}

func (b *uiBridge) ToggleHidden() {
	m := b.m
	m.showHidden = !m.showHidden
	if err := m.sessionMgr.SetShowHidden(m.showHidden); err != nil {
		logging.GetLogger("tui").Warn().Err(err).Msg("failed to persist hidden setting")
	}
	m.reloadNeeded = true
	if m.showHidden {
		m.setStatusMessage("Showing hidden notebooks")
	} else {
		m.setStatusMessage("Hiding hidden notebooks")
	}
}

func (b *uiBridge) CycleSort() {
	m := b.m
	m.sortMode = m.sortMode.Next()
	if err := m.sessionMgr.SetSort(m.sortMode); err != nil {
		logging.GetLogger("tui").Warn().Err(err).Msg("failed to persist sort mode")
	}
	m.resortEntries()
	m.setStatusMessage("Sorted by " + string(m.sortMode))
}

func (b *uiBridge) ClearSearch() bool {
	m := b.m
	if m.searchApplied == "" {
		return false
	}
	m.searchApplied = ""
	m.setStatusMessage("Search cleared")
	return true
}
