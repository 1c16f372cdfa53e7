package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nbtree/nbtree/internal/actions"
	"github.com/nbtree/nbtree/internal/history"
	"github.com/nbtree/nbtree/internal/keymap"
	"github.com/nbtree/nbtree/internal/logging"
	"github.com/nbtree/nbtree/internal/notebook"
	"github.com/nbtree/nbtree/internal/remote"
	"github.com/nbtree/nbtree/internal/session"
	"github.com/nbtree/nbtree/internal/version"
)

// Mode represents the current UI interaction mode.
type Mode int

const (
	ModeList Mode = iota
	ModeSearch
	ModeRename
	ModeConfirm
	ModePalette
	ModeHelp
	ModeHistory
)

// confirmKind selects what a "y" in the confirm prompt commits.
type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmDelete
	confirmClearHistory
)

// Model is the main TUI state.
type Model struct {
	registry   *actions.Registry
	keys       *keymap.Registry
	store      *notebook.Store // nil when browsing a remote server
	sessionMgr *session.Manager
	historyMgr *history.Manager // nil when the history database failed to open
	remote     *remote.Client   // nil when browsing a local directory
	remoteDir  string
	version    string

	width  int
	height int

	mode      Mode
	statusMsg string
	errorMsg  string

	list       *listState
	preview    *previewState
	sortMode   notebook.SortMode
	showHidden bool

	// search input and the last submitted query still highlighting rows
	searchQuery     string
	searchApplied   string
	searchPrevIndex int

	renameInput  string
	renameCursor int

	confirmPrompt string
	confirmKind   confirmKind
	confirmReturn Mode

	palette *paletteState

	helpView viewport.Model

	historyEntries []history.Entry
	historyIndex   int
	historyOffset  int
	historyErr     string

	updateNotice string

	// host effects queued by action handlers during dispatch; drainEffects
	// converts them to commands once the handler returns
	quitRequested bool
	pendingEditor string
	reloadNeeded  bool
	historyReload bool
}

// Messages

type fileListMsg struct {
	entries []notebook.Entry
	err     error
}

type remoteEventMsg struct {
	event remote.Event
}

type feedClosedMsg struct {
	err error
}

type historyLoadedMsg struct {
	entries []history.Entry
	err     error
}

type editorFinishedMsg struct {
	path string
	err  error
}

type versionMsg struct {
	available bool
	latest    string
	url       string
}

// Init fires the startup commands. Local listings are already loaded by New;
// remote listings arrive asynchronously so the first paint is not blocked on
// the network.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.checkVersion()}
	if m.remote != nil {
		cmds = append(cmds, m.loadEntries())
	}
	return tea.Batch(cmds...)
}

// Update handles all incoming messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateViewports()
		m.list.clampToPage(m.listPageSize())
		m.refreshPreview()
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKeyPress(msg)

	case fileListMsg:
		if msg.err != nil {
			m.setErrorMessage("load failed: " + msg.err.Error())
			return m, nil
		}
		m.applyEntries(msg.entries)
		return m, nil

	case remoteEventMsg:
		// Any create/delete/rename on the server invalidates the listing.
		return m, m.loadEntries()

	case feedClosedMsg:
		if msg.err != nil {
			m.setErrorMessage("event feed: " + msg.err.Error())
		}
		return m, nil

	case historyLoadedMsg:
		if msg.err != nil {
			m.historyErr = msg.err.Error()
			return m, nil
		}
		m.historyErr = ""
		m.historyEntries = msg.entries
		if m.historyIndex >= len(m.historyEntries) {
			m.historyIndex = len(m.historyEntries) - 1
		}
		if m.historyIndex < 0 {
			m.historyIndex = 0
		}
		return m, nil

	case editorFinishedMsg:
		if msg.err != nil {
			m.setErrorMessage("editor: " + msg.err.Error())
		} else {
			if err := m.sessionMgr.AddRecent(msg.path); err != nil {
				logging.GetLogger("tui").Warn().Err(err).Msg("failed to record recent notebook")
			}
			m.setStatusMessage("Closed " + filepath.Base(msg.path))
		}
		// The editor may have written or renamed the file.
		return m, m.loadEntries()

	case versionMsg:
		if msg.available {
			m.updateNotice = fmt.Sprintf("Update available: %s (%s)", msg.latest, msg.url)
		}
		return m, nil
	}

	return m, nil
}

// View renders the current mode.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	switch m.mode {
	case ModeHelp:
		return m.renderHelp()
	case ModeHistory:
		return m.renderHistory()
	case ModePalette:
		return m.renderPalette()
	default:
		// Search, rename, and confirm draw their input in the status bar.
		return m.renderMain()
	}
}

// Cleanup releases resources before the program exits.
func (m *Model) Cleanup() {
	if m.historyMgr != nil {
		if err := m.historyMgr.Close(); err != nil {
			logging.GetLogger("tui").Warn().Err(err).Msg("failed to close history database")
		}
		m.historyMgr = nil
	}
}

// applyEntries installs a fresh listing, keeping the selection on the same
// notebook when it still exists.
func (m *Model) applyEntries(entries []notebook.Entry) {
	notebook.SortEntries(entries, m.sortMode)
	m.list.setEntries(entries)
	m.list.clampToPage(m.listPageSize())
	m.refreshPreview()
}

// resortEntries reorders the current listing in place after a sort mode
// change, keeping the cursor on the same notebook.
func (m *Model) resortEntries() {
	if path, ok := m.list.selectedPath(); ok {
		m.list.selectPath(path)
	}
	notebook.SortEntries(m.list.entries, m.sortMode)
	m.list.setEntries(m.list.entries)
	m.list.clampToPage(m.listPageSize())
}

// loadEntries returns a command that lists notebooks from the current source.
func (m *Model) loadEntries() tea.Cmd {
	if m.remote != nil {
		client := m.remote
		dir := m.remoteDir
		showHidden := m.showHidden
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			items, err := client.List(ctx, dir)
			if err != nil {
				return fileListMsg{err: err}
			}
			return fileListMsg{entries: remoteEntries(items, showHidden)}
		}
	}

	store := m.store
	showHidden := m.showHidden
	return func() tea.Msg {
		entries, err := store.Scan(showHidden)
		return fileListMsg{entries: entries, err: err}
	}
}

// remoteEntries converts server listing items into list entries. The server
// path stands in for the local file path; bridges reject operations that
// would need a real file.
func remoteEntries(items []remote.Item, showHidden bool) []notebook.Entry {
	entries := make([]notebook.Entry, 0, len(items))
	for _, item := range items {
		hidden := strings.HasPrefix(item.Name, ".")
		if hidden && !showHidden {
			continue
		}
		entries = append(entries, notebook.Entry{
			Name:    item.Name,
			Path:    item.Path,
			Size:    item.Size,
			ModTime: item.LastModified,
			Hidden:  hidden,
		})
	}
	return entries
}

// loadHistory returns a command that fetches the most recent invocations.
func (m *Model) loadHistory() tea.Cmd {
	mgr := m.historyMgr
	return func() tea.Msg {
		if mgr == nil {
			return historyLoadedMsg{err: fmt.Errorf("history database unavailable")}
		}
		entries, err := mgr.Recent(historyPageSize)
		return historyLoadedMsg{entries: entries, err: err}
	}
}

// checkVersion returns a command that asks GitHub for a newer release.
// Development builds skip the check.
func (m *Model) checkVersion() tea.Cmd {
	current := m.version
	if current == "" || current == "dev" {
		return nil
	}
	return func() tea.Msg {
		available, latest, url, err := version.CheckForUpdate(current)
		if err != nil || !available {
			return versionMsg{}
		}
		return versionMsg{available: true, latest: latest, url: url}
	}
}

// recordInvocation persists one dispatched action to the history database.
func (m *Model) recordInvocation(name string, ev *actions.Event, outcome actions.Outcome) {
	if m.historyMgr == nil || !m.sessionMgr.IsHistoryEnabled() {
		return
	}
	entry := history.Entry{
		Action:  name,
		Chord:   ev.Chord,
		Context: ev.Context,
		Outcome: outcome.String(),
	}
	if e, ok := m.list.selected(); ok {
		entry.Notebook = e.Name
	}
	if err := m.historyMgr.Record(entry); err != nil {
		logging.GetLogger("tui").Warn().Err(err).Msg("failed to record invocation")
	}
}

// drainEffects converts flags queued by action handlers into commands.
func (m *Model) drainEffects() tea.Cmd {
	var cmds []tea.Cmd

	if m.reloadNeeded {
		m.reloadNeeded = false
		cmds = append(cmds, m.loadEntries())
	}
	if m.historyReload {
		m.historyReload = false
		cmds = append(cmds, m.loadHistory())
	}
	if m.pendingEditor != "" {
		path := m.pendingEditor
		m.pendingEditor = ""
		cmds = append(cmds, m.openInEditor(path))
	}
	if m.quitRequested {
		m.Cleanup()
		cmds = append(cmds, tea.Quit)
	}

	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return cmds[0]
	default:
		return tea.Batch(cmds...)
	}
}

// enterMode switches to the named overlay mode, preparing its state. Called
// by action handlers through the UI bridge.
func (m *Model) enterMode(name string) {
	switch name {
	case actions.ModeSearch:
		m.searchPrevIndex = m.list.index
		m.searchQuery = m.searchApplied
		m.mode = ModeSearch

	case actions.ModeRename:
		if m.store == nil {
			m.setErrorMessage("server listings are read-only")
			return
		}
		e, ok := m.list.selected()
		if !ok {
			m.setErrorMessage("Nothing selected")
			return
		}
		m.renameInput = strings.TrimSuffix(e.Name, filepath.Ext(e.Name))
		m.renameCursor = len([]rune(m.renameInput))
		m.mode = ModeRename

	case actions.ModeConfirmDelete:
		if m.store == nil {
			m.setErrorMessage("server listings are read-only")
			return
		}
		marked := m.list.markedPaths()
		switch {
		case len(marked) == 1:
			m.confirmPrompt = fmt.Sprintf("Delete %s? (y/n)", filepath.Base(marked[0]))
		case len(marked) > 1:
			m.confirmPrompt = fmt.Sprintf("Delete %d marked notebooks? (y/n)", len(marked))
		default:
			e, ok := m.list.selected()
			if !ok {
				m.setErrorMessage("Nothing selected")
				return
			}
			m.confirmPrompt = fmt.Sprintf("Delete %s? (y/n)", e.Name)
		}
		m.confirmKind = confirmDelete
		m.confirmReturn = ModeList
		m.mode = ModeConfirm

	case actions.ModePalette:
		m.palette.reset(m.registry, m.keys)
		m.mode = ModePalette

	case actions.ModeHelp:
		m.helpView.SetContent(m.buildHelpContent())
		m.helpView.GotoTop()
		m.mode = ModeHelp

	case actions.ModeHistory:
		m.historyEntries = nil
		m.historyIndex = 0
		m.historyOffset = 0
		m.historyErr = ""
		m.historyReload = true
		m.mode = ModeHistory

	default:
		m.setErrorMessage("unknown mode: " + name)
	}
}

// setStatusMessage sets an informational message, clearing any error.
func (m *Model) setStatusMessage(msg string) {
	if len(msg) > statusTruncateAt {
		msg = msg[:statusTruncateAt-3] + "..."
	}
	m.statusMsg = msg
	m.errorMsg = ""
}

// setErrorMessage sets an error message, clearing any status.
func (m *Model) setErrorMessage(msg string) {
	if len(msg) > statusTruncateAt {
		msg = msg[:statusTruncateAt-3] + "..."
	}
	m.errorMsg = msg
	m.statusMsg = ""
}

// clearMessages drops both message slots.
func (m *Model) clearMessages() {
	m.statusMsg = ""
	m.errorMsg = ""
}

// locationLabel names the browsed source for the status bar.
func (m *Model) locationLabel() string {
	if m.remote != nil {
		if m.remoteDir != "" {
			return m.remote.BaseURL() + "/" + m.remoteDir
		}
		return m.remote.BaseURL()
	}
	return m.store.Dir()
}

// updateViewports resizes the scrollable panes after a terminal resize.
func (m *Model) updateViewports() {
	previewWidth := m.width - m.sidebarWidth() - 4
	if previewWidth < 10 {
		previewWidth = 10
	}
	m.preview.view.Width = previewWidth - 2
	m.preview.view.Height = m.height - chromePreviewHeight

	m.helpView.Width = m.width - 6
	m.helpView.Height = m.height - 6
}

// sidebarWidth returns the list pane width when the preview is shown.
func (m *Model) sidebarWidth() int {
	w := max(minSidebarWidth, m.width*sidebarPercent/100)
	if m.width < narrowWidth {
		w = m.width / 2
	}
	return w
}

// listPageSize is how many rows the list pane can show. Must stay consistent
// with the geometry in renderList.
func (m *Model) listPageSize() int {
	rows := m.height - 3 - 5
	if rows < 1 {
		rows = 1
	}
	return rows
}
