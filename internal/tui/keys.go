package tui

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nbtree/nbtree/internal/actions"
	"github.com/nbtree/nbtree/internal/keymap"
)

// handleKeyPress routes keyboard input by mode. Text-entry modes consume
// their keys directly; the list goes through the keymap and action registry.
func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()

	// The interrupt works everywhere, even inside text entry. It dispatches
	// through the registry so it lands in the history like any other
	// invocation, but quits unconditionally if someone broke the binding.
	if key == "ctrl+c" {
		if cmd := m.dispatchChord(keymap.ContextGlobal, key); cmd != nil {
			return cmd
		}
		m.Cleanup()
		return tea.Quit
	}

	switch m.mode {
	case ModeSearch:
		return m.handleSearchKeys(msg)
	case ModeRename:
		return m.handleRenameKeys(msg)
	case ModeConfirm:
		return m.handleConfirmKeys(msg)
	case ModePalette:
		return m.handlePaletteKeys(msg)
	case ModeHelp:
		return m.handleHelpKeys(msg)
	case ModeHistory:
		return m.handleHistoryKeys(msg)
	default:
		return m.handleListKeys(msg)
	}
}

// handleListKeys resolves a chord against the list context and dispatches
// the bound action.
func (m *Model) handleListKeys(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()

	action, ok, partial := m.keys.MatchMultiKey(keymap.ContextList, key)
	if partial {
		// First key of a sequence like gg; wait for the rest.
		return nil
	}
	if !ok {
		return nil
	}
	return m.invokeAction(action, key, keymap.ContextList)
}

// dispatchChord resolves key in the given context and invokes the result.
// Returns nil when nothing is bound.
func (m *Model) dispatchChord(context keymap.Context, key string) tea.Cmd {
	action, ok := m.keys.Match(context, key)
	if !ok {
		return nil
	}
	return m.invokeAction(action, key, context)
}

// invokeAction runs one registered action for a chord. Unhandled outcomes
// fall through to the default key behavior unless the handler suppressed it.
func (m *Model) invokeAction(name, chord string, context keymap.Context) tea.Cmd {
	m.clearMessages()

	ev := actions.NewEvent(chord, string(context))
	outcome, err := m.registry.Invoke(name, ev, nil)
	if err != nil {
		m.setErrorMessage(err.Error())
		return nil
	}
	m.recordInvocation(name, ev, outcome)

	if outcome.Propagate() && !ev.DefaultPrevented() {
		m.handleListDefault(chord)
	}

	m.list.clampToPage(m.listPageSize())
	m.refreshPreview()
	return m.drainEffects()
}

// invokeFromPalette runs an action picked by name rather than by chord.
func (m *Model) invokeFromPalette(name string) tea.Cmd {
	m.clearMessages()

	ev := actions.NewEvent("", string(keymap.ContextPalette))
	outcome, err := m.registry.Invoke(name, ev, nil)
	if err != nil {
		m.setErrorMessage(err.Error())
		return nil
	}
	m.recordInvocation(name, ev, outcome)

	m.list.clampToPage(m.listPageSize())
	m.refreshPreview()
	return m.drainEffects()
}

// handleListDefault is the fallback for chords whose action declined the
// input. The preview scroll actions release ctrl+d and ctrl+u while the pane
// is hidden; the list turns them into half-page jumps.
func (m *Model) handleListDefault(chord string) {
	half := m.listPageSize() / 2
	if half < 1 {
		half = 1
	}
	switch chord {
	case "ctrl+d":
		m.list.moveBy(half)
	case "ctrl+u":
		m.list.moveBy(-half)
	}
}

// Search mode: incremental, jumps the cursor to the first match while
// typing. Enter keeps the query as a highlight filter, esc restores the
// previous position.

func (m *Model) handleSearchKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.mode = ModeList
		m.searchQuery = ""
		m.list.index = m.searchPrevIndex
		m.list.clampToPage(m.listPageSize())
		m.refreshPreview()
		return nil

	case "enter":
		m.mode = ModeList
		m.searchApplied = strings.TrimSpace(m.searchQuery)
		if m.searchApplied == "" {
			m.setStatusMessage("Search cleared")
		} else if n := len(m.searchMatchIndexes(m.searchApplied)); n > 0 {
			m.setStatusMessage(fmt.Sprintf("%d matching notebook(s)", n))
		} else {
			m.setErrorMessage("No matches for " + strconv.Quote(m.searchApplied))
		}
		return nil

	case "backspace":
		if len(m.searchQuery) > 0 {
			m.searchQuery = m.searchQuery[:len(m.searchQuery)-1]
			m.jumpToMatch()
		}
		return nil

	case "ctrl+k":
		m.searchQuery = ""
		return nil

	default:
		if key := msg.String(); len([]rune(key)) == 1 {
			m.searchQuery += key
			m.jumpToMatch()
		}
		return nil
	}
}

// searchMatchIndexes returns the indexes of entries whose name contains the
// query, case-insensitively.
func (m *Model) searchMatchIndexes(query string) []int {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	var matches []int
	for i, e := range m.list.entries {
		if strings.Contains(strings.ToLower(e.Name), query) {
			matches = append(matches, i)
		}
	}
	return matches
}

func (m *Model) jumpToMatch() {
	if matches := m.searchMatchIndexes(m.searchQuery); len(matches) > 0 {
		m.list.index = matches[0]
		m.list.clampToPage(m.listPageSize())
		m.refreshPreview()
	}
}

// Rename mode: a one-line editor seeded with the current name.

func (m *Model) handleRenameKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.mode = ModeList
		return nil
	case "enter":
		return m.submitRename()
	default:
		m.renameInput, m.renameCursor = editLine(m.renameInput, m.renameCursor, msg)
		return nil
	}
}

func (m *Model) submitRename() tea.Cmd {
	m.mode = ModeList

	path, ok := m.list.selectedPath()
	if !ok {
		m.setErrorMessage("Nothing selected")
		return nil
	}
	newName, err := m.store.Rename(path, m.renameInput)
	if err != nil {
		m.setErrorMessage("rename failed: " + err.Error())
		return nil
	}
	m.setStatusMessage("Renamed to " + newName)
	m.list.selectPath(filepath.Join(filepath.Dir(path), newName))
	return m.loadEntries()
}

// Confirm mode: y commits, n or esc cancels.

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y", "enter":
		return m.performConfirm()
	case "n", "N", "esc":
		m.mode = m.confirmReturn
		m.confirmKind = confirmNone
		m.setStatusMessage("Cancelled")
		return nil
	default:
		return nil
	}
}

func (m *Model) performConfirm() tea.Cmd {
	kind := m.confirmKind
	m.confirmKind = confirmNone
	m.mode = m.confirmReturn

	switch kind {
	case confirmDelete:
		return m.performDelete()
	case confirmClearHistory:
		if err := m.historyMgr.Clear(); err != nil {
			m.historyErr = err.Error()
			return nil
		}
		m.historyEntries = nil
		m.historyIndex = 0
		m.historyOffset = 0
		m.setStatusMessage("History cleared")
		return nil
	default:
		return nil
	}
}

// performDelete removes the marked notebooks, or the selected one when
// nothing is marked.
func (m *Model) performDelete() tea.Cmd {
	targets := m.list.markedPaths()
	if len(targets) == 0 {
		path, ok := m.list.selectedPath()
		if !ok {
			m.setErrorMessage("Nothing selected")
			return nil
		}
		targets = []string{path}
	}

	deleted := 0
	for _, path := range targets {
		if err := m.store.Delete(path); err != nil {
			m.setErrorMessage(err.Error())
			break
		}
		deleted++
	}
	if deleted > 0 {
		if deleted == 1 {
			m.setStatusMessage("Deleted " + filepath.Base(targets[0]))
		} else {
			m.setStatusMessage(fmt.Sprintf("Deleted %d notebooks", deleted))
		}
	}
	return m.loadEntries()
}

// Palette mode: fuzzy-find an action by name and run it.

func (m *Model) handlePaletteKeys(msg tea.KeyMsg) tea.Cmd {
	p := m.palette

	switch msg.String() {
	case "esc":
		m.mode = ModeList
		return nil

	case "enter":
		item, ok := p.selectedItem()
		if !ok {
			return nil
		}
		// Leave palette mode first so an action that opens another
		// overlay (help, history) wins the mode switch.
		m.mode = ModeList
		return m.invokeFromPalette(item.name)

	case "up", "ctrl+p":
		p.moveBy(-1)
		return nil

	case "down", "ctrl+n":
		p.moveBy(1)
		return nil

	case "backspace":
		if len(p.input) > 0 {
			p.input = p.input[:len(p.input)-1]
			p.refilter()
		}
		return nil

	case "ctrl+k":
		p.input = ""
		p.refilter()
		return nil

	default:
		if key := msg.String(); len([]rune(key)) == 1 {
			p.input += key
			p.refilter()
		}
		return nil
	}
}

// Help mode: a scrollable keyboard reference.

func (m *Model) handleHelpKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "q", "?":
		m.mode = ModeList
	case "j", "down":
		m.helpView.LineDown(1)
	case "k", "up":
		m.helpView.LineUp(1)
	case "ctrl+d":
		m.helpView.LineDown(m.helpView.Height / 2)
	case "ctrl+u":
		m.helpView.LineUp(m.helpView.Height / 2)
	case "g", "home":
		m.helpView.GotoTop()
	case "G", "end":
		m.helpView.GotoBottom()
	}
	return nil
}

// History mode: browse, prune, or clear recorded invocations.

func (m *Model) handleHistoryKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "q":
		m.mode = ModeList
		return nil

	case "j", "down":
		if m.historyIndex < len(m.historyEntries)-1 {
			m.historyIndex++
		}
		return nil

	case "k", "up":
		if m.historyIndex > 0 {
			m.historyIndex--
		}
		return nil

	case "g", "home":
		m.historyIndex = 0
		return nil

	case "G", "end":
		if len(m.historyEntries) > 0 {
			m.historyIndex = len(m.historyEntries) - 1
		}
		return nil

	case "r":
		return m.loadHistory()

	case "d":
		if m.historyIndex >= len(m.historyEntries) {
			return nil
		}
		if err := m.historyMgr.Delete(m.historyEntries[m.historyIndex].ID); err != nil {
			m.historyErr = err.Error()
			return nil
		}
		return m.loadHistory()

	case "c":
		if len(m.historyEntries) == 0 {
			return nil
		}
		m.confirmPrompt = fmt.Sprintf("Clear %d recorded invocations? (y/n)", len(m.historyEntries))
		m.confirmKind = confirmClearHistory
		m.confirmReturn = ModeHistory
		m.mode = ModeConfirm
		return nil

	default:
		return nil
	}
}

// editLine applies one keystroke to a single-line text input and returns the
// updated value and cursor position.
func editLine(value string, cursor int, msg tea.KeyMsg) (string, int) {
	runes := []rune(value)
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(runes) {
		cursor = len(runes)
	}

	switch msg.String() {
	case "backspace":
		if cursor > 0 {
			runes = append(runes[:cursor-1], runes[cursor:]...)
			cursor--
		}
	case "delete":
		if cursor < len(runes) {
			runes = append(runes[:cursor], runes[cursor+1:]...)
		}
	case "left":
		if cursor > 0 {
			cursor--
		}
	case "right":
		if cursor < len(runes) {
			cursor++
		}
	case "home", "ctrl+a":
		cursor = 0
	case "end", "ctrl+e":
		cursor = len(runes)
	case "ctrl+k":
		runes = runes[:0]
		cursor = 0
	case "ctrl+v", "shift+insert":
		if text, err := clipboard.ReadAll(); err == nil {
			text = strings.ReplaceAll(text, "\n", " ")
			ins := []rune(text)
			runes = append(runes[:cursor], append(ins, runes[cursor:]...)...)
			cursor += len(ins)
		}
	default:
		if key := msg.String(); len([]rune(key)) == 1 {
			runes = append(runes[:cursor], append([]rune(key), runes[cursor:]...)...)
			cursor++
		}
	}
	return string(runes), cursor
}
