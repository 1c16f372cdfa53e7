package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nbtree/nbtree/internal/actions"
	"github.com/nbtree/nbtree/internal/keymap"
	"github.com/nbtree/nbtree/internal/notebook"
)

func threeNotebooks() map[string]string {
	return map[string]string{
		"alpha.ipynb": minimalNotebook,
		"beta.ipynb":  minimalNotebook,
		"zeta.ipynb":  minimalNotebook,
	}
}

func TestNavigationKeys(t *testing.T) {
	tests := []struct {
		name   string
		chords []string
		want   int
	}{
		{"down", []string{"j"}, 1},
		{"down twice", []string{"j", "j"}, 2},
		{"down clamps at end", []string{"j", "j", "j", "j"}, 2},
		{"up clamps at start", []string{"k"}, 0},
		{"arrow down", []string{"down"}, 1},
		{"last", []string{"G"}, 2},
		{"end key", []string{"end"}, 2},
		{"gg returns to top", []string{"G", "g", "g"}, 0},
		{"home returns to top", []string{"G", "home"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t, threeNotebooks())
			for _, chord := range tt.chords {
				press(t, m, chord)
			}
			AssertModelField(t, "list.index", m.list.index, tt.want)
		})
	}
}

func TestPendingSequenceSwallowsKey(t *testing.T) {
	m := newTestModel(t, threeNotebooks())

	press(t, m, "g") // opens the gg sequence
	AssertModelField(t, "index after g", m.list.index, 0)

	// j abandons the sequence and is consumed with it
	press(t, m, "j")
	AssertModelField(t, "index after abandoned sequence", m.list.index, 0)

	press(t, m, "j")
	AssertModelField(t, "index after next j", m.list.index, 1)
}

func TestToggleMarkKey(t *testing.T) {
	m := newTestModel(t, threeNotebooks())
	path := m.list.entries[0].Path

	press(t, m, " ")
	if !m.list.isMarked(path) {
		t.Error("selected notebook should be marked")
	}

	press(t, m, " ")
	if m.list.isMarked(path) {
		t.Error("second toggle should unmark")
	}
}

func TestEscClearsMarks(t *testing.T) {
	m := newTestModel(t, threeNotebooks())

	press(t, m, " ")
	press(t, m, "j")
	press(t, m, " ")
	AssertModelField(t, "marks", len(m.list.marks), 2)

	press(t, m, "esc")
	AssertModelField(t, "marks after esc", len(m.list.marks), 0)

	// Nothing left to clear; the action declines the key.
	press(t, m, "esc")
	AssertModelField(t, "errorMsg", m.errorMsg, "")
}

func TestQuitKey(t *testing.T) {
	m := newTestModel(t, threeNotebooks())

	cmd := press(t, m, "q")
	if cmd == nil {
		t.Fatal("quit should produce a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit command should yield tea.QuitMsg")
	}
}

func TestCtrlCQuits(t *testing.T) {
	m := newTestModel(t, threeNotebooks())

	cmd := press(t, m, "ctrl+c")
	if cmd == nil {
		t.Fatal("ctrl+c should produce a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should yield tea.QuitMsg")
	}
}

func TestCtrlCQuitsInsideTextEntry(t *testing.T) {
	m := newTestModel(t, threeNotebooks())

	press(t, m, "/")
	AssertModelField(t, "mode", m.mode, ModeSearch)

	cmd := press(t, m, "ctrl+c")
	if cmd == nil {
		t.Fatal("ctrl+c should produce a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should quit from search mode")
	}
}

func TestCtrlCQuitsEvenWhenRebound(t *testing.T) {
	m := newTestModel(t, threeNotebooks())
	m.keys.Register(keymap.ContextGlobal, "ctrl+c", "nbtree.select-next-row")

	cmd := press(t, m, "ctrl+c")
	if cmd == nil {
		t.Fatal("ctrl+c should still produce a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c must quit regardless of the binding")
	}
}

func TestUnknownActionReportsError(t *testing.T) {
	m := newTestModel(t, threeNotebooks())
	m.keys.Register(keymap.ContextList, "Z", "nbtree.does-not-exist")

	press(t, m, "Z")

	if !strings.Contains(m.errorMsg, "not registered") {
		t.Errorf("errorMsg = %q, want unknown action report", m.errorMsg)
	}
}

func TestUnboundKeyDoesNothing(t *testing.T) {
	m := newTestModel(t, threeNotebooks())

	press(t, m, "x")

	AssertModelField(t, "mode", m.mode, ModeList)
	AssertModelField(t, "index", m.list.index, 0)
	AssertModelField(t, "errorMsg", m.errorMsg, "")
}

func TestCtrlDScrollsListWhenPreviewHidden(t *testing.T) {
	notebooks := make(map[string]string, 40)
	for i := 0; i < 40; i++ {
		notebooks[fmt.Sprintf("nb-%02d.ipynb", i)] = minimalNotebook
	}
	m := newTestModel(t, notebooks)

	press(t, m, "p") // hide the preview
	AssertModelField(t, "preview.visible", m.preview.visible, false)

	press(t, m, "ctrl+d")
	want := m.listPageSize() / 2
	AssertModelField(t, "index after ctrl+d", m.list.index, want)

	press(t, m, "ctrl+u")
	AssertModelField(t, "index after ctrl+u", m.list.index, 0)
}

func TestCtrlDScrollsPreviewWhenVisible(t *testing.T) {
	m := newTestModel(t, threeNotebooks())
	m.preview.view.SetContent(strings.Repeat("line\n", 200))

	press(t, m, "ctrl+d")

	AssertModelField(t, "list.index", m.list.index, 0)
	if m.preview.view.YOffset == 0 {
		t.Error("preview should have scrolled")
	}
}

func TestSearchFlow(t *testing.T) {
	m := newTestModel(t, threeNotebooks())

	press(t, m, "/")
	AssertModelField(t, "mode", m.mode, ModeSearch)

	for _, ch := range []string{"z", "e", "t"} {
		press(t, m, ch)
	}
	if got, _ := m.list.selected(); got.Name != "zeta.ipynb" {
		t.Errorf("incremental search selected %q, want zeta.ipynb", got.Name)
	}

	press(t, m, "enter")
	AssertModelField(t, "mode", m.mode, ModeList)
	AssertModelField(t, "searchApplied", m.searchApplied, "zet")

	// esc clears the applied search through clear-or-propagate
	press(t, m, "esc")
	AssertModelField(t, "searchApplied after esc", m.searchApplied, "")
}

func TestSearchEscRestoresSelection(t *testing.T) {
	m := newTestModel(t, threeNotebooks())
	press(t, m, "j") // beta

	press(t, m, "/")
	press(t, m, "z") // jumps to zeta
	if got, _ := m.list.selected(); got.Name != "zeta.ipynb" {
		t.Fatalf("search should jump to zeta, got %q", got.Name)
	}

	press(t, m, "esc")
	AssertModelField(t, "mode", m.mode, ModeList)
	if got, _ := m.list.selected(); got.Name != "beta.ipynb" {
		t.Errorf("esc should restore beta, got %q", got.Name)
	}
}

func TestSearchNoMatches(t *testing.T) {
	m := newTestModel(t, threeNotebooks())

	press(t, m, "/")
	press(t, m, "x")
	press(t, m, "enter")

	if !strings.Contains(m.errorMsg, "No matches") {
		t.Errorf("errorMsg = %q, want no-match report", m.errorMsg)
	}
}

func TestRenameFlow(t *testing.T) {
	m := newTestModel(t, threeNotebooks())
	oldPath := m.list.entries[0].Path

	press(t, m, "R")
	AssertModelField(t, "mode", m.mode, ModeRename)
	AssertModelField(t, "renameInput", m.renameInput, "alpha")

	for _, ch := range []string{"-", "2"} {
		press(t, m, ch)
	}
	pressAndRun(t, m, "enter")

	AssertModelField(t, "mode", m.mode, ModeList)
	newPath := filepath.Join(filepath.Dir(oldPath), "alpha-2.ipynb")
	if _, err := os.Stat(newPath); err != nil {
		t.Errorf("renamed notebook missing: %v", err)
	}
	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Error("old notebook should be gone")
	}
	if got, _ := m.list.selected(); got.Name != "alpha-2.ipynb" {
		t.Errorf("selection should follow the rename, got %q", got.Name)
	}
}

func TestRenameEscCancels(t *testing.T) {
	m := newTestModel(t, threeNotebooks())
	oldPath := m.list.entries[0].Path

	press(t, m, "R")
	press(t, m, "x")
	press(t, m, "esc")

	AssertModelField(t, "mode", m.mode, ModeList)
	if _, err := os.Stat(oldPath); err != nil {
		t.Error("cancelled rename should leave the file alone")
	}
}

func TestDeleteSelected(t *testing.T) {
	m := newTestModel(t, threeNotebooks())
	path := m.list.entries[0].Path

	press(t, m, "D")
	AssertModelField(t, "mode", m.mode, ModeConfirm)
	if !strings.Contains(m.confirmPrompt, "alpha.ipynb") {
		t.Errorf("confirmPrompt = %q, want file name", m.confirmPrompt)
	}

	pressAndRun(t, m, "y")

	AssertModelField(t, "mode", m.mode, ModeList)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("notebook should be deleted")
	}
	AssertModelField(t, "len(entries)", len(m.list.entries), 2)
}

func TestDeleteMarked(t *testing.T) {
	m := newTestModel(t, threeNotebooks())

	press(t, m, " ")
	press(t, m, "j")
	press(t, m, " ")
	press(t, m, "D")
	if !strings.Contains(m.confirmPrompt, "2 marked") {
		t.Errorf("confirmPrompt = %q, want marked count", m.confirmPrompt)
	}

	pressAndRun(t, m, "y")

	AssertModelField(t, "len(entries)", len(m.list.entries), 1)
	AssertModelField(t, "marks", len(m.list.marks), 0)
}

func TestDeleteCancelled(t *testing.T) {
	m := newTestModel(t, threeNotebooks())
	path := m.list.entries[0].Path

	press(t, m, "D")
	press(t, m, "n")

	AssertModelField(t, "mode", m.mode, ModeList)
	AssertModelField(t, "statusMsg", m.statusMsg, "Cancelled")
	if _, err := os.Stat(path); err != nil {
		t.Error("cancelled delete should leave the file alone")
	}
}

func TestNewNotebookKey(t *testing.T) {
	m := newTestModel(t, threeNotebooks())

	pressAndRun(t, m, "n")

	AssertModelField(t, "len(entries)", len(m.list.entries), 4)
	if got, _ := m.list.selected(); got.Name != "Untitled.ipynb" {
		t.Errorf("selection should land on the new notebook, got %q", got.Name)
	}
	if !strings.Contains(m.statusMsg, "Created") {
		t.Errorf("statusMsg = %q, want creation notice", m.statusMsg)
	}
}

func TestDuplicateKey(t *testing.T) {
	m := newTestModel(t, threeNotebooks())

	pressAndRun(t, m, "d")

	if got, _ := m.list.selected(); got.Name != "alpha-Copy1.ipynb" {
		t.Errorf("selection should land on the copy, got %q", got.Name)
	}
}

func TestCheckpointKey(t *testing.T) {
	m := newTestModel(t, threeNotebooks())
	dir := filepath.Dir(m.list.entries[0].Path)

	press(t, m, "s")

	if !strings.Contains(m.statusMsg, "Checkpoint") {
		t.Errorf("statusMsg = %q, want checkpoint notice", m.statusMsg)
	}
	cpDir := filepath.Join(dir, notebook.CheckpointDir)
	files, err := os.ReadDir(cpDir)
	if err != nil || len(files) != 1 {
		t.Errorf("checkpoint dir should hold one file, got %v (%v)", len(files), err)
	}
	// The dot directory must not leak into the listing.
	AssertModelField(t, "len(entries)", len(m.list.entries), 3)
}

func TestCopyPathKey(t *testing.T) {
	m := newTestModel(t, threeNotebooks())

	var captured string
	m.registry.ExtendEnv(actions.Env{
		actions.EnvClipboard: actions.ClipboardFunc(func(text string) error {
			captured = text
			return nil
		}),
	})

	press(t, m, "y")

	want := m.list.entries[0].Path
	AssertModelField(t, "clipboard", captured, want)
	AssertModelField(t, "statusMsg", m.statusMsg, "Path copied")
}

func TestToggleHiddenKey(t *testing.T) {
	notebooks := threeNotebooks()
	notebooks[".hidden.ipynb"] = minimalNotebook
	m := newTestModel(t, notebooks)
	AssertModelField(t, "initial entries", len(m.list.entries), 3)

	pressAndRun(t, m, ".")

	AssertModelField(t, "entries with hidden", len(m.list.entries), 4)
	AssertModelField(t, "showHidden", m.showHidden, true)
	if !m.sessionMgr.ShowHidden() {
		t.Error("hidden preference should persist to the session")
	}
}

func TestCycleSortKey(t *testing.T) {
	m := newTestModel(t, threeNotebooks())

	press(t, m, "o")

	AssertModelField(t, "sortMode", m.sortMode, notebook.SortModified)
	if !strings.Contains(m.statusMsg, "modified") {
		t.Errorf("statusMsg = %q, want sort notice", m.statusMsg)
	}
	AssertModelField(t, "session sort", m.sessionMgr.Sort(), notebook.SortModified)
}

func TestTogglePreviewKey(t *testing.T) {
	m := newTestModel(t, threeNotebooks())
	AssertModelField(t, "initial visible", m.preview.visible, true)

	press(t, m, "p")
	AssertModelField(t, "after toggle", m.preview.visible, false)
	if m.sessionMgr.PreviewVisible() {
		t.Error("preview preference should persist to the session")
	}

	press(t, m, "p")
	AssertModelField(t, "after second toggle", m.preview.visible, true)
}

func TestRefreshKey(t *testing.T) {
	m := newTestModel(t, threeNotebooks())
	dir := filepath.Dir(m.list.entries[0].Path)

	// A notebook created behind the model's back appears after refresh.
	if err := os.WriteFile(filepath.Join(dir, "late.ipynb"), []byte(minimalNotebook), 0644); err != nil {
		t.Fatalf("Failed to write notebook: %v", err)
	}
	pressAndRun(t, m, "r")

	AssertModelField(t, "len(entries)", len(m.list.entries), 4)
	AssertModelField(t, "statusMsg", m.statusMsg, "Refreshed")
}

func TestHelpOverlay(t *testing.T) {
	m := newTestModel(t, threeNotebooks())

	press(t, m, "?")
	AssertModelField(t, "mode", m.mode, ModeHelp)

	view := m.View()
	if !strings.Contains(view, "nbtree.quit") {
		t.Error("help should list registered actions")
	}

	press(t, m, "esc")
	AssertModelField(t, "mode after esc", m.mode, ModeList)
}

func TestHistoryOverlayShowsInvocations(t *testing.T) {
	m := newTestModel(t, threeNotebooks())

	press(t, m, "j")
	pressAndRun(t, m, "H")

	AssertModelField(t, "mode", m.mode, ModeHistory)
	if len(m.historyEntries) < 2 {
		t.Fatalf("history should hold at least 2 invocations, got %d", len(m.historyEntries))
	}
	AssertModelField(t, "newest action", m.historyEntries[0].Action, "nbtree.open-history")
	AssertModelField(t, "older action", m.historyEntries[1].Action, "nbtree.select-next-row")
	AssertModelField(t, "older chord", m.historyEntries[1].Chord, "j")
	AssertModelField(t, "older outcome", m.historyEntries[1].Outcome, "handled")
}

func TestHistoryDisabledRecordsNothing(t *testing.T) {
	m := newTestModel(t, threeNotebooks())
	if err := m.sessionMgr.SetHistoryEnabled(false); err != nil {
		t.Fatalf("Failed to disable history: %v", err)
	}

	press(t, m, "j")
	pressAndRun(t, m, "H")

	AssertModelField(t, "len(historyEntries)", len(m.historyEntries), 0)
}

func TestHistoryClearFlow(t *testing.T) {
	m := newTestModel(t, threeNotebooks())

	press(t, m, "j")
	press(t, m, "j")
	pressAndRun(t, m, "H")
	if len(m.historyEntries) == 0 {
		t.Fatal("expected recorded invocations")
	}

	press(t, m, "c")
	AssertModelField(t, "mode", m.mode, ModeConfirm)

	pressAndRun(t, m, "y")
	AssertModelField(t, "mode after clear", m.mode, ModeHistory)
	AssertModelField(t, "len after clear", len(m.historyEntries), 0)

	count, err := m.historyMgr.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	AssertModelField(t, "db count", count, 0)
}

func TestPaletteRunsAction(t *testing.T) {
	m := newTestModel(t, threeNotebooks())

	press(t, m, ":")
	AssertModelField(t, "mode", m.mode, ModePalette)

	for _, ch := range []string{"q", "u", "i", "t"} {
		press(t, m, ch)
	}
	item, ok := m.palette.selectedItem()
	if !ok {
		t.Fatal("palette should have a selection")
	}
	AssertModelField(t, "selected action", item.name, "nbtree.quit")

	cmd := press(t, m, "enter")
	if cmd == nil {
		t.Fatal("running quit should produce a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("palette quit should yield tea.QuitMsg")
	}
}

func TestPaletteOpensOverlay(t *testing.T) {
	m := newTestModel(t, threeNotebooks())

	press(t, m, ":")
	for _, ch := range []string{"h", "e", "l", "p"} {
		press(t, m, ch)
	}
	item, _ := m.palette.selectedItem()
	AssertModelField(t, "selected action", item.name, "nbtree.open-help")

	press(t, m, "enter")
	AssertModelField(t, "mode", m.mode, ModeHelp)
}

func TestPaletteEscCloses(t *testing.T) {
	m := newTestModel(t, threeNotebooks())

	press(t, m, ":")
	press(t, m, "esc")

	AssertModelField(t, "mode", m.mode, ModeList)
}

func TestEditLine(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		cursor     int
		chord      string
		wantValue  string
		wantCursor int
	}{
		{"append at end", "ab", 2, "c", "abc", 3},
		{"insert mid", "ac", 1, "b", "abc", 2},
		{"backspace", "abc", 3, "backspace", "ab", 2},
		{"backspace mid", "abc", 2, "backspace", "ac", 1},
		{"backspace at start", "abc", 0, "backspace", "abc", 0},
		{"delete", "abc", 1, "delete", "ac", 1},
		{"delete at end", "abc", 3, "delete", "abc", 3},
		{"left", "abc", 2, "left", "abc", 1},
		{"left at start", "abc", 0, "left", "abc", 0},
		{"right", "abc", 1, "right", "abc", 2},
		{"right at end", "abc", 3, "right", "abc", 3},
		{"home", "abc", 2, "home", "abc", 0},
		{"ctrl+a", "abc", 2, "ctrl+a", "abc", 0},
		{"end", "abc", 0, "end", "abc", 3},
		{"ctrl+e", "abc", 0, "ctrl+e", "abc", 3},
		{"ctrl+k clears", "abc", 2, "ctrl+k", "", 0},
		{"cursor clamped", "ab", 99, "c", "abc", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, cursor := editLine(tt.value, tt.cursor, keyMsg(tt.chord))
			if value != tt.wantValue || cursor != tt.wantCursor {
				t.Errorf("editLine = (%q, %d), want (%q, %d)", value, cursor, tt.wantValue, tt.wantCursor)
			}
		})
	}
}
