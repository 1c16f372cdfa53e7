package tui

import (
	"github.com/nbtree/nbtree/internal/notebook"
)

// listState holds the notebook list: entries in display order, the cursor,
// the scroll window, and the marked set. It satisfies actions.ListNavigator,
// so navigation handlers operate on it directly.
type listState struct {
	entries []notebook.Entry
	index   int
	offset  int
	marks   map[string]bool

	// want is a path to reselect after the next setEntries, used when an
	// operation knows where the selection should land (rename, create).
	want string
}

func newListState() *listState {
	return &listState{marks: make(map[string]bool)}
}

// Next moves the cursor down one row.
func (l *listState) Next() { l.moveBy(1) }

// Prev moves the cursor up one row.
func (l *listState) Prev() { l.moveBy(-1) }

// First jumps to the top of the list.
func (l *listState) First() { l.index = 0 }

// Last jumps to the bottom of the list.
func (l *listState) Last() {
	if len(l.entries) > 0 {
		l.index = len(l.entries) - 1
	}
}

// ToggleMark flips the mark on the selected notebook.
func (l *listState) ToggleMark() {
	e, ok := l.selected()
	if !ok {
		return
	}
	if l.marks[e.Path] {
		delete(l.marks, e.Path)
	} else {
		l.marks[e.Path] = true
	}
}

// ClearMarks removes all marks and returns how many were cleared.
func (l *listState) ClearMarks() int {
	n := len(l.marks)
	l.marks = make(map[string]bool)
	return n
}

// moveBy shifts the cursor, clamping to the list bounds.
func (l *listState) moveBy(delta int) {
	if len(l.entries) == 0 {
		l.index = 0
		return
	}
	l.index += delta
	if l.index < 0 {
		l.index = 0
	}
	if l.index >= len(l.entries) {
		l.index = len(l.entries) - 1
	}
}

// selected returns the entry under the cursor.
func (l *listState) selected() (notebook.Entry, bool) {
	if l.index < 0 || l.index >= len(l.entries) {
		return notebook.Entry{}, false
	}
	return l.entries[l.index], true
}

// selectedPath returns the path of the entry under the cursor.
func (l *listState) selectedPath() (string, bool) {
	e, ok := l.selected()
	if !ok {
		return "", false
	}
	return e.Path, true
}

// selectPath asks the next setEntries to put the cursor on path.
func (l *listState) selectPath(path string) {
	l.want = path
}

// setEntries replaces the listing. The cursor follows the previously
// selected notebook (or a requested path) when it survives; marks on
// vanished notebooks are dropped.
func (l *listState) setEntries(entries []notebook.Entry) {
	target := l.want
	l.want = ""
	if target == "" {
		if e, ok := l.selected(); ok {
			target = e.Path
		}
	}

	l.entries = entries

	alive := make(map[string]bool, len(entries))
	for _, e := range entries {
		alive[e.Path] = true
	}
	for path := range l.marks {
		if !alive[path] {
			delete(l.marks, path)
		}
	}

	if target != "" {
		for i, e := range entries {
			if e.Path == target {
				l.index = i
				return
			}
		}
	}
	l.moveBy(0)
}

// clampToPage keeps the cursor inside the visible window of pageSize rows.
func (l *listState) clampToPage(pageSize int) {
	if pageSize < 1 {
		pageSize = 1
	}
	if l.index < l.offset {
		l.offset = l.index
	}
	if l.index >= l.offset+pageSize {
		l.offset = l.index - pageSize + 1
	}
	if l.offset < 0 {
		l.offset = 0
	}
	maxOffset := len(l.entries) - pageSize
	if maxOffset < 0 {
		maxOffset = 0
	}
	if l.offset > maxOffset {
		l.offset = maxOffset
	}
}

// isMarked reports whether the notebook at path carries a mark.
func (l *listState) isMarked(path string) bool {
	return l.marks[path]
}

// markedPaths returns the marked notebooks in display order.
func (l *listState) markedPaths() []string {
	if len(l.marks) == 0 {
		return nil
	}
	paths := make([]string, 0, len(l.marks))
	for _, e := range l.entries {
		if l.marks[e.Path] {
			paths = append(paths, e.Path)
		}
	}
	return paths
}
