package tui

import (
	"fmt"
	"testing"

	"github.com/nbtree/nbtree/internal/notebook"
)

func makeEntries(names ...string) []notebook.Entry {
	entries := make([]notebook.Entry, len(names))
	for i, name := range names {
		entries[i] = notebook.Entry{Name: name, Path: "/nb/" + name}
	}
	return entries
}

func TestListStateMoveBy(t *testing.T) {
	tests := []struct {
		name  string
		count int
		start int
		delta int
		want  int
	}{
		{"down", 5, 0, 1, 1},
		{"down clamps", 5, 3, 10, 4},
		{"up clamps", 5, 2, -10, 0},
		{"empty list", 0, 0, 1, 0},
		{"half page", 20, 0, 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newListState()
			for i := 0; i < tt.count; i++ {
				l.entries = append(l.entries, notebook.Entry{Name: fmt.Sprintf("n%d", i), Path: fmt.Sprintf("/n%d", i)})
			}
			l.index = tt.start
			l.moveBy(tt.delta)
			if l.index != tt.want {
				t.Errorf("index = %d, want %d", l.index, tt.want)
			}
		})
	}
}

func TestListStateFirstLast(t *testing.T) {
	l := newListState()
	l.setEntries(makeEntries("a", "b", "c"))

	l.Last()
	if l.index != 2 {
		t.Errorf("Last: index = %d, want 2", l.index)
	}
	l.First()
	if l.index != 0 {
		t.Errorf("First: index = %d, want 0", l.index)
	}
}

func TestSetEntriesKeepsSelection(t *testing.T) {
	l := newListState()
	l.setEntries(makeEntries("a", "b", "c"))
	l.index = 1 // b

	// b moves to the end in the new listing
	l.setEntries(makeEntries("a", "c", "b"))

	if e, _ := l.selected(); e.Name != "b" {
		t.Errorf("selected = %q, want b", e.Name)
	}
	if l.index != 2 {
		t.Errorf("index = %d, want 2", l.index)
	}
}

func TestSetEntriesSelectionGone(t *testing.T) {
	l := newListState()
	l.setEntries(makeEntries("a", "b", "c"))
	l.index = 2

	l.setEntries(makeEntries("a"))

	if l.index != 0 {
		t.Errorf("index = %d, want clamp to 0", l.index)
	}
}

func TestSelectPathWinsOverCurrentSelection(t *testing.T) {
	l := newListState()
	l.setEntries(makeEntries("a", "b"))
	l.index = 0

	l.selectPath("/nb/b")
	l.setEntries(makeEntries("a", "b"))

	if e, _ := l.selected(); e.Name != "b" {
		t.Errorf("selected = %q, want b", e.Name)
	}
}

func TestSetEntriesDropsDeadMarks(t *testing.T) {
	l := newListState()
	l.setEntries(makeEntries("a", "b"))
	l.ToggleMark() // a
	l.index = 1
	l.ToggleMark() // b

	l.setEntries(makeEntries("b"))

	if l.isMarked("/nb/a") {
		t.Error("mark on vanished notebook should be dropped")
	}
	if !l.isMarked("/nb/b") {
		t.Error("mark on surviving notebook should remain")
	}
}

func TestClearMarksReturnsCount(t *testing.T) {
	l := newListState()
	l.setEntries(makeEntries("a", "b", "c"))
	l.ToggleMark()
	l.index = 2
	l.ToggleMark()

	if n := l.ClearMarks(); n != 2 {
		t.Errorf("ClearMarks = %d, want 2", n)
	}
	if n := l.ClearMarks(); n != 0 {
		t.Errorf("second ClearMarks = %d, want 0", n)
	}
}

func TestToggleMarkEmptyList(t *testing.T) {
	l := newListState()
	l.ToggleMark()
	if len(l.marks) != 0 {
		t.Error("marking with no entries should do nothing")
	}
}

func TestMarkedPathsDisplayOrder(t *testing.T) {
	l := newListState()
	l.setEntries(makeEntries("a", "b", "c"))
	l.index = 2
	l.ToggleMark() // c first
	l.index = 0
	l.ToggleMark() // then a

	got := l.markedPaths()
	want := []string{"/nb/a", "/nb/c"}
	if len(got) != len(want) {
		t.Fatalf("markedPaths = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("markedPaths[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestClampToPage(t *testing.T) {
	tests := []struct {
		name       string
		count      int
		index      int
		offset     int
		pageSize   int
		wantOffset int
	}{
		{"cursor above window", 20, 2, 5, 10, 2},
		{"cursor below window", 20, 15, 0, 10, 6},
		{"cursor inside window", 20, 5, 3, 10, 3},
		{"window past end", 5, 4, 10, 10, 0},
		{"tiny page", 20, 7, 0, 1, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newListState()
			for i := 0; i < tt.count; i++ {
				l.entries = append(l.entries, notebook.Entry{Name: fmt.Sprintf("n%d", i), Path: fmt.Sprintf("/n%d", i)})
			}
			l.index = tt.index
			l.offset = tt.offset
			l.clampToPage(tt.pageSize)
			if l.offset != tt.wantOffset {
				t.Errorf("offset = %d, want %d", l.offset, tt.wantOffset)
			}
		})
	}
}
