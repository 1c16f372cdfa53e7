package history

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(filepath.Join(t.TempDir(), "nbtree.db"))
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func TestRecordAndRecent(t *testing.T) {
	m := newTestManager(t)

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.Local)
	entries := []Entry{
		{Timestamp: base, Action: "nbtree.select-next-row", Chord: "j", Context: "list", Outcome: "handled"},
		{Timestamp: base.Add(time.Second), Action: "nbtree.open-selected", Chord: "enter", Context: "list", Outcome: "handled", Notebook: "a.ipynb"},
		{Timestamp: base.Add(2 * time.Second), Action: "nbtree.quit", Chord: "q", Context: "list", Outcome: "handled"},
	}
	for _, e := range entries {
		if err := m.Record(e); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	got, err := m.Recent(0)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(got))
	}
	if got[0].Action != "nbtree.quit" {
		t.Errorf("Expected newest entry first, got %q", got[0].Action)
	}
	if got[1].Notebook != "a.ipynb" {
		t.Errorf("Expected notebook recorded, got %q", got[1].Notebook)
	}
	if got[2].Chord != "j" {
		t.Errorf("Expected oldest entry last, got chord %q", got[2].Chord)
	}
}

func TestRecentLimit(t *testing.T) {
	m := newTestManager(t)

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.Local)
	for i := 0; i < 5; i++ {
		e := Entry{
			Timestamp: base.Add(time.Duration(i) * time.Second),
			Action:    "nbtree.select-next-row",
			Chord:     "j",
			Context:   "list",
			Outcome:   "handled",
		}
		if err := m.Record(e); err != nil {
			t.Fatal(err)
		}
	}

	got, err := m.Recent(2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Expected limit respected, got %d entries", len(got))
	}
}

func TestRecordDefaultsTimestamp(t *testing.T) {
	m := newTestManager(t)

	if err := m.Record(Entry{Action: "nbtree.refresh-list", Chord: "r", Context: "list", Outcome: "handled"}); err != nil {
		t.Fatal(err)
	}

	got, err := m.Recent(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(got))
	}
	if got[0].Timestamp.IsZero() {
		t.Error("Expected timestamp filled in for zero value")
	}
	if time.Since(got[0].Timestamp) > time.Minute {
		t.Errorf("Expected a recent timestamp, got %v", got[0].Timestamp)
	}
}

func TestForAction(t *testing.T) {
	m := newTestManager(t)

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.Local)
	for i, action := range []string{"nbtree.quit", "nbtree.open-help", "nbtree.quit"} {
		e := Entry{Timestamp: base.Add(time.Duration(i) * time.Second), Action: action, Chord: "x", Context: "list", Outcome: "handled"}
		if err := m.Record(e); err != nil {
			t.Fatal(err)
		}
	}

	got, err := m.ForAction("nbtree.quit", 0)
	if err != nil {
		t.Fatalf("ForAction failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 quit invocations, got %d", len(got))
	}
	for _, e := range got {
		if e.Action != "nbtree.quit" {
			t.Errorf("Unexpected action %q in filtered results", e.Action)
		}
	}
}

func TestCountByAction(t *testing.T) {
	m := newTestManager(t)

	for _, action := range []string{"nbtree.quit", "nbtree.select-next-row", "nbtree.select-next-row", "nbtree.select-next-row", "nbtree.quit"} {
		if err := m.Record(Entry{Action: action, Chord: "x", Context: "list", Outcome: "handled"}); err != nil {
			t.Fatal(err)
		}
	}

	counts, err := m.CountByAction()
	if err != nil {
		t.Fatalf("CountByAction failed: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("Expected 2 distinct actions, got %d", len(counts))
	}
	if counts[0].Action != "nbtree.select-next-row" || counts[0].Count != 3 {
		t.Errorf("Expected select-next-row x3 first, got %+v", counts[0])
	}
	if counts[1].Action != "nbtree.quit" || counts[1].Count != 2 {
		t.Errorf("Expected quit x2 second, got %+v", counts[1])
	}
}

func TestDeleteAndClear(t *testing.T) {
	m := newTestManager(t)

	for i := 0; i < 3; i++ {
		if err := m.Record(Entry{Action: "nbtree.quit", Chord: "q", Context: "list", Outcome: "handled"}); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := m.Recent(0)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Delete(entries[0].ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if count, _ := m.Count(); count != 2 {
		t.Errorf("Expected 2 entries after delete, got %d", count)
	}

	if err := m.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if count, _ := m.Count(); count != 0 {
		t.Errorf("Expected empty history after clear, got %d", count)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nbtree.db")

	m, err := NewManager(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Record(Entry{Action: "nbtree.quit", Chord: "q", Context: "list", Outcome: "handled"}); err != nil {
		t.Fatal(err)
	}
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewManager(path)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer reopened.Close()

	if count, _ := reopened.Count(); count != 1 {
		t.Errorf("Expected 1 entry after reopen, got %d", count)
	}
}
