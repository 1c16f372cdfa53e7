package notebook

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeNotebook(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(untitledSkeleton), 0644); err != nil {
		t.Fatalf("failed to write fixture %s: %v", name, err)
	}
	return path
}

func TestScanFiltersNonNotebooks(t *testing.T) {
	dir := t.TempDir()
	writeNotebook(t, dir, "analysis.ipynb")
	writeNotebook(t, dir, "REPORT.IPYNB")
	writeNotebook(t, dir, ".scratch.ipynb")
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "subdir"), 0755); err != nil {
		t.Fatal(err)
	}
	writeNotebook(t, filepath.Join(dir, "subdir"), "nested.ipynb")

	store := NewStore(dir)

	entries, err := store.Scan(false)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("scan without hidden returned %d entries, want 2: %+v", len(entries), entries)
	}

	entries, err = store.Scan(true)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("scan with hidden returned %d entries, want 3", len(entries))
	}
	hiddenSeen := false
	for _, e := range entries {
		if e.Name == ".scratch.ipynb" {
			hiddenSeen = true
			if !e.Hidden {
				t.Error("dotfile entry not flagged hidden")
			}
		}
	}
	if !hiddenSeen {
		t.Error("hidden notebook missing from scan")
	}
}

func TestCreateUntitledPicksUniqueNames(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	first, err := store.CreateUntitled()
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := store.CreateUntitled()
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if first != "Untitled.ipynb" || second != "Untitled1.ipynb" {
		t.Errorf("names = %q, %q", first, second)
	}
	for _, name := range []string{first, second} {
		meta, err := Peek(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("created notebook %s is not valid: %v", name, err)
		}
		if meta.NBFormat != 4 {
			t.Errorf("created notebook %s has nbformat %d, want 4", name, meta.NBFormat)
		}
	}
}

func TestDuplicateCountsUpward(t *testing.T) {
	dir := t.TempDir()
	src := writeNotebook(t, dir, "analysis.ipynb")
	store := NewStore(dir)

	first, err := store.Duplicate(src)
	if err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	second, err := store.Duplicate(src)
	if err != nil {
		t.Fatalf("duplicate: %v", err)
	}

	if first != "analysis-Copy1.ipynb" || second != "analysis-Copy2.ipynb" {
		t.Errorf("names = %q, %q", first, second)
	}

	orig, _ := os.ReadFile(src)
	copied, err := os.ReadFile(filepath.Join(dir, first))
	if err != nil {
		t.Fatalf("copy missing: %v", err)
	}
	if string(orig) != string(copied) {
		t.Error("copy content differs from source")
	}
}

func TestRename(t *testing.T) {
	dir := t.TempDir()
	src := writeNotebook(t, dir, "draft.ipynb")
	writeNotebook(t, dir, "taken.ipynb")
	store := NewStore(dir)

	name, err := store.Rename(src, "final")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if name != "final.ipynb" {
		t.Errorf("rename returned %q, want final.ipynb", name)
	}
	if _, err := os.Stat(filepath.Join(dir, "final.ipynb")); err != nil {
		t.Errorf("renamed file missing: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("source file still present after rename")
	}

	if _, err := store.Rename(filepath.Join(dir, "final.ipynb"), "taken.ipynb"); err == nil {
		t.Error("rename onto an existing notebook should fail")
	}
	if _, err := store.Rename(filepath.Join(dir, "final.ipynb"), "   "); err == nil {
		t.Error("rename to an empty name should fail")
	}
}

func TestDelete(t *testing.T) {
	dir := t.TempDir()
	path := writeNotebook(t, dir, "old.ipynb")
	store := NewStore(dir)

	if err := store.Delete(path); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("file still present after delete")
	}
	if err := store.Delete(path); err == nil {
		t.Error("deleting a missing file should fail")
	}
}

func TestCheckpoint(t *testing.T) {
	dir := t.TempDir()
	src := writeNotebook(t, dir, "analysis.ipynb")
	store := NewStore(dir)

	name, err := store.Checkpoint(src)
	if err != nil {
		t.Fatalf("checkpoint: %v", err)
	}
	if !strings.HasPrefix(name, "analysis-") || !strings.HasSuffix(name, ".ipynb") {
		t.Errorf("checkpoint name = %q", name)
	}
	if _, err := os.Stat(filepath.Join(dir, CheckpointDir, name)); err != nil {
		t.Errorf("checkpoint file missing: %v", err)
	}

	// The checkpoint directory must not leak into the listing.
	entries, err := store.Scan(true)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	for _, e := range entries {
		if strings.Contains(e.Path, CheckpointDir) {
			t.Errorf("scan leaked checkpoint entry %s", e.Path)
		}
	}
}

func TestSortEntries(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	entries := func() []Entry {
		return []Entry{
			{Name: "beta.ipynb", Size: 10, ModTime: base.Add(2 * time.Hour)},
			{Name: "Alpha.ipynb", Size: 30, ModTime: base},
			{Name: "gamma.ipynb", Size: 20, ModTime: base.Add(time.Hour)},
		}
	}

	cases := []struct {
		mode SortMode
		want []string
	}{
		{SortName, []string{"Alpha.ipynb", "beta.ipynb", "gamma.ipynb"}},
		{SortModified, []string{"beta.ipynb", "gamma.ipynb", "Alpha.ipynb"}},
		{SortSize, []string{"Alpha.ipynb", "gamma.ipynb", "beta.ipynb"}},
	}
	for _, tc := range cases {
		t.Run(string(tc.mode), func(t *testing.T) {
			es := entries()
			SortEntries(es, tc.mode)
			for i, want := range tc.want {
				if es[i].Name != want {
					t.Errorf("position %d = %s, want %s", i, es[i].Name, want)
				}
			}
		})
	}
}

func TestSortModeCycle(t *testing.T) {
	if SortName.Next() != SortModified || SortModified.Next() != SortSize || SortSize.Next() != SortName {
		t.Error("sort mode cycle broken")
	}
}
