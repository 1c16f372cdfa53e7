package notebook

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const fixtureNotebook = `{
 "cells": [
  {
   "cell_type": "markdown",
   "metadata": {},
   "source": ["# Sales analysis\n", "Quarterly numbers."]
  },
  {
   "cell_type": "code",
   "execution_count": 1,
   "metadata": {},
   "outputs": [],
   "source": ["import pandas as pd\n", "df = pd.read_csv('sales.csv')"]
  },
  {
   "cell_type": "code",
   "execution_count": 2,
   "metadata": {},
   "outputs": [],
   "source": "df.describe()"
  }
 ],
 "metadata": {
  "kernelspec": {
   "display_name": "Python 3 (ipykernel)",
   "language": "python",
   "name": "python3"
  },
  "language_info": {
   "name": "python",
   "version": "3.12.1"
  }
 },
 "nbformat": 4,
 "nbformat_minor": 5
}
`

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.ipynb")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func TestPeek(t *testing.T) {
	meta, err := Peek(writeFixture(t, fixtureNotebook))
	if err != nil {
		t.Fatalf("peek: %v", err)
	}

	if meta.Kernel != "Python 3 (ipykernel)" {
		t.Errorf("Kernel = %q", meta.Kernel)
	}
	if meta.Language != "python" {
		t.Errorf("Language = %q", meta.Language)
	}
	if meta.NBFormat != 4 {
		t.Errorf("NBFormat = %d", meta.NBFormat)
	}
	if meta.Cells != 3 {
		t.Errorf("Cells = %d, want 3", meta.Cells)
	}
	if meta.CodeCells != 2 {
		t.Errorf("CodeCells = %d, want 2", meta.CodeCells)
	}
}

func TestPeekDegradesOnMissingMetadata(t *testing.T) {
	meta, err := Peek(writeFixture(t, untitledSkeleton))
	if err != nil {
		t.Fatalf("peek: %v", err)
	}
	if meta.Kernel != "" || meta.Language != "" {
		t.Errorf("empty metadata should peek as empty strings, got %+v", meta)
	}
	if meta.Cells != 0 || meta.CodeCells != 0 {
		t.Errorf("empty notebook should count zero cells, got %+v", meta)
	}
}

func TestPeekLanguageFallsBackToKernelspec(t *testing.T) {
	const nb = `{
 "cells": [],
 "metadata": {"kernelspec": {"display_name": "Go", "language": "go", "name": "gophernotes"}},
 "nbformat": 4,
 "nbformat_minor": 5
}`
	meta, err := Peek(writeFixture(t, nb))
	if err != nil {
		t.Fatalf("peek: %v", err)
	}
	if meta.Language != "go" {
		t.Errorf("Language = %q, want fallback from kernelspec", meta.Language)
	}
}

func TestPeekRejectsInvalidJSON(t *testing.T) {
	if _, err := Peek(writeFixture(t, "not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestPreview(t *testing.T) {
	lines, err := Preview(writeFixture(t, fixtureNotebook), 50)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}

	joined := strings.Join(lines, "\n")
	for _, want := range []string{
		"cell 1 [markdown]",
		"# Sales analysis",
		"import pandas as pd",
		"df.describe()",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("preview missing %q:\n%s", want, joined)
		}
	}
}

func TestPreviewRespectsLimit(t *testing.T) {
	lines, err := Preview(writeFixture(t, fixtureNotebook), 2)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if len(lines) > 2 {
		t.Errorf("preview returned %d lines, limit was 2", len(lines))
	}
}

func TestPreviewEmptyNotebook(t *testing.T) {
	lines, err := Preview(writeFixture(t, untitledSkeleton), 10)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if len(lines) != 1 || !strings.Contains(lines[0], "empty") {
		t.Errorf("empty notebook preview = %v", lines)
	}
}
