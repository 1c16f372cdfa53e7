package notebook

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jmespath/go-jmespath"
)

// Meta is the display metadata peeked from a notebook file.
type Meta struct {
	Kernel    string
	Language  string
	NBFormat  int
	Cells     int
	CodeCells int
}

// Peek extracts display metadata from the notebook at path. Notebooks are
// JSON documents; the interesting fields are pulled with JMESPath
// expressions so that absent metadata degrades to zero values instead of
// decode failures.
func Peek(path string) (*Meta, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read notebook: %w", err)
	}

	var data interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("invalid notebook JSON: %w", err)
	}

	meta := &Meta{
		Kernel:    searchString(data, "metadata.kernelspec.display_name"),
		Language:  searchString(data, "metadata.language_info.name"),
		NBFormat:  searchInt(data, "nbformat"),
		Cells:     searchInt(data, "length(cells)"),
		CodeCells: searchInt(data, "length(cells[?cell_type=='code'])"),
	}
	if meta.Language == "" {
		meta.Language = searchString(data, "metadata.kernelspec.language")
	}
	return meta, nil
}

// searchString evaluates a JMESPath expression and returns the string
// result, or "" when the path is absent or not a string.
func searchString(data interface{}, expression string) string {
	result, err := jmespath.Search(expression, data)
	if err != nil {
		return ""
	}
	s, _ := result.(string)
	return s
}

// searchInt evaluates a JMESPath expression expecting a number. JSON
// numbers decode as float64.
func searchInt(data interface{}, expression string) int {
	result, err := jmespath.Search(expression, data)
	if err != nil {
		return 0
	}
	f, ok := result.(float64)
	if !ok {
		return 0
	}
	return int(f)
}

// previewCell is the minimal cell shape needed for the preview pane. Source
// is string or []string depending on the producer.
type previewCell struct {
	CellType string      `json:"cell_type"`
	Source   interface{} `json:"source"`
}

type previewDoc struct {
	Cells []previewCell `json:"cells"`
}

// Preview returns up to max display lines for the preview pane: each cell
// contributes a type marker line followed by its source lines.
func Preview(path string, max int) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read notebook: %w", err)
	}

	var doc previewDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("invalid notebook JSON: %w", err)
	}

	var lines []string
	for i, cell := range doc.Cells {
		if len(lines) >= max {
			break
		}
		lines = append(lines, fmt.Sprintf("── cell %d [%s]", i+1, cell.CellType))
		for _, src := range sourceLines(cell.Source) {
			if len(lines) >= max {
				break
			}
			lines = append(lines, src)
		}
	}
	if len(doc.Cells) == 0 {
		lines = append(lines, "(empty notebook)")
	}
	return lines, nil
}

// sourceLines flattens a cell source into clean display lines.
func sourceLines(source interface{}) []string {
	var joined string
	switch v := source.(type) {
	case string:
		joined = v
	case []interface{}:
		var sb strings.Builder
		for _, part := range v {
			if s, ok := part.(string); ok {
				sb.WriteString(s)
			}
		}
		joined = sb.String()
	default:
		return nil
	}
	joined = strings.TrimRight(joined, "\n")
	if joined == "" {
		return nil
	}
	return strings.Split(joined, "\n")
}
