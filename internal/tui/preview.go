package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"

	"github.com/nbtree/nbtree/internal/logging"
	"github.com/nbtree/nbtree/internal/notebook"
)

// previewState is the right-hand preview pane: notebook metadata above the
// first source lines, scrollable through a viewport.
type previewState struct {
	view    viewport.Model
	visible bool

	// path of the notebook currently loaded, so moving the cursor back and
	// forth does not reread the same file
	path  string
	title string
}

// togglePreview flips the pane and persists the preference.
func (m *Model) togglePreview() {
	m.preview.visible = !m.preview.visible
	if err := m.sessionMgr.SetPreviewVisible(m.preview.visible); err != nil {
		logging.GetLogger("tui").Warn().Err(err).Msg("failed to persist preview setting")
	}
	if m.preview.visible {
		m.updateViewports()
		m.preview.path = ""
		m.refreshPreview()
	}
}

// refreshPreview loads the selected notebook into the pane if it is visible
// and the selection moved.
func (m *Model) refreshPreview() {
	if !m.preview.visible {
		return
	}

	e, ok := m.list.selected()
	if !ok {
		m.preview.path = ""
		m.preview.title = ""
		m.preview.view.SetContent(styleSubtle.Render("No notebook selected"))
		return
	}
	if e.Path == m.preview.path {
		return
	}

	m.preview.path = e.Path
	m.preview.title = e.Name
	m.preview.view.SetContent(m.buildPreviewContent(e))
	m.preview.view.GotoTop()
}

// buildPreviewContent renders metadata and source for one notebook. Server
// listings have no file to read, so they show listing metadata only.
func (m *Model) buildPreviewContent(e notebook.Entry) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s  %s\n", formatSize(e.Size), e.ModTime.Format("Jan 02 2006 15:04")))

	if m.remote != nil {
		b.WriteString(styleSubtle.Render("\nRemote notebook. Open it in Jupyter to inspect cells."))
		return b.String()
	}

	meta, err := notebook.Peek(e.Path)
	if err != nil {
		b.WriteString("\n" + styleError.Render(err.Error()))
		return b.String()
	}

	kernel := meta.Kernel
	if kernel == "" {
		kernel = "unknown kernel"
	}
	if meta.Language != "" {
		kernel += " (" + meta.Language + ")"
	}
	b.WriteString(fmt.Sprintf("%s  nbformat %d\n", kernel, meta.NBFormat))
	b.WriteString(fmt.Sprintf("%d cells, %d code\n", meta.Cells, meta.CodeCells))

	lines, err := notebook.Preview(e.Path, previewLines)
	if err != nil {
		b.WriteString("\n" + styleError.Render(err.Error()))
		return b.String()
	}
	if len(lines) == 0 {
		b.WriteString("\n" + styleSubtle.Render("Empty notebook"))
		return b.String()
	}

	b.WriteString("\n")
	for _, line := range lines {
		b.WriteString(line + "\n")
	}
	return b.String()
}
