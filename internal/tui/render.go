package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Adaptive color definitions for light/dark terminal support
var (
	colorGreen  = lipgloss.AdaptiveColor{Light: "#006400", Dark: "#00ff00"}
	colorRed    = lipgloss.AdaptiveColor{Light: "#8b0000", Dark: "#ff0000"}
	colorYellow = lipgloss.AdaptiveColor{Light: "#b8860b", Dark: "#ffff00"}
	colorBlue   = lipgloss.AdaptiveColor{Light: "#00008b", Dark: "#0000ff"}
	colorGray   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "#008b8b", Dark: "#00ffff"}
)

// Style definitions
var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	styleSelected = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#d3d3d3", Dark: "#3a3a3a"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"})

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorGreen)

	styleError = lipgloss.NewStyle().
			Foreground(colorRed)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorYellow)

	styleSubtle = lipgloss.NewStyle().
			Foreground(colorGray)

	styleMark = lipgloss.NewStyle().
			Foreground(colorYellow).
			Bold(true)
)

// renderMain renders the list pane, the optional preview pane, and the
// status bar.
func (m *Model) renderMain() string {
	paneHeight := m.height - 3

	var body string
	if m.preview.visible {
		sidebarW := m.sidebarWidth()
		previewW := m.width - sidebarW - 4
		body = lipgloss.JoinHorizontal(
			lipgloss.Top,
			m.renderList(sidebarW, paneHeight),
			m.renderPreview(previewW, paneHeight),
		)
	} else {
		body = m.renderList(m.width-2, paneHeight)
	}

	return body + "\n" + m.renderStatusBar()
}

// renderList renders the notebook list with its scroll window and footer.
func (m *Model) renderList(width, height int) string {
	var b strings.Builder

	title := "Notebooks"
	if m.showHidden {
		title += " (+hidden)"
	}
	b.WriteString(styleTitle.Render(title) + "\n")

	pageSize := height - 5
	if pageSize < 1 {
		pageSize = 1
	}

	if len(m.list.entries) == 0 {
		b.WriteString(styleSubtle.Render("No notebooks here.") + "\n")
		b.WriteString(styleSubtle.Render("Press n to create one.") + "\n")
		for i := 2; i < pageSize; i++ {
			b.WriteString("\n")
		}
	} else {
		end := m.list.offset + pageSize
		if end > len(m.list.entries) {
			end = len(m.list.entries)
		}
		for i := m.list.offset; i < end; i++ {
			b.WriteString(m.renderListRow(i, width-4) + "\n")
		}
		for i := end - m.list.offset; i < pageSize; i++ {
			b.WriteString("\n")
		}
	}

	b.WriteString(m.renderListFooter())

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorGreen).
		Padding(0, 1).
		Width(width).
		Height(height - 2).
		Render(b.String())
}

// renderListRow renders one entry: mark, name, size, and modification time.
func (m *Model) renderListRow(i, width int) string {
	e := m.list.entries[i]

	mark := " "
	if m.list.isMarked(e.Path) {
		mark = "*"
	}

	meta := fmt.Sprintf("%8s  %s", formatSize(e.Size), formatModTime(e.ModTime))
	nameWidth := width - len(mark) - 1 - lipgloss.Width(meta) - 2
	if nameWidth < 8 {
		nameWidth = 8
	}
	name := truncate(e.Name, nameWidth)

	selected := i == m.list.index
	if selected {
		line := fmt.Sprintf("%s %-*s  %s", mark, nameWidth, name, meta)
		return styleSelected.Render(line)
	}

	styledName := name
	switch {
	case m.searchApplied != "" && strings.Contains(strings.ToLower(e.Name), strings.ToLower(m.searchApplied)):
		styledName = styleWarning.Render(name)
	case e.Hidden:
		styledName = styleSubtle.Render(name)
	}
	pad := ""
	if n := nameWidth - lipgloss.Width(name); n > 0 {
		pad = strings.Repeat(" ", n)
	}

	markStr := mark
	if mark == "*" {
		markStr = styleMark.Render(mark)
	}
	return fmt.Sprintf("%s %s%s  %s", markStr, styledName, pad, styleSubtle.Render(meta))
}

// renderListFooter shows the cursor position, mark count, and sort order.
func (m *Model) renderListFooter() string {
	position := "[0/0]"
	if len(m.list.entries) > 0 {
		position = fmt.Sprintf("[%d/%d]", m.list.index+1, len(m.list.entries))
	}
	footer := position + " " + string(m.sortMode)
	if n := len(m.list.marks); n > 0 {
		footer += fmt.Sprintf(", %d marked", n)
	}
	if m.searchApplied != "" {
		footer += ", search: " + m.searchApplied
	}
	return styleSubtle.Render(footer)
}

// renderPreview renders the preview pane.
func (m *Model) renderPreview(width, height int) string {
	var b strings.Builder

	title := "Preview"
	if m.preview.title != "" {
		title = "Preview: " + truncate(m.preview.title, width-12)
	}
	b.WriteString(styleTitle.Render(title) + "\n")
	b.WriteString(m.preview.view.View())

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorGray).
		Padding(0, 1).
		Width(width).
		Height(height - 2).
		Render(b.String())
}

// renderStatusBar renders the bottom line: browsed location on the left,
// messages or active input on the right.
func (m *Model) renderStatusBar() string {
	left := truncate(m.locationLabel(), m.width/2)

	var right string
	switch m.mode {
	case ModeSearch:
		right = "Search: " + addCursor(m.searchQuery)
	case ModeRename:
		right = "Rename: " + addCursorAt(m.renameInput, m.renameCursor)
	case ModeConfirm:
		right = styleWarning.Render(m.confirmPrompt)
	default:
		switch {
		case m.errorMsg != "":
			right = styleError.Render(m.errorMsg)
		case m.statusMsg != "":
			right = styleSuccess.Render(m.statusMsg)
		case m.updateNotice != "":
			right = styleWarning.Render(m.updateNotice)
		default:
			right = styleSubtle.Render("/ search | : palette | ? help | q quit")
		}
	}

	spacing := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if spacing < 1 {
		spacing = 1
	}
	return left + strings.Repeat(" ", spacing) + right
}

// renderHelp renders the keyboard reference overlay.
func (m *Model) renderHelp() string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBlue).
		Padding(1, 2).
		Width(m.width - 2).
		Height(m.height - 2)
	return box.Render(m.helpView.View())
}

// renderHistory renders the invocation history overlay.
func (m *Model) renderHistory() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("Action History") + "\n\n")

	pageSize := m.height - 9
	if pageSize < 1 {
		pageSize = 1
	}
	if m.historyIndex < m.historyOffset {
		m.historyOffset = m.historyIndex
	}
	if m.historyIndex >= m.historyOffset+pageSize {
		m.historyOffset = m.historyIndex - pageSize + 1
	}

	switch {
	case m.historyErr != "":
		b.WriteString(styleError.Render(m.historyErr) + "\n")
	case len(m.historyEntries) == 0:
		b.WriteString(styleSubtle.Render("No recorded invocations yet.") + "\n")
	default:
		end := m.historyOffset + pageSize
		if end > len(m.historyEntries) {
			end = len(m.historyEntries)
		}
		for i := m.historyOffset; i < end; i++ {
			e := m.historyEntries[i]
			chord := e.Chord
			if chord == "" {
				chord = "-"
			}
			line := fmt.Sprintf("%s  %-30s %-10s %-12s %s",
				e.Timestamp.Format("Jan 02 15:04:05"),
				truncate(e.Action, 30),
				truncate(chord, 10),
				e.Outcome,
				truncate(e.Notebook, 24),
			)
			if i == m.historyIndex {
				b.WriteString(styleSelected.Render(line) + "\n")
			} else {
				b.WriteString(line + "\n")
			}
		}
	}

	b.WriteString("\n")
	if n := len(m.historyEntries); n > 0 {
		b.WriteString(styleSubtle.Render(fmt.Sprintf("[%d/%d] ", m.historyIndex+1, n)))
	}
	b.WriteString(styleSubtle.Render("j/k move | d delete | c clear | r reload | esc close"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBlue).
		Padding(1, 2).
		Width(m.width - 2).
		Height(m.height - 2)
	return box.Render(b.String())
}

// renderPalette renders the centered command palette.
func (m *Model) renderPalette() string {
	p := m.palette
	width := min(64, m.width-6)

	var b strings.Builder
	b.WriteString(styleTitle.Render("Command Palette") + "\n")
	b.WriteString("> " + addCursor(p.input) + "\n\n")

	if len(p.matches) == 0 {
		b.WriteString(styleSubtle.Render("No matching actions") + "\n")
	} else {
		start, end := p.window(paletteVisibleRows)
		for i := start; i < end; i++ {
			item := p.matches[i]
			keys := item.keys
			if keys == "unbound" {
				keys = ""
			}
			line := fmt.Sprintf("%-28s %s", truncate(item.name, 28), styleSubtle.Render(keys))
			if i == p.index {
				line = styleSelected.Render(fmt.Sprintf("%-28s %s", truncate(item.name, 28), keys))
			}
			b.WriteString(line + "\n")
		}
		if item, ok := p.selectedItem(); ok && item.help != "" {
			b.WriteString("\n" + styleSubtle.Render(truncate(item.help, width-4)) + "\n")
		}
	}

	b.WriteString("\n" + styleSubtle.Render("enter run | esc close"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBlue).
		Padding(1, 2).
		Width(width).
		Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// addCursor appends a block cursor to input text.
func addCursor(text string) string {
	return text + "█"
}

// addCursorAt inserts the block cursor at a rune position.
func addCursorAt(text string, pos int) string {
	runes := []rune(text)
	if pos < 0 {
		pos = 0
	}
	if pos >= len(runes) {
		return string(runes) + "█"
	}
	return string(runes[:pos]) + "█" + string(runes[pos:])
}

// truncate cuts s to width runes, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	if width < 1 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}

// formatSize renders a byte count in human units.
func formatSize(size int64) string {
	switch {
	case size >= 1<<30:
		return fmt.Sprintf("%.1fG", float64(size)/(1<<30))
	case size >= 1<<20:
		return fmt.Sprintf("%.1fM", float64(size)/(1<<20))
	case size >= 1<<10:
		return fmt.Sprintf("%.1fK", float64(size)/(1<<10))
	default:
		return fmt.Sprintf("%dB", size)
	}
}

// formatModTime renders a modification time compactly, dropping the year for
// dates in the current year.
func formatModTime(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	if t.Year() == time.Now().Year() {
		return t.Format("Jan 02 15:04")
	}
	return t.Format("Jan 02 2006")
}
