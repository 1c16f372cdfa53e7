package tui

// UI layout constants
const (
	// sidebarPercent is the list pane's share of the width when the
	// preview is visible
	sidebarPercent = 45

	// minSidebarWidth keeps the list readable on narrow terminals
	minSidebarWidth = 38

	// narrowWidth is the terminal width below which the panes split 50/50
	narrowWidth = 100

	// chromePreviewHeight is the vertical space around the preview
	// viewport: status bar, borders, and the pane title
	chromePreviewHeight = 7

	// statusTruncateAt caps status and error message length
	statusTruncateAt = 100

	// previewLines is how many source lines Preview extracts per notebook
	previewLines = 120

	// historyPageSize is how many invocations the history overlay loads
	historyPageSize = 200

	// paletteVisibleRows caps the palette result window
	paletteVisibleRows = 12
)
