package tui

import (
	"fmt"
	"strings"

	"github.com/nbtree/nbtree/internal/keymap"
)

// buildHelpContent lists every registered action with its list-context
// bindings, in registry help order.
func (m *Model) buildHelpContent() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render("Keyboard Reference") + "\n\n")
	if m.updateNotice != "" {
		b.WriteString(styleWarning.Render(m.updateNotice) + "\n\n")
	}

	for _, entry := range m.registry.Entries() {
		keys := m.keys.GetBindingString(keymap.ContextList, entry.Name)
		if keys == "unbound" {
			keys = styleSubtle.Render("unbound")
		}
		icon := entry.Icon
		if icon == "" {
			icon = " "
		}
		b.WriteString(fmt.Sprintf("  %-16s %s  %-28s %s\n", keys, icon, entry.Name, styleSubtle.Render(entry.Help)))
	}

	b.WriteString("\n" + styleSubtle.Render("j/k scroll | g/G top/bottom | esc close"))
	return b.String()
}
