package keymap

// NewDefaultRegistry returns the stock keymap. Search, rename, confirm and
// palette are text-entry modes whose editing keys are handled by their mode
// handlers directly; only the list and global contexts dispatch through the
// action registry.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	registerGlobalBindings(r)
	registerListBindings(r)
	return r
}

func registerGlobalBindings(r *Registry) {
	r.Register(ContextGlobal, "ctrl+c", "nbtree.quit")
}

func registerListBindings(r *Registry) {
	// Navigation
	r.RegisterMultiple(ContextList, []string{"down", "j"}, "nbtree.select-next-row")
	r.RegisterMultiple(ContextList, []string{"up", "k"}, "nbtree.select-previous-row")
	r.RegisterMultiple(ContextList, []string{"gg", "home"}, "nbtree.select-first-row")
	r.RegisterMultiple(ContextList, []string{"G", "end"}, "nbtree.select-last-row")

	// Marks
	r.Register(ContextList, " ", "nbtree.toggle-mark")
	r.Register(ContextList, "esc", "nbtree.clear-or-propagate")

	// File operations
	r.Register(ContextList, "enter", "nbtree.open-selected")
	r.Register(ContextList, "n", "nbtree.new-notebook")
	r.Register(ContextList, "d", "nbtree.duplicate-selected")
	r.Register(ContextList, "D", "nbtree.delete-selected")
	r.Register(ContextList, "R", "nbtree.rename-selected")
	r.Register(ContextList, "r", "nbtree.refresh-list")
	r.Register(ContextList, "y", "nbtree.copy-path")
	r.Register(ContextList, "s", "nbtree.checkpoint-selected")

	// View
	r.Register(ContextList, ".", "nbtree.toggle-hidden")
	r.Register(ContextList, "o", "nbtree.cycle-sort")
	r.Register(ContextList, "p", "nbtree.toggle-preview")
	r.Register(ContextList, "ctrl+d", "nbtree.scroll-preview-down")
	r.Register(ContextList, "ctrl+u", "nbtree.scroll-preview-up")

	// Overlays
	r.Register(ContextList, "/", "nbtree.open-search")
	r.Register(ContextList, ":", "nbtree.open-palette")
	r.Register(ContextList, "?", "nbtree.open-help")
	r.Register(ContextList, "H", "nbtree.open-history")

	// Application
	r.Register(ContextList, "q", "nbtree.quit")
}
