package actions

// The two source tables the registry is built from. Simple entries hold
// environment-only handlers that get the suppress-and-consume wrapper;
// advanced entries hold full-signature handlers stored as-is. An empty help
// string is filled in from the base name at installation.

type simpleDef struct {
	name      string
	help      string
	helpIndex string
	icon      string
	handler   SimpleFunc
}

type advancedDef struct {
	name      string
	help      string
	helpIndex string
	icon      string
	handler   Func
}

func simpleTable() []simpleDef {
	return []simpleDef{
		// Navigation. Help text for these is derived from the name.
		{name: "select-next-row", helpIndex: "aa", icon: "↓", handler: selectNextRow},
		{name: "select-previous-row", helpIndex: "ab", icon: "↑", handler: selectPreviousRow},
		{name: "select-first-row", helpIndex: "ac", handler: selectFirstRow},
		{name: "select-last-row", helpIndex: "ad", handler: selectLastRow},

		// Marks.
		{name: "toggle-mark", help: "mark or unmark the selected notebook", helpIndex: "ba", icon: "*", handler: toggleMark},
		{name: "clear-marks", helpIndex: "bb", handler: clearMarks},

		// File operations.
		{name: "open-selected", help: "open the selected notebook in $EDITOR", helpIndex: "ca", icon: "✎", handler: openSelected},
		{name: "new-notebook", help: "create a new untitled notebook", helpIndex: "cb", icon: "+", handler: newNotebook},
		{name: "duplicate-selected", helpIndex: "cc", icon: "⧉", handler: duplicateSelected},
		{name: "rename-selected", helpIndex: "cd", handler: renameSelected},
		{name: "delete-selected", help: "delete the selected notebook", helpIndex: "ce", icon: "✗", handler: deleteSelected},
		{name: "refresh-list", helpIndex: "cf", icon: "⟳", handler: refreshList},
		{name: "copy-path", help: "copy the selected notebook path", helpIndex: "cg", handler: copyPath},

		// View toggles and overlays.
		{name: "toggle-hidden", help: "show or hide dotfiles", helpIndex: "da", handler: toggleHidden},
		{name: "cycle-sort", help: "cycle the sort order", helpIndex: "db", handler: cycleSort},
		{name: "toggle-preview", helpIndex: "dc", handler: togglePreview},
		{name: "open-search", help: "search notebooks by name", helpIndex: "dd", icon: "/", handler: openSearch},
		{name: "open-palette", help: "open the command palette", helpIndex: "de", icon: ">", handler: openPalette},
		{name: "open-help", help: "show keyboard help", helpIndex: "df", icon: "?", handler: openHelp},
		{name: "open-history", help: "browse action history", helpIndex: "dg", handler: openHistory},

		// Application.
		{name: "quit", help: "exit nbtree", helpIndex: "ea", handler: quit},
	}
}

func advancedTable() []advancedDef {
	return []advancedDef{
		{name: "clear-or-propagate", help: "clear marks and search highlights", helpIndex: "bc", handler: clearOrPropagate},
		{name: "checkpoint-selected", help: "snapshot the selected notebook", helpIndex: "ch", icon: "⎘", handler: checkpointSelected},
		{name: "scroll-preview-down", help: "scroll the preview down", helpIndex: "dh", handler: scrollPreviewDown},
		{name: "scroll-preview-up", help: "scroll the preview up", helpIndex: "di", handler: scrollPreviewUp},
	}
}

// installBuiltins populates the registry from both tables. Runs during
// construction, before the registry is visible to other goroutines.
func (r *Registry) installBuiltins() {
	for _, def := range simpleTable() {
		r.install(def.name, Action{
			Handler:   wrapSimple(def.handler),
			Help:      def.help,
			HelpIndex: def.helpIndex,
			Icon:      def.icon,
		})
	}
	for _, def := range advancedTable() {
		r.install(def.name, Action{
			Handler:   def.handler,
			Help:      def.help,
			HelpIndex: def.helpIndex,
			Icon:      def.icon,
		})
	}
}

func (r *Registry) install(base string, action Action) {
	if action.Help == "" {
		action.Help = helpFromBase(base)
	}
	r.actions[BuiltinPrefix+"."+base] = action
}

// Simple handlers. Each degrades to a no-op when its collaborator is not in
// the environment yet.

func selectNextRow(env Env) {
	if nav, ok := Lookup[ListNavigator](env, EnvList); ok {
		nav.Next()
	}
}

func selectPreviousRow(env Env) {
	if nav, ok := Lookup[ListNavigator](env, EnvList); ok {
		nav.Prev()
	}
}

func selectFirstRow(env Env) {
	if nav, ok := Lookup[ListNavigator](env, EnvList); ok {
		nav.First()
	}
}

func selectLastRow(env Env) {
	if nav, ok := Lookup[ListNavigator](env, EnvList); ok {
		nav.Last()
	}
}

func toggleMark(env Env) {
	if nav, ok := Lookup[ListNavigator](env, EnvList); ok {
		nav.ToggleMark()
	}
}

func clearMarks(env Env) {
	if nav, ok := Lookup[ListNavigator](env, EnvList); ok {
		nav.ClearMarks()
	}
}

func openSelected(env Env) {
	store, ok := Lookup[NotebookStore](env, EnvStore)
	if !ok {
		return
	}
	path, ok := store.SelectedPath()
	if !ok {
		return
	}
	if ui, ok := Lookup[UI](env, EnvUI); ok {
		ui.OpenEditor(path)
	}
}

func newNotebook(env Env) {
	store, ok := Lookup[NotebookStore](env, EnvStore)
	if !ok {
		return
	}
	ui, _ := Lookup[UI](env, EnvUI)
	name, err := store.CreateUntitled()
	if err != nil {
		if ui != nil {
			ui.SetError("create failed: " + err.Error())
		}
		return
	}
	if ui != nil {
		ui.SetStatus("Created " + name)
	}
}

func duplicateSelected(env Env) {
	store, ok := Lookup[NotebookStore](env, EnvStore)
	if !ok {
		return
	}
	ui, _ := Lookup[UI](env, EnvUI)
	path, ok := store.SelectedPath()
	if !ok {
		return
	}
	name, err := store.Duplicate(path)
	if err != nil {
		if ui != nil {
			ui.SetError("duplicate failed: " + err.Error())
		}
		return
	}
	if ui != nil {
		ui.SetStatus("Created " + name)
	}
}

func renameSelected(env Env) {
	if ui, ok := Lookup[UI](env, EnvUI); ok {
		ui.EnterMode(ModeRename)
	}
}

func deleteSelected(env Env) {
	if ui, ok := Lookup[UI](env, EnvUI); ok {
		ui.EnterMode(ModeConfirmDelete)
	}
}

func refreshList(env Env) {
	store, ok := Lookup[NotebookStore](env, EnvStore)
	if !ok {
		return
	}
	ui, _ := Lookup[UI](env, EnvUI)
	if err := store.Refresh(); err != nil {
		if ui != nil {
			ui.SetError("refresh failed: " + err.Error())
		}
		return
	}
	if ui != nil {
		ui.SetStatus("Refreshed")
	}
}

func copyPath(env Env) {
	store, ok := Lookup[NotebookStore](env, EnvStore)
	if !ok {
		return
	}
	path, ok := store.SelectedPath()
	if !ok {
		return
	}
	copyText, ok := Lookup[ClipboardFunc](env, EnvClipboard)
	if !ok {
		return
	}
	ui, _ := Lookup[UI](env, EnvUI)
	if err := copyText(path); err != nil {
		if ui != nil {
			ui.SetError("clipboard: " + err.Error())
		}
		return
	}
	if ui != nil {
		ui.SetStatus("Path copied")
	}
}

func toggleHidden(env Env) {
	if ui, ok := Lookup[UI](env, EnvUI); ok {
		ui.ToggleHidden()
	}
}

func cycleSort(env Env) {
	if ui, ok := Lookup[UI](env, EnvUI); ok {
		ui.CycleSort()
	}
}

func togglePreview(env Env) {
	if pv, ok := Lookup[PreviewScroller](env, EnvPreview); ok {
		pv.Toggle()
	}
}

func openSearch(env Env) {
	if ui, ok := Lookup[UI](env, EnvUI); ok {
		ui.EnterMode(ModeSearch)
	}
}

func openPalette(env Env) {
	if ui, ok := Lookup[UI](env, EnvUI); ok {
		ui.EnterMode(ModePalette)
	}
}

func openHelp(env Env) {
	if ui, ok := Lookup[UI](env, EnvUI); ok {
		ui.EnterMode(ModeHelp)
	}
}

func openHistory(env Env) {
	if ui, ok := Lookup[UI](env, EnvUI); ok {
		ui.EnterMode(ModeHistory)
	}
}

func quit(env Env) {
	if ui, ok := Lookup[UI](env, EnvUI); ok {
		ui.Quit()
	}
}

// Advanced handlers. These decide suppression and propagation themselves.

// clearOrPropagate consumes the key only when there was something to clear,
// so Esc can still close an enclosing mode when the list is already clean.
func clearOrPropagate(env Env, ev *Event) Outcome {
	cleared := false
	if nav, ok := Lookup[ListNavigator](env, EnvList); ok {
		if nav.ClearMarks() > 0 {
			cleared = true
		}
	}
	if ui, ok := Lookup[UI](env, EnvUI); ok {
		if ui.ClearSearch() {
			cleared = true
		}
	}
	if !cleared {
		return NotHandled
	}
	if ev != nil {
		ev.PreventDefault()
	}
	return Handled
}

// checkpointSelected snapshots the selected notebook. With nothing selected
// it neither suppresses the event nor consumes the input.
func checkpointSelected(env Env, ev *Event) Outcome {
	store, ok := Lookup[NotebookStore](env, EnvStore)
	if !ok {
		return NotHandled
	}
	path, ok := store.SelectedPath()
	if !ok {
		return NotHandled
	}
	if ev != nil {
		ev.PreventDefault()
	}
	ui, _ := Lookup[UI](env, EnvUI)
	name, err := store.Checkpoint(path)
	if err != nil {
		if ui != nil {
			ui.SetError("checkpoint failed: " + err.Error())
		}
		return Handled
	}
	if ui != nil {
		ui.SetStatus("Checkpoint " + name)
	}
	return Handled
}

// scrollPreviewDown only claims the key while the preview pane is visible;
// otherwise the chord stays available to the list context.
func scrollPreviewDown(env Env, ev *Event) Outcome {
	pv, ok := Lookup[PreviewScroller](env, EnvPreview)
	if !ok || !pv.Visible() {
		return NotHandled
	}
	if ev != nil {
		ev.PreventDefault()
	}
	pv.ScrollDown(1)
	return Handled
}

func scrollPreviewUp(env Env, ev *Event) Outcome {
	pv, ok := Lookup[PreviewScroller](env, EnvPreview)
	if !ok || !pv.Visible() {
		return NotHandled
	}
	if ev != nil {
		ev.PreventDefault()
	}
	pv.ScrollUp(1)
	return Handled
}
