package actions

// Env is the bag of UI collaborator references handed to handlers at
// invocation time. Keys are open-ended strings; values are whatever the host
// wires in. The map is shared and mutable: the registry holds one reference
// and callers may pass a different one per invocation. Entries are only ever
// added or replaced, never removed.
type Env map[string]any

// Extend merges partial into e, overwriting keys that already exist.
func (e Env) Extend(partial Env) {
	for k, v := range partial {
		e[k] = v
	}
}

// Lookup returns the collaborator stored under key if it exists and has
// type T. Handlers use it to degrade gracefully when a collaborator has not
// been wired in yet.
func Lookup[T any](env Env, key string) (T, bool) {
	var zero T
	if env == nil {
		return zero, false
	}
	v, ok := env[key]
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}

// Well-known environment keys used by the built-in actions. Hosts register
// collaborators under these names via ExtendEnv.
const (
	EnvList      = "list"      // ListNavigator
	EnvPreview   = "preview"   // PreviewScroller
	EnvStore     = "store"     // NotebookStore
	EnvUI        = "ui"        // UI
	EnvClipboard = "clipboard" // ClipboardFunc
)

// Mode names built-in actions ask the host to enter through UI.EnterMode.
const (
	ModeSearch        = "search"
	ModeRename        = "rename"
	ModeConfirmDelete = "confirm-delete"
	ModePalette       = "palette"
	ModeHelp          = "help"
	ModeHistory       = "history"
)

// ListNavigator moves the selection cursor and the mark set of the notebook
// list.
type ListNavigator interface {
	Next()
	Prev()
	First()
	Last()
	ToggleMark()
	// ClearMarks removes all marks and returns how many were cleared.
	ClearMarks() int
}

// PreviewScroller controls the preview pane.
type PreviewScroller interface {
	// Visible reports whether the preview pane is currently shown.
	Visible() bool
	Toggle()
	ScrollDown(lines int)
	ScrollUp(lines int)
}

// NotebookStore performs file operations on the listed notebooks.
type NotebookStore interface {
	// SelectedPath returns the absolute path of the notebook under the
	// cursor, or false when the list is empty.
	SelectedPath() (string, bool)
	CreateUntitled() (string, error)
	Duplicate(path string) (string, error)
	// Checkpoint snapshots path into the checkpoint directory and returns
	// the checkpoint file name.
	Checkpoint(path string) (string, error)
	Refresh() error
}

// UI is the host bridge: handlers use it to request mode changes, surface
// messages, and trigger host-level behavior. All methods must be cheap; the
// host defers real work (editor spawn, program exit) to its own event loop.
type UI interface {
	EnterMode(name string)
	SetStatus(msg string)
	SetError(msg string)
	Quit()
	OpenEditor(path string)
	ToggleHidden()
	CycleSort()
	// ClearSearch drops any active search highlight and reports whether
	// there was one to drop.
	ClearSearch() bool
}

// ClipboardFunc writes text to the system clipboard. Wired to a real
// clipboard by the host and to a capture function in tests.
type ClipboardFunc func(text string) error
