// Package tui implements the interactive notebook browser.
//
// The model is a single bubbletea program: a notebook list pane, an optional
// preview pane, and a status bar, plus overlay modes for search, rename,
// confirmation prompts, the command palette, keyboard help, and the
// invocation history.
//
// Keystrokes in the list are not handled directly. Each chord is resolved
// through the keymap registry to a qualified action name and dispatched
// through the action registry; handlers reach back into the model through
// the bridges in bridges.go. Text-entry modes (search, rename, confirm,
// palette) consume their keys before any of that happens, so typing "j"
// into a rename prompt never moves the selection.
package tui
