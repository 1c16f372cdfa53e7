package actions

// Event describes the keyboard input being dispatched through the registry.
// "Default behavior" is whatever the host would do with the keystroke after
// dispatch; in the TUI that means letting it fall through to the focused
// component (viewport scrolling, text input).
type Event struct {
	// Chord is the key in bubbletea notation: "j", "ctrl+d", "shift+tab".
	Chord string

	// Context names the keymap context the chord fired in, e.g. "list".
	// Empty for invocations that did not come from key dispatch.
	Context string

	defaultPrevented bool
}

// NewEvent returns an event for a chord fired in the given keymap context.
func NewEvent(chord, context string) *Event {
	return &Event{Chord: chord, Context: context}
}

// PreventDefault suppresses the host's default handling of this input.
// Calling it more than once is harmless.
func (e *Event) PreventDefault() {
	e.defaultPrevented = true
}

// DefaultPrevented reports whether PreventDefault has been called.
func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}
