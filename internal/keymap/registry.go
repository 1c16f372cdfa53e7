package keymap

import (
	"sort"
	"strings"
)

// Context names the UI surface a binding is active in.
type Context string

const (
	ContextGlobal  Context = "global"  // checked after every specific context
	ContextList    Context = "list"    // the notebook list
	ContextSearch  Context = "search"  // incremental search input
	ContextRename  Context = "rename"  // rename input
	ContextConfirm Context = "confirm" // delete confirmation
	ContextPalette Context = "palette" // command palette
	ContextHelp    Context = "help"    // help overlay
	ContextHistory Context = "history" // invocation history modal
)

// Binding is one chord-to-action mapping.
type Binding struct {
	Key     string
	Action  string
	Context Context
}

// Registry holds chord-to-action-name mappings per context. It is consumed
// from the TUI update loop only; there is no internal locking.
type Registry struct {
	// bindings maps context -> chord -> qualified action name
	bindings map[Context]map[string]string

	// multiKeyState tracks pending multi-key sequences like 'gg'
	multiKeyState map[Context]string
}

// NewRegistry returns an empty keymap registry.
func NewRegistry() *Registry {
	return &Registry{
		bindings:      make(map[Context]map[string]string),
		multiKeyState: make(map[Context]string),
	}
}

// Register binds a chord to a qualified action name within a context.
// Later registrations override earlier ones, which is how the user keymap
// layers over the defaults.
func (r *Registry) Register(context Context, key, action string) {
	if r.bindings[context] == nil {
		r.bindings[context] = make(map[string]string)
	}
	r.bindings[context][key] = action
}

// RegisterMultiple binds several chords to the same action.
func (r *Registry) RegisterMultiple(context Context, keys []string, action string) {
	for _, key := range keys {
		r.Register(context, key, action)
	}
}

// Match resolves a chord to an action name, checking the specific context
// first and the global context second.
func (r *Registry) Match(context Context, key string) (string, bool) {
	if contextBindings, ok := r.bindings[context]; ok {
		if action, ok := contextBindings[key]; ok {
			return action, true
		}
	}
	if globalBindings, ok := r.bindings[ContextGlobal]; ok {
		if action, ok := globalBindings[key]; ok {
			return action, true
		}
	}
	return "", false
}

// MatchMultiKey resolves a chord while tracking multi-key sequences.
// Returns the action, whether a complete match was found, and whether the
// chord opened a pending sequence ('g' waiting for the second key).
func (r *Registry) MatchMultiKey(context Context, key string) (string, bool, bool) {
	if prevKey, hasPending := r.multiKeyState[context]; hasPending {
		sequence := prevKey + key
		delete(r.multiKeyState, context)

		if action, ok := r.Match(context, sequence); ok {
			return action, true, false
		}
		return "", false, false
	}

	if key == "g" && r.hasSequenceStartingWith(context, "g") {
		r.multiKeyState[context] = key
		return "", false, true
	}

	action, ok := r.Match(context, key)
	return action, ok, false
}

// ClearMultiKeyState drops any pending sequence for a context.
func (r *Registry) ClearMultiKeyState(context Context) {
	delete(r.multiKeyState, context)
}

// hasSequenceStartingWith reports whether any bound chord is a multi-key
// sequence opening with prefix, in the context or globally.
func (r *Registry) hasSequenceStartingWith(context Context, prefix string) bool {
	for _, ctx := range []Context{context, ContextGlobal} {
		for key := range r.bindings[ctx] {
			if len(key) > 1 && !strings.Contains(key, "+") && strings.HasPrefix(key, prefix) {
				return true
			}
		}
	}
	return false
}

// GetBinding returns the chords bound to an action in a context, falling
// back to the global context, sorted for stable display.
func (r *Registry) GetBinding(context Context, action string) []string {
	var keys []string
	if contextBindings, ok := r.bindings[context]; ok {
		for key, act := range contextBindings {
			if act == action {
				keys = append(keys, key)
			}
		}
	}
	if len(keys) == 0 {
		if globalBindings, ok := r.bindings[ContextGlobal]; ok {
			for key, act := range globalBindings {
				if act == action {
					keys = append(keys, key)
				}
			}
		}
	}
	sort.Strings(keys)
	return keys
}

// GetBindingString renders the chords for an action, or "unbound".
func (r *Registry) GetBindingString(context Context, action string) string {
	keys := r.GetBinding(context, action)
	if len(keys) == 0 {
		return "unbound"
	}
	return strings.Join(keys, ", ")
}

// ListBindings returns the bindings visible from a context: its own plus
// the global ones.
func (r *Registry) ListBindings(context Context) []Binding {
	var bindings []Binding
	if contextBindings, ok := r.bindings[context]; ok {
		for key, action := range contextBindings {
			bindings = append(bindings, Binding{Key: key, Action: action, Context: context})
		}
	}
	if context != ContextGlobal {
		if globalBindings, ok := r.bindings[ContextGlobal]; ok {
			for key, action := range globalBindings {
				bindings = append(bindings, Binding{Key: key, Action: action, Context: ContextGlobal})
			}
		}
	}
	sort.Slice(bindings, func(i, j int) bool {
		if bindings[i].Context != bindings[j].Context {
			return bindings[i].Context < bindings[j].Context
		}
		return bindings[i].Key < bindings[j].Key
	})
	return bindings
}

// HasBinding reports whether a chord is bound in a context or globally.
func (r *Registry) HasBinding(context Context, key string) bool {
	if contextBindings, ok := r.bindings[context]; ok {
		if _, ok := contextBindings[key]; ok {
			return true
		}
	}
	if globalBindings, ok := r.bindings[ContextGlobal]; ok {
		if _, ok := globalBindings[key]; ok {
			return true
		}
	}
	return false
}

// Contexts returns every context that carries at least one binding.
func (r *Registry) Contexts() []Context {
	contexts := make([]Context, 0, len(r.bindings))
	for ctx := range r.bindings {
		contexts = append(contexts, ctx)
	}
	sort.Slice(contexts, func(i, j int) bool { return contexts[i] < contexts[j] })
	return contexts
}

// Clone returns a deep copy of the registry. Pending multi-key state is not
// carried over.
func (r *Registry) Clone() *Registry {
	clone := NewRegistry()
	for context, contextBindings := range r.bindings {
		for key, action := range contextBindings {
			clone.Register(context, key, action)
		}
	}
	return clone
}

// Merge layers another registry's bindings over this one.
func (r *Registry) Merge(other *Registry) {
	for context, contextBindings := range other.bindings {
		for key, action := range contextBindings {
			r.Register(context, key, action)
		}
	}
}
