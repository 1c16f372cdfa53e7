package actions

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/nbtree/nbtree/internal/logging"
)

const (
	// BuiltinPrefix namespaces the actions installed at construction.
	BuiltinPrefix = "nbtree"

	// AutoPrefix namespaces ad hoc registrations that omit a prefix.
	AutoPrefix = "auto"
)

// Registry maps qualified names ("<prefix>.<name>") to Action records. One
// registry exists per UI session. Built-ins are installed at construction;
// ad hoc actions may be added afterwards; nothing is ever removed.
//
// Dispatch itself is synchronous, but the remote change feed and the version
// check touch the registry from other goroutines, so the map and the held
// environment sit behind one RWMutex. Handlers run outside the lock.
type Registry struct {
	mu        sync.RWMutex
	env       Env
	actions   map[string]Action
	autoNames map[uintptr]string
	autoSeq   int
}

// NewRegistry builds a registry around env and installs the built-in
// tables. The env reference is lent by the caller, who keeps ownership;
// pass an empty Env when collaborators arrive later through ExtendEnv.
func NewRegistry(env Env) *Registry {
	if env == nil {
		env = Env{}
	}
	r := &Registry{
		env:       env,
		actions:   make(map[string]Action),
		autoNames: make(map[uintptr]string),
	}
	r.installBuiltins()
	return r
}

// ExtendEnv merges partial into the held environment, overwriting keys that
// already exist. Hosts call it as UI collaborators come online. There is no
// removal operation.
func (r *Registry) ExtendEnv(partial Env) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.env.Extend(partial)
}

// Environment returns the held environment. The map is shared with the
// owner, not a copy.
func (r *Registry) Environment() Env {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.env
}

// Register adds an action under "<prefix>.<name>" and returns the qualified
// name actually used. v may be a handler function (Func, SimpleFunc or
// their underlying types) or an Action record; it goes through Normalize.
// An empty prefix falls back to AutoPrefix. An empty name is generated from
// the handler's identity, so registering the same function twice without a
// name yields the same qualified name both times and the second entry
// replaces the first. Replacing any existing entry is permitted; it is
// logged at debug level, not rejected.
func (r *Registry) Register(v any, name, prefix string) (string, error) {
	action, err := Normalize(v)
	if err != nil {
		return "", err
	}
	if prefix == "" {
		prefix = AutoPrefix
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if name == "" {
		// Normalize already guaranteed a handler, so an identity exists.
		ptr, _ := handlerIdentity(v)
		name = r.autoName(ptr)
	}
	qualified := prefix + "." + name
	if _, exists := r.actions[qualified]; exists {
		logging.GetLogger("actions").Debug().
			Str("name", qualified).
			Msg("replacing existing action")
	}
	r.actions[qualified] = action
	return qualified, nil
}

// ResolveName resolves v to a registered qualified name. A string resolves
// to itself when an entry with that exact name exists, and to ("", false)
// otherwise. A handler or Action value is registered under a generated name
// and that name is returned. Registration failures also report false; call
// Register directly when the error matters.
func (r *Registry) ResolveName(v any) (string, bool) {
	if name, ok := v.(string); ok {
		if r.Exists(name) {
			return name, true
		}
		return "", false
	}
	name, err := r.Register(v, "", "")
	if err != nil {
		return "", false
	}
	return name, true
}

// Get returns the record registered under name. Absence is a normal result
// here, reported through the boolean.
func (r *Registry) Get(name string) (Action, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	action, ok := r.actions[name]
	return action, ok
}

// Exists reports whether name has a registered entry.
func (r *Registry) Exists(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.actions[name]
	return ok
}

// Invoke looks up name and calls its handler with ev and env, returning the
// handler's Outcome unchanged. A nil env falls back to the registry's held
// environment. Unknown names fail with NotFoundError: invoking a missing
// action is a caller bug, unlike the probing lookups above. Callers holding
// user-configured names should check Exists first.
func (r *Registry) Invoke(name string, ev *Event, env Env) (Outcome, error) {
	r.mu.RLock()
	action, ok := r.actions[name]
	if env == nil {
		env = r.env
	}
	r.mu.RUnlock()

	if !ok {
		return NotHandled, &NotFoundError{Name: name}
	}
	return action.Handler(env, ev), nil
}

// Names returns all qualified names in lexical order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	r.mu.RUnlock()

	sort.Strings(names)
	return names
}

// Entry pairs a qualified name with its action for display listings.
type Entry struct {
	Name string
	Action
}

// Entries returns every registered action ordered for help display:
// entries carrying a HelpIndex first, by index then name; unindexed entries
// after, by name.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	entries := make([]Entry, 0, len(r.actions))
	for name, action := range r.actions {
		entries = append(entries, Entry{Name: name, Action: action})
	}
	r.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		switch {
		case a.HelpIndex == "" && b.HelpIndex == "":
			return a.Name < b.Name
		case a.HelpIndex == "":
			return false
		case b.HelpIndex == "":
			return true
		case a.HelpIndex != b.HelpIndex:
			return a.HelpIndex < b.HelpIndex
		default:
			return a.Name < b.Name
		}
	})
	return entries
}

// autoName returns the generated name for a handler identity, assigning the
// next counter value on first sight.
func (r *Registry) autoName(ptr uintptr) string {
	if name, ok := r.autoNames[ptr]; ok {
		return name
	}
	r.autoSeq++
	name := fmt.Sprintf("handler-%d", r.autoSeq)
	r.autoNames[ptr] = name
	return name
}

// handlerIdentity extracts the identity of the handler carried by v: its
// function code pointer. Distinct functions get distinct identities;
// closures built from the same literal share one, which preserves the
// inherited collide-and-replace behavior for repeated registration.
func handlerIdentity(v any) (uintptr, bool) {
	switch a := v.(type) {
	case Action:
		if a.Handler == nil {
			return 0, false
		}
		return reflect.ValueOf(a.Handler).Pointer(), true
	case *Action:
		if a == nil || a.Handler == nil {
			return 0, false
		}
		return reflect.ValueOf(a.Handler).Pointer(), true
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Func || rv.IsNil() {
			return 0, false
		}
		return rv.Pointer(), true
	}
}
