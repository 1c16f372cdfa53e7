package keymap

import (
	"fmt"
	"strings"
)

// Resolver reports whether a qualified action name is registered. The action
// registry satisfies it.
type Resolver interface {
	Exists(name string) bool
}

// ValidationError describes a single problem found in a keymap.
type ValidationError struct {
	Context Context
	Key     string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %q: %s", e.Context, e.Key, e.Message)
}

// ValidationResult collects the errors and warnings from a validation pass.
// Warnings do not make the keymap unusable.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// Valid reports whether the keymap can be used as-is.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// String renders the result for terminal output.
func (r *ValidationResult) String() string {
	if len(r.Errors) == 0 && len(r.Warnings) == 0 {
		return "No issues found"
	}

	var sb strings.Builder
	if len(r.Errors) > 0 {
		fmt.Fprintf(&sb, "Errors (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			fmt.Fprintf(&sb, "  %s\n", e.Error())
		}
	}
	if len(r.Warnings) > 0 {
		fmt.Fprintf(&sb, "Warnings (%d):\n", len(r.Warnings))
		for _, w := range r.Warnings {
			fmt.Fprintf(&sb, "  %s\n", w.Error())
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (r *ValidationResult) addError(ctx Context, key, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{ctx, key, fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) addWarning(ctx Context, key, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{ctx, key, fmt.Sprintf(format, args...)})
}

// Validate checks a registry for broken bindings: empty keys or actions,
// action names the resolver does not know, a rebound interrupt chord, and
// context bindings that shadow a global one.
func Validate(reg *Registry, resolver Resolver) *ValidationResult {
	result := &ValidationResult{}

	for _, ctx := range reg.Contexts() {
		for _, b := range reg.ListBindings(ctx) {
			if b.Context != ctx {
				continue
			}
			if err := ValidateKey(b.Key); err != nil {
				result.addError(ctx, b.Key, "%v", err)
			}
			if strings.TrimSpace(b.Action) == "" {
				result.addError(ctx, b.Key, "binding has no action")
				continue
			}
			if resolver != nil && !resolver.Exists(b.Action) {
				result.addError(ctx, b.Key, "unknown action %q", b.Action)
			}
			if ctx != ContextGlobal {
				if global, ok := reg.Match(ContextGlobal, b.Key); ok && global != b.Action {
					result.addWarning(ctx, b.Key, "shadows global binding for %q", global)
				}
			}
		}
	}

	// ctrl+c must always quit, whatever else the user remaps.
	if action, ok := reg.Match(ContextGlobal, "ctrl+c"); !ok || action != "nbtree.quit" {
		result.addError(ContextGlobal, "ctrl+c", "must stay bound to nbtree.quit")
	}

	return result
}

// namedKeys are the non-printable chords accepted beyond single runes.
var namedKeys = map[string]bool{
	"enter": true, "esc": true, "tab": true, "backspace": true,
	"up": true, "down": true, "left": true, "right": true,
	"home": true, "end": true, "pgup": true, "pgdown": true,
	"delete": true, "insert": true, " ": true,
}

// ValidateKey checks that a chord is something the key dispatcher can ever
// produce: a single rune, a two-rune sequence, a named key, or a
// ctrl+/alt+ modified rune.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("empty key")
	}
	if namedKeys[key] {
		return nil
	}
	for _, mod := range []string{"ctrl+", "alt+"} {
		if rest, ok := strings.CutPrefix(key, mod); ok {
			if len([]rune(rest)) != 1 {
				return fmt.Errorf("modifier %q needs a single key, got %q", mod, rest)
			}
			return nil
		}
	}
	if n := len([]rune(key)); n > 2 {
		return fmt.Errorf("unrecognized key %q", key)
	}
	return nil
}
