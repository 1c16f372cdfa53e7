package actions

import "strings"

// Outcome reports whether an action consumed its triggering input.
//
// The boolean convention is inherited from browser-style keyboard handling
// and is inverted from what a reader expects: true means the input was NOT
// handled and should keep propagating, false means it was handled and
// propagation stops. Always use the named constants.
type Outcome bool

const (
	// Handled consumes the input; propagation stops.
	Handled Outcome = false

	// NotHandled leaves the input for the next handler.
	NotHandled Outcome = true
)

// Propagate reports whether the input should continue past this action.
func (o Outcome) Propagate() bool {
	return bool(o)
}

func (o Outcome) String() string {
	if o == Handled {
		return "handled"
	}
	return "not-handled"
}

// Func is the normalized handler signature stored in the registry. The
// event is nil when the action is invoked outside key dispatch (palette,
// CLI, tests).
type Func func(env Env, ev *Event) Outcome

// SimpleFunc is the environment-only handler form used by the simple
// built-in table. Wrapped simple handlers always suppress the event's
// default behavior and always report Handled.
type SimpleFunc func(env Env)

// Action is a registered unit of behavior with display metadata. Handler is
// always non-nil for any record the registry stores; the strings default to
// empty. Records enter the registry only through Normalize.
type Action struct {
	Handler   Func
	Help      string
	HelpIndex string
	Icon      string
}

// Normalize turns a bare handler function or a partial Action record into a
// complete record. Missing metadata fields become empty strings. It fails
// with InvalidActionError when v carries no callable handler.
func Normalize(v any) (Action, error) {
	switch a := v.(type) {
	case Action:
		if a.Handler == nil {
			return Action{}, &InvalidActionError{Reason: "record has no handler"}
		}
		return a, nil
	case *Action:
		if a == nil || a.Handler == nil {
			return Action{}, &InvalidActionError{Reason: "record has no handler"}
		}
		return *a, nil
	case Func:
		if a == nil {
			return Action{}, &InvalidActionError{Reason: "nil handler"}
		}
		return Action{Handler: a}, nil
	case func(Env, *Event) Outcome:
		if a == nil {
			return Action{}, &InvalidActionError{Reason: "nil handler"}
		}
		return Action{Handler: a}, nil
	case SimpleFunc:
		if a == nil {
			return Action{}, &InvalidActionError{Reason: "nil handler"}
		}
		return Action{Handler: wrapSimple(a)}, nil
	case func(Env):
		if a == nil {
			return Action{}, &InvalidActionError{Reason: "nil handler"}
		}
		return Action{Handler: wrapSimple(a)}, nil
	default:
		return Action{}, &InvalidActionError{Reason: "no callable handler"}
	}
}

// wrapSimple adapts an environment-only handler to the normalized
// signature: suppress the event's default, run, report Handled.
func wrapSimple(fn SimpleFunc) Func {
	return func(env Env, ev *Event) Outcome {
		if ev != nil {
			ev.PreventDefault()
		}
		fn(env)
		return Handled
	}
}

// helpFromBase derives display help from an action's base name by turning
// separator runes into single spaces: "select-next-row" reads as
// "select next row". Applied only when a built-in table entry leaves Help
// empty; ad hoc registrations keep whatever Normalize produced.
func helpFromBase(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_'
	})
	return strings.Join(parts, " ")
}
