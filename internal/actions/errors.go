package actions

import "fmt"

// InvalidActionError reports a registration value with no callable handler.
type InvalidActionError struct {
	Reason string
}

func (e *InvalidActionError) Error() string {
	return "invalid action: " + e.Reason
}

// NotFoundError reports an Invoke against a name with no registered entry.
// Callers holding untrusted names (user keymaps) should probe with Exists
// instead of relying on this error.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("action %q is not registered", e.Name)
}
