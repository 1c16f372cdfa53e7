/*
Package actions maps qualified action names to invocable handlers and
dispatches them against an environment of UI collaborators.

# Overview

Every keystroke the application handles resolves to a qualified action name
("nbtree.select-next-row") which is invoked through a Registry. The registry
is the single dispatch point: feature code never runs straight from the key
loop. Actions carry display metadata (help text, ordering key, icon) used by
the help overlay, the command palette and the `nbtree actions` command.

# Action Tables

The registry is populated at construction from two built-in tables:

  - Simple actions: handlers take only the environment. The registry wraps
    them so the triggering event's default behavior is always suppressed and
    the input is always reported as consumed.
  - Advanced actions: handlers take the environment and the event and decide
    for themselves whether to suppress the default and whether the input
    should keep propagating.

Ad hoc actions may be registered for the lifetime of the session; nothing is
ever removed. Registering over an existing name replaces the earlier entry.
The replacement is deliberate inherited behavior, logged at debug level
rather than rejected.

# Outcome Convention

Handlers report an Outcome whose underlying boolean convention is inverted:
NotHandled (true) means "I did not consume this input, keep propagating" and
Handled (false) means "consumed, stop". The convention predates this codebase
and is kept as a documented two-value contract. Use the named constants and
Outcome.Propagate; never compare the raw boolean against literals.

# Environment

The environment is an open bag of named collaborator references (list
navigator, preview scroller, notebook store, host bridge, clipboard). The
registry holds one environment, lent to it by the owner at construction;
callers may substitute another per invocation. ExtendEnv merges new
collaborators in as they become available.

# Errors

Normalize fails with InvalidActionError when given data with no callable
handler, and Invoke fails with NotFoundError for unknown names. Every other
lookup (Get, Exists, ResolveName) reports absence through comma-ok results,
because missing-is-normal at those call sites.
*/
package actions
