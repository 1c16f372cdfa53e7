// Package cli implements the non-interactive subcommands: listing actions,
// exporting and validating keymaps, and querying the invocation history.
// Unlike the TUI, these commands own the terminal, so they print directly.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/nbtree/nbtree/internal/actions"
	"github.com/nbtree/nbtree/internal/config"
	"github.com/nbtree/nbtree/internal/keymap"
	"github.com/nbtree/nbtree/internal/version"
	"gopkg.in/yaml.v3"
)

// ANSI color codes
const (
	colorReset  = "\x1b[0m"
	colorRed    = "\x1b[31m"
	colorGreen  = "\x1b[32m"
	colorYellow = "\x1b[33m"
)

// isInteractive checks if stdin is a terminal (not piped)
func isInteractive() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// marshalAs renders v in the requested structured format. Text rendering is
// command-specific and handled by the callers.
func marshalAs(v any, format string) (string, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil

	case "yaml":
		data, err := yaml.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(data), nil

	default:
		return "", fmt.Errorf("unsupported output format %q (want text, json, or yaml)", format)
	}
}

// ActionsOptions contains options for the actions listing.
type ActionsOptions struct {
	OutputFormat string // text, json, yaml
}

// actionRow is the serializable view of one registered action.
type actionRow struct {
	Name string `json:"name" yaml:"name"`
	Keys string `json:"keys,omitempty" yaml:"keys,omitempty"`
	Icon string `json:"icon,omitempty" yaml:"icon,omitempty"`
	Help string `json:"help,omitempty" yaml:"help,omitempty"`
}

// buildActionRows pairs every registered action with its effective list
// binding, in help order.
func buildActionRows(reg *actions.Registry, keys *keymap.Registry) []actionRow {
	entries := reg.Entries()
	rows := make([]actionRow, 0, len(entries))
	for _, e := range entries {
		binding := keys.GetBindingString(keymap.ContextList, e.Name)
		if binding == "unbound" {
			binding = ""
		}
		rows = append(rows, actionRow{
			Name: e.Name,
			Keys: binding,
			Icon: e.Icon,
			Help: e.Help,
		})
	}
	return rows
}

func renderActionsText(rows []actionRow) string {
	var sb strings.Builder
	for _, row := range rows {
		keys := row.Keys
		if keys == "" {
			keys = "-"
		}
		icon := row.Icon
		if icon == "" {
			icon = " "
		}
		sb.WriteString(fmt.Sprintf("%-30s %s  %-16s %s\n", row.Name, icon, keys, row.Help))
	}
	return sb.String()
}

// ListActions prints every registered action with its help text and the
// chord bound to it in the list context, honoring the user keymap.
func ListActions(opts ActionsOptions) error {
	reg := actions.NewRegistry(nil)
	keys, err := keymap.LoadOrDefault(config.KeymapPath, reg)
	if err != nil {
		return fmt.Errorf("failed to load keymap: %w", err)
	}

	rows := buildActionRows(reg, keys)

	switch opts.OutputFormat {
	case "", "text":
		fmt.Print(renderActionsText(rows))
		return nil
	default:
		out, err := marshalAs(rows, opts.OutputFormat)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	}
}

// ShowVersion prints the build version and asks GitHub whether a newer
// release exists. A failed check is reported as a warning, not an error.
func ShowVersion(current string) error {
	fmt.Printf("nbtree %s\n", current)

	available, latest, url, err := version.CheckForUpdate(current)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: update check failed: %v\n", err)
		return nil
	}

	if available {
		fmt.Printf("%sUpdate available: %s%s\n%s\n", colorYellow, latest, colorReset, url)
	} else {
		fmt.Printf("%sUp to date%s\n", colorGreen, colorReset)
	}
	return nil
}
