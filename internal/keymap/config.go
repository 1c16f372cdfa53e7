package keymap

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/nbtree/nbtree/internal/config"
	"github.com/nbtree/nbtree/internal/logging"
)

// Config is the on-disk keymap format. Each context maps a key chord to a
// qualified action name.
type Config struct {
	Version  string                       `json:"version,omitempty"`
	Contexts map[string]map[string]string `json:"contexts"`
}

// LoadConfig reads a keymap config from path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keymap config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse keymap config: %w", err)
	}
	return &cfg, nil
}

// SaveConfig writes a keymap config to path.
func SaveConfig(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize keymap config: %w", err)
	}
	if err := os.WriteFile(path, data, config.FilePermissions); err != nil {
		return fmt.Errorf("failed to write keymap config: %w", err)
	}
	return nil
}

// ApplyConfig overlays cfg onto the registry. Bindings whose action name the
// resolver does not know are skipped with a warning so a stale config cannot
// wedge the whole keymap.
func ApplyConfig(r *Registry, cfg *Config, resolver Resolver) {
	logger := logging.GetLogger("keymap")
	for ctx, bindings := range cfg.Contexts {
		for key, action := range bindings {
			if resolver != nil && !resolver.Exists(action) {
				logger.Warn().
					Str("context", ctx).
					Str("key", key).
					Str("action", action).
					Msg("skipping binding for unknown action")
				continue
			}
			r.Register(Context(ctx), key, action)
		}
	}
}

// LoadOrDefault builds the effective keymap: the defaults, overlaid with the
// user config at path when one exists. A missing file is not an error.
func LoadOrDefault(path string, resolver Resolver) (*Registry, error) {
	r := NewDefaultRegistry()

	cfg, err := LoadConfig(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return r, nil
		}
		return nil, err
	}

	ApplyConfig(r, cfg, resolver)
	return r, nil
}

// ExportDefaults dumps the default keymap as a Config, suitable for seeding a
// user config file.
func ExportDefaults() *Config {
	r := NewDefaultRegistry()
	cfg := &Config{
		Version:  "1",
		Contexts: make(map[string]map[string]string),
	}
	for _, ctx := range r.Contexts() {
		out := make(map[string]string)
		for _, b := range r.ListBindings(ctx) {
			// ListBindings folds global bindings in for display; export
			// only what the context owns.
			if b.Context != ctx {
				continue
			}
			out[b.Key] = b.Action
		}
		cfg.Contexts[string(ctx)] = out
	}
	return cfg
}

// CreateExampleConfig writes a starter keymap seeded from the defaults to
// path. It refuses to overwrite an existing file.
func CreateExampleConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("keymap config already exists at %s", path)
	}
	return SaveConfig(path, ExportDefaults())
}

// DescribeDefaults renders the default bindings as sorted lines of
// "context  key  action", used by the CLI keymap listing.
func DescribeDefaults() []string {
	r := NewDefaultRegistry()
	var lines []string
	for _, ctx := range r.Contexts() {
		for _, b := range r.ListBindings(ctx) {
			if b.Context != ctx {
				continue
			}
			lines = append(lines, fmt.Sprintf("%-8s %-12s %s", ctx, b.Key, b.Action))
		}
	}
	sort.Strings(lines)
	return lines
}
