package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/nbtree/nbtree/internal/actions"
	"github.com/nbtree/nbtree/internal/config"
	"github.com/nbtree/nbtree/internal/keymap"
)

// ExportKeymap writes the default keymap as JSON, to path when given or to
// stdout otherwise. The output is a valid starting point for
// ~/.nbtree/keymap.json.
func ExportKeymap(path string) error {
	cfg := keymap.ExportDefaults()

	if path == "" {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to serialize keymap: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	if err := keymap.SaveConfig(path, cfg); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Default keymap written to %s\n", path)
	return nil
}

// InitKeymap seeds ~/.nbtree/keymap.json with the defaults. It refuses to
// overwrite an existing config.
func InitKeymap() error {
	if err := keymap.CreateExampleConfig(config.KeymapPath); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Keymap config created at %s\n", config.KeymapPath)
	return nil
}

// validateFile overlays the config at path onto the default keymap without
// the load-time unknown-action filtering, so the validator sees every
// binding the user wrote.
func validateFile(path string, resolver keymap.Resolver) (*keymap.ValidationResult, error) {
	cfg, err := keymap.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	keys := keymap.NewDefaultRegistry()
	for ctx, bindings := range cfg.Contexts {
		for key, action := range bindings {
			keys.Register(keymap.Context(ctx), key, action)
		}
	}
	return keymap.Validate(keys, resolver), nil
}

// ValidateKeymap checks the keymap config at path (the user config when path
// is empty) against the registered actions. Errors make the command fail;
// warnings do not.
func ValidateKeymap(path string) error {
	if path == "" {
		path = config.KeymapPath
	}

	reg := actions.NewRegistry(nil)
	result, err := validateFile(path, reg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Printf("No keymap config at %s (defaults apply)\n", path)
			return nil
		}
		return err
	}

	if result.Valid() && len(result.Warnings) == 0 {
		fmt.Printf("%sOK%s %s\n", colorGreen, colorReset, path)
		return nil
	}

	for _, e := range result.Errors {
		fmt.Printf("%serror%s   %s\n", colorRed, colorReset, e.Error())
	}
	for _, w := range result.Warnings {
		fmt.Printf("%swarning%s %s\n", colorYellow, colorReset, w.Error())
	}

	if !result.Valid() {
		return fmt.Errorf("keymap %s has %d error(s)", path, len(result.Errors))
	}
	return nil
}
