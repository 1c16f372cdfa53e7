package main

import (
	"fmt"
	"os"

	"github.com/nbtree/nbtree/internal/cli"
	"github.com/nbtree/nbtree/internal/config"
	"github.com/nbtree/nbtree/internal/logging"
	"github.com/nbtree/nbtree/internal/tui"
	"github.com/spf13/cobra"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "nbtree [dir]",
	Short: "nbtree - keyboard-driven notebook browser",
	Long: `nbtree is a terminal browser for Jupyter notebooks.

Run without arguments to browse the current directory, or pass a directory
to start there. Every keystroke resolves through a configurable keymap
(~/.nbtree/keymap.json) to a named action; 'nbtree actions' lists what can
be bound and 'nbtree keymap export' dumps the defaults to start from.

Examples:
  nbtree                                 # browse the current directory
  nbtree ~/notebooks                     # browse a specific directory
  nbtree --server http://localhost:8888 --token T
                                         # browse a running Jupyter server
  nbtree actions -o yaml                 # registered actions with bindings
  nbtree history -n 50                   # last 50 action invocations
  nbtree keymap validate                 # check ~/.nbtree/keymap.json`,
	Version:       version,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := ""
		if len(args) > 0 {
			dir = args[0]
		}
		return tui.Run(tui.Options{
			Dir:       dir,
			ServerURL: flagServer,
			Token:     flagToken,
			Version:   version,
			Verbosity: flagVerbosity,
		})
	},
}

var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "List registered actions and their bindings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := initCLI(); err != nil {
			return err
		}
		return cli.ListActions(cli.ActionsOptions{OutputFormat: flagOutput})
	},
}

var keymapCmd = &cobra.Command{
	Use:   "keymap",
	Short: "Inspect and manage the keybinding config",
}

var keymapExportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Write the default keymap as JSON (stdout when no path)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := initCLI(); err != nil {
			return err
		}
		path := ""
		if len(args) > 0 {
			path = args[0]
		}
		return cli.ExportKeymap(path)
	},
}

var keymapValidateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Check a keymap config against the registered actions",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := initCLI(); err != nil {
			return err
		}
		path := ""
		if len(args) > 0 {
			path = args[0]
		}
		return cli.ValidateKeymap(path)
	},
}

var keymapInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create ~/.nbtree/keymap.json seeded with the defaults",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := initCLI(); err != nil {
			return err
		}
		return cli.InitKeymap()
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded action invocations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := initCLI(); err != nil {
			return err
		}
		return cli.ShowHistory(cli.HistoryOptions{
			Limit:        flagLimit,
			Action:       flagAction,
			Counts:       flagCounts,
			OutputFormat: flagOutput,
		})
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all recorded invocations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := initCLI(); err != nil {
			return err
		}
		return cli.ClearHistory(flagYes)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and check for a newer release",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.ShowVersion(version)
	},
}

// Flags for the root command
var (
	flagServer    string
	flagToken     string
	flagVerbosity int
)

// Flags shared by the listing commands
var flagOutput string

// Flags for history
var (
	flagLimit  int
	flagAction string
	flagCounts bool
	flagYes    bool
)

func init() {
	rootCmd.PersistentFlags().CountVarP(&flagVerbosity, "verbose", "v", "Increase log verbosity (repeatable)")
	rootCmd.Flags().StringVar(&flagServer, "server", "", "Browse a Jupyter server at this URL instead of a local directory")
	rootCmd.Flags().StringVar(&flagToken, "token", "", "API token for --server")

	actionsCmd.Flags().StringVarP(&flagOutput, "output", "o", "text", "Output format (text/json/yaml)")

	historyCmd.Flags().StringVarP(&flagOutput, "output", "o", "text", "Output format (text/json/yaml)")
	historyCmd.Flags().IntVarP(&flagLimit, "limit", "n", 20, "Maximum entries to show")
	historyCmd.Flags().StringVar(&flagAction, "action", "", "Only show invocations of this action")
	historyCmd.Flags().BoolVar(&flagCounts, "counts", false, "Show per-action usage counts instead")

	historyClearCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Skip the confirmation prompt")

	keymapCmd.AddCommand(keymapExportCmd)
	keymapCmd.AddCommand(keymapValidateCmd)
	keymapCmd.AddCommand(keymapInitCmd)
	historyCmd.AddCommand(historyClearCmd)

	rootCmd.AddCommand(actionsCmd)
	rootCmd.AddCommand(keymapCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// initCLI prepares config paths and stderr logging for the non-TUI
// subcommands. The TUI path does its own setup because it logs to a file.
func initCLI() error {
	if err := config.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}
	logging.SetupConsole(flagVerbosity)
	return nil
}
