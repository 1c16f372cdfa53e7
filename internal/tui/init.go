package tui

import (
	"context"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nbtree/nbtree/internal/actions"
	"github.com/nbtree/nbtree/internal/config"
	"github.com/nbtree/nbtree/internal/history"
	"github.com/nbtree/nbtree/internal/keymap"
	"github.com/nbtree/nbtree/internal/logging"
	"github.com/nbtree/nbtree/internal/notebook"
	"github.com/nbtree/nbtree/internal/remote"
	"github.com/nbtree/nbtree/internal/session"
)

// Options configure the browser entrypoint.
type Options struct {
	// Dir is the notebook directory to browse. Empty means the last
	// browsed directory from the session, falling back to the working
	// directory.
	Dir string

	// ServerURL switches to a read-only listing from a Jupyter-compatible
	// server instead of the local filesystem.
	ServerURL string

	// Token authenticates against the server.
	Token string

	// Version is the build version, used for the update check.
	Version string

	// Verbosity is the -v count controlling the log level.
	Verbosity int
}

// New creates the TUI model. Config paths must be initialized before calling.
func New(mgr *session.Manager, opts Options) (*Model, error) {
	registry := actions.NewRegistry(nil)

	keys, err := keymap.LoadOrDefault(config.KeymapPath, registry)
	if err != nil {
		return nil, fmt.Errorf("failed to load keymap: %w", err)
	}

	historyMgr, err := history.NewManager(config.DatabasePath)
	if err != nil {
		// The browser works without history; record why it is missing.
		logging.GetLogger("tui").Warn().Err(err).Msg("action history unavailable")
		historyMgr = nil
	}

	m := &Model{
		registry:   registry,
		keys:       keys,
		sessionMgr: mgr,
		historyMgr: historyMgr,
		version:    opts.Version,
		mode:       ModeList,
		list:       newListState(),
		palette:    &paletteState{},
		sortMode:   mgr.Sort(),
		showHidden: mgr.ShowHidden(),
	}
	m.preview = &previewState{visible: mgr.PreviewVisible()}

	if opts.ServerURL != "" {
		m.remote = remote.NewClient(opts.ServerURL, opts.Token)
	} else {
		dir, err := resolveStartDir(mgr, opts.Dir)
		if err != nil {
			return nil, err
		}
		m.store = notebook.NewStore(dir)
		if err := mgr.SetDir(dir); err != nil {
			logging.GetLogger("tui").Warn().Err(err).Msg("failed to persist directory")
		}

		entries, err := m.store.Scan(m.showHidden)
		if err != nil {
			return nil, err
		}
		m.applyEntries(entries)
	}

	m.registry.ExtendEnv(actions.Env{
		actions.EnvList:      m.list,
		actions.EnvPreview:   &previewBridge{m: m},
		actions.EnvStore:     &storeBridge{m: m},
		actions.EnvUI:        &uiBridge{m: m},
		actions.EnvClipboard: actions.ClipboardFunc(clipboard.WriteAll),
	})

	return m, nil
}

// resolveStartDir picks the directory to browse: the explicit argument wins,
// then the session's last directory, then the working directory. A stale
// session directory falls back instead of failing startup.
func resolveStartDir(mgr *session.Manager, arg string) (string, error) {
	if arg != "" {
		return config.ResolveDir(arg)
	}
	if last := mgr.Dir(); last != "" {
		if dir, err := config.ResolveDir(last); err == nil {
			return dir, nil
		}
		logging.GetLogger("tui").Debug().Str("dir", last).Msg("last directory gone, using working directory")
	}
	return config.ResolveDir("")
}

// Run starts the browser and blocks until it exits.
func Run(opts Options) error {
	if err := config.Initialize(); err != nil {
		return err
	}

	// bubbletea owns the terminal from here on; logs go to the file.
	logFile, err := os.OpenFile(config.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, config.FilePermissions)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()
	logging.Setup(opts.Verbosity, logFile)

	mgr := session.NewManager()
	if err := mgr.Load(); err != nil {
		return err
	}

	m, err := New(mgr, opts)
	if err != nil {
		return err
	}

	// Update uses a pointer receiver; hand the program the same pointer the
	// bridges captured.
	p := tea.NewProgram(m, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if m.remote != nil {
		// Follow the server's change feed for as long as the program runs.
		// Servers without the feed endpoint just surface one error message.
		client := m.remote
		go func() {
			if err := client.Subscribe(ctx, func(ev remote.Event) {
				p.Send(remoteEventMsg{event: ev})
			}); err != nil {
				p.Send(feedClosedMsg{err: err})
			}
		}()
	}

	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
