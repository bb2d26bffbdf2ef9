package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/brickyard/pkg/buildinfo"
	"github.com/matzehuels/brickyard/pkg/builder"
	"github.com/matzehuels/brickyard/pkg/catalog"
	"github.com/matzehuels/brickyard/pkg/config"
	"github.com/matzehuels/brickyard/pkg/observability"
	"github.com/matzehuels/brickyard/pkg/storage"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "brickyard"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is set by --config. Empty means the XDG default.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Brickyard is a grid-snapped brick building editor",
		Long:         `Brickyard lets you place, move, recolor and delete toy bricks on a snapped grid, with undo/redo and saved builds. Use it interactively in the terminal or drive it over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			hooks := observability.NewLogHooks(c.Logger)
			observability.SetEngineHooks(hooks)
			observability.SetStorageHooks(hooks)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/brickyard/config.toml)")

	// Register all subcommands
	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.paletteCommand())
	root.AddCommand(c.sceneCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Wiring
// =============================================================================

// loadConfig reads the configuration selected by --config.
func (c *CLI) loadConfig() (config.Config, error) {
	return config.Load(config.ExpandHome(c.configPath))
}

// loadCatalog returns the palette named in the config, or the built-in one.
func loadCatalog(cfg config.Config) (*catalog.Catalog, error) {
	if cfg.Editor.Catalog == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(config.ExpandHome(cfg.Editor.Catalog))
}

// openStore opens the configured backend and reports its calls to the
// storage hooks.
func openStore(ctx context.Context, cfg config.Config) (storage.Store, error) {
	s, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}
	return storage.Instrument(s, cfg.Storage.Backend), nil
}

// workspace bundles what a command needs to drive an engine.
type workspace struct {
	cfg     config.Config
	catalog *catalog.Catalog
	store   storage.Store
}

func (w *workspace) Close() error { return w.store.Close() }

// engine builds an engine over the workspace's catalog and store.
func (w *workspace) engine(opts ...builder.Option) *builder.Engine {
	base := []builder.Option{
		builder.WithCatalog(w.catalog),
		builder.WithStore(w.store),
		builder.WithStorageKey(w.cfg.Storage.Key),
		builder.WithHistoryLimit(w.cfg.Editor.HistoryLimit),
		builder.WithActiveType(w.cfg.Editor.DefaultType),
	}
	return builder.New(append(base, opts...)...)
}

// openWorkspace loads config, catalog and store. Callers must Close it.
func (c *CLI) openWorkspace(ctx context.Context) (*workspace, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	cat, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}
	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	loggerFromContext(ctx).Debug("workspace", "backend", cfg.Storage.Backend, "key", cfg.Storage.Key, "bricks", cat.Len())
	return &workspace{cfg: cfg, catalog: cat, store: store}, nil
}
