package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/brickyard/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve builder scenes over HTTP",
		Long: `Run the HTTP API. Every POST /scenes creates an isolated builder whose
pointer events, toolbar actions and property edits are sent as JSON requests.
Saved builds go to the configured storage backend, namespaced per scene.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			ws, err := c.openWorkspace(ctx)
			if err != nil {
				return err
			}
			defer ws.Close()

			cfg := ws.cfg.Server
			if addr != "" {
				cfg.Addr = addr
			}

			srv := server.New(server.Options{
				Catalog:      ws.catalog,
				Store:        ws.store,
				Logger:       logger,
				HistoryLimit: ws.cfg.Editor.HistoryLimit,
				StorageKey:   ws.cfg.Storage.Key,
			})
			printInfo("Serving on %s (%s storage)", StyleHighlight.Render(cfg.Addr), ws.cfg.Storage.Backend)
			return srv.ListenAndServe(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides [server] addr)")
	return cmd
}
