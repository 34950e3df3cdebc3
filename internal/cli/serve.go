package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/linkgraph/internal/server"
	"github.com/matzehuels/linkgraph/pkg/events"
	"github.com/matzehuels/linkgraph/pkg/observability"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve hosts live graphs over HTTP. Graphs are created with POST /graphs and
edited through /graphs/{id}/connections, /graphs/{id}/nodes/{node} and
/graphs/{id}/script. Snapshots use the configured store.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = c.config.Server.Addr
			}

			observability.NewLogHooks(c.Logger).Register()
			defer observability.Reset()

			store, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := server.New(server.Config{
				Store:          store,
				Runner:         runner,
				Dispatcher:     events.New(events.WithLogger(c.Logger)),
				Logger:         c.Logger,
				RequestTimeout: c.config.Server.RequestTimeout.Duration,
			})
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the render cache")

	return cmd
}
