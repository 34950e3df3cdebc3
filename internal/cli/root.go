package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/linkgraph/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Linkgraph builds and inspects undirected connection graphs",
		Long: `Linkgraph maintains sparse undirected graphs of named nodes. Graphs are
built from TOML edit scripts, queried, rendered, snapshotted and served over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := c.loadConfig(); err != nil {
			return err
		}
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		return nil
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./linkgraph.toml or ~/.config/linkgraph/config.toml)")

	root.AddCommand(c.applyCommand())
	root.AddCommand(c.queryCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.gridCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.snapshotCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file selected by --config.
func (c *CLI) loadConfig() error {
	cfg, path, err := loadConfig(c.configPath)
	if err != nil {
		return err
	}
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	c.config = cfg
	return nil
}
