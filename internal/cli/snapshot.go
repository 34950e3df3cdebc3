package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	lgerrors "github.com/matzehuels/linkgraph/pkg/errors"
	"github.com/matzehuels/linkgraph/pkg/graph"
	"github.com/matzehuels/linkgraph/pkg/storage"
)

// snapshotCommand creates the snapshot management command.
func (c *CLI) snapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "snapshot",
		Aliases: []string{"snap"},
		Short:   "Manage saved graph snapshots",
	}

	cmd.AddCommand(c.snapshotSaveCommand())
	cmd.AddCommand(c.snapshotListCommand())
	cmd.AddCommand(c.snapshotShowCommand())
	cmd.AddCommand(c.snapshotRestoreCommand())
	cmd.AddCommand(c.snapshotDeleteCommand())

	return cmd
}

func (c *CLI) snapshotSaveCommand() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "save <graph.json>",
		Short: "Save a graph file as a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := graph.ReadGraphFile(args[0])
			if err != nil {
				return err
			}
			if name == "" {
				name = basePath("", args[0])
			}
			return c.saveSnapshot(cmd.Context(), name, graph.FromLinkGraph(g))
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "snapshot name (default: file name)")
	return cmd
}

func (c *CLI) snapshotListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved snapshots",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(ctx context.Context, store storage.Store) error {
				list, err := store.List(ctx)
				if err != nil {
					return err
				}
				if len(list) == 0 {
					printInfo(c.Out, "No snapshots saved")
					return nil
				}
				fmt.Fprintln(c.Out, snapshotTable(list, time.Now()))
				return nil
			})
		},
	}
}

func (c *CLI) snapshotShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a snapshot's graph as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSnapshot(cmd.Context(), args[0], func(_ context.Context, _ storage.Store, snap *storage.Snapshot) error {
				g, err := graph.ToLinkGraph(snap.Graph)
				if err != nil {
					return err
				}
				return graph.WriteGraph(g, c.Out)
			})
		},
	}
}

func (c *CLI) snapshotRestoreCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "restore <id>",
		Short: "Write a snapshot to a graph file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSnapshot(cmd.Context(), args[0], func(_ context.Context, _ storage.Store, snap *storage.Snapshot) error {
				g, err := graph.ToLinkGraph(snap.Graph)
				if err != nil {
					return err
				}
				path := output
				if path == "" {
					path = snap.Name + ".json"
				}
				if err := graph.WriteGraphFile(g, path); err != nil {
					return err
				}
				printSuccess(c.Out, "Restored %s", styleHighlight.Render(snap.Name))
				printFile(c.Out, path)
				printNextStep(c.Out, "Inspect it", "linkgraph explore "+path)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <name>.json)")
	return cmd
}

func (c *CLI) snapshotDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a snapshot",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSnapshot(cmd.Context(), args[0], func(ctx context.Context, store storage.Store, snap *storage.Snapshot) error {
				if err := store.Delete(ctx, snap.ID); err != nil {
					return err
				}
				printSuccess(c.Out, "Deleted snapshot %s", styleHighlight.Render(snap.Name))
				return nil
			})
		},
	}
}

// withStore opens the configured store for the duration of fn.
func (c *CLI) withStore(ctx context.Context, fn func(context.Context, storage.Store) error) error {
	store, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(ctx, store)
}

// withSnapshot loads the snapshot with the given ID and passes it to fn.
func (c *CLI) withSnapshot(ctx context.Context, rawID string, fn func(context.Context, storage.Store, *storage.Snapshot) error) error {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return lgerrors.Wrap(lgerrors.ErrCodeInvalidInput, err, "snapshot ID %q", rawID)
	}
	return c.withStore(ctx, func(ctx context.Context, store storage.Store) error {
		snap, err := store.Get(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return lgerrors.New(lgerrors.ErrCodeSnapshotNotFound, "no snapshot with ID %s", id)
			}
			return err
		}
		return fn(ctx, store, snap)
	})
}

// snapshotTable renders summaries as a bordered table.
func snapshotTable(list []storage.Summary, now time.Time) string {
	rows := make([][]string, len(list))
	for i, s := range list {
		rows[i] = []string{s.ID.String(), s.Name, strconv.Itoa(s.Nodes), strconv.Itoa(s.Edges), formatRelativeTime(s.CreatedAt, now)}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Name", "Nodes", "Edges", "Saved").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 1:
				return lipgloss.NewStyle().Foreground(colorCyan)
			case col == 0 || col == 4:
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		}).
		String()
}

func formatRelativeTime(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
