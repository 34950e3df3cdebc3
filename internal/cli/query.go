package cli

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	lgerrors "github.com/matzehuels/linkgraph/pkg/errors"
	"github.com/matzehuels/linkgraph/pkg/graph"
	"github.com/matzehuels/linkgraph/pkg/linkgraph"
)

// queryOpts holds the flags for the query command.
type queryOpts struct {
	node       string
	connected  string
	reachable  string
	components bool
}

// queryCommand creates the query command.
func (c *CLI) queryCommand() *cobra.Command {
	var opts queryOpts

	cmd := &cobra.Command{
		Use:   "query <graph.json>",
		Short: "Inspect nodes and connections of a graph file",
		Long: `Query prints facts about a graph file. Without flags it prints a summary.

  linkgraph query net.json --node router       neighbours and degree of a node
  linkgraph query net.json --connected a,b     whether a and b share an edge
  linkgraph query net.json --reachable a,b     whether a path joins a and b
  linkgraph query net.json --components        connected components`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := graph.ReadGraphFile(args[0])
			if err != nil {
				return err
			}
			return c.runQuery(g, opts)
		},
	}

	cmd.Flags().StringVar(&opts.node, "node", "", "show the neighbours of a node")
	cmd.Flags().StringVar(&opts.connected, "connected", "", "check a direct connection: a,b")
	cmd.Flags().StringVar(&opts.reachable, "reachable", "", "check for a path: a,b")
	cmd.Flags().BoolVar(&opts.components, "components", false, "list connected components")
	cmd.MarkFlagsMutuallyExclusive("node", "connected", "reachable", "components")

	return cmd
}

func (c *CLI) runQuery(g *linkgraph.Graph[string], opts queryOpts) error {
	switch {
	case opts.node != "":
		neighbours := g.ConnectedNodes(opts.node).Slice()
		slices.Sort(neighbours)
		printKeyValue(c.Out, "node", opts.node)
		printKeyValue(c.Out, "present", strconv.FormatBool(g.Contains(opts.node)))
		printKeyValue(c.Out, "degree", strconv.Itoa(g.ConnectionCount(opts.node)))
		printList(c.Out, "Neighbours", neighbours)

	case opts.connected != "":
		a, b, err := parsePair(opts.connected)
		if err != nil {
			return err
		}
		printKeyValue(c.Out, a+" - "+b, strconv.FormatBool(g.ContainsConnection(a, b)))

	case opts.reachable != "":
		a, b, err := parsePair(opts.reachable)
		if err != nil {
			return err
		}
		printKeyValue(c.Out, a+" ~ "+b, strconv.FormatBool(g.Reachable(a, b)))

	case opts.components:
		comps := g.Components()
		for _, comp := range comps {
			slices.Sort(comp)
		}
		slices.SortFunc(comps, func(x, y []string) int { return strings.Compare(x[0], y[0]) })
		for i, comp := range comps {
			printList(c.Out, fmt.Sprintf("Component %d", i+1), comp)
		}

	default:
		printKeyValue(c.Out, "nodes", strconv.Itoa(g.Len()))
		printKeyValue(c.Out, "edges", strconv.Itoa(g.EdgeCount()))
		printKeyValue(c.Out, "components", strconv.Itoa(len(g.Components())))
	}
	return nil
}

// parsePair parses "a,b" into two node IDs.
func parsePair(s string) (string, string, error) {
	parts := splitList(s)
	if len(parts) != 2 {
		return "", "", lgerrors.New(lgerrors.ErrCodeInvalidInput, "expected two comma-separated nodes, got %q", s)
	}
	for _, p := range parts {
		if err := lgerrors.ValidateNodeID(p); err != nil {
			return "", "", err
		}
	}
	return parts[0], parts[1], nil
}
