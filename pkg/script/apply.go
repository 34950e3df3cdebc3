package script

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/linkgraph/pkg/errors"
	"github.com/matzehuels/linkgraph/pkg/events"
	"github.com/matzehuels/linkgraph/pkg/linkgraph"
)

// Outcome summarises an applied script.
type Outcome struct {
	Steps    int           // Steps applied
	Nodes    int           // Nodes present afterwards
	Edges    int           // Connections present afterwards
	Duration time.Duration // Wall time spent applying
}

type applyConfig struct {
	dispatcher *events.Dispatcher
	graphID    string
	logger     *log.Logger
}

// ApplyOption configures Apply.
type ApplyOption func(*applyConfig)

// WithDispatcher publishes an events.Mutation after every step. The graph ID
// is copied into each event.
func WithDispatcher(d *events.Dispatcher, graphID string) ApplyOption {
	return func(c *applyConfig) {
		c.dispatcher = d
		c.graphID = graphID
	}
}

// WithLogger logs each step at debug level.
func WithLogger(l *log.Logger) ApplyOption {
	return func(c *applyConfig) { c.logger = l }
}

// Apply runs every step against g in order. The context is checked between
// steps; on cancellation the steps applied so far remain in effect and the
// outcome reports how many there were.
func (s *Script) Apply(ctx context.Context, g *linkgraph.Graph[string], opts ...ApplyOption) (Outcome, error) {
	cfg := applyConfig{logger: log.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	start := time.Now()
	var out Outcome
	for i, st := range s.Steps {
		if err := ctx.Err(); err != nil {
			out.finish(g, start)
			return out, errors.Wrap(errors.ErrCodeTimeout, err, "script stopped before step %d", i+1)
		}
		st.Apply(g)
		out.Steps++
		cfg.logger.Debug("step applied", "step", i+1, "op", st.Op, "nodes", g.Len())

		if cfg.dispatcher != nil {
			events.Publish(cfg.dispatcher, events.Mutation{
				Graph:     cfg.graphID,
				Op:        string(st.Op),
				Nodes:     st.Operands(),
				NodeCount: g.Len(),
				EdgeCount: g.EdgeCount(),
			})
		}
	}
	out.finish(g, start)
	return out, nil
}

func (o *Outcome) finish(g *linkgraph.Graph[string], start time.Time) {
	o.Nodes = g.Len()
	o.Edges = g.EdgeCount()
	o.Duration = time.Since(start)
}

// Apply performs the step on g. Invalid steps are no-ops.
func (st Step) Apply(g *linkgraph.Graph[string]) {
	switch st.Op {
	case OpConnect:
		g.AddConnection(st.A, st.B)
	case OpConnectMany:
		g.AddConnections(st.Node, st.Others...)
	case OpDisconnect:
		g.RemoveConnection(st.A, st.B)
	case OpDisconnectMany:
		g.RemoveConnections(st.Node, st.Others...)
	case OpClearNode:
		g.ClearConnections(st.Node)
	case OpCollapse:
		g.Collapse(st.Node)
	case OpClear:
		g.Clear()
	}
}
