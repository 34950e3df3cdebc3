package server

import (
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/linkgraph/pkg/buildinfo"
	"github.com/matzehuels/linkgraph/pkg/errors"
	"github.com/matzehuels/linkgraph/pkg/events"
	"github.com/matzehuels/linkgraph/pkg/graph"
	"github.com/matzehuels/linkgraph/pkg/linkgraph"
	"github.com/matzehuels/linkgraph/pkg/pipeline"
	"github.com/matzehuels/linkgraph/pkg/render"
	"github.com/matzehuels/linkgraph/pkg/render/nodelink"
	"github.com/matzehuels/linkgraph/pkg/script"
	"github.com/matzehuels/linkgraph/pkg/storage"
)

// =============================================================================
// Request and response bodies
// =============================================================================

// connectionsRequest names either one pair (A, B) or a batch (Node, Others).
type connectionsRequest struct {
	A      string   `json:"a,omitempty"`
	B      string   `json:"b,omitempty"`
	Node   string   `json:"node,omitempty"`
	Others []string `json:"others,omitempty"`
}

func (c connectionsRequest) validate() error {
	pair := c.A != "" || c.B != ""
	batch := c.Node != "" || len(c.Others) > 0
	switch {
	case pair && batch:
		return errors.New(errors.ErrCodeInvalidInput, "give either a/b or node/others, not both")
	case pair:
		return validateNodes(c.A, c.B)
	case batch:
		if len(c.Others) == 0 {
			return errors.New(errors.ErrCodeInvalidInput, "others is required with node")
		}
		return validateNodes(append([]string{c.Node}, c.Others...)...)
	default:
		return errors.New(errors.ErrCodeInvalidInput, "a/b or node/others is required")
	}
}

func (c connectionsRequest) operands() []string {
	if c.A != "" || c.B != "" {
		return []string{c.A, c.B}
	}
	return append([]string{c.Node}, c.Others...)
}

func validateNodes(ids ...string) error {
	for _, id := range ids {
		if err := errors.ValidateNodeID(id); err != nil {
			return err
		}
	}
	return nil
}

type graphSummary struct {
	ID        uuid.UUID `json:"id"`
	Nodes     int       `json:"nodes"`
	Edges     int       `json:"edges"`
	CreatedAt time.Time `json:"created_at"`
}

type nodeResponse struct {
	Node        string   `json:"node"`
	Present     bool     `json:"present"`
	Count       int      `json:"count"`
	Connections []string `json:"connections"`
}

type connectedResponse struct {
	A         string `json:"a"`
	B         string `json:"b"`
	Connected bool   `json:"connected"`
	Reachable bool   `json:"reachable"`
}

type snapshotRequest struct {
	Name string `json:"name"`
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) liveGraph(r *http.Request) (*liveGraph, error) {
	id, err := uuidParam(r, "id", errors.ErrCodeGraphNotFound)
	if err != nil {
		return nil, err
	}
	lg, ok := s.graphs.get(id)
	if !ok {
		return nil, errors.New(errors.ErrCodeGraphNotFound, "graph %s not found", id)
	}
	return lg, nil
}

func summarize(lg *liveGraph) graphSummary {
	var sum graphSummary
	lg.with(func(g *linkgraph.Graph[string]) {
		sum = graphSummary{ID: lg.id, Nodes: g.Len(), Edges: g.EdgeCount(), CreatedAt: lg.created}
	})
	return sum
}

// mutate applies fn under the graph lock, publishes a Mutation and writes
// the resulting summary.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, op string, nodes []string, fn func(g *linkgraph.Graph[string])) {
	lg, err := s.liveGraph(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var ev events.Mutation
	lg.with(func(g *linkgraph.Graph[string]) {
		fn(g)
		ev = events.Mutation{Graph: lg.id.String(), Op: op, Nodes: nodes, NodeCount: g.Len(), EdgeCount: g.EdgeCount()}
	})
	events.Publish(s.events, ev)
	writeJSON(w, http.StatusOK, graphSummary{ID: lg.id, Nodes: ev.NodeCount, Edges: ev.EdgeCount, CreatedAt: lg.created})
}

func (s *Server) interchange(lg *liveGraph) graph.Graph {
	var out graph.Graph
	lg.with(func(g *linkgraph.Graph[string]) { out = graph.FromLinkGraph(g) })
	return out
}

// =============================================================================
// Service
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
		"date":    buildinfo.Date,
	})
}

// =============================================================================
// Graphs
// =============================================================================

func (s *Server) handleListGraphs(w http.ResponseWriter, r *http.Request) {
	live := s.graphs.list()
	out := make([]graphSummary, len(live))
	for i, lg := range live {
		out[i] = summarize(lg)
	}
	writeJSON(w, http.StatusOK, out)
}

// handleCreateGraph accepts an optional interchange graph as the body.
func (s *Server) handleCreateGraph(w http.ResponseWriter, r *http.Request) {
	var body graph.Graph
	if err := decodeJSON(r, &body, true); err != nil {
		s.writeError(w, r, err)
		return
	}
	g, err := graph.ToLinkGraph(body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	lg := s.graphs.add(g)
	events.Publish(s.events, events.GraphCreated{Graph: lg.id.String()})
	writeJSON(w, http.StatusCreated, summarize(lg))
}

func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	lg, err := s.liveGraph(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.interchange(lg))
}

func (s *Server) handleDeleteGraph(w http.ResponseWriter, r *http.Request) {
	lg, err := s.liveGraph(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.graphs.remove(lg.id)
	lg.with(func(g *linkgraph.Graph[string]) { g.Clear() })
	events.Publish(s.events, events.GraphDeleted{Graph: lg.id.String()})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearGraph(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, string(script.OpClear), nil, func(g *linkgraph.Graph[string]) { g.Clear() })
}

// =============================================================================
// Connections and nodes
// =============================================================================

func (s *Server) connections(w http.ResponseWriter, r *http.Request, add bool) {
	var req connectionsRequest
	if err := decodeJSON(r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	pair := req.A != "" || req.B != ""
	var op script.Op
	switch {
	case add && pair:
		op = script.OpConnect
	case add:
		op = script.OpConnectMany
	case pair:
		op = script.OpDisconnect
	default:
		op = script.OpDisconnectMany
	}
	step := script.Step{Op: op, A: req.A, B: req.B, Node: req.Node, Others: req.Others}
	s.mutate(w, r, string(op), req.operands(), step.Apply)
}

func (s *Server) handleAddConnections(w http.ResponseWriter, r *http.Request) {
	s.connections(w, r, true)
}

func (s *Server) handleRemoveConnections(w http.ResponseWriter, r *http.Request) {
	s.connections(w, r, false)
}

func (s *Server) handleClearNode(w http.ResponseWriter, r *http.Request) {
	node, err := nodeParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, string(script.OpClearNode), []string{node}, func(g *linkgraph.Graph[string]) {
		g.ClearConnections(node)
	})
}

func (s *Server) handleCollapseNode(w http.ResponseWriter, r *http.Request) {
	node, err := nodeParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, string(script.OpCollapse), []string{node}, func(g *linkgraph.Graph[string]) {
		g.Collapse(node)
	})
}

func (s *Server) handleGetNode(w http.ResponseWriter, r *http.Request) {
	lg, err := s.liveGraph(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	node, err := nodeParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := nodeResponse{Node: node}
	lg.with(func(g *linkgraph.Graph[string]) {
		resp.Present = g.Contains(node)
		resp.Count = g.ConnectionCount(node)
		resp.Connections = g.ConnectedNodes(node).Slice()
	})
	slices.Sort(resp.Connections)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleConnected(w http.ResponseWriter, r *http.Request) {
	lg, err := s.liveGraph(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	resp := connectedResponse{A: q.Get("a"), B: q.Get("b")}
	if err := validateNodes(resp.A, resp.B); err != nil {
		s.writeError(w, r, err)
		return
	}
	lg.with(func(g *linkgraph.Graph[string]) {
		resp.Connected = g.ContainsConnection(resp.A, resp.B)
		resp.Reachable = g.Reachable(resp.A, resp.B)
	})
	writeJSON(w, http.StatusOK, resp)
}

// handleComponents returns components with sorted members, ordered by their
// first member.
func (s *Server) handleComponents(w http.ResponseWriter, r *http.Request) {
	lg, err := s.liveGraph(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var comps [][]string
	lg.with(func(g *linkgraph.Graph[string]) { comps = g.Components() })
	for _, c := range comps {
		slices.Sort(c)
	}
	slices.SortFunc(comps, func(a, b []string) int { return slices.Compare(a, b) })
	if comps == nil {
		comps = [][]string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"count": len(comps), "components": comps})
}

// =============================================================================
// Rendering and scripts
// =============================================================================

func (s *Server) handleDOT(w http.ResponseWriter, r *http.Request) {
	lg, err := s.liveGraph(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	detailed, _ := strconv.ParseBool(r.URL.Query().Get("detailed"))
	dot := nodelink.ToDOT(s.interchange(lg), nodelink.Options{Detailed: detailed})
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	_, _ = w.Write([]byte(dot))
}

var contentTypes = map[string]string{
	render.FormatJSON: "application/json",
	render.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	render.FormatSVG:  "image/svg+xml",
	render.FormatPDF:  "application/pdf",
	render.FormatPNG:  "image/png",
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	lg, err := s.liveGraph(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = render.FormatSVG
	}
	if !render.ValidFormat(format) {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format))
		return
	}
	detailed, _ := strconv.ParseBool(q.Get("detailed"))

	opts := pipeline.Options{Formats: []string{format}, Detailed: detailed, Highlight: q["highlight"]}
	artifacts, err := s.runner.Render(r.Context(), s.interchange(lg), opts)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeUnavailable, err, "render %s", format))
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	_, _ = w.Write(artifacts[format])
}

// handleApplyScript applies a TOML script body to the graph.
func (s *Server) handleApplyScript(w http.ResponseWriter, r *http.Request) {
	lg, err := s.liveGraph(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sc, err := script.Parse(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var outcome script.Outcome
	lg.with(func(g *linkgraph.Graph[string]) {
		outcome, err = sc.Apply(r.Context(), g,
			script.WithDispatcher(s.events, lg.id.String()),
			script.WithLogger(s.logger))
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":    lg.id,
		"steps": outcome.Steps,
		"nodes": outcome.Nodes,
		"edges": outcome.Edges,
	})
}

// =============================================================================
// Snapshots
// =============================================================================

func (s *Server) handleSaveSnapshot(w http.ResponseWriter, r *http.Request) {
	lg, err := s.liveGraph(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req snapshotRequest
	if err := decodeJSON(r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := errors.ValidateSnapshotName(req.Name); err != nil {
		s.writeError(w, r, err)
		return
	}

	snap := storage.NewSnapshot(req.Name, s.interchange(lg))
	if err := s.store.Save(r.Context(), snap); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeUnavailable, err, "save snapshot"))
		return
	}
	events.Publish(s.events, events.SnapshotSaved{Graph: lg.id.String(), Snapshot: snap.ID.String(), Name: snap.Name})
	writeJSON(w, http.StatusCreated, snap.Summary())
}

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeUnavailable, err, "list snapshots"))
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) snapshot(r *http.Request) (*storage.Snapshot, error) {
	id, err := uuidParam(r, "sid", errors.ErrCodeSnapshotNotFound)
	if err != nil {
		return nil, err
	}
	return s.store.Get(r.Context(), id)
}

func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleDeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "sid", errors.ErrCodeSnapshotNotFound)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRestoreSnapshot loads a snapshot into a new live graph.
func (s *Server) handleRestoreSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	g, err := graph.ToLinkGraph(snap.Graph)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	lg := s.graphs.add(g)
	events.Publish(s.events, events.GraphCreated{Graph: lg.id.String()})
	writeJSON(w, http.StatusCreated, summarize(lg))
}
