package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/linkgraph/pkg/events"
	"github.com/matzehuels/linkgraph/pkg/graph"
	"github.com/matzehuels/linkgraph/pkg/storage"
)

type testServer struct {
	t      *testing.T
	srv    *Server
	events *events.Dispatcher
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := log.New(io.Discard)
	d := events.New(events.WithLogger(logger))
	return &testServer{
		t:      t,
		srv:    New(Config{Store: storage.NewMemoryStore(), Dispatcher: d, Logger: logger}),
		events: d,
	}
}

func (ts *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	ts.t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	rec := httptest.NewRecorder()
	ts.srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %T: %v\nbody: %s", v, err, rec.Body.String())
	}
	return v
}

func (ts *testServer) create(body string) string {
	ts.t.Helper()
	rec := ts.do(http.MethodPost, "/graphs", body)
	if rec.Code != http.StatusCreated {
		ts.t.Fatalf("create: status %d: %s", rec.Code, rec.Body.String())
	}
	return decode[graphSummary](ts.t, rec).ID.String()
}

func TestCreateAndGetGraph(t *testing.T) {
	ts := newTestServer(t)
	id := ts.create(`{"nodes":[{"id":"lonely"}],"edges":[{"a":"a","b":"b"}]}`)

	rec := ts.do(http.MethodGet, "/graphs/"+id, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	g := decode[graph.Graph](t, rec)
	if len(g.Nodes) != 2 || len(g.Edges) != 1 {
		t.Errorf("graph = %+v, want a-b only (isolated nodes pruned)", g)
	}

	// Empty body creates an empty graph
	empty := ts.create("")
	list := decode[[]graphSummary](t, ts.do(http.MethodGet, "/graphs/", ""))
	if len(list) != 2 || list[1].ID.String() != empty || list[1].Nodes != 0 {
		t.Errorf("list = %+v", list)
	}
}

func TestConnectionsLifecycle(t *testing.T) {
	ts := newTestServer(t)
	id := ts.create("")

	var ops []string
	events.Subscribe(ts.events, func(m events.Mutation) { ops = append(ops, m.Op) })

	rec := ts.do(http.MethodPost, "/graphs/"+id+"/connections", `{"node":"hub","others":["a","b","c"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("add: %d %s", rec.Code, rec.Body.String())
	}
	if sum := decode[graphSummary](t, rec); sum.Nodes != 4 || sum.Edges != 3 {
		t.Errorf("after add: %+v", sum)
	}

	node := decode[nodeResponse](t, ts.do(http.MethodGet, "/graphs/"+id+"/nodes/hub", ""))
	if !node.Present || node.Count != 3 || strings.Join(node.Connections, ",") != "a,b,c" {
		t.Errorf("node = %+v", node)
	}

	rec = ts.do(http.MethodPost, "/graphs/"+id+"/nodes/hub/collapse", "")
	if sum := decode[graphSummary](t, rec); sum.Nodes != 3 || sum.Edges != 3 {
		t.Errorf("after collapse: %+v, want triangle", sum)
	}

	conn := decode[connectedResponse](t, ts.do(http.MethodGet, "/graphs/"+id+"/connected?a=a&b=c", ""))
	if !conn.Connected || !conn.Reachable {
		t.Errorf("connected = %+v", conn)
	}

	ts.do(http.MethodDelete, "/graphs/"+id+"/connections", `{"a":"a","b":"b"}`)
	rec = ts.do(http.MethodDelete, "/graphs/"+id+"/nodes/c", "")
	if sum := decode[graphSummary](t, rec); sum.Nodes != 0 || sum.Edges != 0 {
		t.Errorf("after clearing c: %+v, want empty (a and b pruned)", sum)
	}

	absent := decode[nodeResponse](t, ts.do(http.MethodGet, "/graphs/"+id+"/nodes/hub", ""))
	if absent.Present || absent.Count != 0 || absent.Connections == nil {
		t.Errorf("absent node = %+v, want empty non-nil connections", absent)
	}

	want := []string{"connect-many", "collapse", "disconnect", "clear-node"}
	if strings.Join(ops, ",") != strings.Join(want, ",") {
		t.Errorf("mutation ops = %v, want %v", ops, want)
	}
}

func TestComponentsAndDOT(t *testing.T) {
	ts := newTestServer(t)
	id := ts.create(`{"edges":[{"a":"b","b":"a"},{"a":"x","b":"y"}]}`)

	comps := decode[struct {
		Count      int        `json:"count"`
		Components [][]string `json:"components"`
	}](t, ts.do(http.MethodGet, "/graphs/"+id+"/components", ""))
	if comps.Count != 2 || strings.Join(comps.Components[0], ",") != "a,b" {
		t.Errorf("components = %+v", comps)
	}

	rec := ts.do(http.MethodGet, "/graphs/"+id+"/dot", "")
	if !strings.HasPrefix(rec.Body.String(), "graph G {") || !strings.Contains(rec.Body.String(), `"x" -- "y";`) {
		t.Errorf("dot:\n%s", rec.Body.String())
	}

	rec = ts.do(http.MethodGet, "/graphs/"+id+"/render?format=json", "")
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "application/json" {
		t.Errorf("render json: %d %s", rec.Code, rec.Header().Get("Content-Type"))
	}
	if rec := ts.do(http.MethodGet, "/graphs/"+id+"/render?format=gif", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("render gif: status %d, want 400", rec.Code)
	}
}

func TestApplyScript(t *testing.T) {
	ts := newTestServer(t)
	id := ts.create("")

	body := "[[step]]\nop = \"connect\"\na = \"p\"\nb = \"q\"\n"
	rec := ts.do(http.MethodPost, "/graphs/"+id+"/script", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("script: %d %s", rec.Code, rec.Body.String())
	}
	out := decode[map[string]any](t, rec)
	if out["steps"] != float64(1) || out["edges"] != float64(1) {
		t.Errorf("outcome = %v", out)
	}

	rec = ts.do(http.MethodPost, "/graphs/"+id+"/script", "[[step]]\nop = \"explode\"\n")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad script: status %d, want 400", rec.Code)
	}
	if e := decode[errorBody](t, rec); e.Code != "INVALID_SCRIPT" {
		t.Errorf("error code = %s", e.Code)
	}
}

func TestSnapshots(t *testing.T) {
	ts := newTestServer(t)
	id := ts.create(`{"edges":[{"a":"a","b":"b"}]}`)

	rec := ts.do(http.MethodPost, "/graphs/"+id+"/snapshots", `{"name":"v1"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("save: %d %s", rec.Code, rec.Body.String())
	}
	snap := decode[storage.Summary](t, rec)

	// Mutating the live graph must not affect the snapshot
	ts.do(http.MethodDelete, "/graphs/"+id+"/nodes", "")

	rec = ts.do(http.MethodPost, "/snapshots/"+snap.ID.String()+"/restore", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("restore: %d %s", rec.Code, rec.Body.String())
	}
	restored := decode[graphSummary](t, rec)
	if restored.Edges != 1 || restored.ID.String() == id {
		t.Errorf("restored = %+v", restored)
	}

	list := decode[[]storage.Summary](t, ts.do(http.MethodGet, "/snapshots/", ""))
	if len(list) != 1 || list[0].Name != "v1" {
		t.Errorf("snapshots = %+v", list)
	}

	if rec := ts.do(http.MethodDelete, "/snapshots/"+snap.ID.String(), ""); rec.Code != http.StatusNoContent {
		t.Errorf("delete: %d", rec.Code)
	}
	rec = ts.do(http.MethodGet, "/snapshots/"+snap.ID.String(), "")
	if rec.Code != http.StatusNotFound || decode[errorBody](t, rec).Code != "SNAPSHOT_NOT_FOUND" {
		t.Errorf("get deleted: %d %s", rec.Code, rec.Body.String())
	}
}

func TestErrors(t *testing.T) {
	ts := newTestServer(t)
	id := ts.create("")

	tests := []struct {
		name     string
		method   string
		path     string
		body     string
		wantCode int
		wantErr  string
	}{
		{"unknown graph", http.MethodGet, "/graphs/00000000-0000-0000-0000-000000000000", "", 404, "GRAPH_NOT_FOUND"},
		{"malformed id", http.MethodGet, "/graphs/nope", "", 404, "GRAPH_NOT_FOUND"},
		{"bad json", http.MethodPost, "/graphs/" + id + "/connections", "{", 400, "INVALID_INPUT"},
		{"unknown field", http.MethodPost, "/graphs/" + id + "/connections", `{"from":"a"}`, 400, "INVALID_INPUT"},
		{"mixed body", http.MethodPost, "/graphs/" + id + "/connections", `{"a":"x","b":"y","node":"z","others":["w"]}`, 400, "INVALID_INPUT"},
		{"empty node id", http.MethodPost, "/graphs/" + id + "/connections", `{"a":"x","b":""}`, 400, "INVALID_NODE"},
		{"missing query", http.MethodGet, "/graphs/" + id + "/connected?a=x", "", 400, "INVALID_NODE"},
		{"bad snapshot name", http.MethodPost, "/graphs/" + id + "/snapshots", `{"name":""}`, 400, "INVALID_INPUT"},
		{"invalid graph body", http.MethodPost, "/graphs", `{"edges":[{"a":"","b":"x"}]}`, 400, "INVALID_GRAPH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(tt.method, tt.path, tt.body)
			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.wantCode, rec.Body.String())
			}
			if e := decode[errorBody](t, rec); string(e.Code) != tt.wantErr {
				t.Errorf("code = %s, want %s", e.Code, tt.wantErr)
			}
		})
	}
}

func TestDeleteGraph(t *testing.T) {
	ts := newTestServer(t)
	id := ts.create(`{"edges":[{"a":"a","b":"b"}]}`)

	var deleted []string
	events.Subscribe(ts.events, func(e events.GraphDeleted) { deleted = append(deleted, e.Graph) })

	if rec := ts.do(http.MethodDelete, "/graphs/"+id, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete: %d", rec.Code)
	}
	if rec := ts.do(http.MethodGet, "/graphs/"+id, ""); rec.Code != http.StatusNotFound {
		t.Errorf("get after delete: %d", rec.Code)
	}
	if len(deleted) != 1 || deleted[0] != id {
		t.Errorf("GraphDeleted events = %v", deleted)
	}
}

func TestHealthAndVersion(t *testing.T) {
	ts := newTestServer(t)
	if rec := ts.do(http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Errorf("healthz: %d", rec.Code)
	}
	v := decode[map[string]string](t, ts.do(http.MethodGet, "/version", ""))
	if v["version"] == "" {
		t.Errorf("version = %v", v)
	}
}

func TestNodeParamUnescaped(t *testing.T) {
	ts := newTestServer(t)
	id := ts.create(`{"edges":[{"a":"a b","b":"c/d"}]}`)

	node := decode[nodeResponse](t, ts.do(http.MethodGet, "/graphs/"+id+"/nodes/a%20b", ""))
	if !node.Present || len(node.Connections) != 1 || node.Connections[0] != "c/d" {
		t.Errorf("node = %+v", node)
	}
}
