package cli

import (
	"os"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/linkgraph/pkg/graph"
)

const officeScript = `name = "office"

[[step]]
op = "connect-many"
node = "switch"
others = ["desk-1", "desk-2", "printer"]

[[step]]
op = "collapse"
node = "switch"

[[step]]
op = "disconnect"
a = "desk-1"
b = "desk-2"
`

func TestApplyToStdout(t *testing.T) {
	c, out := newTestCLI(t)
	writeTestFile(t, "office.toml", officeScript)

	if err := execute(t, c, "apply", "office.toml"); err != nil {
		t.Fatalf("apply: %v", err)
	}

	g, err := graph.UnmarshalGraph(out.Bytes())
	if err != nil {
		t.Fatalf("output is not a graph: %v\n%s", err, out.String())
	}
	want := []graph.Edge{{A: "desk-1", B: "printer"}, {A: "desk-2", B: "printer"}}
	if !slices.Equal(g.Edges, want) {
		t.Errorf("edges = %v, want %v", g.Edges, want)
	}
}

func TestApplyOnBaseGraph(t *testing.T) {
	c, _ := newTestCLI(t)
	writeTestGraph(t, "base.json", [2]string{"printer", "scanner"})
	writeTestFile(t, "office.toml", officeScript)

	if err := execute(t, c, "apply", "office.toml", "--graph", "base.json", "-o", "result.json"); err != nil {
		t.Fatalf("apply: %v", err)
	}

	g, err := graph.ReadGraphFile("result.json")
	if err != nil {
		t.Fatal(err)
	}
	if !g.ContainsConnection("printer", "scanner") {
		t.Error("base connection printer-scanner lost")
	}
	if got := g.ConnectionCount("printer"); got != 3 {
		t.Errorf("degree(printer) = %d, want 3", got)
	}
}

func TestApplyMultipleFormats(t *testing.T) {
	c, out := newTestCLI(t)
	writeTestFile(t, "office.toml", officeScript)

	if err := execute(t, c, "apply", "office.toml", "-f", "json,dot"); err != nil {
		t.Fatalf("apply: %v", err)
	}
	for _, p := range []string{"office.json", "office.dot"} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("%s not written: %v", p, err)
		}
	}
	if !strings.Contains(out.String(), "office.dot") {
		t.Errorf("output does not list written files: %q", out.String())
	}
}

func TestApplySaveSnapshot(t *testing.T) {
	c, out := newTestCLI(t)
	writeTestFile(t, "office.toml", officeScript)

	if err := execute(t, c, "apply", "office.toml", "-o", "office.json", "--save", "office"); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !strings.Contains(out.String(), "Saved snapshot") {
		t.Errorf("output = %q, want save confirmation", out.String())
	}

	out.Reset()
	if err := execute(t, c, "snapshot", "list"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "office") {
		t.Errorf("snapshot list = %q, want office", out.String())
	}
}

func TestApplyErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing script", []string{"apply", "nope.toml"}},
		{"bad format", []string{"apply", "office.toml", "-f", "gif"}},
		{"bad snapshot id", []string{"apply", "office.toml", "--snapshot", "not-a-uuid"}},
		{"graph and snapshot", []string{"apply", "office.toml", "--graph", "a.json", "--snapshot", "x"}},
		{"bad snapshot name", []string{"apply", "office.toml", "-o", "r.json", "--save", "../up"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestCLI(t)
			writeTestFile(t, "office.toml", officeScript)
			if err := execute(t, c, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestQuery(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		wants []string
	}{
		{"summary", nil, []string{"nodes", "5", "edges", "3", "components", "2"}},
		{"node", []string{"--node", "b"}, []string{"degree", "2", "a, c"}},
		{"absent node", []string{"--node", "zz"}, []string{"false", "none"}},
		{"connected", []string{"--connected", "a,b"}, []string{"a - b", "true"}},
		{"not connected", []string{"--connected", "a,c"}, []string{"false"}},
		{"reachable", []string{"--reachable", "a,c"}, []string{"a ~ c", "true"}},
		{"components", []string{"--components"}, []string{"Component 1", "a, b, c", "Component 2", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, out := newTestCLI(t)
			writeTestGraph(t, "g.json", [2]string{"a", "b"}, [2]string{"b", "c"}, [2]string{"x", "y"})

			args := append([]string{"query", "g.json"}, tt.args...)
			if err := execute(t, c, args...); err != nil {
				t.Fatal(err)
			}
			for _, want := range tt.wants {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output missing %q:\n%s", want, out.String())
				}
			}
		})
	}
}

func TestQueryBadPair(t *testing.T) {
	c, _ := newTestCLI(t)
	writeTestGraph(t, "g.json", [2]string{"a", "b"})

	if err := execute(t, c, "query", "g.json", "--connected", "a"); err == nil {
		t.Error("expected error for single node")
	}
}

func TestGrid(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		nodes     int
		edges     int
		wantError bool
	}{
		{"2x2 four", []string{"--width", "2", "--height", "2"}, 4, 4, false},
		{"3x3 eight", []string{"--width", "3", "--height", "3", "--conn", "8"}, 9, 20, false},
		{"2x2x2 six", []string{"--width", "2", "--height", "2", "--depth", "2"}, 8, 12, false},
		{"2x2x2 twenty-six", []string{"--width", "2", "--height", "2", "--depth", "2", "--conn", "26"}, 8, 28, false},
		{"1x1 is empty", []string{"--width", "1", "--height", "1"}, 0, 0, false},
		{"3D conn on 2D grid", []string{"--conn", "6"}, 0, 0, true},
		{"zero width", []string{"--width", "0"}, 0, 0, true},
		{"too large", []string{"--width", "2000", "--height", "2000"}, 0, 0, true},
		{"product wraps to zero", []string{"--width", "4294967296", "--height", "4294967296"}, 0, 0, true},
		{"3D product overflows", []string{"--width", "2097152", "--height", "2097152", "--depth", "2097152"}, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestCLI(t)
			args := append([]string{"grid", "-o", "grid.json"}, tt.args...)
			err := execute(t, c, args...)
			if tt.wantError {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			g, err := graph.ReadGraphFile("grid.json")
			if err != nil {
				t.Fatal(err)
			}
			if g.Len() != tt.nodes || g.EdgeCount() != tt.edges {
				t.Errorf("grid = %d nodes, %d edges; want %d, %d", g.Len(), g.EdgeCount(), tt.nodes, tt.edges)
			}
		})
	}
}

func TestGridCells(t *testing.T) {
	tests := []struct {
		dims   []int
		want   int
		wantOK bool
	}{
		{[]int{8, 8, 1}, 64, true},
		{[]int{maxGridCells, 1, 1}, maxGridCells, true},
		{[]int{maxGridCells, 2, 1}, 0, false},
		{[]int{1 << 20, 1 << 20, 1}, 0, false},
		{[]int{1 << 21, 1 << 21, 1 << 21}, 0, false},
	}
	for _, tt := range tests {
		got, ok := gridCells(tt.dims...)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("gridCells(%v) = %d, %v; want %d, %v", tt.dims, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestRenderDOT(t *testing.T) {
	c, out := newTestCLI(t)
	writeTestGraph(t, "g.json", [2]string{"a", "b"})

	if err := execute(t, c, "render", "g.json", "-f", "dot", "--highlight", "a"); err != nil {
		t.Fatal(err)
	}
	dot := out.String()
	if !strings.HasPrefix(dot, "graph G {") || !strings.Contains(dot, `"a" -- "b"`) {
		t.Errorf("unexpected DOT output:\n%s", dot)
	}
}

func TestRenderMissingFile(t *testing.T) {
	c, _ := newTestCLI(t)
	if err := execute(t, c, "render", "missing.json"); err == nil {
		t.Error("expected error for missing graph file")
	}
}

func TestSnapshotLifecycle(t *testing.T) {
	c, out := newTestCLI(t)
	writeTestGraph(t, "net.json", [2]string{"a", "b"}, [2]string{"b", "c"})

	if err := execute(t, c, "snapshot", "save", "net.json"); err != nil {
		t.Fatal(err)
	}
	id := snapshotIDFromOutput(t, out.String())

	out.Reset()
	if err := execute(t, c, "snapshot", "show", id); err != nil {
		t.Fatal(err)
	}
	g, err := graph.UnmarshalGraph(out.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Edges) != 2 {
		t.Errorf("shown snapshot has %d edges, want 2", len(g.Edges))
	}

	if err := execute(t, c, "snapshot", "restore", id, "-o", "restored.json"); err != nil {
		t.Fatal(err)
	}
	restored, err := graph.ReadGraphFile("restored.json")
	if err != nil {
		t.Fatal(err)
	}
	if !restored.ContainsConnection("b", "c") {
		t.Error("restored graph lost b-c")
	}

	if err := execute(t, c, "snapshot", "delete", id); err != nil {
		t.Fatal(err)
	}
	if err := execute(t, c, "snapshot", "show", id); err == nil {
		t.Error("expected error showing deleted snapshot")
	}
}

func TestSnapshotListEmpty(t *testing.T) {
	c, out := newTestCLI(t)
	if err := execute(t, c, "snapshot", "list"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No snapshots") {
		t.Errorf("output = %q", out.String())
	}
}

func TestSnapshotMemoryBackend(t *testing.T) {
	c, _ := newTestCLI(t)
	writeTestFile(t, configFileName, "[storage]\nbackend = \"memory\"\n")
	writeTestGraph(t, "net.json", [2]string{"a", "b"})

	if err := execute(t, c, "snapshot", "save", "net.json", "-n", "net"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat("config"); err == nil {
		entries, _ := os.ReadDir("config")
		if len(entries) > 0 {
			t.Error("memory backend wrote snapshot files")
		}
	}
}

// snapshotIDFromOutput extracts the ID printed by saveSnapshot.
func snapshotIDFromOutput(t *testing.T, s string) string {
	t.Helper()
	_, after, ok := strings.Cut(s, "ID: ")
	if !ok {
		t.Fatalf("no snapshot ID in output %q", s)
	}
	id, _, _ := strings.Cut(after, "\n")
	return strings.TrimSpace(stripANSI(id))
}

// stripANSI removes terminal escape sequences from s.
func stripANSI(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == 0x1b {
			for i < len(s) && s[i] != 'm' {
				i++
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
