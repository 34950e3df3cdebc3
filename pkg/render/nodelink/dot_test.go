package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/linkgraph/pkg/graph"
	"github.com/matzehuels/linkgraph/pkg/linkgraph"
)

func triangle() graph.Graph {
	g := linkgraph.New[string]()
	g.AddConnection("a", "b")
	g.AddConnection("b", "c")
	g.AddConnection("c", "a")
	return graph.FromLinkGraph(g)
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(triangle(), Options{})

	if !strings.HasPrefix(dot, "graph G {\n") {
		t.Errorf("DOT should start with an undirected graph header:\n%s", dot)
	}
	if strings.Contains(dot, "->") {
		t.Error("undirected DOT must not contain -> edges")
	}
	for _, want := range []string{`"a" -- "b";`, `"a" -- "c";`, `"b" -- "c";`, `"a" [label="a"];`} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %s:\n%s", want, dot)
		}
	}
	if strings.Count(dot, "--") != 3 {
		t.Errorf("want 3 edges, got %d", strings.Count(dot, "--"))
	}
}

func TestToDOTDeterministic(t *testing.T) {
	if ToDOT(triangle(), Options{}) != ToDOT(triangle(), Options{}) {
		t.Error("ToDOT should be deterministic")
	}
}

func TestToDOTOptions(t *testing.T) {
	dot := ToDOT(triangle(), Options{Detailed: true, Highlight: []string{"b"}})

	if !strings.Contains(dot, `label="a\ndegree: 2"`) {
		t.Errorf("detailed label missing:\n%s", dot)
	}
	if !strings.Contains(dot, `"b" [label="b\ndegree: 2", fillcolor="#ffd866"];`) {
		t.Errorf("highlighted node missing:\n%s", dot)
	}
	if strings.Contains(dot, `"a" [label="a\ndegree: 2", fillcolor`) {
		t.Error("only highlighted nodes get the accent fill")
	}
}

func TestToDOTQuotesIDs(t *testing.T) {
	g := linkgraph.New[string]()
	g.AddConnection(`say "hi"`, "b")
	dot := ToDOT(graph.FromLinkGraph(g), Options{})
	if !strings.Contains(dot, `"say \"hi\"" -- "b";`) && !strings.Contains(dot, `"b" -- "say \"hi\"";`) {
		t.Errorf("IDs with quotes should be escaped:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50">`
	if !strings.HasPrefix(out, want) {
		t.Errorf("normalizeViewBox() = %s", out)
	}

	plain := []byte("<svg><g/></svg>")
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("SVG without viewBox should be unchanged")
	}
}
