package libgraph_test

import (
	"errors"
	"testing"

	"github.com/vf2systems/graphiso/graphiso"
	"github.com/vf2systems/graphiso/libgraph"
)

func labelsOf(g *libgraph.Graph) map[string]int {
	out := map[string]int{}
	for _, v := range g.Vertices() {
		out[v.(*libgraph.LabelVertex).Label]++
	}
	return out
}

func TestParseBasics(t *testing.T) {
	g := mustParse(t, "C1-C2=O3")
	if g.VertexCount() != 3 || g.EdgeCount() != 2 {
		t.Fatalf("got %d verts, %d edges", g.VertexCount(), g.EdgeCount())
	}
	if l := labelsOf(g); l["C"] != 2 || l["O"] != 1 {
		t.Fatalf("labels: %v", l)
	}

	verts := g.Vertices()
	e, err := g.GetEdge(verts[1], verts[2])
	if err != nil {
		t.Fatal(err)
	}
	if e.(*libgraph.LabelEdge).Label != "=" {
		t.Fatalf("bond label = %q", e.(*libgraph.LabelEdge).Label)
	}
}

func TestParseSharedIDs(t *testing.T) {
	g := mustParse(t, "C1-C2, C2-C3, C3-C1")
	if g.VertexCount() != 3 || g.EdgeCount() != 3 {
		t.Fatalf("triangle: %d verts, %d edges", g.VertexCount(), g.EdgeCount())
	}
}

func TestParseParts(t *testing.T) {
	g := mustParse(t, "C1-C2 ; N1")
	if g.VertexCount() != 3 || g.EdgeCount() != 1 {
		t.Fatalf("got %d verts, %d edges", g.VertexCount(), g.EdgeCount())
	}
	comps, err := g.Split()
	if err != nil {
		t.Fatal(err)
	}
	if len(comps) != 2 {
		t.Fatalf("parts must be disjoint, got %d components", len(comps))
	}
}

func TestParseWildcardAndAlternation(t *testing.T) {
	g := mustParse(t, "_1~C|N2")
	verts := g.Vertices()
	if verts[0].(*libgraph.LabelVertex).Label != libgraph.Wildcard {
		t.Fatal("wildcard label lost")
	}
	if verts[1].(*libgraph.LabelVertex).Label != "C|N" {
		t.Fatalf("alternation label = %q", verts[1].(*libgraph.LabelVertex).Label)
	}
	e, err := g.GetEdge(verts[0], verts[1])
	if err != nil {
		t.Fatal(err)
	}
	if e.(*libgraph.LabelEdge).Label != libgraph.Wildcard {
		t.Fatal("wildcard bond lost")
	}
}

func TestParseWildcardUpgrade(t *testing.T) {
	g := mustParse(t, "_1-O2, C1-O3")
	if l := labelsOf(g); l["C"] != 1 || l["O"] != 2 {
		t.Fatalf("wildcard should upgrade to C: %v", l)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []string{
		"C1-C1",      // self loop
		"C1-C2,C2-C1", // duplicate edge
		"C1-N1",      // conflicting labels for one ID
		"C-C",        // missing IDs
		"1-2",        // missing labels
		"C1--C2",     // dangling bond
	}
	for _, expr := range cases {
		if _, err := parseErr(expr); err == nil {
			t.Fatalf("%q should not parse", expr)
		}
	}

	if _, err := parseErr("C1-N1"); !errors.Is(err, graphiso.ErrBadGraphExpr) {
		t.Fatalf("label conflict should wrap ErrBadGraphExpr, got %v", err)
	}
	if _, err := parseErr("C1-C1"); !errors.Is(err, graphiso.ErrSelfLoop) {
		t.Fatalf("self loop should wrap ErrSelfLoop, got %v", err)
	}
}

func parseErr(expr string) (*libgraph.Graph, error) {
	return libgraph.ParseGraph(expr)
}

func TestParseEmpty(t *testing.T) {
	g := mustParse(t, "")
	if g.VertexCount() != 0 {
		t.Fatal("empty expression must yield the empty graph")
	}
}
