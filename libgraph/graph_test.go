package libgraph_test

import (
	"testing"

	"github.com/vf2systems/graphiso/graphiso"
	"github.com/vf2systems/graphiso/libgraph"
)

func mustParse(t *testing.T, expr string) *libgraph.Graph {
	t.Helper()
	g, err := libgraph.ParseGraph(expr)
	if err != nil {
		t.Fatalf("parse %q: %v", expr, err)
	}
	return g
}

func TestAddRemove(t *testing.T) {
	g := libgraph.NewGraph()
	a, b, c := libgraph.V("C"), libgraph.V("C"), libgraph.V("O")

	for _, v := range []*libgraph.LabelVertex{a, b, c} {
		if err := g.AddVertex(v); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.AddVertex(a); err != nil {
		t.Fatalf("re-adding a vertex should be a no-op, got %v", err)
	}
	if g.VertexCount() != 3 {
		t.Fatalf("vertex count = %d", g.VertexCount())
	}

	if err := g.AddEdge(a, a, libgraph.E("-")); err != graphiso.ErrSelfLoop {
		t.Fatalf("self loop: got %v", err)
	}
	if err := g.AddEdge(a, libgraph.V("N"), libgraph.E("-")); err != graphiso.ErrMissingEndpoint {
		t.Fatalf("missing endpoint: got %v", err)
	}
	if err := g.AddEdge(a, b, libgraph.E("-")); err != nil {
		t.Fatal(err)
	}
	if err := g.AddEdge(b, a, libgraph.E("-")); err != graphiso.ErrDuplicateEdge {
		t.Fatalf("duplicate edge: got %v", err)
	}
	if err := g.AddEdge(b, c, libgraph.E("=")); err != nil {
		t.Fatal(err)
	}
	if !g.HasEdge(c, b) || !g.HasEdge(b, c) {
		t.Fatal("edge not mirrored")
	}

	if err := g.RemoveVertex(b); err != nil {
		t.Fatal(err)
	}
	if g.VertexCount() != 2 || g.EdgeCount() != 0 {
		t.Fatalf("after removing b: %d verts, %d edges", g.VertexCount(), g.EdgeCount())
	}
	if !g.HasVertex(c) {
		t.Fatal("isolated neighbor must survive")
	}
	if err := g.RemoveEdge(a, c); err != graphiso.ErrEdgeNotFound {
		t.Fatalf("remove absent edge: got %v", err)
	}
}

func TestEditOnlyMutation(t *testing.T) {
	g := mustParse(t, "C1-C2")
	g.SetTraversable()

	if err := g.AddVertex(libgraph.V("C")); err != graphiso.ErrNotEditable {
		t.Fatalf("AddVertex in traversal layout: got %v", err)
	}
	verts := g.Vertices()
	if err := g.RemoveVertex(verts[0]); err != graphiso.ErrNotEditable {
		t.Fatalf("RemoveVertex in traversal layout: got %v", err)
	}

	// Accessors still work, linearly.
	if !g.HasVertex(verts[1]) || !g.HasEdge(verts[0], verts[1]) {
		t.Fatal("accessors must work in traversal layout")
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	g := mustParse(t, "C1-C2-C3-C4-C1, C2-O5")

	vertsBefore := map[graphiso.Vertex]struct{}{}
	for _, v := range g.Vertices() {
		vertsBefore[v] = struct{}{}
	}
	edgesBefore := map[graphiso.Edge]struct{}{}
	for _, e := range g.Edges() {
		edgesBefore[e] = struct{}{}
	}

	g.SetTraversable()
	g.SetTraversable() // idempotent
	g.SetEditable()
	g.SetEditable() // idempotent

	if g.VertexCount() != len(vertsBefore) || g.EdgeCount() != len(edgesBefore) {
		t.Fatalf("round trip lost structure: %d verts, %d edges", g.VertexCount(), g.EdgeCount())
	}
	for _, v := range g.Vertices() {
		if _, ok := vertsBefore[v]; !ok {
			t.Fatal("round trip swapped a vertex identity")
		}
	}
	for _, e := range g.Edges() {
		if _, ok := edgesBefore[e]; !ok {
			t.Fatal("round trip swapped an edge identity")
		}
	}
}

func TestTraversalOrderIsCentralFirst(t *testing.T) {
	// Star: the hub has degree 4, spokes degree 1.
	g := mustParse(t, "C1-H2, C1-H3, C1-H4, C1-H5")
	g.SetTraversable()

	first := g.Vertices()[0].(*libgraph.LabelVertex)
	if first.Label != "C" {
		t.Fatalf("hub should sort first, got %q", first.Label)
	}
	if d, _ := g.Degree(g.Vertices()[0]); d != 4 {
		t.Fatalf("hub degree = %d", d)
	}
}

func TestCopyShallowAndDeep(t *testing.T) {
	g := mustParse(t, "C1-C2=O3")

	shallow := g.Copy(false)
	if shallow.VertexCount() != 3 || shallow.EdgeCount() != 2 {
		t.Fatal("shallow copy lost structure")
	}
	if !shallow.HasVertex(g.Vertices()[0]) {
		t.Fatal("shallow copy must share vertex identities")
	}

	deep := g.Copy(true)
	for _, v := range g.Vertices() {
		if deep.HasVertex(v) {
			t.Fatal("deep copy must not share vertex identities")
		}
	}
	iso, err := libgraph.IsIsomorphic(g, deep, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !iso {
		t.Fatal("deep copy must stay isomorphic")
	}
}

func TestMergeAndSplit(t *testing.T) {
	a := mustParse(t, "C1-C2")
	b := mustParse(t, "N1-O2, N1-O3")

	m, err := a.Merge(b)
	if err != nil {
		t.Fatal(err)
	}
	if m.VertexCount() != 5 || m.EdgeCount() != 3 {
		t.Fatalf("merge: %d verts, %d edges", m.VertexCount(), m.EdgeCount())
	}

	comps, err := m.Split()
	if err != nil {
		t.Fatal(err)
	}
	if len(comps) != 2 {
		t.Fatalf("split into %d components", len(comps))
	}
	sizes := map[int]int{}
	for _, c := range comps {
		sizes[c.VertexCount()]++
	}
	if sizes[2] != 1 || sizes[3] != 1 {
		t.Fatalf("component sizes wrong: %v", sizes)
	}

	m.SetTraversable()
	if _, err = m.Split(); err != graphiso.ErrNotEditable {
		t.Fatalf("split in traversal layout: got %v", err)
	}
}
