package libgraph_test

import (
	"testing"

	"github.com/vf2systems/graphiso/graphiso"
)

func TestIsCyclic(t *testing.T) {
	chain := mustParse(t, "C1-C2-C3-C4")
	if cyc, _ := chain.IsCyclic(); cyc {
		t.Fatal("a chain is not cyclic")
	}

	ring := mustParse(t, "C1-C2-C3-C4-C5-C6-C1")
	if cyc, _ := ring.IsCyclic(); !cyc {
		t.Fatal("a ring is cyclic")
	}

	ring.SetTraversable()
	if _, err := ring.IsCyclic(); err != graphiso.ErrNotEditable {
		t.Fatalf("cycle checks are edit-layout only, got %v", err)
	}
}

func TestVertexAndEdgeInCycle(t *testing.T) {
	// Triangle with a tail: C1-C2-C3-C1 plus C3-O4.
	g := mustParse(t, "C1-C2-C3-C1, C3-O4")
	verts := g.Vertices()
	c1, c3, o4 := verts[0], verts[2], verts[3]

	if in, err := g.IsVertexInCycle(c1); err != nil || !in {
		t.Fatalf("c1 in cycle: %v %v", in, err)
	}
	if in, err := g.IsVertexInCycle(o4); err != nil || in {
		t.Fatalf("tail vertex must not be in a cycle: %v %v", in, err)
	}

	if in, err := g.IsEdgeInCycle(c1, c3); err != nil || !in {
		t.Fatalf("ring edge: %v %v", in, err)
	}
	if in, err := g.IsEdgeInCycle(c3, o4); err != nil || in {
		t.Fatalf("tail edge: %v %v", in, err)
	}
	if _, err := g.IsEdgeInCycle(c1, o4); err != graphiso.ErrEdgeNotFound {
		t.Fatalf("absent edge: %v", err)
	}
}

func TestGetAllCycles(t *testing.T) {
	g := mustParse(t, "C1-C2-C3-C1")
	cycles, err := g.GetAllCycles(g.Vertices()[0])
	if err != nil {
		t.Fatal(err)
	}
	// One triangle, reported once per direction.
	if len(cycles) != 2 {
		t.Fatalf("got %d cycles", len(cycles))
	}
	for _, cyc := range cycles {
		if len(cyc) != 3 {
			t.Fatalf("triangle cycle of length %d", len(cyc))
		}
		if cyc[0] != g.Vertices()[0] {
			t.Fatal("cycles must start at the query vertex")
		}
	}
}

func TestSmallestRingsChain(t *testing.T) {
	g := mustParse(t, "C1-C2-C3-C4")
	rings, err := g.SmallestSetOfSmallestRings()
	if err != nil {
		t.Fatal(err)
	}
	if len(rings) != 0 {
		t.Fatalf("acyclic graph produced %d rings", len(rings))
	}
}

func TestSmallestRingsFusedPair(t *testing.T) {
	// Two six-rings fused along the C1-C6 bond, with a tail that must be
	// pruned before enumeration.
	g := mustParse(t, "C1-C2-C3-C4-C5-C6-C1, C6-C7-C8-C9-C10-C1, C2-O11")
	before := g.VertexCount()

	rings, err := g.SmallestSetOfSmallestRings()
	if err != nil {
		t.Fatal(err)
	}
	if len(rings) != 2 {
		t.Fatalf("fused bicyclic should give 2 rings, got %d", len(rings))
	}
	for _, ring := range rings {
		if len(ring) != 6 {
			t.Fatalf("ring of size %d", len(ring))
		}
		for _, v := range ring {
			if !g.HasVertex(v) {
				t.Fatal("rings must reference the original vertices")
			}
		}
	}
	if g.VertexCount() != before {
		t.Fatal("ring perception must not mutate the receiver")
	}
}

func TestSmallestRingsAllJunctions(t *testing.T) {
	// K4: every vertex has degree 3, so no ring ever has a two-degree
	// member to shrink; each iteration must break a ring edge instead of
	// looping on an unchanged component.
	g := mustParse(t, "C1-C2, C1-C3, C1-C4, C2-C3, C2-C4, C3-C4")

	rings, err := g.SmallestSetOfSmallestRings()
	if err != nil {
		t.Fatal(err)
	}
	if len(rings) != 3 {
		t.Fatalf("K4 should give 3 rings, got %d", len(rings))
	}
	for _, ring := range rings {
		if len(ring) != 3 {
			t.Fatalf("ring of size %d", len(ring))
		}
	}
	if g.VertexCount() != 4 || g.EdgeCount() != 6 {
		t.Fatal("ring perception must not mutate the receiver")
	}
}

func TestSmallestRingsSingle(t *testing.T) {
	g := mustParse(t, "C1-C2-C3-C1")
	rings, err := g.SmallestSetOfSmallestRings()
	if err != nil {
		t.Fatal(err)
	}
	if len(rings) != 1 || len(rings[0]) != 3 {
		t.Fatalf("got %v rings", len(rings))
	}
}
