package libgraph

import (
	"github.com/vf2systems/graphiso/graphiso"
)

// Cycle utilities share the edit layout with the container but are not part
// of the matching engine. A cycle is reported as the vertex chain that
// closes back on its first element; chains shorter than 3 never close
// (self-loops and parallel edges are banned by the container).

// IsCyclic reports whether any vertex sits on a cycle. Edit layout only.
func (g *Graph) IsCyclic() (bool, error) {
	if g.mode != layoutEdit {
		return false, graphiso.ErrNotEditable
	}
	for _, v := range g.verts {
		if g.chainInCycle([]graphiso.Vertex{v}) {
			return true, nil
		}
	}
	return false, nil
}

// IsVertexInCycle reports whether v sits on a cycle. Edit layout only.
func (g *Graph) IsVertexInCycle(v graphiso.Vertex) (bool, error) {
	if g.mode != layoutEdit {
		return false, graphiso.ErrNotEditable
	}
	if _, ok := g.adj[v]; !ok {
		return false, graphiso.ErrVertexNotFound
	}
	return g.chainInCycle([]graphiso.Vertex{v}), nil
}

// IsEdgeInCycle reports whether the edge between v1 and v2 sits on a cycle.
// Edit layout only; the edge must exist.
func (g *Graph) IsEdgeInCycle(v1, v2 graphiso.Vertex) (bool, error) {
	if g.mode != layoutEdit {
		return false, graphiso.ErrNotEditable
	}
	if _, err := g.GetEdge(v1, v2); err != nil {
		return false, err
	}
	cycles, err := g.GetAllCycles(v1)
	if err != nil {
		return false, err
	}
	for _, cyc := range cycles {
		// cycles start at v1; the edge is used iff v2 is adjacent to v1
		// within the chain.
		if cyc[1] == v2 || cyc[len(cyc)-1] == v2 {
			return true, nil
		}
	}
	return false, nil
}

// GetAllCycles returns every simple cycle through v, found by extending a
// vertex chain from v until it closes on its own start. Each cycle is
// reported once per traversal direction, mirroring the chain enumeration.
// Edit layout only.
func (g *Graph) GetAllCycles(v graphiso.Vertex) ([][]graphiso.Vertex, error) {
	if g.mode != layoutEdit {
		return nil, graphiso.ErrNotEditable
	}
	if _, ok := g.adj[v]; !ok {
		return nil, graphiso.ErrVertexNotFound
	}
	var out [][]graphiso.Vertex
	g.extendChain([]graphiso.Vertex{v}, &out)
	return out, nil
}

// chainInCycle extends chain and reports true as soon as any extension
// closes on chain[0].
func (g *Graph) chainInCycle(chain []graphiso.Vertex) bool {
	last := chain[len(chain)-1]
	it := g.adj[last].Iterator()
	for it.Next() {
		n := it.Key().(graphiso.Vertex)
		if n == chain[0] && len(chain) > 2 {
			return true
		}
		if !chainContains(chain, n) {
			if g.chainInCycle(append(chain, n)) {
				return true
			}
		}
	}
	return false
}

func (g *Graph) extendChain(chain []graphiso.Vertex, out *[][]graphiso.Vertex) {
	last := chain[len(chain)-1]
	it := g.adj[last].Iterator()
	for it.Next() {
		n := it.Key().(graphiso.Vertex)
		if n == chain[0] && len(chain) > 2 {
			cyc := make([]graphiso.Vertex, len(chain))
			copy(cyc, chain)
			*out = append(*out, cyc)
		} else if !chainContains(chain, n) {
			g.extendChain(append(chain, n), out)
		}
	}
}

func chainContains(chain []graphiso.Vertex, v graphiso.Vertex) bool {
	for _, c := range chain {
		if c == v {
			return true
		}
	}
	return false
}

// SmallestSetOfSmallestRings returns a minimal ring set covering the
// graph's cycle structure: prune terminal and non-cyclic vertices from a
// working copy, split into components, then greedily take each component's
// smallest remaining ring and shrink its two-degree members out of the copy
// (falling back to breaking a ring edge when every member is a junction)
// until the component is acyclic. Rings reference the receiver's own vertex
// payloads. Edit layout only.
func (g *Graph) SmallestSetOfSmallestRings() ([][]graphiso.Vertex, error) {
	if g.mode != layoutEdit {
		return nil, graphiso.ErrNotEditable
	}

	work := g.Copy(false)
	work.pruneTerminals()
	work.pruneAcyclic()

	comps, err := work.Split()
	if err != nil {
		return nil, err
	}

	var rings [][]graphiso.Vertex
	for _, comp := range comps {
		for {
			cyclic, err := comp.IsCyclic()
			if err != nil {
				return nil, err
			}
			if !cyclic {
				break
			}

			root := comp.smallestCyclicRoot()
			cycles, err := comp.GetAllCycles(root)
			if err != nil {
				return nil, err
			}
			ring := cycles[0]
			for _, cyc := range cycles[1:] {
				if len(cyc) < len(ring) {
					ring = cyc
				}
			}
			rings = append(rings, ring)

			// Shrink: drop the ring's two-degree members, then re-prune.
			// The member set is snapshotted before any removal; removing one
			// member lowers its neighbors' degrees, and a fused-junction
			// vertex dropping to degree 2 mid-sweep must not be swept along.
			var shrink []graphiso.Vertex
			for _, u := range ring {
				if d, err := comp.Degree(u); err == nil && d == 2 {
					shrink = append(shrink, u)
				}
			}
			if len(shrink) == 0 {
				// Every member is a junction (e.g. a complete graph). Break
				// one ring edge instead so each iteration strictly shrinks
				// the component.
				comp.RemoveEdge(ring[0], ring[1])
			}
			for _, u := range shrink {
				comp.RemoveVertex(u)
			}
			comp.pruneTerminals()
		}
	}
	return rings, nil
}

// smallestCyclicRoot picks the lowest-degree vertex that still sits on a
// cycle, which keeps the greedy ring choice small and deterministic.
func (g *Graph) smallestCyclicRoot() graphiso.Vertex {
	var root graphiso.Vertex
	best := -1
	for _, v := range g.verts {
		d := g.adj[v].Size()
		if best >= 0 && d >= best {
			continue
		}
		if in, _ := g.IsVertexInCycle(v); in {
			root = v
			best = d
		}
	}
	return root
}

// pruneTerminals removes isolated and degree-1 vertices until none remain.
func (g *Graph) pruneTerminals() {
	for {
		removed := false
		for _, v := range append([]graphiso.Vertex(nil), g.verts...) {
			if g.adj[v].Size() <= 1 {
				g.RemoveVertex(v)
				removed = true
			}
		}
		if !removed {
			return
		}
	}
}

// pruneAcyclic removes vertices that survive terminal pruning but sit on no
// cycle (bridge chains between ring systems), then re-prunes terminals.
func (g *Graph) pruneAcyclic() {
	for _, v := range append([]graphiso.Vertex(nil), g.verts...) {
		if in, _ := g.IsVertexInCycle(v); !in {
			g.RemoveVertex(v)
		}
	}
	g.pruneTerminals()
}
