package libgraph

import (
	"github.com/vf2systems/graphiso/graphiso"
)

// Copy returns a new graph in the edit layout with the same structure.
//
// A shallow copy (deep == false) shares the Vertex and Edge payloads with
// the receiver. A deep copy invokes each payload's Copy, producing an
// isomorphic graph with fresh, unshared payloads.
func (g *Graph) Copy(deep bool) *Graph {
	out := NewGraph()

	var verts []graphiso.Vertex
	if g.mode == layoutCSR {
		verts = g.csr.verts
	} else {
		verts = g.verts
	}

	vmap := make(map[graphiso.Vertex]graphiso.Vertex, len(verts))
	for _, v := range verts {
		nv := v
		if deep {
			nv = v.Copy()
		}
		vmap[v] = nv
		out.AddVertex(nv)
	}

	if g.mode == layoutCSR {
		for i, vi := range g.csr.verts {
			for s := g.csr.rows[i]; s < g.csr.rows[i+1]; s++ {
				j := g.csr.cols[s]
				if int32(i) >= j {
					continue
				}
				e := g.csr.edges[s]
				if deep {
					e = e.Copy()
				}
				out.AddEdge(vmap[vi], vmap[g.csr.verts[j]], e)
			}
		}
		return out
	}

	done := make(map[graphiso.Edge]struct{})
	for _, vi := range g.verts {
		it := g.adj[vi].Iterator()
		for it.Next() {
			e := it.Value().(graphiso.Edge)
			if _, dup := done[e]; dup {
				continue
			}
			done[e] = struct{}{}
			ne := e
			if deep {
				ne = e.Copy()
			}
			out.AddEdge(vmap[vi], vmap[it.Key().(graphiso.Vertex)], ne)
		}
	}
	return out
}

// Merge unions the receiver with other into a new edit-layout graph. The two
// inputs must be disjoint vertex sets; payloads are shared, not copied.
// Both graphs must be in the edit layout.
func (g *Graph) Merge(other *Graph) (*Graph, error) {
	if g.mode != layoutEdit || other.mode != layoutEdit {
		return nil, graphiso.ErrNotEditable
	}
	out := g.Copy(false)
	for _, v := range other.verts {
		if err := out.AddVertex(v); err != nil {
			return nil, err
		}
	}
	done := make(map[graphiso.Edge]struct{})
	for _, vi := range other.verts {
		it := other.adj[vi].Iterator()
		for it.Next() {
			e := it.Value().(graphiso.Edge)
			if _, dup := done[e]; dup {
				continue
			}
			done[e] = struct{}{}
			if err := out.AddEdge(vi, it.Key().(graphiso.Vertex), e); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// Split partitions the graph into its connected components, one new
// edit-layout graph per component, flood-filling from an arbitrary vertex
// and recursing on whatever is left. Payloads are shared with the receiver.
// Edit layout only.
func (g *Graph) Split() ([]*Graph, error) {
	if g.mode != layoutEdit {
		return nil, graphiso.ErrNotEditable
	}
	if len(g.verts) == 0 {
		return nil, nil
	}

	remaining := make(map[graphiso.Vertex]struct{}, len(g.verts))
	for _, v := range g.verts {
		remaining[v] = struct{}{}
	}

	var comps []*Graph
	for _, seed := range g.verts {
		if _, left := remaining[seed]; !left {
			continue
		}

		// Flood fill from seed.
		comp := NewGraph()
		stack := []graphiso.Vertex{seed}
		delete(remaining, seed)
		comp.AddVertex(seed)
		for len(stack) > 0 {
			v := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			it := g.adj[v].Iterator()
			for it.Next() {
				n := it.Key().(graphiso.Vertex)
				if _, left := remaining[n]; left {
					delete(remaining, n)
					comp.AddVertex(n)
					stack = append(stack, n)
				}
			}
		}

		// Wire the component's edges.
		for _, v := range comp.verts {
			it := g.adj[v].Iterator()
			for it.Next() {
				n := it.Key().(graphiso.Vertex)
				if !comp.HasEdge(v, n) {
					comp.AddEdge(v, n, it.Value().(graphiso.Edge))
				}
			}
		}
		comps = append(comps, comp)
	}
	return comps, nil
}
