package libgraph

import (
	"sort"

	"github.com/emirpasic/gods/maps/linkedhashmap"

	"github.com/vf2systems/graphiso/graphiso"
)

// SetTraversable converts the graph to the compressed traversal layout.
// Idempotent. Connectivity triples are recomputed from the edit layout and
// the vertex sequence is re-sorted most-central-first before the rows/cols
// arrays are built, so repeated conversions of equal graphs land on
// comparable orderings.
func (g *Graph) SetTraversable() {
	if g.mode == layoutCSR {
		return
	}

	n := len(g.verts)
	conn := make(map[graphiso.Vertex]ConnTriple, n)
	for _, v := range g.verts {
		conn[v] = ConnTriple{Degree: int32(g.adj[v].Size())}
	}
	for _, v := range g.verts {
		c := conn[v]
		it := g.adj[v].Iterator()
		for it.Next() {
			c.Sum += conn[it.Key().(graphiso.Vertex)].Degree
		}
		conn[v] = c
	}
	for _, v := range g.verts {
		c := conn[v]
		it := g.adj[v].Iterator()
		for it.Next() {
			c.SumSum += conn[it.Key().(graphiso.Vertex)].Sum
		}
		conn[v] = c
	}

	order := make([]graphiso.Vertex, n)
	copy(order, g.verts)
	sort.SliceStable(order, func(i, j int) bool {
		return conn[order[i]].Less(conn[order[j]])
	})

	idx := make(map[graphiso.Vertex]int32, n)
	for i, v := range order {
		idx[v] = int32(i)
	}

	csr := csrLayout{
		verts: order,
		rows:  make([]int32, n+1),
		conn:  make([]ConnTriple, n),
	}
	for i, v := range order {
		csr.conn[i] = conn[v]
		csr.rows[i+1] = csr.rows[i] + conn[v].Degree
	}
	csr.cols = make([]int32, csr.rows[n])
	csr.edges = make([]graphiso.Edge, csr.rows[n])

	fill := make([]int32, n)
	for i, v := range order {
		it := g.adj[v].Iterator()
		for it.Next() {
			s := csr.rows[i] + fill[i]
			csr.cols[s] = idx[it.Key().(graphiso.Vertex)]
			csr.edges[s] = it.Value().(graphiso.Edge)
			fill[i]++
		}
	}

	g.csr = csr
	g.verts = nil
	g.adj = nil
	g.mode = layoutCSR
}

// SetEditable converts the graph back to the edit layout, reconstructing the
// adjacency maps from the compressed arrays. Idempotent. Vertex order is the
// traversal order the CSR arrays were built with, not the original insertion
// order; payload identities are preserved.
func (g *Graph) SetEditable() {
	if g.mode == layoutEdit {
		return
	}

	n := len(g.csr.verts)
	g.verts = make([]graphiso.Vertex, n)
	copy(g.verts, g.csr.verts)
	g.adj = make(map[graphiso.Vertex]*linkedhashmap.Map, n)
	for _, v := range g.verts {
		g.adj[v] = linkedhashmap.New()
	}
	for i := 0; i < n; i++ {
		vi := g.csr.verts[i]
		for s := g.csr.rows[i]; s < g.csr.rows[i+1]; s++ {
			vj := g.csr.verts[g.csr.cols[s]]
			g.adj[vi].Put(vj, g.csr.edges[s])
		}
	}

	g.csr = csrLayout{}
	g.mode = layoutEdit
}

// connectivity returns the triple for traversal index i. Only valid in the
// traversal layout.
func (g *Graph) connectivity(i int32) ConnTriple {
	return g.csr.conn[i]
}
