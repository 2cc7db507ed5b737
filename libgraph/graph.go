package libgraph

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"

	"github.com/vf2systems/graphiso/graphiso"
)

// layoutMode selects which of the two internal representations is live.
// Exactly one is populated at any instant; setEditable/setTraversable are
// the only transitions.
type layoutMode int8

const (
	layoutEdit layoutMode = iota // mutable: vertex sequence + adjacency maps
	layoutCSR                    // immutable: compressed sparse rows
)

// ConnTriple is the per-vertex connectivity metadata: degree, sum of
// neighbor degrees, and sum of neighbor degree-sums. It is a prefilter and
// sort key only; correctness never depends on it.
type ConnTriple struct {
	Degree int32
	Sum    int32
	SumSum int32
}

// Less orders triples so that more central vertices come first.
func (c ConnTriple) Less(o ConnTriple) bool {
	if c.Degree != o.Degree {
		return c.Degree > o.Degree
	}
	if c.Sum != o.Sum {
		return c.Sum > o.Sum
	}
	return c.SumSum > o.SumSum
}

// csrLayout is the traversal form: vertex i's neighbors occupy the half-open
// range cols[rows[i]:rows[i+1]], with edges parallel to cols. Each
// undirected edge appears once per endpoint.
type csrLayout struct {
	verts []graphiso.Vertex
	rows  []int32
	cols  []int32
	edges []graphiso.Edge
	conn  []ConnTriple
}

// Graph is an undirected, vertex/edge-labeled graph with no self-loops and
// at most one edge per vertex pair. It is not safe for concurrent use.
type Graph struct {
	mode layoutMode

	// edit layout
	verts []graphiso.Vertex
	adj   map[graphiso.Vertex]*linkedhashmap.Map // vertex → (neighbor → edge)

	// traversal layout
	csr csrLayout
}

// NewGraph returns an empty Graph in the edit layout.
func NewGraph() *Graph {
	return &Graph{
		adj: make(map[graphiso.Vertex]*linkedhashmap.Map),
	}
}

// Editable reports whether the graph currently holds its edit layout.
func (g *Graph) Editable() bool { return g.mode == layoutEdit }

// VertexCount works in either layout.
func (g *Graph) VertexCount() int {
	if g.mode == layoutCSR {
		return len(g.csr.verts)
	}
	return len(g.verts)
}

// EdgeCount works in either layout.
func (g *Graph) EdgeCount() int {
	if g.mode == layoutCSR {
		return len(g.csr.cols) / 2
	}
	n := 0
	for _, nbrs := range g.adj {
		n += nbrs.Size()
	}
	return n / 2
}

// Vertices returns the vertex sequence. In the traversal layout this is the
// sorted order; in the edit layout, insertion order. The slice is a copy.
func (g *Graph) Vertices() []graphiso.Vertex {
	var src []graphiso.Vertex
	if g.mode == layoutCSR {
		src = g.csr.verts
	} else {
		src = g.verts
	}
	out := make([]graphiso.Vertex, len(src))
	copy(out, src)
	return out
}

// Edges returns each edge payload exactly once.
func (g *Graph) Edges() []graphiso.Edge {
	out := make([]graphiso.Edge, 0, g.EdgeCount())
	if g.mode == layoutCSR {
		for i := range g.csr.verts {
			for s := g.csr.rows[i]; s < g.csr.rows[i+1]; s++ {
				if int32(i) < g.csr.cols[s] {
					out = append(out, g.csr.edges[s])
				}
			}
		}
		return out
	}
	seen := make(map[graphiso.Edge]struct{}, g.EdgeCount())
	for _, v := range g.verts {
		it := g.adj[v].Iterator()
		for it.Next() {
			e := it.Value().(graphiso.Edge)
			if _, dup := seen[e]; !dup {
				seen[e] = struct{}{}
				out = append(out, e)
			}
		}
	}
	return out
}

// AddVertex appends v to the graph. Adding a vertex that is already present
// is a no-op. Edit layout only.
func (g *Graph) AddVertex(v graphiso.Vertex) error {
	if v == nil {
		return graphiso.ErrNilVertex
	}
	if g.mode != layoutEdit {
		return graphiso.ErrNotEditable
	}
	if _, ok := g.adj[v]; ok {
		return nil
	}
	g.verts = append(g.verts, v)
	g.adj[v] = linkedhashmap.New()
	return nil
}

// AddEdge connects v1 and v2 with the payload e, visible from both
// endpoints. Edit layout only; both endpoints must already be present.
func (g *Graph) AddEdge(v1, v2 graphiso.Vertex, e graphiso.Edge) error {
	if g.mode != layoutEdit {
		return graphiso.ErrNotEditable
	}
	if e == nil {
		return graphiso.ErrNilEdge
	}
	if v1 == v2 {
		return graphiso.ErrSelfLoop
	}
	n1, ok1 := g.adj[v1]
	n2, ok2 := g.adj[v2]
	if !ok1 || !ok2 {
		return graphiso.ErrMissingEndpoint
	}
	if _, dup := n1.Get(v2); dup {
		return graphiso.ErrDuplicateEdge
	}
	n1.Put(v2, e)
	n2.Put(v1, e)
	return nil
}

// RemoveVertex removes v and every edge incident to it. Neighbors left
// isolated stay in the graph. Edit layout only.
func (g *Graph) RemoveVertex(v graphiso.Vertex) error {
	if g.mode != layoutEdit {
		return graphiso.ErrNotEditable
	}
	nbrs, ok := g.adj[v]
	if !ok {
		return graphiso.ErrVertexNotFound
	}
	it := nbrs.Iterator()
	for it.Next() {
		g.adj[it.Key().(graphiso.Vertex)].Remove(v)
	}
	delete(g.adj, v)
	for i, vi := range g.verts {
		if vi == v {
			g.verts = append(g.verts[:i], g.verts[i+1:]...)
			break
		}
	}
	return nil
}

// RemoveEdge removes the edge between v1 and v2. Edit layout only.
func (g *Graph) RemoveEdge(v1, v2 graphiso.Vertex) error {
	if g.mode != layoutEdit {
		return graphiso.ErrNotEditable
	}
	n1, ok1 := g.adj[v1]
	n2, ok2 := g.adj[v2]
	if !ok1 || !ok2 {
		return graphiso.ErrVertexNotFound
	}
	if _, ok := n1.Get(v2); !ok {
		return graphiso.ErrEdgeNotFound
	}
	n1.Remove(v2)
	n2.Remove(v1)
	return nil
}

// HasVertex works in either layout. The traversal layout keeps no reverse
// vertex→index map, so there it degrades to a linear scan.
func (g *Graph) HasVertex(v graphiso.Vertex) bool {
	if g.mode == layoutCSR {
		return g.csrIndexOf(v) >= 0
	}
	_, ok := g.adj[v]
	return ok
}

// HasEdge works in either layout.
func (g *Graph) HasEdge(v1, v2 graphiso.Vertex) bool {
	_, err := g.GetEdge(v1, v2)
	return err == nil
}

// GetEdge returns the payload connecting v1 and v2.
func (g *Graph) GetEdge(v1, v2 graphiso.Vertex) (graphiso.Edge, error) {
	if g.mode == layoutCSR {
		i := g.csrIndexOf(v1)
		j := g.csrIndexOf(v2)
		if i < 0 || j < 0 {
			return nil, graphiso.ErrVertexNotFound
		}
		for s := g.csr.rows[i]; s < g.csr.rows[i+1]; s++ {
			if g.csr.cols[s] == int32(j) {
				return g.csr.edges[s], nil
			}
		}
		return nil, graphiso.ErrEdgeNotFound
	}
	nbrs, ok := g.adj[v1]
	if !ok {
		return nil, graphiso.ErrVertexNotFound
	}
	if _, ok = g.adj[v2]; !ok {
		return nil, graphiso.ErrVertexNotFound
	}
	e, ok := nbrs.Get(v2)
	if !ok {
		return nil, graphiso.ErrEdgeNotFound
	}
	return e.(graphiso.Edge), nil
}

// Incidence pairs a neighbor with the edge reaching it.
type Incidence struct {
	Neighbor graphiso.Vertex
	Edge     graphiso.Edge
}

// GetEdges returns v's incident edges with their far endpoints, in a stable
// order (insertion order in the edit layout, column order in traversal).
func (g *Graph) GetEdges(v graphiso.Vertex) ([]Incidence, error) {
	if g.mode == layoutCSR {
		i := g.csrIndexOf(v)
		if i < 0 {
			return nil, graphiso.ErrVertexNotFound
		}
		out := make([]Incidence, 0, g.csr.rows[i+1]-g.csr.rows[i])
		for s := g.csr.rows[i]; s < g.csr.rows[i+1]; s++ {
			out = append(out, Incidence{
				Neighbor: g.csr.verts[g.csr.cols[s]],
				Edge:     g.csr.edges[s],
			})
		}
		return out, nil
	}
	nbrs, ok := g.adj[v]
	if !ok {
		return nil, graphiso.ErrVertexNotFound
	}
	out := make([]Incidence, 0, nbrs.Size())
	it := nbrs.Iterator()
	for it.Next() {
		out = append(out, Incidence{
			Neighbor: it.Key().(graphiso.Vertex),
			Edge:     it.Value().(graphiso.Edge),
		})
	}
	return out, nil
}

// Degree returns the number of edges incident to v.
func (g *Graph) Degree(v graphiso.Vertex) (int, error) {
	if g.mode == layoutCSR {
		i := g.csrIndexOf(v)
		if i < 0 {
			return 0, graphiso.ErrVertexNotFound
		}
		return int(g.csr.rows[i+1] - g.csr.rows[i]), nil
	}
	nbrs, ok := g.adj[v]
	if !ok {
		return 0, graphiso.ErrVertexNotFound
	}
	return nbrs.Size(), nil
}

func (g *Graph) csrIndexOf(v graphiso.Vertex) int {
	for i, vi := range g.csr.verts {
		if vi == v {
			return i
		}
	}
	return -1
}
