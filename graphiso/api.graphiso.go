package graphiso

// Vertex is an opaque node payload carried by a graph.
//
// The engine compares Vertex values by identity only; all semantic
// comparison goes through the capability methods below, which the domain
// layer supplies. Implementations must be pointer types (a Vertex is a
// token, not a value).
type Vertex interface {

	// Copy returns an independent Vertex with an equivalent payload and no
	// mutable state shared with the receiver.
	Copy() Vertex

	// Equivalent reports semantic equality. It must be symmetric and
	// reflexive. Used by the exact-isomorphism queries.
	Equivalent(other Vertex) bool

	// IsSpecificCaseOf reports whether the receiver is a valid
	// specialization of other. Asymmetric: only ever called with the
	// receiver on the host side and other on the pattern side.
	IsSpecificCaseOf(other Vertex) bool
}

// Edge is an opaque payload for an undirected connection between two
// distinct vertices. The Edge itself does not know its endpoints; the graph
// tracks adjacency separately.
type Edge interface {
	Copy() Edge
	Equivalent(other Edge) bool
	IsSpecificCaseOf(other Edge) bool
}

// Mapping associates host vertices with pattern vertices. Keys are host-side
// Vertex identities, values pattern-side. A partial Mapping may be passed
// into any matcher query as a seed; complete Mappings come back as results.
type Mapping map[Vertex]Vertex

// Copy returns a shallow copy (same Vertex identities, new map).
func (m Mapping) Copy() Mapping {
	m2 := make(Mapping, len(m))
	for h, p := range m {
		m2[h] = p
	}
	return m2
}

// Contains reports whether the pairing host→pattern is present.
func (m Mapping) Contains(host, pattern Vertex) bool {
	p, ok := m[host]
	return ok && p == pattern
}
