package libgraph

import (
	"github.com/vf2systems/graphiso/graphiso"
)

// The matcher is a VF2-family backtracking search over two graphs in the
// traversal layout. Host is the concrete structure being searched into;
// pattern is the structure being searched for. All candidate ordering and
// pruning operates on traversal indices; results are materialized back to
// payload identities before they leave this file.

type matchMode int8

const (
	matchExact    matchMode = iota // total bijection, Equivalent both ways
	matchSubgraph                  // injective embedding, host IsSpecificCaseOf pattern
)

type matcher struct {
	host    *Graph
	pattern *Graph
	mode    matchMode
	findAll bool

	// hostMap[i] is the pattern index mapped to host index i (-1 = none);
	// patMap is the mirror. The term arrays flag frontier vertices:
	// unmapped but adjacent to at least one mapped vertex.
	hostMap  []int32
	patMap   []int32
	hostTerm []bool
	patTerm  []bool

	mappings []graphiso.Mapping
	onMatch  func(graphiso.Mapping) bool // optional sink; false stops the search
	stopped  bool
}

func newMatcher(host, pattern *Graph, mode matchMode, findAll bool) *matcher {
	host.SetTraversable()
	pattern.SetTraversable()

	nh := len(host.csr.verts)
	np := len(pattern.csr.verts)
	m := &matcher{
		host:     host,
		pattern:  pattern,
		mode:     mode,
		findAll:  findAll,
		hostMap:  make([]int32, nh),
		patMap:   make([]int32, np),
		hostTerm: make([]bool, nh),
		patTerm:  make([]bool, np),
	}
	for i := range m.hostMap {
		m.hostMap[i] = -1
	}
	for j := range m.patMap {
		m.patMap[j] = -1
	}
	return m
}

// run seeds the mapping and descends. The depth counter starts at the
// pattern's vertex count less the seed size and must land on exactly zero
// at a complete match.
func (m *matcher) run(seed graphiso.Mapping) (bool, error) {
	depth := len(m.patMap)

	for hv, pv := range seed {
		i := m.host.csrIndexOf(hv)
		j := m.pattern.csrIndexOf(pv)
		if i < 0 || j < 0 {
			return false, graphiso.ErrVertexNotFound
		}
		if m.hostMap[i] >= 0 || m.patMap[j] >= 0 {
			return false, graphiso.ErrBadSeed
		}
		m.commit(int32(i), int32(j))
		depth--
	}
	return m.match(depth)
}

func (m *matcher) match(depth int) (bool, error) {
	if depth < 0 {
		return false, graphiso.ErrSearchCorrupt
	}
	if depth == 0 {
		mp := m.materialize()
		if m.onMatch != nil {
			if !m.onMatch(mp) {
				m.stopped = true
			}
		} else {
			m.mappings = append(m.mappings, mp)
		}
		return true, nil
	}

	// Pattern-side candidate: first frontier vertex if the frontier is
	// non-empty, else the first unmapped vertex.
	pj := int32(-1)
	patHasTerm := false
	for j, t := range m.patTerm {
		if t {
			pj = int32(j)
			patHasTerm = true
			break
		}
	}
	if pj < 0 {
		for j, p := range m.patMap {
			if p < 0 {
				pj = int32(j)
				break
			}
		}
	}
	if pj < 0 {
		// depth > 0 with nothing left to map means the bookkeeping is broken
		return false, graphiso.ErrSearchCorrupt
	}

	for i := range m.hostMap {
		if m.hostMap[i] >= 0 {
			continue
		}
		// Frontier pairs with frontier only.
		if patHasTerm && !m.hostTerm[i] {
			continue
		}
		if !m.feasible(int32(i), pj) {
			continue
		}

		m.commit(int32(i), pj)
		found, err := m.match(depth - 1)
		if err != nil {
			return false, err
		}
		if found && !m.findAll {
			return true, nil
		}
		m.undo(int32(i), pj)
		if m.stopped {
			return false, nil
		}
	}
	return false, nil
}

// feasible gates the candidate pair (host i, pattern j), cheapest checks
// first, short-circuiting on the first failure.
func (m *matcher) feasible(i, j int32) bool {
	h := &m.host.csr
	p := &m.pattern.csr

	// 1. connectivity triples (exact mode only)
	if m.mode == matchExact && h.conn[i] != p.conn[j] {
		return false
	}

	// 2. vertex semantics
	if m.mode == matchExact {
		if !h.verts[i].Equivalent(p.verts[j]) {
			return false
		}
	} else if !h.verts[i].IsSpecificCaseOf(p.verts[j]) {
		return false
	}

	// 3. every mapped pattern neighbor needs a matching host edge
	for s := p.rows[j]; s < p.rows[j+1]; s++ {
		hi := m.patMap[p.cols[s]]
		if hi < 0 {
			continue
		}
		hs := rowSlot(h, i, hi)
		if hs < 0 {
			return false
		}
		if m.mode == matchExact {
			if !h.edges[hs].Equivalent(p.edges[s]) {
				return false
			}
		} else if !h.edges[hs].IsSpecificCaseOf(p.edges[s]) {
			return false
		}
	}

	// 4. symmetric adjacency check (exact mode only; subgraph mode
	// tolerates host edges the pattern doesn't have)
	if m.mode == matchExact {
		for s := h.rows[i]; s < h.rows[i+1]; s++ {
			pj := m.hostMap[h.cols[s]]
			if pj >= 0 && rowSlot(p, j, pj) < 0 {
				return false
			}
		}
	}

	// 5. look-ahead over unmapped neighbors
	hTerm, hNew := lookahead(h, m.hostMap, m.hostTerm, i)
	pTerm, pNew := lookahead(p, m.patMap, m.patTerm, j)
	if m.mode == matchExact {
		return hTerm == pTerm && hNew == pNew
	}
	return hTerm >= pTerm && hNew >= pNew
}

// rowSlot returns the slot index of edge (i, nbr) within i's row, or -1.
func rowSlot(c *csrLayout, i, nbr int32) int32 {
	for s := c.rows[i]; s < c.rows[i+1]; s++ {
		if c.cols[s] == nbr {
			return s
		}
	}
	return -1
}

// lookahead counts v's unmapped neighbors that are on the frontier vs.
// neither on the frontier nor mapped.
func lookahead(c *csrLayout, vmap []int32, term []bool, v int32) (nTerm, nNew int32) {
	for s := c.rows[v]; s < c.rows[v+1]; s++ {
		n := c.cols[s]
		if vmap[n] >= 0 {
			continue
		}
		if term[n] {
			nTerm++
		} else {
			nNew++
		}
	}
	return
}

// commit pairs host i with pattern j and grows the frontier around both.
func (m *matcher) commit(i, j int32) {
	m.hostTerm[i] = false
	m.patTerm[j] = false
	m.hostMap[i] = j
	m.patMap[j] = i

	h := &m.host.csr
	for s := h.rows[i]; s < h.rows[i+1]; s++ {
		if n := h.cols[s]; m.hostMap[n] < 0 {
			m.hostTerm[n] = true
		}
	}
	p := &m.pattern.csr
	for s := p.rows[j]; s < p.rows[j+1]; s++ {
		if n := p.cols[s]; m.patMap[n] < 0 {
			m.patTerm[n] = true
		}
	}
}

// undo reverses commit. Un-mapping a vertex can strip a neighbor's neighbor
// of its only mapped contact, so each immediate neighbor's own frontier flag
// is recomputed by walking that neighbor's row.
func (m *matcher) undo(i, j int32) {
	m.hostMap[i] = -1
	m.patMap[j] = -1

	h := &m.host.csr
	m.hostTerm[i] = anyMapped(h, m.hostMap, i)
	for s := h.rows[i]; s < h.rows[i+1]; s++ {
		if n := h.cols[s]; m.hostMap[n] < 0 {
			m.hostTerm[n] = anyMapped(h, m.hostMap, n)
		}
	}

	p := &m.pattern.csr
	m.patTerm[j] = anyMapped(p, m.patMap, j)
	for s := p.rows[j]; s < p.rows[j+1]; s++ {
		if n := p.cols[s]; m.patMap[n] < 0 {
			m.patTerm[n] = anyMapped(p, m.patMap, n)
		}
	}
}

func anyMapped(c *csrLayout, vmap []int32, v int32) bool {
	for s := c.rows[v]; s < c.rows[v+1]; s++ {
		if vmap[c.cols[s]] >= 0 {
			return true
		}
	}
	return false
}

// materialize converts the index mapping back to payload identities.
func (m *matcher) materialize() graphiso.Mapping {
	out := make(graphiso.Mapping, len(m.patMap))
	for i, j := range m.hostMap {
		if j >= 0 {
			out[m.host.csr.verts[i]] = m.pattern.csr.verts[j]
		}
	}
	return out
}

func checkSeed(pattern *Graph, seed graphiso.Mapping) error {
	if len(seed) > pattern.VertexCount() {
		return graphiso.ErrSeedTooLarge
	}
	return nil
}

// IsIsomorphic reports whether host and pattern admit a total bijective
// vertex mapping preserving adjacency and Equivalent payloads both ways.
// seed may be nil or a partial host→pattern mapping every result must
// extend.
func IsIsomorphic(host, pattern *Graph, seed graphiso.Mapping) (bool, error) {
	if err := checkSeed(pattern, seed); err != nil {
		return false, err
	}
	if host.VertexCount() != pattern.VertexCount() {
		return false, nil
	}
	if host.VertexCount() == 0 {
		return true, nil
	}
	return newMatcher(host, pattern, matchExact, false).run(seed)
}

// FindIsomorphism is IsIsomorphic plus the mapping itself. The second
// return is false when no isomorphism exists.
func FindIsomorphism(host, pattern *Graph, seed graphiso.Mapping) (graphiso.Mapping, bool, error) {
	if err := checkSeed(pattern, seed); err != nil {
		return nil, false, err
	}
	if host.VertexCount() != pattern.VertexCount() {
		return nil, false, nil
	}
	if host.VertexCount() == 0 {
		return graphiso.Mapping{}, true, nil
	}
	m := newMatcher(host, pattern, matchExact, false)
	found, err := m.run(seed)
	if err != nil || !found {
		return nil, false, err
	}
	return m.mappings[0], true, nil
}

// IsSubgraphIsomorphic reports whether pattern embeds into host: an
// injective mapping of every pattern vertex onto host vertices such that
// each pattern edge has a host edge satisfying IsSpecificCaseOf. Host may
// carry extra structure the pattern doesn't mention.
func IsSubgraphIsomorphic(host, pattern *Graph, seed graphiso.Mapping) (bool, error) {
	if err := checkSeed(pattern, seed); err != nil {
		return false, err
	}
	if pattern.VertexCount() > host.VertexCount() {
		return false, nil
	}
	return newMatcher(host, pattern, matchSubgraph, false).run(seed)
}

// FindSubgraphIsomorphisms enumerates every embedding of pattern into host.
// The result can be combinatorially large; callers needing to bound the
// enumeration should use StreamSubgraphIsomorphisms instead.
func FindSubgraphIsomorphisms(host, pattern *Graph, seed graphiso.Mapping) ([]graphiso.Mapping, error) {
	if err := checkSeed(pattern, seed); err != nil {
		return nil, err
	}
	if pattern.VertexCount() > host.VertexCount() {
		return nil, nil
	}
	m := newMatcher(host, pattern, matchSubgraph, true)
	if _, err := m.run(seed); err != nil {
		return nil, err
	}
	return m.mappings, nil
}
