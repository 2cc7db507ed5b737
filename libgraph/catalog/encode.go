package catalog

import (
	"encoding/binary"
	"sort"

	"github.com/pkg/errors"

	"github.com/vf2systems/graphiso/graphiso"
	"github.com/vf2systems/graphiso/libgraph"
)

// The catalog persists label graphs in a compact byte form, most
// significant structure first so keys with the same layout sort usefully:
//
//	uvarint(vertexCount)
//	<per vertex> uvarint(len) label
//	uvarint(edgeCount)
//	<per edge>   uvarint(a) uvarint(b) uvarint(len) label
//
// Vertex ordinals follow the graph's current vertex sequence.

func appendUvarint(buf []byte, v uint64) []byte {
	var scrap [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(scrap[:], v)
	return append(buf, scrap[:n]...)
}

func appendString(buf []byte, s string) []byte {
	buf = appendUvarint(buf, uint64(len(s)))
	return append(buf, s...)
}

// encodeGraph serializes g. Only LabelVertex/LabelEdge payloads are
// supported; anything else is the domain layer's to persist.
func encodeGraph(buf []byte, g *libgraph.Graph) ([]byte, error) {
	verts := g.Vertices()
	ord := make(map[graphiso.Vertex]uint64, len(verts))

	buf = appendUvarint(buf, uint64(len(verts)))
	for i, v := range verts {
		lv, ok := v.(*libgraph.LabelVertex)
		if !ok {
			return nil, errors.Wrapf(graphiso.ErrUnsupportedPayload, "vertex %T", v)
		}
		ord[v] = uint64(i)
		buf = appendString(buf, lv.Label)
	}

	type flatEdge struct {
		a, b  uint64
		label string
	}
	var flat []flatEdge
	for _, v := range verts {
		incs, err := g.GetEdges(v)
		if err != nil {
			return nil, err
		}
		for _, inc := range incs {
			a, b := ord[v], ord[inc.Neighbor]
			if a > b {
				continue // emit each edge from its low endpoint only
			}
			le, ok := inc.Edge.(*libgraph.LabelEdge)
			if !ok {
				return nil, errors.Wrapf(graphiso.ErrUnsupportedPayload, "edge %T", inc.Edge)
			}
			flat = append(flat, flatEdge{a, b, le.Label})
		}
	}

	buf = appendUvarint(buf, uint64(len(flat)))
	for _, fe := range flat {
		buf = appendUvarint(buf, fe.a)
		buf = appendUvarint(buf, fe.b)
		buf = appendString(buf, fe.label)
	}
	return buf, nil
}

type byteReader struct {
	buf []byte
	pos int
}

func (r *byteReader) uvarint() (uint64, error) {
	v, n := binary.Uvarint(r.buf[r.pos:])
	if n <= 0 {
		return 0, graphiso.ErrBadEncoding
	}
	r.pos += n
	return v, nil
}

func (r *byteReader) str() (string, error) {
	n, err := r.uvarint()
	if err != nil {
		return "", err
	}
	if r.pos+int(n) > len(r.buf) {
		return "", graphiso.ErrBadEncoding
	}
	s := string(r.buf[r.pos : r.pos+int(n)])
	r.pos += int(n)
	return s, nil
}

// decodeGraph rebuilds an edit-layout graph from its encoding.
func decodeGraph(buf []byte) (*libgraph.Graph, error) {
	r := byteReader{buf: buf}
	g := libgraph.NewGraph()

	nv, err := r.uvarint()
	if err != nil {
		return nil, err
	}
	verts := make([]*libgraph.LabelVertex, nv)
	for i := range verts {
		label, err := r.str()
		if err != nil {
			return nil, err
		}
		verts[i] = libgraph.V(label)
		if err := g.AddVertex(verts[i]); err != nil {
			return nil, err
		}
	}

	ne, err := r.uvarint()
	if err != nil {
		return nil, err
	}
	for i := uint64(0); i < ne; i++ {
		a, err := r.uvarint()
		if err != nil {
			return nil, err
		}
		b, err := r.uvarint()
		if err != nil {
			return nil, err
		}
		label, err := r.str()
		if err != nil {
			return nil, err
		}
		if a >= nv || b >= nv {
			return nil, graphiso.ErrBadEncoding
		}
		if err := g.AddEdge(verts[a], verts[b], libgraph.E(label)); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// signatureKey is the catalog's lossy prefilter key: vertex count, then the
// degree sequence sorted descending, double-NUL terminated. Equal keys never
// imply equal graphs; every prefix hit is confirmed by the matcher.
func signatureKey(buf []byte, g *libgraph.Graph) []byte {
	verts := g.Vertices()
	degs := make([]int, len(verts))
	for i, v := range verts {
		d, _ := g.Degree(v)
		degs[i] = d
	}
	sort.Sort(sort.Reverse(sort.IntSlice(degs)))

	buf = appendUvarint(buf, uint64(len(verts)))
	for _, d := range degs {
		buf = appendUvarint(buf, uint64(d))
	}
	return append(buf, 0, 0)
}
