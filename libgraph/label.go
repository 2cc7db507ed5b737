package libgraph

import (
	"strings"

	"github.com/vf2systems/graphiso/graphiso"
)

// Wildcard is the label that generalizes any other label. It only has
// meaning on the pattern side of a subgraph query.
const Wildcard = "_"

// LabelVertex is a minimal Vertex payload: a bare string label. A pattern
// label may be the wildcard or an alternation like "C|N", either of which
// any listed concrete label specializes.
type LabelVertex struct {
	Label string
}

// V returns a fresh label vertex. Each call is a distinct identity even for
// equal labels.
func V(label string) *LabelVertex {
	return &LabelVertex{Label: label}
}

func (v *LabelVertex) Copy() graphiso.Vertex {
	return &LabelVertex{Label: v.Label}
}

func (v *LabelVertex) Equivalent(other graphiso.Vertex) bool {
	o, ok := other.(*LabelVertex)
	return ok && o.Label == v.Label
}

func (v *LabelVertex) IsSpecificCaseOf(other graphiso.Vertex) bool {
	o, ok := other.(*LabelVertex)
	return ok && labelGeneralizes(o.Label, v.Label)
}

func (v *LabelVertex) String() string { return v.Label }

// LabelEdge is the Edge counterpart of LabelVertex.
type LabelEdge struct {
	Label string
}

// E returns a fresh label edge.
func E(label string) *LabelEdge {
	return &LabelEdge{Label: label}
}

func (e *LabelEdge) Copy() graphiso.Edge {
	return &LabelEdge{Label: e.Label}
}

func (e *LabelEdge) Equivalent(other graphiso.Edge) bool {
	o, ok := other.(*LabelEdge)
	return ok && o.Label == e.Label
}

func (e *LabelEdge) IsSpecificCaseOf(other graphiso.Edge) bool {
	o, ok := other.(*LabelEdge)
	return ok && labelGeneralizes(o.Label, e.Label)
}

func (e *LabelEdge) String() string { return e.Label }

// labelGeneralizes reports whether the pattern label covers the concrete
// one: the wildcard covers everything, an alternation covers each listed
// label, otherwise the labels must be equal.
func labelGeneralizes(pattern, concrete string) bool {
	if pattern == Wildcard || pattern == concrete {
		return true
	}
	if strings.ContainsRune(pattern, '|') {
		for _, alt := range strings.Split(pattern, "|") {
			if alt == concrete {
				return true
			}
		}
	}
	return false
}
