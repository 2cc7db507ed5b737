package libgraph

import (
	"strings"
	"unicode"

	"github.com/alecthomas/participle/v2"
	"github.com/pkg/errors"

	"github.com/vf2systems/graphiso/graphiso"
)

// Graph notation
//
// A graph expression is one or more parts separated by ";", each part a
// comma-separated list of edge runs over a part-local vertex ID space:
//
//	C1-C2-O3, C2=N4 ; _1~_2
//
// A vertex reference is a label followed by its numeric ID ("C2", "_1");
// "_" is the wildcard label and "C|N3" an alternation. Bonds: "-" single,
// "=" double, "#" triple, "~" wildcard. Repeating an ID within a part refers
// back to the same vertex.

type GraphExpr struct {
	Parts []*Part `parser:"(@@ (\";\" @@)*)?"`
}

type Part struct {
	Runs []*EdgeRun `parser:"(@@ (\",\" @@)*)?"`
}

type EdgeRun struct {
	Start *VtxRef `parser:"@@"`
	Hops  []*Hop  `parser:"@@*"`
}

type Hop struct {
	Bond string  `parser:"@(\"-\" | \"=\" | \"#\" | \"~\")"`
	End  *VtxRef `parser:"@@"`
}

type VtxRef struct {
	Names []string `parser:"@Ident (\"|\" @Ident)*"`
}

var parseGraphExpr = participle.MustBuild[GraphExpr]()

// ParseGraph builds an edit-layout graph of LabelVertex/LabelEdge payloads
// from a graph expression. Parts become disjoint subgraphs of the one
// returned graph.
func ParseGraph(expr string) (*Graph, error) {
	ast, err := parseGraphExpr.ParseString("", expr)
	if err != nil {
		return nil, errors.Wrap(graphiso.ErrBadGraphExpr, err.Error())
	}

	g := NewGraph()
	for pi, part := range ast.Parts {
		b := exprBuilder{g: g, byID: make(map[int]*LabelVertex)}
		for _, run := range part.Runs {
			if err := b.applyRun(run); err != nil {
				return nil, errors.Wrapf(err, "part #%d", pi+1)
			}
		}
	}
	return g, nil
}

// exprBuilder accumulates one part's vertices; IDs are local to the part.
type exprBuilder struct {
	g    *Graph
	byID map[int]*LabelVertex
}

func (b *exprBuilder) applyRun(run *EdgeRun) error {
	cur, err := b.resolve(run.Start)
	if err != nil {
		return err
	}
	for _, hop := range run.Hops {
		next, err := b.resolve(hop.End)
		if err != nil {
			return err
		}
		bond := hop.Bond
		if bond == "~" {
			bond = Wildcard
		}
		if err := b.g.AddEdge(cur, next, E(bond)); err != nil {
			return errors.Wrapf(err, "%s-%s", cur.Label, next.Label)
		}
		cur = next
	}
	return nil
}

// resolve returns the part-local vertex for a reference, creating it on
// first sight. A later, more specific label upgrades an earlier wildcard;
// two conflicting concrete labels are an error.
func (b *exprBuilder) resolve(ref *VtxRef) (*LabelVertex, error) {
	label, id, err := splitRef(strings.Join(ref.Names, "|"))
	if err != nil {
		return nil, err
	}
	if v, ok := b.byID[id]; ok {
		switch {
		case label == Wildcard || label == v.Label:
		case v.Label == Wildcard:
			v.Label = label
		default:
			return nil, errors.Wrapf(graphiso.ErrBadGraphExpr,
				"vertex %d labeled both %q and %q", id, v.Label, label)
		}
		return v, nil
	}
	v := V(label)
	b.byID[id] = v
	return v, b.g.AddVertex(v)
}

// splitRef splits "C12" into ("C", 12). The trailing digits are the ID and
// are required; whatever precedes them is the label.
func splitRef(name string) (string, int, error) {
	cut := len(name)
	for cut > 0 && unicode.IsDigit(rune(name[cut-1])) {
		cut--
	}
	if cut == len(name) || cut == 0 {
		return "", 0, errors.Wrapf(graphiso.ErrBadGraphExpr, "vertex ref %q needs <label><id>", name)
	}
	id := 0
	for _, r := range name[cut:] {
		id = id*10 + int(r-'0')
	}
	return name[:cut], id, nil
}
