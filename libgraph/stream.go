package libgraph

import (
	"sync"

	"github.com/vf2systems/graphiso/graphiso"
)

// GraphStream carries a sequence of graphs between pipeline stages.
// Ownership of each graph travels with it through the channel.
type GraphStream struct {
	Outlet chan *Graph
}

func NewGraphStream() *GraphStream {
	return &GraphStream{
		Outlet: make(chan *Graph, 1),
	}
}

func (stream *GraphStream) Close() {
	if stream.Outlet != nil {
		close(stream.Outlet)
	}
}

func (stream *GraphStream) PushGraph(g *Graph) {
	stream.Outlet <- g
}

func (stream *GraphStream) PullGraph() *Graph {
	return <-stream.Outlet
}

// PullAll drains the stream and returns how many graphs passed through.
func (stream *GraphStream) PullAll() int {
	count := 0
	for range stream.Outlet {
		count++
	}
	return count
}

// SelectSubgraphMatches passes through only graphs that pattern embeds
// into.  Match errors drop the graph.
func (stream *GraphStream) SelectSubgraphMatches(pattern *Graph) *GraphStream {
	next := NewGraphStream()
	go func() {
		for g := range stream.Outlet {
			if ok, err := IsSubgraphIsomorphic(g, pattern, nil); err == nil && ok {
				next.Outlet <- g
			}
		}
		next.Close()
	}()
	return next
}

// MatchStream carries mappings out of a running enumeration. Cancel stops
// the underlying search; Err reports a search error after Outlet closes.
type MatchStream struct {
	Outlet chan graphiso.Mapping

	stop     chan struct{}
	stopOnce sync.Once
	err      error
}

// Cancel abandons the enumeration. Safe to call more than once.
func (ms *MatchStream) Cancel() {
	ms.stopOnce.Do(func() { close(ms.stop) })
}

// Err is valid once Outlet has closed.
func (ms *MatchStream) Err() error {
	return ms.err
}

// PullN pulls up to n mappings and cancels the rest, bounding an
// enumeration that could be combinatorially large.
func (ms *MatchStream) PullN(n int) []graphiso.Mapping {
	out := make([]graphiso.Mapping, 0, n)
	for mp := range ms.Outlet {
		out = append(out, mp)
		if len(out) == n {
			ms.Cancel()
			break
		}
	}
	return out
}

// StreamSubgraphIsomorphisms enumerates embeddings of pattern into host,
// delivering each mapping as it is found. Both graphs belong to the search
// until Outlet closes; the caller must not touch them before then.
func StreamSubgraphIsomorphisms(host, pattern *Graph, seed graphiso.Mapping) *MatchStream {
	ms := &MatchStream{
		Outlet: make(chan graphiso.Mapping, 1),
		stop:   make(chan struct{}),
	}

	go func() {
		defer close(ms.Outlet)

		if err := checkSeed(pattern, seed); err != nil {
			ms.err = err
			return
		}
		if pattern.VertexCount() > host.VertexCount() {
			return
		}

		m := newMatcher(host, pattern, matchSubgraph, true)
		m.onMatch = func(mp graphiso.Mapping) bool {
			select {
			case ms.Outlet <- mp:
				return true
			case <-ms.stop:
				return false
			}
		}
		if _, err := m.run(seed); err != nil {
			ms.err = err
		}
	}()

	return ms
}
