package yard

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

// Graph is the undirected adjacency of routable yard parts. Nodes are keyed by
// their resolved track name; lookups ignore case because plans are case-folded.
type Graph struct {
	g     *simple.UndirectedGraph
	ids   map[string]int64
	names map[int64]string
}

func newGraph() *Graph {
	return &Graph{g: simple.NewUndirectedGraph(), ids: make(map[string]int64), names: make(map[int64]string)}
}

// NewGraph builds the topology graph. Parts whose type is not routable are
// left out entirely, so they never bridge two routable parts.
func NewGraph(desc Description, aliases Aliases) (*Graph, error) {
	byID := make(map[PartID]TrackPart, len(desc.TrackParts))
	for _, p := range desc.TrackParts {
		byID[p.ID] = p
	}

	gr := newGraph()
	for _, p := range desc.TrackParts {
		if p.Type.Routable() {
			gr.addNode(aliases.Resolve(p.Name))
		}
	}
	for _, p := range desc.TrackParts {
		if !p.Type.Routable() {
			continue
		}
		from := aliases.Resolve(p.Name)
		for _, nid := range p.ASide {
			n, ok := byID[nid]
			if !ok {
				return nil, fmt.Errorf("%w: %s lists neighbour %s", ErrUnknownPart, p.Name, nid)
			}
			if !n.Type.Routable() {
				continue
			}
			gr.addEdge(from, aliases.Resolve(n.Name))
		}
	}
	return gr, nil
}

func (gr *Graph) addNode(name string) int64 {
	key := strings.ToLower(name)
	if id, ok := gr.ids[key]; ok {
		return id
	}
	n := gr.g.NewNode()
	gr.g.AddNode(n)
	gr.ids[key] = n.ID()
	gr.names[n.ID()] = name
	return n.ID()
}

func (gr *Graph) addEdge(a, b string) {
	u, v := gr.addNode(a), gr.addNode(b)
	// Two parts aliased to the same track collapse into one node.
	if u == v {
		return
	}
	gr.g.SetEdge(gr.g.NewEdge(gr.g.Node(u), gr.g.Node(v)))
}

// Len returns the number of nodes.
func (gr *Graph) Len() int { return gr.g.Nodes().Len() }

// Has reports whether a track name is a node.
func (gr *Graph) Has(name string) bool {
	_, ok := gr.ids[strings.ToLower(name)]
	return ok
}

// Adjacent reports whether two tracks share an edge.
func (gr *Graph) Adjacent(a, b string) bool {
	u, ok := gr.ids[strings.ToLower(a)]
	if !ok {
		return false
	}
	v, ok := gr.ids[strings.ToLower(b)]
	if !ok {
		return false
	}
	return gr.g.HasEdgeBetween(u, v)
}

// Names returns all node names sorted.
func (gr *Graph) Names() []string {
	out := make([]string, 0, len(gr.names))
	for _, n := range gr.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// ShortestPath returns the node names on a fewest-edges path from one track
// to another, both ends included. Ties follow gonum's node enumeration and
// are not stable across topology edits.
func (gr *Graph) ShortestPath(from, to string) ([]string, error) {
	u, ok := gr.ids[strings.ToLower(from)]
	if !ok {
		return nil, &RouteError{From: from, To: to}
	}
	v, ok := gr.ids[strings.ToLower(to)]
	if !ok {
		return nil, &RouteError{From: from, To: to}
	}
	if u == v {
		return []string{gr.names[u]}, nil
	}
	nodes, _ := path.DijkstraFrom(gr.g.Node(u), gr.g).To(v)
	if len(nodes) == 0 {
		return nil, &RouteError{From: from, To: to}
	}
	return gr.nodeNames(nodes), nil
}

func (gr *Graph) nodeNames(nodes []graph.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = gr.names[n.ID()]
	}
	return out
}
