package topology

import (
	"fmt"

	"github.com/activecm/trafficlens/pkg/packet"
	"github.com/activecm/trafficlens/pkg/ranking"
)

type (
	// Node is an address in the reduced graph. Top is set for the addresses
	// selected by the bidirectional ranking; the others are peers pulled in
	// by an edge to a top address.
	Node struct {
		ID    string  `json:"id"`
		Count int64   `json:"count"`
		Top   bool    `json:"top"`
		X     float64 `json:"x"`
		Y     float64 `json:"y"`
	}

	// Edge is a distinct directed connection. Packets is the number of
	// records carrying it.
	Edge struct {
		Source  string `json:"source"`
		Target  string `json:"target"`
		Packets int64  `json:"packets"`
	}

	// Graph is the laid out communication graph of the most active addresses
	Graph struct {
		TopN  int    `json:"top_n"`
		Nodes []Node `json:"nodes"`
		Edges []Edge `json:"edges"`
	}
)

// graphBuilder collects nodes and edges in insertion order
type graphBuilder struct {
	nodeIndex map[string]int
	edgeIndex map[[2]string]int
	nodes     []Node
	edges     []Edge
}

func newGraphBuilder() *graphBuilder {
	return &graphBuilder{
		nodeIndex: make(map[string]int),
		edgeIndex: make(map[[2]string]int),
	}
}

func (b *graphBuilder) addNode(id string, count int64, top bool) {
	if _, ok := b.nodeIndex[id]; ok {
		return
	}
	b.nodeIndex[id] = len(b.nodes)
	b.nodes = append(b.nodes, Node{ID: id, Count: count, Top: top})
}

func (b *graphBuilder) addEdge(src, dst string) {
	key := [2]string{src, dst}
	if i, ok := b.edgeIndex[key]; ok {
		b.edges[i].Packets++
		return
	}
	b.edgeIndex[key] = len(b.edges)
	b.edges = append(b.edges, Edge{Source: src, Target: dst, Packets: 1})
}

// BuildTopologyGraph reduces the record set to the topN most active
// addresses, keeps every record touching one of them and lays out the
// resulting directed graph. Node positions are deterministic for a given
// record set and LayoutOptions.
//
// Graph.Nodes holds the top addresses first, flagged with Top, followed by
// the peers they exchanged packets with, so every edge ends at a node.
// Callers wanting only the topN addresses keep the nodes with Top set and
// the edges between them.
func BuildTopologyGraph(rs *packet.RecordSet, topN int, opts LayoutOptions) (*Graph, error) {
	if topN < 1 {
		return nil, fmt.Errorf("topology graph: top n must be positive, got %d: %w", topN, packet.ErrInvalidArgument)
	}

	ranked, err := ranking.RankNodes(rs)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(ranked))
	for _, e := range ranked {
		counts[e.Key] = e.Count
	}

	top := ranking.TopN(ranked, topN)
	reduced := ranking.FilterByNodeSet(rs, top, false)

	b := newGraphBuilder()
	for _, id := range top {
		b.addNode(id, counts[id], true)
	}
	reduced.Each(func(_ int, r *packet.Record) {
		if r.Source == "" || r.Destination == "" {
			return
		}
		b.addNode(r.Source, counts[r.Source], false)
		b.addNode(r.Destination, counts[r.Destination], false)
		b.addEdge(r.Source, r.Destination)
	})

	g := &Graph{TopN: topN, Nodes: b.nodes, Edges: b.edges}
	if g.Nodes == nil {
		g.Nodes = []Node{}
	}
	if g.Edges == nil {
		g.Edges = []Edge{}
	}
	if err := Layout(g, opts); err != nil {
		return nil, err
	}
	return g, nil
}

// Node returns the node with the given id
func (g *Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}
