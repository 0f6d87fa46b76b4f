// Package models builds the operators of a few standard spin models on a
// one-dimensional lattice.
package models

import (
	"slices"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
)

// Edge is an undirected lattice bond with From < To.
type Edge struct {
	From, To int
}

// PathGraph returns the open chain 0-1-...-(n-1).
func PathGraph(n int) *simple.UndirectedGraph {
	g := simple.NewUndirectedGraph()
	for i := 0; i < n; i++ {
		g.AddNode(simple.Node(i))
	}
	for i := 0; i+1 < n; i++ {
		g.SetEdge(simple.Edge{F: simple.Node(i), T: simple.Node(i + 1)})
	}
	return g
}

// Sites returns the node ids of g in increasing order.
func Sites(g graph.Graph) []int {
	var sites []int
	for _, n := range graph.NodesOf(g.Nodes()) {
		sites = append(sites, int(n.ID()))
	}
	slices.Sort(sites)
	return sites
}

// Edges returns the bonds of g in lexical order. Graph iteration order is
// unspecified, so the result is sorted to keep operator term order stable.
func Edges(g graph.Undirected) []Edge {
	var edges []Edge
	for _, u := range graph.NodesOf(g.Nodes()) {
		for _, v := range graph.NodesOf(g.From(u.ID())) {
			if u.ID() < v.ID() {
				edges = append(edges, Edge{From: int(u.ID()), To: int(v.ID())})
			}
		}
	}
	slices.SortFunc(edges, func(a, b Edge) int {
		if a.From != b.From {
			return a.From - b.From
		}
		return a.To - b.To
	})
	return edges
}
