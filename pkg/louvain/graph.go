package louvain

import (
	"fmt"
)

// Graph is a weighted undirected graph over nodes 0..NumNodes-1 using
// adjacency lists. Self-loops are allowed and count twice toward the
// node's weighted degree.
type Graph struct {
	NumNodes    int         `json:"num_nodes"`
	Adjacency   [][]int     `json:"-"` // adjacency[i] = neighbors of node i
	Weights     [][]float64 `json:"-"` // weights[i][j] = weight of edge to adjacency[i][j]
	Degrees     []float64   `json:"degrees"`
	TotalWeight float64     `json:"total_weight"` // sum of edge weights, each edge counted once
}

// NewGraph creates a graph with n nodes and no edges.
func NewGraph(numNodes int) *Graph {
	return &Graph{
		NumNodes:  numNodes,
		Adjacency: make([][]int, numNodes),
		Weights:   make([][]float64, numNodes),
		Degrees:   make([]float64, numNodes),
	}
}

// AddEdge adds a weighted undirected edge between u and v. A self-loop
// (u == v) is stored once in the adjacency list but contributes twice
// to the node's degree.
func (g *Graph) AddEdge(u, v int, weight float64) error {
	if u < 0 || u >= g.NumNodes || v < 0 || v >= g.NumNodes {
		return fmt.Errorf("node index out of range: u=%d, v=%d, numNodes=%d", u, v, g.NumNodes)
	}
	if weight <= 0 {
		return fmt.Errorf("edge weight must be positive: %f", weight)
	}

	g.Adjacency[u] = append(g.Adjacency[u], v)
	g.Weights[u] = append(g.Weights[u], weight)
	g.Degrees[u] += weight

	if u != v {
		g.Adjacency[v] = append(g.Adjacency[v], u)
		g.Weights[v] = append(g.Weights[v], weight)
		g.Degrees[v] += weight
	} else {
		g.Degrees[u] += weight
	}

	g.TotalWeight += weight
	return nil
}

// GetEdgeWeight returns the weight of the edge between u and v, or 0 if
// no such edge exists.
func (g *Graph) GetEdgeWeight(u, v int) float64 {
	if u < 0 || u >= g.NumNodes || v < 0 || v >= g.NumNodes {
		return 0.0
	}
	for i, neighbor := range g.Adjacency[u] {
		if neighbor == v {
			return g.Weights[u][i]
		}
	}
	return 0.0
}

// GetNeighbors returns the neighbors of a node and their edge weights.
func (g *Graph) GetNeighbors(node int) ([]int, []float64) {
	if node < 0 || node >= g.NumNodes {
		return nil, nil
	}
	return g.Adjacency[node], g.Weights[node]
}

// Validate checks graph consistency.
func (g *Graph) Validate() error {
	if g.NumNodes < 0 {
		return fmt.Errorf("negative node count: %d", g.NumNodes)
	}

	for i := 0; i < g.NumNodes; i++ {
		if len(g.Adjacency[i]) != len(g.Weights[i]) {
			return fmt.Errorf("adjacency and weights arrays inconsistent for node %d", i)
		}
		for j, neighbor := range g.Adjacency[i] {
			if neighbor < 0 || neighbor >= g.NumNodes {
				return fmt.Errorf("invalid neighbor %d for node %d", neighbor, i)
			}
			if g.Weights[i][j] <= 0 {
				return fmt.Errorf("non-positive weight %f for edge %d-%d", g.Weights[i][j], i, neighbor)
			}
		}
	}

	return nil
}
