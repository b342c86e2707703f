// Package interestgraph builds the interest pool, the weighted
// co-occurrence graph, and the symmetric co-occurrence matrix from the
// roster's self-reported interests.
package interestgraph

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/the-ehub/interest-clustering-service/pkg/louvain"
	"github.com/the-ehub/interest-clustering-service/pkg/models"
)

// CoOccurrenceGraph holds the artifacts derived from the roster's
// interests. Pool is sorted ascending and node i of Graph corresponds
// to Pool[i]; Matrix is |pool|x|pool| with Matrix[a][b] = number of
// students who selected both a and b.
type CoOccurrenceGraph struct {
	Pool   []string
	Index  map[string]int
	Graph  *louvain.Graph
	Matrix *mat.SymDense
}

// BuildPool unions the interests of every roster student present in the
// student data, minus the exclusion set, and returns them sorted.
// Roster entries without a student record are skipped.
func BuildPool(roster []models.RosterEntry, students map[string]models.Student, excluded []string) []string {
	excludedSet := make(map[string]bool, len(excluded))
	for _, e := range excluded {
		excludedSet[e] = true
	}

	poolSet := make(map[string]bool)
	for _, entry := range roster {
		student, ok := students[entry.Email]
		if !ok {
			continue
		}
		for _, interest := range student.Interests {
			if !excludedSet[interest] {
				poolSet[interest] = true
			}
		}
	}

	pool := make([]string, 0, len(poolSet))
	for interest := range poolSet {
		pool = append(pool, interest)
	}
	sort.Strings(pool)
	return pool
}

// Build constructs the weighted co-occurrence graph and matrix over the
// given pool. For each roster student, every unordered pair of distinct
// pool interests they selected increments the edge weight between those
// interests by one. Students with fewer than two pool interests
// contribute no edges; every pool interest is a node regardless.
func Build(roster []models.RosterEntry, students map[string]models.Student, pool []string) (*CoOccurrenceGraph, error) {
	index := make(map[string]int, len(pool))
	for i, interest := range pool {
		if _, dup := index[interest]; dup {
			return nil, fmt.Errorf("duplicate interest in pool: %q", interest)
		}
		index[interest] = i
	}

	n := len(pool)
	weights := make(map[[2]int]float64)
	var matrix *mat.SymDense
	if n > 0 {
		matrix = mat.NewSymDense(n, nil)
	}

	for _, entry := range roster {
		student, ok := students[entry.Email]
		if !ok {
			continue
		}

		selected := poolInterests(student, index)
		for i := 0; i < len(selected); i++ {
			for j := i + 1; j < len(selected); j++ {
				a, b := selected[i], selected[j]
				weights[[2]int{a, b}]++
				matrix.SetSym(a, b, matrix.At(a, b)+1)
			}
		}
	}

	graph := louvain.NewGraph(n)
	for edge, weight := range weights {
		if err := graph.AddEdge(edge[0], edge[1], weight); err != nil {
			return nil, fmt.Errorf("adding co-occurrence edge: %w", err)
		}
	}

	return &CoOccurrenceGraph{
		Pool:   pool,
		Index:  index,
		Graph:  graph,
		Matrix: matrix,
	}, nil
}

// poolInterests returns the student's pool-restricted interest indices,
// sorted and deduplicated.
func poolInterests(student models.Student, index map[string]int) []int {
	seen := make(map[int]bool)
	selected := make([]int, 0, len(student.Interests))
	for _, interest := range student.Interests {
		if i, ok := index[interest]; ok && !seen[i] {
			seen[i] = true
			selected = append(selected, i)
		}
	}
	sort.Ints(selected)
	return selected
}
