// Package louvain implements modularity-based community detection
// (greedy local moving followed by graph aggregation) on weighted
// undirected graphs.
package louvain

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/rs/zerolog"
)

// Config contains the algorithm parameters.
type Config struct {
	Resolution     float64 // gamma in the modularity objective, must be positive
	RandomSeed     int64   // >= 0 shuffles the visiting order with this seed; < 0 visits nodes in ascending index order
	MaxLevels      int     // cap on aggregation rounds
	MaxIterations  int     // cap on local-moving passes per level
	MinGain        float64 // minimum modularity gain to accept a move
	EnableProgress bool    // log per-pass progress
}

// DefaultConfig returns the default algorithm parameters.
func DefaultConfig() Config {
	return Config{
		Resolution:    1.0,
		RandomSeed:    -1,
		MaxLevels:     10,
		MaxIterations: 100,
		MinGain:       1e-9,
	}
}

// Validate checks the configuration before any computation starts.
func (c Config) Validate() error {
	if c.Resolution <= 0 {
		return fmt.Errorf("resolution must be positive, got %v", c.Resolution)
	}
	if c.MaxLevels <= 0 {
		return fmt.Errorf("max levels must be positive, got %d", c.MaxLevels)
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf("max iterations must be positive, got %d", c.MaxIterations)
	}
	return nil
}

// Result is the algorithm output.
type Result struct {
	Partition   []int      `json:"partition"` // node index -> cluster id, ids contiguous from 0
	NumClusters int        `json:"num_clusters"`
	Modularity  float64    `json:"modularity"`
	NumLevels   int        `json:"num_levels"`
	Statistics  Statistics `json:"statistics"`
}

// Statistics contains algorithm execution metrics.
type Statistics struct {
	TotalIterations int          `json:"total_iterations"`
	TotalMoves      int          `json:"total_moves"`
	RuntimeMS       int64        `json:"runtime_ms"`
	LevelStats      []LevelStats `json:"level_stats"`
}

// LevelStats contains per-level metrics.
type LevelStats struct {
	Level             int     `json:"level"`
	Nodes             int     `json:"nodes"`
	Iterations        int     `json:"iterations"`
	Moves             int     `json:"moves"`
	NumCommunities    int     `json:"num_communities"`
	InitialModularity float64 `json:"initial_modularity"`
	FinalModularity   float64 `json:"final_modularity"`
}

// communityState tracks community membership and the running weight
// sums needed for incremental modularity updates at one level.
type communityState struct {
	graph      *Graph
	resolution float64

	nodeToComm []int
	commSize   []int
	in         []float64 // 2x internal edge weight of each community, self-loops counted twice
	tot        []float64 // sum of member degrees of each community
	selfLoop   []float64 // cached self-loop weight per node
}

func newCommunityState(graph *Graph, resolution float64) *communityState {
	n := graph.NumNodes
	s := &communityState{
		graph:      graph,
		resolution: resolution,
		nodeToComm: make([]int, n),
		commSize:   make([]int, n),
		in:         make([]float64, n),
		tot:        make([]float64, n),
		selfLoop:   make([]float64, n),
	}

	for i := 0; i < n; i++ {
		s.nodeToComm[i] = i
		s.commSize[i] = 1
		s.selfLoop[i] = graph.GetEdgeWeight(i, i)
		s.in[i] = 2 * s.selfLoop[i]
		s.tot[i] = graph.Degrees[i]
	}

	return s
}

// modularity computes Q for the current partition:
// sum over communities of in/2m - gamma*(tot/2m)^2.
func (s *communityState) modularity() float64 {
	if s.graph.TotalWeight == 0 {
		return 0.0
	}

	q := 0.0
	m2 := 2.0 * s.graph.TotalWeight
	for c := 0; c < len(s.commSize); c++ {
		if s.commSize[c] == 0 {
			continue
		}
		q += s.in[c]/m2 - s.resolution*(s.tot[c]/m2)*(s.tot[c]/m2)
	}

	return q
}

// gain is the modularity gain (up to a constant factor) of inserting a
// removed node into the given community, where weightToComm is the total
// edge weight from the node to that community.
func (s *communityState) gain(node, comm int, weightToComm float64) float64 {
	return weightToComm - s.resolution*s.tot[comm]*s.graph.Degrees[node]/(2.0*s.graph.TotalWeight)
}

func (s *communityState) remove(node, comm int, weightToComm float64) {
	s.tot[comm] -= s.graph.Degrees[node]
	s.in[comm] -= 2 * (weightToComm + s.selfLoop[node])
	s.commSize[comm]--
	s.nodeToComm[node] = -1
}

func (s *communityState) insert(node, comm int, weightToComm float64) {
	s.tot[comm] += s.graph.Degrees[node]
	s.in[comm] += 2 * (weightToComm + s.selfLoop[node])
	s.commSize[comm]++
	s.nodeToComm[node] = comm
}

// neighborCommWeights sums the edge weight from node to each adjacent
// community. The node's own community is always present so staying put
// is evaluated alongside every move.
func (s *communityState) neighborCommWeights(node int) map[int]float64 {
	weights := map[int]float64{s.nodeToComm[node]: 0}

	neighbors, edgeWeights := s.graph.GetNeighbors(node)
	for i, neighbor := range neighbors {
		if neighbor == node {
			continue
		}
		weights[s.nodeToComm[neighbor]] += edgeWeights[i]
	}

	return weights
}

// localMove runs local-moving passes until a pass makes zero moves or
// the iteration cap is hit. The visiting order is ascending node index,
// or a seed-shuffled permutation when config.RandomSeed >= 0, so the
// outcome is reproducible either way.
func (s *communityState) localMove(config Config, logger zerolog.Logger) (iterations, moves int) {
	order := make([]int, s.graph.NumNodes)
	for i := range order {
		order[i] = i
	}
	if config.RandomSeed >= 0 {
		rng := rand.New(rand.NewSource(config.RandomSeed))
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	}

	for iterations < config.MaxIterations {
		iterations++
		passMoves := 0

		for _, node := range order {
			former := s.nodeToComm[node]
			commWeights := s.neighborCommWeights(node)
			s.remove(node, former, commWeights[former])

			// Candidate communities in ascending id order. Strictly
			// greater gain is required to leave the former community,
			// so ties keep the former community and, among other
			// candidates, the smallest id wins.
			candidates := make([]int, 0, len(commWeights))
			for c := range commWeights {
				candidates = append(candidates, c)
			}
			sort.Ints(candidates)

			bestComm := former
			bestGain := s.gain(node, former, commWeights[former])
			for _, c := range candidates {
				if c == former {
					continue
				}
				if g := s.gain(node, c, commWeights[c]); g > bestGain+config.MinGain {
					bestComm = c
					bestGain = g
				}
			}

			s.insert(node, bestComm, commWeights[bestComm])
			if bestComm != former {
				passMoves++
			}
		}

		moves += passMoves

		if config.EnableProgress {
			logger.Debug().
				Int("pass", iterations).
				Int("moves", passMoves).
				Float64("modularity", s.modularity()).
				Msg("local moving pass")
		}

		if passMoves == 0 {
			break
		}
	}

	return iterations, moves
}

// compress renumbers the non-empty communities 0..k-1 in order of their
// smallest member node and returns the community id -> new index map.
func (s *communityState) compress() (commToSuper []int, numCommunities int) {
	commToSuper = make([]int, len(s.commSize))
	for i := range commToSuper {
		commToSuper[i] = -1
	}
	for node := 0; node < s.graph.NumNodes; node++ {
		c := s.nodeToComm[node]
		if commToSuper[c] < 0 {
			commToSuper[c] = numCommunities
			numCommunities++
		}
	}
	return commToSuper, numCommunities
}

// aggregate builds the super-graph whose nodes are the current
// communities. Intra-community weight becomes a self-loop so it keeps
// contributing to internal weight at the next level.
func (s *communityState) aggregate(commToSuper []int, numCommunities int) (*Graph, error) {
	superEdges := make(map[[2]int]float64)

	for u := 0; u < s.graph.NumNodes; u++ {
		neighbors, weights := s.graph.GetNeighbors(u)
		for i, v := range neighbors {
			if v < u {
				continue // each undirected edge appears twice in the adjacency lists
			}
			cu := commToSuper[s.nodeToComm[u]]
			cv := commToSuper[s.nodeToComm[v]]
			if cu > cv {
				cu, cv = cv, cu
			}
			superEdges[[2]int{cu, cv}] += weights[i]
		}
	}

	superGraph := NewGraph(numCommunities)
	for edge, weight := range superEdges {
		if err := superGraph.AddEdge(edge[0], edge[1], weight); err != nil {
			return nil, fmt.Errorf("building super-graph: %w", err)
		}
	}

	return superGraph, nil
}

// Run executes the complete two-phase algorithm and returns the
// flattened partition of the input graph's nodes.
func Run(graph *Graph, config Config, logger zerolog.Logger) (*Result, error) {
	startTime := time.Now()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if graph == nil {
		return nil, fmt.Errorf("nil graph")
	}
	if err := graph.Validate(); err != nil {
		return nil, fmt.Errorf("invalid graph: %w", err)
	}

	result := &Result{Partition: make([]int, graph.NumNodes)}
	if graph.NumNodes == 0 {
		return result, nil
	}

	logger.Info().
		Int("nodes", graph.NumNodes).
		Float64("total_weight", graph.TotalWeight).
		Float64("resolution", config.Resolution).
		Msg("starting community detection")

	// flat[i] tracks which current-level node original node i has been
	// folded into.
	flat := make([]int, graph.NumNodes)
	for i := range flat {
		flat[i] = i
	}

	currentGraph := graph
	modularity := 0.0

	for level := 0; level < config.MaxLevels; level++ {
		// Without edges every merge has non-positive gain; the
		// singleton partition is already optimal.
		if currentGraph.TotalWeight == 0 {
			break
		}

		state := newCommunityState(currentGraph, config.Resolution)
		initialMod := state.modularity()

		iterations, moves := state.localMove(config, logger)
		modularity = state.modularity()

		commToSuper, numCommunities := state.compress()
		for i := range flat {
			flat[i] = commToSuper[state.nodeToComm[flat[i]]]
		}

		result.NumLevels++
		result.Statistics.TotalIterations += iterations
		result.Statistics.TotalMoves += moves
		result.Statistics.LevelStats = append(result.Statistics.LevelStats, LevelStats{
			Level:             level,
			Nodes:             currentGraph.NumNodes,
			Iterations:        iterations,
			Moves:             moves,
			NumCommunities:    numCommunities,
			InitialModularity: initialMod,
			FinalModularity:   modularity,
		})

		logger.Info().
			Int("level", level).
			Int("nodes", currentGraph.NumNodes).
			Int("communities", numCommunities).
			Int("moves", moves).
			Float64("modularity", modularity).
			Msg("level completed")

		if moves == 0 || numCommunities == currentGraph.NumNodes || numCommunities == 1 {
			break
		}

		superGraph, err := state.aggregate(commToSuper, numCommunities)
		if err != nil {
			return nil, fmt.Errorf("aggregation failed at level %d: %w", level, err)
		}
		currentGraph = superGraph
	}

	copy(result.Partition, flat)
	result.NumClusters = relabel(result.Partition)
	result.Modularity = modularity
	result.Statistics.RuntimeMS = time.Since(startTime).Milliseconds()

	logger.Info().
		Int("levels", result.NumLevels).
		Int("clusters", result.NumClusters).
		Float64("modularity", result.Modularity).
		Int64("runtime_ms", result.Statistics.RuntimeMS).
		Msg("community detection completed")

	return result, nil
}

// relabel renumbers cluster ids 0..k-1 in order of first appearance
// over ascending node index and returns the number of clusters.
func relabel(partition []int) int {
	next := 0
	seen := make(map[int]int)
	for i, c := range partition {
		id, ok := seen[c]
		if !ok {
			id = next
			seen[c] = id
			next++
		}
		partition[i] = id
	}
	return next
}
