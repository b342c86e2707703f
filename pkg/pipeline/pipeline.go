// Package pipeline wires the clustering stages together: roster and
// student data in, graph construction, community detection, student
// assignment, and summaries out.
package pipeline

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/the-ehub/interest-clustering-service/pkg/assign"
	"github.com/the-ehub/interest-clustering-service/pkg/config"
	"github.com/the-ehub/interest-clustering-service/pkg/interestgraph"
	"github.com/the-ehub/interest-clustering-service/pkg/louvain"
	"github.com/the-ehub/interest-clustering-service/pkg/models"
	"github.com/the-ehub/interest-clustering-service/pkg/roster"
	"github.com/the-ehub/interest-clustering-service/pkg/summary"
)

// Result carries every artifact of one clustering run.
type Result struct {
	RunID string `json:"run_id"`

	Graph      *interestgraph.CoOccurrenceGraph `json:"-"`
	Pool       []string                         `json:"pool"`
	Partition  map[string]int                   `json:"partition"` // interest -> cluster id
	Clusters   [][]string                       `json:"clusters"`  // cluster id -> interests
	Modularity float64                          `json:"modularity"`

	Assignments []models.Assignment `json:"assignments"`
	Summary     *summary.Summary    `json:"summary"`

	SkippedMissing   int   `json:"skipped_missing"`    // roster entries without a student record
	SkippedNoOverlap int   `json:"skipped_no_overlap"` // students with no pool interests
	RuntimeMS        int64 `json:"runtime_ms"`
}

// Run executes the full pipeline on loaded data. Configuration is
// validated before any computation starts.
func Run(students map[string]models.Student, entries []models.RosterEntry, cfg *config.Config, logger zerolog.Logger) (*Result, error) {
	startTime := time.Now()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	result := &Result{RunID: uuid.NewString()}
	logger = logger.With().Str("run_id", result.RunID).Logger()

	logger.Info().
		Int("students", len(students)).
		Int("roster", len(entries)).
		Msg("starting clustering run")

	// Stage 1: interest pool and co-occurrence graph
	pool := interestgraph.BuildPool(entries, students, cfg.ExcludedInterests())
	graph, err := interestgraph.Build(entries, students, pool)
	if err != nil {
		return nil, fmt.Errorf("building co-occurrence graph: %w", err)
	}
	result.Graph = graph
	result.Pool = pool

	logger.Info().
		Int("pool_size", len(pool)).
		Float64("total_weight", graph.Graph.TotalWeight).
		Msg("co-occurrence graph built")

	// Stage 2: community detection
	louvainCfg := louvain.Config{
		Resolution:     cfg.Resolution(),
		RandomSeed:     cfg.RandomSeed(),
		MaxLevels:      cfg.MaxLevels(),
		MaxIterations:  cfg.MaxIterations(),
		MinGain:        cfg.MinGain(),
		EnableProgress: cfg.EnableProgress(),
	}
	clustering, err := louvain.Run(graph.Graph, louvainCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("community detection: %w", err)
	}

	result.Partition = make(map[string]int, len(pool))
	for i, interest := range pool {
		result.Partition[interest] = clustering.Partition[i]
	}
	result.Modularity = clustering.Modularity

	// Stage 3: student assignment
	assigner := assign.NewAssigner(pool, clustering.Partition, clustering.NumClusters)
	result.Clusters = assigner.Clusters()

	for _, entry := range entries {
		student, ok := students[entry.Email]
		if !ok {
			result.SkippedMissing++
			logger.Warn().Str("email", entry.Email).Msg("roster entry has no student record")
			continue
		}

		assignment, ok := assigner.Assign(entry.Email, student, entry.Track)
		if !ok {
			result.SkippedNoOverlap++
			logger.Debug().Str("email", entry.Email).Msg("student has no pool interests")
			continue
		}
		result.Assignments = append(result.Assignments, assignment)
	}

	// Stage 4: summaries
	result.Summary = summary.Summarize(result.Assignments, students, result.Clusters, cfg.TopInterests())
	result.RuntimeMS = time.Since(startTime).Milliseconds()

	logger.Info().
		Int("clusters", len(result.Clusters)).
		Int("assigned", len(result.Assignments)).
		Int("skipped_missing", result.SkippedMissing).
		Int("skipped_no_overlap", result.SkippedNoOverlap).
		Float64("modularity", result.Modularity).
		Int64("runtime_ms", result.RuntimeMS).
		Msg("clustering run completed")

	return result, nil
}

// RunFiles loads the student data and roster files, then runs the
// pipeline.
func RunFiles(studentFile, rosterFile string, cfg *config.Config, logger zerolog.Logger) (*Result, error) {
	students, err := roster.LoadStudents(studentFile)
	if err != nil {
		return nil, err
	}
	entries, err := roster.LoadRoster(rosterFile)
	if err != nil {
		return nil, err
	}
	return Run(students, entries, cfg, logger)
}
