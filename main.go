package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/the-ehub/interest-clustering-service/pkg/config"
	"github.com/the-ehub/interest-clustering-service/pkg/export"
	"github.com/the-ehub/interest-clustering-service/pkg/pipeline"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Println("Interest Community Clustering")
		fmt.Println("=============================")
		fmt.Println()
		fmt.Println("Usage: interest-clustering <student_data.json> <roster.csv> [output_dir] [config_file]")
		fmt.Println()
		fmt.Println("Outputs (in output_dir, default .):")
		fmt.Println("  student_interest_clusters.csv - one row per assigned student")
		fmt.Println("  interest_cooccurrence.csv     - interest co-occurrence matrix")
		fmt.Println()
		fmt.Println("Example:")
		fmt.Println("  interest-clustering data/student_data.json data/micro-community-pool.csv out/")
		os.Exit(1)
	}

	studentFile := os.Args[1]
	rosterFile := os.Args[2]
	outputDir := "."
	if len(os.Args) > 3 {
		outputDir = os.Args[3]
	}

	cfg := config.New()
	if len(os.Args) > 4 {
		if err := cfg.LoadFromFile(os.Args[4]); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	logger := cfg.CreateLogger()

	result, err := pipeline.RunFiles(studentFile, rosterFile, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	assignmentsFile := filepath.Join(outputDir, "student_interest_clusters.csv")
	if err := export.WriteAssignmentsFile(assignmentsFile, result.Assignments); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing assignments: %v\n", err)
		os.Exit(1)
	}

	if len(result.Pool) > 0 {
		matrixFile := filepath.Join(outputDir, "interest_cooccurrence.csv")
		if err := export.WriteMatrixFile(matrixFile, result.Pool, result.Graph.Matrix); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing matrix: %v\n", err)
			os.Exit(1)
		}
	}

	export.PrintSummary(os.Stdout, result.Summary, result.Clusters)
	fmt.Printf("Saved %d assignments to %s\n", len(result.Assignments), assignmentsFile)
}
