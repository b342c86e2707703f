// Package export writes the clustering artifacts for downstream
// consumption: the assignment CSV, the co-occurrence matrix CSV, and
// the console summary report.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/the-ehub/interest-clustering-service/pkg/models"
	"github.com/the-ehub/interest-clustering-service/pkg/summary"
)

// WriteAssignments writes one CSV row per assigned student.
func WriteAssignments(w io.Writer, assignments []models.Assignment) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"email", "firstName", "lastName", "track", "cluster", "matched_interests"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, a := range assignments {
		record := []string{
			a.Email,
			a.FirstName,
			a.LastName,
			a.Track,
			strconv.Itoa(a.Cluster),
			strings.Join(a.MatchedInterests, "; "),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("writing assignment for %s: %w", a.Email, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteAssignmentsFile writes the assignment CSV to a file.
func WriteAssignmentsFile(path string, assignments []models.Assignment) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	return WriteAssignments(f, assignments)
}

// WriteMatrix writes the co-occurrence matrix as CSV with interest
// labels on the first row and column.
func WriteMatrix(w io.Writer, pool []string, matrix *mat.SymDense) error {
	writer := csv.NewWriter(w)

	header := append([]string{""}, pool...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, interest := range pool {
		record := make([]string, 0, len(pool)+1)
		record = append(record, interest)
		for j := range pool {
			record = append(record, strconv.FormatFloat(matrix.At(i, j), 'f', -1, 64))
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("writing matrix row %s: %w", interest, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteMatrixFile writes the co-occurrence matrix CSV to a file.
func WriteMatrixFile(path string, pool []string, matrix *mat.SymDense) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	return WriteMatrix(f, pool, matrix)
}

// PrintSummary renders the cluster report: students per track and
// cluster, top interests per cluster, and the email list per track and
// cluster for calendar invites.
func PrintSummary(w io.Writer, s *summary.Summary, clusters [][]string) {
	fmt.Fprintln(w, "Cluster Summary (students per track and cluster):")
	for _, key := range s.Keys() {
		fmt.Fprintf(w, "  %-20s cluster %d: %d\n", key.Track, key.Cluster, s.Counts[key])
	}

	fmt.Fprintln(w, "\nTop Interests in Each Cluster:")
	for c := range clusters {
		fmt.Fprintf(w, "\nCluster %d (%d interests):\n", c, len(clusters[c]))
		for _, ic := range s.TopInterests[c] {
			fmt.Fprintf(w, "  %s (%d)\n", ic.Interest, ic.Count)
		}
	}

	fmt.Fprintln(w, "\nEmail lists for calendar invites:")
	for _, key := range s.Keys() {
		fmt.Fprintf(w, "Track: %s | Cluster: %d\nEmails: %s\n\n", key.Track, key.Cluster, s.EmailLists[key])
	}
}
