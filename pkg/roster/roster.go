// Package roster loads the student data file and the target-pool
// roster consumed by the clustering pipeline.
package roster

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/the-ehub/interest-clustering-service/pkg/models"
)

// NormalizeEmail trims and lowercases an email so roster and student
// data keys line up.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// LoadStudents reads the JSON student data file: a map from email to
// student record. Keys are normalized.
func LoadStudents(path string) (map[string]models.Student, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading student data: %w", err)
	}

	raw := make(map[string]models.Student)
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing student data %s: %w", path, err)
	}

	students := make(map[string]models.Student, len(raw))
	for email, student := range raw {
		students[NormalizeEmail(email)] = student
	}
	return students, nil
}

// LoadRoster reads the target-pool CSV. The header row must contain
// "Email" and "Track" columns (any order, case-insensitive). Rows keep
// their file order and emails are normalized.
func LoadRoster(path string) ([]models.RosterEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening roster: %w", err)
	}
	defer f.Close()

	entries, err := ParseRoster(f)
	if err != nil {
		return nil, fmt.Errorf("parsing roster %s: %w", path, err)
	}
	return entries, nil
}

// ParseRoster parses roster CSV content from a reader.
func ParseRoster(r io.Reader) ([]models.RosterEntry, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	emailCol, trackCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "email":
			emailCol = i
		case "track":
			trackCol = i
		}
	}
	if emailCol < 0 {
		return nil, fmt.Errorf("missing Email column in header %v", header)
	}
	if trackCol < 0 {
		return nil, fmt.Errorf("missing Track column in header %v", header)
	}

	var entries []models.RosterEntry
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading roster row: %w", err)
		}

		email := NormalizeEmail(record[emailCol])
		if email == "" {
			continue
		}
		entries = append(entries, models.RosterEntry{
			Email: email,
			Track: strings.TrimSpace(record[trackCol]),
		})
	}

	return entries, nil
}
