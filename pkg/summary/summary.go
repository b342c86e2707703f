// Package summary derives per-track and per-cluster aggregates from the
// assignment records.
package summary

import (
	"sort"
	"strings"

	"github.com/the-ehub/interest-clustering-service/pkg/models"
)

// InterestCount pairs an interest with the number of assigned students
// who selected it.
type InterestCount struct {
	Interest string `json:"interest"`
	Count    int    `json:"count"`
}

// Summary holds all derived aggregates. Counts and EmailLists are keyed
// by (track, cluster); TopInterests is indexed by cluster id.
type Summary struct {
	Counts       map[models.TrackCluster]int    `json:"counts"`
	EmailLists   map[models.TrackCluster]string `json:"email_lists"`
	TopInterests [][]InterestCount              `json:"top_interests"`
}

// Summarize computes counts per (track, cluster), the top-N interests
// of each cluster, and the joined email list per (track, cluster).
// Emails are joined in assignment input order. Top interests count each
// assigned student's raw interests restricted to the cluster's own
// interests; ties rank by first encounter.
func Summarize(assignments []models.Assignment, students map[string]models.Student, clusters [][]string, topN int) *Summary {
	s := &Summary{
		Counts:       make(map[models.TrackCluster]int),
		EmailLists:   make(map[models.TrackCluster]string),
		TopInterests: make([][]InterestCount, len(clusters)),
	}

	emails := make(map[models.TrackCluster][]string)
	for _, a := range assignments {
		key := models.TrackCluster{Track: a.Track, Cluster: a.Cluster}
		s.Counts[key]++
		emails[key] = append(emails[key], a.Email)
	}
	for key, list := range emails {
		s.EmailLists[key] = strings.Join(list, ", ")
	}

	for c := range clusters {
		s.TopInterests[c] = topInterests(assignments, students, clusters[c], c, topN)
	}

	return s
}

// Keys returns the (track, cluster) keys present in the summary, sorted
// by track then cluster for stable display.
func (s *Summary) Keys() []models.TrackCluster {
	keys := make([]models.TrackCluster, 0, len(s.Counts))
	for key := range s.Counts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Track != keys[j].Track {
			return keys[i].Track < keys[j].Track
		}
		return keys[i].Cluster < keys[j].Cluster
	})
	return keys
}

func topInterests(assignments []models.Assignment, students map[string]models.Student, clusterInterests []string, cluster, topN int) []InterestCount {
	member := make(map[string]bool, len(clusterInterests))
	for _, interest := range clusterInterests {
		member[interest] = true
	}

	counts := make(map[string]int)
	var order []string // first-encounter order breaks count ties

	for _, a := range assignments {
		if a.Cluster != cluster {
			continue
		}
		student, ok := students[a.Email]
		if !ok {
			continue
		}
		for _, interest := range student.Interests {
			if !member[interest] {
				continue
			}
			if counts[interest] == 0 {
				order = append(order, interest)
			}
			counts[interest]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if topN < len(order) {
		order = order[:topN]
	}

	top := make([]InterestCount, 0, len(order))
	for _, interest := range order {
		top = append(top, InterestCount{Interest: interest, Count: counts[interest]})
	}
	return top
}
