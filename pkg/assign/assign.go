// Package assign maps each student to the cluster whose interests best
// overlap their own.
package assign

import (
	"sort"

	"github.com/the-ehub/interest-clustering-service/pkg/models"
)

// ClusterInterestSets groups the pool interests by cluster id. The
// returned slice is indexed by cluster id; partition[i] is the cluster
// of pool[i] and ids are contiguous from 0.
func ClusterInterestSets(pool []string, partition []int, numClusters int) [][]string {
	sets := make([][]string, numClusters)
	for i, cluster := range partition {
		sets[cluster] = append(sets[cluster], pool[i])
	}
	return sets
}

// Assigner selects the strongest matching cluster for a student.
type Assigner struct {
	index    map[string]int
	clusters [][]string        // cluster id -> interests, as from ClusterInterestSets
	member   []map[string]bool // cluster id -> interest membership
}

// NewAssigner builds an assigner over the pool and its cluster
// partition.
func NewAssigner(pool []string, partition []int, numClusters int) *Assigner {
	index := make(map[string]int, len(pool))
	for i, interest := range pool {
		index[interest] = i
	}

	clusters := ClusterInterestSets(pool, partition, numClusters)
	member := make([]map[string]bool, numClusters)
	for c, interests := range clusters {
		member[c] = make(map[string]bool, len(interests))
		for _, interest := range interests {
			member[c][interest] = true
		}
	}

	return &Assigner{index: index, clusters: clusters, member: member}
}

// Clusters returns the interests of each cluster, indexed by cluster id.
func (a *Assigner) Clusters() [][]string {
	return a.clusters
}

// Assign picks the cluster with the largest overlap with the student's
// pool-restricted interests. Cluster ids are scanned ascending and a
// strictly larger overlap is required to displace the current best, so
// ties go to the lowest id. The second return is false when the student
// has no pool interests at all; such students are excluded from output
// rather than assigned a default cluster.
func (a *Assigner) Assign(email string, student models.Student, track string) (models.Assignment, bool) {
	interests := a.studentPoolInterests(student)
	if len(interests) == 0 {
		return models.Assignment{}, false
	}

	bestCluster := -1
	bestOverlap := -1
	for c := range a.member {
		overlap := 0
		for _, interest := range interests {
			if a.member[c][interest] {
				overlap++
			}
		}
		if overlap > bestOverlap {
			bestCluster = c
			bestOverlap = overlap
		}
	}

	matched := make([]string, 0, bestOverlap)
	for _, interest := range interests {
		if a.member[bestCluster][interest] {
			matched = append(matched, interest)
		}
	}

	return models.Assignment{
		Email:            email,
		FirstName:        student.FirstName,
		LastName:         student.LastName,
		Track:            track,
		Cluster:          bestCluster,
		MatchedInterests: matched,
	}, true
}

// studentPoolInterests returns the student's pool interests, sorted and
// deduplicated.
func (a *Assigner) studentPoolInterests(student models.Student) []string {
	seen := make(map[string]bool)
	interests := make([]string, 0, len(student.Interests))
	for _, interest := range student.Interests {
		if _, ok := a.index[interest]; ok && !seen[interest] {
			seen[interest] = true
			interests = append(interests, interest)
		}
	}
	sort.Strings(interests)
	return interests
}
