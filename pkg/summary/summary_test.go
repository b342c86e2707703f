package summary

import (
	"testing"

	"github.com/the-ehub/interest-clustering-service/pkg/models"
)

func fixture() ([]models.Assignment, map[string]models.Student, [][]string) {
	assignments := []models.Assignment{
		{Email: "a@school.edu", Track: "alpha", Cluster: 0},
		{Email: "b@school.edu", Track: "alpha", Cluster: 0},
		{Email: "c@school.edu", Track: "alpha", Cluster: 1},
		{Email: "d@school.edu", Track: "beta", Cluster: 0},
	}
	students := map[string]models.Student{
		"a@school.edu": {Interests: []string{"art", "music", "skydiving"}},
		"b@school.edu": {Interests: []string{"music"}},
		"c@school.edu": {Interests: []string{"chess"}},
		"d@school.edu": {Interests: []string{"art"}},
	}
	clusters := [][]string{
		{"art", "music"},
		{"chess", "go"},
	}
	return assignments, students, clusters
}

func TestCounts(t *testing.T) {
	assignments, students, clusters := fixture()
	s := Summarize(assignments, students, clusters, 5)

	cases := []struct {
		key   models.TrackCluster
		count int
	}{
		{models.TrackCluster{Track: "alpha", Cluster: 0}, 2},
		{models.TrackCluster{Track: "alpha", Cluster: 1}, 1},
		{models.TrackCluster{Track: "beta", Cluster: 0}, 1},
	}
	for _, tc := range cases {
		if got := s.Counts[tc.key]; got != tc.count {
			t.Errorf("count[%v] = %d, want %d", tc.key, got, tc.count)
		}
	}
	if len(s.Counts) != 3 {
		t.Errorf("unexpected extra keys: %v", s.Counts)
	}
}

func TestTopInterests(t *testing.T) {
	assignments, students, clusters := fixture()
	s := Summarize(assignments, students, clusters, 5)

	// Cluster 0: art twice (a, d), music twice (a, b). Counting is
	// restricted to cluster members' raw interests inside the cluster's
	// own interest set, so "skydiving" never appears. On the tie, art
	// was encountered first.
	top := s.TopInterests[0]
	if len(top) != 2 {
		t.Fatalf("expected 2 top interests, got %v", top)
	}
	if top[0].Interest != "art" || top[0].Count != 2 {
		t.Errorf("top[0] = %+v", top[0])
	}
	if top[1].Interest != "music" || top[1].Count != 2 {
		t.Errorf("top[1] = %+v", top[1])
	}
}

func TestTopInterestsTieBreaksByFirstEncounter(t *testing.T) {
	assignments := []models.Assignment{
		{Email: "x@school.edu", Track: "alpha", Cluster: 0},
	}
	students := map[string]models.Student{
		"x@school.edu": {Interests: []string{"music", "art"}},
	}
	clusters := [][]string{{"art", "music"}}

	s := Summarize(assignments, students, clusters, 5)
	top := s.TopInterests[0]
	if len(top) != 2 {
		t.Fatalf("expected 2 interests, got %v", top)
	}
	if top[0].Interest != "music" {
		t.Errorf("tie should keep first-encounter order, got %v", top)
	}
}

func TestTopInterestsLimit(t *testing.T) {
	assignments, students, clusters := fixture()
	s := Summarize(assignments, students, clusters, 1)

	if len(s.TopInterests[0]) != 1 {
		t.Errorf("expected top-1, got %v", s.TopInterests[0])
	}
}

func TestEmailListsKeepInputOrder(t *testing.T) {
	assignments, students, clusters := fixture()
	s := Summarize(assignments, students, clusters, 5)

	key := models.TrackCluster{Track: "alpha", Cluster: 0}
	if got := s.EmailLists[key]; got != "a@school.edu, b@school.edu" {
		t.Errorf("email list = %q", got)
	}
}

func TestKeysSorted(t *testing.T) {
	assignments, students, clusters := fixture()
	s := Summarize(assignments, students, clusters, 5)

	keys := s.Keys()
	want := []models.TrackCluster{
		{Track: "alpha", Cluster: 0},
		{Track: "alpha", Cluster: 1},
		{Track: "beta", Cluster: 0},
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %v, want %v", i, keys[i], want[i])
		}
	}
}
