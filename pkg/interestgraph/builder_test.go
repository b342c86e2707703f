package interestgraph

import (
	"sort"
	"testing"

	"github.com/the-ehub/interest-clustering-service/pkg/models"
)

func fixtureRoster() ([]models.RosterEntry, map[string]models.Student) {
	roster := []models.RosterEntry{
		{Email: "i1@school.edu", Track: "alpha"},
		{Email: "i2@school.edu", Track: "alpha"},
		{Email: "i3@school.edu", Track: "beta"},
	}
	students := map[string]models.Student{
		"i1@school.edu": {FirstName: "Ina", Interests: []string{"A", "B"}},
		"i2@school.edu": {FirstName: "Ivo", Interests: []string{"A", "B", "C"}},
		"i3@school.edu": {FirstName: "Ida", Interests: []string{"C"}},
	}
	return roster, students
}

func TestBuildPool(t *testing.T) {
	roster, students := fixtureRoster()
	students["i2@school.edu"] = models.Student{Interests: []string{"A", "B", "C", "still figuring it out"}}

	pool := BuildPool(roster, students, []string{"still figuring it out"})

	want := []string{"A", "B", "C"}
	if len(pool) != len(want) {
		t.Fatalf("pool = %v, want %v", pool, want)
	}
	for i := range want {
		if pool[i] != want[i] {
			t.Errorf("pool[%d] = %q, want %q", i, pool[i], want[i])
		}
	}
	if !sort.StringsAreSorted(pool) {
		t.Errorf("pool not sorted: %v", pool)
	}
}

func TestBuildPoolSkipsMissingRecords(t *testing.T) {
	roster, students := fixtureRoster()
	roster = append(roster, models.RosterEntry{Email: "ghost@school.edu", Track: "alpha"})

	pool := BuildPool(roster, students, nil)
	if len(pool) != 3 {
		t.Errorf("missing records should not affect the pool: %v", pool)
	}
}

// Expected edges for the fixture: (A,B) weight 2, (A,C) weight 1,
// (B,C) weight 1. I3 has a single pool interest and contributes none.
func TestBuildEdgeWeights(t *testing.T) {
	roster, students := fixtureRoster()
	pool := BuildPool(roster, students, nil)

	g, err := Build(roster, students, pool)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	a, b, c := g.Index["A"], g.Index["B"], g.Index["C"]
	cases := []struct {
		u, v   int
		weight float64
	}{
		{a, b, 2}, {a, c, 1}, {b, c, 1},
	}
	for _, tc := range cases {
		if w := g.Graph.GetEdgeWeight(tc.u, tc.v); w != tc.weight {
			t.Errorf("weight(%d,%d) = %f, want %f", tc.u, tc.v, w, tc.weight)
		}
	}
	if w := g.Graph.GetEdgeWeight(a, a); w != 0 {
		t.Errorf("unexpected self-loop on A: %f", w)
	}
}

func TestMatrixSymmetryAndGraphConsistency(t *testing.T) {
	roster, students := fixtureRoster()
	pool := BuildPool(roster, students, nil)

	g, err := Build(roster, students, pool)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	n := len(pool)
	for i := 0; i < n; i++ {
		if g.Matrix.At(i, i) != 0 {
			t.Errorf("matrix diagonal not zero at %d", i)
		}
		for j := 0; j < n; j++ {
			if g.Matrix.At(i, j) != g.Matrix.At(j, i) {
				t.Errorf("matrix not symmetric at (%d,%d)", i, j)
			}
			if i != j && g.Matrix.At(i, j) != g.Graph.GetEdgeWeight(i, j) {
				t.Errorf("matrix and graph disagree at (%d,%d): %f vs %f",
					i, j, g.Matrix.At(i, j), g.Graph.GetEdgeWeight(i, j))
			}
		}
	}
}

// Total edge weight must equal the sum over students of C(k,2) where k
// is the student's pool interest count.
func TestWeightConservation(t *testing.T) {
	roster, students := fixtureRoster()
	pool := BuildPool(roster, students, nil)

	g, err := Build(roster, students, pool)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	expected := 0.0
	for _, entry := range roster {
		k := 0
		for _, interest := range students[entry.Email].Interests {
			if _, ok := g.Index[interest]; ok {
				k++
			}
		}
		expected += float64(k*(k-1)) / 2
	}
	if g.Graph.TotalWeight != expected {
		t.Errorf("total weight = %f, want %f", g.Graph.TotalWeight, expected)
	}
}

func TestIsolatedPoolInterestIsStillANode(t *testing.T) {
	roster := []models.RosterEntry{{Email: "solo@school.edu", Track: "alpha"}}
	students := map[string]models.Student{
		"solo@school.edu": {Interests: []string{"chess"}},
	}

	pool := BuildPool(roster, students, nil)
	g, err := Build(roster, students, pool)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if g.Graph.NumNodes != 1 {
		t.Errorf("expected 1 isolated node, got %d", g.Graph.NumNodes)
	}
	if g.Graph.TotalWeight != 0 {
		t.Errorf("expected no edges, got total weight %f", g.Graph.TotalWeight)
	}
}

func TestExcludedInterestNeverAppears(t *testing.T) {
	roster, students := fixtureRoster()
	students["i1@school.edu"] = models.Student{Interests: []string{"A", "B", "AI & machine learning"}}

	pool := BuildPool(roster, students, []string{"AI & machine learning"})
	g, err := Build(roster, students, pool)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	for _, interest := range pool {
		if interest == "AI & machine learning" {
			t.Error("excluded interest leaked into the pool")
		}
	}
	if _, ok := g.Index["AI & machine learning"]; ok {
		t.Error("excluded interest has a node index")
	}
}

func TestDuplicateInterestsCountOnce(t *testing.T) {
	roster := []models.RosterEntry{{Email: "dup@school.edu", Track: "alpha"}}
	students := map[string]models.Student{
		"dup@school.edu": {Interests: []string{"A", "B", "A"}},
	}

	pool := BuildPool(roster, students, nil)
	g, err := Build(roster, students, pool)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if w := g.Graph.GetEdgeWeight(g.Index["A"], g.Index["B"]); w != 1 {
		t.Errorf("duplicate interest double-counted: weight %f", w)
	}
}

func TestEmptyRoster(t *testing.T) {
	pool := BuildPool(nil, nil, nil)
	g, err := Build(nil, nil, pool)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if g.Graph.NumNodes != 0 || g.Matrix != nil {
		t.Errorf("expected empty artifacts, got %d nodes", g.Graph.NumNodes)
	}
}
