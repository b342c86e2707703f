// Package models contains the shared data types passed between the
// clustering pipeline stages.
package models

// Student is one record from the student data file. The map key in the
// data file is the student's normalized email address.
type Student struct {
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Interests []string `json:"interests"`
}

// RosterEntry is one row of the target-pool roster: a normalized email
// and the track the student belongs to.
type RosterEntry struct {
	Email string `json:"email"`
	Track string `json:"track"`
}

// Assignment records the cluster a student was matched to, along with
// the interests they share with that cluster.
type Assignment struct {
	Email            string   `json:"email"`
	FirstName        string   `json:"firstName"`
	LastName         string   `json:"lastName"`
	Track            string   `json:"track"`
	Cluster          int      `json:"cluster"`
	MatchedInterests []string `json:"matched_interests"`
}

// TrackCluster keys per-track, per-cluster aggregates.
type TrackCluster struct {
	Track   string `json:"track"`
	Cluster int    `json:"cluster"`
}
