package enrich

import (
	"soundgraph/internal/graphstore"
)

// OutcomeKind says what happened to one pair or release group.
type OutcomeKind string

const (
	// OutcomeMerged means a release group was matched and its tracks merged.
	OutcomeMerged OutcomeKind = "merged"
	// OutcomeNoMatch means the catalog search returned no candidates.
	OutcomeNoMatch OutcomeKind = "no_match"
	// OutcomeSkipped means a lookup failed and the item was abandoned.
	OutcomeSkipped OutcomeKind = "skipped"
)

// Stage names the step an outcome was decided in.
const (
	StageSearch = "search"
	StageMerge  = "merge"
	StageDetail = "detail"
	StageSelect = "select"
)

// Outcome is the result for a pair (search level) or a release group.
type Outcome struct {
	Kind           OutcomeKind
	Stage          string
	Pair           Pair
	ReleaseGroupID string
	ReleaseID      string
	Soundtrack     graphstore.Term
	Genres         int
	Tracks         TrackStats
	Err            error
}

// Summary aggregates a pipeline run.
type Summary struct {
	Pairs         int
	Merged        int
	NoMatch       int
	Skipped       int
	TracksAdded   int
	TriplesBefore int
	TriplesAfter  int
	Outcomes      []Outcome
}

func (s *Summary) record(outcome Outcome) {
	s.Outcomes = append(s.Outcomes, outcome)
	switch outcome.Kind {
	case OutcomeMerged:
		s.Merged++
		s.TracksAdded += outcome.Tracks.Added
	case OutcomeNoMatch:
		s.NoMatch++
	case OutcomeSkipped:
		s.Skipped++
	}
}
