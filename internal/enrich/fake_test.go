package enrich

import (
	"context"
	"errors"
	"fmt"

	"soundgraph/internal/graphstore"
	"soundgraph/internal/musicbrainz"
)

var errUnavailable = errors.New("service unavailable")

type fakeCatalog struct {
	searches     map[string][]musicbrainz.ReleaseGroupSummary
	searchErr    error
	groups       map[string]*musicbrainz.ReleaseGroup
	groupErrs    map[string]error
	releases     map[string]*musicbrainz.Release
	releaseErrs  map[string]error
	queries      []string
	releaseCalls []string
	groupCalls   []string
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		searches:    map[string][]musicbrainz.ReleaseGroupSummary{},
		groups:      map[string]*musicbrainz.ReleaseGroup{},
		groupErrs:   map[string]error{},
		releases:    map[string]*musicbrainz.Release{},
		releaseErrs: map[string]error{},
	}
}

func (f *fakeCatalog) SearchReleaseGroups(_ context.Context, query string, _ int) ([]musicbrainz.ReleaseGroupSummary, error) {
	f.queries = append(f.queries, query)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.searches[query], nil
}

func (f *fakeCatalog) ReleaseGroup(_ context.Context, id string) (*musicbrainz.ReleaseGroup, error) {
	f.groupCalls = append(f.groupCalls, id)
	if err := f.groupErrs[id]; err != nil {
		return nil, err
	}
	group, ok := f.groups[id]
	if !ok {
		return nil, fmt.Errorf("release group %s: %w", id, errUnavailable)
	}
	return group, nil
}

func (f *fakeCatalog) Release(_ context.Context, id string) (*musicbrainz.Release, error) {
	f.releaseCalls = append(f.releaseCalls, id)
	if err := f.releaseErrs[id]; err != nil {
		return nil, err
	}
	release, ok := f.releases[id]
	if !ok {
		return nil, fmt.Errorf("release %s: %w", id, errUnavailable)
	}
	copied := *release
	return &copied, nil
}

func intPtr(v int) *int { return &v }

func track(id, title string, artists ...musicbrainz.Artist) musicbrainz.Track {
	t := musicbrainz.Track{ID: "t-" + id, Title: title, Recording: &musicbrainz.Recording{ID: id, Title: title}}
	for i := range artists {
		artist := artists[i]
		t.ArtistCredit = append(t.ArtistCredit, musicbrainz.ArtistCredit{Name: artist.Name, Artist: &artist})
	}
	return t
}

func releaseWith(id string, tracks ...musicbrainz.Track) *musicbrainz.Release {
	return &musicbrainz.Release{
		ID:    id,
		Media: []musicbrainz.Medium{{Position: 1, TrackCount: intPtr(len(tracks)), Tracks: tracks}},
	}
}

// baseGraph returns a graph holding one film and its composer.
func baseGraph(workLabel, composerLabel string) (*graphstore.Graph, Pair) {
	v := graphstore.NewVocabulary("")
	g := graphstore.New()
	work := graphstore.IRI("http://www.wikidata.org/entity/Q128518")
	composer := graphstore.IRI("http://www.wikidata.org/entity/Q76364")
	_, _ = g.AddAll([]graphstore.Triple{
		{S: work, P: graphstore.RDFType, O: v.Movie},
		{S: work, P: graphstore.RDFSLabel, O: graphstore.LangLiteral(workLabel, "en")},
		{S: work, P: v.ReleaseYear, O: graphstore.TypedLiteral("2000", graphstore.XSDInteger)},
		{S: work, P: v.HasMovieComposer, O: composer},
		{S: composer, P: graphstore.RDFType, O: v.Composer},
		{S: composer, P: graphstore.RDFSLabel, O: graphstore.LangLiteral(composerLabel, "en")},
	})
	return g, Pair{Work: work, WorkLabel: workLabel, Composer: composer, ComposerLabel: composerLabel}
}

func countTyped(g *graphstore.Graph, class graphstore.Term) int {
	return len(g.Match(graphstore.Term{}, graphstore.RDFType, class))
}
