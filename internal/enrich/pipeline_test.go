package enrich

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"soundgraph/internal/fetch"
	"soundgraph/internal/graphstore"
	"soundgraph/internal/musicbrainz"
)

func TestPairsExtractsLabelledMovieComposerPairs(t *testing.T) {
	g, pair := baseGraph("Gladiator", "Hans Zimmer")
	v := graphstore.NewVocabulary("")
	unlabelled := graphstore.IRI("urn:composer:unlabelled")
	second := graphstore.IRI("urn:composer:lisa")
	_, _ = g.AddAll([]graphstore.Triple{
		{S: pair.Work, P: v.HasMovieComposer, O: unlabelled},
		{S: pair.Work, P: v.HasMovieComposer, O: second},
		{S: second, P: graphstore.RDFSLabel, O: graphstore.LangLiteral("Lisa Gerrard", "en")},
		{S: graphstore.IRI("urn:not-a-movie"), P: v.HasMovieComposer, O: pair.Composer},
	})

	pairs := Pairs(g, v)
	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %+v", pairs)
	}
	if pairs[0] != pair {
		t.Fatalf("unexpected first pair %+v", pairs[0])
	}
	if pairs[1].ComposerLabel != "Lisa Gerrard" {
		t.Fatalf("unexpected second pair %+v", pairs[1])
	}
}

func noSleep(context.Context, time.Duration) error { return nil }

// gladiatorCatalog serves the MusicBrainz endpoints for a single soundtrack.
func gladiatorCatalog(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/release-group/":
			if !strings.Contains(r.URL.Query().Get("query"), `release:"Gladiator"`) {
				t.Errorf("unexpected search %q", r.URL.Query().Get("query"))
			}
			_, _ = w.Write([]byte(`{"release-groups":[{"id":"rg-gladiator","score":100,"title":"Gladiator"}]}`))
		case r.URL.Path == "/release-group/rg-gladiator":
			_, _ = w.Write([]byte(`{"id":"rg-gladiator","title":"Gladiator","genres":[{"name":"Score"}],
				"releases":[{"id":"rel-gladiator","status":"Official","date":"2000-04-25"}]}`))
		case r.URL.Path == "/release/rel-gladiator":
			_, _ = w.Write([]byte(`{"id":"rel-gladiator","media":[{"track-count":2,"tracks":[
				{"id":"t1","title":"The Wheat","recording":{"id":"rec-wheat"},
				 "artist-credit":[{"name":"Lisa Gerrard","artist":{"id":"a-lisa","name":"Lisa Gerrard"}}]},
				{"id":"t2","title":"Progeny","recording":{"id":"rec-progeny"}}
			]}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestPipelineGladiatorEndToEnd(t *testing.T) {
	server := gladiatorCatalog(t)
	defer server.Close()

	fetcher := fetch.New(fetch.Config{UserAgent: "SoundgraphTest/1.0"}, fetch.WithSleeper(noSleep))
	catalog, err := musicbrainz.New(server.URL, fetcher)
	if err != nil {
		t.Fatalf("musicbrainz.New returned error: %v", err)
	}
	g, pair := baseGraph("Gladiator", "Hans Zimmer")
	v := graphstore.NewVocabulary("")

	summary, err := NewPipeline(g, v, catalog, Options{}, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Pairs != 1 || summary.Merged != 1 || summary.Skipped != 0 {
		t.Fatalf("unexpected summary %+v", summary)
	}

	soundtracks := g.Match(graphstore.Term{}, graphstore.RDFType, v.Soundtrack)
	if len(soundtracks) != 1 {
		t.Fatalf("expected 1 soundtrack, got %d", len(soundtracks))
	}
	soundtrack := soundtracks[0].S
	if !g.Has(pair.Work, v.HasSoundtrack, soundtrack) || !g.Has(soundtrack, v.HasSoundtrackComposer, pair.Composer) {
		t.Fatal("expected soundtrack linked to work and composer")
	}

	tracks := g.Match(soundtrack, v.HasTrack, graphstore.Term{})
	if len(tracks) != 2 || countTyped(g, v.Track) != 2 {
		t.Fatalf("expected 2 tracks, got %v", tracks)
	}
	artists := g.Match(graphstore.Term{}, graphstore.RDFType, v.Artist)
	if len(artists) != 1 {
		t.Fatalf("expected exactly 1 artist, got %v", artists)
	}
	lisa := artists[0].S
	if label, _ := g.FirstLabel(lisa); label != "Lisa Gerrard" {
		t.Fatalf("expected Lisa Gerrard, got %q", label)
	}
	performed := g.Match(graphstore.Term{}, v.PerformedBy, graphstore.Term{})
	if len(performed) != 1 || performed[0].S != v.TrackIRI("rec-wheat") || performed[0].O != lisa {
		t.Fatalf("expected only The Wheat performed by Lisa Gerrard, got %v", performed)
	}
	if label, _ := g.FirstLabel(v.TrackIRI("rec-progeny")); label != "Progeny" {
		t.Fatalf("expected Progeny track, got %q", label)
	}

	before := g.Len()
	again, err := NewPipeline(g, v, catalog, Options{}, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("second Run returned error: %v", err)
	}
	if g.Len() != before || again.TracksAdded != 0 {
		t.Fatalf("expected rerun to be a no-op: %d -> %d, %+v", before, g.Len(), again)
	}
}

func TestPipelineIsolatesFailingReleaseGroup(t *testing.T) {
	g, _ := baseGraph("Gladiator", "Hans Zimmer")
	v := graphstore.NewVocabulary("")
	catalog := newFakeCatalog()
	catalog.searches[SearchQuery("Gladiator", "Hans Zimmer")] = []musicbrainz.ReleaseGroupSummary{
		{ID: "rg-a", Score: 100, Title: "Gladiator"},
		{ID: "rg-broken", Score: 90, Title: "Gladiator (Special)"},
		{ID: "rg-c", Score: 80, Title: "Gladiator: More Music"},
	}
	catalog.groups["rg-a"] = &musicbrainz.ReleaseGroup{ID: "rg-a", Releases: []musicbrainz.ReleaseSummary{{ID: "rel-a", Status: "Official"}}}
	catalog.groupErrs["rg-broken"] = fetch.ErrRetriesExhausted
	catalog.groups["rg-c"] = &musicbrainz.ReleaseGroup{ID: "rg-c", Releases: []musicbrainz.ReleaseSummary{{ID: "rel-c", Status: "Official"}}}
	catalog.releases["rel-a"] = releaseWith("rel-a", track("rec-1", "The Wheat"), track("rec-2", "Progeny"))
	catalog.releases["rel-c"] = releaseWith("rel-c", track("rec-3", "Now We Are Free"))

	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	summary, err := NewPipeline(g, v, catalog, Options{Metrics: metrics}, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Merged != 2 || summary.Skipped != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if got := len(g.Match(v.SoundtrackIRI("rg-a"), v.HasTrack, graphstore.Term{})); got != 2 {
		t.Fatalf("expected rg-a to have 2 tracks, got %d", got)
	}
	if got := len(g.Match(v.SoundtrackIRI("rg-c"), v.HasTrack, graphstore.Term{})); got != 1 {
		t.Fatalf("expected rg-c to have 1 track, got %d", got)
	}
	if !g.IsA(v.SoundtrackIRI("rg-broken"), v.Soundtrack) {
		t.Fatal("expected the failing group's soundtrack node to remain")
	}
	if got := len(g.Match(v.SoundtrackIRI("rg-broken"), v.HasTrack, graphstore.Term{})); got != 0 {
		t.Fatalf("expected no tracks on failing group, got %d", got)
	}

	var skipped *Outcome
	for i := range summary.Outcomes {
		if summary.Outcomes[i].Kind == OutcomeSkipped {
			skipped = &summary.Outcomes[i]
		}
	}
	if skipped == nil || skipped.ReleaseGroupID != "rg-broken" || skipped.Stage != StageDetail {
		t.Fatalf("unexpected skipped outcome %+v", skipped)
	}
	if !errors.Is(skipped.Err, fetch.ErrRetriesExhausted) {
		t.Fatalf("expected skip to carry the fetch error, got %v", skipped.Err)
	}
	if got := testutil.ToFloat64(metrics.outcomes.WithLabelValues("merged", StageMerge)); got != 2 {
		t.Fatalf("expected 2 merged outcomes, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.tracks); got != 3 {
		t.Fatalf("expected 3 tracks counted, got %v", got)
	}
}

func TestPipelineSearchFailureAndNoMatch(t *testing.T) {
	g, _ := baseGraph("Gladiator", "Hans Zimmer")
	v := graphstore.NewVocabulary("")
	catalog := newFakeCatalog()

	summary, err := NewPipeline(g, v, catalog, Options{}, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.NoMatch != 1 || len(summary.Outcomes) != 1 || summary.Outcomes[0].Kind != OutcomeNoMatch {
		t.Fatalf("expected a no-match outcome, got %+v", summary)
	}

	catalog.searchErr = errUnavailable
	summary, err = NewPipeline(g, v, catalog, Options{}, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Skipped != 1 || summary.Outcomes[0].Stage != StageSearch {
		t.Fatalf("expected a search skip, got %+v", summary)
	}
	if summary.TriplesAfter != summary.TriplesBefore {
		t.Fatal("expected failed search to leave the graph untouched")
	}
}

func TestPipelineNoEvaluableReleaseKeepsGenres(t *testing.T) {
	g, _ := baseGraph("Gladiator", "Hans Zimmer")
	v := graphstore.NewVocabulary("")
	catalog := newFakeCatalog()
	catalog.searches[SearchQuery("Gladiator", "Hans Zimmer")] = []musicbrainz.ReleaseGroupSummary{{ID: "rg", Score: 100}}
	catalog.groups["rg"] = &musicbrainz.ReleaseGroup{
		ID:       "rg",
		Genres:   []musicbrainz.Genre{{Name: "Score"}},
		Releases: []musicbrainz.ReleaseSummary{{ID: "rel"}},
	}
	catalog.releaseErrs["rel"] = errUnavailable

	summary, err := NewPipeline(g, v, catalog, Options{}, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Skipped != 1 || summary.Outcomes[0].Stage != StageSelect || !errors.Is(summary.Outcomes[0].Err, ErrNoRelease) {
		t.Fatalf("expected a select skip, got %+v", summary.Outcomes)
	}
	if !g.Has(v.SoundtrackIRI("rg"), v.HasGenreMusic, v.GenreMusicIRI("Score")) {
		t.Fatal("expected genre merged before selection failed")
	}
}

func TestPipelineStopsOnCancellation(t *testing.T) {
	g, _ := baseGraph("Gladiator", "Hans Zimmer")
	v := graphstore.NewVocabulary("")
	catalog := newFakeCatalog()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPipeline(g, v, catalog, Options{}, nil).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(catalog.queries) != 0 {
		t.Fatalf("expected no catalog calls after cancellation, got %v", catalog.queries)
	}
}
