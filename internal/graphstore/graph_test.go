package graphstore

import (
	"testing"
)

func TestGraphAddDeduplicates(t *testing.T) {
	g := New()
	v := NewVocabulary("")
	movie := IRI("http://www.wikidata.org/entity/Q128518")
	triple := Triple{S: movie, P: RDFType, O: v.Movie}

	added, err := g.Add(triple)
	if err != nil || !added {
		t.Fatalf("first Add = %v, %v", added, err)
	}
	added, err = g.Add(triple)
	if err != nil || added {
		t.Fatalf("second Add = %v, %v", added, err)
	}
	if g.Len() != 1 {
		t.Fatalf("expected 1 triple, got %d", g.Len())
	}
	if !g.Has(movie, RDFType, v.Movie) || !g.IsA(movie, v.Movie) {
		t.Fatal("expected triple to be present")
	}
}

func TestGraphRejectsInvalidTriples(t *testing.T) {
	g := New()
	if _, err := g.Add(Triple{S: Literal("x"), P: RDFSLabel, O: Literal("y")}); err == nil {
		t.Fatal("expected literal subject to be rejected")
	}
	if _, err := g.Add(Triple{S: IRI("urn:a"), P: Blank("b"), O: Literal("y")}); err == nil {
		t.Fatal("expected blank predicate to be rejected")
	}
	if _, err := g.Add(Triple{S: IRI("urn:a"), P: RDFSLabel}); err == nil {
		t.Fatal("expected missing object to be rejected")
	}
}

func TestGraphMatchAndLookups(t *testing.T) {
	g := New()
	v := NewVocabulary("")
	movie := IRI("urn:movie")
	composer := IRI("urn:composer")
	other := IRI("urn:other")
	triples := []Triple{
		{S: movie, P: RDFType, O: v.Movie},
		{S: movie, P: RDFSLabel, O: LangLiteral("Gladiator", "en")},
		{S: movie, P: RDFSLabel, O: Literal("Gladiator (film)")},
		{S: movie, P: v.HasMovieComposer, O: composer},
		{S: other, P: v.HasMovieComposer, O: composer},
		{S: composer, P: RDFSLabel, O: LangLiteral("Hans Zimmer", "EN")},
	}
	if n, err := g.AddAll(triples); err != nil || n != len(triples) {
		t.Fatalf("AddAll = %d, %v", n, err)
	}

	if got := g.Match(Term{}, v.HasMovieComposer, Term{}); len(got) != 2 {
		t.Fatalf("expected 2 composer links, got %v", got)
	}
	if got := g.Match(movie, Term{}, Term{}); len(got) != 4 {
		t.Fatalf("expected 4 movie triples, got %v", got)
	}
	if got := g.Subjects(v.HasMovieComposer, composer); len(got) != 2 || got[0] != movie || got[1] != other {
		t.Fatalf("unexpected subjects %v", got)
	}
	label, ok := g.FirstLabel(movie)
	if !ok || label != "Gladiator" {
		t.Fatalf("expected first label Gladiator, got %q %v", label, ok)
	}
	if _, ok := g.FirstLabel(other); ok {
		t.Fatal("expected no label for unlabelled node")
	}
	if !g.Has(composer, RDFSLabel, LangLiteral("Hans Zimmer", "en")) {
		t.Fatal("expected language tags to be case-insensitive")
	}
	all := g.Triples()
	all[0] = Triple{}
	if g.Triples()[0] != triples[0] {
		t.Fatal("Triples must return a copy")
	}
}

func TestGraphMerge(t *testing.T) {
	a := New()
	b := New()
	shared := Triple{S: IRI("urn:a"), P: RDFSLabel, O: Literal("a")}
	_, _ = a.Add(shared)
	_, _ = b.Add(shared)
	_, _ = b.Add(Triple{S: IRI("urn:b"), P: RDFSLabel, O: Literal("b")})

	added, err := a.Merge(b)
	if err != nil {
		t.Fatalf("Merge returned error: %v", err)
	}
	if added != 1 || a.Len() != 2 {
		t.Fatalf("expected 1 new triple and 2 total, got %d and %d", added, a.Len())
	}
}

func TestVocabularyDerivedIRIs(t *testing.T) {
	v := NewVocabulary("")
	if got := v.SoundtrackIRI("rg-1").Value; got != DefaultNamespace+"soundtrack_rg-1" {
		t.Fatalf("unexpected soundtrack iri %q", got)
	}
	if got := v.TrackIRI("rec-1").Value; got != DefaultNamespace+"track_rec-1" {
		t.Fatalf("unexpected track iri %q", got)
	}
	if got := v.ArtistIRI("a1").Value; got != DefaultNamespace+"artist_a1" {
		t.Fatalf("unexpected artist iri %q", got)
	}
	tests := map[string]string{
		"Score":                "Score",
		"film score":           "film_score",
		"  modern  classical ": "modern_classical",
		"rock/pop":             "rock%2Fpop",
		"r&b":                  "r%26b",
		"música":               "música",
	}
	for label, want := range tests {
		if got := NormalizeGenre(label); got != want {
			t.Errorf("NormalizeGenre(%q) = %q, want %q", label, got, want)
		}
	}
	if v.GenreMusicIRI("film score") != v.GenreMusicIRI("film  score") {
		t.Fatal("expected whitespace runs to normalize to the same genre node")
	}
}
