package graphstore

import (
	"fmt"
	"strings"
	"unicode"
)

// Standard namespaces.
const (
	RDFNamespace  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNamespace = "http://www.w3.org/2000/01/rdf-schema#"
	XSDNamespace  = "http://www.w3.org/2001/XMLSchema#"
	XSDString     = XSDNamespace + "string"
	XSDInteger    = XSDNamespace + "integer"

	// DefaultNamespace is the film soundtrack vocabulary namespace.
	DefaultNamespace = "http://www.semanticweb.org/film_soundtrack_2000s#"
)

var (
	RDFType   = IRI(RDFNamespace + "type")
	RDFSLabel = IRI(RDFSNamespace + "label")
)

// Vocabulary holds the classes and properties of the film soundtrack
// ontology under one namespace, plus the rules for deriving node IRIs.
type Vocabulary struct {
	Namespace string

	Movie      Term
	Soundtrack Term
	Track      Term
	Composer   Term
	Artist     Term
	GenreFilm  Term
	GenreMusic Term

	HasSoundtrack         Term
	HasMovieComposer      Term
	HasSoundtrackComposer Term
	HasGenreFilm          Term
	HasGenreMusic         Term
	HasTrack              Term
	PerformedBy           Term
	ReleaseYear           Term
	Music                 Term
}

// NewVocabulary builds the vocabulary rooted at namespace. An empty namespace
// selects DefaultNamespace.
func NewVocabulary(namespace string) Vocabulary {
	namespace = strings.TrimSpace(namespace)
	if namespace == "" {
		namespace = DefaultNamespace
	}
	term := func(local string) Term { return IRI(namespace + local) }
	return Vocabulary{
		Namespace: namespace,

		Movie:      term("Movie"),
		Soundtrack: term("Soundtrack"),
		Track:      term("Track"),
		Composer:   term("Composer"),
		Artist:     term("Artist"),
		GenreFilm:  term("Genre_Film"),
		GenreMusic: term("Genre_Music"),

		HasSoundtrack:         term("hasSoundtrack"),
		HasMovieComposer:      term("hasMovieComposer"),
		HasSoundtrackComposer: term("hasSoundtrackComposer"),
		HasGenreFilm:          term("hasGenreFilm"),
		HasGenreMusic:         term("hasGenreMusic"),
		HasTrack:              term("hasTrack"),
		PerformedBy:           term("performedBy"),
		ReleaseYear:           term("releaseYear"),
		Music:                 term("music"),
	}
}

// SoundtrackIRI derives the soundtrack node for a release group.
func (v Vocabulary) SoundtrackIRI(releaseGroupID string) Term {
	return IRI(v.Namespace + "soundtrack_" + escapeLocal(releaseGroupID))
}

// TrackIRI derives the track node for a recording.
func (v Vocabulary) TrackIRI(recordingID string) Term {
	return IRI(v.Namespace + "track_" + escapeLocal(recordingID))
}

// ArtistIRI derives the artist node for a catalog artist.
func (v Vocabulary) ArtistIRI(artistID string) Term {
	return IRI(v.Namespace + "artist_" + escapeLocal(artistID))
}

// GenreMusicIRI derives the music genre node from its label.
func (v Vocabulary) GenreMusicIRI(label string) Term {
	return IRI(v.Namespace + "genre_music_" + NormalizeGenre(label))
}

// NormalizeGenre turns a genre label into an IRI local name: runs of
// whitespace become a single underscore and characters that are not allowed
// unescaped in an IRI are percent-encoded.
func NormalizeGenre(label string) string {
	fields := strings.FieldsFunc(strings.TrimSpace(label), unicode.IsSpace)
	return escapeLocal(strings.Join(fields, "_"))
}

func escapeLocal(value string) string {
	var b strings.Builder
	for _, r := range value {
		if iriSafe(r) {
			b.WriteRune(r)
			continue
		}
		for _, c := range []byte(string(r)) {
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

func iriSafe(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r > 0x7f:
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	}
	switch r {
	case '-', '_', '.', '~':
		return true
	}
	return false
}
