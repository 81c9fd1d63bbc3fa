package enrich

import (
	"fmt"
	"strings"

	"soundgraph/internal/graphstore"
	"soundgraph/internal/musicbrainz"
	"soundgraph/internal/services"
)

const (
	unknownLabel     = "Unknown"
	soundtrackSuffix = " Soundtrack"
)

// Merger writes catalog records into the graph. It only ever adds triples.
type Merger struct {
	store Store
	vocab graphstore.Vocabulary
}

// NewMerger creates a Merger over store.
func NewMerger(store Store, vocab graphstore.Vocabulary) *Merger {
	return &Merger{store: store, vocab: vocab}
}

// TrackStats counts what AddTracks did.
type TrackStats struct {
	Added      int
	Existing   int
	Missing    int
	Performers int
}

// AddSoundtrack creates the soundtrack node for a matched release group and
// links it to the film and the composer.
func (m *Merger) AddSoundtrack(pair Pair, group musicbrainz.ReleaseGroupSummary) (graphstore.Term, error) {
	if strings.TrimSpace(group.ID) == "" {
		return graphstore.Term{}, services.Wrap(services.ErrValidation, "merge", "soundtrack", "release group without id", nil)
	}
	soundtrack := m.vocab.SoundtrackIRI(group.ID)
	title := strings.TrimSpace(group.Title)
	if title == "" {
		title = pair.WorkLabel + soundtrackSuffix
	}
	err := m.add(
		graphstore.Triple{S: soundtrack, P: graphstore.RDFType, O: m.vocab.Soundtrack},
		graphstore.Triple{S: soundtrack, P: graphstore.RDFSLabel, O: graphstore.LangLiteral(title, "en")},
		graphstore.Triple{S: pair.Work, P: m.vocab.HasSoundtrack, O: soundtrack},
		graphstore.Triple{S: pair.Work, P: m.vocab.HasMovieComposer, O: pair.Composer},
		graphstore.Triple{S: soundtrack, P: m.vocab.HasSoundtrackComposer, O: pair.Composer},
	)
	if err != nil {
		return graphstore.Term{}, err
	}
	return soundtrack, nil
}

// AddMusicGenres links soundtrack to a Genre_Music node per genre, creating
// nodes the first time a normalized label is seen. It returns the number of
// new genre links.
func (m *Merger) AddMusicGenres(soundtrack graphstore.Term, genres []musicbrainz.Genre) (int, error) {
	linked := 0
	for _, genre := range genres {
		name := strings.TrimSpace(genre.Name)
		if name == "" {
			continue
		}
		node := m.vocab.GenreMusicIRI(name)
		if !m.store.Has(node, graphstore.RDFType, m.vocab.GenreMusic) {
			err := m.add(
				graphstore.Triple{S: node, P: graphstore.RDFType, O: m.vocab.GenreMusic},
				graphstore.Triple{S: node, P: graphstore.RDFSLabel, O: graphstore.Literal(name)},
			)
			if err != nil {
				return linked, err
			}
		}
		added, err := m.store.Add(graphstore.Triple{S: soundtrack, P: m.vocab.HasGenreMusic, O: node})
		if err != nil {
			return linked, services.Wrap(services.ErrValidation, "merge", "genre", name, err)
		}
		if added {
			linked++
		}
	}
	return linked, nil
}

// AddTracks adds the tracks of release to soundtrack in media order. A track
// whose link to the soundtrack already exists is skipped entirely, which keeps
// repeated runs and tracks listed on several media from duplicating anything.
func (m *Merger) AddTracks(soundtrack graphstore.Term, release *musicbrainz.Release) (TrackStats, error) {
	var stats TrackStats
	if release == nil {
		return stats, nil
	}
	for _, medium := range release.Media {
		for _, track := range medium.Tracks {
			id := strings.TrimSpace(track.RecordingID())
			if id == "" {
				stats.Missing++
				continue
			}
			node := m.vocab.TrackIRI(id)
			if m.store.Has(soundtrack, m.vocab.HasTrack, node) {
				stats.Existing++
				continue
			}
			if err := m.addTrack(soundtrack, node, track); err != nil {
				return stats, err
			}
			stats.Added++

			performers, err := m.addPerformers(node, track.ArtistCredit)
			if err != nil {
				return stats, err
			}
			stats.Performers += performers
		}
	}
	return stats, nil
}

func (m *Merger) addTrack(soundtrack, node graphstore.Term, track musicbrainz.Track) error {
	if !m.store.Has(node, graphstore.RDFType, m.vocab.Track) {
		title := strings.TrimSpace(track.Title)
		if title == "" && track.Recording != nil {
			title = strings.TrimSpace(track.Recording.Title)
		}
		if title == "" {
			title = unknownLabel
		}
		err := m.add(
			graphstore.Triple{S: node, P: graphstore.RDFType, O: m.vocab.Track},
			graphstore.Triple{S: node, P: graphstore.RDFSLabel, O: graphstore.Literal(title)},
		)
		if err != nil {
			return err
		}
	}
	return m.add(graphstore.Triple{S: soundtrack, P: m.vocab.HasTrack, O: node})
}

func (m *Merger) addPerformers(track graphstore.Term, credits []musicbrainz.ArtistCredit) (int, error) {
	linked := 0
	for _, credit := range credits {
		if credit.Artist == nil || strings.TrimSpace(credit.Artist.ID) == "" {
			continue
		}
		artist := m.vocab.ArtistIRI(strings.TrimSpace(credit.Artist.ID))
		if !m.store.Has(artist, graphstore.RDFType, m.vocab.Artist) {
			name := strings.TrimSpace(credit.Artist.Name)
			if name == "" {
				name = strings.TrimSpace(credit.Name)
			}
			if name == "" {
				name = unknownLabel
			}
			err := m.add(
				graphstore.Triple{S: artist, P: graphstore.RDFType, O: m.vocab.Artist},
				graphstore.Triple{S: artist, P: graphstore.RDFSLabel, O: graphstore.Literal(name)},
			)
			if err != nil {
				return linked, err
			}
		}
		added, err := m.store.Add(graphstore.Triple{S: track, P: m.vocab.PerformedBy, O: artist})
		if err != nil {
			return linked, services.Wrap(services.ErrValidation, "merge", "performer", credit.Artist.ID, err)
		}
		if added {
			linked++
		}
	}
	return linked, nil
}

func (m *Merger) add(triples ...graphstore.Triple) error {
	for _, t := range triples {
		if _, err := m.store.Add(t); err != nil {
			return services.Wrap(services.ErrValidation, "merge", "add triple", fmt.Sprint(t), err)
		}
	}
	return nil
}
