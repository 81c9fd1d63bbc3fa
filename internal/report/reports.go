package report

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"soundgraph/internal/graphstore"
)

// ListingTrack is a track with its performers.
type ListingTrack struct {
	Title      string
	Performers []string
}

// ListingEntry groups one soundtrack with its film, composers and tracks.
type ListingEntry struct {
	Movie      string
	Year       int
	Soundtrack string
	Composers  []string
	Tracks     []ListingTrack
}

// Listing returns soundtracks grouped with their film, composers and tracks,
// newest film first. A non-positive limit selects DefaultListingLimit.
func (r *Reporter) Listing(limit int) []ListingEntry {
	if limit <= 0 {
		limit = DefaultListingLimit
	}
	var entries []ListingEntry
	for _, movie := range r.movies() {
		year, _ := r.year(movie)
		for _, link := range r.g.Match(movie, r.vocab.HasSoundtrack, graphstore.Term{}) {
			soundtrack := link.O
			composers := r.labelsOf(soundtrack, r.vocab.HasSoundtrackComposer)
			if len(composers) == 0 {
				composers = r.labelsOf(movie, r.vocab.HasMovieComposer)
			}
			entry := ListingEntry{
				Movie:      r.label(movie),
				Year:       year,
				Soundtrack: r.label(soundtrack),
				Composers:  composers,
			}
			for _, t := range r.g.Match(soundtrack, r.vocab.HasTrack, graphstore.Term{}) {
				entry.Tracks = append(entry.Tracks, ListingTrack{
					Title:      r.label(t.O),
					Performers: r.labelsOf(t.O, r.vocab.PerformedBy),
				})
			}
			entries = append(entries, entry)
		}
	}
	slices.SortStableFunc(entries, func(a, b ListingEntry) int {
		if c := cmp.Compare(b.Year, a.Year); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Movie, b.Movie); c != 0 {
			return c
		}
		return cmp.Compare(a.Soundtrack, b.Soundtrack)
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// ListingTable flattens the listing to one row per track.
func ListingTable(entries []ListingEntry) Table {
	table := Table{
		Title:   "Soundtracks",
		Headers: []string{"Movie", "Year", "Soundtrack", "Composer", "Track", "Performers"},
	}
	for _, entry := range entries {
		year := ""
		if entry.Year > 0 {
			year = strconv.Itoa(entry.Year)
		}
		base := []string{entry.Movie, year, entry.Soundtrack, strings.Join(entry.Composers, ", ")}
		if len(entry.Tracks) == 0 {
			table.Rows = append(table.Rows, append(slices.Clone(base), "", ""))
			continue
		}
		for _, track := range entry.Tracks {
			table.Rows = append(table.Rows, append(slices.Clone(base), track.Title, strings.Join(track.Performers, ", ")))
		}
	}
	return table
}

// FilmGenres lists every film genre with its films, ordered by genre then film.
func (r *Reporter) FilmGenres() Table {
	table := Table{Title: "Film genres", Headers: []string{"Genre", "Movie"}}
	for _, movie := range r.movies() {
		for _, genre := range r.labelsOf(movie, r.vocab.HasGenreFilm) {
			table.Rows = append(table.Rows, []string{genre, r.label(movie)})
		}
	}
	slices.SortFunc(table.Rows, compareRows)
	table.Rows = slices.CompactFunc(table.Rows, slices.Equal[[]string])
	return table
}

// MusicGenres lists the music genres of every soundtrack.
func (r *Reporter) MusicGenres() Table {
	table := Table{Title: "Music genres", Headers: []string{"Soundtrack", "Genre"}}
	for _, soundtrack := range typed(r.g, r.vocab.Soundtrack) {
		for _, genre := range r.labelsOf(soundtrack, r.vocab.HasGenreMusic) {
			table.Rows = append(table.Rows, []string{r.label(soundtrack), genre})
		}
	}
	slices.SortFunc(table.Rows, compareRows)
	table.Rows = slices.CompactFunc(table.Rows, slices.Equal[[]string])
	return table
}

// CrossTab lists films whose soundtrack carries a music genre matching filter
// (case-insensitively), together with the films' own genres. An empty filter
// selects DefaultGenreFilter.
func (r *Reporter) CrossTab(filter string) Table {
	if strings.TrimSpace(filter) == "" {
		filter = DefaultGenreFilter
	}
	table := Table{
		Title:   "Films scored in " + r.title.String(strings.TrimSpace(filter)),
		Headers: []string{"Movie", "Soundtrack", "Music genre", "Film genre"},
	}
	for _, movie := range r.movies() {
		filmGenres := r.labelsOf(movie, r.vocab.HasGenreFilm)
		if len(filmGenres) == 0 {
			continue
		}
		for _, link := range r.g.Match(movie, r.vocab.HasSoundtrack, graphstore.Term{}) {
			soundtrack := link.O
			for _, musicGenre := range r.labelsOf(soundtrack, r.vocab.HasGenreMusic) {
				if !r.matches(filter, musicGenre) {
					continue
				}
				for _, filmGenre := range filmGenres {
					table.Rows = append(table.Rows, []string{r.label(movie), r.label(soundtrack), musicGenre, filmGenre})
				}
			}
		}
	}
	slices.SortStableFunc(table.Rows, func(a, b []string) int { return cmp.Compare(a[0], b[0]) })
	return table
}

// ByComposer lists the soundtracks credited to the named composer, matched
// case-insensitively.
func (r *Reporter) ByComposer(name string) Table {
	table := Table{
		Title:   "Soundtracks by " + strings.TrimSpace(name),
		Headers: []string{"Movie", "Soundtrack", "Composer"},
	}
	for _, composer := range typed(r.g, r.vocab.Composer) {
		label := r.label(composer)
		if !r.matches(name, label) {
			continue
		}
		for _, link := range r.g.Match(graphstore.Term{}, r.vocab.HasSoundtrackComposer, composer) {
			soundtrack := link.S
			movies := r.g.Match(graphstore.Term{}, r.vocab.HasSoundtrack, soundtrack)
			if len(movies) == 0 {
				table.Rows = append(table.Rows, []string{"", r.label(soundtrack), label})
				continue
			}
			for _, m := range movies {
				table.Rows = append(table.Rows, []string{r.label(m.S), r.label(soundtrack), label})
			}
		}
	}
	slices.SortFunc(table.Rows, compareRows)
	table.Rows = slices.CompactFunc(table.Rows, slices.Equal[[]string])
	return table
}

// Counts tallies the nodes of each class plus the total triple count.
func (r *Reporter) Counts() Table {
	table := Table{Title: "Graph", Headers: []string{"Kind", "Count"}}
	classes := []struct {
		name  string
		class graphstore.Term
	}{
		{"Movies", r.vocab.Movie},
		{"Composers", r.vocab.Composer},
		{"Soundtracks", r.vocab.Soundtrack},
		{"Tracks", r.vocab.Track},
		{"Artists", r.vocab.Artist},
		{"Film genres", r.vocab.GenreFilm},
		{"Music genres", r.vocab.GenreMusic},
	}
	for _, c := range classes {
		table.Rows = append(table.Rows, []string{c.name, strconv.Itoa(len(typed(r.g, c.class)))})
	}
	table.Rows = append(table.Rows, []string{"Triples", strconv.Itoa(r.g.Len())})
	return table
}
