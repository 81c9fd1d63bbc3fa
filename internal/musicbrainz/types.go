package musicbrainz

// SearchResponse models the release-group search payload.
type SearchResponse struct {
	Created       string                `json:"created"`
	Count         int                   `json:"count"`
	Offset        int                   `json:"offset"`
	ReleaseGroups []ReleaseGroupSummary `json:"release-groups"`
}

// ReleaseGroupSummary is one search hit.
type ReleaseGroupSummary struct {
	ID             string         `json:"id"`
	Score          int            `json:"score"`
	Title          string         `json:"title"`
	PrimaryType    string         `json:"primary-type"`
	SecondaryTypes []string       `json:"secondary-types"`
	FirstRelease   string         `json:"first-release-date"`
	ArtistCredit   []ArtistCredit `json:"artist-credit"`
}

// ReleaseGroup is the detail payload for a release group.
type ReleaseGroup struct {
	ID             string           `json:"id"`
	Title          string           `json:"title"`
	PrimaryType    string           `json:"primary-type"`
	SecondaryTypes []string         `json:"secondary-types"`
	FirstRelease   string           `json:"first-release-date"`
	ArtistCredit   []ArtistCredit   `json:"artist-credit"`
	Releases       []ReleaseSummary `json:"releases"`
	Genres         []Genre          `json:"genres"`
}

// ReleaseSummary is a release as listed inside a release group.
type ReleaseSummary struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Status  string `json:"status"`
	Date    string `json:"date"`
	Country string `json:"country"`
}

// Release is the detail payload for a single release.
type Release struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Status       string         `json:"status"`
	Date         string         `json:"date"`
	ArtistCredit []ArtistCredit `json:"artist-credit"`
	Media        []Medium       `json:"media"`
}

// Medium is one disc or side of a release.
type Medium struct {
	Position   int     `json:"position"`
	Format     string  `json:"format"`
	TrackCount *int    `json:"track-count"`
	Tracks     []Track `json:"tracks"`
}

// Count returns the declared track count, or the number of listed tracks
// when the count is absent.
func (m Medium) Count() int {
	if m.TrackCount != nil {
		return *m.TrackCount
	}
	return len(m.Tracks)
}

// Track is one entry of a medium's track listing.
type Track struct {
	ID           string         `json:"id"`
	Number       string         `json:"number"`
	Position     int            `json:"position"`
	Title        string         `json:"title"`
	Length       int            `json:"length"`
	Recording    *Recording     `json:"recording"`
	ArtistCredit []ArtistCredit `json:"artist-credit"`
}

// RecordingID returns the underlying recording id, falling back to the track id.
func (t Track) RecordingID() string {
	if t.Recording != nil && t.Recording.ID != "" {
		return t.Recording.ID
	}
	return t.ID
}

// Recording is the audio entity a track points at.
type Recording struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Length       int            `json:"length"`
	ArtistCredit []ArtistCredit `json:"artist-credit"`
}

// ArtistCredit is one name in a credit list.
type ArtistCredit struct {
	Name       string  `json:"name"`
	JoinPhrase string  `json:"joinphrase"`
	Artist     *Artist `json:"artist"`
}

// Artist is a credited person or group.
type Artist struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	SortName string `json:"sort-name"`
	Type     string `json:"type"`
}

// Genre is a community genre tag.
type Genre struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TrackCount sums the medium counts of a release.
func (r *Release) TrackCount() int {
	if r == nil {
		return 0
	}
	total := 0
	for _, medium := range r.Media {
		total += medium.Count()
	}
	return total
}
