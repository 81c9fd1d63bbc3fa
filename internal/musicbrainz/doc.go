// Package musicbrainz is a narrow client for the three MusicBrainz web service
// lookups the enrichment needs: release-group search, release-group detail and
// release detail.
//
// Requests go through a fetch.Fetcher so pacing and retry behaviour are shared
// with every other remote call. Detail lookups use the tighter detail policy.
// An optional Cache short-circuits repeated lookups without touching the
// network.
package musicbrainz
