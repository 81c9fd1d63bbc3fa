// Package catalogcache persists raw MusicBrainz responses in SQLite so that
// repeated runs over the same films skip the rate-limited network round trip.
package catalogcache
