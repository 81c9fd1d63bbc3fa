// Package enrich matches the films of the base graph against the MusicBrainz
// catalog and merges soundtrack, track, performer and music genre nodes into
// the graph.
//
// For each (film, composer) pair the Resolver searches release groups, the
// Selector fetches each group's detail and picks the release with the most
// tracks, and the Merger adds the resulting triples. Pipeline drives the
// three in sequence and returns an Outcome for every pair and release group:
// merged, no match, or skipped. Skips never stop the run.
package enrich
