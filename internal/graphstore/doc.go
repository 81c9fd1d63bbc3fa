// Package graphstore holds the knowledge graph in memory and reads and writes
// it as an RDF document.
//
// Graph is a single-owner, append-only triple set with the handful of lookups
// the enrichment and the reports need. The film soundtrack vocabulary and the
// rules for deriving soundtrack, track, artist and music genre IRIs live in
// Vocabulary. Documents are decoded from Turtle, N-Triples or RDF/XML and
// saved as Turtle or N-Triples.
package graphstore
