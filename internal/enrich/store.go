package enrich

import (
	"soundgraph/internal/graphstore"
)

// Store is the graph surface the merger and the driver work against.
type Store interface {
	Add(t graphstore.Triple) (bool, error)
	Has(s, p, o graphstore.Term) bool
	Match(s, p, o graphstore.Term) []graphstore.Triple
	FirstLabel(s graphstore.Term) (string, bool)
	Len() int
}

var _ Store = (*graphstore.Graph)(nil)

// Pair is a film and one of its composers, with the labels used for the
// catalog search.
type Pair struct {
	Work          graphstore.Term
	WorkLabel     string
	Composer      graphstore.Term
	ComposerLabel string
}

// Pairs extracts the distinct (film, composer) pairs from the base graph:
// every Movie with a hasMovieComposer link where both ends carry a label.
// Pairs come back in graph insertion order.
func Pairs(store Store, vocab graphstore.Vocabulary) []Pair {
	var pairs []Pair
	seen := make(map[[2]graphstore.Term]struct{})
	for _, typed := range store.Match(graphstore.Term{}, graphstore.RDFType, vocab.Movie) {
		work := typed.S
		workLabel, ok := store.FirstLabel(work)
		if !ok {
			continue
		}
		for _, link := range store.Match(work, vocab.HasMovieComposer, graphstore.Term{}) {
			composer := link.O
			key := [2]graphstore.Term{work, composer}
			if _, dup := seen[key]; dup {
				continue
			}
			composerLabel, ok := store.FirstLabel(composer)
			if !ok {
				continue
			}
			seen[key] = struct{}{}
			pairs = append(pairs, Pair{
				Work:          work,
				WorkLabel:     workLabel,
				Composer:      composer,
				ComposerLabel: composerLabel,
			})
		}
	}
	return pairs
}
