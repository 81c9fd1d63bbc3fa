package graphstore

import (
	"fmt"
)

// Graph is an in-memory, insertion-ordered set of triples owned by a single
// goroutine. It is strictly additive.
type Graph struct {
	triples   []Triple
	index     map[Triple]struct{}
	bySubject map[Term][]int
	byObject  map[Term][]int
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		index:     make(map[Triple]struct{}),
		bySubject: make(map[Term][]int),
		byObject:  make(map[Term][]int),
	}
}

// Add inserts t and reports whether it was new.
func (g *Graph) Add(t Triple) (bool, error) {
	if err := t.valid(); err != nil {
		return false, fmt.Errorf("add triple: %w", err)
	}
	if _, ok := g.index[t]; ok {
		return false, nil
	}
	pos := len(g.triples)
	g.triples = append(g.triples, t)
	g.index[t] = struct{}{}
	g.bySubject[t.S] = append(g.bySubject[t.S], pos)
	g.byObject[t.O] = append(g.byObject[t.O], pos)
	return true, nil
}

// AddAll inserts every triple of other and returns how many were new.
func (g *Graph) AddAll(other []Triple) (int, error) {
	added := 0
	for _, t := range other {
		ok, err := g.Add(t)
		if err != nil {
			return added, err
		}
		if ok {
			added++
		}
	}
	return added, nil
}

// Merge copies every triple of other into g.
func (g *Graph) Merge(other *Graph) (int, error) {
	if other == nil {
		return 0, nil
	}
	return g.AddAll(other.triples)
}

// Has reports whether the exact triple exists.
func (g *Graph) Has(s, p, o Term) bool {
	_, ok := g.index[Triple{S: s, P: p, O: o}]
	return ok
}

// Len returns the number of triples.
func (g *Graph) Len() int {
	return len(g.triples)
}

// Triples returns a copy of the triples in insertion order.
func (g *Graph) Triples() []Triple {
	out := make([]Triple, len(g.triples))
	copy(out, g.triples)
	return out
}

// Match returns the triples matching the pattern in insertion order. Zero
// terms match anything.
func (g *Graph) Match(s, p, o Term) []Triple {
	var candidates []int
	switch {
	case !s.IsZero():
		candidates = g.bySubject[s]
	case !o.IsZero():
		candidates = g.byObject[o]
	default:
		out := make([]Triple, 0)
		for _, t := range g.triples {
			if p.IsZero() || t.P == p {
				out = append(out, t)
			}
		}
		return out
	}
	out := make([]Triple, 0, len(candidates))
	for _, pos := range candidates {
		t := g.triples[pos]
		if !s.IsZero() && t.S != s {
			continue
		}
		if !p.IsZero() && t.P != p {
			continue
		}
		if !o.IsZero() && t.O != o {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Objects returns the objects of (s, p, *) in insertion order.
func (g *Graph) Objects(s, p Term) []Term {
	matches := g.Match(s, p, Term{})
	out := make([]Term, 0, len(matches))
	for _, t := range matches {
		out = append(out, t.O)
	}
	return out
}

// Subjects returns the distinct subjects of (*, p, o) in insertion order.
func (g *Graph) Subjects(p, o Term) []Term {
	matches := g.Match(Term{}, p, o)
	out := make([]Term, 0, len(matches))
	seen := make(map[Term]struct{}, len(matches))
	for _, t := range matches {
		if _, ok := seen[t.S]; ok {
			continue
		}
		seen[t.S] = struct{}{}
		out = append(out, t.S)
	}
	return out
}

// FirstLabel returns the first rdfs:label literal of s. Nodes with several
// labels resolve to the one inserted first.
func (g *Graph) FirstLabel(s Term) (string, bool) {
	for _, o := range g.Objects(s, RDFSLabel) {
		if o.IsLiteral() {
			return o.Value, true
		}
	}
	return "", false
}

// IsA reports whether s has rdf:type class.
func (g *Graph) IsA(s, class Term) bool {
	return g.Has(s, RDFType, class)
}
