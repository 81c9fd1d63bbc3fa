package report

import (
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"soundgraph/internal/graphstore"
)

// DefaultGenreFilter is the music genre the cross-tab report looks for when
// none is given.
const DefaultGenreFilter = "classical"

// DefaultListingLimit bounds the soundtrack listing.
const DefaultListingLimit = 100

// Table is a rendered report: a header row and data rows of equal width.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Reporter runs the fixed read-only reports over a graph.
type Reporter struct {
	g     *graphstore.Graph
	vocab graphstore.Vocabulary
	fold  cases.Caser
	title cases.Caser
}

// New creates a Reporter for g.
func New(g *graphstore.Graph, vocab graphstore.Vocabulary) *Reporter {
	return &Reporter{
		g:     g,
		vocab: vocab,
		fold:  cases.Fold(),
		title: cases.Title(language.Und),
	}
}

func (r *Reporter) label(node graphstore.Term) string {
	if label, ok := r.g.FirstLabel(node); ok {
		return label
	}
	value := node.Value
	if idx := strings.LastIndexAny(value, "#/"); idx >= 0 && idx < len(value)-1 {
		value = value[idx+1:]
	}
	return value
}

func (r *Reporter) labelsOf(subject, predicate graphstore.Term) []string {
	objects := r.g.Match(subject, predicate, graphstore.Term{})
	out := make([]string, 0, len(objects))
	for _, t := range objects {
		out = append(out, r.label(t.O))
	}
	return out
}

func (r *Reporter) movies() []graphstore.Term {
	return typed(r.g, r.vocab.Movie)
}

func (r *Reporter) year(movie graphstore.Term) (int, bool) {
	for _, t := range r.g.Match(movie, r.vocab.ReleaseYear, graphstore.Term{}) {
		if !t.O.IsLiteral() {
			continue
		}
		year, err := strconv.Atoi(strings.TrimSpace(t.O.Value))
		if err == nil {
			return year, true
		}
	}
	return 0, false
}

func (r *Reporter) matches(filter, value string) bool {
	return r.fold.String(strings.TrimSpace(filter)) == r.fold.String(strings.TrimSpace(value))
}

func typed(g *graphstore.Graph, class graphstore.Term) []graphstore.Term {
	matches := g.Match(graphstore.Term{}, graphstore.RDFType, class)
	out := make([]graphstore.Term, 0, len(matches))
	for _, t := range matches {
		out = append(out, t.S)
	}
	return out
}

func compareRows(a, b []string) int {
	return slices.Compare(a, b)
}
