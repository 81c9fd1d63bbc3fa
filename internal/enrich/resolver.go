package enrich

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"soundgraph/internal/musicbrainz"
)

// DefaultSearchLimit bounds the number of release-group candidates per pair.
const DefaultSearchLimit = 5

// Resolver finds soundtrack release groups for a film and composer.
type Resolver struct {
	catalog  musicbrainz.Catalog
	limit    int
	minScore int
}

// NewResolver creates a Resolver. Non-positive limits select DefaultSearchLimit.
func NewResolver(catalog musicbrainz.Catalog, limit, minScore int) *Resolver {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	return &Resolver{catalog: catalog, limit: limit, minScore: minScore}
}

// SearchQuery builds the catalog query for a pair: an exact title phrase, an
// exact artist phrase and the Soundtrack secondary type.
func SearchQuery(workLabel, composerLabel string) string {
	return fmt.Sprintf(`release:"%s" AND artist:"%s" AND secondarytype:Soundtrack`,
		escapePhrase(workLabel), escapePhrase(composerLabel))
}

func escapePhrase(value string) string {
	value = strings.TrimSpace(value)
	value = strings.ReplaceAll(value, `\`, `\\`)
	return strings.ReplaceAll(value, `"`, `\"`)
}

// Resolve returns the candidate release groups for pair, best score first.
// Candidates without an id, below the minimum score, or repeated are dropped.
// An empty result means the catalog had no match.
func (r *Resolver) Resolve(ctx context.Context, pair Pair) ([]musicbrainz.ReleaseGroupSummary, error) {
	groups, err := r.catalog.SearchReleaseGroups(ctx, SearchQuery(pair.WorkLabel, pair.ComposerLabel), r.limit)
	if err != nil {
		return nil, err
	}
	out := make([]musicbrainz.ReleaseGroupSummary, 0, len(groups))
	seen := make(map[string]struct{}, len(groups))
	for _, group := range groups {
		id := strings.TrimSpace(group.ID)
		if id == "" || group.Score < r.minScore {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		group.ID = id
		out = append(out, group)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out, nil
}
