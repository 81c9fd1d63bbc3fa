package enrich

import (
	"context"
	"errors"
	"log/slog"

	"soundgraph/internal/logging"
	"soundgraph/internal/musicbrainz"
)

// ErrNoRelease is returned when none of a release group's releases could be
// fetched.
var ErrNoRelease = errors.New("no release could be evaluated")

const officialStatus = "Official"

// Selector picks the canonical release of a release group.
type Selector struct {
	catalog musicbrainz.Catalog
	logger  *slog.Logger
}

// NewSelector creates a Selector.
func NewSelector(catalog musicbrainz.Catalog, logger *slog.Logger) *Selector {
	return &Selector{catalog: catalog, logger: logging.NewComponentLogger(logger, "selector")}
}

// Selection is the chosen release and how it was reached.
type Selection struct {
	Release    *musicbrainz.Release
	TrackCount int
	Candidates int
	Failed     int
}

// Detail fetches a release group with its releases and genres.
func (s *Selector) Detail(ctx context.Context, id string) (*musicbrainz.ReleaseGroup, error) {
	return s.catalog.ReleaseGroup(ctx, id)
}

// Candidates returns the official releases of group, or every release when
// none is official.
func Candidates(group *musicbrainz.ReleaseGroup) []musicbrainz.ReleaseSummary {
	if group == nil {
		return nil
	}
	official := make([]musicbrainz.ReleaseSummary, 0, len(group.Releases))
	for _, release := range group.Releases {
		if release.Status == officialStatus {
			official = append(official, release)
		}
	}
	if len(official) > 0 {
		return official
	}
	return group.Releases
}

// Select fetches every candidate release and keeps the one with the most
// tracks. Equal counts go to the earliest release date, then the lowest
// release id, so the result does not depend on listing order. Candidates that
// fail to fetch are skipped.
func (s *Selector) Select(ctx context.Context, group *musicbrainz.ReleaseGroup) (*Selection, error) {
	candidates := Candidates(group)
	selection := &Selection{Candidates: len(candidates)}
	var bestDate string
	for _, candidate := range candidates {
		if candidate.ID == "" {
			selection.Failed++
			continue
		}
		release, err := s.catalog.Release(ctx, candidate.ID)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			selection.Failed++
			s.logger.Warn("release lookup failed, trying next candidate",
				logging.String("release", candidate.ID),
				logging.Error(err),
				logging.String(logging.FieldEventType, "release_lookup_failed"),
				logging.String(logging.FieldErrorHint, "the release is ignored for track counting"),
			)
			continue
		}
		if release.ID == "" {
			release.ID = candidate.ID
		}
		date := candidate.Date
		if date == "" {
			date = release.Date
		}
		count := release.TrackCount()
		if selection.Release == nil || better(count, date, release.ID, selection.TrackCount, bestDate, selection.Release.ID) {
			selection.Release = release
			selection.TrackCount = count
			bestDate = date
		}
	}
	if selection.Release == nil {
		return selection, ErrNoRelease
	}
	return selection, nil
}

func better(count int, date, id string, bestCount int, bestDate, bestID string) bool {
	if count != bestCount {
		return count > bestCount
	}
	if date != bestDate {
		switch {
		case date == "":
			return false
		case bestDate == "":
			return true
		default:
			return date < bestDate
		}
	}
	return id < bestID
}
