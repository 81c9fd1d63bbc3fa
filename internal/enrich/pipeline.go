package enrich

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"soundgraph/internal/graphstore"
	"soundgraph/internal/logging"
	"soundgraph/internal/musicbrainz"
	"soundgraph/internal/services"
)

// Options tunes candidate resolution.
type Options struct {
	SearchLimit int
	MinScore    int
	Metrics     *Metrics
}

// Pipeline enriches every (film, composer) pair of the graph with catalog
// soundtrack data. Pairs and release groups are processed one at a time.
type Pipeline struct {
	store    Store
	vocab    graphstore.Vocabulary
	resolver *Resolver
	selector *Selector
	merger   *Merger
	metrics  *Metrics
	logger   *slog.Logger
}

// NewPipeline wires the resolver, selector and merger around store.
func NewPipeline(store Store, vocab graphstore.Vocabulary, catalog musicbrainz.Catalog, opts Options, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		store:    store,
		vocab:    vocab,
		resolver: NewResolver(catalog, opts.SearchLimit, opts.MinScore),
		selector: NewSelector(catalog, logger),
		merger:   NewMerger(store, vocab),
		metrics:  opts.Metrics,
		logger:   logging.NewComponentLogger(logger, "enrich"),
	}
}

// Run processes every pair. Lookup failures become skipped outcomes and the
// run moves on; only cancellation or a fatal error ends it early. The caller
// persists the graph afterwards.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	ctx = services.WithStage(ctx, "enrich")
	start := time.Now()
	pairs := Pairs(p.store, p.vocab)
	summary := Summary{Pairs: len(pairs), TriplesBefore: p.store.Len()}

	p.logger.Info("enrichment starting",
		logging.Int("pairs", len(pairs)),
		logging.Int("graph_triples", summary.TriplesBefore),
		logging.String(logging.FieldEventType, "enrich_start"),
	)

	for i, pair := range pairs {
		if err := ctx.Err(); err != nil {
			summary.TriplesAfter = p.store.Len()
			return summary, err
		}
		pairCtx := services.WithWork(ctx, pair.WorkLabel)
		logger := logging.WithContext(pairCtx, p.logger)
		logger.Info("searching catalog",
			logging.String("composer", pair.ComposerLabel),
			logging.Int("pair", i+1),
			logging.Int("pairs", len(pairs)),
		)
		if err := p.runPair(pairCtx, pair, &summary, logger); err != nil {
			summary.TriplesAfter = p.store.Len()
			return summary, err
		}
	}

	summary.TriplesAfter = p.store.Len()
	p.logger.Info("enrichment complete",
		logging.Int("pairs", summary.Pairs),
		logging.Int("merged", summary.Merged),
		logging.Int("no_match", summary.NoMatch),
		logging.Int("skipped", summary.Skipped),
		logging.Int("tracks_added", summary.TracksAdded),
		logging.Int("graph_triples", summary.TriplesAfter),
		logging.Duration("elapsed", time.Since(start)),
		logging.String(logging.FieldEventType, "enrich_complete"),
	)
	return summary, nil
}

func (p *Pipeline) runPair(ctx context.Context, pair Pair, summary *Summary, logger *slog.Logger) error {
	groups, err := p.resolver.Resolve(ctx, pair)
	if err != nil {
		outcome := Outcome{Kind: OutcomeSkipped, Stage: StageSearch, Pair: pair, Err: err}
		if fatal := p.settle(ctx, outcome, summary, logger); fatal != nil {
			return fatal
		}
		return nil
	}
	if len(groups) == 0 {
		logger.Info("no soundtrack release group found", logging.String("composer", pair.ComposerLabel))
		p.record(Outcome{Kind: OutcomeNoMatch, Stage: StageSearch, Pair: pair}, summary)
		return nil
	}

	for _, group := range groups {
		if err := ctx.Err(); err != nil {
			return err
		}
		groupCtx := services.WithReleaseGroup(ctx, group.ID)
		outcome := p.runGroup(groupCtx, pair, group)
		if fatal := p.settle(groupCtx, outcome, summary, logging.WithContext(groupCtx, p.logger)); fatal != nil {
			return fatal
		}
	}
	return nil
}

func (p *Pipeline) runGroup(ctx context.Context, pair Pair, group musicbrainz.ReleaseGroupSummary) Outcome {
	outcome := Outcome{Pair: pair, ReleaseGroupID: group.ID}
	skip := func(stage string, err error) Outcome {
		outcome.Kind = OutcomeSkipped
		outcome.Stage = stage
		outcome.Err = err
		return outcome
	}

	soundtrack, err := p.merger.AddSoundtrack(pair, group)
	if err != nil {
		return skip(StageMerge, err)
	}
	outcome.Soundtrack = soundtrack

	detail, err := p.selector.Detail(ctx, group.ID)
	if err != nil {
		return skip(StageDetail, err)
	}
	genres, err := p.merger.AddMusicGenres(soundtrack, detail.Genres)
	if err != nil {
		return skip(StageMerge, err)
	}
	outcome.Genres = genres

	selection, err := p.selector.Select(ctx, detail)
	if err != nil {
		return skip(StageSelect, err)
	}
	outcome.ReleaseID = selection.Release.ID

	stats, err := p.merger.AddTracks(soundtrack, selection.Release)
	outcome.Tracks = stats
	if err != nil {
		return skip(StageMerge, err)
	}
	outcome.Kind = OutcomeMerged
	outcome.Stage = StageMerge
	return outcome
}

// settle records outcome and decides whether it ends the run.
func (p *Pipeline) settle(ctx context.Context, outcome Outcome, summary *Summary, logger *slog.Logger) error {
	if outcome.Kind == OutcomeSkipped {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(outcome.Err, ctxErr) {
			return ctxErr
		}
		if services.Classify(outcome.Err) == services.SeverityFatal {
			p.record(outcome, summary)
			return outcome.Err
		}
		logging.WarnWithContext(logger, "catalog lookup failed, skipping", "enrich_skip",
			logging.String("step", outcome.Stage),
			logging.String("composer", outcome.Pair.ComposerLabel),
			logging.Error(outcome.Err),
			logging.String(logging.FieldErrorHint, skipHint(outcome.Stage)),
		)
	} else {
		logger.Info("soundtrack merged",
			logging.String("release", outcome.ReleaseID),
			logging.Int("tracks_added", outcome.Tracks.Added),
			logging.Int("tracks_existing", outcome.Tracks.Existing),
			logging.Int("genres_linked", outcome.Genres),
			logging.String(logging.FieldEventType, "soundtrack_merged"),
		)
	}
	p.record(outcome, summary)
	return nil
}

func (p *Pipeline) record(outcome Outcome, summary *Summary) {
	summary.record(outcome)
	p.metrics.observe(outcome)
}

func skipHint(stage string) string {
	switch stage {
	case StageSearch:
		return "the film is retried on the next run"
	case StageDetail:
		return "the soundtrack node is kept without tracks; rerun to fill it in"
	case StageSelect:
		return "no release of this group could be fetched; rerun to fill in tracks"
	default:
		return "check logs for details"
	}
}
