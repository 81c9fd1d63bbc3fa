package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"soundgraph/internal/config"
	"soundgraph/internal/enrich"
	"soundgraph/internal/graphstore"
	"soundgraph/internal/harvest"
	"soundgraph/internal/logging"
	"soundgraph/internal/musicbrainz"
	"soundgraph/internal/services"
)

type graphSteps struct {
	harvest bool
	enrich  bool
}

func newHarvestCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "harvest",
		Short: "Load films and composers from the SPARQL endpoint into the graph document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.runGraph(cmd, graphSteps{harvest: true})
		},
	}
}

func newEnrichCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "enrich",
		Short: "Link soundtracks, tracks and performers from MusicBrainz into the graph document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.runGraph(cmd, graphSteps{enrich: true})
		},
	}
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Harvest then enrich, persisting the graph once at the end",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.runGraph(cmd, graphSteps{harvest: true, enrich: true})
		},
	}
}

// runGraph loads the document under its lock, applies the requested steps and
// writes the document back. Nothing is written when a step fails or the run
// is interrupted.
func (c *commandContext) runGraph(cmd *cobra.Command, steps graphSteps) (err error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return err
	}

	runCtx, cancel := signal.NotifyContext(c.runContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	lock, err := graphstore.Lock(cfg.Graph.Document)
	if err != nil {
		return services.Wrap(services.ErrPersistence, "load", "lock document", "graph document busy", err)
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil && err == nil {
			err = unlockErr
		}
	}()

	g, existed, err := graphstore.LoadDocument(cfg.Graph.Document, cfg.Graph.Ontology)
	if err != nil {
		return services.Wrap(services.ErrPersistence, "load", "read document", "graph document unreadable", err)
	}
	before := g.Len()
	logger.Info("graph loaded",
		logging.String("document", cfg.Graph.Document),
		logging.Bool("existed", existed),
		logging.Int("triples", before),
	)

	vocab := graphstore.NewVocabulary(cfg.Graph.Namespace)
	report := runReport{document: cfg.Graph.Document, before: before}

	if steps.harvest {
		result, err := c.harvestGraph(runCtx, cfg, logger, g)
		if err != nil {
			return err
		}
		report.harvest = &result
	}
	if steps.enrich {
		summary, err := c.enrichGraph(runCtx, cfg, logger, g, vocab)
		if err != nil {
			return err
		}
		report.enrich = &summary
	}

	if err := graphstore.Save(g, cfg.Graph.Document); err != nil {
		return services.Wrap(services.ErrPersistence, "save", "write document", "graph document not saved", err)
	}
	report.after = g.Len()
	logger.Info("graph saved",
		logging.String("document", cfg.Graph.Document),
		logging.Int("triples", report.after),
		logging.String(logging.FieldEventType, "graph_saved"),
	)
	report.print(cmd.OutOrStdout())
	return c.writeMetrics()
}

func (c *commandContext) harvestGraph(ctx context.Context, cfg *config.Config, logger *slog.Logger, g *graphstore.Graph) (harvest.Result, error) {
	harvester, err := harvest.New(cfg.Wikidata.Endpoint, c.endpointFetcher(cfg, logger), harvest.QueryOptions{
		Namespace: cfg.Graph.Namespace,
		YearFrom:  cfg.Wikidata.YearFrom,
		YearTo:    cfg.Wikidata.YearTo,
		Limit:     cfg.Wikidata.Limit,
	}, logger)
	if err != nil {
		return harvest.Result{}, services.Wrap(services.ErrConfiguration, "harvest", "init", "harvester not configured", err)
	}
	return harvester.Run(ctx, g)
}

func (c *commandContext) enrichGraph(ctx context.Context, cfg *config.Config, logger *slog.Logger, g *graphstore.Graph, vocab graphstore.Vocabulary) (enrich.Summary, error) {
	_, detail := retryPolicies(cfg)
	opts := []musicbrainz.Option{
		musicbrainz.WithDetailPolicy(detail),
		musicbrainz.WithLogger(logger),
	}

	cache, err := openCache(cfg, logger)
	if err != nil {
		return enrich.Summary{}, err
	}
	if cache != nil {
		defer cache.Close()
		if pruned, err := cache.Prune(ctx); err != nil {
			logging.WarnWithContext(logger, "catalog cache prune failed", "cache_prune_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "expired responses stay on disk until the next run"),
			)
		} else if pruned > 0 {
			logger.Info("pruned expired catalog responses", logging.Int64("removed", pruned))
		}
		opts = append(opts, musicbrainz.WithCache(cache))
	}

	client, err := musicbrainz.New(cfg.MusicBrainz.BaseURL, c.catalogFetcher(cfg, logger), opts...)
	if err != nil {
		return enrich.Summary{}, services.Wrap(services.ErrConfiguration, "enrich", "init", "catalog client not configured", err)
	}
	_, metrics := c.metrics()
	pipeline := enrich.NewPipeline(g, vocab, client, enrich.Options{
		SearchLimit: cfg.MusicBrainz.SearchLimit,
		MinScore:    cfg.MusicBrainz.MinScore,
		Metrics:     metrics,
	}, logger)
	return pipeline.Run(ctx)
}

type runReport struct {
	document string
	before   int
	after    int
	harvest  *harvest.Result
	enrich   *enrich.Summary
}

func (r runReport) print(w io.Writer) {
	fmt.Fprintf(w, "Graph document: %s\n", r.document)
	if r.harvest != nil {
		fmt.Fprintf(w, "Harvested: %d triples received, %d new\n", r.harvest.Received, r.harvest.Added)
	}
	if r.enrich != nil {
		s := r.enrich
		fmt.Fprintf(w, "Enriched: %d pairs, %d merged, %d without match, %d skipped, %d tracks added\n",
			s.Pairs, s.Merged, s.NoMatch, s.Skipped, s.TracksAdded)
	}
	fmt.Fprintf(w, "Triples: %d (was %d)\n", r.after, r.before)
}
