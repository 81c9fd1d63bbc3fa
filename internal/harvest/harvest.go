package harvest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"soundgraph/internal/fetch"
	"soundgraph/internal/graphstore"
	"soundgraph/internal/logging"
	"soundgraph/internal/services"
)

const nTriplesMediaType = "application/n-triples"

// Fetcher issues the endpoint request.
type Fetcher interface {
	Fetch(ctx context.Context, req fetch.Request) (*fetch.Response, error)
}

// Harvester runs the base knowledge query against a SPARQL endpoint.
type Harvester struct {
	endpoint string
	fetcher  Fetcher
	query    QueryOptions
	logger   *slog.Logger
}

// Result summarizes a harvest.
type Result struct {
	Received int
	Added    int
	Elapsed  time.Duration
}

// New creates a Harvester.
func New(endpoint string, fetcher Fetcher, query QueryOptions, logger *slog.Logger) (*Harvester, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.New("sparql endpoint required")
	}
	if fetcher == nil {
		return nil, errors.New("harvest fetcher required")
	}
	if strings.TrimSpace(query.Namespace) == "" {
		query.Namespace = graphstore.DefaultNamespace
	}
	return &Harvester{
		endpoint: endpoint,
		fetcher:  fetcher,
		query:    query,
		logger:   logging.NewComponentLogger(logger, "harvest"),
	}, nil
}

// Query returns the rendered CONSTRUCT query.
func (h *Harvester) Query() string {
	return BuildQuery(h.query)
}

// Run executes the query and merges the constructed sub-graph into g. Any
// failure is fatal to the run.
func (h *Harvester) Run(ctx context.Context, g *graphstore.Graph) (Result, error) {
	ctx = services.WithStage(ctx, "harvest")
	start := time.Now()
	h.logger.Info("harvesting base graph",
		logging.String("endpoint", h.endpoint),
		logging.Int("year_from", h.query.YearFrom),
		logging.Int("year_to", h.query.YearTo),
		logging.Int("limit", h.query.Limit),
		logging.String(logging.FieldEventType, "harvest_start"),
	)

	params := url.Values{}
	params.Set("query", h.Query())
	resp, err := h.fetcher.Fetch(ctx, fetch.Request{
		URL:    h.endpoint,
		Params: params,
		Accept: nTriplesMediaType,
	})
	if err != nil {
		return Result{}, services.Wrap(services.ErrTransient, "harvest", "query endpoint", "base knowledge query failed", err)
	}

	constructed, err := graphstore.Decode(bytes.NewReader(resp.Body), graphstore.FormatNTriples)
	if err != nil {
		return Result{}, services.Wrap(services.ErrValidation, "harvest", "decode", "endpoint returned an unreadable graph", err)
	}
	added, err := g.Merge(constructed)
	if err != nil {
		return Result{}, fmt.Errorf("merge harvested graph: %w", err)
	}

	result := Result{Received: constructed.Len(), Added: added, Elapsed: time.Since(start)}
	h.logger.Info("harvest complete",
		logging.Int("received", result.Received),
		logging.Int("added", result.Added),
		logging.Int("graph_triples", g.Len()),
		logging.Duration("elapsed", result.Elapsed),
		logging.String(logging.FieldEventType, "harvest_complete"),
	)
	return result, nil
}
