package musicbrainz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"soundgraph/internal/fetch"
	"soundgraph/internal/logging"
)

const (
	releaseGroupInc = "releases+artist-credits+genres"
	releaseInc      = "recordings+artist-credits"
)

// Cache stores raw responses keyed by request URL.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, body []byte) error
}

// Fetcher issues paced, retried requests.
type Fetcher interface {
	Fetch(ctx context.Context, req fetch.Request) (*fetch.Response, error)
	FetchWithPolicy(ctx context.Context, req fetch.Request, policy fetch.Policy) (*fetch.Response, error)
}

// Catalog is the subset of the MusicBrainz web service the enrichment uses.
type Catalog interface {
	SearchReleaseGroups(ctx context.Context, query string, limit int) ([]ReleaseGroupSummary, error)
	ReleaseGroup(ctx context.Context, id string) (*ReleaseGroup, error)
	Release(ctx context.Context, id string) (*Release, error)
}

// Client talks to the MusicBrainz JSON web service.
type Client struct {
	baseURL      string
	fetcher      Fetcher
	detailPolicy fetch.Policy
	cache        Cache
	logger       *slog.Logger
}

var _ Catalog = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithCache enables response caching.
func WithCache(cache Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithDetailPolicy overrides the retry policy for release-group and release lookups.
func WithDetailPolicy(policy fetch.Policy) Option {
	return func(c *Client) {
		c.detailPolicy = policy
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.NewComponentLogger(logger, "musicbrainz")
	}
}

// New creates a MusicBrainz client.
func New(baseURL string, fetcher Fetcher, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("musicbrainz base url required")
	}
	if fetcher == nil {
		return nil, errors.New("musicbrainz fetcher required")
	}
	client := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		fetcher:      fetcher,
		detailPolicy: fetch.DetailPolicy(),
		logger:       logging.NewComponentLogger(nil, "musicbrainz"),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// SearchReleaseGroups runs a release-group search with the supplied Lucene query.
func (c *Client) SearchReleaseGroups(ctx context.Context, query string, limit int) ([]ReleaseGroupSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("fmt", "json")
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	req := fetch.Request{URL: c.baseURL + "/release-group/", Params: params, Accept: "application/json"}

	payload, err := getJSON[SearchResponse](ctx, c, req, nil)
	if err != nil {
		return nil, fmt.Errorf("search release groups: %w", err)
	}
	return payload.ReleaseGroups, nil
}

// ReleaseGroup fetches a release group with its releases, credits and genres.
func (c *Client) ReleaseGroup(ctx context.Context, id string) (*ReleaseGroup, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("release group id required")
	}
	req := fetch.Request{
		URL:    c.baseURL + "/release-group/" + url.PathEscape(id),
		Params: detailParams(releaseGroupInc),
		Accept: "application/json",
	}
	payload, err := getJSON[ReleaseGroup](ctx, c, req, &c.detailPolicy)
	if err != nil {
		return nil, fmt.Errorf("release group %s: %w", id, err)
	}
	return payload, nil
}

// Release fetches a release with its recordings and credits.
func (c *Client) Release(ctx context.Context, id string) (*Release, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("release id required")
	}
	req := fetch.Request{
		URL:    c.baseURL + "/release/" + url.PathEscape(id),
		Params: detailParams(releaseInc),
		Accept: "application/json",
	}
	payload, err := getJSON[Release](ctx, c, req, &c.detailPolicy)
	if err != nil {
		return nil, fmt.Errorf("release %s: %w", id, err)
	}
	return payload, nil
}

func detailParams(inc string) url.Values {
	params := url.Values{}
	params.Set("inc", inc)
	params.Set("fmt", "json")
	return params
}

// getJSON serves req from the cache when the entry decodes, otherwise from the
// network. Each source decodes into its own value so a corrupt cache entry
// never leaks fields into the fresh result.
func getJSON[T any](ctx context.Context, c *Client, req fetch.Request, policy *fetch.Policy) (*T, error) {
	key := cacheKey(req)
	if c.cache != nil {
		body, ok, err := c.cache.Get(ctx, key)
		if err != nil {
			c.logger.Warn("catalog cache read failed",
				logging.String("key", key),
				logging.Error(err),
				logging.String(logging.FieldEventType, "cache_read_failed"),
				logging.String(logging.FieldErrorHint, "delete the cache file if this persists"),
			)
		} else if ok {
			var cached T
			if err := json.Unmarshal(body, &cached); err == nil {
				c.logger.Debug("catalog cache hit", logging.String("key", key))
				return &cached, nil
			}
			c.logger.Debug("catalog cache entry unreadable, refetching", logging.String("key", key))
		}
	}

	var (
		resp *fetch.Response
		err  error
	)
	if policy != nil {
		resp, err = c.fetcher.FetchWithPolicy(ctx, req, *policy)
	} else {
		resp, err = c.fetcher.Fetch(ctx, req)
	}
	if err != nil {
		return nil, err
	}
	var fresh T
	if err := json.Unmarshal(resp.Body, &fresh); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if c.cache != nil {
		if err := c.cache.Put(ctx, key, resp.Body); err != nil {
			c.logger.Warn("catalog cache write failed",
				logging.String("key", key),
				logging.Error(err),
				logging.String(logging.FieldEventType, "cache_write_failed"),
				logging.String(logging.FieldErrorHint, "delete the cache file if this persists"),
			)
		}
	}
	return &fresh, nil
}

func cacheKey(req fetch.Request) string {
	if len(req.Params) == 0 {
		return req.URL
	}
	return req.URL + "?" + req.Params.Encode()
}
