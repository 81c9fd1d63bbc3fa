package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"soundgraph/internal/catalogcache"
	"soundgraph/internal/config"
	"soundgraph/internal/enrich"
	"soundgraph/internal/fetch"
	"soundgraph/internal/logging"
	"soundgraph/internal/services"
)

type commandContext struct {
	configFlag  *string
	metricsFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	runID    string
	registry *prometheus.Registry

	metricsOnce   sync.Once
	fetchMetrics  *fetch.Metrics
	enrichMetrics *enrich.Metrics
}

func newCommandContext(configFlag, metricsFlag *string) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		metricsFlag: metricsFlag,
		runID:       uuid.NewString(),
		registry:    prometheus.NewRegistry(),
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		if err := loadEnvFile(); err != nil {
			c.configErr = err
			return
		}
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// loadEnvFile reads ./.env when present so SOUNDGRAPH_CONTACT and friends can
// live next to the project instead of the shell profile.
func loadEnvFile() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg, c.runID)
	})
	return c.logger, c.loggerErr
}

// runContext tags the command context with the run id.
func (c *commandContext) runContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return services.WithRunID(ctx, c.runID)
}

func (c *commandContext) metrics() (*fetch.Metrics, *enrich.Metrics) {
	c.metricsOnce.Do(func() {
		c.fetchMetrics = fetch.NewMetrics(c.registry)
		c.enrichMetrics = enrich.NewMetrics(c.registry)
	})
	return c.fetchMetrics, c.enrichMetrics
}

// writeMetrics dumps the registry when --metrics-file is set.
func (c *commandContext) writeMetrics() error {
	if c.metricsFlag == nil {
		return nil
	}
	path := strings.TrimSpace(*c.metricsFlag)
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("write metrics file: %w", err)
	}
	return nil
}

func retryPolicies(cfg *config.Config) (fetch.Policy, fetch.Policy) {
	base := fetch.DefaultPolicy()
	base.MaxAttempts = cfg.Retry.MaxAttempts
	base.DefaultRetryAfter = seconds(cfg.Retry.DefaultRetryAfterSeconds)
	base.RetryStatuses = slices.Clone(cfg.Retry.RetryStatuses)

	detail := fetch.DetailPolicy()
	detail.MaxAttempts = cfg.Retry.DetailMaxAttempts
	detail.BaseDelay = seconds(cfg.Retry.DetailBaseDelaySeconds)
	detail.MaxDelay = seconds(cfg.Retry.DetailMaxDelaySeconds)
	detail.DefaultRetryAfter = base.DefaultRetryAfter
	detail.RetryStatuses = slices.Clone(cfg.Retry.RetryStatuses)
	return base, detail
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// catalogFetcher is paced at the configured minimum interval.
func (c *commandContext) catalogFetcher(cfg *config.Config, logger *slog.Logger) *fetch.Fetcher {
	policy, _ := retryPolicies(cfg)
	metrics, _ := c.metrics()
	return fetch.New(fetch.Config{
		UserAgent:   cfg.MusicBrainz.UserAgent,
		MinInterval: cfg.MinInterval(),
		Policy:      policy,
		HTTPClient:  &http.Client{Timeout: seconds(cfg.MusicBrainz.TimeoutSeconds)},
		Logger:      logging.NewComponentLogger(logger, "musicbrainz"),
		Metrics:     metrics,
	})
}

// endpointFetcher serves the single harvest query, so it is not paced.
func (c *commandContext) endpointFetcher(cfg *config.Config, logger *slog.Logger) *fetch.Fetcher {
	policy, _ := retryPolicies(cfg)
	metrics, _ := c.metrics()
	return fetch.New(fetch.Config{
		UserAgent:  cfg.Wikidata.UserAgent,
		Policy:     policy,
		HTTPClient: &http.Client{Timeout: seconds(cfg.Wikidata.TimeoutSeconds)},
		Logger:     logging.NewComponentLogger(logger, "wikidata"),
		Metrics:    metrics,
	})
}

// openCache returns nil when the response cache is disabled.
func openCache(cfg *config.Config, logger *slog.Logger) (*catalogcache.Store, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}
	store, err := catalogcache.Open(cfg.Cache.Path, cfg.CacheTTL(), logger)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "cache", "open", "catalog cache unavailable", err)
	}
	return store, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
