package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateGraph(); err != nil {
		return err
	}
	if err := c.validateWikidata(); err != nil {
		return err
	}
	if err := c.validateMusicBrainz(); err != nil {
		return err
	}
	if err := c.validateRetry(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateGraph() error {
	switch strings.ToLower(filepath.Ext(c.Graph.Document)) {
	case ".ttl", ".nt":
	default:
		return fmt.Errorf("graph.document must end in .ttl or .nt, got %q", filepath.Base(c.Graph.Document))
	}
	if !strings.HasSuffix(c.Graph.Namespace, "#") && !strings.HasSuffix(c.Graph.Namespace, "/") {
		return errors.New("graph.namespace must end with '#' or '/'")
	}
	return nil
}

func (c *Config) validateWikidata() error {
	if err := validateURL("wikidata.endpoint", c.Wikidata.Endpoint); err != nil {
		return err
	}
	if c.Wikidata.YearFrom > c.Wikidata.YearTo {
		return fmt.Errorf("wikidata.year_from (%d) must not exceed wikidata.year_to (%d)", c.Wikidata.YearFrom, c.Wikidata.YearTo)
	}
	return nil
}

func (c *Config) validateMusicBrainz() error {
	if err := validateURL("musicbrainz.base_url", c.MusicBrainz.BaseURL); err != nil {
		return err
	}
	if c.MusicBrainz.SearchLimit > maximumMusicBrainzSearchCap {
		return fmt.Errorf("musicbrainz.search_limit must be at most %d", maximumMusicBrainzSearchCap)
	}
	if c.MusicBrainz.MinScore < 0 || c.MusicBrainz.MinScore > 100 {
		return errors.New("musicbrainz.min_score must be between 0 and 100")
	}
	parsed, _ := url.Parse(c.MusicBrainz.BaseURL)
	if strings.HasSuffix(parsed.Hostname(), "musicbrainz.org") && c.MusicBrainz.MinIntervalMS < minimumMusicBrainzInterval {
		return fmt.Errorf("musicbrainz.min_interval_ms must be at least %d for musicbrainz.org", minimumMusicBrainzInterval)
	}
	return nil
}

func (c *Config) validateRetry() error {
	if c.Retry.DetailBaseDelaySeconds > c.Retry.DetailMaxDelaySeconds {
		return errors.New("retry.detail_base_delay_seconds must not exceed retry.detail_max_delay_seconds")
	}
	for _, status := range c.Retry.RetryStatuses {
		if status < 400 || status > 599 {
			return fmt.Errorf("retry.retry_statuses: %d is not an HTTP error status", status)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func validateURL(field, value string) error {
	parsed, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) URL, got %q", field, value)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s must include a host", field)
	}
	return nil
}
