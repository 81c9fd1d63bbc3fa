package config

import (
	"fmt"
	"os"
	"slices"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeGraph(); err != nil {
		return err
	}
	c.normalizeWikidata()
	c.normalizeMusicBrainz()
	c.normalizeRetry()
	if err := c.normalizeCache(); err != nil {
		return err
	}
	if err := c.normalizeLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) normalizeGraph() error {
	var err error
	if strings.TrimSpace(c.Graph.Document) == "" {
		c.Graph.Document = defaultDocumentPath
	}
	if c.Graph.Document, err = expandPath(strings.TrimSpace(c.Graph.Document)); err != nil {
		return fmt.Errorf("graph.document: %w", err)
	}
	if ontology := strings.TrimSpace(c.Graph.Ontology); ontology != "" {
		if c.Graph.Ontology, err = expandPath(ontology); err != nil {
			return fmt.Errorf("graph.ontology: %w", err)
		}
	}
	c.Graph.Namespace = strings.TrimSpace(c.Graph.Namespace)
	if c.Graph.Namespace == "" {
		c.Graph.Namespace = defaultNamespace
	}
	return nil
}

func (c *Config) normalizeWikidata() {
	c.Wikidata.Endpoint = strings.TrimSpace(c.Wikidata.Endpoint)
	if c.Wikidata.Endpoint == "" {
		c.Wikidata.Endpoint = defaultWikidataEndpoint
	}
	c.Wikidata.UserAgent = withContact(strings.TrimSpace(c.Wikidata.UserAgent))
	if c.Wikidata.TimeoutSeconds <= 0 {
		c.Wikidata.TimeoutSeconds = defaultWikidataTimeout
	}
	if c.Wikidata.Limit <= 0 {
		c.Wikidata.Limit = defaultHarvestLimit
	}
}

func (c *Config) normalizeMusicBrainz() {
	c.MusicBrainz.BaseURL = strings.TrimRight(strings.TrimSpace(c.MusicBrainz.BaseURL), "/")
	if c.MusicBrainz.BaseURL == "" {
		c.MusicBrainz.BaseURL = defaultMusicBrainzBaseURL
	}
	c.MusicBrainz.UserAgent = withContact(strings.TrimSpace(c.MusicBrainz.UserAgent))
	if c.MusicBrainz.TimeoutSeconds <= 0 {
		c.MusicBrainz.TimeoutSeconds = defaultMusicBrainzTimeout
	}
	if c.MusicBrainz.SearchLimit <= 0 {
		c.MusicBrainz.SearchLimit = defaultSearchLimit
	}
	if c.MusicBrainz.MinIntervalMS <= 0 {
		c.MusicBrainz.MinIntervalMS = defaultMinIntervalMS
	}
}

func (c *Config) normalizeRetry() {
	if c.Retry.MaxAttempts <= 0 {
		c.Retry.MaxAttempts = defaultMaxAttempts
	}
	if c.Retry.DefaultRetryAfterSeconds <= 0 {
		c.Retry.DefaultRetryAfterSeconds = defaultRetryAfterSeconds
	}
	if c.Retry.DetailMaxAttempts <= 0 {
		c.Retry.DetailMaxAttempts = defaultDetailMaxAttempts
	}
	if c.Retry.DetailBaseDelaySeconds <= 0 {
		c.Retry.DetailBaseDelaySeconds = defaultDetailBaseDelay
	}
	if c.Retry.DetailMaxDelaySeconds <= 0 {
		c.Retry.DetailMaxDelaySeconds = defaultDetailMaxDelay
	}
	if len(c.Retry.RetryStatuses) == 0 {
		c.Retry.RetryStatuses = []int{serviceUnavailableStatus}
	}
	slices.Sort(c.Retry.RetryStatuses)
	c.Retry.RetryStatuses = slices.Compact(c.Retry.RetryStatuses)
}

func (c *Config) normalizeCache() error {
	var err error
	if strings.TrimSpace(c.Cache.Path) == "" {
		c.Cache.Path = defaultCachePath
	}
	if c.Cache.Path, err = expandPath(strings.TrimSpace(c.Cache.Path)); err != nil {
		return fmt.Errorf("cache.path: %w", err)
	}
	if c.Cache.TTLHours <= 0 {
		c.Cache.TTLHours = defaultCacheTTLHours
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if dir := strings.TrimSpace(c.Logging.Dir); dir != "" {
		var err error
		if c.Logging.Dir, err = expandPath(dir); err != nil {
			return fmt.Errorf("logging.dir: %w", err)
		}
	}
	return nil
}

// withContact appends the SOUNDGRAPH_CONTACT address to a user agent that does
// not already carry contact details, as both Wikidata and MusicBrainz ask.
func withContact(userAgent string) string {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	if strings.Contains(userAgent, "(") {
		return userAgent
	}
	contact, ok := os.LookupEnv("SOUNDGRAPH_CONTACT")
	if !ok || strings.TrimSpace(contact) == "" {
		return userAgent
	}
	return fmt.Sprintf("%s (%s)", userAgent, strings.TrimSpace(contact))
}
