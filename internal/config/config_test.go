package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"soundgraph/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("SOUNDGRAPH_CONTACT", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantDocument := filepath.Join(tempHome, ".local", "share", "soundgraph", "film_soundtrack_2000s.ttl")
	if cfg.Graph.Document != wantDocument {
		t.Fatalf("unexpected document: got %q want %q", cfg.Graph.Document, wantDocument)
	}
	if cfg.Cache.Enabled {
		t.Fatal("expected cache disabled by default")
	}
	if cfg.MusicBrainz.SearchLimit != 5 {
		t.Fatalf("unexpected search limit: %d", cfg.MusicBrainz.SearchLimit)
	}
	if cfg.MinInterval() != time.Second {
		t.Fatalf("unexpected pacing interval: %v", cfg.MinInterval())
	}
	if cfg.Retry.MaxAttempts != 5 || cfg.Retry.DetailMaxAttempts != 3 {
		t.Fatalf("unexpected retry attempts: %+v", cfg.Retry)
	}
	if len(cfg.Retry.RetryStatuses) != 1 || cfg.Retry.RetryStatuses[0] != 503 {
		t.Fatalf("unexpected retry statuses: %v", cfg.Retry.RetryStatuses)
	}
	if cfg.CacheTTL() != 168*time.Hour {
		t.Fatalf("unexpected cache ttl: %v", cfg.CacheTTL())
	}
}

func TestLoadCustomConfigOverrides(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("SOUNDGRAPH_CONTACT", "ops@example.com")

	configPath := filepath.Join(t.TempDir(), "config.toml")
	payload := map[string]any{
		"graph": map[string]any{
			"document": "~/graphs/films.nt",
		},
		"musicbrainz": map[string]any{
			"base_url":        "http://localhost:5000/ws/2/",
			"min_interval_ms": 10,
			"search_limit":    10,
		},
		"retry": map[string]any{
			"retry_statuses": []int{503, 429, 503},
		},
		"logging": map[string]any{
			"format": "JSON",
			"level":  "Debug",
		},
	}
	data, err := toml.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("unexpected resolution: %q exists=%v", resolved, exists)
	}
	if cfg.Graph.Document != filepath.Join(tempHome, "graphs", "films.nt") {
		t.Fatalf("unexpected document: %q", cfg.Graph.Document)
	}
	if cfg.MusicBrainz.BaseURL != "http://localhost:5000/ws/2" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.MusicBrainz.BaseURL)
	}
	if cfg.MinInterval() != 10*time.Millisecond {
		t.Fatalf("unexpected pacing interval: %v", cfg.MinInterval())
	}
	if got := cfg.Retry.RetryStatuses; len(got) != 2 || got[0] != 429 || got[1] != 503 {
		t.Fatalf("expected sorted unique statuses, got %v", got)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging config: %+v", cfg.Logging)
	}
	if !strings.Contains(cfg.MusicBrainz.UserAgent, "(ops@example.com)") {
		t.Fatalf("expected contact in user agent, got %q", cfg.MusicBrainz.UserAgent)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[graph]\nbogus = 1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected unknown key to be rejected")
	}
}

func TestValidateRejectsFastMusicBrainzPacing(t *testing.T) {
	cfg := config.Default()
	cfg.Graph.Document = "/tmp/graph.ttl"
	cfg.MusicBrainz.MinIntervalMS = 200
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "min_interval_ms") {
		t.Fatalf("expected pacing validation error, got %v", err)
	}
}

func TestValidateRejectsRDFXMLDocument(t *testing.T) {
	cfg := config.Default()
	cfg.Graph.Document = "/tmp/film_soundtrack_2000s.owl"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected RDF/XML output document to be rejected")
	}
}

func TestValidateRejectsInvertedYears(t *testing.T) {
	cfg := config.Default()
	cfg.Graph.Document = "/tmp/graph.ttl"
	cfg.Wikidata.YearFrom = 2011
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected year range validation error")
	}
}

func TestUserAgentKeepsExplicitContact(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SOUNDGRAPH_CONTACT", "other@example.com")
	configPath := filepath.Join(t.TempDir(), "config.toml")
	body := "[wikidata]\nuser_agent = \"Bot/2.0 (me@example.com)\"\n"
	if err := os.WriteFile(configPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Wikidata.UserAgent != "Bot/2.0 (me@example.com)" {
		t.Fatalf("unexpected user agent: %q", cfg.Wikidata.UserAgent)
	}
}

func TestCreateSampleLoads(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("expected sample config to load, exists=%v err=%v", exists, err)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := config.Default()
	out, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if !strings.Contains(out, "[musicbrainz]") || !strings.Contains(out, "min_interval_ms = 1000") {
		t.Fatalf("unexpected encoded config:\n%s", out)
	}
}
