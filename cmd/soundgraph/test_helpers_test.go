package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

const testNamespace = "http://www.semanticweb.org/film_soundtrack_2000s#"

// harvestFixture is the constructed graph the fake endpoint returns.
var harvestFixture = strings.Join([]string{
	`<http://www.wikidata.org/entity/Q128518> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <` + testNamespace + `Movie> .`,
	`<http://www.wikidata.org/entity/Q128518> <http://www.w3.org/2000/01/rdf-schema#label> "Gladiator"@en .`,
	`<http://www.wikidata.org/entity/Q128518> <` + testNamespace + `releaseYear> "2000"^^<http://www.w3.org/2001/XMLSchema#integer> .`,
	`<http://www.wikidata.org/entity/Q128518> <` + testNamespace + `hasGenreFilm> <http://www.wikidata.org/entity/Q130232> .`,
	`<http://www.wikidata.org/entity/Q128518> <` + testNamespace + `hasMovieComposer> <http://www.wikidata.org/entity/Q76364> .`,
	`<http://www.wikidata.org/entity/Q76364> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <` + testNamespace + `Composer> .`,
	`<http://www.wikidata.org/entity/Q76364> <http://www.w3.org/2000/01/rdf-schema#label> "Hans Zimmer"@en .`,
	`<http://www.wikidata.org/entity/Q130232> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <` + testNamespace + `Genre_Film> .`,
	`<http://www.wikidata.org/entity/Q130232> <http://www.w3.org/2000/01/rdf-schema#label> "drama film"@en .`,
}, "\n") + "\n"

type cliTestEnv struct {
	baseDir     string
	configPath  string
	document    string
	metricsPath string

	endpointStatus atomic.Int32
	catalogCalls   atomic.Int32
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("SOUNDGRAPH_CONTACT", "")

	env := &cliTestEnv{
		baseDir:     base,
		configPath:  filepath.Join(base, "soundgraph.toml"),
		document:    filepath.Join(base, "data", "graph.ttl"),
		metricsPath: filepath.Join(base, "metrics.prom"),
	}
	env.endpointStatus.Store(http.StatusOK)

	endpoint := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Query().Get("query"), "CONSTRUCT") {
			t.Errorf("unexpected endpoint query %q", r.URL.RawQuery)
		}
		if status := int(env.endpointStatus.Load()); status != http.StatusOK {
			http.Error(w, "unavailable", status)
			return
		}
		w.Header().Set("Content-Type", "application/n-triples")
		_, _ = w.Write([]byte(harvestFixture))
	}))
	t.Cleanup(endpoint.Close)

	catalog := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env.catalogCalls.Add(1)
		switch r.URL.Path {
		case "/release-group/":
			_, _ = w.Write([]byte(`{"release-groups":[{"id":"rg-gladiator","score":100,"title":"Gladiator"}]}`))
		case "/release-group/rg-gladiator":
			_, _ = w.Write([]byte(`{"id":"rg-gladiator","title":"Gladiator","genres":[{"name":"Score"}],
				"releases":[{"id":"rel-gladiator","status":"Official","date":"2000-04-25"}]}`))
		case "/release/rel-gladiator":
			_, _ = w.Write([]byte(`{"id":"rel-gladiator","media":[{"track-count":2,"tracks":[
				{"id":"t1","title":"The Wheat","recording":{"id":"rec-wheat"},
				 "artist-credit":[{"name":"Lisa Gerrard","artist":{"id":"a-lisa","name":"Lisa Gerrard"}}]},
				{"id":"t2","title":"Progeny","recording":{"id":"rec-progeny"}}
			]}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(catalog.Close)

	writeTestConfig(t, env.configPath, env.document, endpoint.URL+"/sparql", catalog.URL, filepath.Join(base, "cache", "musicbrainz.db"))
	return env
}

func writeTestConfig(t *testing.T, path, document, endpoint, catalog, cachePath string) {
	t.Helper()
	content := fmt.Sprintf(`[graph]
document = %q
namespace = %q

[wikidata]
endpoint = %q
user_agent = "SoundgraphTest/1.0 (test@example.org)"

[musicbrainz]
base_url = %q
user_agent = "SoundgraphTest/1.0 (test@example.org)"
min_interval_ms = 1

[cache]
enabled = true
path = %q

[logging]
level = "error"
`, document, testNamespace, endpoint, catalog, cachePath)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
