package config

const (
	defaultConfigPath           = "~/.config/soundgraph/config.toml"
	defaultDocumentPath         = "~/.local/share/soundgraph/film_soundtrack_2000s.ttl"
	defaultNamespace            = "http://www.semanticweb.org/film_soundtrack_2000s#"
	defaultWikidataEndpoint     = "https://query.wikidata.org/sparql"
	defaultUserAgent            = "FilmSoundtrackBot/1.0"
	defaultWikidataTimeout      = 120
	defaultYearFrom             = 2000
	defaultYearTo               = 2010
	defaultHarvestLimit         = 200
	defaultMusicBrainzBaseURL   = "https://musicbrainz.org/ws/2"
	defaultMusicBrainzTimeout   = 30
	defaultSearchLimit          = 5
	defaultMinIntervalMS        = 1000
	defaultMaxAttempts          = 5
	defaultRetryAfterSeconds    = 1
	defaultDetailMaxAttempts    = 3
	defaultDetailBaseDelay      = 1
	defaultDetailMaxDelay       = 8
	defaultCachePath            = "~/.cache/soundgraph/musicbrainz.db"
	defaultCacheTTLHours        = 168
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	serviceUnavailableStatus    = 503
	minimumMusicBrainzInterval  = 1000
	maximumMusicBrainzSearchCap = 100
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Graph: Graph{
			Document:  defaultDocumentPath,
			Namespace: defaultNamespace,
		},
		Wikidata: Wikidata{
			Endpoint:       defaultWikidataEndpoint,
			UserAgent:      defaultUserAgent,
			TimeoutSeconds: defaultWikidataTimeout,
			YearFrom:       defaultYearFrom,
			YearTo:         defaultYearTo,
			Limit:          defaultHarvestLimit,
		},
		MusicBrainz: MusicBrainz{
			BaseURL:        defaultMusicBrainzBaseURL,
			UserAgent:      defaultUserAgent,
			TimeoutSeconds: defaultMusicBrainzTimeout,
			SearchLimit:    defaultSearchLimit,
			MinIntervalMS:  defaultMinIntervalMS,
		},
		Retry: Retry{
			MaxAttempts:              defaultMaxAttempts,
			DefaultRetryAfterSeconds: defaultRetryAfterSeconds,
			DetailMaxAttempts:        defaultDetailMaxAttempts,
			DetailBaseDelaySeconds:   defaultDetailBaseDelay,
			DetailMaxDelaySeconds:    defaultDetailMaxDelay,
			RetryStatuses:            []int{serviceUnavailableStatus},
		},
		Cache: Cache{
			Path:     defaultCachePath,
			TTLHours: defaultCacheTTLHours,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
