// Package config loads, normalizes, and validates soundgraph configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the SOUNDGRAPH_CONTACT environment
// fallback used to identify the client to Wikidata and MusicBrainz. The Config
// type centralizes every knob the CLI needs: where the graph document lives,
// how remote services are paced and retried, and how logs are written.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
