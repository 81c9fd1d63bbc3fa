// Package fetch issues paced, retried HTTP GET requests against the public
// services the graph is built from.
//
// A Fetcher serializes its requests, waits out a minimum interval after each
// successful response, and retries according to a Policy. Two policies cover
// every caller: DefaultPolicy for searches and bulk queries, DetailPolicy for
// per-entity lookups.
package fetch
