// Package main hosts the soundgraph CLI entrypoint and command graph.
//
// The Cobra command tree loads configuration once per invocation, builds the
// run logger and paced HTTP fetchers, and hands the graph document to the
// harvest, enrichment and report packages. Commands that touch the document
// hold its advisory lock for the whole run and persist exactly once at the end.
//
// Keep this package lean: new behaviour belongs in the internal packages and is
// surfaced here through a command or flag.
package main
