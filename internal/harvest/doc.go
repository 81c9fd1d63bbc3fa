// Package harvest loads the base film and composer facts from Wikidata with a
// single CONSTRUCT query and merges the result into the working graph.
package harvest
