// Package report runs the fixed read-only reports over a finished graph:
// the soundtrack listing, film and music genre tables, the genre cross-tab
// and soundtracks by composer. Reports return plain tables; rendering is left
// to the caller.
package report
