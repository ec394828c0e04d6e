// Package workspace models the checked workspace: the root manifest, its
// member modules, their source files, and the run-scoped source cache.
//
// Everything here is read-only input. The workspace is loaded once per run
// and never mutated; the cache belongs to the run that created it and is
// discarded when the run exits.
package workspace
