// Package symbols resolves dotted symbol paths from policy documents against
// scanned source, and derives the authoritative visibility rung of a
// constructor.
//
// A path has the form module::seg::...::symbol. The first segment must name
// a workspace module. Leading lowercase segments narrow the search to one
// file when that file exists; otherwise the whole module is searched. The
// final component names a bare symbol, a Type::method pair, or a trailing
// wildcard (prefix_*).
package symbols
