// Package multigraph implements a directed multigraph whose edges carry a
// caller-supplied, globally unique string key instead of a library-assigned
// identifier.
//
// This is the one primitive shared by both halves of the simulator: a
// PlumbingComponent's internal topology and an Engine's global topology are
// both a *Graph, the latter keyed as "<component name>.<edge key>" so two
// edges between the same pair of nodes (one per flow direction) stay
// distinct without needing a separate parallel-edge index.
package multigraph
