// Package plumbing implements the plumbing simulation core: a per-node
// pressure cell (NodeBody), a reusable stateful sub-graph (PlumbingComponent),
// and the mutable multigraph that composes components into a network and
// advances their pressures in time (Engine).
//
// Declarations are split one concern per file: types live next to the
// behavior that uses them, errors.go holds the sentinel and structured-error
// vocabulary, and engine_*.go files each group one concern (construction,
// mutation, stepping, querying, reset).
package plumbing
