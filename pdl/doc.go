// Package pdl implements the plumbing description language: a YAML-like
// declarative format for components, graphs, and initial conditions that
// compiles into a plumbing.Engine.
//
// A File loads one named document, either from a path or a literal string.
// A Parser accepts a list of Files, resolves their import closure, and
// assembles components, a node mapping, initial pressures, and initial
// states. Parser.MakeEngine feeds those into plumbing.New.
package pdl
