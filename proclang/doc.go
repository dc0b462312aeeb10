// Package proclang implements the procedural DSL ("ProcLang"): a small
// grammar of named procedures, each a sequence of steps that carry an
// action and a set of predicate-guarded outbound transitions.
//
// Parse and ParseFile compile ProcLang text into a ProcedureSuite. The
// grammar is hand-lexed and hand-parsed by recursive descent; see lexer.go
// and parser.go. Predicate and Action are closed sum types evaluated
// against a State snapshot supplied by the caller driving the procedure.
package proclang
