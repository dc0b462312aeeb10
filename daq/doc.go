// Package daq implements the boundary-only pieces of a data-acquisition
// bridge: a trimming helper for sorted sample sequences, and a Channel
// that tracks a handful of named float64 streams on a shared rolling time
// window. It has no transport and no UI signal wiring; something that
// marshals live readings onto its own thread and repaints a chart from
// them is outside this package.
package daq
