package plumbing

// ATM is the reserved node id representing atmosphere. Its pressure is
// always forced to zero, and integration skips it by name whatever its
// fixed flag says.
const ATM = "atm"

const (
	// TeqMin is the smallest equilibration time (microseconds) SetTeq will
	// accept; anything lower is rejected as a hard input error.
	TeqMin = 1

	// FCMax is the flow coefficient of a fully open edge: 1/TeqMin, the
	// largest value TeqToFC can produce.
	FCMax = 1.0 / float64(TeqMin)

	// MinTimeResMicros is the smallest integration step the engine will
	// ever take.
	MinTimeResMicros = 1

	// DefaultResolutionScale is the divisor applied when deriving time_res
	// from a component's fastest (non-fully-open) edge.
	DefaultResolutionScale = 10

	// DefaultTimeResolutionMicros is the time_res an empty engine starts
	// with, before any component has had a chance to shrink it.
	DefaultTimeResolutionMicros = 100000

	// ConvergenceWindow is the number of trailing Step snapshots Solve
	// inspects to decide whether the system has reached steady state. 3 is
	// the smallest window that rejects a single noisy sub-step while still
	// detecting steady state promptly.
	ConvergenceWindow = 3
)
