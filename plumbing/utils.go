package plumbing

import "math"

// SToMicros converts seconds to microseconds.
func SToMicros(seconds float64) int64 {
	return int64(math.Round(seconds * 1e6))
}

// MicrosToS converts microseconds to seconds.
func MicrosToS(micros int64) float64 {
	return float64(micros) / 1e6
}

// TeqToFC converts an equilibration time (microseconds) to a flow
// coefficient. FC is inverse-proportional to teq (FC = 1/teq), clamped to
// FCMax when teq is at or below TeqMin. Keeping teq and the simulation
// clock in the same unit (microseconds) is what makes FC*timestep a
// dimensionless fraction in Step, independent of the absolute time unit
// chosen.
func TeqToFC(teqMicros int64) float64 {
	if teqMicros <= TeqMin {
		return FCMax
	}
	fc := 1 / float64(teqMicros)
	if fc > FCMax {
		return FCMax
	}
	return fc
}

// FCToTeq converts a flow coefficient back to an equilibration time
// (microseconds). FCToTeq(TeqToFC(t)) == t for t >= TeqMin.
func FCToTeq(fc float64) int64 {
	if fc <= 0 {
		return math.MaxInt64
	}
	return int64(math.Round(1 / fc))
}

// AllConverged reports whether the trailing ConvergenceWindow snapshots in
// states show every node's pressure changing by less than minDeltaPerSec,
// averaged over the elapsed time spanned by the window. Fewer than
// ConvergenceWindow snapshots never converges; timestep is the duration, in
// microseconds, between consecutive snapshots.
func AllConverged(states []map[string]float64, timestepMicros int64, minDeltaPerSec float64) bool {
	if len(states) < ConvergenceWindow {
		return false
	}
	window := states[len(states)-ConvergenceWindow:]
	elapsedSec := MicrosToS(timestepMicros * int64(len(window)-1))
	if elapsedSec <= 0 {
		return false
	}

	first := window[0]
	for node, startPressure := range first {
		maxDelta := 0.0
		prev := startPressure
		for _, snap := range window[1:] {
			p, ok := snap[node]
			if !ok {
				continue
			}
			if d := math.Abs(p - prev); d > maxDelta {
				maxDelta = d
			}
			prev = p
		}
		if maxDelta/elapsedSec >= minDeltaPerSec {
			return false
		}
	}
	return true
}
