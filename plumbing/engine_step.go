package plumbing

import (
	"fmt"
	"time"
)

// Step advances the simulation by timestepMicros, internally sub-stepping
// at the engine's adaptive time_res so no single explicit-Euler update ever
// sees a coefficient*dt product larger than the resolution scale allows. A
// nil timestepMicros advances by exactly one time_res step. It returns
// ErrInvalidEngine if the graph has no edges or the ErrorSet is non-empty.
func (e *Engine) Step(timestepMicros *int64) (map[string]float64, error) {
	if e.plumbingGraph.EdgeCount() == 0 {
		return nil, fmt.Errorf("cannot step an engine with no components loaded: %w", ErrInvalidEngine)
	}
	if !e.IsValid() {
		return nil, fmt.Errorf("cannot step an engine with unresolved errors: %w", ErrInvalidEngine)
	}

	timestep := e.timeRes
	if timestepMicros != nil {
		timestep = *timestepMicros
	}
	if timestep < MinTimeResMicros {
		return nil, badInput("timestep %dus is below the minimum of %dus", timestep, int64(MinTimeResMicros))
	}
	if timestep < e.timeRes {
		e.timeRes = timestep
	}

	started := time.Now()
	target := e.time + timestep
	for e.time < target {
		subDt := e.timeRes
		if e.time+subDt > target {
			subDt = target - e.time
		}
		e.substep(subDt)
		e.time += subDt
	}
	if e.metrics != nil {
		e.metrics.ObserveStep(time.Since(started).Seconds())
	}
	return e.CurrentPressures(), nil
}

// substep applies one explicit-Euler update of duration dtMicros to every
// unfixed, non-ATM node: pressure moves toward each neighbor in proportion
// to the connecting edge's flow coefficient and the pressure difference.
// All updates are computed from the pre-step snapshot before any are
// written back, so within a substep node order never matters.
func (e *Engine) substep(dtMicros int64) {
	dt := float64(dtMicros)
	next := make(map[string]float64, len(e.nodeBodies))

	for node, body := range e.nodeBodies {
		if node == ATM {
			continue
		}
		if _, fixed := e.fixedPressures[node]; fixed {
			continue
		}
		pressure := body.Pressure()
		delta := 0.0
		for _, edge := range e.plumbingGraph.OutEdges(node) {
			neighbor := e.nodeBodies[edge.To].Pressure()
			if pressure > neighbor {
				delta -= edge.FC * (pressure - neighbor)
			}
		}
		for _, edge := range e.plumbingGraph.InEdges(node) {
			neighbor := e.nodeBodies[edge.From].Pressure()
			if neighbor > pressure {
				delta += edge.FC * (neighbor - pressure)
			}
		}
		next[node] = pressure + delta*dt
	}

	for node, pressure := range next {
		e.nodeBodies[node].SetPressure(pressure)
	}
}

// Solve steps the engine until every node's pressure changes by less than
// minDeltaPerSec per second across ConvergenceWindow consecutive snapshots,
// or until maxTimeSec elapses, and returns the final pressures.
func (e *Engine) Solve(minDeltaPerSec, maxTimeSec float64) (map[string]float64, error) {
	trace, err := e.solve(minDeltaPerSec, maxTimeSec, e.timeRes)
	if err != nil {
		return nil, err
	}
	return trace[len(trace)-1], nil
}

// SolveTrace behaves like Solve but also returns every intermediate
// snapshot taken every returnResolutionMicros, which must be a multiple of
// the engine's time_res.
func (e *Engine) SolveTrace(minDeltaPerSec, maxTimeSec float64, returnResolutionMicros int64) ([]map[string]float64, error) {
	if returnResolutionMicros < e.timeRes || returnResolutionMicros%e.timeRes != 0 {
		return nil, badInput("return resolution %dus must be a positive multiple of time_res (%dus)", returnResolutionMicros, e.timeRes)
	}
	return e.solve(minDeltaPerSec, maxTimeSec, returnResolutionMicros)
}

func (e *Engine) solve(minDeltaPerSec, maxTimeSec float64, snapshotEveryMicros int64) ([]map[string]float64, error) {
	if maxTimeSec <= 0 {
		return nil, badInput("max time %vs must be positive", maxTimeSec)
	}
	maxTimeMicros := SToMicros(maxTimeSec)

	trace := []map[string]float64{e.CurrentPressures()}
	elapsed := int64(0)
	for elapsed < maxTimeMicros {
		step := snapshotEveryMicros
		if elapsed+step > maxTimeMicros {
			step = maxTimeMicros - elapsed
		}
		pressures, err := e.Step(&step)
		if err != nil {
			return nil, err
		}
		trace = append(trace, pressures)
		elapsed += step

		if AllConverged(trace, snapshotEveryMicros, minDeltaPerSec) {
			return trace, nil
		}
	}
	return trace, nil
}
