package plumbing

// Reset rewinds the simulation clock to zero. When resetComponent is true,
// it fully rebuilds the network from the inputs most recently passed to
// LoadGraph, discarding every component added or removed since then. When
// resetComponent is false, the current component set and mapping are left
// untouched (so components added since construction survive); instead,
// every component and node still present in the engine that was also part
// of the initial snapshot has its state and pressure reset back to that
// snapshot's value. A component or node added after construction has no
// entry in the initial snapshot and so keeps its current state.
func (e *Engine) Reset(resetComponent bool) error {
	if resetComponent {
		return e.LoadGraph(e.initialComponents, e.initialMapping, e.initialPressure, e.initialState)
	}

	e.time = 0

	for name := range e.componentDict {
		state, ok := e.initialState[name]
		if !ok {
			continue
		}
		if err := e.SetComponentState(name, state); err != nil {
			return err
		}
	}
	for node, ip := range e.initialPressure {
		if !e.plumbingGraph.HasNode(node) {
			continue
		}
		if err := e.SetPressure(node, ip.Pressure, ip.Fixed); err != nil {
			return err
		}
	}
	return nil
}
