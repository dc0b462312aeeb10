package plumbing

import (
	"sort"
	"strings"

	"github.com/nozzleworks/topside/multigraph"
)

// TimeRes returns the engine's current adaptive integration step, in
// microseconds.
func (e *Engine) TimeRes() int64 {
	return e.timeRes
}

// CurrentStates returns the active state name of every component.
func (e *Engine) CurrentStates() map[string]string {
	out := make(map[string]string, len(e.componentDict))
	for name, component := range e.componentDict {
		out[name] = component.CurrentState
	}
	return out
}

// CurrentState returns the active state name of one component.
func (e *Engine) CurrentState(name string) (string, error) {
	component, ok := e.componentDict[name]
	if !ok {
		return "", badInput("component %q not found in component dict", name)
	}
	return component.CurrentState, nil
}

// CurrentStatesOf returns the active state of each named component.
func (e *Engine) CurrentStatesOf(names ...string) (map[string]string, error) {
	out := make(map[string]string, len(names))
	for _, name := range names {
		state, err := e.CurrentState(name)
		if err != nil {
			return nil, err
		}
		out[name] = state
	}
	return out, nil
}

// CurrentPressures returns every node's current pressure.
func (e *Engine) CurrentPressures() map[string]float64 {
	out := make(map[string]float64, len(e.nodeBodies))
	for node, body := range e.nodeBodies {
		out[node] = body.Pressure()
	}
	return out
}

// CurrentPressure returns one node's current pressure.
func (e *Engine) CurrentPressure(node string) (float64, error) {
	body, ok := e.nodeBodies[node]
	if !ok {
		return 0, badInput("node %q not found in graph", node)
	}
	return body.Pressure(), nil
}

// CurrentPressuresOf returns the current pressure of each named node.
func (e *Engine) CurrentPressuresOf(nodes ...string) (map[string]float64, error) {
	out := make(map[string]float64, len(nodes))
	for _, node := range nodes {
		pressure, err := e.CurrentPressure(node)
		if err != nil {
			return nil, err
		}
		out[node] = pressure
	}
	return out, nil
}

// CurrentFC returns the flow coefficient of a single global edge, named by
// its global key ("<component>.<edge key>").
func (e *Engine) CurrentFC(edgeKey string) (float64, error) {
	edge, err := e.plumbingGraph.Edge(edgeKey)
	if err != nil {
		return 0, badInput("edge %q not found in graph", edgeKey)
	}
	return edge.FC, nil
}

// ComponentFCs returns the flow coefficient of every edge contributed by
// the named component, keyed by global edge key.
func (e *Engine) ComponentFCs(componentName string) (map[string]float64, error) {
	if _, ok := e.componentDict[componentName]; !ok {
		return nil, badInput("component %q not found in component dict", componentName)
	}
	prefix := componentName + "."
	out := make(map[string]float64)
	for _, edge := range e.plumbingGraph.Edges() {
		if strings.HasPrefix(edge.Key, prefix) {
			out[edge.Key] = edge.FC
		}
	}
	return out, nil
}

// CurrentFCsOf returns the flow coefficients named by identifiers, each of
// which is either a global edge key or a component name (expanded to every
// edge that component contributes).
func (e *Engine) CurrentFCsOf(identifiers ...string) (map[string]float64, error) {
	out := make(map[string]float64)
	for _, id := range identifiers {
		if _, ok := e.componentDict[id]; ok {
			fcs, err := e.ComponentFCs(id)
			if err != nil {
				return nil, err
			}
			for key, fc := range fcs {
				out[key] = fc
			}
			continue
		}
		fc, err := e.CurrentFC(id)
		if err != nil {
			return nil, err
		}
		out[id] = fc
	}
	return out, nil
}

// Errors returns every recoverable error currently recorded, in insertion
// order.
func (e *Engine) Errors() []EngineError {
	return e.errorSet.All()
}

// IsValid reports whether the engine has no recorded recoverable errors.
func (e *Engine) IsValid() bool {
	return e.errorSet.Len() == 0
}

// Nodes returns every global node id, sorted.
func (e *Engine) Nodes() []string {
	return e.plumbingGraph.Nodes()
}

// Edges returns every global edge.
func (e *Engine) Edges() []multigraph.Edge {
	return e.plumbingGraph.Edges()
}

// Components returns a defensive deep copy of the component dict, keyed by
// name.
func (e *Engine) Components() map[string]*PlumbingComponent {
	return cloneComponentDict(e.componentDict)
}

// ListToggles returns the names of every loaded component that has more
// than one state, i.e. every component whose state can meaningfully be
// toggled (a two-position valve, a three-position valve, and so on).
func (e *Engine) ListToggles() []string {
	var toggles []string
	for name, component := range e.componentDict {
		if len(component.States) > 1 {
			toggles = append(toggles, name)
		}
	}
	sort.Strings(toggles)
	return toggles
}
