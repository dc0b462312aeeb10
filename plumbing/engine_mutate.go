package plumbing

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// AddComponent wires a component into the graph under the given node
// mapping and initial state, applying any initial pressures whose node
// names appear in mapping's values. Recoverable problems (an edge endpoint
// missing from mapping) are returned as ErrBadInput; call addComponent
// directly with PolicyAccumulate to record them instead.
func (e *Engine) AddComponent(
	component *PlumbingComponent,
	mapping map[string]string,
	stateID string,
	pressures map[string]InitialPressure,
) error {
	return e.addComponent(component, mapping, stateID, pressures, PolicyRaise)
}

func (e *Engine) addComponent(
	component *PlumbingComponent,
	mapping map[string]string,
	stateID string,
	pressures map[string]InitialPressure,
	policy FailurePolicy,
) error {
	if policy == PolicyRaise && !component.IsValid() {
		return badInput("component %q is not valid; all errors must be resolved before loading in", component.Name)
	}

	name := component.Name
	owned := component.Clone()
	e.componentDict[name] = owned
	e.mapping[name] = cloneNodeMap(mapping)

	for _, edge := range owned.Graph.Edges() {
		globalStart, startOK := mapping[edge.From]
		if !startOK {
			if policy != PolicyAccumulate {
				return badInput("component %q: node %q not found in mapping", name, edge.From)
			}
			e.recordError(NewInvalidComponentNode(name, edge.From))
		}
		globalEnd, endOK := mapping[edge.To]
		if !endOK {
			if policy != PolicyAccumulate {
				return badInput("component %q: node %q not found in mapping", name, edge.To)
			}
			e.recordError(NewInvalidComponentNode(name, edge.To))
		}
		if !startOK || !endOK {
			continue
		}

		key := name + "." + edge.Key
		if err := e.plumbingGraph.AddEdge(globalStart, globalEnd, key, 0); err != nil {
			return fmt.Errorf("component %q: %w: %w", name, err, ErrBadInput)
		}
		for _, node := range [2]string{globalStart, globalEnd} {
			if _, exists := e.nodeBodies[node]; !exists {
				e.nodeBodies[node] = NewNodeBody()
			}
		}
	}

	e.setTimeRes(name)

	if err := e.setComponentState(name, stateID); err != nil {
		if policy != PolicyAccumulate {
			return err
		}
		e.recordError(NewInvalidComponentName(name, fmt.Sprintf("initial state %q not found in states dict", stateID)))
	}

	for node, ip := range pressures {
		if err := e.SetPressure(node, ip.Pressure, ip.Fixed); err != nil {
			if errors.Is(err, ErrUnknownNode) {
				return err
			}
			if policy != PolicyAccumulate {
				return err
			}
			e.recordError(NewInvalidNodePressure(node, err.Error()))
		}
	}
	return nil
}

// SetComponentState activates state on the named component, updating every
// edge's flow coefficient in the global graph. An edge whose component-local
// endpoint is not in the component's mapping is recorded in the ErrorSet
// rather than failing the call.
func (e *Engine) SetComponentState(name, state string) error {
	return e.setComponentState(name, state)
}

func (e *Engine) setComponentState(name, state string) error {
	componentMapping, ok := e.mapping[name]
	if !ok {
		return badInput("component %q not found in mapping dict", name)
	}
	component, ok := e.componentDict[name]
	if !ok {
		return badInput("component %q not found in component dict", name)
	}
	stateEdges, ok := component.States[state]
	if !ok {
		return badInput("state %q not found in component %q states dict", state, name)
	}

	component.CurrentState = state

	for tuple, fc := range stateEdges {
		globalStart, startOK := componentMapping[tuple.Src]
		globalEnd, endOK := componentMapping[tuple.Dst]
		if !startOK {
			e.recordError(NewInvalidComponentNode(name, tuple.Src))
		}
		if !endOK {
			e.recordError(NewInvalidComponentNode(name, tuple.Dst))
		}
		if !startOK || !endOK {
			continue
		}
		_ = e.plumbingGraph.SetFC(name+"."+tuple.Key, fc)
	}
	return nil
}

// RemoveComponent drops a component's edges from the global graph, prunes
// any node left with no remaining edges (ATM excepted), resolves every
// ErrorSet entry that named the removed component or a pruned node, and
// recomputes time_res from the remaining components.
func (e *Engine) RemoveComponent(name string) error {
	if _, ok := e.componentDict[name]; !ok {
		return badInput("component %q not found in component dict", name)
	}

	prefix := name + "."
	for _, edge := range e.plumbingGraph.Edges() {
		if strings.HasPrefix(edge.Key, prefix) {
			e.plumbingGraph.RemoveEdge(edge.Key)
		}
	}
	e.pruneIsolatedExceptATM()

	live := make(map[string]struct{})
	for _, node := range e.plumbingGraph.Nodes() {
		live[node] = struct{}{}
	}
	for node := range e.nodeBodies {
		if _, ok := live[node]; !ok {
			delete(e.nodeBodies, node)
			delete(e.fixedPressures, node)
		}
	}

	e.errorSet.ResolveComponent(name, live)
	delete(e.mapping, name)
	delete(e.componentDict, name)

	e.timeRes = DefaultTimeResolutionMicros
	remaining := make([]string, 0, len(e.componentDict))
	for cname := range e.componentDict {
		remaining = append(remaining, cname)
	}
	for _, cname := range remaining {
		e.setTimeRes(cname)
	}
	e.publishTimeRes()
	return nil
}

func (e *Engine) pruneIsolatedExceptATM() {
	for _, node := range e.plumbingGraph.Nodes() {
		if node == ATM {
			continue
		}
		if e.plumbingGraph.Degree(node) == 0 {
			e.plumbingGraph.RemoveNode(node)
		}
	}
}

// ReverseOrientation swaps the flow coefficients of a two-edge component's
// pair of edges, used to flip a check valve's forward/backward direction
// without redeclaring its states.
func (e *Engine) ReverseOrientation(name string) error {
	component, ok := e.componentDict[name]
	if !ok {
		return badInput("component %q not found in component dict", name)
	}
	if len(component.Graph.Edges()) != 2 {
		return fmt.Errorf("component %q must have exactly two edges to be reversed: %w", name, ErrComponentNotReversible)
	}

	prefix := name + "."
	var globalKeys []string
	for _, edge := range e.plumbingGraph.Edges() {
		if strings.HasPrefix(edge.Key, prefix) {
			globalKeys = append(globalKeys, edge.Key)
		}
	}
	if len(globalKeys) != 2 {
		return fmt.Errorf("component %q must have exactly two edges to be reversed: %w", name, ErrComponentNotReversible)
	}

	first, err := e.plumbingGraph.Edge(globalKeys[0])
	if err != nil {
		return fmt.Errorf("component %q: %w: %w", name, err, ErrBadInput)
	}
	second, err := e.plumbingGraph.Edge(globalKeys[1])
	if err != nil {
		return fmt.Errorf("component %q: %w: %w", name, err, ErrBadInput)
	}
	_ = e.plumbingGraph.SetFC(globalKeys[0], second.FC)
	_ = e.plumbingGraph.SetFC(globalKeys[1], first.FC)
	return nil
}

// SetPressure sets a global node's pressure and fixed flag. ATM must always
// stay at pressure 0. Setting fixed to true pins the node so Step and Solve
// never integrate it.
func (e *Engine) SetPressure(node string, pressure float64, fixed bool) error {
	if math.IsNaN(pressure) || math.IsInf(pressure, 0) {
		return badInput("pressure %v must be a finite number", pressure)
	}
	if pressure < 0 {
		return badInput("pressure %v must not be negative", pressure)
	}
	if !e.plumbingGraph.HasNode(node) {
		return fmt.Errorf("node %q not found in graph: %w: %w", node, ErrUnknownNode, ErrBadInput)
	}
	if node == ATM && pressure != 0 {
		return badInput("pressure for atmosphere node %q must be 0", ATM)
	}

	body, ok := e.nodeBodies[node]
	if !ok {
		body = NewNodeBody()
		e.nodeBodies[node] = body
	}
	body.SetPressure(pressure)
	body.SetFixed(fixed)
	if fixed {
		e.fixedPressures[node] = pressure
	} else {
		delete(e.fixedPressures, node)
	}
	return nil
}

// SetTeq rewrites the equilibration times of one or more edges within one
// or more of a component's states, given in seconds. which maps state name
// to a map of component-local edge tuple to the new teq in seconds. If the
// component's currently active state is among the keys, the global graph's
// flow coefficients are refreshed immediately.
func (e *Engine) SetTeq(componentName string, which map[string]map[EdgeTuple]float64) error {
	component, ok := e.componentDict[componentName]
	if !ok {
		return badInput("component %q not found in component dict", componentName)
	}

	for stateID, edgeTeqs := range which {
		stateEdges, ok := component.States[stateID]
		if !ok {
			return badInput("state %q not found in component %q states dict", stateID, componentName)
		}
		for edge, teqSeconds := range edgeTeqs {
			if _, ok := stateEdges[edge]; !ok {
				return badInput("edge %s not found in component %q state %q", edge, componentName, stateID)
			}
			teqMicros := SToMicros(teqSeconds)
			if teqMicros < TeqMin {
				return badInput("teq %vs (component %q, state %q, edge %s) is below the minimum of %vs",
					teqSeconds, componentName, stateID, edge, MicrosToS(TeqMin))
			}
			stateEdges[edge] = TeqToFC(teqMicros)
		}
	}

	if _, activeChanged := which[component.CurrentState]; activeChanged {
		if err := e.setComponentState(componentName, component.CurrentState); err != nil {
			return err
		}
	}
	e.setTimeRes(componentName)
	return nil
}

// setTimeRes shrinks the engine's time_res to keep pace with the fastest
// (non-fully-open) edge contributed by the named component, never growing
// it back.
func (e *Engine) setTimeRes(componentName string) {
	component, ok := e.componentDict[componentName]
	if !ok {
		return
	}

	maxFC := TeqToFC(e.timeRes * DefaultResolutionScale)
	for _, state := range component.States {
		for _, fc := range state {
			if fc != FCMax && fc > maxFC {
				maxFC = fc
			}
		}
	}
	if maxFC != 0 {
		e.timeRes = FCToTeq(maxFC) / DefaultResolutionScale
	}
	e.publishTimeRes()
}
