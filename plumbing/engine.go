package plumbing

import (
	"sort"

	"github.com/nozzleworks/topside/metrics"
	"github.com/nozzleworks/topside/multigraph"
)

// FailurePolicy controls whether a mutation that hits a recoverable problem
// (an unmapped node, an unknown state) raises a hard error or records it in
// the Engine's ErrorSet and keeps going. Construction and Reset always use
// PolicyAccumulate; direct calls to AddComponent use PolicyRaise.
type FailurePolicy int

const (
	// PolicyRaise returns the first recoverable problem as a hard error.
	PolicyRaise FailurePolicy = iota
	// PolicyAccumulate records recoverable problems in the ErrorSet and
	// continues.
	PolicyAccumulate
)

// InitialPressure is one entry of the initial-pressures input: a pressure
// value and whether it should be pinned (fixed) from the start.
type InitialPressure struct {
	Pressure float64
	Fixed    bool
}

// Engine is the mutable global network: a composed multigraph.Graph whose
// nodes carry NodeBody pressure cells and whose edges are contributed by
// named PlumbingComponent instances through a per-component node mapping.
type Engine struct {
	plumbingGraph  *multigraph.Graph
	nodeBodies     map[string]*NodeBody
	componentDict  map[string]*PlumbingComponent
	mapping        map[string]map[string]string // component name -> component-local node -> global node
	fixedPressures map[string]float64
	timeRes        int64
	time           int64
	errorSet       *ErrorSet

	// Retained verbatim from the most recent LoadGraph call so Reset can
	// rebuild the network from scratch without the caller re-supplying it.
	initialComponents map[string]*PlumbingComponent
	initialMapping    map[string]map[string]string
	initialPressure   map[string]InitialPressure
	initialState      map[string]string

	metrics *metrics.Recorder
}

// EngineOption configures an Engine at construction time.
type EngineOption func(e *Engine)

// WithMetrics attaches Prometheus instrumentation labeled with name: every
// Step call reports its duration and every ErrorSet.Add reports a count.
func WithMetrics(name string) EngineOption {
	return func(e *Engine) { e.metrics = metrics.NewRecorder(name) }
}

// New builds an Engine from a component set, a per-component node mapping,
// a set of initial pressures, and a set of initial per-component states.
// It returns ErrBadInput if any initial-pressure entry names a node that
// the component set never introduces; all other recoverable problems are
// recorded in the Engine's ErrorSet instead of failing construction.
func New(
	components map[string]*PlumbingComponent,
	mapping map[string]map[string]string,
	initialPressures map[string]InitialPressure,
	initialStates map[string]string,
	opts ...EngineOption,
) (*Engine, error) {
	e := &Engine{errorSet: NewErrorSet()}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.LoadGraph(components, mapping, initialPressures, initialStates); err != nil {
		return nil, err
	}
	return e, nil
}

// LoadGraph replaces the Engine's entire network: it deep-copies its inputs,
// rebuilds the graph and node bodies from scratch, and repopulates the
// ErrorSet.
func (e *Engine) LoadGraph(
	components map[string]*PlumbingComponent,
	mapping map[string]map[string]string,
	initialPressures map[string]InitialPressure,
	initialStates map[string]string,
) error {
	e.initialComponents = cloneComponentDict(components)
	e.initialMapping = cloneMapping(mapping)
	e.initialPressure = clonePressures(initialPressures)
	e.initialState = cloneStates(initialStates)

	e.componentDict = cloneComponentDict(components)
	e.mapping = cloneMapping(mapping)
	e.plumbingGraph = multigraph.New()
	e.nodeBodies = make(map[string]*NodeBody)
	e.fixedPressures = make(map[string]float64)
	e.timeRes = DefaultTimeResolutionMicros
	e.time = 0
	if e.errorSet == nil {
		e.errorSet = NewErrorSet()
	}
	e.errorSet.Clear()

	e.plumbingGraph.AddNode(ATM)
	e.nodeBodies[ATM] = NewNodeBody()

	names := make([]string, 0, len(e.componentDict))
	for name := range e.componentDict {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		component := e.componentDict[name]
		if !component.IsValid() {
			e.recordError(NewInvalidComponent(name))
		}

		componentMapping, hasMapping := e.mapping[name]
		if !hasMapping {
			e.recordError(NewInvalidComponentName(name, "not found in mapping dict"))
		}
		stateID, hasState := initialStates[name]
		if !hasState {
			e.recordError(NewInvalidComponentName(name, "not found in initial states dict"))
		}
		if !hasMapping || !hasState {
			continue
		}

		globalTargets := make(map[string]struct{}, len(componentMapping))
		for _, globalNode := range componentMapping {
			globalTargets[globalNode] = struct{}{}
		}
		nodePressures := make(map[string]InitialPressure)
		for node, pressure := range initialPressures {
			if _, ok := globalTargets[node]; ok {
				nodePressures[node] = pressure
			}
		}

		if err := e.addComponent(component, componentMapping, stateID, nodePressures, PolicyAccumulate); err != nil {
			return err
		}
	}

	for node := range initialPressures {
		if !e.plumbingGraph.HasNode(node) {
			return badInput("node %q is not introduced by any component", node)
		}
	}
	return nil
}

// recordError adds err to the ErrorSet and reports it to the attached
// metrics recorder, if any.
func (e *Engine) recordError(err EngineError) {
	e.errorSet.Add(err)
	if e.metrics != nil {
		e.metrics.ObserveErrorRecorded()
	}
}

// publishTimeRes reports the current time_res to the attached metrics
// recorder, if any.
func (e *Engine) publishTimeRes() {
	if e.metrics != nil {
		e.metrics.SetTimeRes(e.timeRes)
	}
}

func cloneComponentDict(in map[string]*PlumbingComponent) map[string]*PlumbingComponent {
	out := make(map[string]*PlumbingComponent, len(in))
	for name, c := range in {
		out[name] = c.Clone()
	}
	return out
}

func cloneMapping(in map[string]map[string]string) map[string]map[string]string {
	out := make(map[string]map[string]string, len(in))
	for name, m := range in {
		out[name] = cloneNodeMap(m)
	}
	return out
}

func cloneNodeMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func clonePressures(in map[string]InitialPressure) map[string]InitialPressure {
	out := make(map[string]InitialPressure, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneStates(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
