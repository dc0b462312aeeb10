package plumbing

import (
	"fmt"
	"math"
	"sort"

	"github.com/nozzleworks/topside/multigraph"
)

// EdgeTuple identifies one directed edge by its component-local (src, dst,
// key) triple. It is deliberately a plain comparable struct rather than a
// Go array-of-interface{} "tuple": current_FC must treat an EdgeTuple as an
// atomic edge identifier and never flatten it into three separate
// arguments, the way the original's variadic flatten() special-cased tuples.
type EdgeTuple struct {
	Src string
	Dst string
	Key string
}

func (e EdgeTuple) String() string {
	return fmt.Sprintf("(%s, %s, %s)", e.Src, e.Dst, e.Key)
}

// StateEdges maps every edge of a component to the flow coefficient it
// carries while that state is active. Values are already-resolved FCs (see
// pdl.resolveFC for the CLOSED/OPEN/teq-in-seconds translation); this package
// never sees the PDL-level sentinels.
type StateEdges map[EdgeTuple]float64

// EdgeSpec declares one internal edge when constructing a component.
type EdgeSpec struct {
	Src string
	Dst string
	Key string
}

// PlumbingComponent is an immutable-by-convention, named, stateful
// sub-graph: a set of internal nodes and keyed edges, plus a map of
// state name to the FC each edge carries in that state.
type PlumbingComponent struct {
	Name         string
	Graph        *multigraph.Graph
	States       map[string]StateEdges
	CurrentState string

	buildErrs []error
}

// NewComponent builds a component from its internal edge list and per-state
// FC maps. Internal node ids are always strings; PDL is responsible for
// stringifying integer node ids before calling this constructor.
func NewComponent(name string, edges []EdgeSpec, states map[string]StateEdges, currentState string) *PlumbingComponent {
	g := multigraph.New()
	c := &PlumbingComponent{Name: name, Graph: g, States: states, CurrentState: currentState}

	for _, e := range edges {
		if err := g.AddEdge(e.Src, e.Dst, e.Key, 0); err != nil {
			c.buildErrs = append(c.buildErrs, fmt.Errorf("component %q: edge %s: %w", name, e.Key, err))
		}
	}
	return c
}

// IsValid reports whether Validate returns no errors.
func (c *PlumbingComponent) IsValid() bool {
	return len(c.Validate()) == 0
}

// Validate checks the component's structural invariants:
//
//   - the state set is non-empty;
//   - every state covers exactly the edges of the component graph (no
//     more, no fewer);
//   - every FC value is finite and non-negative;
//   - no edge key was duplicated while building the graph.
func (c *PlumbingComponent) Validate() []error {
	var errs []error
	errs = append(errs, c.buildErrs...)

	if len(c.States) == 0 {
		errs = append(errs, fmt.Errorf("component %q: has no states defined", c.Name))
		return errs
	}

	graphEdges := make(map[EdgeTuple]struct{})
	for _, e := range c.Graph.Edges() {
		graphEdges[EdgeTuple{Src: e.From, Dst: e.To, Key: e.Key}] = struct{}{}
	}

	stateNames := make([]string, 0, len(c.States))
	for name := range c.States {
		stateNames = append(stateNames, name)
	}
	sort.Strings(stateNames)

	for _, stateName := range stateNames {
		edges := c.States[stateName]
		seen := make(map[EdgeTuple]struct{}, len(edges))
		for tuple, fc := range edges {
			seen[tuple] = struct{}{}
			if _, ok := graphEdges[tuple]; !ok {
				errs = append(errs, fmt.Errorf(
					"component %q: state %q references edge %s not in component graph",
					c.Name, stateName, tuple))
			}
			if math.IsNaN(fc) || math.IsInf(fc, 0) || fc < 0 {
				errs = append(errs, fmt.Errorf(
					"component %q: state %q: edge %s has invalid FC %v",
					c.Name, stateName, tuple, fc))
			}
		}
		for tuple := range graphEdges {
			if _, ok := seen[tuple]; !ok {
				errs = append(errs, fmt.Errorf(
					"component %q: state %q does not cover edge %s",
					c.Name, stateName, tuple))
			}
		}
	}

	return errs
}

// Clone returns a deep copy sharing no mutable state with the original.
func (c *PlumbingComponent) Clone() *PlumbingComponent {
	states := make(map[string]StateEdges, len(c.States))
	for name, edges := range c.States {
		cp := make(StateEdges, len(edges))
		for k, v := range edges {
			cp[k] = v
		}
		states[name] = cp
	}
	return &PlumbingComponent{
		Name:         c.Name,
		Graph:        c.Graph.Clone(),
		States:       states,
		CurrentState: c.CurrentState,
		buildErrs:    append([]error(nil), c.buildErrs...),
	}
}
