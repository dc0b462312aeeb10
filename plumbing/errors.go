package plumbing

import (
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"
)

// Hard, synchronous errors returned directly by mutation and simulation calls.
var (
	// ErrBadInput is returned by mutation calls given unknown components,
	// nodes, states, edges, or out-of-range numeric input.
	ErrBadInput = errors.New("plumbing: bad input")

	// ErrInvalidEngine is returned by Step/Solve when called on an empty
	// graph or an engine whose ErrorSet is non-empty.
	ErrInvalidEngine = errors.New("plumbing: invalid engine")

	// ErrComponentNotReversible is returned by ReverseOrientation when the
	// named component does not have exactly two edges.
	ErrComponentNotReversible = errors.New("plumbing: component is not reversible")

	// ErrUnknownNode is returned by SetPressure when the named node has
	// never been introduced into the graph by any component. Construction
	// re-raises this even under PolicyAccumulate; it is never merely
	// recorded in the ErrorSet.
	ErrUnknownNode = errors.New("plumbing: node not found in graph")
)

// badInput wraps ErrBadInput with a message, keeping errors.Is(err,
// ErrBadInput) working for callers.
func badInput(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrBadInput)
}

// EngineError is a recoverable validation record accumulated in an
// ErrorSet. Construction never aborts on one of these; stepping does.
type EngineError interface {
	error
	// Key returns a string that uniquely identifies the *condition* this
	// error reports, used by ErrorSet to deduplicate.
	Key() string
	// Component returns the offending component name, if any.
	Component() (string, bool)
	// Node returns the offending node name, if any.
	Node() (string, bool)
}

type baseError struct {
	ID            string
	Message       string
	componentName string
	hasComponent  bool
	nodeName      string
	hasNode       bool
}

func newBaseError(message string) baseError {
	id, err := uuid.NewV4()
	idStr := ""
	if err == nil {
		idStr = id.String()
	}
	return baseError{ID: idStr, Message: message}
}

func (e baseError) Error() string { return e.Message }

func (e baseError) Component() (string, bool) { return e.componentName, e.hasComponent }
func (e baseError) Node() (string, bool)      { return e.nodeName, e.hasNode }

// InvalidComponent records that a named component failed PlumbingComponent
// validation.
type InvalidComponent struct {
	baseError
}

// NewInvalidComponent builds an InvalidComponent error for name.
func NewInvalidComponent(name string) *InvalidComponent {
	e := &InvalidComponent{newBaseError(fmt.Sprintf(
		"component %q is not valid; cannot be loaded in until errors are resolved", name))}
	e.componentName, e.hasComponent = name, true
	return e
}

func (e *InvalidComponent) Key() string { return "InvalidComponent:" + e.componentName }

// InvalidComponentName records that a component name was missing from the
// mapping or initial-states dict at load time, or that the initial state
// given for it is not one of the component's states.
type InvalidComponentName struct {
	baseError
}

// NewInvalidComponentName builds an InvalidComponentName error for name.
func NewInvalidComponentName(name, reason string) *InvalidComponentName {
	e := &InvalidComponentName{newBaseError(fmt.Sprintf(
		"component %q: %s", name, reason))}
	e.componentName, e.hasComponent = name, true
	return e
}

func (e *InvalidComponentName) Key() string { return "InvalidComponentName:" + e.componentName }

// InvalidComponentNode records that a component-internal node had no entry
// in the component's mapping.
type InvalidComponentNode struct {
	baseError
	ComponentNode string
}

// NewInvalidComponentNode builds an InvalidComponentNode error.
func NewInvalidComponentNode(componentName, componentNode string) *InvalidComponentNode {
	e := &InvalidComponentNode{
		baseError: newBaseError(fmt.Sprintf(
			"component %q: node %q not found in mapping", componentName, componentNode)),
		ComponentNode: componentNode,
	}
	e.componentName, e.hasComponent = componentName, true
	return e
}

func (e *InvalidComponentNode) Key() string {
	return "InvalidComponentNode:" + e.componentName + ":" + e.ComponentNode
}

// InvalidNodePressure records that an initial pressure entry for a global
// node was malformed.
type InvalidNodePressure struct {
	baseError
}

// NewInvalidNodePressure builds an InvalidNodePressure error.
func NewInvalidNodePressure(nodeName, reason string) *InvalidNodePressure {
	e := &InvalidNodePressure{newBaseError(fmt.Sprintf(
		"node %q: %s", nodeName, reason))}
	e.nodeName, e.hasNode = nodeName, true
	return e
}

func (e *InvalidNodePressure) Key() string { return "InvalidNodePressure:" + e.nodeName }

// DuplicateError wraps a second occurrence of an already-recorded error so
// that ErrorSet can still cascade its removal when the original's
// component or node is removed from the engine.
type DuplicateError struct {
	baseError
	Original EngineError
}

func newDuplicateError(original EngineError) *DuplicateError {
	e := &DuplicateError{
		baseError: newBaseError(original.Error()),
		Original:  original,
	}
	e.componentName, e.hasComponent = original.Component()
	e.nodeName, e.hasNode = original.Node()
	return e
}

func (e *DuplicateError) Key() string { return "Duplicate:" + e.Original.Key() }

// ErrorSet is an insertion-ordered, deduplicated collection of EngineError
// records, so diagnostics are reproducible across runs regardless of map
// iteration order.
type ErrorSet struct {
	order []EngineError
	index map[string]int // Key() -> index into order
}

// NewErrorSet returns an empty ErrorSet.
func NewErrorSet() *ErrorSet {
	return &ErrorSet{index: make(map[string]int)}
}

// Add inserts err, wrapping it in a DuplicateError if an error with the
// same Key() is already present.
func (s *ErrorSet) Add(err EngineError) {
	if idx, exists := s.index[err.Key()]; exists {
		dup := newDuplicateError(s.order[idx])
		s.appendUnique(dup)
		return
	}
	s.appendUnique(err)
}

func (s *ErrorSet) appendUnique(err EngineError) {
	s.index[err.Key()] = len(s.order)
	s.order = append(s.order, err)
}

// Len returns the number of stored errors.
func (s *ErrorSet) Len() int { return len(s.order) }

// Clear empties the set.
func (s *ErrorSet) Clear() {
	s.order = nil
	s.index = make(map[string]int)
}

// All returns a defensive copy of the errors, in insertion order.
func (s *ErrorSet) All() []EngineError {
	out := make([]EngineError, len(s.order))
	copy(out, s.order)
	return out
}

// ResolveComponent drops every error naming componentName, every error
// naming a node no longer present in liveNodes, and every DuplicateError
// whose Original was just dropped by either of those two rules.
func (s *ErrorSet) ResolveComponent(componentName string, liveNodes map[string]struct{}) {
	removed := make(map[string]struct{})
	var kept []EngineError

	for _, err := range s.order {
		if name, ok := err.Component(); ok && name == componentName {
			removed[err.Key()] = struct{}{}
			continue
		}
		if node, ok := err.Node(); ok {
			if _, alive := liveNodes[node]; !alive {
				removed[err.Key()] = struct{}{}
				continue
			}
		}
		kept = append(kept, err)
	}

	var final []EngineError
	for _, err := range kept {
		if dup, ok := err.(*DuplicateError); ok {
			if _, gone := removed[dup.Original.Key()]; gone {
				continue
			}
		}
		final = append(final, err)
	}

	s.order = final
	s.index = make(map[string]int, len(final))
	for i, err := range final {
		s.index[err.Key()] = i
	}
}
