package pdl

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/nozzleworks/topside/plumbing"
)

// buildComponent turns one decoded component entry into a plumbing
// component, folding the edge name into extractEdges's direction suffix to
// produce a key that is unique across the whole component ("edge1_fwd",
// "edge2_back2", and so on).
func buildComponent(entry componentEntry) (*plumbing.PlumbingComponent, error) {
	if entry.Name == "" {
		return nil, badInput("component entry is missing a name")
	}

	extracted, err := extractEdges(entry.Edges)
	if err != nil {
		return nil, fmt.Errorf("component %q: %w", entry.Name, err)
	}

	edgeNames := make([]string, 0, len(extracted))
	for name := range extracted {
		edgeNames = append(edgeNames, name)
	}
	sort.Strings(edgeNames)

	var edges []plumbing.EdgeSpec
	fwdTuples := make(map[string]plumbing.EdgeTuple, len(edgeNames))
	backTuples := make(map[string]plumbing.EdgeTuple, len(edgeNames))

	for _, name := range edgeNames {
		pair := extracted[name]
		fwd := plumbing.EdgeTuple{Src: pair.Fwd.Src, Dst: pair.Fwd.Dst, Key: name + "_" + pair.Fwd.Key}
		back := plumbing.EdgeTuple{Src: pair.Back.Src, Dst: pair.Back.Dst, Key: name + "_" + pair.Back.Key}
		edges = append(edges,
			plumbing.EdgeSpec{Src: fwd.Src, Dst: fwd.Dst, Key: fwd.Key},
			plumbing.EdgeSpec{Src: back.Src, Dst: back.Dst, Key: back.Key},
		)
		fwdTuples[name] = fwd
		backTuples[name] = back
	}

	stateNames := make([]string, 0, len(entry.States))
	for name := range entry.States {
		stateNames = append(stateNames, name)
	}
	sort.Strings(stateNames)
	if len(stateNames) == 0 {
		return nil, badInput("component %q defines no states", entry.Name)
	}

	states := make(map[string]plumbing.StateEdges, len(stateNames))
	for _, stateName := range stateNames {
		raw := entry.States[stateName]
		stateEdges := make(plumbing.StateEdges, len(raw)*2)
		for edgeName, value := range raw {
			fc, err := resolveFC(value)
			if err != nil {
				return nil, fmt.Errorf("component %q: state %q: edge %q: %w", entry.Name, stateName, edgeName, err)
			}
			fwd, ok := fwdTuples[edgeName]
			if !ok {
				return nil, badInput("component %q: state %q references unknown edge %q", entry.Name, stateName, edgeName)
			}
			stateEdges[fwd] = fc
			stateEdges[backTuples[edgeName]] = fc
		}
		states[stateName] = stateEdges
	}

	return plumbing.NewComponent(entry.Name, edges, states, stateNames[0]), nil
}

// resolveFC converts one PDL edge-state value into a resolved flow
// coefficient: the sentinel strings "closed"/"open" map to 0/FCMax, and any
// other value is treated as a teq in seconds.
func resolveFC(raw interface{}) (float64, error) {
	switch v := raw.(type) {
	case string:
		switch strings.ToLower(v) {
		case "closed":
			return 0, nil
		case "open":
			return plumbing.FCMax, nil
		default:
			return 0, badInput("unrecognized edge state sentinel %q", v)
		}
	case int:
		return teqSecondsToFC(float64(v))
	case int64:
		return teqSecondsToFC(float64(v))
	case float64:
		return teqSecondsToFC(v)
	default:
		return 0, badInput("edge state value must be a number or sentinel string, got %T", raw)
	}
}

// teqSecondsToFC converts a teq given in seconds to a flow coefficient. A
// teq below TeqMin does not get silently clamped to FCMax the way the
// engine's own runtime SetTeq path does: a too-low teq is legal to declare,
// but yields an infinite FC so PlumbingComponent.Validate catches it and
// the resulting engine reports itself invalid instead.
func teqSecondsToFC(teqSeconds float64) (float64, error) {
	if teqSeconds < 0 {
		return 0, badInput("teq %v seconds must be non-negative", teqSeconds)
	}
	teqMicros := plumbing.SToMicros(teqSeconds)
	if teqMicros < plumbing.TeqMin {
		return math.Inf(1), nil
	}
	return plumbing.TeqToFC(teqMicros), nil
}
