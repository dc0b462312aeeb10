package pdl

import (
	"fmt"
	"sort"

	"github.com/mitchellh/mapstructure"

	"github.com/nozzleworks/topside/plumbing"
)

type edgeEntry struct {
	Nodes []interface{} `mapstructure:"nodes"`
}

type componentEntry struct {
	Name   string                            `mapstructure:"name"`
	Edges  map[string]edgeEntry              `mapstructure:"edges"`
	States map[string]map[string]interface{} `mapstructure:"states"`
}

type graphNodeEntry struct {
	FixedPressure   *float64        `mapstructure:"fixed_pressure"`
	InitialPressure *float64        `mapstructure:"initial_pressure"`
	Components      [][]interface{} `mapstructure:"components"`
}

type graphEntry struct {
	Name   string                    `mapstructure:"name"`
	Nodes  map[string]graphNodeEntry `mapstructure:"nodes"`
	States map[string]string         `mapstructure:"states"`
}

func decodeComponentEntry(raw interface{}) (componentEntry, error) {
	var out componentEntry
	if err := mapstructure.Decode(raw, &out); err != nil {
		return out, fmt.Errorf("decoding component entry: %v: %w", err, ErrBadInput)
	}
	return out, nil
}

func decodeGraphEntry(raw interface{}) (graphEntry, error) {
	var out graphEntry
	if err := mapstructure.Decode(raw, &out); err != nil {
		return out, fmt.Errorf("decoding graph entry: %v: %w", err, ErrBadInput)
	}
	return out, nil
}

// extractedEdge is the canonicalized forward/back direction pair for one
// named edge, before buildComponent folds the edge name into the key.
type extractedEdge struct {
	Fwd  plumbing.EdgeTuple
	Back plumbing.EdgeTuple
}

// extractEdges canonicalizes every entry in edges into a directed pair,
// (a, b, "fwd") and (b, a, "back"). When the same unordered pair of nodes
// is named by more than one edge, later occurrences are disambiguated with
// "fwd2"/"back2", "fwd3"/"back3", and so on. Edge names are visited in
// sorted order so the numbering is deterministic.
func extractEdges(edges map[string]edgeEntry) (map[string]extractedEdge, error) {
	names := make([]string, 0, len(edges))
	for name := range edges {
		names = append(names, name)
	}
	sort.Strings(names)

	pairCount := make(map[[2]string]int, len(edges))
	out := make(map[string]extractedEdge, len(edges))

	for _, name := range names {
		nodes := edges[name].Nodes
		if len(nodes) != 2 {
			return nil, badInput("edge %q must name exactly two nodes, got %d", name, len(nodes))
		}
		a, b := fmt.Sprint(nodes[0]), fmt.Sprint(nodes[1])

		pair := [2]string{a, b}
		if a > b {
			pair = [2]string{b, a}
		}
		pairCount[pair]++

		suffix := ""
		if n := pairCount[pair]; n > 1 {
			suffix = fmt.Sprint(n)
		}

		out[name] = extractedEdge{
			Fwd:  plumbing.EdgeTuple{Src: a, Dst: b, Key: "fwd" + suffix},
			Back: plumbing.EdgeTuple{Src: b, Dst: a, Key: "back" + suffix},
		}
	}
	return out, nil
}
