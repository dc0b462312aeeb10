package pdl

import (
	"fmt"
	"sort"

	"github.com/nozzleworks/topside/plumbing"
)

const mainGraphName = "main"

// Parser assembles the import closure of a set of Files into the inputs a
// plumbing engine needs: components, a node mapping, initial pressures, and
// initial states.
type Parser struct {
	Components       map[string]*plumbing.PlumbingComponent
	Mapping          map[string]map[string]string
	InitialPressures map[string]plumbing.InitialPressure
	InitialStates    map[string]string
}

// NewParser resolves the import closure of files and assembles it into a
// Parser. Exactly one graph entry in the closure must be named "main".
func NewParser(files []*File) (*Parser, error) {
	p := &Parser{
		Components:       make(map[string]*plumbing.PlumbingComponent),
		Mapping:          make(map[string]map[string]string),
		InitialPressures: make(map[string]plumbing.InitialPressure),
		InitialStates:    make(map[string]string),
	}

	mainGraphs := 0
	for _, file := range resolveImportClosure(files) {
		for _, entry := range file.Body {
			switch {
			case entry["component"] != nil:
				ce, err := decodeComponentEntry(entry["component"])
				if err != nil {
					return nil, err
				}
				if _, exists := p.Components[ce.Name]; exists {
					return nil, badInput("component %q defined more than once", ce.Name)
				}
				component, err := buildComponent(ce)
				if err != nil {
					return nil, err
				}
				p.Components[ce.Name] = component

			case entry["graph"] != nil:
				ge, err := decodeGraphEntry(entry["graph"])
				if err != nil {
					return nil, err
				}
				if ge.Name == mainGraphName {
					mainGraphs++
				}
				if err := p.applyGraph(ge); err != nil {
					return nil, err
				}

			default:
				return nil, badInput("body entry in %q has neither a \"component\" nor a \"graph\" key", file.Name)
			}
		}
	}

	if mainGraphs != 1 {
		return nil, badInput("import closure must contain exactly one graph named %q, found %d", mainGraphName, mainGraphs)
	}
	return p, nil
}

func (p *Parser) applyGraph(entry graphEntry) error {
	nodeNames := make([]string, 0, len(entry.Nodes))
	for name := range entry.Nodes {
		nodeNames = append(nodeNames, name)
	}
	sort.Strings(nodeNames)

	for _, nodeName := range nodeNames {
		node := entry.Nodes[nodeName]
		switch {
		case node.FixedPressure != nil:
			p.InitialPressures[nodeName] = plumbing.InitialPressure{Pressure: *node.FixedPressure, Fixed: true}
		case node.InitialPressure != nil:
			p.InitialPressures[nodeName] = plumbing.InitialPressure{Pressure: *node.InitialPressure, Fixed: false}
		}

		for _, ref := range node.Components {
			if len(ref) != 2 {
				return badInput("graph %q: node %q: component reference must be [component, component_node], got %d elements", entry.Name, nodeName, len(ref))
			}
			componentName := fmt.Sprint(ref[0])
			componentNode := fmt.Sprint(ref[1])
			if p.Mapping[componentName] == nil {
				p.Mapping[componentName] = make(map[string]string)
			}
			p.Mapping[componentName][componentNode] = nodeName
		}
	}

	for componentName, stateName := range entry.States {
		p.InitialStates[componentName] = stateName
	}
	return nil
}

// resolveImportClosure walks each file's Imports, pulling in any other
// provided file it names, and returns the deduplicated set reachable from
// the input list (every input file is always included, whether or not
// anything imports it). An import naming a file outside the provided set is
// left unresolved rather than treated as an error; Parser has no registry
// to fetch files from by name, so the caller is responsible for passing the
// full set of documents a parse needs.
func resolveImportClosure(files []*File) []*File {
	byName := make(map[string]*File, len(files))
	for _, f := range files {
		byName[f.Name] = f
	}

	visited := make(map[string]struct{}, len(files))
	var closure []*File

	var visit func(f *File)
	visit = func(f *File) {
		if _, seen := visited[f.Name]; seen {
			return
		}
		visited[f.Name] = struct{}{}
		closure = append(closure, f)
		for _, imported := range f.Imports {
			if next, ok := byName[imported]; ok {
				visit(next)
			}
		}
	}
	for _, f := range files {
		visit(f)
	}
	return closure
}

// MakeEngine feeds the parsed components, mapping, and initial conditions
// into a new plumbing engine.
func (p *Parser) MakeEngine(opts ...plumbing.EngineOption) (*plumbing.Engine, error) {
	return plumbing.New(p.Components, p.Mapping, p.InitialPressures, p.InitialStates, opts...)
}
