// Command topside loads a plumbing description, steps or solves the
// resulting engine, and prints the resulting node pressures: a single
// readable end-to-end path through the library's packages.
package main

import (
	"flag"
	"fmt"
	"log"
	"sort"

	"github.com/nozzleworks/topside/pdl"
)

func main() {
	pdlPath := flag.String("pdl", "", "path to a PDL document (required)")
	solve := flag.Bool("solve", false, "run engine.Solve to convergence instead of a single Step")
	stepUs := flag.Int64("step-us", 100_000, "timestep in microseconds for a single Step run (without -solve)")
	minDeltaPaPerS := flag.Float64("min-delta", 0.5, "convergence threshold in Pa/s for -solve")
	maxTimeS := flag.Float64("max-time", 60, "maximum simulated seconds for -solve")
	flag.Parse()

	if *pdlPath == "" {
		log.Fatal("topside: -pdl is required")
	}

	file, err := pdl.NewFile(*pdlPath)
	if err != nil {
		log.Fatalf("topside: loading %s: %v", *pdlPath, err)
	}

	parser, err := pdl.NewParser([]*pdl.File{file})
	if err != nil {
		log.Fatalf("topside: parsing %s: %v", *pdlPath, err)
	}

	engine, err := parser.MakeEngine()
	if err != nil {
		log.Fatalf("topside: building engine: %v", err)
	}
	if !engine.IsValid() {
		log.Printf("topside: warning: engine reports itself invalid: %v", engine.Errors())
	}

	var pressures map[string]float64
	if *solve {
		pressures, err = engine.Solve(*minDeltaPaPerS, *maxTimeS)
		if err != nil {
			log.Fatalf("topside: solve: %v", err)
		}
	} else {
		pressures, err = engine.Step(stepUs)
		if err != nil {
			log.Fatalf("topside: step: %v", err)
		}
	}
	printPressures(pressures)
}

func printPressures(pressures map[string]float64) {
	nodes := make([]string, 0, len(pressures))
	for node := range pressures {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)
	for _, node := range nodes {
		fmt.Printf("%s: %.3f Pa\n", node, pressures[node])
	}
}
