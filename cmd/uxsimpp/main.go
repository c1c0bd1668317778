// Command uxsimpp builds a small demonstration network — two parallel
// routes between one origin and one destination, one of them capacity
// constrained — and runs it to completion, printing the same kind of
// end-of-run console report the teacher binary prints. Scenario
// construction, file I/O, and a real CLI front-end are out of scope
// for this module; this is a fixed, hard-coded smoke scenario.
package main

import (
	"log"

	"github.com/toruseo/uxsimpp/config"
	"github.com/toruseo/uxsimpp/model"
	"github.com/toruseo/uxsimpp/sim"
)

// demoFlow is the OD flow (veh/s) for the demo's single demand window,
// the same route-choice-under-DUO figure spec.md §8 seed scenario 5
// uses (0.6 veh/s into two parallel routes, one capacity constrained).
const demoFlow = 0.6

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	w, err := model.NewWorld(cfg.Name, 1200, cfg.DeltaN, cfg.Tau, cfg.DuoUpdateTime, cfg.DuoUpdateWeight, cfg.RouteChoiceUncertainty, cfg.PrintMode, cfg.RandomSeed, cfg.VehicleLogMode)
	if err != nil {
		log.Fatalf("new world: %v", err)
	}

	if _, err := w.AddNode("O", 0, 0, nil, 0); err != nil {
		log.Fatal(err)
	}
	if _, err := w.AddNode("D", 2000, 0, nil, 0); err != nil {
		log.Fatal(err)
	}
	if _, err := w.AddLink("routeA", "O", "D", 20, 0.2, 2000, 1, 0.1, nil); err != nil {
		log.Fatal(err)
	}
	if _, err := w.AddLink("routeB", "O", "D", 20, 0.2, 2000, 1, -1, nil); err != nil {
		log.Fatal(err)
	}
	if _, err := w.AddDemand("O", "D", 0, 1000, demoFlow, nil); err != nil {
		log.Fatal(err)
	}
	if err := w.InitializeAdjMatrix(); err != nil {
		log.Fatal(err)
	}

	sim.NewDriver(w).RunToCompletion()
	sim.PrintConsoleReport(w)
}
