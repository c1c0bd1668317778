package sim

import (
	"math"

	"github.com/toruseo/uxsimpp/model"
)

// Driver runs a World's fixed-step main loop. It holds no state beyond
// a World reference, so segmented calls simply resume from whatever
// the World's own step counter, RNG, and DUO schedule already record —
// there is nothing else to carry between calls.
type Driver struct {
	World *model.World
}

// NewDriver wraps a topology-frozen World for stepped execution.
func NewDriver(w *model.World) *Driver {
	return &Driver{World: w}
}

// RunDuration advances exactly ceil(duration/tau) more steps from
// wherever the driver currently stands, stopping early if the
// termination predicate fires first.
func (d *Driver) RunDuration(duration float64) {
	n := int(math.Ceil(duration / d.World.Tau))
	for i := 0; i < n && !d.Terminated(); i++ {
		d.tick()
	}
	d.logProgress()
}

// RunUntil advances until the World's step clock reaches untilT,
// stopping early if the termination predicate fires first. Calling it
// again with a later untilT resumes exactly where the prior call left
// off — step count, RNG stream position, and DUO schedule all carry
// forward unchanged, which is what makes run(duration) and run(until)
// segments composable into identical results regardless of how a
// fixed total is partitioned.
func (d *Driver) RunUntil(untilT float64) {
	target := int(math.Ceil(untilT / d.World.Tau))
	for d.World.Step < target && !d.Terminated() {
		d.tick()
	}
	d.logProgress()
}

// RunToCompletion advances until the termination predicate fires,
// equivalent to an unbounded RunUntil(t_max).
func (d *Driver) RunToCompletion() {
	for !d.Terminated() {
		d.tick()
	}
	d.logProgress()
}

// logProgress emits a one-line progress banner through World.Logger
// when PrintMode is set: one line per segment boundary (one
// RunDuration/RunUntil/RunToCompletion call), matching the source's
// print_mode behavior, not one line per tick.
func (d *Driver) logProgress() {
	w := d.World
	if !w.PrintMode {
		return
	}
	active := 0
	for _, v := range w.Vehicles {
		if v.State == model.StateWait || v.State == model.StateRun {
			active++
		}
	}
	w.Logger.Printf("progress step=%d t=%.1f vehicles=%d active=%d", w.Step, float64(w.Step)*w.Tau, len(w.Vehicles), active)
}

// Terminated reports whether the simulation has reached its stopping
// condition: the clock has reached t_max, or no platoon remains in an
// active life-cycle state and every demand window has elapsed.
func (d *Driver) Terminated() bool {
	w := d.World
	t := float64(w.Step) * w.Tau
	if t >= w.TMax {
		return true
	}
	for _, v := range w.Vehicles {
		switch v.State {
		case model.StateHome, model.StateWait, model.StateRun:
			return false
		}
	}
	for _, dem := range w.Demands {
		if t < dem.EndT {
			return false
		}
	}
	return true
}

// tick runs exactly one fixed-step advance, following the per-tick
// control flow: refresh DUO tables on their period boundary, advance
// every link's platoons, resolve node transfers in randomized order,
// inject newly generated demand, then record this step's cumulatives
// and per-vehicle logs before incrementing the clock.
func (d *Driver) tick() {
	w := d.World
	step := w.Step
	t := float64(step) * w.Tau

	if DUODue(w, step) {
		UpdateRouteChoice(w, step)
	}

	for _, l := range w.Links {
		l.Advance(w.Tau, w.DeltaN)
	}

	ProcessTransfers(w, step)

	GenerateDemand(w, step)

	for _, l := range w.Links {
		l.RecordStep()
		if l.RefreshCells(w.DeltaN) {
			w.WarnOverflow("link %q: cell occupancy exceeds jam density", l.Name)
		}
	}
	for _, v := range w.Vehicles {
		v.RecordLog(t)
	}

	w.Step++
}
