// Package sim implements the per-tick dynamics that operate across
// multiple model entities: signal gating, node transfer resolution,
// demand generation, DUO route choice, and the fixed-step driver loop.
// Entity-local mutators (platoon advancement, boarding-equivalent
// queue operations) live as methods on the model types themselves;
// sim is the orchestration layer, mirroring the split the teacher
// keeps between its model and sim packages.
package sim

import "github.com/toruseo/uxsimpp/model"

// LinkOpen reports whether link l may release platoons at time t,
// given the signal state of its end node. Unsignalized end nodes are
// always open.
func LinkOpen(w *model.World, l *model.Link, t float64) bool {
	end := w.Nodes[l.EndNodeID]
	if !end.Signalized() {
		return true
	}
	phase := end.PhaseAt(t)
	return l.GroupActive(phase)
}
