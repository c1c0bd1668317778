package sim

import "github.com/toruseo/uxsimpp/model"

// GenerateDemand advances every demand record's fractional accumulator
// by one step and materializes newly-emitted platoons directly into
// state Wait at their origin node's virtual source, per spec §4.E; a
// platoon whose origin is its destination goes straight to End.
// This is the simple "a += lambda; while a>=1 emit" scheme, not full
// Poisson sampling — deterministic under a fixed RNG stream and exact
// to within one platoon of flow*(end-start)/deltaN.
func GenerateDemand(w *model.World, step int) {
	t := float64(step) * w.Tau
	for _, d := range w.Demands {
		if t < d.StartT || t >= d.EndT {
			continue
		}
		d.Accumulator += d.Lambda
		for d.Accumulator >= 1 {
			d.Accumulator -= 1
			preferred := append([]int(nil), d.PreferredLinks...)
			v := model.NewVehicle(w.AllocVehicleID(), d.OriginID, d.DestID, d.ID, preferred, step, w.VehicleLogMode != 0)
			w.Vehicles = append(w.Vehicles, v)
			if d.OriginID == d.DestID {
				// zero-length trip: completes on generation, never
				// touches a wait queue or link.
				v.State = model.StateEnd
				v.DepartureStep = step
				v.ArrivalStep = step
			} else {
				v.State = model.StateWait
				origin := w.Nodes[d.OriginID]
				origin.WaitQueue = append(origin.WaitQueue, v)
			}
			d.Emitted++
		}
	}
}
