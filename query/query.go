// Package query exposes World/Link/Vehicle state in the tabular,
// read-only form the rest of the original binding's dataframe helpers
// were built on — one row struct per record instead of a dataframe
// library, since this module otherwise has no use for one.
package query

import (
	"math"

	"github.com/toruseo/uxsimpp/model"
)

// VehicleRow is one row of world.vehicle_df(): a per-platoon summary.
type VehicleRow struct {
	ID               int
	OriginName       string
	DestinationName  string
	State            model.VehicleState
	DepartureStep    int
	ArrivalStep      int
	TravelTime       float64 // -1 if not yet arrived
	DistanceTraveled float64
	AverageSpeed     float64 // -1 if undefined
}

// VehicleDF builds the per-platoon summary table.
func VehicleDF(w *model.World) []VehicleRow {
	rows := make([]VehicleRow, 0, len(w.Vehicles))
	for _, v := range w.Vehicles {
		rows = append(rows, VehicleRow{
			ID:               v.ID,
			OriginName:       w.Nodes[v.OriginID].Name,
			DestinationName:  w.Nodes[v.DestID].Name,
			State:            v.State,
			DepartureStep:    v.DepartureStep,
			ArrivalStep:      v.ArrivalStep,
			TravelTime:       v.TravelTime(w.Tau),
			DistanceTraveled: v.DistanceTraveled,
			AverageSpeed:     v.AverageSpeed(w.Tau),
		})
	}
	return rows
}

// LinkRow is one row of world.link_df(): a per-link summary.
type LinkRow struct {
	Name               string
	StartName, EndName string
	Length             float64
	TotalThroughVolume float64 // cum_departure at the end of the run
	AverageTravelTime  float64
	StdDevTravelTime   float64
}

// LinkDF builds the per-link summary table.
func LinkDF(w *model.World) []LinkRow {
	rows := make([]LinkRow, 0, len(w.Links))
	for _, l := range w.Links {
		var through float64
		if n := len(l.CumDeparture); n > 0 {
			through = l.CumDeparture[n-1]
		}
		rows = append(rows, LinkRow{
			Name:               l.Name,
			StartName:          w.Nodes[l.StartNodeID].Name,
			EndName:            w.Nodes[l.EndNodeID].Name,
			Length:             l.Length,
			TotalThroughVolume: through,
			AverageTravelTime:  l.AverageRealTravelTime(),
			StdDevTravelTime:   l.StdDevRealTravelTime(),
		})
	}
	return rows
}

// VehicleLog is one sampled row of a single platoon's detailed,
// time-indexed trace (t, state, link, x, v) — populated only when the
// platoon was created with vehicle_log_mode enabled.
type VehicleLog struct {
	T     float64
	State model.VehicleState
	Link  int
	X     float64
	V     float64
}

// VehicleDetail returns the full detailed trace of one platoon by id:
// nil if the id is out of range, an empty slice if the platoon carries
// no log.
func VehicleDetail(w *model.World, id int) []VehicleLog {
	if id < 0 || id >= len(w.Vehicles) {
		return nil
	}
	v := w.Vehicles[id]
	out := make([]VehicleLog, len(v.LogT))
	for i := range v.LogT {
		out[i] = VehicleLog{T: v.LogT[i], State: v.LogState[i], Link: v.LogLink[i], X: v.LogX[i], V: v.LogV[i]}
	}
	return out
}

// WithinTolerance reports whether val matches check within a combined
// relative+absolute tolerance, ported from the original binding's
// eq_tol helper used throughout its test suite.
func WithinTolerance(val, check, relTol, absTol float64) bool {
	return math.Abs(val-check) <= absTol+relTol*math.Abs(check)
}
