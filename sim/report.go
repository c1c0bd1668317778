package sim

import (
	"fmt"

	"github.com/toruseo/uxsimpp/model"
	"github.com/toruseo/uxsimpp/query"
)

// PrintConsoleReport prints a human-readable end-of-run summary:
// per-vehicle completion counts and per-link throughput/travel-time
// figures, in the same plain Printf style the teacher used for its
// own end-of-run report.
func PrintConsoleReport(w *model.World) {
	vehicles := query.VehicleDF(w)
	completed, active := 0, 0
	var ttSum float64
	for _, v := range vehicles {
		if v.State == model.StateEnd {
			completed++
			ttSum += v.TravelTime
		} else {
			active++
		}
	}
	fmt.Println("=== Simulation Report ===")
	fmt.Printf("Platoons generated: %d\n", len(vehicles))
	fmt.Printf("Platoons completed: %d\n", completed)
	fmt.Printf("Platoons still active: %d\n", active)
	if completed > 0 {
		fmt.Printf("Average travel time: %.2f s\n", ttSum/float64(completed))
	}
	for _, lr := range query.LinkDF(w) {
		fmt.Printf("Link %s (%s -> %s): volume=%.0f avg_tt=%.2fs stddev_tt=%.2fs\n",
			lr.Name, lr.StartName, lr.EndName, lr.TotalThroughVolume, lr.AverageTravelTime, lr.StdDevTravelTime)
	}
	if len(w.Diagnostics) > 0 {
		fmt.Printf("Diagnostics: %d warning(s) recorded\n", len(w.Diagnostics))
	}
}
