package sim_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/toruseo/uxsimpp/model"
	"github.com/toruseo/uxsimpp/query"
	"github.com/toruseo/uxsimpp/sim"
)

// TestFreeFlowSingleLinkMatchesSeedScenario reproduces seed scenario 1
// from spec §8: one link (L=10000, u=20, kappa_j=0.2), demand 0.5
// veh/s over [0,1000], deltaN=5, tau=1. The demand stays well under
// the link's quarter-jam capacity (1.0 veh/s), so it never congests
// and the textbook free-flow identities hold: inflow and outflow both
// settle to the demand rate, and travel time is exactly length /
// free_flow_speed for a platoon that never queues behind another.
func TestFreeFlowSingleLinkMatchesSeedScenario(t *testing.T) {
	w, err := model.NewWorld("free-flow", 2000, 5, 1, 500, 0.5, 0, false, 7, 0)
	require.NoError(t, err)
	_, err = w.AddNode("O", 0, 0, nil, 0)
	require.NoError(t, err)
	_, err = w.AddNode("D", 10000, 0, nil, 0)
	require.NoError(t, err)
	link, err := w.AddLink("L", "O", "D", 20, 0.2, 10000, 1, -1, nil)
	require.NoError(t, err)
	_, err = w.AddDemand("O", "D", 0, 1000, 0.5, nil)
	require.NoError(t, err)
	require.NoError(t, w.InitializeAdjMatrix())

	sim.NewDriver(w).RunToCompletion()

	require.True(t, query.WithinTolerance(link.Inflow(0, 1000, w.Tau), 0.5, 0.05, 0.02),
		"inflow(0,1000)=%.4f", link.Inflow(0, 1000, w.Tau))
	require.True(t, query.WithinTolerance(link.Outflow(500, 1500, w.Tau), 0.5, 0.05, 0.02),
		"outflow(500,1500)=%.4f", link.Outflow(500, 1500, w.Tau))

	require.NotEmpty(t, w.Vehicles)
	first := w.Vehicles[0]
	last := w.Vehicles[len(w.Vehicles)-1]
	require.True(t, query.WithinTolerance(first.TravelTime(w.Tau), 500, 0.05, 1.0),
		"first travel_time=%.2f", first.TravelTime(w.Tau))
	require.True(t, query.WithinTolerance(last.TravelTime(w.Tau), 500, 0.05, 1.0),
		"last travel_time=%.2f", last.TravelTime(w.Tau))
}
