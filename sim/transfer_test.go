package sim_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/toruseo/uxsimpp/model"
	"github.com/toruseo/uxsimpp/sim"
)

type TransferSuite struct {
	suite.Suite
}

// TestNoVehicleDuplicationOrLoss is the conservation property from
// spec §8: every completed platoon arrives no earlier than it
// departed, and no platoon is lost or duplicated at the merge node.
func (s *TransferSuite) TestNoVehicleDuplicationOrLoss() {
	w := buildMergeWorld(s.T(), 3)
	driver := sim.NewDriver(w)
	driver.RunToCompletion()

	for _, v := range w.Vehicles {
		if v.State == model.StateEnd {
			require.GreaterOrEqual(s.T(), v.ArrivalStep, v.DepartureStep)
		}
	}
	// every platoon that departs A or B is admitted onto C, so C's
	// cumulative arrivals equal A's plus B's cumulative departures.
	linkA, _ := w.GetLink("A")
	linkB, _ := w.GetLink("B")
	linkC, _ := w.GetLink("C")
	departedAB := linkA.CumDeparture[len(linkA.CumDeparture)-1] + linkB.CumDeparture[len(linkB.CumDeparture)-1]
	arrivedC := linkC.CumArrival[len(linkC.CumArrival)-1]
	require.InDelta(s.T(), departedAB, arrivedC, 1e-9)
}

func (s *TransferSuite) TestCapacityConstrainedRouteCarriesLessVolume() {
	w := buildTwoRouteWorld(s.T(), 5)
	driver := sim.NewDriver(w)
	driver.RunToCompletion()

	routeA, _ := w.GetLink("routeA") // capacity_out=0.1, constrained
	routeB, _ := w.GetLink("routeB") // unconstrained
	volA := routeA.CumDeparture[len(routeA.CumDeparture)-1]
	volB := routeB.CumDeparture[len(routeB.CumDeparture)-1]
	require.Less(s.T(), volA, volB)
}

func (s *TransferSuite) TestTrivialZeroLengthTripCompletesImmediately() {
	w, err := model.NewWorld("trivial", 10, 5, 1, 50, 0.5, 0, false, 1, 0)
	require.NoError(s.T(), err)
	_, err = w.AddNode("A", 0, 0, nil, 0)
	require.NoError(s.T(), err)
	_, err = w.AddDemand("A", "A", 0, 5, 2, nil)
	require.NoError(s.T(), err)
	require.NoError(s.T(), w.InitializeAdjMatrix())

	driver := sim.NewDriver(w)
	driver.RunToCompletion()

	require.NotEmpty(s.T(), w.Vehicles)
	for _, v := range w.Vehicles {
		require.Equal(s.T(), model.StateEnd, v.State)
	}
}

func TestTransferSuite(t *testing.T) {
	suite.Run(t, new(TransferSuite))
}
