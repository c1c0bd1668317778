package sim_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/toruseo/uxsimpp/sim"
)

type DriverSuite struct {
	suite.Suite
}

// TestSegmentationEquivalence is property P6: a single run() to
// completion and any partitioning into segments must produce
// identical per-link cumulative curves for the same seed.
func (s *DriverSuite) TestSegmentationEquivalence() {
	whole := buildTwoRouteWorld(s.T(), 11)
	sim.NewDriver(whole).RunToCompletion()

	segmented := buildTwoRouteWorld(s.T(), 11)
	d := sim.NewDriver(segmented)
	d.RunDuration(137)
	d.RunDuration(263)
	d.RunToCompletion()

	wholeA, _ := whole.GetLink("routeA")
	segA, _ := segmented.GetLink("routeA")
	require.Equal(s.T(), wholeA.CumDeparture, segA.CumDeparture)
	require.Equal(s.T(), wholeA.CumArrival, segA.CumArrival)

	require.Equal(s.T(), len(whole.Vehicles), len(segmented.Vehicles))
	for i := range whole.Vehicles {
		require.Equal(s.T(), whole.Vehicles[i].ArrivalStep, segmented.Vehicles[i].ArrivalStep)
		require.Equal(s.T(), whole.Vehicles[i].DepartureStep, segmented.Vehicles[i].DepartureStep)
	}
}

func (s *DriverSuite) TestRunToCompletionEndsTerminatedAfterDemandWindow() {
	w := buildTwoRouteWorld(s.T(), 2)
	d := sim.NewDriver(w)
	d.RunToCompletion()
	require.GreaterOrEqual(s.T(), float64(w.Step)*w.Tau, w.Demands[0].EndT)
	require.True(s.T(), d.Terminated())
}

func TestDriverSuite(t *testing.T) {
	suite.Run(t, new(DriverSuite))
}
