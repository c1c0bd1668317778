package sim_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/toruseo/uxsimpp/model"
	"github.com/toruseo/uxsimpp/sim"
)

type RouteChoiceSuite struct {
	suite.Suite
}

func (s *RouteChoiceSuite) TestFirstUpdateSetsCostToCostNew() {
	w := buildTwoRouteWorld(s.T(), 1)
	require.False(s.T(), w.DUOInitialized)
	sim.UpdateRouteChoice(w, 0)
	require.True(s.T(), w.DUOInitialized)

	dNode, err := w.GetNode("D")
	require.NoError(s.T(), err)
	routeA, err := w.GetLink("routeA")
	require.NoError(s.T(), err)
	routeB, err := w.GetLink("routeB")
	require.NoError(s.T(), err)

	// both routes are equal length and empty, so equal free-flow cost
	require.InDelta(s.T(), w.Cost[routeA.ID][dNode.ID], w.Cost[routeB.ID][dNode.ID], 1e-9)
}

func (s *RouteChoiceSuite) TestNextHopPointsToOnlySuccessorTowardDestination() {
	w := buildMergeWorld(s.T(), 1)
	sim.UpdateRouteChoice(w, 0)

	linkA, _ := w.GetLink("A")
	linkC, _ := w.GetLink("C")
	dNode, _ := w.GetNode("D")

	require.Equal(s.T(), linkC.ID, w.Next[linkA.ID][dNode.ID])
}

func (s *RouteChoiceSuite) TestUnreachableDestinationMarksNoRoute() {
	w, err := model.NewWorld("unreachable-test", 100, 5, 1, 50, 0.5, 0, false, 1, 0)
	require.NoError(s.T(), err)
	_, err = w.AddNode("A", 0, 0, nil, 0)
	require.NoError(s.T(), err)
	_, err = w.AddNode("C", 100, 0, nil, 0)
	require.NoError(s.T(), err)
	_, err = w.AddNode("B", 200, 0, nil, 0) // isolated destination, unreachable from A
	require.NoError(s.T(), err)
	_, err = w.AddLink("AC", "A", "C", 10, 0.2, 100, 1, -1, nil)
	require.NoError(s.T(), err)
	require.NoError(s.T(), w.InitializeAdjMatrix())

	sim.UpdateRouteChoice(w, 0)
	require.NotEmpty(s.T(), w.Diagnostics)
}

func TestRouteChoiceSuite(t *testing.T) {
	suite.Run(t, new(RouteChoiceSuite))
}
