package model_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/toruseo/uxsimpp/model"
)

type WorldSuite struct {
	suite.Suite
}

func newTestWorld(s *WorldSuite) *model.World {
	w, err := model.NewWorld("t", 1000, 5, 1, 100, 0.5, 0, false, 1, 0)
	require.NoError(s.T(), err)
	return w
}

func (s *WorldSuite) TestConstructorValidation() {
	_, err := model.NewWorld("t", 0, 5, 1, 100, 0.5, 0, false, 1, 0)
	require.ErrorIs(s.T(), err, model.ErrInvalidParameter)

	_, err = model.NewWorld("t", 1000, 5, 1, 100, 0, 0, false, 1, 0)
	require.ErrorIs(s.T(), err, model.ErrInvalidParameter)
}

func (s *WorldSuite) TestAddNodeDuplicateName() {
	w := newTestWorld(s)
	_, err := w.AddNode("A", 0, 0, nil, 0)
	require.NoError(s.T(), err)
	_, err = w.AddNode("A", 1, 1, nil, 0)
	require.ErrorIs(s.T(), err, model.ErrDuplicateName)
}

func (s *WorldSuite) TestAddLinkUnknownNode() {
	w := newTestWorld(s)
	_, err := w.AddNode("A", 0, 0, nil, 0)
	require.NoError(s.T(), err)
	_, err = w.AddLink("L", "A", "B", 10, 0.2, 100, 1, -1, nil)
	require.ErrorIs(s.T(), err, model.ErrUnknownName)
}

func (s *WorldSuite) TestTopologyFreezesAfterInitialize() {
	w := newTestWorld(s)
	_, _ = w.AddNode("A", 0, 0, nil, 0)
	_, _ = w.AddNode("B", 100, 0, nil, 0)
	_, _ = w.AddLink("L", "A", "B", 10, 0.2, 100, 1, -1, nil)
	require.NoError(s.T(), w.InitializeAdjMatrix())

	_, err := w.AddNode("C", 0, 0, nil, 0)
	require.ErrorIs(s.T(), err, model.ErrTopologyFrozen)

	require.Len(s.T(), w.Cost, 1)
	require.Len(s.T(), w.Cost[0], 2)
}

func (s *WorldSuite) TestResolveLinkByAllThreeForms() {
	w := newTestWorld(s)
	_, _ = w.AddNode("A", 0, 0, nil, 0)
	_, _ = w.AddNode("B", 100, 0, nil, 0)
	l, _ := w.AddLink("L", "A", "B", 10, 0.2, 100, 1, -1, nil)
	require.NoError(s.T(), w.InitializeAdjMatrix())

	byID, err := w.ResolveLink(model.LinkRefID(l.ID))
	require.NoError(s.T(), err)
	require.Same(s.T(), l, byID)

	byName, err := w.ResolveLink(model.LinkRefName("L"))
	require.NoError(s.T(), err)
	require.Same(s.T(), l, byName)

	byInstance, err := w.ResolveLink(model.LinkRefInstance{Link: l})
	require.NoError(s.T(), err)
	require.Same(s.T(), l, byInstance)

	require.True(s.T(), w.LinksEqual(model.LinkRefID(l.ID), model.LinkRefName("L")))
}

func (s *WorldSuite) TestAddDemandValidation() {
	w := newTestWorld(s)
	_, _ = w.AddNode("A", 0, 0, nil, 0)
	_, _ = w.AddNode("B", 100, 0, nil, 0)
	_, err := w.AddDemand("A", "B", 10, 5, 1, nil)
	require.ErrorIs(s.T(), err, model.ErrInvalidParameter)

	d, err := w.AddDemand("A", "B", 0, 100, 2, nil)
	require.NoError(s.T(), err)
	require.InDelta(s.T(), 2*w.Tau/w.DeltaN, d.Lambda, 1e-9)
}

func TestWorldSuite(t *testing.T) {
	suite.Run(t, new(WorldSuite))
}
