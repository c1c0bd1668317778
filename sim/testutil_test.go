package sim_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/toruseo/uxsimpp/model"
)

// buildTwoRouteWorld constructs the two-parallel-route network from
// the route-choice-under-DUO scenario: O->D via routeA (capacity_out
// constrained) and routeB (unconstrained), both the same length.
func buildTwoRouteWorld(t *testing.T, seed int64) *model.World {
	t.Helper()
	w, err := model.NewWorld("duo-test", 1200, 5, 1, 50, 0.5, 0, false, seed, 0)
	require.NoError(t, err)
	_, err = w.AddNode("O", 0, 0, nil, 0)
	require.NoError(t, err)
	_, err = w.AddNode("D", 2000, 0, nil, 0)
	require.NoError(t, err)
	_, err = w.AddLink("routeA", "O", "D", 20, 0.2, 2000, 1, 0.1, nil)
	require.NoError(t, err)
	_, err = w.AddLink("routeB", "O", "D", 20, 0.2, 2000, 1, -1, nil)
	require.NoError(t, err)
	_, err = w.AddDemand("O", "D", 0, 1000, 0.6, nil)
	require.NoError(t, err)
	require.NoError(t, w.InitializeAdjMatrix())
	return w
}

// buildMergeWorld constructs a two-incoming-one-outgoing merge: A and
// B both feed into link C via node N.
func buildMergeWorld(t *testing.T, seed int64) *model.World {
	t.Helper()
	w, err := model.NewWorld("merge-test", 600, 5, 1, 50, 0.5, 0, false, seed, 0)
	require.NoError(t, err)
	for _, name := range []string{"OA", "OB", "N", "D"} {
		_, err = w.AddNode(name, 0, 0, nil, 0)
		require.NoError(t, err)
	}
	_, err = w.AddLink("A", "OA", "N", 20, 0.2, 200, 2, -1, nil)
	require.NoError(t, err)
	_, err = w.AddLink("B", "OB", "N", 20, 0.2, 200, 1, -1, nil)
	require.NoError(t, err)
	_, err = w.AddLink("C", "N", "D", 20, 0.2, 200, 1, -1, nil)
	require.NoError(t, err)
	_, err = w.AddDemand("OA", "D", 0, 400, 1.0, nil)
	require.NoError(t, err)
	_, err = w.AddDemand("OB", "D", 0, 400, 1.0, nil)
	require.NoError(t, err)
	require.NoError(t, w.InitializeAdjMatrix())
	return w
}
