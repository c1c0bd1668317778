package sim

import (
	"math"
	"math/rand"

	"github.com/toruseo/uxsimpp/model"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

// DUODue reports whether step is a scheduled DUO recomputation step,
// the ceil(T_duo/tau)-period cadence from spec §4.F.
func DUODue(w *model.World, step int) bool {
	return step >= w.NextDUOStep
}

// UpdateRouteChoice rebuilds the world's cost/next-hop tables from the
// current instantaneous link travel times. It runs all-pairs shortest
// paths (gonum's dense Floyd-Warshall, acceptable at the network sizes
// this simulator targets) over a combined graph of link vertices and
// node vertices: a link's vertex connects to its end node's vertex
// with weight equal to that link's current travel time, and a node's
// vertex connects to each outgoing link's vertex with weight zero —
// so the shortest distance from a link vertex to a destination node
// vertex is exactly the link-to-link successor-graph cost the spec
// calls for, with no separate bookkeeping needed for the "switch links
// at a node costs nothing" rule.
func UpdateRouteChoice(w *model.World, step int) {
	period := int(math.Ceil(w.DuoUpdateTime / w.Tau))
	if period < 1 {
		period = 1
	}
	w.NextDUOStep = step + period

	nLinks := len(w.Links)
	nNodes := len(w.Nodes)

	g := simple.NewWeightedDirectedGraph(0, math.Inf(1))
	for i := 0; i < nLinks+nNodes; i++ {
		g.AddNode(simple.Node(int64(i)))
	}
	for _, l := range w.Links {
		travelTime := l.Length / l.EffectiveSpeed()
		g.SetWeightedEdge(g.NewWeightedEdge(simple.Node(int64(l.ID)), simple.Node(int64(nLinks+l.EndNodeID)), travelTime))
	}
	for _, n := range w.Nodes {
		nid := int64(nLinks + n.ID)
		for _, k := range n.Outgoing {
			g.SetWeightedEdge(g.NewWeightedEdge(simple.Node(nid), simple.Node(int64(k)), 0))
		}
	}

	paths, _ := path.FloydWarshall(g)

	costNew := make([][]float64, nLinks)
	nextNew := make([][]int, nLinks)
	for i, l := range w.Links {
		costNew[i] = make([]float64, nNodes)
		nextNew[i] = make([]int, nNodes)
		endNode := w.Nodes[l.EndNodeID]
		for j := 0; j < nNodes; j++ {
			nodeVid := int64(nLinks + j)
			c := paths.Weight(int64(i), nodeVid)
			costNew[i][j] = c
			if math.IsInf(c, 1) {
				nextNew[i][j] = -1
				w.Warnf("no route from link %q toward %q", l.Name, w.Nodes[j].Name)
				continue
			}
			nextNew[i][j] = argminSuccessor(w, paths, endNode, nodeVid)
		}
	}

	markUnreachableDemands(w, costNew)

	if !w.DUOInitialized {
		w.Cost = costNew
		w.DUOInitialized = true
	} else {
		for i := range w.Cost {
			for j := range w.Cost[i] {
				w.Cost[i][j] = blendCost(w.DuoUpdateWeight, costNew[i][j], w.Cost[i][j])
			}
		}
	}
	w.Next = nextNew
}

// markUnreachableDemands flags every demand whose destination has no
// finite-cost outgoing link from its origin in the freshly computed
// cost table, per spec §7's Unreachable handling. This runs every DUO
// update, so a demand that starts out unreachable and later gains a
// route (or vice versa) tracks the current topology rather than
// latching permanently.
func markUnreachableDemands(w *model.World, costNew [][]float64) {
	for _, d := range w.Demands {
		origin := w.Nodes[d.OriginID]
		reachable := false
		for _, k := range origin.Outgoing {
			if !math.IsInf(costNew[k][d.DestID], 1) {
				reachable = true
				break
			}
		}
		d.Unreachable = false
		if !reachable {
			w.MarkUnreachable(d.ID, "demand %d (%s -> %s): no route found", d.ID, origin.Name, w.Nodes[d.DestID].Name)
		}
	}
}

// blendCost implements cost <- w_duo*cost_new + (1-w_duo)*cost_old,
// except that a path which is infinite on exactly one side of the
// blend snaps to the finite side instead of producing +Inf from a
// partial weight against it — a route that just opened or just broke
// should be reflected immediately, not smeared.
func blendCost(weight, newC, oldC float64) float64 {
	newInf := math.IsInf(newC, 1)
	oldInf := math.IsInf(oldC, 1)
	switch {
	case newInf && oldInf:
		return math.Inf(1)
	case newInf:
		return oldC
	case oldInf:
		return newC
	default:
		return weight*newC + (1-weight)*oldC
	}
}

// argminSuccessor picks the outgoing link of endNode minimizing
// shortest-path cost to nodeVid, tie-broken by smallest link id for
// determinism. When route_choice_uncertainty is non-zero, each
// candidate's cost is perturbed by independent Gumbel noise before the
// comparison — a logit-style random-utility perturbation, the
// simplest distribution matching the "additive noise before argmin"
// framing left open by the source; 0 always reduces to the plain
// deterministic argmin.
func argminSuccessor(w *model.World, paths path.AllShortest, endNode *model.Node, nodeVid int64) int {
	best, _ := argminByID(endNode.Outgoing, func(k int) float64 {
		c := paths.Weight(int64(k), nodeVid)
		if w.RouteChoiceUncertainty > 0 {
			c += w.RouteChoiceUncertainty * gumbelSample(w.RNG)
		}
		return c
	})
	return best
}

func gumbelSample(rng *rand.Rand) float64 {
	u := rng.Float64()
	if u <= 0 {
		u = 1e-12
	}
	return -math.Log(-math.Log(u))
}
