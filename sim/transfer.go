package sim

import (
	"math"
	"math/rand"
	"sort"

	"github.com/toruseo/uxsimpp/model"
)

// candidate is one FIFO source contending for admission onto a chosen
// downstream link: either a real incoming link's ready head platoon,
// or the origin node's own wait-queue head acting as a virtual source
// link, per spec §4.B.
type candidate struct {
	vehicle      *model.Vehicle
	sourceLinkID int // -1 = node's wait queue
	priority     float64
}

// ProcessTransfers resolves every node's merge/diverge contention for
// one step, in a randomized node order (drawn from the world's shared
// RNG stream, after the step's DUO update and before demand
// generation, following the tick order in driver.go). Each incoming
// link and each origin's wait queue contributes at most one ready
// platoon per step — the FIFO-plus-minimum-spacing rule on Advance
// already prevents more than one platoon from reaching a link's exit
// in the same tick, so there is never more than one contender per
// source to rank.
func ProcessTransfers(w *model.World, step int) {
	t := float64(step) * w.Tau
	order := w.RNG.Perm(len(w.Nodes))
	for _, nodeID := range order {
		processNode(w, w.Nodes[nodeID], step, t)
	}
}

func processNode(w *model.World, node *model.Node, step int, t float64) {
	byOut := make(map[int][]*candidate)

	for _, linkID := range node.Incoming {
		l := w.Links[linkID]
		quota := l.SendingQuota(w.Tau, w.DeltaN)
		if quota <= 0 {
			continue
		}
		head := l.ReadyHead()
		if head == nil {
			continue
		}
		if !LinkOpen(w, l, t) {
			continue
		}
		if l.EndNodeID == head.DestID {
			doArrival(w, l, head, step)
			continue
		}
		outID, ok := desiredOutLink(w, head, l)
		if !ok {
			w.MarkUnreachable(head.DemandID, "vehicle %d stuck at node %q: no route to %q", head.ID, node.Name, w.Nodes[head.DestID].Name)
			continue
		}
		byOut[outID] = append(byOut[outID], &candidate{vehicle: head, sourceLinkID: linkID, priority: l.MergePriority})
	}

	if len(node.WaitQueue) > 0 {
		head := node.WaitQueue[0]
		if len(node.Outgoing) == 0 {
			w.MarkUnreachable(head.DemandID, "vehicle %d waiting at node %q has no outgoing links", head.ID, node.Name)
		} else if outID, ok := chooseInitialLink(w, node, head); ok {
			byOut[outID] = append(byOut[outID], &candidate{vehicle: head, sourceLinkID: -1, priority: 1.0})
		} else {
			w.MarkUnreachable(head.DemandID, "vehicle %d at node %q: no route to %q", head.ID, node.Name, w.Nodes[head.DestID].Name)
		}
	}

	// visit downstream links in id order so the RNG draws made by
	// selectByPriority do not depend on map iteration order
	outIDs := make([]int, 0, len(byOut))
	for outID := range byOut {
		outIDs = append(outIDs, outID)
	}
	sort.Ints(outIDs)
	for _, outID := range outIDs {
		cands := byOut[outID]
		outLink := w.Links[outID]
		supply := outLink.ReceivingSupply(w.Tau, w.DeltaN)
		if supply <= 0 {
			continue
		}
		for _, c := range selectByPriority(w.RNG, node, cands, supply) {
			doTransfer(w, node, c, outLink, step)
		}
	}
}

// desiredOutLink reports the link a platoon currently at the exit of
// l wants to move onto next: a forced preferred-route link if one
// remains, otherwise the DUO next-hop table entry for l toward the
// platoon's destination. It is a pure peek — no state is consumed
// until the transfer actually commits, so a denied candidate is free
// to be re-evaluated next step with the same desired choice.
func desiredOutLink(w *model.World, v *model.Vehicle, l *model.Link) (int, bool) {
	if pid, has := v.PeekPreferredLink(); has {
		return pid, true
	}
	next := w.Next[l.ID][v.DestID]
	if next < 0 {
		return 0, false
	}
	return next, true
}

// chooseInitialLink is the virtual-source analogue of desiredOutLink
// for a platoon still waiting at its origin: a forced preferred route
// if set, otherwise the outgoing link minimizing the blended DUO cost
// to the destination, tie-broken by smallest link id.
func chooseInitialLink(w *model.World, node *model.Node, v *model.Vehicle) (int, bool) {
	if pid, has := v.PeekPreferredLink(); has {
		return pid, true
	}
	best, bestCost := argminByID(node.Outgoing, func(k int) float64 { return w.Cost[k][v.DestID] })
	if best == -1 || math.IsInf(bestCost, 1) {
		return 0, false
	}
	return best, true
}

// argminByID scans ids and returns the one minimizing cost(id), ties
// broken by smallest id — the determinism rule spec §4.F requires for
// both the initial-link choice above and routechoice.go's next-hop
// selection. Returns (-1, +Inf) for an empty ids.
func argminByID(ids []int, cost func(int) float64) (int, float64) {
	best := -1
	bestCost := math.Inf(1)
	for _, k := range ids {
		c := cost(k)
		if c < bestCost || (c == bestCost && k < best) {
			bestCost = c
			best = k
		}
	}
	return best, bestCost
}

// selectByPriority admits up to supply candidates from cands, drawing
// without replacement with probability proportional to each
// candidate's link merge priority — the Daganzo priority-proportional
// merge rule. The scan order for the weighted draw, and the fallback
// when every remaining candidate has zero priority, both come from
// node.RandomPermutation, the node's own tie-break permutation over
// its contending sources (spec §4.B) — so ties are broken the same
// way whether priorities differ or not. All candidates are admitted
// when supply covers them.
func selectByPriority(rng *rand.Rand, node *model.Node, cands []*candidate, supply int) []*candidate {
	ids := make([]int, len(cands))
	for i := range cands {
		ids[i] = i
	}
	order := node.RandomPermutation(rng, ids)
	remaining := make([]*candidate, len(cands))
	for i, idx := range order {
		remaining[i] = cands[idx]
	}

	if supply >= len(cands) {
		// every candidate is admitted, but the order they're pushed
		// onto the downstream link's FIFO still needs to come from the
		// permutation above — otherwise node.Incoming iteration order
		// (link id) would always win the admission-order advantage
		// under minimum-spacing physics, the same bias the weighted
		// draw below exists to avoid.
		return remaining
	}

	chosen := make([]*candidate, 0, supply)
	for len(chosen) < supply && len(remaining) > 0 {
		total := 0.0
		for _, c := range remaining {
			total += c.priority
		}
		idx := 0
		if total <= 0 {
			// every remaining candidate is equally (un)weighted; the
			// permutation above already randomized their order, so the
			// first one is as good a tie-break as any other.
			idx = 0
		} else {
			r := rng.Float64() * total
			cum := 0.0
			idx = len(remaining) - 1
			for j, c := range remaining {
				cum += c.priority
				if r <= cum {
					idx = j
					break
				}
			}
		}
		chosen = append(chosen, remaining[idx])
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}
	return chosen
}

// doTransfer commits an admitted candidate onto outLink: it leaves its
// source (a real link's FIFO head, or the node's wait queue), records
// departure-side statistics, consumes a matching preferred-link entry
// if the choice was forced, and enters the new link at x=0.
func doTransfer(w *model.World, node *model.Node, c *candidate, outLink *model.Link, step int) {
	v := c.vehicle
	if c.sourceLinkID == -1 {
		node.WaitQueue = node.WaitQueue[1:]
		v.DepartureStep = step
		v.State = model.StateRun
	} else {
		src := w.Links[c.sourceLinkID]
		src.PopFront()
		src.RecordDeparture(w.DeltaN)
		src.RecordRealTravelTime(float64(step-v.LinkEntryStep) * w.Tau)
		v.DistanceTraveled += src.Length
	}
	if pid, has := v.PeekPreferredLink(); has && pid == outLink.ID {
		v.NextPreferredLink()
	}
	outLink.PushBack(v)
	outLink.RecordArrival(w.DeltaN)
	v.CurrentLinkID = outLink.ID
	v.LinkEntryStep = step
}

// doArrival removes a platoon that has reached the link whose end node
// is its final destination. Destination sinks are uncapacitated — a
// ready, signal-permitted head always completes its trip regardless of
// downstream congestion, since there is no downstream link to contend
// for.
func doArrival(w *model.World, l *model.Link, v *model.Vehicle, step int) {
	l.PopFront()
	l.RecordDeparture(w.DeltaN)
	l.RecordRealTravelTime(float64(step-v.LinkEntryStep) * w.Tau)
	v.DistanceTraveled += l.Length
	v.CurrentLinkID = -1
	v.ArrivalStep = step
	v.State = model.StateEnd
}
