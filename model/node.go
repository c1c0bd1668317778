package model

import "math/rand"

// Node is an intersection or source/sink point in the network. Signal
// state is derived from SignalIntervals/SignalOffset; a node with
// Intervals=[0] is unsignalized and always all-green.
type Node struct {
	ID   int
	Name string
	X, Y float64

	Outgoing []int // link ids, start_node == this node
	Incoming []int // link ids, end_node == this node

	SignalIntervals []float64 // per-group green duration; [0] => unsignalized
	SignalOffset    float64
	CycleLength     float64 // sum of SignalIntervals, 0 if unsignalized

	// WaitQueue holds platoons released by demand (state Wait) at this
	// node's virtual source, FIFO by release order.
	WaitQueue []*Vehicle
}

// NewNode constructs a node and derives its cycle length.
func NewNode(id int, name string, x, y float64, signalIntervals []float64, signalOffset float64) *Node {
	if len(signalIntervals) == 0 {
		signalIntervals = []float64{0}
	}
	intervals := append([]float64(nil), signalIntervals...)
	var cycle float64
	for _, v := range intervals {
		cycle += v
	}
	return &Node{
		ID:              id,
		Name:            name,
		X:               x,
		Y:               y,
		SignalIntervals: intervals,
		SignalOffset:    signalOffset,
		CycleLength:     cycle,
	}
}

// Signalized reports whether this node runs a fixed-cycle signal plan.
func (n *Node) Signalized() bool {
	return !(len(n.SignalIntervals) == 1 && n.SignalIntervals[0] == 0)
}

// PhaseAt returns the active signal-group index at simulation time t.
// Unsignalized nodes always return 0 ("all-green").
func (n *Node) PhaseAt(t float64) int {
	if !n.Signalized() || n.CycleLength <= 0 {
		return 0
	}
	pos := t + n.SignalOffset
	// reduce to [0, CycleLength)
	pos -= n.CycleLength * float64(int(pos/n.CycleLength))
	if pos < 0 {
		pos += n.CycleLength
	}
	var acc float64
	for i, iv := range n.SignalIntervals {
		acc += iv
		if pos < acc {
			return i
		}
	}
	return len(n.SignalIntervals) - 1
}

// RandomPermutation returns a deterministic-given-rng random ordering
// of ids, used by sim.selectByPriority to break ties among
// simultaneously-admissible transfers contending for this node's
// outgoing links. The slice is freshly allocated each call so callers
// may retain it.
func (n *Node) RandomPermutation(rng *rand.Rand, ids []int) []int {
	perm := append([]int(nil), ids...)
	rng.Shuffle(len(perm), func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })
	return perm
}
