package model

import (
	"fmt"
	"log"
	"math"
	"math/rand"
)

// World owns every Node, Link, Vehicle and Demand by dense integer id;
// cross-references between entities are ids, never pointers, so there
// is no cyclic ownership to unwind at shutdown — Vehicles, then Links,
// then Nodes, then World simply fall out of scope together.
type World struct {
	Name                   string
	TMax                   float64
	DeltaN                 float64
	Tau                    float64
	DuoUpdateTime          float64
	DuoUpdateWeight        float64
	RouteChoiceUncertainty float64
	PrintMode              bool
	RandomSeed             int64
	VehicleLogMode         int

	Logger *log.Logger

	Step int
	RNG  *rand.Rand

	Nodes    []*Node
	Links    []*Link
	Vehicles []*Vehicle
	Demands  []*Demand

	// Cost[i][j] / Next[i][j]: blended travel time and next-hop link
	// id from the head of link i toward destination node j. Allocated
	// by InitializeAdjMatrix once topology is frozen.
	Cost [][]float64
	Next [][]int

	nodeIndex map[string]int
	linkIndex map[string]int
	frozen    bool

	Diagnostics []string

	// resumable-execution bookkeeping (segmentation, spec §4.G)
	NextDUOStep    int
	DUOInitialized bool
	NextVehicleID  int
	NextDemandID   int
}

// NewWorld validates global scalars and constructs an empty World
// ready to accept topology via AddNode/AddLink/AddDemand.
func NewWorld(name string, tmax, deltaN, tau, duoUpdateTime, duoUpdateWeight, routeChoiceUncertainty float64, printMode bool, randomSeed int64, vehicleLogMode int) (*World, error) {
	if tmax <= 0 {
		return nil, fmt.Errorf("t_max must be positive: %w", ErrInvalidParameter)
	}
	if deltaN <= 0 {
		return nil, fmt.Errorf("delta_n must be positive: %w", ErrInvalidParameter)
	}
	if tau <= 0 {
		return nil, fmt.Errorf("tau must be positive: %w", ErrInvalidParameter)
	}
	if duoUpdateWeight <= 0 || duoUpdateWeight > 1 {
		return nil, fmt.Errorf("duo_update_weight must be in (0,1]: %w", ErrInvalidParameter)
	}
	return &World{
		Name:                   name,
		TMax:                   tmax,
		DeltaN:                 deltaN,
		Tau:                    tau,
		DuoUpdateTime:          duoUpdateTime,
		DuoUpdateWeight:        duoUpdateWeight,
		RouteChoiceUncertainty: routeChoiceUncertainty,
		PrintMode:              printMode,
		RandomSeed:             randomSeed,
		VehicleLogMode:         vehicleLogMode,
		Logger:                 log.Default(),
		RNG:                    rand.New(rand.NewSource(randomSeed)),
		nodeIndex:              make(map[string]int),
		linkIndex:              make(map[string]int),
	}, nil
}

// AddNode registers a node. signalIntervals defaults to [0]
// (unsignalized) when nil.
func (w *World) AddNode(name string, x, y float64, signalIntervals []float64, signalOffset float64) (*Node, error) {
	if w.frozen {
		return nil, fmt.Errorf("add_node after initialize_adj_matrix: %w", ErrTopologyFrozen)
	}
	if _, exists := w.nodeIndex[name]; exists {
		return nil, fmt.Errorf("node %q: %w", name, ErrDuplicateName)
	}
	n := NewNode(len(w.Nodes), name, x, y, signalIntervals, signalOffset)
	w.nodeIndex[name] = n.ID
	w.Nodes = append(w.Nodes, n)
	return n, nil
}

// AddLink registers a link. Start/end node names must already exist.
func (w *World) AddLink(name, startName, endName string, freeFlowSpeed, jamDensity, length, mergePriority, capacityOut float64, signalGroup []int) (*Link, error) {
	if w.frozen {
		return nil, fmt.Errorf("add_link after initialize_adj_matrix: %w", ErrTopologyFrozen)
	}
	if _, exists := w.linkIndex[name]; exists {
		return nil, fmt.Errorf("link %q: %w", name, ErrDuplicateName)
	}
	start, err := w.GetNode(startName)
	if err != nil {
		return nil, fmt.Errorf("add_link %q start node: %w", name, err)
	}
	end, err := w.GetNode(endName)
	if err != nil {
		return nil, fmt.Errorf("add_link %q end node: %w", name, err)
	}
	if length <= 0 || freeFlowSpeed <= 0 || jamDensity <= 0 {
		return nil, fmt.Errorf("link %q: length/speed/jam_density must be positive: %w", name, ErrInvalidParameter)
	}
	l := NewLink(len(w.Links), name, start.ID, end.ID, length, freeFlowSpeed, jamDensity, mergePriority, capacityOut, w.Tau, signalGroup)
	w.linkIndex[name] = l.ID
	w.Links = append(w.Links, l)
	start.Outgoing = append(start.Outgoing, l.ID)
	end.Incoming = append(end.Incoming, l.ID)
	return l, nil
}

// AddDemand registers a time-windowed OD demand record on the origin
// node, discretizing flow into a per-step Poisson-ish rate Lambda.
func (w *World) AddDemand(origin, destination string, startT, endT, flow float64, preferredLinks []string) (*Demand, error) {
	if w.frozen {
		return nil, fmt.Errorf("add_demand after initialize_adj_matrix: %w", ErrTopologyFrozen)
	}
	o, err := w.GetNode(origin)
	if err != nil {
		return nil, fmt.Errorf("add_demand origin: %w", err)
	}
	d, err := w.GetNode(destination)
	if err != nil {
		return nil, fmt.Errorf("add_demand destination: %w", err)
	}
	if endT <= startT {
		return nil, fmt.Errorf("end_time must exceed start_time: %w", ErrInvalidParameter)
	}
	if flow < 0 {
		return nil, fmt.Errorf("flow must be non-negative: %w", ErrInvalidParameter)
	}
	linkIDs := make([]int, 0, len(preferredLinks))
	for _, ln := range preferredLinks {
		l, err := w.GetLink(ln)
		if err != nil {
			return nil, fmt.Errorf("add_demand preferred link: %w", err)
		}
		linkIDs = append(linkIDs, l.ID)
	}
	dem := &Demand{
		ID:             w.NextDemandID,
		OriginID:       o.ID,
		DestID:         d.ID,
		StartT:         startT,
		EndT:           endT,
		Flow:           flow,
		PreferredLinks: linkIDs,
		Lambda:         flow * w.Tau / w.DeltaN,
	}
	w.NextDemandID++
	w.Demands = append(w.Demands, dem)
	return dem, nil
}

// InitializeAdjMatrix freezes topology and allocates the DUO cost/next
// tables of shape (num_links x num_nodes). Must be called exactly
// once, after every AddNode/AddLink/AddDemand call.
func (w *World) InitializeAdjMatrix() error {
	if w.frozen {
		return fmt.Errorf("initialize_adj_matrix called twice: %w", ErrTopologyFrozen)
	}
	w.frozen = true
	nLinks := len(w.Links)
	nNodes := len(w.Nodes)
	w.Cost = make([][]float64, nLinks)
	w.Next = make([][]int, nLinks)
	for i := range w.Cost {
		w.Cost[i] = make([]float64, nNodes)
		w.Next[i] = make([]int, nNodes)
		for j := range w.Next[i] {
			w.Next[i][j] = -1
			w.Cost[i][j] = math.Inf(1)
		}
	}
	w.NextDUOStep = 0
	return nil
}

// GetNode looks a node up by name.
func (w *World) GetNode(name string) (*Node, error) {
	id, ok := w.nodeIndex[name]
	if !ok {
		return nil, fmt.Errorf("node %q: %w", name, ErrUnknownName)
	}
	return w.Nodes[id], nil
}

// GetLink looks a link up by name.
func (w *World) GetLink(name string) (*Link, error) {
	id, ok := w.linkIndex[name]
	if !ok {
		return nil, fmt.Errorf("link %q: %w", name, ErrUnknownName)
	}
	return w.Links[id], nil
}

// ResolveLink normalizes any LinkRef (id, name, or instance) to a
// *Link, the one place the polymorphic "link-like" identifier from
// the API surface is unwrapped.
func (w *World) ResolveLink(ref LinkRef) (*Link, error) {
	switch r := ref.(type) {
	case LinkRefInstance:
		if r.Link == nil {
			return nil, fmt.Errorf("nil link instance: %w", ErrUnknownName)
		}
		return r.Link, nil
	case LinkRefName:
		return w.GetLink(string(r))
	case LinkRefID:
		if int(r) < 0 || int(r) >= len(w.Links) {
			return nil, fmt.Errorf("link id %d: %w", r, ErrUnknownName)
		}
		return w.Links[r], nil
	default:
		return nil, fmt.Errorf("unknown LinkRef %T: %w", ref, ErrInvalidParameter)
	}
}

// ResolveNode is the Node analogue of ResolveLink.
func (w *World) ResolveNode(ref NodeRef) (*Node, error) {
	switch r := ref.(type) {
	case NodeRefInstance:
		if r.Node == nil {
			return nil, fmt.Errorf("nil node instance: %w", ErrUnknownName)
		}
		return r.Node, nil
	case NodeRefName:
		return w.GetNode(string(r))
	case NodeRefID:
		if int(r) < 0 || int(r) >= len(w.Nodes) {
			return nil, fmt.Errorf("node id %d: %w", r, ErrUnknownName)
		}
		return w.Nodes[r], nil
	default:
		return nil, fmt.Errorf("unknown NodeRef %T: %w", ref, ErrInvalidParameter)
	}
}

// LinksEqual reports whether two link-like references name the same
// link, ported from the original binding's eq_Link.
func (w *World) LinksEqual(a, b LinkRef) bool {
	la, errA := w.ResolveLink(a)
	lb, errB := w.ResolveLink(b)
	if errA != nil || errB != nil {
		return false
	}
	return la.ID == lb.ID
}

// Warnf records a non-fatal runtime diagnostic (spec §7: Unreachable,
// zero-demand, etc. are warnings, not aborts) and logs it when
// PrintMode is set.
func (w *World) Warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	w.Diagnostics = append(w.Diagnostics, msg)
	if w.PrintMode {
		w.Logger.Printf("[warn] %s", msg)
	}
}

// warnSentinel records a non-fatal diagnostic built by wrapping one of
// the taxonomy sentinels from errors.go, so the sentinel's text appears
// in the message. Only the formatted string is kept in Diagnostics;
// the error value is not retained, so errors.Is cannot be applied to
// recorded diagnostics.
func (w *World) warnSentinel(sentinel error, format string, args ...any) {
	err := fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), sentinel)
	w.Warnf("%v", err)
}

// MarkUnreachable flags demandID as unserviceable (spec §7:
// Unreachable) and logs a warning wrapping ErrUnreachable. demandID
// outside the valid range only logs, which lets node-local callers
// that cannot attribute a specific demand (e.g. a vehicle with no
// backing record) still surface the diagnostic.
func (w *World) MarkUnreachable(demandID int, format string, args ...any) {
	if demandID >= 0 && demandID < len(w.Demands) {
		w.Demands[demandID].Unreachable = true
	}
	w.warnSentinel(ErrUnreachable, format, args...)
}

// WarnOverflow logs a non-fatal diagnostic wrapping ErrOverflow (spec
// §7: Overflow).
func (w *World) WarnOverflow(format string, args ...any) {
	w.warnSentinel(ErrOverflow, format, args...)
}

// AllocVehicleID returns the next dense vehicle id and advances the
// counter.
func (w *World) AllocVehicleID() int {
	id := w.NextVehicleID
	w.NextVehicleID++
	return id
}
