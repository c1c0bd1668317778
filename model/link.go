package model

import "math"

// Link is a directed roadway segment carrying a FIFO of in-transit
// platoons plus the cumulative arrival/departure curves used for
// travel-time queries. Motion along a link is continuous-position
// (not an explicit CTM cell-transition scheme): each platoon's
// position x is capped by free-flow speed, by the link's length, and
// by the minimum spacing to the platoon ahead of it, which reproduces
// the triangular fundamental diagram's congested branch without an
// explicit cell-to-cell transition loop. Cells is retained as a
// coarser density buffer purely for Overflow diagnostics, matching
// the "derived quantity" framing in the data model.
type Link struct {
	ID                     int
	Name                   string
	StartNodeID, EndNodeID int
	Length                 float64 // L
	FreeFlowSpeed          float64 // u
	JamDensity             float64 // kappa_j
	BackwardWaveSpeed      float64 // w, derived
	Capacity               float64 // FD capacity mu (veh/s), derived unless CapacityOut overrides
	MergePriority          float64 // p
	CapacityOut            float64 // hard per-step exit cap, veh/s; -1 = FD-bound only
	SignalGroups           map[int]bool

	Cells []int // coarse occupancy buffer, length ceil(L/(u*tau))

	// Queue is FIFO ordered oldest-admitted first (index 0 = the
	// platoon that has had the most time to advance, i.e. closest to
	// the exit under normal — non-overtaking — conditions).
	Queue []*Vehicle

	CumArrival        []float64
	CumDeparture      []float64
	TravelTimeInstant []float64
	TravelTimeReal    []float64

	arrivalCount   float64 // running total, vehicle units
	departureCount float64
	outResidue     float64 // fractional leftover of per-step capacity_out budget

	realTTSum   float64
	realTTCount int

	inResidue float64 // fractional leftover of per-step receiving-capacity budget

	overflowed bool // true while the link is currently over its per-cell jam density, for edge-triggered Overflow diagnostics
}

// NewLink constructs a link and derives its fundamental-diagram
// parameters. Per the design notes, the FD capacity mu defaults to
// quarter-jam-flow (u*kappa_j/4) unless capacityOut overrides it, and
// the backward-wave speed w is derived from mu.
func NewLink(id int, name string, startID, endID int, length, freeFlowSpeed, jamDensity, mergePriority, capacityOut, tau float64, signalGroup []int) *Link {
	mu := freeFlowSpeed * jamDensity / 4
	if capacityOut >= 0 {
		mu = capacityOut
	}
	var w float64
	denom := jamDensity - mu/freeFlowSpeed
	if denom > 0 {
		w = mu / denom
	}
	groups := make(map[int]bool, len(signalGroup))
	for _, g := range signalGroup {
		groups[g] = true
	}
	numCells := int(math.Ceil(length / (freeFlowSpeed * tau)))
	if numCells < 1 {
		numCells = 1
	}
	return &Link{
		ID:                id,
		Name:              name,
		StartNodeID:       startID,
		EndNodeID:         endID,
		Length:            length,
		FreeFlowSpeed:     freeFlowSpeed,
		JamDensity:        jamDensity,
		BackwardWaveSpeed: w,
		Capacity:          mu,
		MergePriority:     mergePriority,
		CapacityOut:       capacityOut,
		SignalGroups:      groups,
		Cells:             make([]int, numCells),
		CumArrival:        []float64{0},
		CumDeparture:      []float64{0},
	}
}

// GroupActive reports whether this link transmits during the given
// signal phase index (always true when the link carries no signal
// group, by convention group 0 matching an unsignalized/all-green
// node's constant phase 0).
func (l *Link) GroupActive(phase int) bool {
	if len(l.SignalGroups) == 0 {
		return true
	}
	return l.SignalGroups[phase]
}

// OccupancyVehicles returns the number of physical vehicles currently
// on the link (platoons in Queue times the platoon size).
func (l *Link) OccupancyVehicles(deltaN float64) float64 {
	return float64(len(l.Queue)) * deltaN
}

// EffectiveSpeed is the average speed of platoons on the link,
// defaulting to free-flow speed when empty.
func (l *Link) EffectiveSpeed() float64 {
	if len(l.Queue) == 0 {
		return l.FreeFlowSpeed
	}
	var sum float64
	for _, v := range l.Queue {
		sum += v.Speed
	}
	return sum / float64(len(l.Queue))
}

// Advance moves every platoon forward by u*tau, capped at Length and
// at the minimum spacing behind its leader (deltaN/JamDensity), which
// is invariant (iii)/(iv) from the data model: position is
// monotonically non-decreasing and a platoon may never overtake the
// one ahead.
func (l *Link) Advance(tau, deltaN float64) {
	minSpacing := deltaN / l.JamDensity
	for i, v := range l.Queue {
		oldX := v.X
		desired := v.X + l.FreeFlowSpeed*tau
		if i > 0 {
			maxAllowed := l.Queue[i-1].X - minSpacing
			if desired > maxAllowed {
				desired = maxAllowed
			}
		}
		if desired > l.Length {
			desired = l.Length
		}
		if desired < oldX {
			desired = oldX
		}
		v.X = desired
		v.Speed = (desired - oldX) / tau
	}
}

// ReadyHead returns the front platoon if it has reached the link's
// exit (x >= Length) and is not yet transferred, or nil.
func (l *Link) ReadyHead() *Vehicle {
	if len(l.Queue) == 0 {
		return nil
	}
	if head := l.Queue[0]; head.X >= l.Length {
		return head
	}
	return nil
}

// PopFront removes and returns the front platoon.
func (l *Link) PopFront() *Vehicle {
	v := l.Queue[0]
	l.Queue = l.Queue[1:]
	return v
}

// PushBack admits a platoon at the link's entry (x=0).
func (l *Link) PushBack(v *Vehicle) {
	v.X = 0
	v.Speed = l.FreeFlowSpeed
	l.Queue = append(l.Queue, v)
}

// SendingQuota returns how many platoons this link may release this
// step given its hard capacity_out (if finite), accumulating
// fractional residue across steps. A link with CapacityOut < 0 is
// unconstrained by this check (still bound by signal/FD elsewhere).
func (l *Link) SendingQuota(tau, deltaN float64) int {
	if l.CapacityOut < 0 {
		return math.MaxInt32
	}
	l.outResidue += l.CapacityOut * tau / deltaN
	// the small tolerance keeps float drift (ten additions of 0.3 sum to
	// 0.9999999999999998) from withholding a whole platoon
	n := int(math.Floor(l.outResidue + 1e-9))
	l.outResidue -= float64(n)
	return n
}

// ReceivingSupply returns how many platoons this link may accept this
// step, bound by the backward-wave receiving capacity, the link's own
// capacity_out (a link also caps what flows into it, conservatively),
// and the FD capacity. Like SendingQuota, the per-step budget is
// accumulated in a fractional residue across calls (inResidue) rather
// than floored and discarded each step — at the spec's own default FD
// capacity (mu = u*kappa_j/4) a single platoon's worth of supply can
// take several steps to accrue, and without carrying the remainder
// forward no platoon would ever be admitted.
func (l *Link) ReceivingSupply(tau, deltaN float64) int {
	freeSpace := l.JamDensity*l.Length - l.OccupancyVehicles(deltaN)
	if freeSpace < 0 {
		freeSpace = 0
	}
	supplyVehPerStep := l.BackwardWaveSpeed * freeSpace
	capVehPerStep := l.Capacity * tau
	if supplyVehPerStep > capVehPerStep || l.BackwardWaveSpeed == 0 {
		supplyVehPerStep = capVehPerStep
	}
	if l.CapacityOut >= 0 {
		outCap := l.CapacityOut * tau
		if outCap < supplyVehPerStep {
			supplyVehPerStep = outCap
		}
	}
	l.inResidue += supplyVehPerStep / deltaN
	if l.inResidue < 0 {
		l.inResidue = 0
	}
	n := int(math.Floor(l.inResidue))
	l.inResidue -= float64(n)
	return n
}

// RefreshCells rebuckets platoons into the coarse density buffer and
// reports whether this step is the rising edge of an Overflow
// condition — any cell's vehicle-equivalent count exceeding what the
// jam density allows for a cell of this width, informational and
// never fatal. Only the transition into overflow is reported (not
// every step a link stays congested), so a link stuck over capacity
// for a long stretch of the run logs one diagnostic per episode
// instead of one per tick.
func (l *Link) RefreshCells(deltaN float64) bool {
	for i := range l.Cells {
		l.Cells[i] = 0
	}
	cellWidth := l.Length / float64(len(l.Cells))
	if cellWidth <= 0 {
		return false
	}
	maxPerCell := l.JamDensity * cellWidth / deltaN
	overflow := false
	for _, v := range l.Queue {
		idx := int(v.X / cellWidth)
		if idx >= len(l.Cells) {
			idx = len(l.Cells) - 1
		}
		if idx < 0 {
			idx = 0
		}
		l.Cells[idx]++
		if float64(l.Cells[idx]) > maxPerCell {
			overflow = true
		}
	}
	risingEdge := overflow && !l.overflowed
	l.overflowed = overflow
	return risingEdge
}

// RecordStep appends this step's cumulative curves and instantaneous
// travel time. It must be called exactly once per step per link.
func (l *Link) RecordStep() {
	l.CumArrival = append(l.CumArrival, l.arrivalCount)
	l.CumDeparture = append(l.CumDeparture, l.departureCount)
	v := l.EffectiveSpeed()
	if v <= 0 {
		v = l.FreeFlowSpeed
	}
	l.TravelTimeInstant = append(l.TravelTimeInstant, l.Length/v)
}

// RecordArrival/RecordDeparture update the running cumulative counters
// in vehicle units (platoons * deltaN) and are called by the transfer
// logic on each admission.
func (l *Link) RecordArrival(deltaN float64)   { l.arrivalCount += deltaN }
func (l *Link) RecordDeparture(deltaN float64) { l.departureCount += deltaN }

// RecordRealTravelTime folds a realized (exit - entry) travel time
// into the running average exposed by AverageRealTravelTime.
func (l *Link) RecordRealTravelTime(tt float64) {
	l.TravelTimeReal = append(l.TravelTimeReal, tt)
	l.realTTSum += tt
	l.realTTCount++
}

// Inflow returns the arrival rate (veh/s) over the open-closed window
// (t1, t2], sampled from the cumulative arrival curve at step
// resolution tau.
func (l *Link) Inflow(t1, t2, tau float64) float64 {
	return curveRate(l.CumArrival, t1, t2, tau)
}

// Outflow is the departure-curve analogue of Inflow.
func (l *Link) Outflow(t1, t2, tau float64) float64 {
	return curveRate(l.CumDeparture, t1, t2, tau)
}

func curveRate(curve []float64, t1, t2, tau float64) float64 {
	if t2 <= t1 {
		return 0
	}
	i1 := int(t1 / tau)
	i2 := int(t2 / tau)
	if i1 < 0 {
		i1 = 0
	}
	if i2 >= len(curve) {
		i2 = len(curve) - 1
	}
	if i1 >= len(curve) {
		i1 = len(curve) - 1
	}
	return (curve[i2] - curve[i1]) / (t2 - t1)
}

// AverageRealTravelTime and StdDevRealTravelTime summarize the
// realized-travel-time samples recorded as platoons exited the link.
func (l *Link) AverageRealTravelTime() float64 {
	if l.realTTCount == 0 {
		return 0
	}
	return l.realTTSum / float64(l.realTTCount)
}

func (l *Link) StdDevRealTravelTime() float64 {
	if l.realTTCount == 0 {
		return 0
	}
	mean := l.AverageRealTravelTime()
	var sq float64
	for _, v := range l.TravelTimeReal {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(l.realTTCount))
}
