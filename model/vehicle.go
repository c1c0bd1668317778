package model

// Vehicle is a platoon of DeltaN physical vehicles, the atomic unit of
// all transfers between links and nodes.
type Vehicle struct {
	ID             int
	OriginID       int
	DestID         int
	DemandID       int   // originating Demand.ID, for Unreachable attribution
	PreferredLinks []int // optional forced route prefix, consumed link by link

	State         VehicleState
	CurrentLinkID int // -1 when not on a link
	X             float64
	Speed         float64

	GenStep       int // step at which the platoon is materialized (home -> wait)
	LinkEntryStep int
	DepartureStep int // step released from origin (wait -> run); -1 until then
	ArrivalStep   int // step it reaches its destination; -1 until then

	DistanceTraveled float64

	DetailedLog   bool
	arrivalLogged bool // true once a StateEnd sample has been recorded, so RecordLog stops appending for the rest of the run
	LogT          []float64
	LogState      []VehicleState
	LogLink       []int
	LogX          []float64
	LogV          []float64
}

// NewVehicle constructs a platoon in state Home, scheduled to be
// released at genStep. demandID is the originating Demand.ID, or -1
// for a vehicle with no backing demand record (e.g. in isolated unit
// tests).
func NewVehicle(id, originID, destID, demandID int, preferredLinks []int, genStep int, detailedLog bool) *Vehicle {
	return &Vehicle{
		ID:             id,
		OriginID:       originID,
		DestID:         destID,
		DemandID:       demandID,
		PreferredLinks: append([]int(nil), preferredLinks...),
		State:          StateHome,
		CurrentLinkID:  -1,
		GenStep:        genStep,
		DepartureStep:  -1,
		ArrivalStep:    -1,
		DetailedLog:    detailedLog,
	}
}

// NextPreferredLink pops and returns the head of the preferred-links
// override, if any remains.
func (v *Vehicle) NextPreferredLink() (int, bool) {
	if len(v.PreferredLinks) == 0 {
		return 0, false
	}
	id := v.PreferredLinks[0]
	v.PreferredLinks = v.PreferredLinks[1:]
	return id, true
}

// PeekPreferredLink returns the head of the preferred-links override
// without consuming it, for routing decisions that must be retried if
// a transfer is denied this step.
func (v *Vehicle) PeekPreferredLink() (int, bool) {
	if len(v.PreferredLinks) == 0 {
		return 0, false
	}
	return v.PreferredLinks[0], true
}

// RecordLog appends one (t, state, link, x, v) sample when detailed
// per-vehicle logging is enabled. Once the platoon has reached
// StateEnd, one final sample is recorded and further calls are
// no-ops — otherwise a platoon that arrives early in a long run would
// keep accumulating identical trailing samples for every remaining
// step.
func (v *Vehicle) RecordLog(t float64) {
	if !v.DetailedLog || v.arrivalLogged {
		return
	}
	v.LogT = append(v.LogT, t)
	v.LogState = append(v.LogState, v.State)
	v.LogLink = append(v.LogLink, v.CurrentLinkID)
	v.LogX = append(v.LogX, v.X)
	v.LogV = append(v.LogV, v.Speed)
	if v.State == StateEnd {
		v.arrivalLogged = true
	}
}

// TravelTime is (arrival - departure)*tau, or -1 if not yet arrived.
func (v *Vehicle) TravelTime(tau float64) float64 {
	if v.ArrivalStep < 0 || v.DepartureStep < 0 {
		return -1
	}
	return float64(v.ArrivalStep-v.DepartureStep) * tau
}

// AverageSpeed is DistanceTraveled / TravelTime, or -1 if undefined.
func (v *Vehicle) AverageSpeed(tau float64) float64 {
	tt := v.TravelTime(tau)
	if tt <= 0 {
		return -1
	}
	return v.DistanceTraveled / tt
}
