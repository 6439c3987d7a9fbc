package fleet

// State is a state of the scheduling loop.
type State int

const (
	// StatePackagesRemaining means undelivered packages are still pooled.
	StatePackagesRemaining State = iota
	// StateNoVehicleAvailable means the clock must advance to the next return.
	StateNoVehicleAvailable
	// StateNoValidShipment is terminal: no remaining package fits a vehicle.
	StateNoValidShipment
	// StateDone is terminal: every package has been dispatched.
	StateDone
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StatePackagesRemaining:
		return "packages_remaining"
	case StateNoVehicleAvailable:
		return "no_vehicle_available"
	case StateNoValidShipment:
		return "no_valid_shipment"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Terminal reports whether the loop stops in this state.
func (s State) Terminal() bool {
	return s == StateNoValidShipment || s == StateDone
}
