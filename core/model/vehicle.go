package model

import (
	"fmt"
	"math"
)

// WeightEpsilon is the relative slack for floating point noise in summed
// weights, so 0.1 + 0.2 kg fits a 0.3 kg vehicle.
const WeightEpsilon = 1e-9

// Fits reports whether weight kg fits within capacity kg.
func Fits(weight, capacity float64) bool {
	return weight <= capacity+WeightEpsilon*math.Max(1, math.Abs(capacity))
}

// Vehicle is a delivery vehicle of the fleet. Speed and Capacity are shared by
// every vehicle of a run.
type Vehicle struct {
	ID        string
	Speed     float64 // km/h
	Capacity  float64 // max load in kg
	Available bool    // false while out for delivery

	// ReturningIn is the absolute simulated time at which the vehicle becomes
	// available again. Only meaningful while Available is false.
	ReturningIn float64

	// Shipment is owned by the vehicle while out for delivery.
	Shipment *Shipment
}

// Validate checks that the vehicle configuration is sound.
func (v Vehicle) Validate() error {
	if v.Speed <= 0 {
		return fmt.Errorf("vehicle %s: speed must be greater than 0", v.ID)
	}
	if v.Capacity <= 0 {
		return fmt.Errorf("vehicle %s: capacity must be greater than 0", v.ID)
	}
	return nil
}

// CanCarry returns true if the vehicle is available and the shipment fits its
// capacity.
func (v Vehicle) CanCarry(s *Shipment) bool {
	return v.Available && s != nil && Fits(s.Weight, v.Capacity)
}

// TravelTime returns the one-way travel time for the given distance.
func (v Vehicle) TravelTime(distance float64) float64 {
	return distance / v.Speed
}
