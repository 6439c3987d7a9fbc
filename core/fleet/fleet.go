package fleet

import (
	"errors"
	"fmt"
	"math"

	"github.com/kilianp07/courier/core/model"
)

// ErrInternalConsistency signals a broken contract between the packer and the
// scheduler, such as allocating to a busy vehicle or overloading one. It is a
// defect, never a recoverable condition.
var ErrInternalConsistency = errors.New("internal consistency violation")

// Fleet owns the vehicles of a run. Every vehicle shares the same speed and
// capacity.
type Fleet struct {
	vehicles []*model.Vehicle
	speed    float64
	capacity float64
}

// NewFleet creates count identical vehicles, all available at time zero.
func NewFleet(count int, speed, capacity float64) (*Fleet, error) {
	if count <= 0 {
		return nil, fmt.Errorf("fleet: count must be greater than 0")
	}
	f := &Fleet{speed: speed, capacity: capacity}
	for i := 0; i < count; i++ {
		v := &model.Vehicle{
			ID:        fmt.Sprintf("veh%02d", i+1),
			Speed:     speed,
			Capacity:  capacity,
			Available: true,
		}
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("fleet: %w", err)
		}
		f.vehicles = append(f.vehicles, v)
	}
	return f, nil
}

// Speed returns the fleet-wide speed.
func (f *Fleet) Speed() float64 { return f.speed }

// Capacity returns the fleet-wide weight capacity.
func (f *Fleet) Capacity() float64 { return f.capacity }

// Size returns the number of vehicles.
func (f *Fleet) Size() int { return len(f.vehicles) }

// TravelTime returns the one-way travel time for distance at fleet speed.
func (f *Fleet) TravelTime(distance float64) float64 { return f.vehicles[0].TravelTime(distance) }

// Vehicles returns a snapshot of the vehicles.
func (f *Fleet) Vehicles() []model.Vehicle {
	out := make([]model.Vehicle, len(f.vehicles))
	for i, v := range f.vehicles {
		out[i] = *v
	}
	return out
}

// Reset makes every vehicle available at time t.
func (f *Fleet) Reset(t float64) {
	for _, v := range f.vehicles {
		v.Available = true
		v.ReturningIn = t
		v.Shipment = nil
	}
}

// nextAvailable returns the first available vehicle in fleet order.
func (f *Fleet) nextAvailable() *model.Vehicle {
	for _, v := range f.vehicles {
		if v.Available {
			return v
		}
	}
	return nil
}

// HasAvailable reports whether at least one vehicle is free.
func (f *Fleet) HasAvailable() bool { return f.nextAvailable() != nil }

// Allocate assigns s to the first available vehicle departing at now. The
// vehicle is busy until now + s.TripTime.
func (f *Fleet) Allocate(s *model.Shipment, now float64) (model.Vehicle, error) {
	if s == nil || len(s.Packages) == 0 {
		return model.Vehicle{}, fmt.Errorf("%w: empty shipment", ErrInternalConsistency)
	}
	v := f.nextAvailable()
	if v == nil {
		return model.Vehicle{}, fmt.Errorf("%w: no vehicles available", ErrInternalConsistency)
	}
	if !v.CanCarry(s) {
		return model.Vehicle{}, fmt.Errorf("%w: shipment weight %v exceeds vehicle capacity %v",
			ErrInternalConsistency, s.Weight, v.Capacity)
	}
	v.Available = false
	v.ReturningIn = now + s.TripTime
	v.Shipment = s
	return *v, nil
}

// ReleaseNext advances to the earliest return among busy vehicles, frees every
// vehicle returning at that time and returns the time and their ids.
func (f *Fleet) ReleaseNext() (float64, []string, error) {
	next := math.Inf(1)
	for _, v := range f.vehicles {
		if !v.Available && v.ReturningIn < next {
			next = v.ReturningIn
		}
	}
	if math.IsInf(next, 1) {
		return 0, nil, fmt.Errorf("%w: no vehicle out for delivery", ErrInternalConsistency)
	}
	var ids []string
	for _, v := range f.vehicles {
		if !v.Available && v.ReturningIn == next {
			v.Available = true
			v.Shipment = nil
			ids = append(ids, v.ID)
		}
	}
	return next, ids, nil
}

// LastReturn returns the latest return time among busy vehicles, or now when
// every vehicle is already back.
func (f *Fleet) LastReturn(now float64) float64 {
	last := now
	for _, v := range f.vehicles {
		if !v.Available && v.ReturningIn > last {
			last = v.ReturningIn
		}
	}
	return last
}
