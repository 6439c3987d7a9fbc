package fleet

import (
	"fmt"
	"time"

	"github.com/kilianp07/courier/core/logger"
	"github.com/kilianp07/courier/core/metrics"
	"github.com/kilianp07/courier/core/model"
)

// Packer selects the shipment sent on the next trip. It must not retain pool.
type Packer interface {
	Pack(pool []*model.Package, capacity float64) *model.Shipment
}

// Dispatch records one shipment leaving with a vehicle.
type Dispatch struct {
	VehicleID  string
	PackageIDs []string
	Weight     float64
	DepartAt   float64
	ReturnAt   float64
}

// Result is the outcome of a scheduling run.
type Result struct {
	Dispatches []Dispatch
	// Undeliverable packages exceed the fleet capacity on their own and never
	// receive a delivery time.
	Undeliverable []*model.Package
	FinalState    State
	// Makespan is the time the last vehicle returns to the depot.
	Makespan float64
	// Steps counts loop iterations, clock advances included.
	Steps int
}

// Delivered returns the number of packages dispatched.
func (r Result) Delivered() int {
	n := 0
	for _, d := range r.Dispatches {
		n += len(d.PackageIDs)
	}
	return n
}

// Scheduler owns the fleet and the package pool of a run.
type Scheduler struct {
	fleet  *Fleet
	packer Packer
	log    logger.Logger
	sink   metrics.MetricsSink
	runID  string
}

// NewScheduler creates a scheduler over f. A nil sink disables metrics.
func NewScheduler(f *Fleet, p Packer, log logger.Logger, sink metrics.MetricsSink) (*Scheduler, error) {
	if f == nil || p == nil || log == nil {
		return nil, fmt.Errorf("fleet: nil parameter provided to NewScheduler")
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Scheduler{fleet: f, packer: p, log: log, sink: sink}, nil
}

// SetRunID tags recorded metrics with the run identifier.
func (s *Scheduler) SetRunID(id string) { s.runID = id }

// Run stamps every deliverable package with its delivery time, starting the
// clock at start. Packages already carrying a delivery time are skipped.
// An error is returned only for internal consistency violations.
func (s *Scheduler) Run(pkgs []*model.Package, start float64) (Result, error) {
	s.fleet.Reset(start)
	now := start
	var res Result

	remaining := make([]*model.Package, 0, len(pkgs))
	for _, p := range pkgs {
		p.TravelTime = s.fleet.TravelTime(p.Distance)
		if !p.Delivered() {
			remaining = append(remaining, p)
		}
	}

	state := StatePackagesRemaining
	for !state.Terminal() {
		res.Steps++
		switch {
		case len(remaining) == 0:
			state = StateDone
		case !s.fleet.HasAvailable():
			state = StateNoVehicleAvailable
			t, ids, err := s.fleet.ReleaseNext()
			if err != nil {
				return res, err
			}
			now = t
			s.log.Debugw("vehicles returned", map[string]any{"at": now, "vehicles": ids})
			s.record(s.recordReturn(ids, now))
		default:
			shipment := s.packer.Pack(remaining, s.fleet.Capacity())
			if shipment == nil {
				state = StateNoValidShipment
				res.Undeliverable = remaining
				for _, p := range remaining {
					s.log.Warnf("package %s (%v kg) exceeds vehicle capacity %v kg and could not be estimated",
						p.ID, p.Weight, s.fleet.Capacity())
				}
				break
			}
			d, err := s.dispatch(shipment, now)
			if err != nil {
				return res, err
			}
			res.Dispatches = append(res.Dispatches, d)
			remaining = without(remaining, shipment)
			state = StatePackagesRemaining
		}
	}

	res.FinalState = state
	res.Makespan = s.fleet.LastReturn(now)
	s.log.Infof("scheduling finished: state=%s shipments=%d undeliverable=%d makespan=%.2f",
		state, len(res.Dispatches), len(res.Undeliverable), res.Makespan)
	return res, nil
}

func (s *Scheduler) dispatch(shipment *model.Shipment, now float64) (Dispatch, error) {
	for _, p := range shipment.Packages {
		if p.Delivered() {
			return Dispatch{}, fmt.Errorf("%w: package %s already has a delivery time", ErrInternalConsistency, p.ID)
		}
	}
	v, err := s.fleet.Allocate(shipment, now)
	if err != nil {
		return Dispatch{}, err
	}
	for _, p := range shipment.Packages {
		at := now + p.TravelTime
		p.DeliveryAt = &at
	}
	d := Dispatch{
		VehicleID:  v.ID,
		PackageIDs: shipment.IDs(),
		Weight:     shipment.Weight,
		DepartAt:   now,
		ReturnAt:   v.ReturningIn,
	}
	s.log.Debugw("shipment dispatched", map[string]any{
		"vehicle":  d.VehicleID,
		"packages": d.PackageIDs,
		"weight":   d.Weight,
		"depart":   d.DepartAt,
		"return":   d.ReturnAt,
	})
	s.record(s.sink.RecordShipment(metrics.ShipmentEvent{
		RunID:      s.runID,
		VehicleID:  d.VehicleID,
		PackageIDs: d.PackageIDs,
		Weight:     d.Weight,
		DepartAt:   d.DepartAt,
		ReturnAt:   d.ReturnAt,
		TripTime:   shipment.TripTime,
		Time:       time.Now(),
	}))
	return d, nil
}

func (s *Scheduler) recordReturn(ids []string, at float64) error {
	r, ok := s.sink.(metrics.VehicleReturnRecorder)
	if !ok {
		return nil
	}
	return r.RecordVehicleReturn(metrics.VehicleReturnEvent{RunID: s.runID, VehicleIDs: ids, At: at, Time: time.Now()})
}

func (s *Scheduler) record(err error) {
	if err != nil {
		s.log.Warnf("metrics sink: %v", err)
	}
}

// without returns pool minus the shipment's packages, preserving order.
func without(pool []*model.Package, s *model.Shipment) []*model.Package {
	taken := make(map[*model.Package]struct{}, len(s.Packages))
	for _, p := range s.Packages {
		taken[p] = struct{}{}
	}
	out := make([]*model.Package, 0, len(pool))
	for _, p := range pool {
		if _, ok := taken[p]; !ok {
			out = append(out, p)
		}
	}
	return out
}
