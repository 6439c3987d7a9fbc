package metrics

import "time"

// ShipmentEvent describes a shipment leaving the depot. Simulated times are
// unitless; Time is the wall clock at which the event was recorded.
type ShipmentEvent struct {
	RunID      string
	VehicleID  string
	PackageIDs []string
	Weight     float64
	DepartAt   float64
	ReturnAt   float64
	TripTime   float64
	Time       time.Time
}

// MetricsSink records shipments for observability purposes.
type MetricsSink interface {
	RecordShipment(ev ShipmentEvent) error
}

// VehicleReturnEvent is emitted when simulated time advances to the next
// vehicle return.
type VehicleReturnEvent struct {
	RunID      string
	VehicleIDs []string
	At         float64
	Time       time.Time
}

// VehicleReturnRecorder records vehicle returns.
type VehicleReturnRecorder interface {
	RecordVehicleReturn(ev VehicleReturnEvent) error
}

// CostEvent captures the estimated cost of one package.
type CostEvent struct {
	RunID     string
	PackageID string
	OfferCode string
	Delivery  float64
	Discount  float64
	Total     float64
	Time      time.Time
}

// CostRecorder records package cost estimates.
type CostRecorder interface {
	RecordCost(ev CostEvent) error
}

// RunEvent summarises a finished run.
type RunEvent struct {
	RunID         string
	Mode          string
	Packages      int
	Delivered     int
	Undeliverable int
	Shipments     int
	Makespan      float64
	FinalState    string
	Duration      time.Duration
	Time          time.Time
}

// RunRecorder records run summaries.
type RunRecorder interface {
	RecordRun(ev RunEvent) error
}

// Closer is implemented by sinks that buffer output or hold connections.
// Close is called once at the end of a run.
type Closer interface {
	Close() error
}

// Close closes s when it implements Closer.
func Close(s MetricsSink) error {
	if c, ok := s.(Closer); ok {
		return c.Close()
	}
	return nil
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordShipment(ShipmentEvent) error           { return nil }
func (NopSink) RecordVehicleReturn(VehicleReturnEvent) error { return nil }
func (NopSink) RecordCost(CostEvent) error                   { return nil }
func (NopSink) RecordRun(RunEvent) error                     { return nil }
