package metrics

import (
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/courier/core/metrics"
)

// PromSink records scheduling activity in Prometheus metrics. The estimator is
// a one-shot process, so metrics are exported by writing the registry to a
// textfile collector file on Close instead of serving them over HTTP.
type PromSink struct {
	gatherer prometheus.Gatherer
	textfile string

	shipments   *prometheus.CounterVec
	packages    prometheus.Counter
	returns     prometheus.Counter
	weight      prometheus.Histogram
	trip        prometheus.Histogram
	estimates   *prometheus.CounterVec
	discount    prometheus.Counter
	runs        *prometheus.CounterVec
	makespan    prometheus.Gauge
	undelivered prometheus.Gauge
}

// NewPromSink registers metrics on a fresh registry and writes them to
// textfile on Close. An empty textfile disables the export.
func NewPromSink(textfile string) (*PromSink, error) {
	return NewPromSinkWithRegistry(textfile, prometheus.NewRegistry())
}

// NewPromSinkWithRegistry registers metrics on reg. A nil registry defaults to
// a fresh one.
func NewPromSinkWithRegistry(textfile string, reg *prometheus.Registry) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	s := &PromSink{
		gatherer: reg,
		textfile: textfile,
		shipments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "courier_shipments_total",
			Help: "Shipments dispatched per vehicle",
		}, []string{"vehicle_id"}),
		packages: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courier_packages_dispatched_total",
			Help: "Packages loaded onto a vehicle",
		}),
		returns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courier_vehicle_returns_total",
			Help: "Vehicles released back to the depot",
		}),
		weight: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "courier_shipment_weight_kg",
			Help:    "Total weight per shipment",
			Buckets: prometheus.ExponentialBuckets(10, 2, 8),
		}),
		trip: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "courier_shipment_trip_hours",
			Help:    "Round trip time per shipment",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
		}),
		estimates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "courier_cost_estimates_total",
			Help: "Package cost estimates by offer outcome",
		}, []string{"offer_applied"}),
		discount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courier_discount_total",
			Help: "Sum of discounts granted",
		}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "courier_runs_total",
			Help: "Estimation runs by mode and final state",
		}, []string{"mode", "final_state"}),
		makespan: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "courier_run_makespan_hours",
			Help: "Time the last vehicle returned in the latest run",
		}),
		undelivered: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "courier_run_undeliverable_packages",
			Help: "Packages no vehicle could carry in the latest run",
		}),
	}
	for _, c := range []prometheus.Collector{
		s.shipments, s.packages, s.returns, s.weight, s.trip,
		s.estimates, s.discount, s.runs, s.makespan, s.undelivered,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("prometheus sink: %w", err)
		}
	}
	return s, nil
}

// RecordShipment counts the shipment and observes its weight and trip time.
func (s *PromSink) RecordShipment(ev coremetrics.ShipmentEvent) error {
	s.shipments.WithLabelValues(ev.VehicleID).Inc()
	s.packages.Add(float64(len(ev.PackageIDs)))
	s.weight.Observe(ev.Weight)
	s.trip.Observe(ev.TripTime)
	return nil
}

// RecordVehicleReturn counts released vehicles.
func (s *PromSink) RecordVehicleReturn(ev coremetrics.VehicleReturnEvent) error {
	s.returns.Add(float64(len(ev.VehicleIDs)))
	return nil
}

// RecordCost counts the estimate and accumulates its discount.
func (s *PromSink) RecordCost(ev coremetrics.CostEvent) error {
	s.estimates.WithLabelValues(strconv.FormatBool(ev.Discount > 0)).Inc()
	s.discount.Add(ev.Discount)
	return nil
}

// RecordRun sets the run gauges.
func (s *PromSink) RecordRun(ev coremetrics.RunEvent) error {
	s.runs.WithLabelValues(ev.Mode, ev.FinalState).Inc()
	s.makespan.Set(ev.Makespan)
	s.undelivered.Set(float64(ev.Undeliverable))
	return nil
}

// Close writes the registry to the configured textfile.
func (s *PromSink) Close() error {
	if s.textfile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(s.textfile, s.gatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
