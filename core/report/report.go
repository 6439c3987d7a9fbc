// Package report summarises a scheduling run.
package report

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/courier/core/fleet"
	"github.com/kilianp07/courier/core/model"
)

// Summary holds aggregate figures of one run. Times are in simulated hours.
type Summary struct {
	Packages      int
	Delivered     int
	Undeliverable int
	Shipments     int

	MeanDelivery   float64
	StdDevDelivery float64
	MedianDelivery float64
	MaxDelivery    float64

	// MeanLoad is the average shipment weight as a share of vehicle capacity.
	MeanLoad float64
	// Utilisation is the share of fleet time spent on trips between start and
	// makespan.
	Utilisation float64
	Makespan    float64
}

// Build computes the summary of res for pkgs. Delivery times are measured
// from start.
func Build(pkgs []*model.Package, res fleet.Result, vehicles int, capacity, start float64) Summary {
	s := Summary{
		Packages:      len(pkgs),
		Delivered:     res.Delivered(),
		Undeliverable: len(res.Undeliverable),
		Shipments:     len(res.Dispatches),
		Makespan:      res.Makespan,
	}

	times := make([]float64, 0, len(pkgs))
	for _, p := range pkgs {
		if p.DeliveryAt != nil {
			times = append(times, *p.DeliveryAt-start)
		}
	}
	if len(times) > 0 {
		sort.Float64s(times)
		s.MeanDelivery = stat.Mean(times, nil)
		if len(times) > 1 {
			s.StdDevDelivery = stat.StdDev(times, nil)
		}
		s.MedianDelivery = stat.Quantile(0.5, stat.Empirical, times, nil)
		s.MaxDelivery = floats.Max(times)
	}

	if len(res.Dispatches) == 0 || capacity <= 0 || vehicles <= 0 {
		return s
	}
	loads := make([]float64, len(res.Dispatches))
	busy := make([]float64, len(res.Dispatches))
	for i, d := range res.Dispatches {
		loads[i] = d.Weight / capacity
		busy[i] = d.ReturnAt - d.DepartAt
	}
	s.MeanLoad = stat.Mean(loads, nil)
	if span := res.Makespan - start; span > 0 {
		s.Utilisation = floats.Sum(busy) / (float64(vehicles) * span)
	}
	return s
}

// String renders the summary on a single line for logs and stderr.
func (s Summary) String() string {
	return fmt.Sprintf("packages=%d delivered=%d undeliverable=%d shipments=%d mean=%.2f stddev=%.2f median=%.2f max=%.2f load=%.0f%% utilisation=%.0f%% makespan=%.2f",
		s.Packages, s.Delivered, s.Undeliverable, s.Shipments,
		s.MeanDelivery, s.StdDevDelivery, s.MedianDelivery, s.MaxDelivery,
		s.MeanLoad*100, s.Utilisation*100, s.Makespan)
}
