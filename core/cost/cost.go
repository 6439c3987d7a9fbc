// Package cost computes per-package delivery cost net of promotional
// discounts.
package cost

import (
	"errors"
	"fmt"
	"math"

	"github.com/kilianp07/courier/core/model"
	"github.com/kilianp07/courier/core/offer"
)

// Tariff coefficients applied per kg and per km.
const (
	WeightRate   = 10
	DistanceRate = 5
)

// ErrInvalidInput is returned when a package or base cost violates the
// calculator's preconditions.
var ErrInvalidInput = errors.New("invalid input")

// Calculator estimates delivery cost and discount for packages.
type Calculator struct {
	resolver offer.Resolver
}

// NewCalculator returns a Calculator using r to look up offers. A nil resolver
// disables discounts.
func NewCalculator(r offer.Resolver) *Calculator {
	return &Calculator{resolver: r}
}

// DeliveryCost returns the undiscounted cost of shipping a package.
func DeliveryCost(baseCost, weight, distance float64) float64 {
	return baseCost + weight*WeightRate + distance*DistanceRate
}

// Estimate writes DeliveryCost, Discount and TotalCost onto p. The package is
// left untouched when an error is returned.
func (c *Calculator) Estimate(p *model.Package, baseCost float64) error {
	if p == nil {
		return fmt.Errorf("%w: nil package", ErrInvalidInput)
	}
	if p.Weight <= 0 || p.Distance <= 0 {
		return fmt.Errorf("%w: package %s weight and distance must be positive", ErrInvalidInput, p.ID)
	}
	if baseCost < 0 {
		return fmt.Errorf("%w: base cost %v is negative", ErrInvalidInput, baseCost)
	}

	delivery := DeliveryCost(baseCost, p.Weight, p.Distance)
	discount := c.discount(p, delivery)

	p.DeliveryCost = delivery
	p.Discount = discount
	p.TotalCost = delivery - discount
	return nil
}

func (c *Calculator) discount(p *model.Package, delivery float64) float64 {
	if c.resolver == nil || !p.HasOffer() {
		return 0
	}
	o, ok := c.resolver.FindOffer(p.OfferCode)
	if !ok || !offer.Matches(o, p.Weight, p.Distance) {
		return 0
	}
	return math.Floor(delivery * o.Discount / 100)
}

// EstimateAll runs Estimate for every package and stops at the first error.
func (c *Calculator) EstimateAll(pkgs []*model.Package, baseCost float64) error {
	for _, p := range pkgs {
		if err := c.Estimate(p, baseCost); err != nil {
			return err
		}
	}
	return nil
}
