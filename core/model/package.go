package model

// NoOffer is the sentinel offer code meaning no offer applies.
const NoOffer = "NA"

// Package is a parcel handed to the fleet. The cost fields are written by the
// cost calculator, TravelTime and DeliveryAt by the scheduler.
type Package struct {
	ID        string
	Weight    float64 // kg
	Distance  float64 // km
	OfferCode string

	DeliveryCost float64
	Discount     float64
	TotalCost    float64

	// TravelTime is the one-way travel time at fleet speed.
	TravelTime float64
	// DeliveryAt is nil until the package has been dispatched.
	DeliveryAt *float64
}

// HasOffer reports whether the package carries a real offer code.
func (p *Package) HasOffer() bool {
	return p.OfferCode != "" && p.OfferCode != NoOffer
}

// Delivered reports whether the package has a delivery timestamp.
func (p *Package) Delivered() bool {
	return p.DeliveryAt != nil
}
