package model

// Shipment is a batch of packages carried by one vehicle for one trip. It is
// never mutated after allocation.
type Shipment struct {
	Packages []*Package
	Weight   float64 // total weight in kg
	// TripTime is the round trip duration: twice the longest one-way travel
	// time among the packages.
	TripTime float64
}

// NewShipment builds a shipment and derives its weight and trip time.
func NewShipment(pkgs []*Package) *Shipment {
	s := &Shipment{Packages: pkgs}
	var longest float64
	for _, p := range pkgs {
		s.Weight += p.Weight
		if p.TravelTime > longest {
			longest = p.TravelTime
		}
	}
	s.TripTime = 2 * longest
	return s
}

// IDs returns the package identifiers in shipment order.
func (s *Shipment) IDs() []string {
	ids := make([]string, len(s.Packages))
	for i, p := range s.Packages {
		ids[i] = p.ID
	}
	return ids
}
