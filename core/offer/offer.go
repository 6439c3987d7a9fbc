// Package offer resolves discount offers by code and checks whether an offer
// applies to a package's weight and distance.
package offer

import (
	"errors"
	"fmt"

	"github.com/kilianp07/courier/core/model"
)

var (
	// ErrDuplicateOffer is returned when two offers share a code.
	ErrDuplicateOffer = errors.New("duplicate offer code")
	// ErrInvalidOffer is returned for offers with an empty code, an out of
	// range percentage or an inverted range.
	ErrInvalidOffer = errors.New("invalid offer")
)

// Resolver looks up offers by code.
type Resolver interface {
	FindOffer(code string) (model.Offer, bool)
}

// Matches reports whether the offer applies to the given weight and distance.
func Matches(o model.Offer, weight, distance float64) bool {
	return o.Distance.Contains(distance) && o.Weight.Contains(weight)
}

// Catalog is an immutable in-memory Resolver.
type Catalog struct {
	offers map[string]model.Offer
	codes  []string
}

// NewCatalog validates the offers and indexes them by code. Load order is
// preserved for listing.
func NewCatalog(offers ...model.Offer) (*Catalog, error) {
	c := &Catalog{offers: make(map[string]model.Offer, len(offers))}
	for _, o := range offers {
		if err := validate(o); err != nil {
			return nil, err
		}
		if _, ok := c.offers[o.Code]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateOffer, o.Code)
		}
		c.offers[o.Code] = o
		c.codes = append(c.codes, o.Code)
	}
	return c, nil
}

func validate(o model.Offer) error {
	if o.Code == "" || o.Code == model.NoOffer {
		return fmt.Errorf("%w: code %q is reserved or empty", ErrInvalidOffer, o.Code)
	}
	if o.Discount < 0 || o.Discount > 100 {
		return fmt.Errorf("%w: %s discount %v outside [0,100]", ErrInvalidOffer, o.Code, o.Discount)
	}
	if err := o.Distance.Validate(); err != nil {
		return fmt.Errorf("%w: %s distance: %v", ErrInvalidOffer, o.Code, err)
	}
	if err := o.Weight.Validate(); err != nil {
		return fmt.Errorf("%w: %s weight: %v", ErrInvalidOffer, o.Code, err)
	}
	return nil
}

// FindOffer implements Resolver.
func (c *Catalog) FindOffer(code string) (model.Offer, bool) {
	o, ok := c.offers[code]
	return o, ok
}

// Offers returns the offers in load order.
func (c *Catalog) Offers() []model.Offer {
	out := make([]model.Offer, len(c.codes))
	for i, code := range c.codes {
		out[i] = c.offers[code]
	}
	return out
}

// Len returns the number of offers.
func (c *Catalog) Len() int { return len(c.codes) }

// DefaultOffers returns the built-in offer set used when the configuration
// does not provide one.
func DefaultOffers() []model.Offer {
	return []model.Offer{
		{
			Code:     "OFR001",
			Discount: 10,
			Distance: model.Range{Max: model.Bound(200)},
			Weight:   model.Closed(70, 200),
		},
		{
			Code:     "OFR002",
			Discount: 7,
			Distance: model.Closed(50, 150),
			Weight:   model.Closed(100, 250),
		},
		{
			Code:     "OFR003",
			Discount: 5,
			Distance: model.Closed(50, 250),
			Weight:   model.Closed(10, 150),
		},
	}
}
