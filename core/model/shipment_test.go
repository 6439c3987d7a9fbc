package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewShipment(t *testing.T) {
	a := &Package{ID: "a", Weight: 50, TravelTime: 1.5}
	b := &Package{ID: "b", Weight: 75, TravelTime: 0.5}
	s := NewShipment([]*Package{a, b})
	assert.Equal(t, 125.0, s.Weight)
	assert.Equal(t, 3.0, s.TripTime)
	assert.Equal(t, []string{"a", "b"}, s.IDs())
}

func TestVehicleCanCarry(t *testing.T) {
	v := Vehicle{ID: "v1", Speed: 70, Capacity: 200, Available: true}
	assert.NoError(t, v.Validate())
	assert.True(t, v.CanCarry(&Shipment{Weight: 200}))
	assert.False(t, v.CanCarry(&Shipment{Weight: 200.5}))
	assert.False(t, v.CanCarry(nil))
	v.Available = false
	assert.False(t, v.CanCarry(&Shipment{Weight: 10}))
	assert.InDelta(t, 1.0, v.TravelTime(70), 1e-12)
}

func TestFits(t *testing.T) {
	assert.True(t, Fits(0.1+0.2, 0.3))
	assert.True(t, Fits(50, 50))
	assert.False(t, Fits(50.004, 50))
	assert.False(t, Fits(50.008, 50))
	assert.True(t, (Vehicle{Capacity: 50, Available: true}).CanCarry(&Shipment{Weight: 50}))
	assert.False(t, (Vehicle{Capacity: 50, Available: true}).CanCarry(&Shipment{Weight: 50.004}))
}

func TestVehicleValidate(t *testing.T) {
	assert.Error(t, Vehicle{ID: "x", Speed: 0, Capacity: 1}.Validate())
	assert.Error(t, Vehicle{ID: "x", Speed: 1, Capacity: -1}.Validate())
}

func TestPackageHasOffer(t *testing.T) {
	assert.False(t, (&Package{OfferCode: NoOffer}).HasOffer())
	assert.False(t, (&Package{}).HasOffer())
	assert.True(t, (&Package{OfferCode: "OFR001"}).HasOffer())
}
