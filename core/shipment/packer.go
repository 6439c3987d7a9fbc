package shipment

import (
	"math"
	"slices"

	"github.com/kilianp07/courier/core/model"
)

// DefaultResolution is the number of weight units per kg (0.01 kg steps).
const DefaultResolution = 100

// MaxResolution bounds the automatic refinement for weights finer than the
// configured resolution (0.0001 kg steps).
const MaxResolution = 10000

// unitTolerance absorbs binary representation error when scaling decimal kg.
const unitTolerance = 1e-6

// Packer builds optimal shipments. It never mutates the packages it reads and
// keeps no reference to them once Pack returns.
type Packer struct {
	resolution float64
}

// NewPacker returns a Packer quantising weights to 1/resolution kg. A
// non-positive resolution selects DefaultResolution. Pack refines the
// resolution by powers of ten, up to MaxResolution, when a weight or the
// capacity is not a whole number of units.
func NewPacker(resolution int) *Packer {
	if resolution <= 0 {
		resolution = DefaultResolution
	}
	return &Packer{resolution: float64(resolution)}
}

// entry is the best known package set for one exact weight slot. Sets are
// persistent linked lists so extending one never copies its parent.
type entry struct {
	count int
	units int64
	kg    float64
	trip  float64
	pkg   *model.Package
	prev  *entry
}

// better reports whether a strictly improves on b: more packages, then more
// weight, then a shorter round trip.
func better(a, b *entry) bool {
	if b == nil {
		return true
	}
	if a.count != b.count {
		return a.count > b.count
	}
	if a.units != b.units {
		return a.units > b.units
	}
	return a.trip < b.trip
}

// weightUnits rounds up so a quantised total is never below the real one.
func weightUnits(kg, res float64) int64 {
	u := int64(math.Ceil(kg*res - unitTolerance))
	if u < 1 && kg > 0 {
		u = 1
	}
	return u
}

// capacityUnits rounds down, tolerating representation error so 0.29 kg is
// 29 units, not 28.
func capacityUnits(kg, res float64) int64 {
	return int64(math.Floor(kg*res + unitTolerance))
}

func whole(kg, res float64) bool {
	x := kg * res
	return math.Abs(x-math.Round(x)) <= unitTolerance
}

func exactAt(pool []*model.Package, capacity, res float64) bool {
	if !whole(capacity, res) {
		return false
	}
	for _, pkg := range pool {
		if !whole(pkg.Weight, res) {
			return false
		}
	}
	return true
}

// resolutionFor returns the coarsest resolution, starting from the configured
// one, at which capacity and every weight are whole units. Past
// MaxResolution weights stay rounded up, which can only reject a set.
func (p *Packer) resolutionFor(pool []*model.Package, capacity float64) float64 {
	res := p.resolution
	for !exactAt(pool, capacity, res) && res*10 <= MaxResolution {
		res *= 10
	}
	return res
}

// Pack selects the best shipment from pool for a vehicle of the given
// capacity. It returns nil when the pool is empty or no single package fits.
// Ties on count, weight and trip time keep the set found first, so identical
// input order always yields the same shipment.
func (p *Packer) Pack(pool []*model.Package, capacity float64) *model.Shipment {
	if len(pool) == 0 {
		return nil
	}
	res := p.resolutionFor(pool, capacity)
	capUnits := capacityUnits(capacity, res)
	if capUnits <= 0 {
		return nil
	}

	slots := map[int64]*entry{0: {}}
	keys := []int64{0}
	for _, pkg := range pool {
		w := weightUnits(pkg.Weight, res)
		if w <= 0 || w > capUnits || !model.Fits(pkg.Weight, capacity) {
			continue
		}
		trip := 2 * pkg.TravelTime
		var added []int64
		// High to low: every slot read below has not been extended by pkg yet.
		for i := len(keys) - 1; i >= 0; i-- {
			k := keys[i]
			if k+w > capUnits {
				continue
			}
			cur := slots[k]
			cand := &entry{
				count: cur.count + 1,
				units: k + w,
				kg:    cur.kg + pkg.Weight,
				trip:  math.Max(cur.trip, trip),
				pkg:   pkg,
				prev:  cur,
			}
			existing, ok := slots[k+w]
			if better(cand, existing) {
				slots[k+w] = cand
				if !ok {
					added = append(added, k+w)
				}
			}
		}
		if len(added) > 0 {
			keys = append(keys, added...)
			slices.Sort(keys)
		}
	}

	var best *entry
	for _, k := range keys {
		e := slots[k]
		if e.count == 0 || !model.Fits(e.kg, capacity) {
			continue
		}
		if best == nil || better(e, best) {
			best = e
		}
	}
	if best == nil {
		return nil
	}

	pkgs := make([]*model.Package, best.count)
	for e, i := best, best.count-1; e != nil && e.pkg != nil; e, i = e.prev, i-1 {
		pkgs[i] = e.pkg
	}
	return model.NewShipment(pkgs)
}
