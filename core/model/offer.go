package model

import (
	"fmt"
	"strconv"
)

// Range is a numeric interval. A nil bound means unbounded on that side; each
// bound is independently inclusive or exclusive.
type Range struct {
	Min          *float64 `json:"min"`
	Max          *float64 `json:"max"`
	MinInclusive bool     `json:"min_inclusive"`
	MaxInclusive bool     `json:"max_inclusive"`
}

// Closed returns the range [min, max].
func Closed(min, max float64) Range {
	return Range{Min: Bound(min), Max: Bound(max), MinInclusive: true, MaxInclusive: true}
}

// Bound returns a pointer to v for use as a range bound.
func Bound(v float64) *float64 { return &v }

// Contains reports whether v lies within the range.
func (r Range) Contains(v float64) bool {
	if r.Min != nil {
		if r.MinInclusive && v < *r.Min {
			return false
		}
		if !r.MinInclusive && v <= *r.Min {
			return false
		}
	}
	if r.Max != nil {
		if r.MaxInclusive && v > *r.Max {
			return false
		}
		if !r.MaxInclusive && v >= *r.Max {
			return false
		}
	}
	return true
}

// Validate checks that the lower bound does not exceed the upper bound.
func (r Range) Validate() error {
	if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
		return fmt.Errorf("min %v exceeds max %v", *r.Min, *r.Max)
	}
	return nil
}

// String renders the range in interval notation, e.g. "[70, 200]" or "(-inf, 200)".
func (r Range) String() string {
	lo, hi := "(-inf", "+inf)"
	if r.Min != nil {
		br := "("
		if r.MinInclusive {
			br = "["
		}
		lo = br + strconv.FormatFloat(*r.Min, 'f', -1, 64)
	}
	if r.Max != nil {
		br := ")"
		if r.MaxInclusive {
			br = "]"
		}
		hi = strconv.FormatFloat(*r.Max, 'f', -1, 64) + br
	}
	return lo + ", " + hi
}

// Offer is a discount rule keyed by distance and weight range membership.
// Offers are immutable once loaded.
type Offer struct {
	Code     string  `json:"code"`
	Discount float64 `json:"discount"` // percentage between 0 and 100
	Distance Range   `json:"distance"`
	Weight   Range   `json:"weight"`
}
