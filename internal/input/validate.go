package input

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kilianp07/courier/core/model"
)

// ValidationError reports malformed input. Line is 1-based and zero when the
// error is not tied to a specific line.
type ValidationError struct {
	Line int
	Msg  string
}

func (e *ValidationError) Error() string {
	if e.Line == 0 {
		return e.Msg
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Header is the first input line.
type Header struct {
	BaseCost float64
	Count    int
}

// FleetConfig is the fleet line read in time mode.
type FleetConfig struct {
	Count    int
	Speed    float64
	Capacity float64
}

func invalid(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func parseNumbers(fields []string) ([]float64, bool) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func isInteger(v float64) bool { return v == math.Trunc(v) }

// ParseHeader validates "base_delivery_cost no_of_packages".
func ParseHeader(line string) (Header, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return Header{}, invalid("first line should contain base delivery cost and number of packages separated by space")
	}
	n, ok := parseNumbers(fields)
	if !ok {
		return Header{}, invalid("base delivery cost and number of packages must be valid numbers")
	}
	if n[0] < 0 || n[1] < 0 {
		return Header{}, invalid("base delivery cost and number of packages cannot be negative")
	}
	if !isInteger(n[1]) || n[1] > math.MaxInt32 {
		return Header{}, invalid("number of packages must be an integer")
	}
	return Header{BaseCost: n[0], Count: int(n[1])}, nil
}

// ParsePackage validates "pkg_id weight_kg distance_km offer_code".
func ParsePackage(line string) (*model.Package, error) {
	fields := strings.Fields(line)
	if len(fields) != 4 {
		return nil, invalid("package information should contain ID, weight, distance, and offer code separated by spaces (line: %s)", strings.TrimSpace(line))
	}
	n, ok := parseNumbers(fields[1:3])
	if !ok {
		return nil, invalid("package weight and distance must be valid numbers (line: %s)", strings.TrimSpace(line))
	}
	if n[0] <= 0 || n[1] <= 0 {
		return nil, invalid("package weight and distance must be positive")
	}
	return &model.Package{
		ID:        fields[0],
		Weight:    n[0],
		Distance:  n[1],
		OfferCode: fields[3],
	}, nil
}

// ParseFleet validates "no_of_vehicles max_speed max_carriable_weight".
func ParseFleet(line string) (FleetConfig, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return FleetConfig{}, invalid("vehicle configuration should contain count, speed, and max weight separated by spaces")
	}
	n, ok := parseNumbers(fields)
	if !ok {
		return FleetConfig{}, invalid("vehicle count, speed, and max weight must be valid numbers")
	}
	if n[0] <= 0 || n[1] <= 0 || n[2] <= 0 {
		return FleetConfig{}, invalid("vehicle count, speed, and max weight must be positive")
	}
	if !isInteger(n[0]) || n[0] > math.MaxInt32 {
		return FleetConfig{}, invalid("vehicle count must be an integer")
	}
	return FleetConfig{Count: int(n[0]), Speed: n[1], Capacity: n[2]}, nil
}
