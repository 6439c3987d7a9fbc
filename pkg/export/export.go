package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/kilianp07/courier/core/model"
)

// Undeliverable is printed in place of the delivery time of a package that no
// vehicle can carry.
const Undeliverable = "N/A"

// Format selects an output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat validates a format name. The empty string selects text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

// Estimate is the printable result for one package.
type Estimate struct {
	ID       string  `json:"id"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total_cost"`
	// DeliveryTime is rounded to two decimals. It is nil in cost mode and for
	// undeliverable packages.
	DeliveryTime  *float64 `json:"delivery_time,omitempty"`
	Undeliverable bool     `json:"undeliverable,omitempty"`
}

// RoundTime rounds a delivery time to two decimals.
func RoundTime(t float64) float64 { return math.Round(t*100) / 100 }

// RoundAmount rounds a cost or discount to two decimals, dropping floating
// point noise from decimal weights and distances.
func RoundAmount(v float64) float64 { return math.Round(v*100) / 100 }

// FromPackages builds estimates in input order. When withTime is set, packages
// without a delivery time are flagged undeliverable.
func FromPackages(pkgs []*model.Package, withTime bool) []Estimate {
	out := make([]Estimate, len(pkgs))
	for i, p := range pkgs {
		e := Estimate{ID: p.ID, Discount: RoundAmount(p.Discount), Total: RoundAmount(p.TotalCost)}
		if withTime {
			if p.DeliveryAt != nil {
				t := RoundTime(*p.DeliveryAt)
				e.DeliveryTime = &t
			} else {
				e.Undeliverable = true
			}
		}
		out[i] = e
	}
	return out
}

func num(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func (e Estimate) fields(withTime bool) []string {
	rec := []string{e.ID, num(e.Discount), num(e.Total)}
	if !withTime {
		return rec
	}
	if e.DeliveryTime == nil {
		return append(rec, Undeliverable)
	}
	return append(rec, num(*e.DeliveryTime))
}

// Write encodes estimates to w in format f.
func Write(w io.Writer, f Format, estimates []Estimate, withTime bool) error {
	switch f {
	case FormatText, "":
		return WriteText(w, estimates, withTime)
	case FormatJSON:
		return WriteJSON(w, estimates)
	case FormatCSV:
		return WriteCSV(w, estimates, withTime)
	default:
		return fmt.Errorf("unknown output format %q", f)
	}
}

// WriteText writes one space separated line per estimate.
func WriteText(w io.Writer, estimates []Estimate, withTime bool) error {
	bw := bufio.NewWriter(w)
	for _, e := range estimates {
		if _, err := fmt.Fprintln(bw, strings.Join(e.fields(withTime), " ")); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteJSON writes the estimates to w as a JSON array.
func WriteJSON(w io.Writer, estimates []Estimate) error {
	enc := json.NewEncoder(w)
	return enc.Encode(estimates)
}

// WriteCSV writes the estimates to w in CSV format with a header row.
func WriteCSV(w io.Writer, estimates []Estimate, withTime bool) error {
	cw := csv.NewWriter(w)
	header := []string{"id", "discount", "total_cost"}
	if withTime {
		header = append(header, "delivery_time")
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, e := range estimates {
		if err := cw.Write(e.fields(withTime)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
