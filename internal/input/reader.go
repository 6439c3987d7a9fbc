package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kilianp07/courier/core/model"
)

// Batch is the header plus its packages, in input order.
type Batch struct {
	BaseCost float64
	Packages []*model.Package
}

// Reader consumes input lines, skipping blank ones.
type Reader struct {
	sc   *bufio.Scanner
	line int
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Reader{sc: sc}
}

// next returns the next non-blank line. io.EOF is returned at end of input.
func (r *Reader) next() (string, error) {
	for r.sc.Scan() {
		r.line++
		if s := strings.TrimSpace(r.sc.Text()); s != "" {
			return s, nil
		}
	}
	if err := r.sc.Err(); err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return "", io.EOF
}

// withLine stamps validation errors with the current line number.
func (r *Reader) withLine(err error) error {
	var ve *ValidationError
	if errors.As(err, &ve) && ve.Line == 0 {
		ve.Line = r.line
	}
	return err
}

// ReadBatch reads the header line and the packages it announces. Package ids
// must be unique within the batch.
func (r *Reader) ReadBatch() (Batch, error) {
	line, err := r.next()
	if errors.Is(err, io.EOF) {
		return Batch{}, invalid("missing header line with base delivery cost and number of packages")
	}
	if err != nil {
		return Batch{}, err
	}
	h, err := ParseHeader(line)
	if err != nil {
		return Batch{}, r.withLine(err)
	}

	b := Batch{BaseCost: h.BaseCost, Packages: make([]*model.Package, 0, h.Count)}
	seen := make(map[string]int, h.Count)
	for len(b.Packages) < h.Count {
		line, err := r.next()
		if errors.Is(err, io.EOF) {
			return Batch{}, invalid("expected %d packages, got %d", h.Count, len(b.Packages))
		}
		if err != nil {
			return Batch{}, err
		}
		p, err := ParsePackage(line)
		if err != nil {
			return Batch{}, r.withLine(err)
		}
		if first, dup := seen[p.ID]; dup {
			return Batch{}, &ValidationError{Line: r.line, Msg: fmt.Sprintf("duplicate package id %s (first seen on line %d)", p.ID, first)}
		}
		seen[p.ID] = r.line
		b.Packages = append(b.Packages, p)
	}
	return b, nil
}

// ReadFleet reads the fleet line following the packages.
func (r *Reader) ReadFleet() (FleetConfig, error) {
	line, err := r.next()
	if errors.Is(err, io.EOF) {
		return FleetConfig{}, invalid("missing vehicle configuration line")
	}
	if err != nil {
		return FleetConfig{}, err
	}
	fc, err := ParseFleet(line)
	if err != nil {
		return FleetConfig{}, r.withLine(err)
	}
	return fc, nil
}
