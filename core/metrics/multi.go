package metrics

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordShipment forwards the event to all sinks, returning the first error encountered.
func (m *MultiSink) RecordShipment(ev ShipmentEvent) error {
	var first error
	for _, s := range m.Sinks {
		if err := s.RecordShipment(ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// RecordVehicleReturn forwards to sinks implementing VehicleReturnRecorder.
func (m *MultiSink) RecordVehicleReturn(ev VehicleReturnEvent) error {
	var first error
	for _, s := range m.Sinks {
		if r, ok := s.(VehicleReturnRecorder); ok {
			if err := r.RecordVehicleReturn(ev); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}

// RecordCost forwards to sinks implementing CostRecorder.
func (m *MultiSink) RecordCost(ev CostEvent) error {
	var first error
	for _, s := range m.Sinks {
		if r, ok := s.(CostRecorder); ok {
			if err := r.RecordCost(ev); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}

// RecordRun forwards to sinks implementing RunRecorder.
func (m *MultiSink) RecordRun(ev RunEvent) error {
	var first error
	for _, s := range m.Sinks {
		if r, ok := s.(RunRecorder); ok {
			if err := r.RecordRun(ev); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}

// Close closes every sink implementing Closer.
func (m *MultiSink) Close() error {
	var first error
	for _, s := range m.Sinks {
		if err := Close(s); err != nil && first == nil {
			first = err
		}
	}
	return first
}
