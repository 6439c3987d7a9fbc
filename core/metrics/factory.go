package metrics

import (
	"fmt"

	"github.com/kilianp07/courier/core/factory"
)

var sinkRegistry = factory.NewRegistry[MetricsSink]()

// RegisterMetricsSink adds a metrics sink factory identified by name.
func RegisterMetricsSink(name string, f factory.Factory[MetricsSink]) error {
	return sinkRegistry.Register(name, f)
}

// SinkTypes lists the registered sink names.
func SinkTypes() []string { return sinkRegistry.Names() }

// NewMetricsSink creates the sinks listed in cfg. No sink yields NopSink and
// several sinks are wrapped in a MultiSink.
func NewMetricsSink(cfg Config) (MetricsSink, error) {
	switch len(cfg.Sinks) {
	case 0:
		return NopSink{}, nil
	case 1:
		return create(cfg.Sinks[0])
	}
	sinks := make([]MetricsSink, len(cfg.Sinks))
	for i, c := range cfg.Sinks {
		s, err := create(c)
		if err != nil {
			return nil, err
		}
		sinks[i] = s
	}
	return NewMultiSink(sinks...), nil
}

func create(c factory.ModuleConfig) (MetricsSink, error) {
	s, err := sinkRegistry.Create(c)
	if err != nil {
		return nil, fmt.Errorf("metrics sink %q: %w", c.Type, err)
	}
	return s, nil
}
