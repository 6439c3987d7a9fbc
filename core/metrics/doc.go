// Package metrics defines the sinks that observe estimation runs. Sinks like
// PromSink and InfluxSink record shipments, vehicle returns and run summaries
// and can be combined with NewMultiSink. The factory helpers return a
// MultiSink automatically when multiple sinks are configured. Sinks never
// influence the simulation: their errors are logged and ignored.
package metrics
