// Package infra holds the adapters around the estimator: the zerolog logger,
// the Prometheus and InfluxDB metrics sinks, the MQTT estimate publisher and
// the dispatch journal. They implement interfaces declared under core and app
// and are never imported by core.
package infra
