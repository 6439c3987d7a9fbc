package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/courier/core/metrics"
	"github.com/kilianp07/courier/infra/logger"
)

// InfluxSink writes scheduling events to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

func (s *InfluxSink) write(p *write.Point) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordShipment writes one point per dispatched shipment.
func (s *InfluxSink) RecordShipment(ev coremetrics.ShipmentEvent) error {
	p := write.NewPointWithMeasurement("shipment").
		AddTag("run_id", ev.RunID).
		AddTag("vehicle_id", ev.VehicleID).
		AddField("packages", len(ev.PackageIDs)).
		AddField("package_ids", strings.Join(ev.PackageIDs, ",")).
		AddField("weight_kg", round3(ev.Weight)).
		AddField("depart_at", round3(ev.DepartAt)).
		AddField("return_at", round3(ev.ReturnAt)).
		AddField("trip_time", round3(ev.TripTime)).
		SetTime(ev.Time)
	return s.write(p)
}

// RecordVehicleReturn writes the vehicles released at a clock advance.
func (s *InfluxSink) RecordVehicleReturn(ev coremetrics.VehicleReturnEvent) error {
	p := write.NewPointWithMeasurement("vehicle_return").
		AddTag("run_id", ev.RunID).
		AddField("vehicles", strings.Join(ev.VehicleIDs, ",")).
		AddField("at", round3(ev.At)).
		SetTime(ev.Time)
	return s.write(p)
}

// RecordCost writes the cost estimate of a package.
func (s *InfluxSink) RecordCost(ev coremetrics.CostEvent) error {
	p := write.NewPointWithMeasurement("package_cost").
		AddTag("run_id", ev.RunID).
		AddTag("package_id", ev.PackageID).
		AddTag("offer_code", ev.OfferCode).
		AddField("delivery_cost", round3(ev.Delivery)).
		AddField("discount", round3(ev.Discount)).
		AddField("total_cost", round3(ev.Total)).
		SetTime(ev.Time)
	return s.write(p)
}

// RecordRun writes the run summary.
func (s *InfluxSink) RecordRun(ev coremetrics.RunEvent) error {
	p := write.NewPointWithMeasurement("run_summary").
		AddTag("run_id", ev.RunID).
		AddTag("mode", ev.Mode).
		AddTag("final_state", ev.FinalState).
		AddField("packages", ev.Packages).
		AddField("delivered", ev.Delivered).
		AddField("undeliverable", ev.Undeliverable).
		AddField("shipments", ev.Shipments).
		AddField("makespan", round3(ev.Makespan)).
		AddField("duration_ms", round3(float64(ev.Duration.Microseconds())/1000)).
		SetTime(ev.Time)
	return s.write(p)
}

// Close releases the client.
func (s *InfluxSink) Close() error {
	s.client.Close()
	return nil
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
