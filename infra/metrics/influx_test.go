package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/courier/core/metrics"
)

type lineServer struct {
	mu     sync.Mutex
	bodies []string
	*httptest.Server
}

func newLineServer(t *testing.T) *lineServer {
	t.Helper()
	ls := &lineServer{}
	ls.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		ls.mu.Lock()
		ls.bodies = append(ls.bodies, strings.TrimSpace(string(data)))
		ls.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(ls.Close)
	return ls
}

func (ls *lineServer) expectOne(t *testing.T, p *write.Point) {
	t.Helper()
	exp := strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if len(ls.bodies) != 1 || ls.bodies[0] != exp {
		t.Errorf("unexpected bodies: %#v, want %s", ls.bodies, exp)
	}
}

func TestInfluxSink_RecordShipment(t *testing.T) {
	srv := newLineServer(t)
	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	defer sink.Close()

	now := time.Now()
	ev := coremetrics.ShipmentEvent{
		RunID:      "run1",
		VehicleID:  "veh01",
		PackageIDs: []string{"PKG2", "PKG4"},
		Weight:     185,
		DepartAt:   0,
		ReturnAt:   3.5714285,
		TripTime:   3.5714285,
		Time:       now,
	}
	if err := sink.RecordShipment(ev); err != nil {
		t.Fatalf("record error: %v", err)
	}
	p := write.NewPointWithMeasurement("shipment").
		AddTag("run_id", "run1").
		AddTag("vehicle_id", "veh01").
		AddField("packages", 2).
		AddField("package_ids", "PKG2,PKG4").
		AddField("weight_kg", 185.0).
		AddField("depart_at", 0.0).
		AddField("return_at", 3.571).
		AddField("trip_time", 3.571).
		SetTime(now)
	srv.expectOne(t, p)
}

func TestInfluxSink_RecordCost(t *testing.T) {
	srv := newLineServer(t)
	sink := NewInfluxSink(srv.URL+"/api/v2/write", "token", "org", "bucket")
	defer sink.Close()

	now := time.Now()
	if err := sink.RecordCost(coremetrics.CostEvent{
		RunID: "run1", PackageID: "PKG3", OfferCode: "OFR003",
		Delivery: 700, Discount: 35, Total: 665, Time: now,
	}); err != nil {
		t.Fatalf("record: %v", err)
	}
	p := write.NewPointWithMeasurement("package_cost").
		AddTag("run_id", "run1").
		AddTag("package_id", "PKG3").
		AddTag("offer_code", "OFR003").
		AddField("delivery_cost", 700.0).
		AddField("discount", 35.0).
		AddField("total_cost", 665.0).
		SetTime(now)
	srv.expectOne(t, p)
}

func TestInfluxSink_RecordRun(t *testing.T) {
	srv := newLineServer(t)
	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	defer sink.Close()

	now := time.Now()
	if err := sink.RecordRun(coremetrics.RunEvent{
		RunID: "run1", Mode: "time", FinalState: "done",
		Packages: 5, Delivered: 5, Shipments: 4, Makespan: 5.5714,
		Duration: 1500 * time.Microsecond, Time: now,
	}); err != nil {
		t.Fatalf("record: %v", err)
	}
	p := write.NewPointWithMeasurement("run_summary").
		AddTag("run_id", "run1").
		AddTag("mode", "time").
		AddTag("final_state", "done").
		AddField("packages", 5).
		AddField("delivered", 5).
		AddField("undeliverable", 0).
		AddField("shipments", 4).
		AddField("makespan", 5.571).
		AddField("duration_ms", 1.5).
		SetTime(now)
	srv.expectOne(t, p)
}

func TestInfluxSink_RecordVehicleReturn(t *testing.T) {
	srv := newLineServer(t)
	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	defer sink.Close()

	now := time.Now()
	if err := sink.RecordVehicleReturn(coremetrics.VehicleReturnEvent{RunID: "run1", VehicleIDs: []string{"veh02"}, At: 2.857142, Time: now}); err != nil {
		t.Fatalf("record: %v", err)
	}
	p := write.NewPointWithMeasurement("vehicle_return").
		AddTag("run_id", "run1").
		AddField("vehicles", "veh02").
		AddField("at", 2.857).
		SetTime(now)
	srv.expectOne(t, p)
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(srv.URL+"/api/v2/write", "tok", "org", "bucket")
	if _, ok := sink.(*InfluxSink); ok {
		t.Fatalf("expected NopSink on failing health check")
	}
	if !called {
		t.Fatalf("health endpoint not called")
	}
}
