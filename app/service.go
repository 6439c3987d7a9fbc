package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/courier/config"
	"github.com/kilianp07/courier/core/cost"
	"github.com/kilianp07/courier/core/fleet"
	coremetrics "github.com/kilianp07/courier/core/metrics"
	"github.com/kilianp07/courier/core/model"
	"github.com/kilianp07/courier/core/offer"
	"github.com/kilianp07/courier/core/report"
	"github.com/kilianp07/courier/core/shipment"
	"github.com/kilianp07/courier/infra/journal"
	"github.com/kilianp07/courier/infra/logger"
	_ "github.com/kilianp07/courier/infra/metrics"
	"github.com/kilianp07/courier/infra/mqtt"
	"github.com/kilianp07/courier/internal/input"
	"github.com/kilianp07/courier/pkg/export"
)

// Mode selects what a run estimates.
type Mode string

const (
	// ModeCost estimates costs only.
	ModeCost Mode = "cost"
	// ModeTime estimates costs and delivery times.
	ModeTime Mode = "time"
)

// Publisher delivers final estimates to an external consumer.
type Publisher interface {
	PublishEstimates(runID string, estimates []export.Estimate) error
	Close()
}

// Journal keeps a durable record of dispatches.
type Journal interface {
	Append(ctx context.Context, recs ...journal.Record) error
	Close() error
}

// Outcome is what a run produced besides the printed estimates.
type Outcome struct {
	RunID string
	// Undeliverable lists packages no vehicle can carry, in input order.
	Undeliverable []string
	// Summary is only set in time mode.
	Summary *report.Summary
}

// Service wires configuration, offers, metrics and publishing around the
// estimation pipeline.
type Service struct {
	cfg       *config.Config
	catalog   *offer.Catalog
	sink      coremetrics.MetricsSink
	publisher Publisher
	journal   Journal
	format    export.Format
	log       logger.Logger
	runID     string
}

// Option customises a Service.
type Option func(*Service)

// WithSink replaces the metrics sink built from configuration.
func WithSink(s coremetrics.MetricsSink) Option { return func(svc *Service) { svc.sink = s } }

// WithPublisher replaces the MQTT publisher built from configuration.
func WithPublisher(p Publisher) Option { return func(svc *Service) { svc.publisher = p } }

// WithJournal replaces the dispatch journal built from configuration.
func WithJournal(j Journal) Option { return func(svc *Service) { svc.journal = j } }

// WithRunID fixes the run identifier.
func WithRunID(id string) Option { return func(svc *Service) { svc.runID = id } }

// WithLogger replaces the service logger.
func WithLogger(l logger.Logger) Option { return func(svc *Service) { svc.log = l } }

// New creates a Service from the configuration.
func New(cfg *config.Config, opts ...Option) (*Service, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		return nil, fmt.Errorf("offers: %w", err)
	}
	format, err := export.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}
	svc := &Service{cfg: cfg, catalog: catalog, format: format}
	for _, o := range opts {
		o(svc)
	}
	if svc.runID == "" {
		svc.runID = uuid.NewString()
	}
	if svc.log == nil {
		svc.log = logger.New("service")
	}
	svc.log = svc.log.With("run_id", svc.runID)

	if svc.sink == nil {
		sink, err := coremetrics.NewMetricsSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("metrics: %w", err)
		}
		svc.sink = sink
	}
	if svc.publisher == nil && cfg.MQTT.Enabled {
		pub, err := mqtt.NewPublisher(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		svc.publisher = pub
	}
	if svc.journal == nil && cfg.Journal.Enabled() {
		j, err := journal.New(cfg.Journal)
		if err != nil {
			return nil, err
		}
		svc.journal = j
	}
	return svc, nil
}

// RunID returns the identifier attached to logs, metrics and messages.
func (s *Service) RunID() string { return s.runID }

// Catalog returns the loaded offers.
func (s *Service) Catalog() *offer.Catalog { return s.catalog }

// Run reads a batch from in, estimates it and writes the estimates to out.
// Input is fully read and validated before anything is written.
func (s *Service) Run(ctx context.Context, mode Mode, in io.Reader, out io.Writer) (Outcome, error) {
	started := time.Now()
	res := Outcome{RunID: s.runID}

	r := input.NewReader(in)
	batch, err := r.ReadBatch()
	if err != nil {
		return res, err
	}
	var fc input.FleetConfig
	if mode == ModeTime {
		if fc, err = r.ReadFleet(); err != nil {
			return res, err
		}
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	s.log.Infof("read %d packages, base cost %v", len(batch.Packages), batch.BaseCost)

	if err := s.estimateCosts(batch); err != nil {
		return res, err
	}

	runEv := coremetrics.RunEvent{
		RunID:    s.runID,
		Mode:     string(mode),
		Packages: len(batch.Packages),
	}
	switch mode {
	case ModeCost:
		runEv.FinalState = "done"
	case ModeTime:
		summary, result, err := s.estimateTimes(batch.Packages, fc)
		if err != nil {
			return res, err
		}
		res.Summary = &summary
		for _, p := range result.Undeliverable {
			res.Undeliverable = append(res.Undeliverable, p.ID)
		}
		runEv.Delivered = summary.Delivered
		runEv.Undeliverable = summary.Undeliverable
		runEv.Shipments = summary.Shipments
		runEv.Makespan = summary.Makespan
		runEv.FinalState = result.FinalState.String()
		s.log.Infof("summary: %s", summary)
		s.recordDispatches(ctx, result.Dispatches)
	default:
		return res, fmt.Errorf("unknown mode %q", mode)
	}

	estimates := export.FromPackages(batch.Packages, mode == ModeTime)
	if err := export.Write(out, s.format, estimates, mode == ModeTime); err != nil {
		return res, fmt.Errorf("write estimates: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishEstimates(s.runID, estimates); err != nil {
			s.log.Errorf("publish estimates: %v", err)
		}
	}
	runEv.Duration = time.Since(started)
	runEv.Time = time.Now()
	if r, ok := s.sink.(coremetrics.RunRecorder); ok {
		if err := r.RecordRun(runEv); err != nil {
			s.log.Warnf("metrics sink: %v", err)
		}
	}
	return res, nil
}

func (s *Service) estimateCosts(batch input.Batch) error {
	calc := cost.NewCalculator(s.catalog)
	if err := calc.EstimateAll(batch.Packages, batch.BaseCost); err != nil {
		return err
	}
	rec, ok := s.sink.(coremetrics.CostRecorder)
	if !ok {
		return nil
	}
	now := time.Now()
	for _, p := range batch.Packages {
		if err := rec.RecordCost(coremetrics.CostEvent{
			RunID:     s.runID,
			PackageID: p.ID,
			OfferCode: p.OfferCode,
			Delivery:  p.DeliveryCost,
			Discount:  p.Discount,
			Total:     p.TotalCost,
			Time:      now,
		}); err != nil {
			s.log.Warnf("metrics sink: %v", err)
		}
	}
	return nil
}

func (s *Service) estimateTimes(pkgs []*model.Package, fc input.FleetConfig) (report.Summary, fleet.Result, error) {
	f, err := fleet.NewFleet(fc.Count, fc.Speed, fc.Capacity)
	if err != nil {
		return report.Summary{}, fleet.Result{}, err
	}
	sch, err := fleet.NewScheduler(f, shipment.NewPacker(s.cfg.Estimate.WeightResolution), s.log.With("component", "scheduler"), s.sink)
	if err != nil {
		return report.Summary{}, fleet.Result{}, err
	}
	sch.SetRunID(s.runID)
	result, err := sch.Run(pkgs, 0)
	if err != nil {
		return report.Summary{}, result, err
	}
	return report.Build(pkgs, result, f.Size(), f.Capacity(), 0), result, nil
}

func (s *Service) recordDispatches(ctx context.Context, ds []fleet.Dispatch) {
	if s.journal == nil || len(ds) == 0 {
		return
	}
	now := time.Now().UTC()
	recs := make([]journal.Record, 0, len(ds))
	for _, d := range ds {
		recs = append(recs, journal.Record{
			RunID:      s.runID,
			Timestamp:  now,
			VehicleID:  d.VehicleID,
			PackageIDs: d.PackageIDs,
			Weight:     d.Weight,
			DepartAt:   d.DepartAt,
			ReturnAt:   d.ReturnAt,
		})
	}
	if err := s.journal.Append(ctx, recs...); err != nil {
		s.log.Errorf("journal: %v", err)
	}
}

// Close flushes metrics sinks, the journal and disconnects the publisher.
func (s *Service) Close() error {
	if s.publisher != nil {
		s.publisher.Close()
	}
	var errs []error
	if s.journal != nil {
		errs = append(errs, s.journal.Close())
	}
	errs = append(errs, coremetrics.Close(s.sink))
	return errors.Join(errs...)
}
