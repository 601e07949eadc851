package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/kanso-report/internal/core/domain"
)

// OrderProvider resolves the category order used for a report variant.
type OrderProvider func(domain.Variant) (domain.CategoryOrder, error)

// Recorder receives the outcome of every report run.
type Recorder interface {
	RecordReport(report *domain.Report)
	RecordFailure(stage string)
}

type noopRecorder struct{}

func (noopRecorder) RecordReport(*domain.Report) {}
func (noopRecorder) RecordFailure(string)        {}

type ReportService struct {
	source   domain.RegisterSource
	orders   OrderProvider
	recorder Recorder
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewReportService(source domain.RegisterSource, orders OrderProvider, recorder Recorder, log logrus.FieldLogger) *ReportService {
	if orders == nil {
		orders = domain.DefaultOrder
	}
	if recorder == nil {
		recorder = noopRecorder{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ReportService{
		source:   source,
		orders:   orders,
		recorder: recorder,
		log:      log,
		now:      time.Now,
	}
}

// Build runs the whole pipeline for one snapshot. Stages run in sequence and
// the first failure aborts the run; no partial report is returned.
func (s *ReportService) Build(ctx context.Context, input domain.ReportInput) (*domain.Report, error) {
	runID := uuid.NewString()
	log := s.log.WithFields(logrus.Fields{"run_id": runID, "source": input.SourceID})

	variant := input.Variant
	if variant == "" {
		variant = domain.VariantScored
	}
	snapshot := input.Snapshot
	if snapshot.IsZero() {
		snapshot = s.now()
	}

	order, err := s.orders(variant)
	if err != nil {
		return nil, s.fail(log, "config", err)
	}

	if input.Refresh {
		if inv, ok := s.source.(domain.Invalidator); ok {
			if err := inv.Invalidate(ctx, input.SourceID); err != nil {
				log.WithError(err).Warn("cache invalidation failed, cached register may be served")
			}
		}
	}

	reg, err := s.source.Fetch(ctx, input.SourceID)
	if err != nil {
		return nil, s.fail(log, "fetch", err)
	}
	log.WithField("tasks", len(reg.Entries)).Debug("register fetched")

	table, err := NewNormalizer(log, input.Strict).Normalize(reg, order, snapshot)
	if err != nil {
		return nil, s.fail(log, "normalize", err)
	}

	frequency, err := TaskFrequency(table)
	if err != nil {
		return nil, s.fail(log, "frequency", err)
	}

	groups, err := GroupAggregate(table, order)
	if err != nil {
		return nil, s.fail(log, "groups", err)
	}

	report := &domain.Report{
		RunID:       runID,
		SourceID:    input.SourceID,
		Variant:     variant,
		Snapshot:    domain.DateOnly(snapshot),
		GeneratedAt: s.now().UTC(),
		Categories:  order.Categories(),
		Table:       table,
		Frequency:   frequency,
		Groups:      groups,
	}

	if variant.HasScore() {
		score, err := ComposeScore(groups, order)
		if err != nil {
			return nil, s.fail(log, "score", err)
		}
		report.Score = score
	}

	s.recorder.RecordReport(report)
	log.WithFields(logrus.Fields{"days": frequency.Days, "variant": variant}).Info("report built")

	return report, nil
}

func (s *ReportService) fail(log logrus.FieldLogger, stage string, err error) error {
	s.recorder.RecordFailure(stage)
	log.WithField("stage", stage).WithError(err).Error("report run failed")
	return fmt.Errorf("%s: %w", stage, err)
}
