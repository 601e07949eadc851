package workers

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/kanso-report/internal/core/domain"
)

type ReportBuilder interface {
	Build(ctx context.Context, input domain.ReportInput) (*domain.Report, error)
}

type RefreshJob struct {
	SourceID string
	Variant  domain.Variant
}

// RefreshWorker rebuilds reports in the background, one at a time, so the
// exported metrics follow the register without waiting for a request.
type RefreshWorker struct {
	builder  ReportBuilder
	jobs     chan RefreshJob
	interval time.Duration
	defaults RefreshJob
	log      logrus.FieldLogger
	now      func() time.Time
}

// NewRefreshWorker schedules defaults every interval; a zero interval only
// processes enqueued jobs.
func NewRefreshWorker(builder ReportBuilder, defaults RefreshJob, interval time.Duration, log logrus.FieldLogger) *RefreshWorker {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &RefreshWorker{
		builder:  builder,
		jobs:     make(chan RefreshJob, 16),
		interval: interval,
		defaults: defaults,
		log:      log.WithField("worker", "refresh"),
		now:      time.Now,
	}
}

func (w *RefreshWorker) Start(ctx context.Context) {
	go func() {
		w.log.Info("refresh worker started")

		var tick <-chan time.Time
		if w.interval > 0 {
			ticker := time.NewTicker(w.interval)
			defer ticker.Stop()
			tick = ticker.C
			w.Enqueue(w.defaults)
		}

		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-tick:
				w.processJob(ctx, w.defaults)
			case <-ctx.Done():
				w.log.Info("refresh worker shutting down")
				return
			}
		}
	}()
}

func (w *RefreshWorker) Enqueue(job RefreshJob) {
	select {
	case w.jobs <- job:
	default:
		w.log.WithField("source", job.SourceID).Warn("refresh queue full, dropping job")
	}
}

func (w *RefreshWorker) processJob(ctx context.Context, job RefreshJob) {
	report, err := w.builder.Build(ctx, domain.ReportInput{
		SourceID: job.SourceID,
		Variant:  job.Variant,
		Snapshot: w.now(),
		Refresh:  true,
	})
	if err != nil {
		w.log.WithError(err).WithField("source", job.SourceID).Warn("background refresh failed")
		return
	}

	w.log.WithFields(logrus.Fields{
		"source": job.SourceID,
		"days":   report.Frequency.Days,
	}).Debug("report refreshed")
}
