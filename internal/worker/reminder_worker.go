package worker

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/hr-portal/recruitment-service/internal/config"
	"github.com/hr-portal/recruitment-service/internal/observability"
	"github.com/hr-portal/recruitment-service/internal/service"
)

const reminderJobName = "interview_reminder"

// ReminderRunner sends due interview reminders.
type ReminderRunner interface {
	SendDueReminders(ctx context.Context) (service.ReminderResult, error)
}

// ReminderWorker runs the reminder job on a cron schedule.
type ReminderWorker struct {
	runner  ReminderRunner
	cron    *cron.Cron
	metrics *observability.Metrics
	logger  *zap.Logger
	timeout time.Duration

	mu      sync.Mutex
	running bool
}

// NewReminderWorker registers the job; it does nothing until Start.
func NewReminderWorker(cfg config.ReminderConfig, runner ReminderRunner, metrics *observability.Metrics, logger *zap.Logger) (*ReminderWorker, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &ReminderWorker{
		runner:  runner,
		cron:    cron.New(),
		metrics: metrics,
		logger:  logger,
		timeout: 50 * time.Second,
	}
	if _, err := w.cron.AddFunc(cfg.Schedule, func() { w.RunOnce(context.Background()) }); err != nil {
		return nil, err
	}
	return w, nil
}

// Start begins scheduling.
func (w *ReminderWorker) Start() {
	w.cron.Start()
	w.logger.Info("reminder worker started")
}

// Stop halts scheduling and waits for a running job to finish or ctx to end.
func (w *ReminderWorker) Stop(ctx context.Context) {
	done := w.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		w.logger.Warn("reminder worker stop timed out")
	}
}

// RunOnce executes a single pass. Overlapping ticks are skipped.
func (w *ReminderWorker) RunOnce(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		w.logger.Debug("reminder run still in progress, skipping tick")
		return
	}
	w.running = true
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	start := time.Now()
	result, err := w.runner.SendDueReminders(ctx)
	failed := err != nil || result.Failed > 0
	w.metrics.RecordJob(reminderJobName, failed)
	if err != nil {
		w.logger.Error("reminder run failed", zap.Error(err))
		return
	}
	if result.Due == 0 {
		return
	}
	w.logger.Info("reminder run finished",
		zap.Int("due", result.Due),
		zap.Int("sent", result.Sent),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
		zap.Duration("took", time.Since(start)),
	)
}
