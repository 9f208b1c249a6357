package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"medipulse/services/booking"
	"medipulse/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Settler is the part of the booking core the worker drives.
type Settler interface {
	SettleCompleted(ctx context.Context) (booking.SettlementReport, error)
}

// SettleWorker runs the periodic settle-completed pass on the Redis queue DB.
type SettleWorker struct {
	srv       *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
	cronSpec  string
	logger    *zap.Logger
}

// NewSettleWorker prepares the server and scheduler; nothing runs until Start.
func NewSettleWorker(redisOpts asynq.RedisClientOpt, cronSpec string, settler Settler, logger *zap.Logger) *SettleWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 1,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSettleCompleted, HandleSettleCompleted(settler, logger))

	return &SettleWorker{
		srv:       srv,
		scheduler: asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{Location: time.Local}),
		mux:       mux,
		cronSpec:  cronSpec,
		logger:    logger,
	}
}

// Start registers the schedule and starts processing, retrying the server start
// with a growing delay.
func (w *SettleWorker) Start() error {
	task, opts, err := tasks.NewSettleCompletedTask("schedule")
	if err != nil {
		return err
	}
	entryID, err := w.scheduler.Register(w.cronSpec, task, opts...)
	if err != nil {
		return fmt.Errorf("failed to register settle schedule %q: %w", w.cronSpec, err)
	}
	w.logger.Info("settle-completed scheduled", zap.String("cron", w.cronSpec), zap.String("entryId", entryID))

	const maxAttempts = 5
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = w.srv.Start(w.mux); err == nil {
			break
		}
		w.logger.Warn("settle worker failed to start", zap.Int("attempt", attempt), zap.Error(err))
		if attempt == maxAttempts {
			return fmt.Errorf("settle worker did not start: %w", err)
		}
		time.Sleep(time.Duration(attempt*2) * time.Second)
	}
	return w.scheduler.Start()
}

func (w *SettleWorker) Shutdown() {
	w.scheduler.Shutdown()
	w.srv.Shutdown()
}

// HandleSettleCompleted runs one settlement pass per task.
func HandleSettleCompleted(settler Settler, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.SettlePayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("invalid settle payload", zap.Error(err))
			return fmt.Errorf("invalid settle payload: %v: %w", err, asynq.SkipRetry)
		}

		report, err := settler.SettleCompleted(ctx)
		if err != nil {
			logger.Error("settle-completed pass failed", zap.String("trigger", p.Trigger), zap.Error(err))
			return err
		}
		logger.Info("settle-completed pass done",
			zap.String("trigger", p.Trigger),
			zap.Int("scanned", report.Scanned),
			zap.Int("settled", report.Settled))
		return nil
	}
}
