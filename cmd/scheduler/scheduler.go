package main

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SweepEnqueuer queues content sweeps for the worker
type SweepEnqueuer interface {
	EnqueueContentSweep(ctx context.Context) error
}

// Scheduler enqueues periodic maintenance tasks
type Scheduler struct {
	cron     *cron.Cron
	enqueuer SweepEnqueuer
	logger   *zap.Logger
}

// NewScheduler creates a scheduler enqueuing a content sweep on every tick of sweepSpec
func NewScheduler(sweepSpec string, enqueuer SweepEnqueuer, logger *zap.Logger) (*Scheduler, error) {
	cronLogger := cronLogger{logger: logger.Sugar()}
	s := &Scheduler{
		cron:     cron.New(cron.WithLogger(cronLogger), cron.WithChain(cron.SkipIfStillRunning(cronLogger))),
		enqueuer: enqueuer,
		logger:   logger,
	}

	if _, err := s.cron.AddFunc(sweepSpec, s.enqueueSweep); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", sweepSpec, err)
	}

	return s, nil
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started")
}

// Stop stops the scheduler and waits for a running job to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
}

func (s *Scheduler) enqueueSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.enqueuer.EnqueueContentSweep(ctx); err != nil {
		s.logger.Error("Failed to enqueue content sweep", zap.Error(err))
		return
	}
	s.logger.Info("Content sweep enqueued")
}

// cronLogger adapts zap to cron.Logger
type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
