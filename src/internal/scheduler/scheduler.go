package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/api-sage/movement-ledger/src/internal/logger"
	"github.com/api-sage/movement-ledger/src/internal/usecase/service_interfaces"
	"github.com/robfig/cron/v3"
)

type Job interface {
	Run(ctx context.Context) error
	Name() string
}

// Scheduler runs background jobs on cron schedules. A job run never overlaps
// with the previous run of the same job.
type Scheduler struct {
	cron *cron.Cron
	ctx  context.Context
}

func New(ctx context.Context) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		ctx:  ctx,
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("scheduler started", nil)
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	logger.Info("scheduler stopped", nil)
}

func (s *Scheduler) AddJob(schedule string, job Job) error {
	if _, err := s.cron.AddFunc(schedule, func() { s.RunNow(job) }); err != nil {
		return fmt.Errorf("schedule job %s: %w", job.Name(), err)
	}

	logger.Info("scheduler job registered", logger.Fields{
		"job":      job.Name(),
		"schedule": schedule,
	})
	return nil
}

// RunNow executes a job outside its schedule and logs the outcome.
func (s *Scheduler) RunNow(job Job) {
	start := time.Now()
	if err := job.Run(s.ctx); err != nil {
		logger.Error("scheduler job failed", err, logger.Fields{
			"job": job.Name(),
		})
		return
	}
	logger.Info("scheduler job completed", logger.Fields{
		"job":        job.Name(),
		"durationMs": time.Since(start).Milliseconds(),
	})
}

// TransferRecoveryJob settles transfer intents left half-applied by a crash.
type TransferRecoveryJob struct {
	service service_interfaces.TransferRecoveryService
}

func NewTransferRecoveryJob(service service_interfaces.TransferRecoveryService) *TransferRecoveryJob {
	return &TransferRecoveryJob{service: service}
}

func (j *TransferRecoveryJob) Name() string {
	return "transfer_recovery"
}

func (j *TransferRecoveryJob) Run(ctx context.Context) error {
	report, err := j.service.Recover(ctx)
	if err != nil {
		return err
	}
	if report.Failed > 0 {
		return fmt.Errorf("%d of %d transfer intents could not be settled", report.Failed, report.Inspected)
	}
	return nil
}
