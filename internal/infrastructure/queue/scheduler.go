package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"gigmarket-backend/internal/config"
	"gigmarket-backend/internal/shared"
	"gigmarket-backend/pkg/logger"
)

// =====================================================
// SCHEDULER
// =====================================================

type Scheduler struct {
	scheduler *asynq.Scheduler
	jobConfig config.JobConfig
}

func NewScheduler(redisAddr, redisPassword string, jobConfig config.JobConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: redisAddr, Password: redisPassword},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		jobConfig: jobConfig,
	}
}

// RegisterJobs registers all periodic jobs
func (s *Scheduler) RegisterJobs() error {
	if err := s.registerAutoCompleteJob(); err != nil {
		return err
	}
	return s.registerRatingRepairJob()
}

// ================================================
// JOB 1: Auto-complete delivered orders (every 6 hours)
// ================================================
// Delivered orders whose approval window elapsed without buyer action
// are completed on the buyer's behalf.
func (s *Scheduler) registerAutoCompleteJob() error {
	payload, err := json.Marshal(shared.OrderAutoCompletePayload{
		Limit: s.jobConfig.AutoCompleteBatchSize,
	})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeOrderAutoComplete, payload)

	_, err = s.scheduler.Register(
		"0 */6 * * *",
		task,
		asynq.Queue(shared.QueueOrder),
		asynq.MaxRetry(2),
		asynq.Timeout(10*time.Minute),
	)
	if err != nil {
		logger.Error("failed to register auto-complete job", err)
		return err
	}

	logger.Info("registered order auto-complete sweep: every 6 hours", map[string]interface{}{})
	return nil
}

// ================================================
// JOB 2: Rating repair (daily at 4 AM)
// ================================================
// Recomputes aggregates for everything reviewed in the last day,
// catching recompute triggers lost to transient failures.
func (s *Scheduler) registerRatingRepairJob() error {
	payload, err := json.Marshal(shared.RatingRepairPayload{
		WindowHours: 25,
		Limit:       s.jobConfig.RatingRepairBatchSize,
	})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeRatingRepair, payload)

	_, err = s.scheduler.Register(
		"0 4 * * *",
		task,
		asynq.Queue(shared.QueueRating),
		asynq.MaxRetry(2),
		asynq.Timeout(10*time.Minute),
	)
	if err != nil {
		logger.Error("failed to register rating repair job", err)
		return err
	}

	logger.Info("registered rating repair sweep: daily at 4 AM", map[string]interface{}{})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
