package main

import (
	"log"

	"gigmarket-backend/internal/infrastructure/queue"
	"gigmarket-backend/pkg/container"
)

// asynqScheduler wraps the periodic-job scheduler for graceful shutdown
type asynqScheduler struct {
	*queue.Scheduler
}

// setupScheduler registers all periodic jobs and starts the scheduler
func setupScheduler(c *container.Container) *asynqScheduler {
	scheduler := queue.NewScheduler(
		c.Config.Redis.Host,
		c.Config.Redis.Password,
		c.Config.Jobs,
	)

	if err := scheduler.RegisterJobs(); err != nil {
		log.Fatalf("[Scheduler] Failed to register jobs: %v", err)
	}

	go func() {
		log.Println("[Scheduler] Starting...")
		if err := scheduler.Start(); err != nil {
			log.Fatalf("[Scheduler] Failed: %v", err)
		}
	}()

	return &asynqScheduler{Scheduler: scheduler}
}

// Shutdown stops dispatching new periodic tasks
func (s *asynqScheduler) Shutdown() {
	log.Println("[Scheduler] Shutting down...")
	s.Scheduler.Shutdown()
}
