package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/treasury-reporter/internal/logging"
	"github.com/treasury-reporter/internal/types"
)

// Job is one scheduled broadcast. Run builds the rendered payload; a false
// send flag means the trigger has nothing to say today and the broadcast is
// suppressed entirely.
type Job struct {
	Kind types.TriggerKind
	At   string // wall-clock HH:MM in the scheduler's timezone
	Run  func(ctx context.Context) (text string, send bool, err error)
}

// Scheduler fires each job once a day at its configured wall-clock time.
// Job failures are logged and never stop the schedule.
type Scheduler struct {
	location    *time.Location
	jobs        []Job
	broadcaster *Broadcaster
	logger      *logging.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewScheduler creates a new scheduler
func NewScheduler(location *time.Location, jobs []Job, broadcaster *Broadcaster, logger *logging.Logger) *Scheduler {
	return &Scheduler{
		location:    location,
		jobs:        jobs,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// Start launches one goroutine per job. Calling Start twice is a no-op.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}
	s.running = true
	s.stopCh = make(chan struct{})

	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.runLoop(ctx, job)
	}

	s.logger.WithField("jobs", len(s.jobs)).Info("Scheduler started")
	return nil
}

// Stop stops every job loop and waits for them to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("Scheduler stopped")
}

func (s *Scheduler) runLoop(ctx context.Context, job Job) {
	defer s.wg.Done()

	for {
		next := nextRunAfter(time.Now().In(s.location), job.At, s.location)
		timer := time.NewTimer(time.Until(next))

		select {
		case <-timer.C:
			s.fire(ctx, job)
		case <-s.stopCh:
			timer.Stop()
			return
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}
}

// fire runs one job tick. A panic inside a job is contained here so a bad
// payload can never kill the scheduler.
func (s *Scheduler) fire(ctx context.Context, job Job) {
	log := s.logger.WithField("trigger", string(job.Kind))

	defer func() {
		if r := recover(); r != nil {
			log.Errorf("Job panicked: %v", r)
		}
	}()

	text, send, err := job.Run(ctx)
	if err != nil {
		log.WithError(err).Error("Job failed to build payload")
		return
	}
	if !send {
		log.Info("Nothing to send, broadcast suppressed")
		return
	}

	if _, err := s.broadcaster.Broadcast(ctx, text); err != nil {
		log.WithError(err).Error("Broadcast failed")
	}
}

// nextRunAfter returns the first occurrence of the HH:MM wall-clock time
// strictly after now, in the given location. The time string was validated
// by config; a corrupt value falls back to one hour from now.
func nextRunAfter(now time.Time, at string, loc *time.Location) time.Time {
	parsed, err := time.Parse("15:04", at)
	if err != nil {
		return now.Add(time.Hour)
	}

	next := time.Date(now.Year(), now.Month(), now.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, loc)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
