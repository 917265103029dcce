package round

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// TickFunc runs on every scheduler tick. Returning false ends the job.
type TickFunc func(ctx context.Context) bool

// Scheduler runs keyed repeating tick jobs, one goroutine per key.
// Jobs end when their TickFunc returns false, when Stop is called for the key,
// or when the scheduler is closed.
type Scheduler struct {
	interval time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	jobs   map[string]*job
	closed bool
	wg     sync.WaitGroup
}

type job struct {
	cancel context.CancelFunc
	// set when Start is called for a key whose job is mid-tick
	rearm bool
}

// NewScheduler creates a scheduler that ticks at the given interval
func NewScheduler(interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		interval: interval,
		logger:   logger.With(slog.String("component", "scheduler")),
		jobs:     make(map[string]*job),
	}
}

// Start begins ticking fn for key. It returns false if a job for key is
// already running or the scheduler is closed. A running job that is about to
// end because its TickFunc returned false keeps ticking instead.
func (s *Scheduler) Start(key string, fn TickFunc) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	if j, ok := s.jobs[key]; ok {
		j.rearm = true
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	j := &job{cancel: cancel}
	s.jobs[key] = j
	s.wg.Add(1)

	go s.run(ctx, key, j, fn)

	s.logger.Debug("tick job started", slog.String("key", key))
	return true
}

func (s *Scheduler) run(ctx context.Context, key string, j *job, fn TickFunc) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.finish(key, j)
			return
		case <-ticker.C:
			s.mu.Lock()
			j.rearm = false
			s.mu.Unlock()
			if !fn(ctx) && s.finish(key, j) {
				return
			}
		}
	}
}

// finish removes the job unless Start asked for it to keep running, and
// reports whether the job ended.
func (s *Scheduler) finish(key string, j *job) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.jobs[key]
	if ok && current == j {
		if j.rearm && !s.closed {
			j.rearm = false
			return false
		}
		delete(s.jobs, key)
	}
	j.cancel()
	s.logger.Debug("tick job stopped", slog.String("key", key))
	return true
}

// Stop cancels the job for key, if any
func (s *Scheduler) Stop(key string) {
	s.mu.Lock()
	j, ok := s.jobs[key]
	if ok {
		delete(s.jobs, key)
	}
	s.mu.Unlock()

	if ok {
		j.cancel()
	}
}

// Running reports whether a job for key is active
func (s *Scheduler) Running(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.jobs[key]
	return ok
}

// Close cancels every job and waits for them to finish
func (s *Scheduler) Close() {
	s.mu.Lock()
	s.closed = true
	for key, j := range s.jobs {
		j.cancel()
		delete(s.jobs, key)
	}
	s.mu.Unlock()

	s.wg.Wait()
}
