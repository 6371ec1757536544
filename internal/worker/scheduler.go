// Package worker drives the recurring ingest cycle.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"at_deals/internal/domain/service/ingest"
	"at_deals/pkg/logx"
)

type cycleRunner interface {
	RunCycle(ctx context.Context) (ingest.Report, error)
}

// Scheduler runs at most one cycle at a time. Triggers that arrive while a
// cycle is in flight are dropped.
type Scheduler struct {
	runner cycleRunner

	intervalMin   time.Duration
	intervalMax   time.Duration
	startDelayMin time.Duration
	startDelayMax time.Duration
	jitter        func(minD, maxD time.Duration) time.Duration

	inFlight atomic.Bool
	cycles   sync.WaitGroup

	// Control fields
	mu         sync.Mutex
	cancelFunc context.CancelFunc
	isRunning  bool
	wg         sync.WaitGroup
}

func NewScheduler(runner cycleRunner) *Scheduler {
	return &Scheduler{
		runner:      runner,
		intervalMin: 10 * time.Minute,
		intervalMax: 15 * time.Minute,
		jitter:      uniform,
	}
}

// WithInterval sets the window the pause between cycle starts is drawn from.
func (s *Scheduler) WithInterval(minD, maxD time.Duration) *Scheduler {
	s.intervalMin, s.intervalMax = minD, max(minD, maxD)
	return s
}

// WithStartDelay sets the window for the delay before the first cycle.
func (s *Scheduler) WithStartDelay(minD, maxD time.Duration) *Scheduler {
	s.startDelayMin, s.startDelayMax = minD, max(minD, maxD)
	return s
}

func uniform(minD, maxD time.Duration) time.Duration {
	if maxD <= minD {
		return minD
	}

	return minD + rand.N(maxD-minD+1) //nolint:gosec // scheduling jitter
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return errors.New("scheduler is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancelFunc = cancel
	s.isRunning = true

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			s.isRunning = false
			s.cancelFunc = nil
			s.mu.Unlock()
		}()

		if err := s.Run(runCtx); err != nil {
			logger(ctx).Error("scheduler stopped with error", logx.Error(err))
		}
	}()

	return nil
}

// Stop cancels the loop and waits until the in-flight cycle has finished its
// started writes.
func (s *Scheduler) Stop() {
	s.mu.Lock()

	if !s.isRunning {
		s.mu.Unlock()
		return
	}

	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.mu.Unlock()

	s.wg.Wait()
}

// IsRunning возвращает текущий статус
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// Run blocks until ctx is done. Cycles start on a jittered timer and run in
// their own goroutine, so a slow cycle makes the next tick a no-op instead of
// delaying the schedule.
func (s *Scheduler) Run(ctx context.Context) error {
	delay := s.jitter(s.startDelayMin, s.startDelayMax)
	logger(ctx).Info("ingest scheduler started", slog.Duration("start-delay", delay))

	timer := time.NewTimer(delay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.cycles.Wait()
			logger(ctx).Info("ingest scheduler stopped")
			return nil
		case <-timer.C:
			s.cycles.Add(1)
			go func() {
				defer s.cycles.Done()
				s.Trigger(ctx)
			}()

			timer.Reset(s.jitter(s.intervalMin, s.intervalMax))
		}
	}
}

// Trigger runs one cycle unless another is in flight. It reports whether a
// cycle ran.
func (s *Scheduler) Trigger(ctx context.Context) bool {
	if !s.inFlight.CompareAndSwap(false, true) {
		logger(ctx).Info("ingest cycle still running, trigger ignored")
		return false
	}
	defer s.inFlight.Store(false)

	if _, err := s.runner.RunCycle(ctx); err != nil {
		// Source failures wait for the next tick; RunCycle has logged the details.
		logger(ctx).Warn("ingest cycle failed", logx.Error(err))
	}

	return true
}
