package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"at_deals/internal/domain/service/ingest"
)

type blockingRunner struct {
	calls   atomic.Int32
	release chan struct{}
	started chan struct{}
}

func (r *blockingRunner) RunCycle(ctx context.Context) (ingest.Report, error) {
	r.calls.Add(1)
	if r.started != nil {
		r.started <- struct{}{}
	}
	if r.release != nil {
		select {
		case <-r.release:
		case <-ctx.Done():
		}
	}
	return ingest.Report{}, nil
}

func TestScheduler_TriggerWhileRunningIsNoop(t *testing.T) {
	rq := require.New(t)

	runner := &blockingRunner{release: make(chan struct{}), started: make(chan struct{}, 1)}
	s := NewScheduler(runner)

	done := make(chan bool)
	go func() { done <- s.Trigger(context.Background()) }()
	<-runner.started

	rq.False(s.Trigger(context.Background()))

	close(runner.release)
	rq.True(<-done)
	rq.EqualValues(1, runner.calls.Load())

	runner.release = nil
	runner.started = nil
	rq.True(s.Trigger(context.Background()))
	rq.EqualValues(2, runner.calls.Load())
}

func TestUniform_Bounds(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name     string
		min, max time.Duration
	}{
		{name: "Window", min: 10 * time.Minute, max: 15 * time.Minute},
		{name: "Degenerate", min: time.Second, max: time.Second},
		{name: "Inverted", min: 2 * time.Second, max: time.Second},
		{name: "Zero", min: 0, max: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			for range 200 {
				d := uniform(tc.min, tc.max)
				rq.GreaterOrEqual(d, tc.min)
				rq.LessOrEqual(d, max(tc.min, tc.max))
			}
		})
	}
}

func TestScheduler_StartStop(t *testing.T) {
	rq := require.New(t)

	runner := &blockingRunner{}
	s := NewScheduler(runner).
		WithStartDelay(0, 0).
		WithInterval(5*time.Millisecond, 10*time.Millisecond)

	rq.NoError(s.Start(context.Background()))
	rq.True(s.IsRunning())
	rq.Error(s.Start(context.Background()))

	rq.Eventually(func() bool { return runner.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)

	s.Stop()
	rq.False(s.IsRunning())

	calls := runner.calls.Load()
	time.Sleep(30 * time.Millisecond)
	rq.Equal(calls, runner.calls.Load())
}

func TestScheduler_StopWaitsForCycle(t *testing.T) {
	rq := require.New(t)

	runner := &blockingRunner{release: make(chan struct{}), started: make(chan struct{}, 1)}
	s := NewScheduler(runner).WithStartDelay(0, 0)

	rq.NoError(s.Start(context.Background()))
	<-runner.started

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()

	// The cycle sees cancellation through ctx and returns.
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
	rq.EqualValues(1, runner.calls.Load())
}
