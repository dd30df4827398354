package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterJob(name string, n *atomic.Int32, err error) Job {
	return JobFunc{JobName: name, Fn: func(context.Context) error {
		n.Add(1)
		return err
	}}
}

func TestRegister_Errors(t *testing.T) {
	s := New(Config{})
	var n atomic.Int32

	assert.ErrorIs(t, s.Register(nil, Every(time.Second)), ErrNilJob)
	assert.ErrorIs(t, s.Register(counterJob("a", &n, nil), nil), ErrNilSchedule)
	require.NoError(t, s.Register(counterJob("a", &n, nil), Every(time.Second)))
	assert.ErrorIs(t, s.Register(counterJob("a", &n, nil), Every(time.Second)), ErrJobAlreadyExists)
}

func TestRunNow(t *testing.T) {
	s := New(Config{})
	var ok, bad atomic.Int32
	boom := errors.New("boom")
	require.NoError(t, s.Register(counterJob("ok", &ok, nil), Every(time.Hour)))
	require.NoError(t, s.Register(counterJob("bad", &bad, boom), Every(time.Hour)))

	res, err := s.RunNow(context.Background(), "ok")
	require.NoError(t, err)
	assert.True(t, res.Success())

	_, err = s.RunNow(context.Background(), "bad")
	assert.ErrorIs(t, err, boom)

	_, err = s.RunNow(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrJobNotFound)

	infos := s.ListJobs()
	require.Len(t, infos, 2)
	assert.Equal(t, "bad", infos[0].Name)
	assert.Equal(t, int64(1), infos[0].RunCount)
	assert.Equal(t, boom, infos[0].LastResult.Err)
	assert.Equal(t, "@every 1h0m0s", infos[1].Schedule)
}

func TestStartStop_RunsDueJobs(t *testing.T) {
	s := New(Config{TickInterval: 10 * time.Millisecond, RunOnStart: true})
	var n atomic.Int32
	require.NoError(t, s.Register(counterJob("tick", &n, nil), Every(20*time.Millisecond)))

	require.NoError(t, s.Start(context.Background()))
	assert.ErrorIs(t, s.Start(context.Background()), ErrSchedulerAlreadyRunning)

	assert.Eventually(t, func() bool { return n.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, s.Stop())
	assert.ErrorIs(t, s.Stop(), ErrSchedulerNotRunning)

	after := n.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, n.Load())
}

func TestRunOnStart_Immediate(t *testing.T) {
	s := New(Config{TickInterval: time.Hour, RunOnStart: true})
	var n atomic.Int32
	require.NoError(t, s.Register(counterJob("once", &n, nil), Every(time.Hour)))

	require.NoError(t, s.Start(context.Background()))
	defer func() { _ = s.Stop() }()

	assert.Eventually(t, func() bool { return n.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestJobDoesNotOverlap(t *testing.T) {
	s := New(Config{TickInterval: 5 * time.Millisecond, RunOnStart: true})
	release := make(chan struct{})
	var running, maxRunning atomic.Int32

	require.NoError(t, s.Register(JobFunc{JobName: "slow", Fn: func(ctx context.Context) error {
		cur := running.Add(1)
		if cur > maxRunning.Load() {
			maxRunning.Store(cur)
		}
		select {
		case <-release:
		case <-ctx.Done():
		}
		running.Add(-1)
		return nil
	}}, Every(time.Millisecond)))

	require.NoError(t, s.Start(context.Background()))
	time.Sleep(50 * time.Millisecond)

	_, err := s.RunNow(context.Background(), "slow")
	assert.ErrorIs(t, err, ErrJobBusy)

	close(release)
	require.NoError(t, s.Stop())
	assert.Equal(t, int32(1), maxRunning.Load())
}
