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

type countingRefresher struct {
	calls atomic.Int32
	err   error
}

func (r *countingRefresher) SweepAndRefresh(context.Context) error {
	r.calls.Add(1)
	return r.err
}

type recordingPruner struct {
	before time.Time
	calls  int
}

func (p *recordingPruner) PruneChanges(_ context.Context, before time.Time) (int64, error) {
	p.before = before
	p.calls++
	return 3, nil
}

func TestNew_RegistersJobs(t *testing.T) {
	s, err := New(&countingRefresher{}, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Jobs())

	s, err = New(&countingRefresher{}, time.Second, WithPruner(&recordingPruner{}, 0))
	require.NoError(t, err)
	assert.Equal(t, 2, s.Jobs())
}

func TestRefresh_LogsFailureWithoutPanicking(t *testing.T) {
	r := &countingRefresher{err: errors.New("storage unavailable")}
	s, err := New(r, time.Second)
	require.NoError(t, err)

	s.refresh(context.Background())

	assert.Equal(t, int32(1), r.calls.Load())
}

func TestPrune_UsesRetentionCutoff(t *testing.T) {
	now := time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)
	p := &recordingPruner{}
	s, err := New(&countingRefresher{}, time.Second,
		WithPruner(p, 2*time.Hour),
		WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	s.prune(context.Background())

	assert.Equal(t, 1, p.calls)
	assert.Equal(t, now.Add(-2*time.Hour), p.before)
}

func TestRun_FiresRefreshAndStopsOnCancel(t *testing.T) {
	r := &countingRefresher{}
	s, err := New(r, time.Second)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	assert.Eventually(t, func() bool { return r.calls.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
