package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestScheduleRejectsBadExpression(t *testing.T) {
	s := NewScheduler(quietLogger())
	err := s.Schedule("whenever", "progress", func() {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "progress")
}

func TestStartWithoutJobs(t *testing.T) {
	s := NewScheduler(quietLogger())
	assert.Error(t, s.Start())
	assert.False(t, s.IsRunning())
}

func TestScheduleWhileRunning(t *testing.T) {
	s := NewScheduler(quietLogger())
	require.NoError(t, s.ScheduleEvery(time.Hour, "slow", func() {}))
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.True(t, s.IsRunning())
	assert.Error(t, s.Start())
	assert.Error(t, s.ScheduleEvery(time.Hour, "late", func() {}))
	assert.Len(t, s.Entries(), 1)
	assert.WithinDuration(t, time.Now().Add(time.Hour), s.GetNextRun(), 5*time.Second)
}

func TestJobRuns(t *testing.T) {
	s := NewScheduler(quietLogger())
	var calls atomic.Int32
	require.NoError(t, s.ScheduleEvery(time.Second, "tick", func() { calls.Add(1) }))
	require.NoError(t, s.Start())

	assert.Eventually(t, func() bool { return calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)

	s.Stop()
	assert.False(t, s.IsRunning())
	assert.True(t, s.GetNextRun().IsZero())
}

func TestPanickingJobIsContained(t *testing.T) {
	s := NewScheduler(quietLogger())
	var calls atomic.Int32
	require.NoError(t, s.ScheduleEvery(time.Second, "boom", func() {
		calls.Add(1)
		panic("boom")
	}))
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool { return calls.Load() > 1 }, 4*time.Second, 50*time.Millisecond)
}
