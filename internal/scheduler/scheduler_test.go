package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/moerwald/quartznet/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(logger.Config{Level: "debug", Format: "text", Output: "stdout"})
	require.NoError(t, err)
	return log
}

type recordingExecutor struct {
	mu   sync.Mutex
	jobs []Job
}

func (e *recordingExecutor) Execute(_ context.Context, job Job) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.jobs = append(e.jobs, job)
}

func (e *recordingExecutor) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.jobs)
}

func TestNew(t *testing.T) {
	s := New(testLogger(t), nil)

	assert.NotNil(t, s.cron)
	assert.NotNil(t, s.executor)
	assert.NotNil(t, s.context)
	assert.NotNil(t, s.jobs)
}

func TestScheduler_StartStop(t *testing.T) {
	s := New(testLogger(t), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Start(ctx))
	assert.True(t, s.IsStarted())

	assert.Error(t, s.Start(ctx))

	require.NoError(t, s.Stop())
	assert.False(t, s.IsStarted())

	assert.Error(t, s.Stop())
}

func TestScheduler_ScheduleJob(t *testing.T) {
	s := New(testLogger(t), nil)

	job := Job{Name: "report", Group: "DEFAULT", Command: "generate report"}
	trig := Trigger{Name: "report-trigger", Group: "DEFAULT", CronExpr: "0 0 * * * *"}

	require.NoError(t, s.ScheduleJob(job, trig))

	stored, err := s.GetJob(job.Key())
	require.NoError(t, err)
	assert.Equal(t, "generate report", stored.Command)
	assert.Len(t, s.ListJobs(), 1)
}

func TestScheduler_ScheduleJob_InvalidCron(t *testing.T) {
	s := New(testLogger(t), nil)

	err := s.ScheduleJob(
		Job{Name: "bad", Group: "DEFAULT"},
		Trigger{Name: "bad-trigger", Group: "DEFAULT", CronExpr: "not a cron"},
	)
	assert.Error(t, err)
	assert.Empty(t, s.ListJobs())
}

func TestScheduler_ScheduleJob_Replace(t *testing.T) {
	s := New(testLogger(t), nil)

	job := Job{Name: "report", Group: "DEFAULT", Command: "v1"}
	trig := Trigger{Name: "t", Group: "DEFAULT", Interval: time.Minute, RepeatCount: RepeatForever}
	require.NoError(t, s.ScheduleJob(job, trig))

	job.Command = "v2"
	require.NoError(t, s.ScheduleJob(job, trig))

	stored, err := s.GetJob(job.Key())
	require.NoError(t, err)
	assert.Equal(t, "v2", stored.Command)
	assert.Len(t, s.ListJobs(), 1)
}

func TestScheduler_TriggerValidation(t *testing.T) {
	s := New(testLogger(t), nil)

	// Both methods set.
	err := s.ScheduleJob(
		Job{Name: "j", Group: "g"},
		Trigger{Name: "t", Group: "g", CronExpr: "@hourly", Interval: time.Second},
	)
	assert.Error(t, err)

	// Neither method set.
	err = s.ScheduleJob(Job{Name: "j", Group: "g"}, Trigger{Name: "t", Group: "g"})
	assert.Error(t, err)
}

func TestScheduler_ScheduleFunc_FireNow(t *testing.T) {
	s := New(testLogger(t), nil)

	calls := 0
	err := s.ScheduleFunc("scan", "INTERNAL", time.Minute, true, func() {
		calls++
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Len(t, s.ListJobs(), 1)
}

func TestScheduler_ScheduleFunc_Invalid(t *testing.T) {
	s := New(testLogger(t), nil)

	assert.Error(t, s.ScheduleFunc("scan", "g", 0, false, func() {}))
	assert.Error(t, s.ScheduleFunc("scan", "g", time.Second, false, nil))
}

func TestScheduler_UnscheduleJob(t *testing.T) {
	s := New(testLogger(t), nil)

	require.NoError(t, s.ScheduleFunc("scan", "g", time.Minute, false, func() {}))
	require.NoError(t, s.UnscheduleJob(JobKey{Name: "scan", Group: "g"}))
	assert.Empty(t, s.ListJobs())

	assert.Error(t, s.UnscheduleJob(JobKey{Name: "scan", Group: "g"}))
}

func TestScheduler_DeleteJobGroup(t *testing.T) {
	s := New(testLogger(t), nil)

	trig := Trigger{Name: "t1", Group: "triggers", Interval: time.Minute, RepeatCount: RepeatForever}
	require.NoError(t, s.ScheduleJob(Job{Name: "a", Group: "batch"}, trig))
	trig.Name = "t2"
	require.NoError(t, s.ScheduleJob(Job{Name: "b", Group: "batch"}, trig))
	trig.Name = "t3"
	require.NoError(t, s.ScheduleJob(Job{Name: "c", Group: "other"}, trig))

	removed := s.DeleteJobGroup("batch")
	assert.ElementsMatch(t, []string{"a", "b"}, removed)
	assert.Len(t, s.ListJobs(), 1)

	assert.Empty(t, s.DeleteJobGroup("batch"))
}

func TestScheduler_DeleteTriggerGroup(t *testing.T) {
	s := New(testLogger(t), nil)

	require.NoError(t, s.ScheduleJob(
		Job{Name: "a", Group: "batch"},
		Trigger{Name: "t1", Group: "night", Interval: time.Minute, RepeatCount: RepeatForever},
	))
	require.NoError(t, s.ScheduleJob(
		Job{Name: "b", Group: "batch"},
		Trigger{Name: "t2", Group: "day", Interval: time.Minute, RepeatCount: RepeatForever},
	))

	removed := s.DeleteTriggerGroup("night")
	assert.Equal(t, []string{"t1"}, removed)
	assert.Len(t, s.ListJobs(), 1)
}

func TestScheduler_Context(t *testing.T) {
	s := New(testLogger(t), nil)

	s.PutContext("plugin_key", "plugin_value")

	v, ok := s.GetContext("plugin_key")
	require.True(t, ok)
	assert.Equal(t, "plugin_value", v)

	_, ok = s.GetContext("missing")
	assert.False(t, ok)
}

func TestScheduler_ExecutesJob(t *testing.T) {
	exec := &recordingExecutor{}
	s := New(testLogger(t), exec)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.Start(ctx))
	defer func() { _ = s.Stop() }()

	require.NoError(t, s.ScheduleJob(
		Job{Name: "tick", Group: "DEFAULT", Command: "echo"},
		Trigger{Name: "tick-trigger", Group: "DEFAULT", CronExpr: "* * * * * *"},
	))

	assert.Eventually(t, func() bool {
		return exec.count() >= 1
	}, 3*time.Second, 50*time.Millisecond)
}

func TestFireLimit(t *testing.T) {
	assert.Equal(t, 0, fireLimit(Trigger{CronExpr: "@hourly"}))
	assert.Equal(t, 0, fireLimit(Trigger{Interval: time.Second, RepeatCount: RepeatForever}))
	assert.Equal(t, 1, fireLimit(Trigger{Interval: time.Second, RepeatCount: 0}))
	assert.Equal(t, 4, fireLimit(Trigger{Interval: time.Second, RepeatCount: 3}))
}
