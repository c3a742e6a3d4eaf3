package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/moerwald/quartznet/internal/logger"
	"github.com/robfig/cron/v3"
)

// scheduledJob is a registered job/trigger pair.
type scheduledJob struct {
	job     Job
	trigger Trigger
	entryID cron.EntryID
	// fn is set for internal callback jobs registered via ScheduleFunc;
	// such jobs bypass the executor.
	fn    func()
	fires int
}

// Scheduler manages job scheduling and execution on top of robfig/cron.
type Scheduler struct {
	cron     *cron.Cron
	logger   *logger.Logger
	executor Executor
	parser   cron.Parser
	context  *Context
	ctx      context.Context
	cancel   context.CancelFunc
	started  bool
	mu       sync.RWMutex

	jobs map[JobKey]*scheduledJob
}

// New creates a scheduler. A nil executor falls back to LogExecutor.
func New(log *logger.Logger, executor Executor) *Scheduler {
	if executor == nil {
		executor = NewLogExecutor(log)
	}
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		logger:   log,
		executor: executor,
		parser:   cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		context:  NewContext(),
		jobs:     make(map[JobKey]*scheduledJob),
	}
}

// Start starts the scheduler. Registered triggers begin firing; the
// scheduler stops when the context is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("scheduler already started")
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	s.started = true

	s.cron.Start()
	s.logger.Info("scheduler started")

	go func() {
		<-s.ctx.Done()
		s.cron.Stop()
		s.logger.Info("scheduler stopped")
	}()

	return nil
}

// Stop stops the scheduler gracefully.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return fmt.Errorf("scheduler not started")
	}

	s.cancel()
	s.started = false
	return nil
}

// IsStarted returns true if the scheduler is started.
func (s *Scheduler) IsStarted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// Context returns the scheduler's shared context map.
func (s *Scheduler) Context() *Context {
	return s.context
}

// PutContext stores a value in the scheduler context.
func (s *Scheduler) PutContext(key string, value any) {
	s.context.Put(key, value)
}

// GetContext returns a value from the scheduler context.
func (s *Scheduler) GetContext(key string) (any, bool) {
	return s.context.Get(key)
}

// ScheduleJob registers a job with its trigger. A job already registered
// under the same name and group is replaced.
func (s *Scheduler) ScheduleJob(job Job, trig Trigger) error {
	if job.Name == "" {
		return fmt.Errorf("job name cannot be empty")
	}
	if err := validateTrigger(trig); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.jobs[job.Key()]; ok {
		s.cron.Remove(existing.entryID)
		delete(s.jobs, job.Key())
	}

	sj := &scheduledJob{job: job, trigger: trig}

	schedule, err := s.buildSchedule(trig)
	if err != nil {
		return err
	}

	sj.entryID = s.cron.Schedule(schedule, cron.FuncJob(func() {
		s.fireJob(sj)
	}))
	s.jobs[job.Key()] = sj

	s.logger.Info("job scheduled",
		logger.Field{Key: "job", Value: job.Key().String()},
		logger.Field{Key: "trigger", Value: trig.Key().String()},
		logger.Field{Key: "entry_id", Value: sj.entryID})

	return nil
}

// ScheduleFunc registers an internal callback job firing every interval.
// When fireNow is set the callback also runs once, synchronously, before
// ScheduleFunc returns.
func (s *Scheduler) ScheduleFunc(name, group string, interval time.Duration, fireNow bool, fn func()) error {
	if fn == nil {
		return fmt.Errorf("callback cannot be nil")
	}
	if interval <= 0 {
		return fmt.Errorf("interval must be positive, got %v", interval)
	}

	sj := &scheduledJob{
		job: Job{
			Name:        name,
			Group:       group,
			Description: "internal callback job",
		},
		trigger: Trigger{
			Name:        name,
			Group:       group,
			Interval:    interval,
			RepeatCount: RepeatForever,
		},
		fn: fn,
	}

	s.mu.Lock()
	if existing, ok := s.jobs[sj.job.Key()]; ok {
		s.cron.Remove(existing.entryID)
		delete(s.jobs, sj.job.Key())
	}
	sj.entryID = s.cron.Schedule(cron.Every(interval), cron.FuncJob(func() {
		s.fireJob(sj)
	}))
	s.jobs[sj.job.Key()] = sj
	s.mu.Unlock()

	s.logger.Info("callback job scheduled",
		logger.Field{Key: "job", Value: sj.job.Key().String()},
		logger.Field{Key: "interval", Value: interval})

	if fireNow {
		s.fireJob(sj)
	}

	return nil
}

// UnscheduleJob removes a job and its trigger.
func (s *Scheduler) UnscheduleJob(key JobKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sj, ok := s.jobs[key]
	if !ok {
		return fmt.Errorf("job not found: %s", key)
	}

	s.cron.Remove(sj.entryID)
	delete(s.jobs, key)

	s.logger.Info("job unscheduled", logger.Field{Key: "job", Value: key.String()})
	return nil
}

// DeleteJobGroup removes every job whose job group matches.
// Returns the names of the removed jobs.
func (s *Scheduler) DeleteJobGroup(group string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []string
	for key, sj := range s.jobs {
		if sj.job.Group != group {
			continue
		}
		s.cron.Remove(sj.entryID)
		delete(s.jobs, key)
		removed = append(removed, sj.job.Name)
	}

	if len(removed) > 0 {
		s.logger.Info("job group deleted",
			logger.Field{Key: "group", Value: group},
			logger.Field{Key: "removed", Value: len(removed)})
	}
	return removed
}

// DeleteTriggerGroup removes every job whose trigger group matches.
// Returns the names of the removed triggers.
func (s *Scheduler) DeleteTriggerGroup(group string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []string
	for key, sj := range s.jobs {
		if sj.trigger.Group != group {
			continue
		}
		s.cron.Remove(sj.entryID)
		delete(s.jobs, key)
		removed = append(removed, sj.trigger.Name)
	}

	if len(removed) > 0 {
		s.logger.Info("trigger group deleted",
			logger.Field{Key: "group", Value: group},
			logger.Field{Key: "removed", Value: len(removed)})
	}
	return removed
}

// ListJobs returns all registered jobs.
func (s *Scheduler) ListJobs() []Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]Job, 0, len(s.jobs))
	for _, sj := range s.jobs {
		jobs = append(jobs, sj.job)
	}
	return jobs
}

// GetJob retrieves a registered job by key.
func (s *Scheduler) GetJob(key JobKey) (Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sj, ok := s.jobs[key]
	if !ok {
		return Job{}, fmt.Errorf("job not found: %s", key)
	}
	return sj.job, nil
}

// buildSchedule converts a trigger into a cron schedule.
func (s *Scheduler) buildSchedule(trig Trigger) (cron.Schedule, error) {
	if trig.CronExpr != "" {
		schedule, err := s.parser.Parse(trig.CronExpr)
		if err != nil {
			return nil, fmt.Errorf("invalid cron expression: %w", err)
		}
		return schedule, nil
	}
	return cron.Every(trig.Interval), nil
}

// fireJob executes one firing of a scheduled job.
func (s *Scheduler) fireJob(sj *scheduledJob) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("job panic recovered", fmt.Errorf("panic: %v", r),
				logger.Field{Key: "job", Value: sj.job.Key().String()})
		}
	}()

	s.mu.Lock()
	sj.fires++
	fires := sj.fires
	limit := fireLimit(sj.trigger)
	ctx := s.ctx
	s.mu.Unlock()

	if limit > 0 && fires > limit {
		// A late firing of an already exhausted trigger.
		return
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if sj.fn != nil {
		sj.fn()
	} else {
		s.executor.Execute(ctx, sj.job)
	}

	if limit > 0 && fires >= limit {
		s.mu.Lock()
		s.cron.Remove(sj.entryID)
		delete(s.jobs, sj.job.Key())
		s.mu.Unlock()
		s.logger.Debug("trigger exhausted",
			logger.Field{Key: "trigger", Value: sj.trigger.Key().String()},
			logger.Field{Key: "fires", Value: fires})
	}
}

// fireLimit returns the total number of fires a trigger allows, or 0 for
// unlimited.
func fireLimit(trig Trigger) int {
	if trig.CronExpr != "" || trig.RepeatCount == RepeatForever {
		return 0
	}
	return trig.RepeatCount + 1
}

// validateTrigger checks that exactly one scheduling method is set.
func validateTrigger(trig Trigger) error {
	if trig.CronExpr != "" && trig.Interval != 0 {
		return fmt.Errorf("trigger %s sets both cron expression and interval", trig.Key())
	}
	if trig.CronExpr == "" && trig.Interval <= 0 {
		return fmt.Errorf("trigger %s needs a cron expression or a positive interval", trig.Key())
	}
	if trig.CronExpr == "" && trig.RepeatCount < RepeatForever {
		return fmt.Errorf("trigger %s has invalid repeat count %d", trig.Key(), trig.RepeatCount)
	}
	return nil
}
