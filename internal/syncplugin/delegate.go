package syncplugin

import (
	"time"

	"github.com/moerwald/quartznet/internal/scheduler"
)

// JobScheduler is the surface of the host scheduler that the plugin and
// its reload delegate drive. *scheduler.Scheduler satisfies it.
type JobScheduler interface {
	// ScheduleFunc registers a recurring internal callback job.
	ScheduleFunc(name, group string, interval time.Duration, fireNow bool, fn func()) error
	// PutContext publishes a value in the scheduler's shared context.
	PutContext(key string, value any)
	// ScheduleJob registers a job with its trigger, replacing an existing
	// registration under the same key.
	ScheduleJob(job scheduler.Job, trig scheduler.Trigger) error
	// GetJob returns a registered job by key.
	GetJob(key scheduler.JobKey) (scheduler.Job, error)
	// DeleteJobGroup removes all jobs in a job group.
	DeleteJobGroup(group string) []string
	// DeleteTriggerGroup removes all jobs scheduled under a trigger group.
	DeleteTriggerGroup(group string) []string
}

// ReloadDelegate is the format-specific loader invoked once per file to
// parse the file and register its jobs and triggers with the scheduler.
type ReloadDelegate interface {
	// AddJobGroupToNeverDelete protects a job group from pre-processing
	// deletes performed during a reload.
	AddJobGroupToNeverDelete(group string)
	// AddTriggerGroupToNeverDelete protects a trigger group likewise.
	AddTriggerGroupToNeverDelete(group string)
	// ProcessFileAndScheduleJobs loads the file at path and registers its
	// contents with the scheduler. systemID identifies the loading
	// scheduler instance.
	ProcessFileAndScheduleJobs(path, systemID string, sched JobScheduler) error
}
