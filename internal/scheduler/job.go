// Package scheduler provides the host scheduling engine for quartznet.
// It wraps robfig/cron/v3 with a job/trigger registry keyed by name and
// group, a shared scheduler context, and group-wide delete operations.
package scheduler

import "time"

// RepeatForever makes a trigger fire indefinitely.
const RepeatForever = -1

// JobKey identifies a job or trigger by name within a group.
type JobKey struct {
	Name  string
	Group string
}

func (k JobKey) String() string {
	return k.Group + "." + k.Name
}

// Job describes a unit of work registered with the scheduler.
type Job struct {
	Name        string
	Group       string
	Description string
	// Command is the payload handed to the executor when the job fires.
	Command  string
	Metadata map[string]string
}

// Key returns the registry key for the job.
func (j Job) Key() JobKey {
	return JobKey{Name: j.Name, Group: j.Group}
}

// Trigger describes the firing schedule for a job. Exactly one of CronExpr
// or Interval must be set.
type Trigger struct {
	Name  string
	Group string
	// CronExpr is a cron expression ("0 * * * * *" style, seconds optional).
	CronExpr string
	// Interval is the period between fires for simple triggers.
	Interval time.Duration
	// RepeatCount is the number of fires after the first one; RepeatForever
	// repeats indefinitely. Only honored for interval triggers.
	RepeatCount int
}

// Key returns the registry key for the trigger.
func (t Trigger) Key() JobKey {
	return JobKey{Name: t.Name, Group: t.Group}
}
