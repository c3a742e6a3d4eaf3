// Package jobdef parses job-definition files and registers their contents
// with the host scheduler. Files declare jobs, triggers, and optional
// pre-processing commands; XML and YAML renditions of the same document
// model are supported, chosen by file extension.
package jobdef

import (
	"fmt"
	"time"
)

// DefaultGroup is used when a job or trigger omits its group.
const DefaultGroup = "DEFAULT"

// Document is the parsed content of one job-definition file.
type Document struct {
	// Overwrite controls whether jobs already registered under the same
	// key are replaced (true, the default) or left untouched.
	Overwrite bool
	// DeleteJobGroups are job groups purged before scheduling.
	DeleteJobGroups []string
	// DeleteTriggerGroups are trigger groups purged before scheduling.
	DeleteTriggerGroups []string
	Jobs                []JobDetail
	Triggers            []TriggerDetail
}

// JobDetail declares one job.
type JobDetail struct {
	Name        string
	Group       string
	Description string
	Command     string
	Data        map[string]string
}

// TriggerDetail declares one trigger referencing a job in the same file.
// Exactly one of CronExpr or RepeatInterval is set.
type TriggerDetail struct {
	Name           string
	Group          string
	JobName        string
	JobGroup       string
	CronExpr       string
	RepeatInterval time.Duration
	// RepeatCount is the number of fires after the first; -1 repeats
	// forever.
	RepeatCount int
}

// Validate checks the document for structural errors.
func (d *Document) Validate() error {
	jobs := make(map[string]bool, len(d.Jobs))
	for _, job := range d.Jobs {
		if job.Name == "" {
			return fmt.Errorf("job without a name")
		}
		key := job.Group + "." + job.Name
		if jobs[key] {
			return fmt.Errorf("duplicate job %s", key)
		}
		jobs[key] = true
	}

	for _, trig := range d.Triggers {
		if trig.Name == "" {
			return fmt.Errorf("trigger without a name")
		}
		if trig.JobName == "" {
			return fmt.Errorf("trigger %s does not reference a job", trig.Name)
		}
		if !jobs[trig.JobGroup+"."+trig.JobName] {
			return fmt.Errorf("trigger %s references unknown job %s.%s", trig.Name, trig.JobGroup, trig.JobName)
		}
		if trig.CronExpr != "" && trig.RepeatInterval != 0 {
			return fmt.Errorf("trigger %s sets both cron expression and repeat interval", trig.Name)
		}
		if trig.CronExpr == "" && trig.RepeatInterval <= 0 {
			return fmt.Errorf("trigger %s needs a cron expression or a repeat interval", trig.Name)
		}
	}

	return nil
}

// applyGroupDefaults fills in DefaultGroup where groups are omitted.
func (d *Document) applyGroupDefaults() {
	for i := range d.Jobs {
		if d.Jobs[i].Group == "" {
			d.Jobs[i].Group = DefaultGroup
		}
	}
	for i := range d.Triggers {
		if d.Triggers[i].Group == "" {
			d.Triggers[i].Group = DefaultGroup
		}
		if d.Triggers[i].JobGroup == "" {
			d.Triggers[i].JobGroup = DefaultGroup
		}
	}
}
