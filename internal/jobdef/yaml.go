package jobdef

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// YAML rendition of the document model:
//
//	overwrite_existing_data: true
//	pre_processing:
//	  delete_jobs_in_group: [reports]
//	schedule:
//	  jobs:
//	    - name: daily-report
//	      group: reports
//	      command: generate daily report
//	  triggers:
//	    - name: daily-report-trigger
//	      job_name: daily-report
//	      job_group: reports
//	      cron: "0 0 6 * * *"
//
// Simple triggers use repeat_interval as a Go duration string ("30s")
// and repeat_count (-1 repeats forever).

type yamlDocument struct {
	Overwrite     *bool `yaml:"overwrite_existing_data"`
	PreProcessing struct {
		DeleteJobGroups     []string `yaml:"delete_jobs_in_group"`
		DeleteTriggerGroups []string `yaml:"delete_triggers_in_group"`
	} `yaml:"pre_processing"`
	Schedule struct {
		Jobs     []yamlJob     `yaml:"jobs"`
		Triggers []yamlTrigger `yaml:"triggers"`
	} `yaml:"schedule"`
}

type yamlJob struct {
	Name        string            `yaml:"name"`
	Group       string            `yaml:"group"`
	Description string            `yaml:"description"`
	Command     string            `yaml:"command"`
	Data        map[string]string `yaml:"data"`
}

type yamlTrigger struct {
	Name           string `yaml:"name"`
	Group          string `yaml:"group"`
	JobName        string `yaml:"job_name"`
	JobGroup       string `yaml:"job_group"`
	Cron           string `yaml:"cron"`
	RepeatInterval string `yaml:"repeat_interval"`
	RepeatCount    int    `yaml:"repeat_count"`
}

// ParseYAML parses a YAML job-definition document.
func ParseYAML(data []byte) (*Document, error) {
	var raw yamlDocument
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML job data: %w", err)
	}

	doc := &Document{
		Overwrite:           raw.Overwrite == nil || *raw.Overwrite,
		DeleteJobGroups:     raw.PreProcessing.DeleteJobGroups,
		DeleteTriggerGroups: raw.PreProcessing.DeleteTriggerGroups,
	}

	for _, j := range raw.Schedule.Jobs {
		doc.Jobs = append(doc.Jobs, JobDetail{
			Name:        j.Name,
			Group:       j.Group,
			Description: j.Description,
			Command:     j.Command,
			Data:        j.Data,
		})
	}

	for _, t := range raw.Schedule.Triggers {
		trig := TriggerDetail{
			Name:        t.Name,
			Group:       t.Group,
			JobName:     t.JobName,
			JobGroup:    t.JobGroup,
			CronExpr:    t.Cron,
			RepeatCount: t.RepeatCount,
		}
		if t.RepeatInterval != "" {
			interval, err := time.ParseDuration(t.RepeatInterval)
			if err != nil {
				return nil, fmt.Errorf("trigger %s has invalid repeat_interval: %w", t.Name, err)
			}
			trig.RepeatInterval = interval
		}
		doc.Triggers = append(doc.Triggers, trig)
	}

	doc.applyGroupDefaults()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}
