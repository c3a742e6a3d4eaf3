package jobdef

import (
	"encoding/xml"
	"fmt"
	"time"
)

// XML rendition of the document model:
//
//	<job-scheduling-data>
//	  <processing-directives>
//	    <overwrite-existing-data>true</overwrite-existing-data>
//	  </processing-directives>
//	  <pre-processing-commands>
//	    <delete-jobs-in-group>reports</delete-jobs-in-group>
//	  </pre-processing-commands>
//	  <schedule>
//	    <job>
//	      <name>daily-report</name>
//	      <group>reports</group>
//	      <command>generate daily report</command>
//	    </job>
//	    <trigger>
//	      <cron>
//	        <name>daily-report-trigger</name>
//	        <job-name>daily-report</job-name>
//	        <job-group>reports</job-group>
//	        <cron-expression>0 0 6 * * *</cron-expression>
//	      </cron>
//	    </trigger>
//	  </schedule>
//	</job-scheduling-data>
//
// Simple triggers use <repeat-interval> in milliseconds and
// <repeat-count> (-1 repeats forever).

type xmlDocument struct {
	XMLName    xml.Name `xml:"job-scheduling-data"`
	Directives struct {
		Overwrite *bool `xml:"overwrite-existing-data"`
	} `xml:"processing-directives"`
	PreProcessing struct {
		DeleteJobGroups     []string `xml:"delete-jobs-in-group"`
		DeleteTriggerGroups []string `xml:"delete-triggers-in-group"`
	} `xml:"pre-processing-commands"`
	Schedule struct {
		Jobs     []xmlJob     `xml:"job"`
		Triggers []xmlTrigger `xml:"trigger"`
	} `xml:"schedule"`
}

type xmlJob struct {
	Name        string `xml:"name"`
	Group       string `xml:"group"`
	Description string `xml:"description"`
	Command     string `xml:"command"`
	DataMap     struct {
		Entries []xmlDataEntry `xml:"entry"`
	} `xml:"job-data-map"`
}

type xmlDataEntry struct {
	Key   string `xml:"key"`
	Value string `xml:"value"`
}

type xmlTrigger struct {
	Simple *xmlSimpleTrigger `xml:"simple"`
	Cron   *xmlCronTrigger   `xml:"cron"`
}

type xmlSimpleTrigger struct {
	Name           string `xml:"name"`
	Group          string `xml:"group"`
	JobName        string `xml:"job-name"`
	JobGroup       string `xml:"job-group"`
	RepeatCount    int    `xml:"repeat-count"`
	RepeatInterval int64  `xml:"repeat-interval"`
}

type xmlCronTrigger struct {
	Name           string `xml:"name"`
	Group          string `xml:"group"`
	JobName        string `xml:"job-name"`
	JobGroup       string `xml:"job-group"`
	CronExpression string `xml:"cron-expression"`
}

// ParseXML parses an XML job-definition document.
func ParseXML(data []byte) (*Document, error) {
	var raw xmlDocument
	if err := xml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse XML job data: %w", err)
	}

	doc := &Document{
		Overwrite:           raw.Directives.Overwrite == nil || *raw.Directives.Overwrite,
		DeleteJobGroups:     raw.PreProcessing.DeleteJobGroups,
		DeleteTriggerGroups: raw.PreProcessing.DeleteTriggerGroups,
	}

	for _, j := range raw.Schedule.Jobs {
		job := JobDetail{
			Name:        j.Name,
			Group:       j.Group,
			Description: j.Description,
			Command:     j.Command,
		}
		if len(j.DataMap.Entries) > 0 {
			job.Data = make(map[string]string, len(j.DataMap.Entries))
			for _, e := range j.DataMap.Entries {
				job.Data[e.Key] = e.Value
			}
		}
		doc.Jobs = append(doc.Jobs, job)
	}

	for _, t := range raw.Schedule.Triggers {
		switch {
		case t.Cron != nil:
			doc.Triggers = append(doc.Triggers, TriggerDetail{
				Name:     t.Cron.Name,
				Group:    t.Cron.Group,
				JobName:  t.Cron.JobName,
				JobGroup: t.Cron.JobGroup,
				CronExpr: t.Cron.CronExpression,
			})
		case t.Simple != nil:
			doc.Triggers = append(doc.Triggers, TriggerDetail{
				Name:           t.Simple.Name,
				Group:          t.Simple.Group,
				JobName:        t.Simple.JobName,
				JobGroup:       t.Simple.JobGroup,
				RepeatInterval: time.Duration(t.Simple.RepeatInterval) * time.Millisecond,
				RepeatCount:    t.Simple.RepeatCount,
			})
		default:
			return nil, fmt.Errorf("trigger element without <simple> or <cron>")
		}
	}

	doc.applyGroupDefaults()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}
