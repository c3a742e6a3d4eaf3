package jobdef

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/moerwald/quartznet/internal/logger"
	"github.com/moerwald/quartznet/internal/retry"
	"github.com/moerwald/quartznet/internal/scheduler"
	"github.com/moerwald/quartznet/internal/syncplugin"
)

// sourceKey is the job data key recording which scheduler instance loaded
// the job.
const sourceKey = "loaded-by"

// Processor loads job-definition files and registers their contents with
// the host scheduler. It implements syncplugin.ReloadDelegate.
type Processor struct {
	logger *logger.Logger
	client *http.Client
	retry  retry.Config

	mu                       sync.Mutex
	neverDeleteJobGroups     map[string]struct{}
	neverDeleteTriggerGroups map[string]struct{}
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithHTTPClient overrides the HTTP client used for remote job files.
func WithHTTPClient(c *http.Client) ProcessorOption {
	return func(p *Processor) { p.client = c }
}

// WithRetry overrides the retry policy for remote job files.
func WithRetry(cfg retry.Config) ProcessorOption {
	return func(p *Processor) { p.retry = cfg }
}

// NewProcessor creates a job-definition processor.
func NewProcessor(log *logger.Logger, opts ...ProcessorOption) *Processor {
	p := &Processor{
		logger:                   log,
		client:                   &http.Client{Timeout: 30 * time.Second},
		neverDeleteJobGroups:     make(map[string]struct{}),
		neverDeleteTriggerGroups: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AddJobGroupToNeverDelete protects a job group from pre-processing deletes.
func (p *Processor) AddJobGroupToNeverDelete(group string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.neverDeleteJobGroups[group] = struct{}{}
}

// AddTriggerGroupToNeverDelete protects a trigger group from pre-processing
// deletes.
func (p *Processor) AddTriggerGroupToNeverDelete(group string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.neverDeleteTriggerGroups[group] = struct{}{}
}

// ProcessFileAndScheduleJobs loads the file at path, runs its
// pre-processing commands, and registers its jobs and triggers.
func (p *Processor) ProcessFileAndScheduleJobs(path, systemID string, sched syncplugin.JobScheduler) error {
	data, err := p.readSource(path)
	if err != nil {
		return fmt.Errorf("failed to read job file %s: %w", path, err)
	}

	doc, err := Parse(path, data)
	if err != nil {
		return err
	}

	p.runPreProcessing(doc, sched)

	scheduled := 0
	skipped := 0
	for _, trig := range doc.Triggers {
		job, ok := findJob(doc, trig)
		if !ok {
			// Validate guarantees this; keep the guard for safety.
			return fmt.Errorf("trigger %s references unknown job %s.%s", trig.Name, trig.JobGroup, trig.JobName)
		}

		if !doc.Overwrite {
			key := scheduler.JobKey{Name: job.Name, Group: job.Group}
			if _, err := sched.GetJob(key); err == nil {
				p.logger.Debug("job already registered, not overwriting",
					logger.Field{Key: "job", Value: key.String()})
				skipped++
				continue
			}
		}

		if err := sched.ScheduleJob(toSchedulerJob(job, systemID), toSchedulerTrigger(trig)); err != nil {
			return fmt.Errorf("failed to schedule job %s.%s: %w", job.Group, job.Name, err)
		}
		scheduled++
	}

	for _, job := range doc.Jobs {
		if !hasTrigger(doc, job) {
			p.logger.Warn("job has no trigger and was not scheduled",
				logger.Field{Key: "job", Value: job.Group + "." + job.Name},
				logger.Field{Key: "file", Value: path})
		}
	}

	p.logger.Info("job file processed",
		logger.Field{Key: "file", Value: path},
		logger.Field{Key: "scheduled", Value: scheduled},
		logger.Field{Key: "skipped", Value: skipped})

	return nil
}

// Parse parses a job-definition document, choosing the format by the
// file extension (.yaml/.yml for YAML, XML otherwise).
func Parse(path string, data []byte) (*Document, error) {
	switch strings.ToLower(filepath.Ext(stripQuery(path))) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseXML(data)
	}
}

// runPreProcessing executes the document's delete commands, skipping
// protected groups.
func (p *Processor) runPreProcessing(doc *Document, sched syncplugin.JobScheduler) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, group := range doc.DeleteJobGroups {
		if _, protected := p.neverDeleteJobGroups[group]; protected {
			p.logger.Warn("refusing to delete protected job group",
				logger.Field{Key: "group", Value: group})
			continue
		}
		removed := sched.DeleteJobGroup(group)
		p.logger.Info("deleted jobs in group",
			logger.Field{Key: "group", Value: group},
			logger.Field{Key: "removed", Value: len(removed)})
	}

	for _, group := range doc.DeleteTriggerGroups {
		if _, protected := p.neverDeleteTriggerGroups[group]; protected {
			p.logger.Warn("refusing to delete protected trigger group",
				logger.Field{Key: "group", Value: group})
			continue
		}
		removed := sched.DeleteTriggerGroup(group)
		p.logger.Info("deleted triggers in group",
			logger.Field{Key: "group", Value: group},
			logger.Field{Key: "removed", Value: len(removed)})
	}
}

// readSource reads job-definition bytes from a local path or an HTTP(S)
// URL.
func (p *Processor) readSource(path string) ([]byte, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return retry.Do(context.Background(), func() ([]byte, error) {
			resp, err := p.client.Get(path)
			if err != nil {
				return nil, err
			}
			defer func() { _ = resp.Body.Close() }()
			if resp.StatusCode != http.StatusOK {
				return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, path)
			}
			return io.ReadAll(resp.Body)
		}, p.retry)
	}
	return os.ReadFile(path)
}

func toSchedulerJob(job JobDetail, systemID string) scheduler.Job {
	metadata := make(map[string]string, len(job.Data)+1)
	for k, v := range job.Data {
		metadata[k] = v
	}
	metadata[sourceKey] = systemID

	return scheduler.Job{
		Name:        job.Name,
		Group:       job.Group,
		Description: job.Description,
		Command:     job.Command,
		Metadata:    metadata,
	}
}

func toSchedulerTrigger(trig TriggerDetail) scheduler.Trigger {
	return scheduler.Trigger{
		Name:        trig.Name,
		Group:       trig.Group,
		CronExpr:    trig.CronExpr,
		Interval:    trig.RepeatInterval,
		RepeatCount: trig.RepeatCount,
	}
}

func findJob(doc *Document, trig TriggerDetail) (JobDetail, bool) {
	for _, job := range doc.Jobs {
		if job.Name == trig.JobName && job.Group == trig.JobGroup {
			return job, true
		}
	}
	return JobDetail{}, false
}

func hasTrigger(doc *Document, job JobDetail) bool {
	for _, trig := range doc.Triggers {
		if trig.JobName == job.Name && trig.JobGroup == job.Group {
			return true
		}
	}
	return false
}

// stripQuery drops a URL query string so extension detection works for
// remote paths.
func stripQuery(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i]
	}
	return path
}
