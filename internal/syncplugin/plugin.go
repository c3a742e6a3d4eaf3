// Package syncplugin keeps a running scheduler in sync with externally
// authored job-definition files. The plugin resolves each configured file
// reference, loads the files through a format-specific reload delegate,
// and optionally registers periodic scan jobs with the host scheduler
// that call back into the plugin when a file changes.
package syncplugin

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/moerwald/quartznet/internal/constants"
	"github.com/moerwald/quartznet/internal/logger"
	"github.com/moerwald/quartznet/internal/resolver"
)

// State tracks the plugin lifecycle. Transitions are monotonic:
// Uninitialized -> Initialized -> Started.
type State int

const (
	StateUninitialized State = iota
	StateInitialized
	StateStarted
)

// Options configures the plugin.
type Options struct {
	// FileNames is a comma-separated list of job-definition file
	// references.
	FileNames string
	// ScanInterval is the period between re-scans; zero disables
	// scanning entirely.
	ScanInterval time.Duration
	// FailOnFileNotFound makes an unresolved reference fatal at
	// initialization.
	FailOnFileNotFound bool
}

// Plugin is the job-file synchronizer.
type Plugin struct {
	opts     Options
	resolver *resolver.Resolver
	delegate ReloadDelegate
	logger   *logger.Logger
	metrics  *Metrics

	name    string
	sched   JobScheduler
	entries []*FileEntry
	names   *TriggerNameAllocator

	mu    sync.RWMutex
	state State
}

// New creates a plugin. metrics may be nil.
func New(opts Options, res *resolver.Resolver, delegate ReloadDelegate, log *logger.Logger, metrics *Metrics) *Plugin {
	return &Plugin{
		opts:     opts,
		resolver: res,
		delegate: delegate,
		logger:   log,
		metrics:  metrics,
	}
}

// ContextKey returns the scheduler context key under which the plugin
// publishes itself for a given instance name.
func ContextKey(instanceName string) string {
	return constants.PluginName + "_" + instanceName
}

// Initialize binds the plugin to a scheduler instance and resolves every
// configured file reference, in configuration order.
func (p *Plugin) Initialize(instanceName string, sched JobScheduler) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateUninitialized {
		return fmt.Errorf("plugin already initialized")
	}
	if sched == nil {
		return fmt.Errorf("scheduler cannot be nil")
	}

	p.name = instanceName
	p.sched = sched
	p.names = newTriggerNameAllocator(instanceName)

	var references []string
	for _, token := range strings.Split(p.opts.FileNames, constants.FileNameDelimiter) {
		if token = strings.TrimSpace(token); token != "" {
			references = append(references, token)
		}
	}
	if len(references) == 0 {
		return fmt.Errorf("no job files configured")
	}

	for _, reference := range references {
		entry := newFileEntry(reference, p.resolver)
		entry.Resolve()
		if !entry.Found {
			p.metrics.resolveFailed()
			if p.opts.FailOnFileNotFound {
				return fmt.Errorf("job file %q does not exist", reference)
			}
			p.logger.Warn("job file not found, will be skipped",
				logger.Field{Key: "file", Value: reference})
		}
		p.entries = append(p.entries, entry)
	}

	p.metrics.setFilesWatched(len(p.entries))
	p.state = StateInitialized

	p.logger.Info("job file plugin initialized",
		logger.Field{Key: "instance", Value: instanceName},
		logger.Field{Key: "files", Value: len(p.entries)})
	return nil
}

// Start arms the periodic scan jobs (when a scan interval is configured)
// and performs the initial load of every file. The state advances to
// Started even when individual registrations or loads fail.
func (p *Plugin) Start() error {
	p.mu.Lock()
	if p.state != StateInitialized {
		state := p.state
		p.mu.Unlock()
		return fmt.Errorf("plugin must be initialized before start (state %d)", state)
	}
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.state = StateStarted
		p.mu.Unlock()
	}()

	contextPublished := false
	for _, entry := range p.entries {
		if p.opts.ScanInterval > 0 {
			if !contextPublished {
				p.sched.PutContext(ContextKey(p.name), p)
				contextPublished = true
			}

			name := p.names.Allocate(entry.BaseName)
			task := newFileScanTask(entry.Path, p.FileUpdated, p.logger)
			if err := p.sched.ScheduleFunc(name, constants.ReservedGroup, p.opts.ScanInterval, true, task.Run); err != nil {
				p.logger.Error("could not schedule scan job for job file", err,
					logger.Field{Key: "file", Value: entry.Path})
			} else {
				p.metrics.scanJobRegistered()
				p.logger.Debug("scan job registered",
					logger.Field{Key: "name", Value: name},
					logger.Field{Key: "file", Value: entry.Path},
					logger.Field{Key: "interval", Value: p.opts.ScanInterval})
			}
		}

		p.reloadOne(entry)
	}

	p.logger.Info("job file plugin started",
		logger.Field{Key: "instance", Value: p.name},
		logger.Field{Key: "scan_interval", Value: p.opts.ScanInterval})
	return nil
}

// Shutdown releases nothing: the host scheduler owns the scan jobs.
func (p *Plugin) Shutdown() {
	p.logger.Debug("job file plugin shutdown")
}

// FileUpdated is the file-changed entry point, invoked by the scan jobs
// with the originally resolved path. Calls before Start and calls with an
// unknown path are no-ops.
func (p *Plugin) FileUpdated(path string) {
	p.mu.RLock()
	started := p.state == StateStarted
	p.mu.RUnlock()
	if !started {
		return
	}

	entry := p.findEntry(path)
	if entry == nil {
		return
	}
	p.reloadOne(entry)
}

// State returns the current lifecycle state.
func (p *Plugin) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Entries returns the plugin's file entries in configuration order.
func (p *Plugin) Entries() []*FileEntry {
	return p.entries
}

// reloadOne loads one file through the delegate. A nil or not-found entry
// is silently skipped; delegate errors are logged and never propagate.
func (p *Plugin) reloadOne(entry *FileEntry) {
	if entry == nil || !entry.Found {
		return
	}

	p.delegate.AddJobGroupToNeverDelete(constants.ReservedGroup)
	p.delegate.AddTriggerGroupToNeverDelete(constants.ReservedGroup)

	if err := p.delegate.ProcessFileAndScheduleJobs(entry.Path, p.name, p.sched); err != nil {
		p.metrics.reloadFailed()
		p.logger.Error("could not schedule jobs from job file", err,
			logger.Field{Key: "file", Value: entry.BaseName})
		return
	}
	p.metrics.reloadSucceeded()
}

func (p *Plugin) findEntry(path string) *FileEntry {
	for _, entry := range p.entries {
		if entry.Path == path {
			return entry
		}
	}
	return nil
}
