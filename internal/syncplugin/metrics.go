package syncplugin

import "github.com/prometheus/client_golang/prometheus"

// Metrics exposes plugin counters. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	registry        prometheus.Registerer
	filesWatched    prometheus.Gauge
	reloadsTotal    *prometheus.CounterVec
	resolveFailures prometheus.Counter
	scanJobs        prometheus.Counter
}

// InitMetrics registers the plugin metrics with the given registerer.
func InitMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		registry: reg,
		filesWatched: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "jobfiles_watched",
				Help:      "Number of configured job-definition files",
			},
		),
		reloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "jobfile_reloads_total",
				Help:      "Total number of job-file reloads",
			},
			[]string{"status"},
		),
		resolveFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "jobfile_resolve_failures_total",
				Help:      "Total number of file references that failed to resolve",
			},
		),
		scanJobs: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "jobfile_scan_jobs_registered_total",
				Help:      "Total number of scan jobs registered with the scheduler",
			},
		),
	}

	reg.MustRegister(m.filesWatched, m.reloadsTotal, m.resolveFailures, m.scanJobs)
	return m
}

func (m *Metrics) setFilesWatched(n int) {
	if m == nil {
		return
	}
	m.filesWatched.Set(float64(n))
}

func (m *Metrics) reloadSucceeded() {
	if m == nil {
		return
	}
	m.reloadsTotal.WithLabelValues("success").Inc()
}

func (m *Metrics) reloadFailed() {
	if m == nil {
		return
	}
	m.reloadsTotal.WithLabelValues("error").Inc()
}

func (m *Metrics) resolveFailed() {
	if m == nil {
		return
	}
	m.resolveFailures.Inc()
}

func (m *Metrics) scanJobRegistered() {
	if m == nil {
		return
	}
	m.scanJobs.Inc()
}
