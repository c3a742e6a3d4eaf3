// Package config provides configuration loading and validation for quartznet.
// It supports TOML configuration files with environment variable expansion,
// default values, and validation.
//
// Configuration structure:
//   - [scheduler]: Scheduler instance settings
//   - [plugin.job_files]: Job-definition file list and scan interval
//   - [resolver]: File-reference resolution sources
//   - [logging]: Logging level, format, and output
//   - [metrics]: Prometheus metrics endpoint
//
// Environment variables can be referenced inside file references using
// ${VAR} syntax; they are expanded at resolution time, not at load time.
package config

// Config represents the main application configuration.
type Config struct {
	Scheduler SchedulerConfig `toml:"scheduler"`
	Plugin    PluginConfig    `toml:"plugin"`
	Resolver  ResolverConfig  `toml:"resolver"`
	Logging   LoggingConfig   `toml:"logging"`
	Metrics   MetricsConfig   `toml:"metrics"`
}

// SchedulerConfig holds scheduler instance settings.
type SchedulerConfig struct {
	InstanceName string `toml:"instance_name"`
}

// PluginConfig groups plugin configurations.
type PluginConfig struct {
	JobFiles JobFilesConfig `toml:"job_files"`
}

// JobFilesConfig configures the job-file loader plugin.
type JobFilesConfig struct {
	// FileNames is a comma-separated list of job-definition file references.
	FileNames string `toml:"file_names"`
	// ScanIntervalSeconds is the re-scan period; 0 disables scanning.
	ScanIntervalSeconds int `toml:"scan_interval_seconds"`
	// FailOnFileNotFound makes an unresolved file a fatal error (default true).
	FailOnFileNotFound *bool `toml:"fail_on_file_not_found"`
}

// FailFast reports whether an unresolved file reference is fatal.
func (c JobFilesConfig) FailFast() bool {
	if c.FailOnFileNotFound == nil {
		return true
	}
	return *c.FailOnFileNotFound
}

// ResolverConfig configures the file-reference resolver.
type ResolverConfig struct {
	// SearchPaths are directories consulted when a reference is not a
	// plain filesystem path.
	SearchPaths []string `toml:"search_paths"`
	// RemoteBaseURLs are HTTP(S) bases a reference may resolve against.
	RemoteBaseURLs []string `toml:"remote_base_urls"`
	// FetchTimeoutSeconds bounds a single remote fetch.
	FetchTimeoutSeconds int `toml:"fetch_timeout_seconds"`
	// FetchMaxAttempts bounds retries of a remote fetch.
	FetchMaxAttempts int `toml:"fetch_max_attempts"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	Output string `toml:"output"`
}

// MetricsConfig holds metrics endpoint settings.
type MetricsConfig struct {
	Enabled    bool   `toml:"enabled"`
	ListenAddr string `toml:"listen_addr"`
}
