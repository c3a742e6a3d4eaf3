package config

import "github.com/moerwald/quartznet/internal/constants"

// applyDefaults fills in default values for omitted options.
func applyDefaults(c *Config) {
	if c.Scheduler.InstanceName == "" {
		c.Scheduler.InstanceName = constants.DefaultInstanceName
	}

	if c.Plugin.JobFiles.FileNames == "" {
		c.Plugin.JobFiles.FileNames = constants.DefaultJobFile
	}
	if c.Plugin.JobFiles.FailOnFileNotFound == nil {
		failFast := true
		c.Plugin.JobFiles.FailOnFileNotFound = &failFast
	}

	if c.Resolver.FetchTimeoutSeconds == 0 {
		c.Resolver.FetchTimeoutSeconds = constants.DefaultFetchTimeoutSeconds
	}
	if c.Resolver.FetchMaxAttempts == 0 {
		c.Resolver.FetchMaxAttempts = 3
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}

	if c.Metrics.ListenAddr == "" {
		c.Metrics.ListenAddr = constants.DefaultMetricsAddr
	}
}
