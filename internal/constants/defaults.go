package constants

// Default values used when the configuration omits an option.

// DefaultConfigPath is the configuration file loaded when no path is given.
const DefaultConfigPath = "config.toml"

// DefaultJobFile is the job-definition file loaded when none is configured.
const DefaultJobFile = "quartz_jobs.xml"

// DefaultInstanceName is the scheduler instance name when none is configured.
const DefaultInstanceName = "QuartzScheduler"

// DefaultFetchTimeoutSeconds bounds a single remote job-file fetch.
const DefaultFetchTimeoutSeconds = 30

// DefaultMetricsAddr is the listen address for the metrics endpoint.
const DefaultMetricsAddr = ":9109"
