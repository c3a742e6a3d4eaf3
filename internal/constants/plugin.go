package constants

// Plugin constants for the job-file loader plugin and its scan jobs.

// PluginName is the fixed prefix used for scan job/trigger names and for the
// scheduler context key under which the plugin publishes itself.
const PluginName = "JobSchedulingDataLoaderPlugin"

// ReservedGroup is the job/trigger group that holds the plugin's own scan
// jobs. Reloads must never purge this group.
const ReservedGroup = "JOB_SCHEDULING_DATA_LOADER_PLUGIN"

// MaxTriggerNameLength is the upper bound on generated scan job/trigger names.
const MaxTriggerNameLength = 80

// FileNameDelimiter separates entries in the configured job-file list.
const FileNameDelimiter = ","
