package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/moerwald/quartznet/internal/constants"
)

// Load reads and parses a TOML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() []error {
	var errors []error

	if c.Scheduler.InstanceName == "" {
		errors = append(errors, fmt.Errorf("scheduler.instance_name is required"))
	}

	if strings.TrimSpace(c.Plugin.JobFiles.FileNames) == "" {
		errors = append(errors, fmt.Errorf("plugin.job_files.file_names cannot be empty"))
	} else {
		for _, name := range strings.Split(c.Plugin.JobFiles.FileNames, constants.FileNameDelimiter) {
			if strings.TrimSpace(name) == "" {
				errors = append(errors, fmt.Errorf("plugin.job_files.file_names contains an empty entry"))
				break
			}
		}
	}

	if c.Plugin.JobFiles.ScanIntervalSeconds < 0 {
		errors = append(errors, fmt.Errorf("plugin.job_files.scan_interval_seconds cannot be negative"))
	}

	for _, base := range c.Resolver.RemoteBaseURLs {
		u, err := url.Parse(base)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errors = append(errors, fmt.Errorf("resolver.remote_base_urls contains invalid URL: %s", base))
		}
	}

	if c.Resolver.FetchTimeoutSeconds < 0 {
		errors = append(errors, fmt.Errorf("resolver.fetch_timeout_seconds cannot be negative"))
	}

	if c.Logging.Level == "" {
		errors = append(errors, fmt.Errorf("logging.level is required"))
	} else {
		validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
		if !validLevels[strings.ToLower(c.Logging.Level)] {
			errors = append(errors, fmt.Errorf("invalid logging.level: %s (expected: debug, info, warn, error)", c.Logging.Level))
		}
	}

	if c.Logging.Format == "" {
		errors = append(errors, fmt.Errorf("logging.format is required"))
	} else {
		validFormats := map[string]bool{"json": true, "text": true}
		if !validFormats[strings.ToLower(c.Logging.Format)] {
			errors = append(errors, fmt.Errorf("invalid logging.format: %s (expected: json, text)", c.Logging.Format))
		}
	}

	if c.Logging.Output == "" {
		errors = append(errors, fmt.Errorf("logging.output is required"))
	}

	if c.Metrics.Enabled && c.Metrics.ListenAddr == "" {
		errors = append(errors, fmt.Errorf("metrics.listen_addr is required when metrics are enabled"))
	}

	return errors
}
