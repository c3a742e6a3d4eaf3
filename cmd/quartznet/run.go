package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/moerwald/quartznet/internal/config"
	"github.com/moerwald/quartznet/internal/constants"
	"github.com/moerwald/quartznet/internal/jobdef"
	"github.com/moerwald/quartznet/internal/logger"
	"github.com/moerwald/quartznet/internal/resolver"
	"github.com/moerwald/quartznet/internal/retry"
	"github.com/moerwald/quartznet/internal/scheduler"
	"github.com/moerwald/quartznet/internal/syncplugin"
	"github.com/moerwald/quartznet/internal/version"
)

var (
	runConfigPath string
	runDebug      bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the scheduler",
	Long: `Start the scheduler with the configured job-definition files.
This will initialize all components (logger, scheduler, file resolver,
job-file plugin) and handle graceful shutdown.`,
	Run: runHandler,
}

func runHandler(cmd *cobra.Command, args []string) {
	configPath := runConfigPath
	if configPath == "" {
		configPath = constants.DefaultConfigPath
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("❌ Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if errors := cfg.Validate(); len(errors) > 0 {
		fmt.Printf("❌ Configuration validation failed:\n")
		for _, e := range errors {
			fmt.Printf("  - %v\n", e)
		}
		os.Exit(1)
	}

	if runDebug {
		cfg.Logging.Level = "debug"
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		fmt.Printf("❌ Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	log.Info("🚀 "+version.FormatStartupMessage(),
		logger.Field{Key: "git_commit", Value: GitCommit},
		logger.Field{Key: "config", Value: configPath},
		logger.Field{Key: "instance", Value: cfg.Scheduler.InstanceName},
		logger.Field{Key: "job_files", Value: cfg.Plugin.JobFiles.FileNames},
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	httpClient := &http.Client{
		Timeout: time.Duration(cfg.Resolver.FetchTimeoutSeconds) * time.Second,
	}
	retryCfg := retry.Config{MaxAttempts: cfg.Resolver.FetchMaxAttempts}

	var locators []resolver.Locator
	if len(cfg.Resolver.SearchPaths) > 0 {
		locators = append(locators, resolver.NewSearchPathLocator(cfg.Resolver.SearchPaths))
	}
	for _, base := range cfg.Resolver.RemoteBaseURLs {
		remote, err := resolver.NewRemoteLocator(base)
		if err != nil {
			log.Error("Invalid remote base URL", err, logger.Field{Key: "url", Value: base})
			os.Exit(1)
		}
		locators = append(locators, remote)
	}
	res := resolver.New(locators, log,
		resolver.WithHTTPClient(httpClient),
		resolver.WithRetry(retryCfg))

	sched := scheduler.New(log, nil)

	processor := jobdef.NewProcessor(log,
		jobdef.WithHTTPClient(httpClient),
		jobdef.WithRetry(retryCfg))

	var metrics *syncplugin.Metrics
	var metricsSrv *http.Server
	if cfg.Metrics.Enabled {
		metrics = syncplugin.InitMetrics("quartznet", prometheus.DefaultRegisterer)
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{Addr: cfg.Metrics.ListenAddr, Handler: mux}
		go func() {
			log.Info("📊 Metrics endpoint listening",
				logger.Field{Key: "addr", Value: cfg.Metrics.ListenAddr})
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("Metrics endpoint failed", err)
			}
		}()
	}

	plug := syncplugin.New(syncplugin.Options{
		FileNames:          cfg.Plugin.JobFiles.FileNames,
		ScanInterval:       time.Duration(cfg.Plugin.JobFiles.ScanIntervalSeconds) * time.Second,
		FailOnFileNotFound: cfg.Plugin.JobFiles.FailFast(),
	}, res, processor, log, metrics)

	if err := plug.Initialize(cfg.Scheduler.InstanceName, sched); err != nil {
		log.Error("Failed to initialize job-file plugin", err)
		os.Exit(1)
	}

	if err := sched.Start(ctx); err != nil {
		log.Error("Failed to start scheduler", err)
		os.Exit(1)
	}

	if err := plug.Start(); err != nil {
		log.Error("Failed to start job-file plugin", err)
		os.Exit(1)
	}

	log.Info("✅ quartznet is running",
		logger.Field{Key: "jobs", Value: len(sched.ListJobs())})

	sig := <-sigChan
	log.Info("⏳ Received shutdown signal",
		logger.Field{Key: "signal", Value: sig.String()})

	log.Info("🛑 Shutting down quartznet...")
	plug.Shutdown()
	if err := sched.Stop(); err != nil {
		log.Warn("Scheduler stop reported an error",
			logger.Field{Key: "error", Value: err})
	}
	if metricsSrv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			log.Warn("Metrics endpoint shutdown reported an error",
				logger.Field{Key: "error", Value: err})
		}
	}
	cancel()

	log.Info("👋 quartznet stopped gracefully")
}

func init() {
	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "Path to configuration file (default: ./config.toml)")
	runCmd.Flags().BoolVarP(&runDebug, "debug", "d", false, "Enable debug logging")
}
