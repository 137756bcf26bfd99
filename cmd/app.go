package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"AltCache/internal/archive"
	"AltCache/internal/cache"
	"AltCache/internal/config"
	"AltCache/internal/metrics"
	"AltCache/internal/minio"
	"AltCache/internal/objstore"
	"AltCache/internal/s3"
	"AltCache/internal/workspace"
)

const (
	envRunnerDebug = "RUNNER_DEBUG"
	envRunnerTemp  = "RUNNER_TEMP"
)

// app is the configuration and shared services of one command invocation.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	debug   bool
	metrics *metrics.LatencyTracker
}

// loadApp reads and validates the config. checkPerms rejects a config file readable by
// group or others.
func loadApp(cmd *cobra.Command, checkPerms bool) (*app, error) {
	v, err := config.Load(configPath, checkPerms)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Unmarshal(v)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	debug := debugFlag || cfg.Debug || os.Getenv(envRunnerDebug) == "1"
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	a := &app{
		cfg:    cfg,
		logger: slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})),
		debug:  debug,
	}
	if statsFlag {
		a.metrics = metrics.NewLatencyTracker(0.01)
	}
	return a, nil
}

func (a *app) tempDir() string {
	if a.cfg.TempDir != "" {
		return a.cfg.TempDir
	}
	return os.Getenv(envRunnerTemp)
}

// openStore resolves connection options when called, so that bad store settings
// surface inside the cache flows rather than at startup.
func (a *app) openStore(ctx context.Context) (objstore.Store, string, error) {
	opts, err := config.ResolveStore(a.cfg.Store, os.LookupEnv)
	if err != nil {
		return nil, "", err
	}
	switch a.cfg.Backend {
	case objstore.BackendS3:
		client, err := s3.New(ctx, opts, a.logger)
		if err != nil {
			return nil, "", err
		}
		return client, opts.Bucket, nil
	default:
		client, err := minio.New(opts, a.logger)
		if err != nil {
			return nil, "", err
		}
		return client, opts.Bucket, nil
	}
}

func (a *app) newCache() (*cache.Cache, error) {
	method, err := archive.ParseCompressionMethod(a.cfg.Compression)
	if err != nil {
		return nil, err
	}
	arc, err := archive.New(archive.Options{Root: a.cfg.Workspace, Method: method, Logger: a.logger})
	if err != nil {
		return nil, err
	}
	fs, err := workspace.New(a.cfg.Workspace, a.tempDir())
	if err != nil {
		return nil, err
	}
	return cache.New(cache.Options{
		Archiver:    arc,
		FS:          fs,
		Open:        a.openStore,
		Logger:      a.logger,
		Debug:       a.debug,
		ListTimeout: a.cfg.EffectiveListTimeout(),
		Metrics:     a.metrics,
	})
}

func (a *app) printStats(cmd *cobra.Command) {
	if a.metrics == nil {
		return
	}
	cmd.Println("Latency:")
	for _, s := range a.metrics.AllStats() {
		cmd.Println(s.String())
	}
}
