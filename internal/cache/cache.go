// Package cache restores and saves path archives keyed by cache keys in an object store.
//
// Only validation errors reach the caller. Store, network and archive failures are
// logged as warnings, because a missing cache must never fail the surrounding job.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"AltCache/internal/archive"
	"AltCache/internal/metrics"
	"AltCache/internal/objstore"
)

// Archiver is implemented by *archive.Archiver.
type Archiver interface {
	Pack(ctx context.Context, folder string, paths []string, method archive.CompressionMethod) (string, error)
	Unpack(ctx context.Context, archivePath string, method archive.CompressionMethod) error
	List(ctx context.Context, archivePath string, method archive.CompressionMethod) ([]string, error)
	CacheFileName(method archive.CompressionMethod) string
	CompressionMethod() archive.CompressionMethod
}

// FS is implemented by *workspace.FS.
type FS interface {
	CreateTempDir() (string, error)
	ResolvePaths(patterns []string) ([]string, error)
	FileSize(path string) (int64, error)
	Remove(path string) error
}

// StoreOpener returns the store handle and bucket to use. It runs inside the flows,
// so a configuration failure is reported like any other store failure.
type StoreOpener func(ctx context.Context) (objstore.Store, string, error)

type Options struct {
	Archiver    Archiver
	FS          FS
	Open        StoreOpener
	Logger      *slog.Logger
	Debug       bool
	ListTimeout time.Duration
	Metrics     *metrics.LatencyTracker
}

type Cache struct {
	archiver Archiver
	fs       FS
	open     StoreOpener
	resolver *Resolver
	logger   *slog.Logger
	debug    bool
	metrics  *metrics.LatencyTracker
}

func New(opts Options) (*Cache, error) {
	if opts.Archiver == nil {
		return nil, errors.New("cache: archiver is required")
	}
	if opts.FS == nil {
		return nil, errors.New("cache: filesystem is required")
	}
	if opts.Open == nil {
		return nil, errors.New("cache: store opener is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		archiver: opts.Archiver,
		fs:       opts.FS,
		open:     opts.Open,
		resolver: &Resolver{
			Lister:  Lister{Timeout: opts.ListTimeout},
			Logger:  logger,
			Metrics: opts.Metrics,
		},
		logger:  logger,
		debug:   opts.Debug,
		metrics: opts.Metrics,
	}, nil
}

func (c *Cache) openStore(ctx context.Context) (objstore.Store, string, error) {
	store, bucket, err := c.open(ctx)
	if err != nil {
		return nil, "", operational("open store", err)
	}
	return store, bucket, nil
}

func (c *Cache) listArchive(ctx context.Context, archivePath string, method archive.CompressionMethod) {
	if !c.debug {
		return
	}
	names, err := c.archiver.List(ctx, archivePath, method)
	if err != nil {
		c.logger.Debug("failed to list archive", "path", archivePath, "error", err)
		return
	}
	for _, name := range names {
		c.logger.Debug("archive entry", "name", name)
	}
}

// removeTemp deletes a temp directory created by a flow. Failure is only logged.
func (c *Cache) removeTemp(dir string) {
	if err := c.fs.Remove(dir); err != nil {
		c.logger.Debug("failed to delete archive", "path", dir, "error", err)
	}
}
