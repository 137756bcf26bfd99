package cache

import (
	"context"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"AltCache/internal/metrics"
)

type RestoreOptions struct {
	// LookupOnly resolves the key without downloading anything.
	LookupOnly bool
}

// Restore extracts the best matching cache entry into the workspace and returns the
// key it was stored under. An empty key means no usable cache was found.
func (c *Cache) Restore(ctx context.Context, paths []string, primaryKey string, fallbackKeys []string, opts RestoreOptions) (string, error) {
	if err := ValidatePaths(paths); err != nil {
		return "", err
	}
	keys := append([]string{primaryKey}, fallbackKeys...)
	c.logger.Debug("resolved keys", "keys", keys)
	if err := ValidateKeySet(keys); err != nil {
		return "", err
	}

	key, err := c.restore(ctx, primaryKey, fallbackKeys, opts)
	if err != nil {
		if IsValidation(err) {
			return "", err
		}
		c.logger.Warn("Failed to restore: " + err.Error())
		return "", nil
	}
	return key, nil
}

func (c *Cache) restore(ctx context.Context, primaryKey string, fallbackKeys []string, opts RestoreOptions) (string, error) {
	method := c.archiver.CompressionMethod()
	store, bucket, err := c.openStore(ctx)
	if err != nil {
		return "", err
	}

	var entry Entry
	if err := c.metrics.Time(metrics.PhaseResolve, func() error {
		var err error
		entry, err = c.resolver.FindEntry(ctx, store, bucket, primaryKey, fallbackKeys, method)
		return err
	}); err != nil {
		return "", err
	}

	if opts.LookupOnly {
		c.logger.Info("Lookup only - skipping download", "key", entry.Key)
		return entry.Key, nil
	}
	if entry.Object.Name == "" {
		return "", nil
	}

	dir, err := c.fs.CreateTempDir()
	if err != nil {
		return "", operational("create temp dir", err)
	}
	defer c.removeTemp(dir)

	archivePath := filepath.Join(dir, c.archiver.CacheFileName(method))
	c.logger.Debug("archive path", "path", archivePath)
	c.logger.Debug("downloading object", "object", entry.Object.Name, "bucket", bucket)
	if err := c.metrics.Time(metrics.PhaseDownload, func() error {
		return store.GetObject(ctx, bucket, entry.Object.Name, archivePath)
	}); err != nil {
		return "", operational("download "+entry.Object.Name, err)
	}

	c.listArchive(ctx, archivePath, method)

	size, err := c.fs.FileSize(archivePath)
	if err != nil {
		return "", operational("stat archive", err)
	}
	c.logger.Info("Cache Size: "+humanize.Bytes(uint64(size)), "bytes", size)

	if err := c.metrics.Time(metrics.PhaseUnpack, func() error {
		return c.archiver.Unpack(ctx, archivePath, method)
	}); err != nil {
		return "", operational("extract archive", err)
	}
	c.logger.Info("Cache restored successfully", "key", entry.Key)
	return entry.Key, nil
}
