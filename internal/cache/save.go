package cache

import (
	"context"
	"path"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"AltCache/internal/archive"
	"AltCache/internal/metrics"
)

// MetaDigest is the object metadata key holding the archive's BLAKE3 digest.
const MetaDigest = "blake3"

type SaveOptions struct {
	// Metadata is attached to the uploaded object next to the digest.
	Metadata map[string]string
}

// SaveResult describes an upload. Saved is false when the upload failed and the
// failure was logged instead of returned.
type SaveResult struct {
	Key    string
	Object string
	Size   int64
	Digest string
	Saved  bool
}

// Save packs the paths matched by patterns and uploads the archive under key.
func (c *Cache) Save(ctx context.Context, paths []string, key string, opts SaveOptions) (SaveResult, error) {
	if err := ValidatePaths(paths); err != nil {
		return SaveResult{}, err
	}
	if err := ValidateKey(key); err != nil {
		return SaveResult{}, err
	}

	method := c.archiver.CompressionMethod()
	cachePaths, err := c.fs.ResolvePaths(paths)
	if err != nil {
		return SaveResult{}, validationErrorf("Path Validation Error: %v, hence no cache is being saved.", err)
	}
	c.logger.Debug("cache paths", "paths", cachePaths)
	if len(cachePaths) == 0 {
		return SaveResult{}, validationErrorf("Path Validation Error: Path(s) specified for caching do(es) not exist, hence no cache is being saved.")
	}

	fileName := c.archiver.CacheFileName(method)
	result := SaveResult{Key: key, Object: path.Join(key, fileName)}

	if err := c.save(ctx, cachePaths, method, fileName, opts, &result); err != nil {
		if IsValidation(err) {
			return SaveResult{}, err
		}
		c.logger.Warn("Failed to save: " + err.Error())
		return result, nil
	}
	result.Saved = true
	return result, nil
}

func (c *Cache) save(ctx context.Context, cachePaths []string, method archive.CompressionMethod, fileName string, opts SaveOptions, result *SaveResult) error {
	dir, err := c.fs.CreateTempDir()
	if err != nil {
		return operational("create temp dir", err)
	}
	defer c.removeTemp(dir)
	c.logger.Debug("archive path", "path", filepath.Join(dir, fileName))

	var archivePath string
	if err := c.metrics.Time(metrics.PhasePack, func() error {
		var err error
		archivePath, err = c.archiver.Pack(ctx, dir, cachePaths, method)
		return err
	}); err != nil {
		return operational("create archive", err)
	}

	c.listArchive(ctx, archivePath, method)

	size, err := c.fs.FileSize(archivePath)
	if err != nil {
		return operational("stat archive", err)
	}
	result.Size = size
	c.logger.Debug("archive size", "size", humanize.Bytes(uint64(size)), "bytes", size)

	digest, err := archive.Digest(archivePath)
	if err != nil {
		return operational("digest archive", err)
	}
	result.Digest = digest

	store, bucket, err := c.openStore(ctx)
	if err != nil {
		return err
	}

	meta := make(map[string]string, len(opts.Metadata)+1)
	for k, v := range opts.Metadata {
		meta[k] = v
	}
	meta[MetaDigest] = digest

	c.logger.Debug("uploading object", "object", result.Object, "bucket", bucket)
	if err := c.metrics.Time(metrics.PhaseUpload, func() error {
		return store.PutObject(ctx, bucket, result.Object, archivePath, meta)
	}); err != nil {
		return operational("upload "+result.Object, err)
	}
	c.logger.Info("Cache saved successfully", "object", result.Object, "bucket", bucket, "size", humanize.Bytes(uint64(size)))
	return nil
}
