package doctor

import (
	"context"
	"fmt"
	"os"
	"time"

	"AltCache/internal/archive"
	"AltCache/internal/config"
	"AltCache/internal/objstore"
)

const storeTimeout = 5 * time.Second

type CheckResult struct {
	Name   string
	OK     bool
	Detail string
}

// Opener returns a store handle and the bucket it should serve.
type Opener func(ctx context.Context) (objstore.Store, string, error)

func Run(ctx context.Context, cfg *config.Config, open Opener, tempDir string) []CheckResult {
	var results []CheckResult

	results = append(results, CheckResult{
		Name:   "config",
		OK:     cfg != nil,
		Detail: "configuration loaded",
	})

	ok, detail := checkStore(ctx, open)
	results = append(results, CheckResult{Name: "store", OK: ok, Detail: detail})

	ok, detail = checkTempDir(tempDir)
	results = append(results, CheckResult{Name: "temp dir", OK: ok, Detail: detail})

	ok, detail = checkCompression(cfg)
	results = append(results, CheckResult{Name: "compression", OK: ok, Detail: detail})

	return results
}

func checkStore(ctx context.Context, open Opener) (bool, string) {
	if open == nil {
		return false, "store not configured"
	}
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	store, bucket, err := open(ctx)
	if err != nil {
		return false, fmt.Sprintf("store init failed: %v", err)
	}
	if bucket == "" {
		return false, "bucket is not set"
	}
	exists, err := store.BucketExists(ctx, bucket)
	if err != nil {
		return false, fmt.Sprintf("bucket check failed: %v", err)
	}
	if !exists {
		return false, fmt.Sprintf("bucket %s does not exist", bucket)
	}
	return true, fmt.Sprintf("bucket %s reachable", bucket)
}

func checkTempDir(dir string) (bool, string) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Sprintf("create temp dir %s failed: %v", dir, err)
	}
	f, err := os.CreateTemp(dir, "altcache-doctor-*")
	if err != nil {
		return false, fmt.Sprintf("create temp file failed in %s: %v", dir, err)
	}
	defer os.Remove(f.Name())
	if _, err := f.WriteString("test"); err != nil {
		_ = f.Close()
		return false, fmt.Sprintf("write temp file failed: %v", err)
	}
	if err := f.Close(); err != nil {
		return false, fmt.Sprintf("close temp file failed: %v", err)
	}
	return true, fmt.Sprintf("temp dir writable (%s)", dir)
}

func checkCompression(cfg *config.Config) (bool, string) {
	var raw string
	if cfg != nil {
		raw = cfg.Compression
	}
	method, err := archive.ParseCompressionMethod(raw)
	if err != nil {
		return false, err.Error()
	}
	return true, fmt.Sprintf("%s (%s)", method, archive.CacheFileName(method))
}
