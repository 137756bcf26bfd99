package doctor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"AltCache/internal/config"
	"AltCache/internal/objstore"
)

type fakeStore struct {
	objstore.Store
	exists bool
	err    error
}

func (f fakeStore) BucketExists(ctx context.Context, bucket string) (bool, error) {
	return f.exists, f.err
}

func opener(store objstore.Store, bucket string, err error) Opener {
	return func(ctx context.Context) (objstore.Store, string, error) {
		return store, bucket, err
	}
}

func byName(results []CheckResult) map[string]CheckResult {
	m := make(map[string]CheckResult, len(results))
	for _, r := range results {
		m[r.Name] = r
	}
	return m
}

func TestRun_AllOK(t *testing.T) {
	cfg := &config.Config{Backend: "minio", Compression: "gzip"}
	results := byName(Run(context.Background(), cfg, opener(fakeStore{exists: true}, "cache", nil), t.TempDir()))
	for _, name := range []string{"config", "store", "temp dir", "compression"} {
		r, ok := results[name]
		if !ok {
			t.Fatalf("missing check %q", name)
		}
		if !r.OK {
			t.Errorf("%s failed: %s", name, r.Detail)
		}
	}
	if !strings.Contains(results["compression"].Detail, "cache.tgz") {
		t.Errorf("compression detail = %q", results["compression"].Detail)
	}
}

func TestRun_StoreFailures(t *testing.T) {
	tests := []struct {
		name string
		open Opener
		want string
	}{
		{"open error", opener(nil, "", errors.New("bad port")), "store init failed"},
		{"no bucket", opener(fakeStore{exists: true}, "", nil), "bucket is not set"},
		{"missing bucket", opener(fakeStore{}, "cache", nil), "does not exist"},
		{"head error", opener(fakeStore{err: errors.New("timeout")}, "cache", nil), "bucket check failed"},
		{"nil opener", nil, "not configured"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := byName(Run(context.Background(), &config.Config{}, tt.open, t.TempDir()))["store"]
			if r.OK || !strings.Contains(r.Detail, tt.want) {
				t.Errorf("store = %+v, want failure containing %q", r, tt.want)
			}
		})
	}
}

func TestRun_BadCompression(t *testing.T) {
	r := byName(Run(context.Background(), &config.Config{Compression: "lz4"}, nil, t.TempDir()))["compression"]
	if r.OK {
		t.Errorf("compression = %+v, want failure", r)
	}
}
