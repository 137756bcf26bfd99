package cache

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"AltCache/internal/archive"
	"AltCache/internal/metrics"
	"AltCache/internal/objstore"
)

// Entry is the object chosen for a restore and the key whose prefix matched it.
type Entry struct {
	Object objstore.Object
	Key    string
}

type Resolver struct {
	Lister  Lister
	Logger  *slog.Logger
	Metrics *metrics.LatencyTracker
}

// FindEntry returns the first object listed under primaryKey when there is one.
// Otherwise fallback keys are tried in order; under each, only objects named after
// the archive file for method count, and the most recently modified wins. The first
// fallback key with a match ends the search.
func (r *Resolver) FindEntry(ctx context.Context, store objstore.Store, bucket, primaryKey string, fallbackKeys []string, method archive.CompressionMethod) (Entry, error) {
	logger := r.logger()

	objects, err := r.list(ctx, store, bucket, primaryKey)
	if err != nil {
		return Entry{}, err
	}
	if len(objects) > 0 {
		logger.Debug("found exact match", "key", primaryKey, "object", objects[0].Name)
		return Entry{Object: objects[0], Key: primaryKey}, nil
	}

	fileName := archive.CacheFileName(method)
	for _, key := range fallbackKeys {
		objects, err := r.list(ctx, store, bucket, key)
		if err != nil {
			return Entry{}, err
		}
		matched := objects[:0]
		for _, obj := range objects {
			if strings.Contains(obj.Name, fileName) {
				matched = append(matched, obj)
			}
		}
		if len(matched) == 0 {
			logger.Debug("no match for restore key", "key", key)
			continue
		}
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].LastModified.After(matched[j].LastModified)
		})
		logger.Debug("using latest object for restore key", "key", key, "object", matched[0].Name, "candidates", len(matched))
		return Entry{Object: matched[0], Key: key}, nil
	}

	keys := append([]string{primaryKey}, fallbackKeys...)
	return Entry{}, operational("find entry", fmt.Errorf("%w for keys %s", ErrNotFound, strings.Join(keys, ", ")))
}

func (r *Resolver) list(ctx context.Context, store objstore.Store, bucket, prefix string) ([]objstore.Object, error) {
	var objects []objstore.Object
	err := r.Metrics.Time(metrics.PhaseList, func() error {
		var err error
		objects, err = r.Lister.List(ctx, store, bucket, prefix)
		return err
	})
	return objects, err
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}
