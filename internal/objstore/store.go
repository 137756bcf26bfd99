// Package objstore defines the object store surface the cache protocol depends on.
// Backends live in internal/s3 and internal/minio.
package objstore

import (
	"context"
	"time"
)

// Object is one item of a recursive listing. Name is relative to the store prefix.
// A zero LastModified means the store did not report one.
// Err is set on the item that terminates a failed listing.
type Object struct {
	Name         string
	LastModified time.Time
	Size         int64
	Err          error
}

// Store is implemented by *s3.Client and *minio.Client.
type Store interface {
	// ListObjects streams every object whose name starts with prefix. The channel is
	// closed when the listing ends; producers stop early when ctx is cancelled.
	ListObjects(ctx context.Context, bucket, prefix string) <-chan Object
	GetObject(ctx context.Context, bucket, name, destPath string) error
	PutObject(ctx context.Context, bucket, name, srcPath string, meta map[string]string) error
	BucketExists(ctx context.Context, bucket string) (bool, error)
}

const (
	BackendMinio = "minio"
	BackendS3    = "s3"
)
