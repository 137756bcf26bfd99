// Package minio is the default object store backend, built on minio-go.
package minio

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"AltCache/internal/config"
	"AltCache/internal/objstore"
)

type Client struct {
	client *minio.Client
	prefix string
	logger *slog.Logger
}

var _ objstore.Store = (*Client)(nil)

func New(opts config.StoreOptions, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	mopts := &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, opts.SessionToken),
		Secure: opts.UseSSL,
		Region: opts.Region,
	}
	if opts.InsecureSkipVerify {
		tr, err := minio.DefaultTransport(opts.UseSSL)
		if err != nil {
			return nil, fmt.Errorf("minio transport: %w", err)
		}
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		mopts.Transport = tr
	}
	client, err := minio.New(opts.HostPort(), mopts)
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return &Client{
		client: client,
		prefix: config.NormalizePrefix(opts.Prefix),
		logger: logger,
	}, nil
}

func (c *Client) key(name string) string {
	name = strings.TrimLeft(name, "/")
	if c.prefix == "" {
		return name
	}
	return c.prefix + "/" + name
}

func (c *Client) relative(key string) string {
	if c.prefix == "" {
		return key
	}
	return strings.TrimPrefix(key, c.prefix+"/")
}

// ListObjects relays minio's listing channel, translating names and stopping on cancel.
func (c *Client) ListObjects(ctx context.Context, bucket, prefix string) <-chan objstore.Object {
	ch := make(chan objstore.Object)
	src := c.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:    c.key(prefix),
		Recursive: true,
	})
	go func() {
		defer close(ch)
		for info := range src {
			o := objstore.Object{
				Name:         c.relative(info.Key),
				LastModified: info.LastModified,
				Size:         info.Size,
				Err:          info.Err,
			}
			select {
			case ch <- o:
			case <-ctx.Done():
				return
			}
			if info.Err != nil {
				return
			}
		}
	}()
	return ch
}

func (c *Client) GetObject(ctx context.Context, bucket, name, destPath string) error {
	if err := c.client.FGetObject(ctx, bucket, c.key(name), destPath, minio.GetObjectOptions{}); err != nil {
		return fmt.Errorf("get object %s: %w", name, err)
	}
	return nil
}

func (c *Client) PutObject(ctx context.Context, bucket, name, srcPath string, meta map[string]string) error {
	info, err := c.client.FPutObject(ctx, bucket, c.key(name), srcPath, minio.PutObjectOptions{
		UserMetadata: meta,
		ContentType:  "application/octet-stream",
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", name, err)
	}
	c.logger.Debug("put object", "object", info.Key, "etag", info.ETag, "size", info.Size)
	return nil
}

func (c *Client) BucketExists(ctx context.Context, bucket string) (bool, error) {
	return c.client.BucketExists(ctx, bucket)
}

// CreateBucket is used by the integration tests.
func (c *Client) CreateBucket(ctx context.Context, bucket string) error {
	exists, err := c.client.BucketExists(ctx, bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return c.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{})
}
