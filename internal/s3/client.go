package s3

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"AltCache/internal/config"
	"AltCache/internal/objstore"
)

const (
	MinPartSizeMB    = 5
	MinPartSizeBytes = MinPartSizeMB * 1024 * 1024
)

const defaultRegion = "us-east-1"

type Client struct {
	client   *s3.Client
	prefix   string
	partSize int64
	logger   *slog.Logger
}

var _ objstore.Store = (*Client)(nil)

func New(ctx context.Context, opts config.StoreOptions, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	region := opts.Region
	if region == "" {
		region = defaultRegion
	}
	endpointURL := opts.URL()

	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL:               endpointURL,
			SigningRegion:     region,
			HostnameImmutable: true,
		}, nil
	})

	var creds aws.CredentialsProvider = aws.AnonymousCredentials{}
	if opts.AccessKey != "" || opts.SecretKey != "" {
		creds = credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, opts.SessionToken)
	}

	cfg := aws.Config{
		Region:                      region,
		EndpointResolverWithOptions: resolver,
		Credentials:                 creds,
	}

	httpClient := http.DefaultClient
	if opts.InsecureSkipVerify {
		httpClient = &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		}
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
		o.HTTPClient = httpClient
	})

	partSize := int64(opts.PartSizeMB) * 1024 * 1024
	if partSize < MinPartSizeBytes {
		partSize = MinPartSizeBytes
	}

	return &Client{
		client:   client,
		prefix:   config.NormalizePrefix(opts.Prefix),
		partSize: partSize,
		logger:   logger,
	}, nil
}

// ListObjects pages through ListObjectsV2 in a goroutine and streams the results.
func (c *Client) ListObjects(ctx context.Context, bucket, prefix string) <-chan objstore.Object {
	ch := make(chan objstore.Object)
	go func() {
		defer close(ch)
		send := func(o objstore.Object) bool {
			select {
			case ch <- o:
				return true
			case <-ctx.Done():
				return false
			}
		}
		paginator := s3.NewListObjectsV2Paginator(c.client, &s3.ListObjectsV2Input{
			Bucket: aws.String(bucket),
			Prefix: aws.String(c.Key(prefix)),
		})
		for paginator.HasMorePages() {
			page, err := paginator.NextPage(ctx)
			if err != nil {
				send(objstore.Object{Err: err})
				return
			}
			for _, obj := range page.Contents {
				if obj.Key == nil {
					continue
				}
				o := objstore.Object{
					Name:         c.relative(*obj.Key),
					LastModified: aws.ToTime(obj.LastModified),
					Size:         aws.ToInt64(obj.Size),
				}
				if !send(o) {
					return
				}
			}
		}
	}()
	return ch
}

func (c *Client) GetObject(ctx context.Context, bucket, name, destPath string) error {
	out, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(c.Key(name)),
	})
	if err != nil {
		return fmt.Errorf("get object %s: %w", name, err)
	}
	defer out.Body.Close()

	f, err := os.OpenFile(destPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, out.Body); err != nil {
		_ = f.Close()
		return fmt.Errorf("download %s: %w", name, err)
	}
	return f.Close()
}

// PutObject uploads srcPath in one request, or as a multipart upload when the file is
// larger than the configured part size.
func (c *Client) PutObject(ctx context.Context, bucket, name, srcPath string, meta map[string]string) error {
	f, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}

	if info.Size() > c.partSize {
		c.logger.Debug("multipart upload", "object", name, "size", info.Size(), "part_size", c.partSize)
		return c.UploadMultipart(ctx, bucket, name, f, c.partSize, meta)
	}
	_, err = c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(c.Key(name)),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
		Metadata:      meta,
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", name, err)
	}
	return nil
}

func (c *Client) BucketExists(ctx context.Context, bucket string) (bool, error) {
	_, err := c.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CreateBucket is used by the integration tests.
func (c *Client) CreateBucket(ctx context.Context, bucket string) error {
	_, err := c.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(bucket)})
	if err != nil {
		var owned *types.BucketAlreadyOwnedByYou
		var exists *types.BucketAlreadyExists
		if errors.As(err, &owned) || errors.As(err, &exists) {
			return nil
		}
		return err
	}
	return nil
}
