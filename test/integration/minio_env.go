//go:build integration

package integration

import (
	"os"
	"strings"

	"AltCache/internal/config"
)

func getMinIOEnv() config.StoreOptions {
	endpoint := os.Getenv("ALTCACHE_MINIO_ENDPOINT")
	if endpoint == "" {
		endpoint = "http://localhost:9000"
	}
	accessKey := os.Getenv("ALTCACHE_MINIO_ACCESS_KEY")
	if accessKey == "" {
		accessKey = "minioadmin"
	}
	secretKey := os.Getenv("ALTCACHE_MINIO_SECRET_KEY")
	if secretKey == "" {
		secretKey = "minioadmin"
	}
	bucket := os.Getenv("ALTCACHE_MINIO_BUCKET")
	if bucket == "" {
		bucket = "altcache-test"
	}
	useSSL := strings.HasPrefix(endpoint, "https://")
	explicit := &config.StoreConfig{
		Endpoint:           strings.TrimSuffix(endpoint, "/"),
		AccessKey:          accessKey,
		SecretKey:          secretKey,
		Region:             "us-east-1",
		Bucket:             bucket,
		UseSSL:             &useSSL,
		InsecureSkipVerify: true,
	}
	opts, err := config.ResolveStore(explicit, nil)
	if err != nil {
		panic(err)
	}
	return opts
}
