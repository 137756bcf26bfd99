package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestUnmarshal_BackendOnly(t *testing.T) {
	v := viper.New()
	v.Set("backend", "s3")
	cfg, err := Unmarshal(v)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if cfg.Backend != "s3" {
		t.Errorf("backend = %q, want s3", cfg.Backend)
	}
	if cfg.Store != nil {
		t.Errorf("store = %+v, want nil", cfg.Store)
	}
}

func TestUnmarshal_StoreSection(t *testing.T) {
	v := viper.New()
	v.Set("backend", "minio")
	v.Set("compression", "gzip")
	v.Set("list_timeout", "3s")
	v.Set("store.endpoint", "minio.internal")
	v.Set("store.port", 9100)
	v.Set("store.bucket", "ci-cache")
	v.Set("store.prefix", "linux/amd64")
	v.Set("store.use_ssl", false)
	cfg, err := Unmarshal(v)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if cfg.Store == nil {
		t.Fatal("Store should be set")
	}
	if cfg.Store.Endpoint != "minio.internal" {
		t.Errorf("store.endpoint = %q", cfg.Store.Endpoint)
	}
	if cfg.Store.Port != 9100 {
		t.Errorf("store.port = %d", cfg.Store.Port)
	}
	if cfg.Store.Bucket != "ci-cache" {
		t.Errorf("store.bucket = %q", cfg.Store.Bucket)
	}
	if cfg.Store.UseSSL == nil || *cfg.Store.UseSSL {
		t.Errorf("store.use_ssl = %v, want explicit false", cfg.Store.UseSSL)
	}
	if cfg.Compression != "gzip" {
		t.Errorf("compression = %q", cfg.Compression)
	}
	if cfg.ListTimeout != 3*time.Second {
		t.Errorf("list_timeout = %s, want 3s", cfg.ListTimeout)
	}
}

func TestEffectiveListTimeout(t *testing.T) {
	var nilCfg *Config
	if got := nilCfg.EffectiveListTimeout(); got != DefaultListTimeout {
		t.Errorf("nil config timeout = %s, want %s", got, DefaultListTimeout)
	}
	cfg := &Config{ListTimeout: 250 * time.Millisecond}
	if got := cfg.EffectiveListTimeout(); got != 250*time.Millisecond {
		t.Errorf("timeout = %s, want 250ms", got)
	}
}

func TestWrite_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "altcache.yaml")

	cfg := Starter("ci-cache", "minio.internal")
	cfg.Store.AccessKey = "key"
	cfg.Store.SecretKey = "secret"
	cfg.Store.Prefix = "linux"
	if err := Write(cfg, path); err != nil {
		t.Fatalf("Write: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("mode = %s, want 0600", info.Mode().Perm())
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig: %v", err)
	}
	loaded, err := Unmarshal(v)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if loaded.Backend != cfg.Backend {
		t.Errorf("backend = %q, want %q", loaded.Backend, cfg.Backend)
	}
	if loaded.Store == nil || loaded.Store.Bucket != "ci-cache" {
		t.Fatalf("store = %+v", loaded.Store)
	}
	if loaded.Store.AccessKey != "key" || loaded.Store.SecretKey != "secret" {
		t.Errorf("credentials not round-tripped: %+v", loaded.Store)
	}
	if loaded.Store.Port != DefaultPort {
		t.Errorf("store.port = %d, want %d", loaded.Store.Port, DefaultPort)
	}
}

func TestWrite_NilConfig(t *testing.T) {
	if err := Write(nil, filepath.Join(t.TempDir(), "x.yaml")); err == nil {
		t.Fatal("Write(nil) should return error")
	}
}
