package config

import (
	"errors"
	"fmt"

	"AltCache/internal/archive"
	"AltCache/internal/objstore"
)

var (
	ErrInvalidBackend     = errors.New("invalid backend: must be exactly 'minio' or 's3'")
	ErrInvalidCompression = errors.New("invalid compression: must be gzip, zstd-without-long, zstd or auto")
)

func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.Store != nil {
		cfg.Store.Prefix = NormalizePrefix(cfg.Store.Prefix)
		if cfg.Store.Port < 0 || cfg.Store.Port > 65535 {
			return fmt.Errorf("store.port out of range: %d", cfg.Store.Port)
		}
	}
	if cfg.ListTimeout < 0 {
		return fmt.Errorf("list_timeout must not be negative: %s", cfg.ListTimeout)
	}
	if _, err := archive.ParseCompressionMethod(cfg.Compression); err != nil {
		return fmt.Errorf("%w: got %q", ErrInvalidCompression, cfg.Compression)
	}
	switch cfg.Backend {
	case objstore.BackendMinio, objstore.BackendS3:
		return nil
	case "":
		return fmt.Errorf("%w (backend is required)", ErrInvalidBackend)
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidBackend, cfg.Backend)
	}
}
