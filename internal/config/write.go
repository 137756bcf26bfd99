package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"AltCache/internal/objstore"
)

func Write(cfg *Config, path string) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config dir %s: %w", dir, err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// Starter returns the configuration written by `altcache init`.
func Starter(bucket, endpoint string) *Config {
	useSSL := true
	return &Config{
		Backend:     objstore.BackendMinio,
		Compression: "zstd",
		Store: &StoreConfig{
			Endpoint: endpoint,
			Port:     DefaultPort,
			Bucket:   bucket,
			UseSSL:   &useSSL,
		},
	}
}
