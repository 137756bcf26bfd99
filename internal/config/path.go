package config

import (
	"os"
)

const DefaultConfigName = "altcache.yaml"

const EnvConfigPath = "ALTCACHE_CONFIG"

// ResolveConfigPath returns the config file to read and whether it was asked for
// explicitly. Only an explicitly requested file is required to exist.
func ResolveConfigPath(flagPath string) (string, bool) {
	if flagPath != "" {
		return flagPath, true
	}
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, true
	}
	return DefaultConfigName, false
}
