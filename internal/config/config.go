package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultListTimeout = 10 * time.Second
	DefaultPartSizeMB  = 5
)

type Config struct {
	Backend     string        `mapstructure:"backend" yaml:"backend"`
	Compression string        `mapstructure:"compression" yaml:"compression,omitempty"`
	Workspace   string        `mapstructure:"workspace" yaml:"workspace,omitempty"`
	TempDir     string        `mapstructure:"temp_dir" yaml:"temp_dir,omitempty"`
	ListTimeout time.Duration `mapstructure:"list_timeout" yaml:"list_timeout,omitempty"`
	Debug       bool          `mapstructure:"debug" yaml:"debug,omitempty"`
	Store       *StoreConfig  `mapstructure:"store" yaml:"store,omitempty"`
}

// StoreConfig holds the explicit connection options. Zero values fall through to the
// environment, see ResolveStore.
type StoreConfig struct {
	Endpoint           string `mapstructure:"endpoint" yaml:"endpoint,omitempty"`
	Port               int    `mapstructure:"port" yaml:"port,omitempty"`
	AccessKey          string `mapstructure:"access_key" yaml:"access_key,omitempty"`
	SecretKey          string `mapstructure:"secret_key" yaml:"secret_key,omitempty"`
	SessionToken       string `mapstructure:"session_token" yaml:"session_token,omitempty"`
	Region             string `mapstructure:"region" yaml:"region,omitempty"`
	Bucket             string `mapstructure:"bucket" yaml:"bucket,omitempty"`
	Prefix             string `mapstructure:"prefix" yaml:"prefix,omitempty"`
	UseSSL             *bool  `mapstructure:"use_ssl" yaml:"use_ssl,omitempty"`
	InsecureSkipVerify bool   `mapstructure:"insecure_skip_verify" yaml:"insecure_skip_verify,omitempty"`
	PartSizeMB         int    `mapstructure:"part_size_mb" yaml:"part_size_mb,omitempty"`
}

func Unmarshal(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// EffectiveListTimeout returns the bounded wait applied to a single listing.
func (c *Config) EffectiveListTimeout() time.Duration {
	if c == nil || c.ListTimeout <= 0 {
		return DefaultListTimeout
	}
	return c.ListTimeout
}
