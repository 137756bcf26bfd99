package cmd

import (
	"github.com/spf13/cobra"
)

var (
	configPath string
	debugFlag  bool
	statsFlag  bool
)

var rootCmd = &cobra.Command{
	Use:   "altcache",
	Short: "Save and restore build caches in S3-compatible storage",
	Long: "altcache packs cache paths into a compressed archive, stores it in an S3-compatible bucket under a key, " +
		"and restores it by exact key or by the most recent entry under an ordered list of restore keys.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $ALTCACHE_CONFIG or ./altcache.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging and archive listings")
	rootCmd.PersistentFlags().BoolVar(&statsFlag, "stats", false, "Print per-phase latency statistics")
}

func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}
