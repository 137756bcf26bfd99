package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"AltCache/internal/cache"
)

var (
	restoreKey        string
	restoreKeys       []string
	restorePaths      []string
	restoreLookupOnly bool
	restoreFailOnMiss bool
)

func init() {
	rootCmd.AddCommand(restoreCmd)
	restoreCmd.Flags().StringVar(&restoreKey, "key", "", "Primary cache key (required)")
	restoreCmd.Flags().StringArrayVar(&restoreKeys, "restore-key", nil, "Fallback key prefix, tried in order (repeatable)")
	restoreCmd.Flags().StringArrayVar(&restorePaths, "path", nil, "Path or glob to restore (repeatable, required)")
	restoreCmd.Flags().BoolVar(&restoreLookupOnly, "lookup-only", false, "Resolve the key without downloading")
	restoreCmd.Flags().BoolVar(&restoreFailOnMiss, "fail-on-cache-miss", false, "Exit with an error when no cache entry is found")
	_ = restoreCmd.MarkFlagRequired("key")
}

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore a cache entry by key or restore-key prefix",
	RunE:  runRestore,
}

func runRestore(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd, false)
	if err != nil {
		return err
	}
	c, err := a.newCache()
	if err != nil {
		return err
	}
	defer a.printStats(cmd)

	matched, err := c.Restore(context.Background(), restorePaths, restoreKey, restoreKeys, cache.RestoreOptions{LookupOnly: restoreLookupOnly})
	if err != nil {
		return err
	}
	cmd.Printf("cache-hit=%t\n", matched != "" && matched == restoreKey)
	cmd.Printf("cache-matched-key=%s\n", matched)
	if matched == "" && restoreFailOnMiss {
		return fmt.Errorf("failed to restore cache entry, exiting as fail-on-cache-miss is set (input key: %s)", restoreKey)
	}
	return nil
}
