package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"AltCache/internal/cache"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list [key-prefix]",
	Short: "List cache objects under a key prefix",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd, false)
	if err != nil {
		return err
	}
	var prefix string
	if len(args) == 1 {
		prefix = args[0]
	}

	ctx := context.Background()
	store, bucket, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if bucket == "" {
		return fmt.Errorf("bucket is not configured")
	}
	objects, err := cache.Lister{Timeout: a.cfg.EffectiveListTimeout()}.List(ctx, store, bucket, prefix)
	if err != nil {
		return err
	}
	if len(objects) == 0 {
		cmd.Println("No cache objects found")
		return nil
	}
	for _, obj := range objects {
		modified := "-"
		if !obj.LastModified.IsZero() {
			modified = obj.LastModified.UTC().Format(time.RFC3339)
		}
		cmd.Printf("%-60s %10s  %s\n", obj.Name, humanize.Bytes(uint64(obj.Size)), modified)
	}
	return nil
}
