package cmd

import (
	"context"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"AltCache/internal/cache"
)

var (
	saveKey   string
	savePaths []string
	saveMeta  map[string]string
)

func init() {
	rootCmd.AddCommand(saveCmd)
	saveCmd.Flags().StringVar(&saveKey, "key", "", "Cache key (required)")
	saveCmd.Flags().StringArrayVar(&savePaths, "path", nil, "Path or glob to cache; prefix with ! to exclude (repeatable, required)")
	saveCmd.Flags().StringToStringVar(&saveMeta, "meta", nil, "Extra object metadata as key=value")
	_ = saveCmd.MarkFlagRequired("key")
}

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Archive paths and upload them under a cache key",
	RunE:  runSave,
}

func runSave(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd, false)
	if err != nil {
		return err
	}
	c, err := a.newCache()
	if err != nil {
		return err
	}
	defer a.printStats(cmd)

	res, err := c.Save(context.Background(), savePaths, saveKey, cache.SaveOptions{Metadata: saveMeta})
	if err != nil {
		return err
	}
	cmd.Printf("saved=%t\n", res.Saved)
	if res.Saved {
		cmd.Printf("object=%s\n", res.Object)
		cmd.Printf("size=%s\n", humanize.Bytes(uint64(res.Size)))
		cmd.Printf("blake3=%s\n", res.Digest)
	}
	return nil
}
