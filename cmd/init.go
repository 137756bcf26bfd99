package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"AltCache/internal/config"
)

var (
	initBucket   string
	initEndpoint string
	initForce    bool
)

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVar(&initBucket, "bucket", "", "Bucket holding cache objects")
	initCmd.Flags().StringVar(&initEndpoint, "endpoint", "", "Object store endpoint (host or host:port)")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration file",
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	path, _ := config.ResolveConfigPath(configPath)
	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
	}
	if err := config.Write(config.Starter(initBucket, initEndpoint), path); err != nil {
		return err
	}
	cmd.Printf("Wrote %s\n", path)
	return nil
}
