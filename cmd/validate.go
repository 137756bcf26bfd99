package cmd

import (
	"github.com/spf13/cobra"

	"AltCache/internal/cache"
)

var validateKeys []string

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringArrayVar(&validateKeys, "key", nil, "Cache key to check, primary first (repeatable)")
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file and cache keys",
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	if _, err := loadApp(cmd, false); err != nil {
		return err
	}
	if len(validateKeys) > 0 {
		if err := cache.ValidateKeySet(validateKeys); err != nil {
			return err
		}
	}
	cmd.Println("OK")
	return nil
}
