package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"AltCache/internal/doctor"
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose config, store connectivity, temp dir, and compression",
	RunE:  runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd, true)
	if err != nil {
		cmd.Printf("Config: ERROR: %v\n", err)
		return err
	}

	results := doctor.Run(context.Background(), a.cfg, a.openStore, a.tempDir())
	allOK := true
	for _, r := range results {
		status := "OK"
		if !r.OK {
			status = "ERROR"
			allOK = false
		}
		cmd.Printf("%-12s %s: %s\n", r.Name, status, r.Detail)
	}
	if !allOK {
		return fmt.Errorf("one or more checks failed; see output above")
	}
	return nil
}
