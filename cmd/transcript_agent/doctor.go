package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/transcript-refiner/internal/config"
)

var doctorCommand = &cobra.Command{
	Use:   "doctor [config.yaml]",
	Short: "Check a config file for problems",
	Long:  "Parses a YAML config file, reports unknown keys and constraint violations, and prints the effective settings after defaults are applied.",
	Args:  cobra.ExactArgs(1),
	RunE:  doctorCmd,
}

func init() {
	rootCmd.AddCommand(doctorCommand)
}

func doctorCmd(_ *cobra.Command, args []string) error {
	report, err := config.Doctor(args[0])
	if err != nil {
		return err
	}

	for _, key := range report.UnknownKeys {
		fmt.Fprintf(os.Stdout, "unknown key: %s\n", key)
	}
	for _, problem := range report.Problems {
		fmt.Fprintf(os.Stdout, "problem: %s\n", problem)
	}

	if !report.Healthy() {
		return fmt.Errorf("%s: found %d unknown key(s), %d problem(s)", args[0], len(report.UnknownKeys), len(report.Problems))
	}

	eff := report.Effective
	fmt.Fprintf(os.Stdout, "%s: OK\n", args[0])
	fmt.Fprintf(os.Stdout, "  provider:       %s (%s)\n", eff.Provider, eff.Model)
	fmt.Fprintf(os.Stdout, "  content mode:   %s\n", eff.ContentMode)
	fmt.Fprintf(os.Stdout, "  chunk chars:    %d\n", eff.ChunkChars)
	fmt.Fprintf(os.Stdout, "  overlap chars:  %d\n", eff.OverlapChars)
	fmt.Fprintf(os.Stdout, "  dedup window:   %d\n", eff.DedupWindow())
	fmt.Fprintf(os.Stdout, "  retries:        %d (pause %.0fs)\n", eff.Retries, eff.RetryPauseSeconds)
	return nil
}
