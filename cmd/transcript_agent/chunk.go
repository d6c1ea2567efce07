package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/transcript-refiner/internal/chunking"
	"github.com/jonathan/transcript-refiner/internal/reader"
	"github.com/jonathan/transcript-refiner/internal/timecodes"
)

var chunkCommand = &cobra.Command{
	Use:   "chunk [transcript file]",
	Short: "Preview how a transcript splits into chunks",
	Long:  "Splits a transcript without calling any LLM backend and prints each chunk's index, size and starting timecode. Useful for tuning chunk size and for picking --only-units ranges.",
	Args:  cobra.ExactArgs(1),
	RunE:  chunkPreviewCmd,
}

var chunkPreviewChars int

func init() {
	chunkCommand.Flags().IntVar(&chunkPreviewChars, "chunk-chars", chunking.DefaultMaxChars, "Maximum chunk size in characters")
	rootCmd.AddCommand(chunkCommand)
}

func chunkPreviewCmd(_ *cobra.Command, args []string) error {
	source, err := reader.ReadFile(args[0], reader.InferFormat(args[0]))
	if err != nil {
		return err
	}
	units, err := chunking.Split(source, chunkPreviewChars)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "%s: %d chunks (max %d chars)\n", args[0], len(units), chunkPreviewChars)
	for _, unit := range units {
		start := "--:--:--"
		if unit.HasTimestamp() {
			start = timecodes.FormatHMS(*unit.AnchorTimestamp)
		}
		fmt.Fprintf(os.Stdout, "  %3d  %s  %6d chars  offset %d..%d\n",
			unit.Index+1, start, unit.Len(), unit.StartOffset, unit.EndOffset)
	}
	return nil
}
