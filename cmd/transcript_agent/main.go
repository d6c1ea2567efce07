// Package main provides the entry point for the transcript refinement CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "transcript_agent",
	Short: "Transcript refinement CLI",
	Long:  "transcript_agent turns long speech-to-text transcripts (SRT or timestamped text) into coherent Markdown documents using an LLM backend, with term normalization, timecoded headings, and per-chunk quality metrics.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
