package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/transcript-refiner/internal/config"
	"github.com/jonathan/transcript-refiner/internal/pipeline"
	"github.com/jonathan/transcript-refiner/internal/qc"
)

var runCommand = &cobra.Command{
	Use:   "run [transcript files...]",
	Short: "Refine one or more transcripts into Markdown documents",
	Long: `Chunks each transcript, cleans every chunk through the configured LLM backend in order, stitches the results into a single Markdown document and writes a per-chunk quality report.

Configuration can be loaded from a YAML file using --config. Command-line arguments override config file values. Multiple transcript files are processed concurrently; chunks within one transcript are always processed sequentially.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRefineCmd,
}

var (
	runConfigPath  string
	runProvider    string
	runModel       string
	runContentMode string
	runChunkChars  int
	runOverlap     int
	runOnlyUnits   string
	runFormat      string
	runOutput      string
	runQCReport    string
	runSummary     bool
	runAPIKey      string
	runVerbose     bool
	runDatabaseURL string
	runParallel    int
)

func init() {
	// Config file flag (processed first)
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.yaml file (values can be overridden by other flags)")

	runCommand.Flags().StringVarP(&runProvider, "provider", "p", "", "Generation backend: gemini|openai|stub")
	runCommand.Flags().StringVarP(&runModel, "model", "m", "", "Model name for the selected backend")
	runCommand.Flags().StringVar(&runContentMode, "content-mode", "", "Rewrite aggressiveness: normal|strict|creative")
	runCommand.Flags().IntVar(&runChunkChars, "chunk-chars", 0, "Maximum chunk size in characters")
	runCommand.Flags().IntVar(&runOverlap, "overlap-chars", 0, "Carried-forward context budget in characters")
	runCommand.Flags().StringVar(&runOnlyUnits, "only-units", "", "Process only these 1-based chunks, e.g. \"1,3-5\"")
	runCommand.Flags().StringVar(&runFormat, "format", "", "Input format: srt|txt (default: inferred from extension)")
	runCommand.Flags().StringVarP(&runOutput, "output", "o", "", "Output Markdown path (single input only; default <input>.md)")
	runCommand.Flags().StringVar(&runQCReport, "qc-report", "", "Quality report CSV path (single input only)")
	runCommand.Flags().BoolVar(&runSummary, "summary", false, "Append a generated summary section")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed progress information")
	runCommand.Flags().IntVar(&runParallel, "parallel", 2, "Maximum transcripts processed concurrently")

	// API key can be passed as a flag, or read from the backend's env var
	runCommand.Flags().StringVar(&runAPIKey, "api-key", "", "API key (optional, defaults to GEMINI_API_KEY or OPENAI_API_KEY)")

	// Database URL for run persistence
	runCommand.Flags().StringVar(&runDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(runCommand)
}

func runRefineCmd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return err
	}

	apiKey, err := resolveAPIKey(cmd, cfg.Provider)
	if err != nil {
		return err
	}

	if len(args) > 1 && (cmd.Flags().Changed("output") || cmd.Flags().Changed("qc-report")) {
		return fmt.Errorf("--output and --qc-report apply to a single transcript; with multiple inputs paths are derived from input names")
	}

	parallel := runParallel
	if parallel < 1 {
		parallel = 1
	}
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for _, input := range args {
		g.Go(func() error {
			return refineOne(gCtx, cfg, input, len(args) == 1, apiKey)
		})
	}
	return g.Wait()
}

// loadRunConfig loads the YAML config, applies CLI overrides for flags that
// were explicitly set, merges defaults and validates the result.
func loadRunConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if runConfigPath != "" {
		loaded, err := config.Load(runConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
		if runVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", runConfigPath)
		}
	}

	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("provider") {
		cfg.Provider = runProvider
	}
	if cmd.Flags().Changed("model") {
		cfg.Model = runModel
	}
	if cmd.Flags().Changed("content-mode") {
		cfg.ContentMode = runContentMode
	}
	if cmd.Flags().Changed("chunk-chars") {
		cfg.ChunkChars = runChunkChars
	}
	if cmd.Flags().Changed("overlap-chars") {
		cfg.OverlapChars = runOverlap
	}
	if cmd.Flags().Changed("only-units") {
		cfg.OnlyUnits = runOnlyUnits
	}
	if cmd.Flags().Changed("format") {
		cfg.InputFormat = runFormat
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = runOutput
	}
	if cmd.Flags().Changed("qc-report") {
		cfg.QCReport = runQCReport
	}
	if cmd.Flags().Changed("summary") {
		cfg.AppendSummary = runSummary
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = runVerbose
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = runDatabaseURL
	}

	cfg = cfg.MergeWithDefaults(config.Defaults())
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if err := cfg.LoadLists(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func resolveAPIKey(cmd *cobra.Command, provider string) (string, error) {
	if cmd.Flags().Changed("api-key") {
		return runAPIKey, nil
	}
	switch provider {
	case "gemini":
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			return key, nil
		}
		return "", fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	case "openai":
		if key := os.Getenv("OPENAI_API_KEY"); key != "" {
			return key, nil
		}
		return "", fmt.Errorf("OPENAI_API_KEY environment variable or --api-key flag is required")
	default:
		return "", nil
	}
}

// refineOne runs the pipeline for a single transcript and writes its outputs.
func refineOne(ctx context.Context, cfg config.Config, input string, single bool, apiKey string) error {
	outPath := derivedPath(input, ".md")
	if single && cfg.Output != "" {
		outPath = cfg.Output
	}
	qcPath := derivedPath(input, "_qc_report.csv")
	if single && cfg.QCReport != "" {
		qcPath = cfg.QCReport
	}

	result, err := pipeline.Run(ctx, pipeline.RunOptions{
		InputPath: input,
		Config:    cfg,
		APIKey:    apiKey,
		Verbose:   cfg.Verbose,
	})
	if err != nil {
		// Keep whatever was stitched before the failure so the run can be
		// resumed with --only-units from the failed chunk onward.
		if result != nil && result.LastStitched >= 0 {
			partial := outPath + ".partial"
			if werr := os.WriteFile(partial, []byte(result.Document), 0o644); werr == nil {
				fmt.Fprintf(os.Stderr, "%s: wrote partial document (%d chunks) to %s; resume with --only-units %d-\n",
					input, result.LastStitched+1, partial, result.FailedUnit+1)
			}
		}
		return fmt.Errorf("%s: %w", input, err)
	}

	if err := os.WriteFile(outPath, []byte(result.Document+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write output %s: %w", outPath, err)
	}
	fmt.Fprintf(os.Stdout, "%s: wrote %s (%d chunks", input, outPath, len(result.Units))
	if result.RetryWaits > 0 {
		fmt.Fprintf(os.Stdout, ", %d retries", result.RetryWaits)
	}
	fmt.Fprintln(os.Stdout, ")")

	if err := qc.WriteCSVFile(qcPath, result.QC); err != nil {
		return err
	}
	if cfg.Verbose {
		fmt.Fprintf(os.Stdout, "%s: wrote quality report %s\n", input, qcPath)
	}
	return nil
}

func derivedPath(input, suffix string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + suffix
}
