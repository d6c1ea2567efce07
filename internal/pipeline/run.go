// Package pipeline provides the high-level orchestration for transcript refinement.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/transcript-refiner/internal/annotations"
	"github.com/jonathan/transcript-refiner/internal/carryover"
	"github.com/jonathan/transcript-refiner/internal/chunking"
	"github.com/jonathan/transcript-refiner/internal/config"
	"github.com/jonathan/transcript-refiner/internal/db"
	"github.com/jonathan/transcript-refiner/internal/llm"
	"github.com/jonathan/transcript-refiner/internal/observability"
	"github.com/jonathan/transcript-refiner/internal/prompts"
	"github.com/jonathan/transcript-refiner/internal/qc"
	"github.com/jonathan/transcript-refiner/internal/reader"
	"github.com/jonathan/transcript-refiner/internal/stitching"
	"github.com/jonathan/transcript-refiner/internal/terms"
	"github.com/jonathan/transcript-refiner/internal/timecodes"
	"github.com/jonathan/transcript-refiner/internal/types"
)

// ProgressEvent represents a progress update during a run
type ProgressEvent struct {
	State     State  `json:"state"`
	UnitIndex int    `json:"unit_index"`
	Message   string `json:"message,omitempty"`
}

// ProgressCallback is called on every state transition
type ProgressCallback func(event ProgressEvent)

// RunOptions holds configuration for one refinement run
type RunOptions struct {
	InputPath string
	Config    config.Config
	APIKey    string
	Verbose   bool

	// Client overrides the backend built from Config. Used in tests.
	Client llm.Client

	OnProgress ProgressCallback
}

// RunResult is what a run produced, including partial output when the run
// failed mid-way.
type RunResult struct {
	RunID    uuid.UUID
	State    State
	Document string
	Summary  string
	Units    []types.ProcessedUnit
	Terms    *types.TermTable
	QC       []types.QCRecord

	// FailedUnit is the 0-based index of the unit whose provider call gave
	// up, or -1. Everything stitched before it is intact in Document.
	FailedUnit int
	// LastStitched is the 0-based index of the last unit merged into
	// Document, or -1 when nothing was.
	LastStitched int
	// RetryWaits counts backoff sleeps across the whole run.
	RetryWaits int
}

// Run executes the refinement pipeline over one transcript file. Units are
// processed strictly in order; the provider is never called for two units
// concurrently within a run.
func Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	cfg := opts.Config
	printer := observability.NewPrinter(os.Stdout)
	result := &RunResult{State: StateInit, FailedUnit: -1, LastStitched: -1}

	emit := func(state State, unit int, msg string) {
		result.State = state
		if opts.OnProgress != nil {
			opts.OnProgress(ProgressEvent{State: state, UnitIndex: unit, Message: msg})
		}
	}

	source, err := reader.ReadFile(opts.InputPath, reader.Format(cfg.InputFormat))
	if err != nil {
		emit(StateFailed, -1, err.Error())
		return result, fmt.Errorf("failed to read transcript: %w", err)
	}

	units, err := chunking.Split(source, cfg.ChunkChars)
	if err != nil {
		emit(StateFailed, -1, err.Error())
		return result, fmt.Errorf("chunking failed: %w", err)
	}
	if len(units) == 0 {
		emit(StateDone, -1, "empty transcript")
		result.Terms = types.NewTermTable()
		return result, nil
	}
	emit(StateChunked, -1, fmt.Sprintf("%d units", len(units)))

	selected, err := selectUnits(cfg.OnlyUnits, len(units))
	if err != nil {
		emit(StateFailed, -1, err.Error())
		return result, err
	}

	client := opts.Client
	if client == nil {
		client, err = llm.NewClient(ctx, &llm.Config{
			Provider:    llm.Provider(cfg.Provider),
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			TopP:        cfg.TopP,
			BaseURL:     cfg.BaseURL,
		}, opts.APIKey)
		if err != nil {
			emit(StateFailed, -1, err.Error())
			return result, err
		}
		defer client.Close()
	}

	if opts.Verbose {
		printer.PrintRunHeader(opts.InputPath, len(units), cfg.Provider, cfg.Model, cfg.ContentMode)
	}

	// Database persistence is best-effort: a missing database never stops a run.
	var database *db.DB
	if cfg.DatabaseURL != "" {
		database, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			printer.PrintWarning("failed to connect to database: %v", err)
			printer.PrintWarning("continuing without persistence")
			database = nil
		} else {
			defer database.Close()
			result.RunID, err = database.CreateRun(ctx, opts.InputPath, cfg.Provider, cfg.Model, len(units))
			if err != nil {
				printer.PrintWarning("failed to create database run: %v", err)
				database = nil
			}
		}
	}

	systemPrompt, err := prompts.SystemPrompt(prompts.ContentMode(cfg.ContentMode))
	if err != nil {
		emit(StateFailed, -1, err.Error())
		return result, err
	}

	aggregator := terms.NewAggregator(cfg.Glossary)
	assembler := stitching.NewAssembler(cfg.DedupWindow(), cfg.DedupMinMatchFraction)
	assigner := timecodes.NewAssigner(timecodeMode(&cfg, source))
	collector := qc.NewCollector()
	policy := llm.RetryPolicy{
		Attempts:  cfg.Retries,
		Pause:     secondsToDuration(cfg.RetryPauseSeconds),
		InterCall: secondsToDuration(cfg.InterCallDelay),
	}

	// snapshot preserves everything assembled so far on the result, so a
	// fatal mid-run failure still hands back the stitched document, the
	// term table, and the QC records for the units that completed.
	snapshot := func() {
		result.Document = assembler.String()
		result.Terms = aggregator.Table()
		result.QC = collector.Records()
	}

	var prevRaw, prevCleaned string
	called := false
	for i, unit := range units {
		if !selected[i] {
			if opts.Verbose {
				printer.PrintUnitSkipped(i, len(units))
			}
			// A skipped unit still feeds forward: the next prompt gets its
			// original text as context and no terms from it.
			prevRaw, prevCleaned = unit.Text, ""
			continue
		}

		slice := carryover.Derive(prevRaw, prevCleaned, contextMode(cfg.ContextSource), cfg.OverlapChars)
		contextMsg := ""
		if slice.FellBackToRaw && slice.Text != "" {
			contextMsg = "context fell back to raw source text"
			printer.PrintWarning("unit %d: %s", i+1, contextMsg)
		}
		emit(StateBuildingContext, i, contextMsg)

		userPrompt, perr := prompts.UserPrompt(prompts.UnitInput{
			Chunk:      unit.Text,
			Context:    slice.Text,
			TermHints:  aggregator.Hints(),
			Glossary:   strings.Join(cfg.Glossary, ", "),
			Parasites:  cfg.ParasitesForLanguage(),
			AsideStyle: cfg.AsideStyle,
		})
		if perr != nil {
			snapshot()
			emit(StateFailed, i, perr.Error())
			return result, perr
		}

		emit(StateCallingProvider, i, "")
		if called {
			if perr := llm.PaceCalls(ctx, policy); perr != nil {
				snapshot()
				emit(StateFailed, i, perr.Error())
				return result, perr
			}
		}
		called = true
		cleaned, stats, gerr := llm.GenerateWithRetry(ctx, client, types.GenerationRequest{
			SystemPrompt: systemPrompt,
			UserPrompt:   userPrompt,
			Parameters: types.GenerationParams{
				Model:       cfg.Model,
				Temperature: cfg.Temperature,
				TopP:        cfg.TopP,
			},
			Label: fmt.Sprintf("unit %d", i+1),
		}, policy)
		result.RetryWaits += stats.Waits
		if gerr != nil {
			result.FailedUnit = i
			snapshot()
			emit(StateFailed, i, gerr.Error())
			finishRun(ctx, database, result, "failed")
			return result, fmt.Errorf("unit %d/%d: %w", i+1, len(units), gerr)
		}

		emit(StateExtractingTerms, i, "")
		tags := annotations.Parse(cleaned)
		newTerms, terr := aggregator.Ingest(i, tags)
		if terr != nil {
			printer.PrintWarning("unit %d: unparseable term annotation ignored: %v", i+1, terr)
		}
		cleaned = terms.RewriteMergedComments(cleaned, newTerms)
		if cfg.SuppressEditComments {
			cleaned = annotations.Strip(cleaned)
		}

		emit(StateAssigningTimecodes, i, "")
		anchor := unit.AnchorTimestamp

		emit(StateStitching, i, "")
		stitch := assembler.Append(cleaned, func(s string) string {
			return assigner.Apply(s, anchor)
		})
		if !stitch.Matched {
			printer.PrintWarning("unit %d: no confident boundary overlap found", i+1)
		}
		result.LastStitched = i

		emit(StateRecordingQC, i, "")
		record := collector.Record(unit, cleaned, unit.AnchorTimestamp, nextAnchor(units, i))
		result.Units = append(result.Units, types.ProcessedUnit{
			Unit:        unit,
			CleanedText: cleaned,
			NewTerms:    newTerms,
			QC:          record,
		})

		if opts.Verbose {
			printer.PrintUnitProgress(i, len(units), stats.Attempts, stitch.RemovedChars, record.SimilarityScore)
		}
		if database != nil {
			if serr := database.SaveTextArtifact(ctx, result.RunID, db.UnitStep(i), db.CategoryUnit, cleaned); serr != nil {
				printer.PrintWarning("failed to save unit artifact: %v", serr)
			}
		}

		prevRaw, prevCleaned = unit.Text, cleaned
	}

	snapshot()
	emit(StateAggregated, -1, "")

	if cfg.AppendSummary && result.Document != "" {
		emit(StateSummarizing, -1, "")
		summary, serr := summarize(ctx, client, result.Document, policy)
		if serr != nil {
			// The document is complete without it; a failed summary is a
			// warning, not a failed run.
			printer.PrintWarning("summary generation failed: %v", serr)
		} else {
			result.Summary = summary
			result.Document += "\n\n" + cfg.SummaryHeading + "\n\n" + summary
		}
	}

	if opts.Verbose {
		printer.PrintTermTable(result.Terms)
		printer.PrintQCSummary(result.QC)
	}
	if database != nil {
		saveFinalArtifacts(ctx, database, result, printer)
	}
	finishRun(ctx, database, result, "completed")

	emit(StateDone, -1, "")
	return result, nil
}

// selectUnits resolves the 1-based subset expression against the actual
// unit count. An empty expression selects everything.
func selectUnits(expr string, total int) (map[int]bool, error) {
	selected := make(map[int]bool, total)
	if expr == "" {
		for i := 0; i < total; i++ {
			selected[i] = true
		}
		return selected, nil
	}
	indexes, err := config.ParseUnitSelection(expr)
	if err != nil {
		return nil, err
	}
	for _, idx := range indexes {
		if idx > total {
			return nil, fmt.Errorf("unit %d selected but transcript has only %d units", idx, total)
		}
		selected[idx-1] = true
	}
	return selected, nil
}

// contextMode maps the configured context source to the carryover mode.
// Unset inherits the default of carrying cleaned output.
func contextMode(source string) types.ContextSourceMode {
	switch source {
	case "raw":
		return types.ContextFromRaw
	case "none":
		return types.ContextNone
	default:
		return types.ContextFromCleaned
	}
}

func timecodeMode(cfg *config.Config, source *reader.Source) timecodes.Mode {
	if !cfg.TimecodesEnabled() || !source.HasTimestamps() {
		return timecodes.ModeOff
	}
	switch cfg.TimecodeMode {
	case "provider":
		return timecodes.ModeProviderAssigned
	case "off":
		return timecodes.ModeOff
	default:
		return timecodes.ModeChunkAnchored
	}
}

func nextAnchor(units []types.Unit, i int) *float64 {
	for j := i + 1; j < len(units); j++ {
		if units[j].HasTimestamp() {
			return units[j].AnchorTimestamp
		}
	}
	return nil
}

func summarize(ctx context.Context, client llm.Client, document string, policy llm.RetryPolicy) (string, error) {
	system, user, err := prompts.SummaryPrompts(document)
	if err != nil {
		return "", err
	}
	text, _, err := llm.GenerateWithRetry(ctx, client, types.GenerationRequest{
		SystemPrompt: system,
		UserPrompt:   user,
		Label:        "summary",
	}, policy)
	return text, err
}

func saveFinalArtifacts(ctx context.Context, database *db.DB, result *RunResult, printer *observability.Printer) {
	if err := database.SaveTextArtifact(ctx, result.RunID, db.StepDocument, db.CategoryOutput, result.Document); err != nil {
		printer.PrintWarning("failed to save document artifact: %v", err)
	}
	if result.Summary != "" {
		if err := database.SaveTextArtifact(ctx, result.RunID, db.StepSummary, db.CategoryOutput, result.Summary); err != nil {
			printer.PrintWarning("failed to save summary artifact: %v", err)
		}
	}
	if err := database.SaveArtifact(ctx, result.RunID, db.StepTermTable, db.CategoryAnalysis, result.Terms.Canonicals()); err != nil {
		printer.PrintWarning("failed to save term table artifact: %v", err)
	}
	if err := database.SaveArtifact(ctx, result.RunID, db.StepQCRecords, db.CategoryAnalysis, result.QC); err != nil {
		printer.PrintWarning("failed to save QC artifact: %v", err)
	}
}

func finishRun(ctx context.Context, database *db.DB, result *RunResult, status string) {
	if database == nil || result.RunID == uuid.Nil {
		return
	}
	_ = database.CompleteRun(ctx, result.RunID, status, result.LastStitched+1)
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
