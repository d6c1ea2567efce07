// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/transcript-refiner/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintRunHeader outputs the run parameters before processing starts.
func (p *Printer) PrintRunHeader(input string, units int, provider, model, contentMode string) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Input:     %s\n", input))
	sb.WriteString(fmt.Sprintf("Units:     %d\n", units))
	sb.WriteString(fmt.Sprintf("Provider:  %s (%s)\n", provider, model))
	sb.WriteString(fmt.Sprintf("Mode:      %s", contentMode))
	p.printBox("TRANSCRIPT RUN", sb.String())
}

// PrintUnitProgress outputs a one-line progress note for a processed unit.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintUnitProgress(index, total, attempts, removedChars int, similarity float64) {
	fmt.Fprintf(p.out, "unit %d/%d: similarity %.2f", index+1, total, similarity)
	if attempts > 1 {
		fmt.Fprintf(p.out, ", %d attempts", attempts)
	}
	if removedChars > 0 {
		fmt.Fprintf(p.out, ", deduplicated %d chars", removedChars)
	}
	fmt.Fprintln(p.out)
}

// PrintUnitSkipped notes a unit excluded by subset selection.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintUnitSkipped(index, total int) {
	fmt.Fprintf(p.out, "unit %d/%d: skipped (not selected)\n", index+1, total)
}

// PrintTermTable outputs the accumulated term normalizations.
func (p *Printer) PrintTermTable(table *types.TermTable) {
	if table == nil || table.Len() == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Normalized terms: %d\n\n", table.Len()))

	canonicals := table.Canonicals()
	count := min(len(canonicals), maxItemsToShow)
	for i := 0; i < count; i++ {
		entry, _ := table.Entry(canonicals[i])
		sb.WriteString(fmt.Sprintf("• %s\n", entry.Canonical))
		if len(entry.Variants) > 0 {
			variants := strings.Join(entry.Variants, ", ")
			if len(variants) > 40 {
				variants = variants[:37] + "..."
			}
			sb.WriteString(fmt.Sprintf("  [%s]\n", variants))
		}
	}
	if len(canonicals) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more terms", len(canonicals)-maxItemsToShow))
	}

	p.printBox("TERM TABLE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintQCSummary outputs aggregate quality numbers for the run.
func (p *Printer) PrintQCSummary(records []types.QCRecord) {
	if len(records) == 0 {
		return
	}

	var minSim, maxSim, sum float64
	minSim = 1
	for _, r := range records {
		sum += r.SimilarityScore
		if r.SimilarityScore < minSim {
			minSim = r.SimilarityScore
		}
		if r.SimilarityScore > maxSim {
			maxSim = r.SimilarityScore
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Units processed:  %d\n", len(records)))
	sb.WriteString(fmt.Sprintf("Similarity avg:   %.3f\n", sum/float64(len(records))))
	sb.WriteString(fmt.Sprintf("Similarity range: %.3f – %.3f", minSim, maxSim))
	p.printBox("QUALITY CONTROL", sb.String())
}

// PrintWarning outputs a non-fatal problem.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintWarning(format string, args ...any) {
	fmt.Fprintf(p.out, "⚠ "+format+"\n", args...)
}
