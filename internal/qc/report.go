package qc

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jonathan/transcript-refiner/internal/types"
)

// csvHeader is the column layout of the quality report.
var csvHeader = []string{
	"chunk_id", "start", "end",
	"orig_len", "cleaned_len",
	"similarity", "change_ratio",
}

// WriteCSV renders records as a quality report.
func WriteCSV(w io.Writer, records []types.QCRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write QC header: %w", err)
	}
	for _, r := range records {
		row := []string{
			strconv.Itoa(r.UnitIndex),
			formatSeconds(r.Start),
			formatSeconds(r.End),
			strconv.Itoa(r.OriginalLength),
			strconv.Itoa(r.CleanedLength),
			strconv.FormatFloat(r.SimilarityScore, 'f', 4, 64),
			strconv.FormatFloat(r.ModificationRatio, 'f', 4, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write QC row for unit %d: %w", r.UnitIndex, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the quality report to path.
func WriteCSVFile(path string, records []types.QCRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create QC report %s: %w", path, err)
	}
	if err := WriteCSV(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func formatSeconds(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 3, 64)
}
