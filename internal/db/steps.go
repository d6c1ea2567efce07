package db

import "fmt"

// Step and category names used for stored artifacts.
const (
	CategoryUnit     = "unit"
	CategoryOutput   = "output"
	CategoryAnalysis = "analysis"

	StepDocument  = "document"
	StepSummary   = "summary"
	StepTermTable = "term_table"
	StepQCRecords = "qc_records"
)

// UnitStep returns the artifact step name for one unit's cleaned text.
func UnitStep(index int) string {
	return fmt.Sprintf("unit_%03d_cleaned", index)
}
