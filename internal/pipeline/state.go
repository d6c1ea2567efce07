package pipeline

// State names the orchestrator's position in a run. Per-unit states repeat
// for every selected unit; the run-level states occur once.
type State string

const (
	StateInit               State = "INIT"
	StateChunked            State = "CHUNKED"
	StateBuildingContext    State = "BUILDING_CONTEXT"
	StateCallingProvider    State = "CALLING_PROVIDER"
	StateExtractingTerms    State = "EXTRACTING_TERMS"
	StateAssigningTimecodes State = "ASSIGNING_TIMECODES"
	StateStitching          State = "STITCHING"
	StateRecordingQC        State = "RECORDING_QC"
	StateAggregated         State = "AGGREGATED"
	StateSummarizing        State = "SUMMARIZING"
	StateDone               State = "DONE"
	StateFailed             State = "FAILED"
)

// Terminal reports whether the state ends a run.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}
