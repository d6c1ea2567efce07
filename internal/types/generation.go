package types

// GenerationRequest is the ephemeral per-call input handed to a generation
// backend through the provider adapter.
type GenerationRequest struct {
	SystemPrompt string
	UserPrompt   string

	// Parameters are determinism controls (temperature, top_p and friends)
	// passed through opaquely; the adapter does not interpret them.
	Parameters GenerationParams

	// Label identifies the call in logs (e.g. "unit 3/10").
	Label string
}

// GenerationParams carries sampling controls for a single call. Nil fields
// mean "use the backend's default".
type GenerationParams struct {
	Model       string
	Temperature *float32
	TopP        *float32
}

// GenerationResponse is the ephemeral per-call output: the generated body
// plus whatever single-line annotation tags trailed it.
type GenerationResponse struct {
	Text string
}

// ProcessedUnit is the per-unit result consumed by the stitcher and QC
// collector. It is created once per unit and discarded after assembly.
type ProcessedUnit struct {
	Unit        Unit
	CleanedText string
	NewTerms    []TermEntry
	QC          QCRecord
}
