package types

// QCRecord captures the per-unit transformation metrics emitted once per
// processed unit, independent of the success or failure of later units.
type QCRecord struct {
	UnitIndex      int      `json:"unit_index"`
	Start          *float64 `json:"start,omitempty"`
	End            *float64 `json:"end,omitempty"`
	OriginalLength int      `json:"original_length"`
	CleanedLength  int      `json:"cleaned_length"`

	// SimilarityScore is the sequence-alignment ratio of unchanged
	// characters between source and cleaned text, in [0,1].
	SimilarityScore float64 `json:"similarity_score"`
	// ModificationRatio is 1 - SimilarityScore.
	ModificationRatio float64 `json:"modification_ratio"`
}
