package model

// AnalysisConfig represents configuration for one manuscript analysis run
type AnalysisConfig struct {
	// Generative extraction parameters
	MinConfidence   float64 `json:"min_confidence"`    // threshold for accepting extracted instances
	MaxChapterChars int     `json:"max_chapter_chars"` // chapter text sent to the backend is truncated to this

	// Evidence passage lookup parameters
	TopK                int     `json:"top_k"`
	SimilarityThreshold float64 `json:"similarity_threshold,omitempty"`

	// Fail-safe defaults for temporal queries
	Policy FailSafePolicy `json:"policy"`
}

// DefaultAnalysisConfig returns a sensible default configuration
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		MinConfidence:       0.6,
		MaxChapterChars:     3000,
		TopK:                5,
		SimilarityThreshold: 0.7,
		Policy:              DefaultFailSafePolicy(),
	}
}
