package model

// NarrativeType classifies how a chapter relates to the surrounding discourse
type NarrativeType string

const (
	NarrativeChronological NarrativeType = "chronological"
	NarrativeAnalepsis     NarrativeType = "analepsis" // flashback
	NarrativeProlepsis     NarrativeType = "prolepsis" // flashforward
	NarrativeParallel      NarrativeType = "parallel"
)

// TemporalSlice maps one chapter (discourse time) to its position in story time.
// There is at most one slice per chapter; re-analysis replaces a slice through
// the same chapter key.
type TemporalSlice struct {
	Chapter           int           `json:"chapter"`
	DiscoursePosition int           `json:"discourse_position"`
	Time              StoryTime     `json:"time"`
	NarrativeType     NarrativeType `json:"narrative_type"`
	IsEmbedded        bool          `json:"is_embedded,omitempty"` // flashback narrated inside another chapter
	ParentChapter     *int          `json:"parent_chapter,omitempty"`
	Confidence        float64       `json:"confidence"`
}
