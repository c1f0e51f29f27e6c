package model

import "time"

// TimelineEvent is one event produced by the upstream timeline builder.
// Events carry both discourse position (reading order) and story time; the
// TemporalMap is built from them, keeping the highest-confidence event per
// chapter.
type TimelineEvent struct {
	ID                int64         `json:"id"`
	DocumentID        int64         `json:"document_id"`
	Description       string        `json:"description"`
	Chapter           int           `json:"chapter"`
	Paragraph         int           `json:"paragraph,omitempty"`
	DiscoursePosition int           `json:"discourse_position"`
	Time              StoryTime     `json:"time"`
	NarrativeOrder    NarrativeType `json:"narrative_order"`
	RelativeTo        *int64        `json:"relative_to,omitempty"` // reference event for relative offsets
	EntityIDs         []int64       `json:"entity_ids,omitempty"`
	Confidence        float64       `json:"confidence"`
	CreatedAt         time.Time     `json:"created_at"`
}
