package model

import (
	"time"

	"github.com/google/uuid"
)

// Chapter is one segmented chapter of a manuscript
type Chapter struct {
	ID          int64     `json:"id"`
	DocumentID  int64     `json:"document_id"`
	DocumentRID uuid.UUID `json:"document_rid"`
	Number      int       `json:"number"` // chapter number in discourse order
	Title       string    `json:"title,omitempty"`
	Content     string    `json:"content"`
	Embedding   []float32 `json:"embedding,omitempty"`
	StartPos    *int      `json:"start_pos,omitempty"`
	EndPos      *int      `json:"end_pos,omitempty"`
	Metadata    Metadata  `json:"metadata,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	// Results
	Similarity float64 `json:"similarity,omitempty"`
}
