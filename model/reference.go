package model

// AgeReference records an entity's stated age at one point in story time.
// References are append-only; queries pick the best temporal match instead of
// collapsing references at write time.
type AgeReference struct {
	EntityID   int64     `json:"entity_id"`
	Age        int       `json:"age"`
	Chapter    int       `json:"chapter"`
	Time       StoryTime `json:"time"` // denormalized from the chapter slice for fast lookup
	Confidence float64   `json:"confidence"`
}
