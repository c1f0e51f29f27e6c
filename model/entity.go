package model

import (
	"strings"
	"time"
)

// Entity represents a named entity (person, place, concept, etc.)
type Entity struct {
	ID         int64     `json:"id"`
	DocumentID int64     `json:"document_id"`
	Name       string    `json:"name"`
	Type       string    `json:"entity_type"`
	Metadata   Metadata  `json:"metadata,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// EntityNameIndex resolves known entity names (case-insensitive) to entity ids.
// It is the boundary the extraction tier uses: names not present here are never
// turned into new entities by generative extraction.
type EntityNameIndex map[string]int64

// NewEntityNameIndex builds a lowercase name index from entities
func NewEntityNameIndex(entities []*Entity) EntityNameIndex {
	index := make(EntityNameIndex, len(entities))
	for _, entity := range entities {
		index[normalizeName(entity.Name)] = entity.ID
	}
	return index
}

// Resolve returns the id for a name, matching case-insensitively
func (idx EntityNameIndex) Resolve(name string) (int64, bool) {
	id, ok := idx[normalizeName(name)]
	return id, ok
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
