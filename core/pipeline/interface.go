package pipeline

import (
	"strings"

	"github.com/siherrmann/chronicle/model"
)

// SplitFunc splits a manuscript into chapter sections in discourse order
type SplitFunc func(text string) ([]ChapterSection, error)

// EmbedFunc generates an embedding vector for text
type EmbedFunc func(text string) ([]float32, error)

// EntityExtractFunc extracts named entities from text
type EntityExtractFunc func(text string) ([]*model.Entity, error)

// ChapterSection is one chapter as cut out of the manuscript, before
// embedding and persistence
type ChapterSection struct {
	Number   int
	Title    string
	Content  string
	StartPos *int
	EndPos   *int
	Metadata map[string]interface{}
}

// Pipeline combines chapter splitting, embedding and entity extraction.
// Splitter and Embedder are required, the entity extractor is optional.
type Pipeline struct {
	Splitter        SplitFunc
	Embedder        EmbedFunc
	EntityExtractor EntityExtractFunc
}

// NewPipeline creates a new processing pipeline
func NewPipeline(splitter SplitFunc, embedder EmbedFunc) *Pipeline {
	return &Pipeline{
		Splitter: splitter,
		Embedder: embedder,
	}
}

// SetEntityExtractor sets the entity extraction function
func (p *Pipeline) SetEntityExtractor(extractor EntityExtractFunc) {
	p.EntityExtractor = extractor
}

// ProcessingResult contains the embedded chapters and the entities found in
// them. Entities are deduplicated by name across chapters; the first
// occurrence wins.
type ProcessingResult struct {
	Chapters []*model.Chapter
	Entities []*model.Entity
}

// Process runs the manuscript through splitting and embedding
func (p *Pipeline) Process(text string) ([]*model.Chapter, error) {
	result, err := p.ProcessWithExtraction(text)
	if err != nil {
		return nil, err
	}
	return result.Chapters, nil
}

// ProcessWithExtraction runs the manuscript through splitting, embedding and,
// if configured, entity extraction. Extraction failures on a single chapter
// are tolerated; the chapter is still embedded and stored.
func (p *Pipeline) ProcessWithExtraction(text string) (*ProcessingResult, error) {
	sections, err := p.Splitter(text)
	if err != nil {
		return nil, err
	}

	chapters := make([]*model.Chapter, 0, len(sections))
	var allEntities []*model.Entity
	seenNames := make(map[string]bool)

	for _, section := range sections {
		embedding, err := p.Embedder(section.Content)
		if err != nil {
			return nil, err
		}

		chapters = append(chapters, &model.Chapter{
			Number:    section.Number,
			Title:     section.Title,
			Content:   section.Content,
			Embedding: embedding,
			StartPos:  section.StartPos,
			EndPos:    section.EndPos,
			Metadata:  section.Metadata,
		})

		if p.EntityExtractor == nil {
			continue
		}
		entities, err := p.EntityExtractor(section.Content)
		if err != nil {
			continue
		}
		for _, entity := range entities {
			key := strings.ToLower(strings.TrimSpace(entity.Name))
			if key == "" || seenNames[key] {
				continue
			}
			seenNames[key] = true
			allEntities = append(allEntities, entity)
		}
	}

	return &ProcessingResult{
		Chapters: chapters,
		Entities: allEntities,
	}, nil
}
