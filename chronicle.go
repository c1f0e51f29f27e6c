package chronicle

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/siherrmann/chronicle/core/anachronism"
	"github.com/siherrmann/chronicle/core/extraction"
	"github.com/siherrmann/chronicle/core/pipeline"
	"github.com/siherrmann/chronicle/core/temporal"
	"github.com/siherrmann/chronicle/database"
	"github.com/siherrmann/chronicle/helper"
	"github.com/siherrmann/chronicle/llm"
	"github.com/siherrmann/chronicle/model"
	loadSql "github.com/siherrmann/chronicle/sql"
)

// Chronicle provides a unified interface to all database handlers and the
// temporal analysis components
type Chronicle struct {
	DB        *helper.Database
	Documents *database.DocumentsDBHandler
	Chapters  *database.ChaptersDBHandler
	Entities  *database.EntitiesDBHandler
	Events    *database.EventsDBHandler
	Pipeline  *pipeline.Pipeline    // Optional manuscript processing pipeline
	Extractor *extraction.Extractor // Optional generative extraction tier
	Detector  *anachronism.Detector // Anachronism detection over manuscript text
	Config    model.AnalysisConfig
	// Logging
	log *slog.Logger
}

// ManuscriptAnalysis is the combined result of one analysis run over a
// manuscript: the consistency map built from the persisted timeline, the
// temporal instances produced by generative extraction, and the anachronism
// report over the full text.
type ManuscriptAnalysis struct {
	DocumentRID  uuid.UUID                 `json:"document_rid"`
	TemporalMap  *temporal.TemporalMap     `json:"-"`
	Instances    []*model.TemporalInstance `json:"instances"`
	Anachronisms *model.AnachronismReport  `json:"anachronisms"`
}

// NewChronicle creates a new Chronicle instance with all handlers initialized
func NewChronicle(config *helper.DatabaseConfiguration, embeddingDim int) (*Chronicle, error) {
	// Logger
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	// Initialize database
	db := helper.NewDatabase("chronicle", config, logger)
	err := loadSql.Init(db.Instance)
	if err != nil {
		return nil, helper.NewError("initialize database extensions", err)
	}

	// Create all handlers in the correct order (documents first, then chapters)
	// force=false to not reload if functions already exist
	documents, err := database.NewDocumentsDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create documents handler", err)
	}

	chapters, err := database.NewChaptersDBHandler(db, embeddingDim, false)
	if err != nil {
		return nil, helper.NewError("create chapters handler", err)
	}

	entities, err := database.NewEntitiesDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create entities handler", err)
	}

	events, err := database.NewEventsDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create events handler", err)
	}

	return &Chronicle{
		DB:        db,
		Documents: documents,
		Chapters:  chapters,
		Entities:  entities,
		Events:    events,
		Detector:  anachronism.NewDetector(logger),
		Config:    model.DefaultAnalysisConfig(),
		log:       logger,
	}, nil
}

// Close closes the database connection
func (c *Chronicle) Close() error {
	if c.DB != nil && c.DB.Instance != nil {
		return c.DB.Instance.Close()
	}
	return nil
}

// SetPipeline sets the processing pipeline used for manuscript ingestion
func (c *Chronicle) SetPipeline(pipeline *pipeline.Pipeline) {
	c.Pipeline = pipeline
}

// SetConfig replaces the analysis configuration
func (c *Chronicle) SetConfig(config model.AnalysisConfig) {
	c.Config = config
}

// UseDefaultPipeline sets up the default chapter splitting and embedding
// pipeline. This uses HeadingSplitter for chapter detection and
// DefaultEmbedder with the all-MiniLM-L6-v2 model (384 dimensions).
// Entity extraction with the default NER model is enabled as well.
func (c *Chronicle) UseDefaultPipeline() error {
	splitter := pipeline.HeadingSplitter()
	embedder, err := pipeline.DefaultEmbedder()
	if err != nil {
		return helper.NewError("create default embedder", err)
	}

	c.Pipeline = pipeline.NewPipeline(splitter, embedder)

	extractor, err := pipeline.DefaultEntityExtractor()
	if err != nil {
		return helper.NewError("create default entity extractor", err)
	}
	c.Pipeline.SetEntityExtractor(extractor)

	return nil
}

// UseOllamaExtractor wires the generative extraction tier to a local Ollama
// backend. Extraction degrades gracefully when the backend is unreachable,
// so this is safe to call even if Ollama may not be running.
func (c *Chronicle) UseOllamaExtractor(config llm.OllamaConfig) {
	client := llm.NewOllamaClientWithConfig(config)
	c.Extractor = extraction.NewExtractor(client, c.log)
}

// ProcessAndInsertManuscript processes a manuscript by:
// 1. Inserting the document metadata (without content)
// 2. Splitting the content into chapters and embedding them
// 3. Inserting all chapters and the named entities found in them
// The document's Content field is used for processing but not stored in the
// database. Returns the number of chapters inserted and any error encountered.
func (c *Chronicle) ProcessAndInsertManuscript(doc *model.Document) (int, error) {
	if c.Pipeline == nil {
		return 0, helper.NewError("process manuscript", fmt.Errorf("pipeline not set, use SetPipeline() first"))
	}

	if doc.Content == "" {
		return 0, helper.NewError("process manuscript", fmt.Errorf("document content is empty"))
	}

	// Store content temporarily and clear it before DB insert
	content := doc.Content
	doc.Content = ""

	// Insert document metadata
	if err := c.Documents.InsertDocument(doc); err != nil {
		return 0, helper.NewError("insert document", err)
	}

	c.log.Info("Inserted document", slog.String("document_id", doc.RID.String()), slog.String("title", doc.Title))

	// Process content into chapters and entities
	result, err := c.Pipeline.ProcessWithExtraction(content)
	if err != nil {
		return 0, helper.NewError("process chapters", err)
	}

	c.log.Info("Processed manuscript into chapters",
		slog.Int("num_chapters", len(result.Chapters)),
		slog.Int("num_entities", len(result.Entities)),
		slog.String("document_id", doc.RID.String()))

	// Insert all chapters
	for i, chapter := range result.Chapters {
		chapter.DocumentID = doc.ID
		if err := c.Chapters.InsertChapter(chapter); err != nil {
			return i, helper.NewError(fmt.Sprintf("insert chapter %d", i), err)
		}
	}

	// Insert entities, deduplicated per document by the database
	for _, entity := range result.Entities {
		entity.DocumentID = doc.ID
		if err := c.Entities.InsertEntity(entity); err != nil {
			return len(result.Chapters), helper.NewError(fmt.Sprintf("insert entity %s", entity.Name), err)
		}
	}

	return len(result.Chapters), nil
}

// TemporalMapForDocument builds the consistency map from the persisted
// timeline events of a document
func (c *Chronicle) TemporalMapForDocument(documentID int64) (*temporal.TemporalMap, error) {
	events, err := c.Events.SelectEventsByDocument(documentID)
	if err != nil {
		return nil, helper.NewError("select timeline events", err)
	}

	return temporal.NewTemporalMapFromTimeline(events, c.Config.Policy), nil
}

// ExtractTemporalInstances runs the generative extraction tier over every
// chapter of a document and resolves the extracted names against the
// document's known entities. patternInstanceIDs holds the canonical ids of
// instances already produced by pattern extraction; those take precedence and
// duplicates from the generative tier are dropped. Extraction never fails the
// analysis: with no extractor configured or an unreachable backend the result
// is simply empty.
func (c *Chronicle) ExtractTemporalInstances(ctx context.Context, documentRID uuid.UUID, documentID int64, patternInstanceIDs map[string]bool) ([]*model.TemporalInstance, error) {
	if c.Extractor == nil {
		return nil, nil
	}

	entities, err := c.Entities.SelectEntitiesByDocument(documentID)
	if err != nil {
		return nil, helper.NewError("select entities", err)
	}
	if len(entities) == 0 {
		return nil, nil
	}

	entityNames := make([]string, 0, len(entities))
	for _, entity := range entities {
		entityNames = append(entityNames, entity.Name)
	}
	nameIndex := model.NewEntityNameIndex(entities)

	chapters, err := c.Chapters.SelectChaptersByDocument(documentRID)
	if err != nil {
		return nil, helper.NewError("select chapters", err)
	}

	options := extraction.DefaultOptions()
	options.MinConfidence = c.Config.MinConfidence
	options.MaxChars = c.Config.MaxChapterChars

	var all []*model.TemporalInstance
	for _, chapter := range chapters {
		instances := c.Extractor.Extract(ctx, chapter.Content, entityNames, options)
		instances = extraction.ResolveEntityIDs(instances, nameIndex)
		instances = extraction.MergeWithPatternInstances(patternInstanceIDs, instances)
		all = append(all, instances...)
	}

	c.log.Info("Extracted temporal instances",
		slog.Int("num_instances", len(all)),
		slog.String("document_id", documentRID.String()))

	return all, nil
}

// DetectAnachronisms runs anachronism detection over the full manuscript
// text, inferring the narrative period from the text itself
func (c *Chronicle) DetectAnachronisms(documentRID uuid.UUID) (*model.AnachronismReport, error) {
	chapters, err := c.Chapters.SelectChaptersByDocument(documentRID)
	if err != nil {
		return nil, helper.NewError("select chapters", err)
	}

	var builder strings.Builder
	for _, chapter := range chapters {
		builder.WriteString(chapter.Content)
		builder.WriteString("\n\n")
	}

	return c.Detector.Detect(builder.String(), nil), nil
}

// AnalyzeManuscript runs the full analysis over a persisted manuscript:
// the temporal map from the timeline events, generative extraction over all
// chapters, and anachronism detection over the full text
func (c *Chronicle) AnalyzeManuscript(ctx context.Context, documentRID uuid.UUID, patternInstanceIDs map[string]bool) (*ManuscriptAnalysis, error) {
	doc, err := c.Documents.SelectDocument(documentRID)
	if err != nil {
		return nil, helper.NewError("select document", err)
	}

	temporalMap, err := c.TemporalMapForDocument(doc.ID)
	if err != nil {
		return nil, err
	}

	instances, err := c.ExtractTemporalInstances(ctx, documentRID, doc.ID, patternInstanceIDs)
	if err != nil {
		return nil, err
	}

	report, err := c.DetectAnachronisms(documentRID)
	if err != nil {
		return nil, err
	}

	return &ManuscriptAnalysis{
		DocumentRID:  documentRID,
		TemporalMap:  temporalMap,
		Instances:    instances,
		Anachronisms: report,
	}, nil
}

// FindEvidencePassages performs vector similarity search over the chapters of
// the given documents, used to locate the passages supporting a temporal
// claim. If documentRIDs is empty the search spans all documents.
func (c *Chronicle) FindEvidencePassages(query string, documentRIDs []uuid.UUID) ([]*model.Chapter, error) {
	if c.Pipeline == nil || c.Pipeline.Embedder == nil {
		return nil, helper.NewError("evidence search", fmt.Errorf("pipeline with embedder not set, use SetPipeline() first"))
	}

	// Generate embedding from query
	embedding, err := c.Pipeline.Embedder(query)
	if err != nil {
		return nil, helper.NewError("generate embedding", err)
	}

	return c.Chapters.SelectChaptersBySimilarity(embedding, c.Config.TopK, c.Config.SimilarityThreshold, documentRIDs)
}

// ChangeIndexType changes the vector index type between HNSW and IVFFlat
func (c *Chronicle) ChangeIndexType(ctx context.Context, indexType string, params map[string]interface{}) error {
	return c.Chapters.ChangeIndexType(ctx, indexType, params)
}
