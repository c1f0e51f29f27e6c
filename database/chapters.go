package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/siherrmann/chronicle/helper"
	"github.com/siherrmann/chronicle/model"
	loadSql "github.com/siherrmann/chronicle/sql"
)

// ChaptersDBHandlerFunctions defines the interface for Chapters database operations.
type ChaptersDBHandlerFunctions interface {
	InsertChapter(chapter *model.Chapter) error
	UpdateChapterEmbedding(chapter *model.Chapter) error
	DeleteChapter(id int64) error
	SelectChapter(id int64) (*model.Chapter, error)
	SelectChaptersByDocument(documentRID uuid.UUID) ([]*model.Chapter, error)
	SelectChaptersBySimilarity(embedding []float32, limit int, threshold float64, documentRIDs []uuid.UUID) ([]*model.Chapter, error)
}

// ChaptersDBHandler handles chapter-related database operations
type ChaptersDBHandler struct {
	db *helper.Database
}

// NewChaptersDBHandler creates a new chapters database handler.
// It initializes the database connection and loads chapter-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewChaptersDBHandler(db *helper.Database, embeddingDim int, force bool) (*ChaptersDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	chaptersDbHandler := &ChaptersDBHandler{
		db: db,
	}

	err := loadSql.LoadChaptersSql(chaptersDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load chapters sql", err)
	}

	err = chaptersDbHandler.CreateTable(embeddingDim)
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized ChaptersDBHandler")

	return chaptersDbHandler, nil
}

// CreateTable creates the 'chapters' table in the database.
// If the table already exists, it does not create it again.
// It also creates all necessary indexes.
func (h *ChaptersDBHandler) CreateTable(embeddingDim int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_chapters($1);`, embeddingDim)
	if err != nil {
		log.Panicf("error initializing chapters table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table chapters")

	return nil
}

// InsertChapter inserts a new chapter
func (h *ChaptersDBHandler) InsertChapter(chapter *model.Chapter) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_chapter($1, $2, $3, $4, $5, $6, $7, $8)`,
		chapter.DocumentID,
		chapter.Number,
		chapter.Title,
		chapter.Content,
		pq.Array(chapter.Embedding),
		chapter.StartPos,
		chapter.EndPos,
		chapter.Metadata,
	)

	err := row.Scan(
		&chapter.ID,
		&chapter.DocumentID,
		&chapter.DocumentRID,
		&chapter.Number,
		&chapter.Title,
		&chapter.Content,
		pq.Array(&chapter.Embedding),
		&chapter.StartPos,
		&chapter.EndPos,
		&chapter.Metadata,
		&chapter.CreatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// UpdateChapterEmbedding updates the embedding of a chapter
func (h *ChaptersDBHandler) UpdateChapterEmbedding(chapter *model.Chapter) error {
	embeddingVector := pgvector.NewVector(chapter.Embedding)
	row := h.db.Instance.QueryRow(
		`SELECT * FROM update_chapter_embedding($1, $2)`,
		chapter.ID,
		embeddingVector,
	)

	err := row.Scan(
		&chapter.ID,
		&chapter.DocumentID,
		&chapter.DocumentRID,
		&chapter.Number,
		&chapter.Title,
		&chapter.Content,
		pq.Array(&chapter.Embedding),
		&chapter.StartPos,
		&chapter.EndPos,
		&chapter.Metadata,
		&chapter.CreatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// DeleteChapter deletes a chapter by ID
func (h *ChaptersDBHandler) DeleteChapter(id int64) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_chapter($1)`,
		id,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

// SelectChapter retrieves a chapter by ID
func (h *ChaptersDBHandler) SelectChapter(id int64) (*model.Chapter, error) {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_chapter($1)`,
		id,
	)

	chapter := &model.Chapter{}
	err := row.Scan(
		&chapter.ID,
		&chapter.DocumentID,
		&chapter.DocumentRID,
		&chapter.Number,
		&chapter.Title,
		&chapter.Content,
		pq.Array(&chapter.Embedding),
		&chapter.StartPos,
		&chapter.EndPos,
		&chapter.Metadata,
		&chapter.CreatedAt,
	)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return chapter, nil
}

// SelectChaptersByDocument retrieves all chapters of a document in discourse order
func (h *ChaptersDBHandler) SelectChaptersByDocument(documentRID uuid.UUID) ([]*model.Chapter, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_chapters_by_document($1)`,
		documentRID,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var chapters []*model.Chapter
	for rows.Next() {
		chapter := &model.Chapter{}
		err := rows.Scan(
			&chapter.ID,
			&chapter.DocumentID,
			&chapter.DocumentRID,
			&chapter.Number,
			&chapter.Title,
			&chapter.Content,
			pq.Array(&chapter.Embedding),
			&chapter.StartPos,
			&chapter.EndPos,
			&chapter.Metadata,
			&chapter.CreatedAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		chapters = append(chapters, chapter)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return chapters, nil
}

// SelectChaptersBySimilarity performs vector similarity search.
// If documentRIDs is nil or empty, searches across all documents.
func (h *ChaptersDBHandler) SelectChaptersBySimilarity(embedding []float32, limit int, threshold float64, documentRIDs []uuid.UUID) ([]*model.Chapter, error) {
	embeddingVector := pgvector.NewVector(embedding)

	var documentRIDsParam interface{}
	if len(documentRIDs) > 0 {
		documentRIDsParam = pq.Array(documentRIDs)
	} else {
		documentRIDsParam = nil
	}

	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_chapters_by_similarity($1, $2, $3, $4)`,
		embeddingVector,
		limit,
		threshold,
		documentRIDsParam,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var results []*model.Chapter
	for rows.Next() {
		chapter := &model.Chapter{}
		err := rows.Scan(
			&chapter.ID,
			&chapter.DocumentID,
			&chapter.DocumentRID,
			&chapter.Number,
			&chapter.Title,
			&chapter.Content,
			pq.Array(&chapter.Embedding),
			&chapter.StartPos,
			&chapter.EndPos,
			&chapter.Metadata,
			&chapter.CreatedAt,
			&chapter.Similarity,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		results = append(results, chapter)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return results, nil
}
