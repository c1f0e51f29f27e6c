package sql

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log"
)

//go:embed init.sql
var initSQL string

//go:embed documents.sql
var documentsSQL string

//go:embed chapters.sql
var chaptersSQL string

//go:embed entities.sql
var entitiesSQL string

//go:embed events.sql
var eventsSQL string

// Function lists for verification
var DocumentsFunctions = []string{
	"init_documents",
	"insert_document",
	"select_document",
	"select_all_documents",
	"search_documents",
	"update_document",
	"delete_document",
}

var ChaptersFunctions = []string{
	"init_chapters",
	"insert_chapter",
	"select_chapter",
	"select_chapters_by_document",
	"select_chapters_by_similarity",
	"update_chapter_embedding",
	"delete_chapter",
}

var EntitiesFunctions = []string{
	"init_entities",
	"insert_entity",
	"select_entity",
	"select_entity_by_name",
	"select_entities_by_document",
	"select_entities_by_type",
	"delete_entity",
}

var EventsFunctions = []string{
	"init_events",
	"insert_event",
	"select_event",
	"select_events_by_document",
	"select_events_by_chapter",
	"delete_event",
	"delete_events_by_document",
}

// Init intializes db extensions
func Init(db *sql.DB) error {
	_, err := db.Exec(initSQL)
	if err != nil {
		return fmt.Errorf("error executing schema SQL: %w", err)
	}

	log.Println("Database extensions initialized successfully")
	return nil
}

// LoadDocumentsSql loads document-related SQL functions
func LoadDocumentsSql(db *sql.DB, force bool) error {
	return loadSql(db, force, documentsSQL, DocumentsFunctions, "documents")
}

// LoadChaptersSql loads chapter-related SQL functions
func LoadChaptersSql(db *sql.DB, force bool) error {
	return loadSql(db, force, chaptersSQL, ChaptersFunctions, "chapters")
}

// LoadEntitiesSql loads entity-related SQL functions
func LoadEntitiesSql(db *sql.DB, force bool) error {
	return loadSql(db, force, entitiesSQL, EntitiesFunctions, "entities")
}

// LoadEventsSql loads timeline-event-related SQL functions
func LoadEventsSql(db *sql.DB, force bool) error {
	return loadSql(db, force, eventsSQL, EventsFunctions, "events")
}

// LoadAllSql loads all SQL functions
func LoadAllSql(db *sql.DB, force bool) error {
	if err := LoadDocumentsSql(db, force); err != nil {
		return err
	}

	if err := LoadChaptersSql(db, force); err != nil {
		return err
	}

	if err := LoadEntitiesSql(db, force); err != nil {
		return err
	}

	if err := LoadEventsSql(db, force); err != nil {
		return err
	}

	return nil
}

func loadSql(db *sql.DB, force bool, sqlText string, sqlFunctions []string, name string) error {
	if !force {
		exist, err := checkFunctions(db, sqlFunctions)
		if err != nil {
			return fmt.Errorf("error checking existing %s functions: %w", name, err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(sqlText)
	if err != nil {
		return fmt.Errorf("error executing %s SQL: %w", name, err)
	}

	exist, err := checkFunctions(db, sqlFunctions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Printf("SQL %s functions loaded successfully", name)
	return nil
}

// checkFunctions verifies that all required functions exist in the database
func checkFunctions(db *sql.DB, sqlFunctions []string) (bool, error) {
	var allExist bool
	for _, f := range sqlFunctions {
		err := db.QueryRow(
			`SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = $1);`,
			f,
		).Scan(&allExist)
		if err != nil {
			return false, fmt.Errorf("error checking existence of function %s: %w", f, err)
		}
		if !allExist {
			log.Printf("Function %s does not exist", f)
			break
		}
	}
	return allExist, nil
}
