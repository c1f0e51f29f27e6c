package sql

import (
	"testing"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	db := initDB(t)

	t.Run("Initialize database extensions", func(t *testing.T) {
		err := Init(db.Instance)
		assert.NoError(t, err)

		// Verify pgvector extension is created
		var exists bool
		err = db.Instance.QueryRow("SELECT EXISTS(SELECT 1 FROM pg_extension WHERE extname = 'vector');").Scan(&exists)
		require.NoError(t, err)
		assert.True(t, exists, "pgvector extension should be created")
	})

	t.Run("Initialize database extensions is idempotent", func(t *testing.T) {
		err := Init(db.Instance)
		assert.NoError(t, err)

		err = Init(db.Instance)
		assert.NoError(t, err)
	})
}

func TestLoadDocumentsSql(t *testing.T) {
	db := initDB(t)
	defer db.Close()

	err := Init(db.Instance)
	require.NoError(t, err)

	t.Run("Load documents SQL functions", func(t *testing.T) {
		err := LoadDocumentsSql(db.Instance, false)
		assert.NoError(t, err)

		for _, funcName := range DocumentsFunctions {
			var exists bool
			err = db.Instance.QueryRow("SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = $1);", funcName).Scan(&exists)
			require.NoError(t, err)
			assert.True(t, exists, "Function %s should exist", funcName)
		}
	})

	t.Run("Load documents SQL is idempotent without force", func(t *testing.T) {
		err := LoadDocumentsSql(db.Instance, false)
		assert.NoError(t, err)
	})

	t.Run("Load documents SQL with force reloads", func(t *testing.T) {
		err := LoadDocumentsSql(db.Instance, true)
		assert.NoError(t, err)
	})
}

func TestLoadChaptersSql(t *testing.T) {
	db := initDB(t)
	defer db.Close()

	err := Init(db.Instance)
	require.NoError(t, err)

	t.Run("Load chapters SQL functions", func(t *testing.T) {
		err := LoadChaptersSql(db.Instance, false)
		assert.NoError(t, err)

		for _, funcName := range ChaptersFunctions {
			var exists bool
			err = db.Instance.QueryRow("SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = $1);", funcName).Scan(&exists)
			require.NoError(t, err)
			assert.True(t, exists, "Function %s should exist", funcName)
		}
	})

	t.Run("Load chapters SQL is idempotent without force", func(t *testing.T) {
		err := LoadChaptersSql(db.Instance, false)
		assert.NoError(t, err)
	})

	t.Run("Load chapters SQL with force reloads", func(t *testing.T) {
		err := LoadChaptersSql(db.Instance, true)
		assert.NoError(t, err)

		for _, funcName := range ChaptersFunctions {
			var exists bool
			err = db.Instance.QueryRow("SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = $1);", funcName).Scan(&exists)
			require.NoError(t, err)
			assert.True(t, exists, "Function %s should exist after force reload", funcName)
		}
	})
}

func TestLoadEntitiesSql(t *testing.T) {
	db := initDB(t)
	defer db.Close()

	err := Init(db.Instance)
	require.NoError(t, err)

	t.Run("Load entities SQL functions", func(t *testing.T) {
		err := LoadEntitiesSql(db.Instance, false)
		assert.NoError(t, err)

		for _, funcName := range EntitiesFunctions {
			var exists bool
			err = db.Instance.QueryRow("SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = $1);", funcName).Scan(&exists)
			require.NoError(t, err)
			assert.True(t, exists, "Function %s should exist", funcName)
		}
	})

	t.Run("Load entities SQL is idempotent without force", func(t *testing.T) {
		err := LoadEntitiesSql(db.Instance, false)
		assert.NoError(t, err)
	})

	t.Run("Load entities SQL with force reloads", func(t *testing.T) {
		err := LoadEntitiesSql(db.Instance, true)
		assert.NoError(t, err)
	})
}

func TestLoadEventsSql(t *testing.T) {
	db := initDB(t)
	defer db.Close()

	err := Init(db.Instance)
	require.NoError(t, err)

	t.Run("Load events SQL functions", func(t *testing.T) {
		err := LoadEventsSql(db.Instance, false)
		assert.NoError(t, err)

		for _, funcName := range EventsFunctions {
			var exists bool
			err = db.Instance.QueryRow("SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = $1);", funcName).Scan(&exists)
			require.NoError(t, err)
			assert.True(t, exists, "Function %s should exist", funcName)
		}
	})

	t.Run("Load events SQL is idempotent without force", func(t *testing.T) {
		err := LoadEventsSql(db.Instance, false)
		assert.NoError(t, err)
	})

	t.Run("Load events SQL with force reloads", func(t *testing.T) {
		err := LoadEventsSql(db.Instance, true)
		assert.NoError(t, err)
	})
}

func TestLoadAllSql(t *testing.T) {
	db := initDB(t)
	defer db.Close()

	err := Init(db.Instance)
	require.NoError(t, err)

	t.Run("Load all SQL functions", func(t *testing.T) {
		err := LoadAllSql(db.Instance, false)
		assert.NoError(t, err)

		allFunctions := [][]string{DocumentsFunctions, ChaptersFunctions, EntitiesFunctions, EventsFunctions}
		for _, functions := range allFunctions {
			for _, funcName := range functions {
				var exists bool
				err = db.Instance.QueryRow("SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = $1);", funcName).Scan(&exists)
				require.NoError(t, err)
				assert.True(t, exists, "Function %s should exist", funcName)
			}
		}
	})

	t.Run("Load all SQL is idempotent without force", func(t *testing.T) {
		err := LoadAllSql(db.Instance, false)
		assert.NoError(t, err)
	})

	t.Run("Load all SQL with force reloads", func(t *testing.T) {
		err := LoadAllSql(db.Instance, true)
		assert.NoError(t, err)
	})
}

func TestCheckFunctions(t *testing.T) {
	db := initDB(t)
	defer db.Close()

	err := Init(db.Instance)
	require.NoError(t, err)

	t.Run("Check functions returns false when functions don't exist", func(t *testing.T) {
		exists, err := checkFunctions(db.Instance, []string{"nonexistent_function"})
		assert.NoError(t, err)
		assert.False(t, exists, "Should return false for nonexistent function")
	})

	t.Run("Check functions returns true when all functions exist", func(t *testing.T) {
		err := LoadDocumentsSql(db.Instance, false)
		require.NoError(t, err)

		exists, err := checkFunctions(db.Instance, DocumentsFunctions)
		assert.NoError(t, err)
		assert.True(t, exists, "Should return true when all functions exist")
	})

	t.Run("Check functions returns false when some functions don't exist", func(t *testing.T) {
		mixedFunctions := append([]string{"init_documents"}, "nonexistent_function")
		exists, err := checkFunctions(db.Instance, mixedFunctions)
		assert.NoError(t, err)
		assert.False(t, exists, "Should return false when some functions don't exist")
	})

	t.Run("Check functions with empty list", func(t *testing.T) {
		exists, err := checkFunctions(db.Instance, []string{})
		assert.NoError(t, err)
		assert.False(t, exists, "Should return false for empty function list")
	})
}

func TestEmbeddedSQL(t *testing.T) {
	t.Run("Init SQL is embedded", func(t *testing.T) {
		assert.NotEmpty(t, initSQL, "initSQL should be embedded")
		assert.Contains(t, initSQL, "CREATE EXTENSION", "Should contain CREATE EXTENSION")
	})

	t.Run("Documents SQL is embedded", func(t *testing.T) {
		assert.NotEmpty(t, documentsSQL, "documentsSQL should be embedded")
		assert.Contains(t, documentsSQL, "CREATE", "Should contain CREATE statements")
	})

	t.Run("Chapters SQL is embedded", func(t *testing.T) {
		assert.NotEmpty(t, chaptersSQL, "chaptersSQL should be embedded")
		assert.Contains(t, chaptersSQL, "CREATE", "Should contain CREATE statements")
	})

	t.Run("Entities SQL is embedded", func(t *testing.T) {
		assert.NotEmpty(t, entitiesSQL, "entitiesSQL should be embedded")
		assert.Contains(t, entitiesSQL, "CREATE", "Should contain CREATE statements")
	})

	t.Run("Events SQL is embedded", func(t *testing.T) {
		assert.NotEmpty(t, eventsSQL, "eventsSQL should be embedded")
		assert.Contains(t, eventsSQL, "CREATE", "Should contain CREATE statements")
	})
}
