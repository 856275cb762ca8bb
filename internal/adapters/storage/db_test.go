package storage

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// openTestDB creates a file-backed SQLite database; WAL needs a real file.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func tableNames(t *testing.T, db *sql.DB) []string {
	t.Helper()
	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	return names
}

func TestMigrateDB_Fresh(t *testing.T) {
	db := openTestDB(t)

	v, err := SchemaVersion(db)
	require.NoError(t, err)
	assert.Zero(t, v, "empty database")

	require.NoError(t, MigrateDB(db))
	assert.Equal(t, []string{"document", "document_change", "schema_version"}, tableNames(t, db))

	v, err = SchemaVersion(db)
	require.NoError(t, err)
	assert.Equal(t, LatestSchemaVersion(), v)
}

func TestMigrateDB_Idempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, MigrateDB(db))
	_, err := db.Exec(`INSERT INTO document (key, value, updated_at) VALUES ('ergosanitas_current_alert', '{}', '2026-04-10T12:00:00Z')`)
	require.NoError(t, err)

	require.NoError(t, MigrateDB(db))

	var rows int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM schema_version`).Scan(&rows))
	assert.Equal(t, LatestSchemaVersion(), rows, "each migration recorded once")

	var value string
	require.NoError(t, db.QueryRow(`SELECT value FROM document WHERE key = 'ergosanitas_current_alert'`).Scan(&value))
	assert.Equal(t, "{}", value, "documents survive a second run")
}

func TestMigrateDB_UpgradesPartialSchema(t *testing.T) {
	db := openTestDB(t)
	// a database created before the change-log index existed
	_, err := db.Exec(`CREATE TABLE schema_version (version INTEGER PRIMARY KEY, applied_at TEXT NOT NULL DEFAULT '')`)
	require.NoError(t, err)
	_, err = db.Exec(migrations[0])
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO schema_version (version) VALUES (1)`)
	require.NoError(t, err)

	require.NoError(t, MigrateDB(db))

	var idx int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND name='idx_document_change_changed_at'`).Scan(&idx))
	assert.Equal(t, 1, idx)
	v, err := SchemaVersion(db)
	require.NoError(t, err)
	assert.Equal(t, LatestSchemaVersion(), v)
}
