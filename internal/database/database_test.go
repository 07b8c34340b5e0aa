package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), DriverSQLite, "file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate(context.Background()))
	return db
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), "postgres", "")
	assert.Error(t, err)
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Migrate(context.Background()))

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&n))
	assert.Equal(t, 3, n)
}

func insertUser(t *testing.T, db *DB, email string) int64 {
	t.Helper()
	res, err := db.Exec("INSERT INTO users (first_name, last_name, email, password_hash) VALUES ('F', 'L', ?, 'x')", email)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func TestSchema_UniqueEmail(t *testing.T) {
	db := openTestDB(t)
	insertUser(t, db, "dup@example.com")

	_, err := db.Exec("INSERT INTO users (first_name, last_name, email, password_hash) VALUES ('F', 'L', 'dup@example.com', 'x')")
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}

func TestSchema_ItemOwnerMustMatchList(t *testing.T) {
	db := openTestDB(t)
	owner := insertUser(t, db, "owner@example.com")
	other := insertUser(t, db, "other@example.com")

	today := time.Now().UTC()
	res, err := db.Exec("INSERT INTO todo_lists (user_id, date_created, due_date) VALUES (?, ?, ?)", owner, today, today)
	require.NoError(t, err)
	listID, err := res.LastInsertId()
	require.NoError(t, err)

	_, err = db.Exec("INSERT INTO todo_items (list_id, user_id, text) VALUES (?, ?, 'ok')", listID, owner)
	require.NoError(t, err)

	_, err = db.Exec("INSERT INTO todo_items (list_id, user_id, text) VALUES (?, ?, 'wrong owner')", listID, other)
	assert.Error(t, err, "item user_id must equal the list owner")
	assert.False(t, IsUniqueViolation(err))
}

func TestSchema_ListDefaultsAndCascade(t *testing.T) {
	db := openTestDB(t)
	owner := insertUser(t, db, "owner@example.com")

	today := time.Now().UTC()
	res, err := db.Exec("INSERT INTO todo_lists (user_id, date_created, due_date) VALUES (?, ?, ?)", owner, today, today)
	require.NoError(t, err)
	listID, err := res.LastInsertId()
	require.NoError(t, err)

	var title, urgency string
	require.NoError(t, db.QueryRow("SELECT title, urgency FROM todo_lists WHERE id = ?", listID).Scan(&title, &urgency))
	assert.Equal(t, "Untitled List", title)
	assert.Equal(t, "flexible", urgency)

	_, err = db.Exec("INSERT INTO todo_items (list_id, user_id, text) VALUES (?, ?, 'a'), (?, ?, 'b')", listID, owner, listID, owner)
	require.NoError(t, err)

	_, err = db.Exec("DELETE FROM todo_lists WHERE id = ?", listID)
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM todo_items").Scan(&n))
	assert.Zero(t, n)
}

func TestMySQLSchema_EmailUsesBinaryCollation(t *testing.T) {
	content, err := migrationsFS.ReadFile("migrations/mysql/0001_create_users.sql")
	require.NoError(t, err)
	// MySQLの既定の照合順序は大文字小文字を区別しない
	assert.Contains(t, string(content), "email VARCHAR(255) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL UNIQUE")
}

func TestSchema_EmailUniqueIsCaseSensitive(t *testing.T) {
	db := openTestDB(t)
	insertUser(t, db, "case@example.com")
	insertUser(t, db, "CASE@example.com")

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM users WHERE email = ?", "case@example.com").Scan(&n))
	assert.Equal(t, 1, n)
}
