package db

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	sqlDB, err := Open(Memory)
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	_, err = sqlDB.Exec(`CREATE TABLE test_table (id INTEGER PRIMARY KEY, value TEXT)`)
	require.NoError(t, err)
	return sqlDB
}

func count(t *testing.T, sqlDB *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, sqlDB.QueryRow(`SELECT COUNT(*) FROM test_table`).Scan(&n))
	return n
}

func TestWithTx_Success(t *testing.T) {
	sqlDB := setupTestDB(t)

	err := WithTx(sqlDB, func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO test_table (value) VALUES (?)`, "test")
		return err
	})

	require.NoError(t, err)
	assert.Equal(t, 1, count(t, sqlDB))
}

func TestWithTx_RollbackOnError(t *testing.T) {
	sqlDB := setupTestDB(t)
	boom := errors.New("boom")

	err := WithTx(sqlDB, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO test_table (value) VALUES (?)`, "test"); err != nil {
			return err
		}
		return boom
	})

	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, count(t, sqlDB))
}

func TestOpen_CreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "test.db")

	sqlDB, err := Open(path)
	require.NoError(t, err)
	defer sqlDB.Close()

	assert.FileExists(t, path)
}

func TestOpen_EnablesForeignKeys(t *testing.T) {
	sqlDB, err := Open(Memory)
	require.NoError(t, err)
	defer sqlDB.Close()

	var on int
	require.NoError(t, sqlDB.QueryRow(`PRAGMA foreign_keys`).Scan(&on))
	assert.Equal(t, 1, on)
}

func TestBoolToInt(t *testing.T) {
	assert.Equal(t, 1, BoolToInt(true))
	assert.Equal(t, 0, BoolToInt(false))
}
