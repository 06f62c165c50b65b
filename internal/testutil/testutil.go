package testutil

import (
	"database/sql"
	"io/fs"
	"sort"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/vytor/ninebynine/internal/db"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// The pool is pinned to one connection so every query sees the same database.
func NewTestDB(t *testing.T) *sql.DB {
	sqlDB, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	migrations, err := fs.Glob(db.MigrationsFS(), "migrations/*.sql")
	require.NoError(t, err)
	sort.Strings(migrations)

	for _, migration := range migrations {
		sqlBytes, err := fs.ReadFile(db.MigrationsFS(), migration)
		require.NoError(t, err, "failed to read migration %s", migration)

		_, err = sqlDB.Exec(string(sqlBytes))
		require.NoError(t, err, "failed to apply migration %s", migration)
	}

	return sqlDB
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}
