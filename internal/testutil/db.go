// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"socialportfolio/backend/internal/config"
	"socialportfolio/backend/internal/database"
)

// OpenSQLite returns a migrated, private in-memory database that is closed
// when the test ends.
func OpenSQLite(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(config.DriverSQLite, ":memory:")
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}
