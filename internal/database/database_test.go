package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/config"
	"storefront/internal/models"
)

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Driver: "oracle", URL: "x"})
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestOpenAndMigrate_SQLite(t *testing.T) {
	db, err := Open(config.DatabaseConfig{Driver: "sqlite", URL: "file:migrate_test?mode=memory&cache=shared"})
	require.NoError(t, err)
	defer Close(db)

	require.NoError(t, Migrate(db))

	for _, model := range []any{&models.User{}, &models.Session{}, &models.Category{}, &models.Product{}} {
		assert.True(t, db.Migrator().HasTable(model))
	}
}
