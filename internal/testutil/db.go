// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"fmt"
	"testing"

	"anoa.com/folio/internal/entity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory sqlite database with foreign keys enabled
// and every entity migrated.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(entity.Models()...))
	return db
}

// SeedProfile inserts an account and a profile owning the given username.
func SeedProfile(t *testing.T, db *gorm.DB, username string) *entity.Profile {
	t.Helper()

	account := &entity.Account{Email: username + "@example.com"}
	require.NoError(t, db.Create(account).Error)

	profile := &entity.Profile{
		AccountID:   account.ID,
		Username:    username,
		DisplayName: "Test " + username,
	}
	require.NoError(t, db.Create(profile).Error)
	return profile
}
