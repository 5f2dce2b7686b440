// Package testutil builds isolated in-memory databases and request contexts for tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/smallbiznis/ideabox/internal/access"
	ideadomain "github.com/smallbiznis/ideabox/internal/idea/domain"
	"github.com/smallbiznis/ideabox/internal/migration"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB returns a migrated private in-memory database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migration.AutoMigrate(db))
	return db
}

func NewNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return node
}

// AsPrincipal returns a context carrying a principal whose role is derived from email.
func AsPrincipal(subjectID, email string) context.Context {
	return access.WithPrincipal(context.Background(), access.Principal{
		SubjectID: subjectID,
		Email:     email,
		Role:      access.ResolveRole(email),
	})
}

// SeedIdea inserts an idea directly, bypassing service validation.
func SeedIdea(t *testing.T, db *gorm.DB, id string, status ideadomain.Status, createdAt time.Time) ideadomain.Idea {
	t.Helper()
	idea := ideadomain.Idea{
		ID:          id,
		Title:       "Idea " + id,
		Description: "Description of " + id,
		Category:    "general",
		Status:      status,
		OwnerID:     "owner-" + id,
		OwnerEmail:  "owner-" + id + "@x.com",
		CreatedAt:   createdAt.UTC(),
		UpdatedAt:   createdAt.UTC(),
	}
	require.NoError(t, db.Create(&idea).Error)
	return idea
}
