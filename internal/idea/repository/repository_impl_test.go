package repository

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/ideabox/internal/idea/domain"
	"github.com/smallbiznis/ideabox/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertDuplicateIDReturnsErrDuplicateID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := Provide()
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	idea := domain.Idea{
		ID:          "idea-1",
		Title:       "Faster onboarding",
		Description: "Cut the first-day checklist in half",
		Category:    "process",
		Status:      domain.StatusSubmitted,
		OwnerID:     "u-1",
		OwnerEmail:  "alice@x.com",
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	require.NoError(t, repo.Insert(context.Background(), db, &idea))

	err := repo.Insert(context.Background(), db, &idea)
	assert.ErrorIs(t, err, domain.ErrDuplicateID)

	stored, err := repo.FindByID(context.Background(), db, "idea-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Faster onboarding", stored.Title)
}
