package repository

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/ideabox/internal/evaluation/domain"
	ideadomain "github.com/smallbiznis/ideabox/internal/idea/domain"
	"github.com/smallbiznis/ideabox/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertDuplicateRecordReturnsErrDuplicateRecord(t *testing.T) {
	db := testutil.NewTestDB(t)
	createdAt := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	testutil.SeedIdea(t, db, "idea-1", ideadomain.StatusSubmitted, createdAt)

	repo := Provide()
	record := domain.Record{
		ID:          "rec-1",
		IdeaID:      "idea-1",
		EvaluatorID: "ev-1",
		Status:      ideadomain.StatusRejected,
		Comments:    "out of scope",
		CreatedAt:   createdAt.Add(time.Hour),
	}

	require.NoError(t, repo.Insert(context.Background(), db, &record))
	assert.ErrorIs(t, repo.Insert(context.Background(), db, &record), domain.ErrDuplicateRecord)

	history, err := repo.ListByIdea(context.Background(), db, "idea-1")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}
