package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/smallbiznis/ideabox/internal/clock"
	"github.com/smallbiznis/ideabox/internal/config"
	"github.com/smallbiznis/ideabox/internal/export/domain"
	ideadomain "github.com/smallbiznis/ideabox/internal/idea/domain"
	idearepository "github.com/smallbiznis/ideabox/internal/idea/repository"
	"github.com/smallbiznis/ideabox/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

var base = time.Date(2025, 4, 30, 23, 30, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t)
	svc := New(Params{
		DB:     db,
		Log:    zaptest.NewLogger(t),
		Clock:  clock.NewFakeClock(base),
		Policy: config.NewStaticReviewPolicyHolder(config.DefaultReviewPolicy()),
		Ideas:  idearepository.Provide(),
	}).(*Service)
	return svc, db
}

func readCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return rows
}

func ids(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("idea-%03d", i)
	}
	return out
}

func TestByIDsEmptyGivesHeaderOnly(t *testing.T) {
	svc, _ := newTestService(t)

	file, err := svc.ByIDs(context.Background(), nil, domain.FormatCSV)
	require.NoError(t, err)

	rows := readCSV(t, file.Data)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.Header, rows[0])
	assert.Equal(t, 0, file.Rows)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)
}

func TestByIDsHundredRows(t *testing.T) {
	svc, db := newTestService(t)
	all := ids(domain.MaxRows)
	for _, id := range all {
		testutil.SeedIdea(t, db, id, ideadomain.StatusSubmitted, base)
	}

	file, err := svc.ByIDs(context.Background(), all, domain.FormatCSV)
	require.NoError(t, err)

	rows := readCSV(t, file.Data)
	assert.Len(t, rows, domain.MaxRows+1)
	assert.Equal(t, domain.MaxRows, file.Rows)
}

func TestByIDsRejectsMoreThanHundred(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ByIDs(context.Background(), ids(domain.MaxRows+1), domain.FormatCSV)
	assert.ErrorIs(t, err, domain.ErrBatchTooLarge)
}

func TestByIDsKeepsRequestOrderAndSkipsUnknown(t *testing.T) {
	svc, db := newTestService(t)
	testutil.SeedIdea(t, db, "idea-a", ideadomain.StatusAccepted, base)
	testutil.SeedIdea(t, db, "idea-b", ideadomain.StatusRejected, base.Add(time.Hour))

	file, err := svc.ByIDs(context.Background(), []string{"idea-b", "missing", "idea-a", "idea-b"}, domain.FormatCSV)
	require.NoError(t, err)

	rows := readCSV(t, file.Data)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"owner-idea-b@x.com", "Idea idea-b", "general", "2025-05-01", "REJECTED"}, rows[1])
	assert.Equal(t, []string{"owner-idea-a@x.com", "Idea idea-a", "general", "2025-04-30", "ACCEPTED"}, rows[2])
}

func TestSubmitterFallsBackToOwnerID(t *testing.T) {
	svc, db := newTestService(t)
	idea := testutil.SeedIdea(t, db, "idea-a", ideadomain.StatusSubmitted, base)
	require.NoError(t, db.Model(&ideadomain.Idea{}).Where("id = ?", idea.ID).Update("owner_email", "").Error)

	file, err := svc.ByIDs(context.Background(), []string{"idea-a"}, domain.FormatCSV)
	require.NoError(t, err)

	rows := readCSV(t, file.Data)
	assert.Equal(t, "owner-idea-a", rows[1][0])
}

func TestByFilter(t *testing.T) {
	svc, db := newTestService(t)
	testutil.SeedIdea(t, db, "idea-old", ideadomain.StatusAccepted, base)
	testutil.SeedIdea(t, db, "idea-new", ideadomain.StatusAccepted, base.Add(time.Hour))
	testutil.SeedIdea(t, db, "idea-open", ideadomain.StatusSubmitted, base)

	file, err := svc.ByFilter(context.Background(), domain.FilterRequest{Status: "ACCEPTED"})
	require.NoError(t, err)

	rows := readCSV(t, file.Data)
	require.Len(t, rows, 3)
	assert.Equal(t, "Idea idea-new", rows[1][1])
	assert.Equal(t, "Idea idea-old", rows[2][1])

	limit := 101
	_, err = svc.ByFilter(context.Background(), domain.FilterRequest{Limit: &limit})
	assert.ErrorIs(t, err, domain.ErrInvalidLimit)

	_, err = svc.ByFilter(context.Background(), domain.FilterRequest{Status: "LATER"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestFileNameAndExportID(t *testing.T) {
	svc, db := newTestService(t)
	testutil.SeedIdea(t, db, "idea-a", ideadomain.StatusSubmitted, base)

	file, err := svc.ByFilter(context.Background(), domain.FilterRequest{Category: " general "})
	require.NoError(t, err)
	assert.Equal(t, "ideas-general-20250430-233000.csv", file.Name)
	assert.Equal(t, 1, file.Rows)

	id, err := ulid.ParseStrict(file.ID)
	require.NoError(t, err)
	assert.Equal(t, ulid.Timestamp(base), id.Time())

	file, err = svc.ByIDs(context.Background(), nil, domain.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "ideas-20250430-233000.csv", file.Name)
}

func TestByIDsRendersPDF(t *testing.T) {
	svc, db := newTestService(t)
	testutil.SeedIdea(t, db, "idea-a", ideadomain.StatusSubmitted, base)

	file, err := svc.ByIDs(context.Background(), []string{"idea-a"}, domain.FormatPDF)
	require.NoError(t, err)

	assert.Equal(t, "application/pdf", file.ContentType)
	assert.Equal(t, "ideas-20250430-233000.pdf", file.Name)
	assert.Equal(t, 1, file.Rows)
	assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF")))
}

func TestUnknownFormatRejected(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ByIDs(context.Background(), nil, domain.Format("xlsx"))
	assert.ErrorIs(t, err, domain.ErrInvalidFormat)

	_, err = svc.ByFilter(context.Background(), domain.FilterRequest{Format: "docx"})
	assert.ErrorIs(t, err, domain.ErrInvalidFormat)
}
