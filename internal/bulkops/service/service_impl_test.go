package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/smallbiznis/ideabox/internal/access"
	auditdomain "github.com/smallbiznis/ideabox/internal/audit/domain"
	auditrepository "github.com/smallbiznis/ideabox/internal/audit/repository"
	auditservice "github.com/smallbiznis/ideabox/internal/audit/service"
	"github.com/smallbiznis/ideabox/internal/bulkops/domain"
	"github.com/smallbiznis/ideabox/internal/clock"
	ideadomain "github.com/smallbiznis/ideabox/internal/idea/domain"
	idearepository "github.com/smallbiznis/ideabox/internal/idea/repository"
	"github.com/smallbiznis/ideabox/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

var base = time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t)
	fake := clock.NewFakeClock(base.Add(time.Hour))
	audit := auditservice.NewService(auditservice.Params{
		DB:    db,
		Log:   zaptest.NewLogger(t),
		GenID: testutil.NewNode(t),
		Clock: fake,
		Repo:  auditrepository.Provide(),
	})
	svc := New(Params{
		DB:    db,
		Log:   zaptest.NewLogger(t),
		Clock: fake,
		Ideas: idearepository.Provide(),
		Audit: audit,
	}).(*Service)
	return svc, db
}

func seedIdeas(t *testing.T, db *gorm.DB, n int) []string {
	t.Helper()
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("idea-%03d", i)
		testutil.SeedIdea(t, db, ids[i], ideadomain.StatusSubmitted, base.Add(time.Duration(i)*time.Second))
	}
	return ids
}

func statusCount(t *testing.T, db *gorm.DB, status ideadomain.Status) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&ideadomain.Idea{}).Where("status = ?", string(status)).Count(&n).Error)
	return n
}

func TestUpdateStatusAcceptsFullBatch(t *testing.T) {
	svc, db := newTestService(t)
	ids := seedIdeas(t, db, domain.MaxBatchSize)
	ctx := testutil.AsPrincipal("ev-1", "evaluator@x.com")

	result, err := svc.UpdateStatus(ctx, domain.StatusRequest{IDs: ids, Status: "UNDER_REVIEW"})
	require.NoError(t, err)

	assert.Equal(t, int64(domain.MaxBatchSize), result.Updated)
	assert.Equal(t, int64(domain.MaxBatchSize), statusCount(t, db, ideadomain.StatusUnderReview))
}

func TestUpdateStatusRejectsOversizedBatchWithoutWrites(t *testing.T) {
	svc, db := newTestService(t)
	ids := seedIdeas(t, db, domain.MaxBatchSize+1)
	ctx := testutil.AsPrincipal("ev-1", "evaluator@x.com")

	_, err := svc.UpdateStatus(ctx, domain.StatusRequest{IDs: ids, Status: "REJECTED"})
	assert.ErrorIs(t, err, domain.ErrBatchTooLarge)

	assert.Equal(t, int64(0), statusCount(t, db, ideadomain.StatusRejected))
	var audits int64
	require.NoError(t, db.Model(&auditdomain.AuditLog{}).Count(&audits).Error)
	assert.Equal(t, int64(0), audits)
}

func TestUpdateStatusSkipsUnknownIDs(t *testing.T) {
	svc, db := newTestService(t)
	ids := seedIdeas(t, db, 2)
	ctx := testutil.AsPrincipal("ev-1", "evaluator@x.com")

	result, err := svc.UpdateStatus(ctx, domain.StatusRequest{
		IDs:    []string{ids[0], "missing", ids[1], ids[0]},
		Status: "approved",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Updated)
	assert.Equal(t, int64(2), statusCount(t, db, ideadomain.StatusAccepted))

	var entry auditdomain.AuditLog
	require.NoError(t, db.First(&entry).Error)
	assert.Equal(t, auditdomain.ActionBulkStatus, entry.Action)
	assert.Equal(t, "ev-1", entry.ActorID)
}

func TestUpdateStatusValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := testutil.AsPrincipal("ev-1", "evaluator@x.com")

	_, err := svc.UpdateStatus(ctx, domain.StatusRequest{Status: "ACCEPTED"})
	assert.ErrorIs(t, err, domain.ErrInvalidIDs)

	_, err = svc.UpdateStatus(ctx, domain.StatusRequest{IDs: []string{"a"}, Status: "LATER"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = svc.UpdateStatus(context.Background(), domain.StatusRequest{IDs: []string{"a"}, Status: "ACCEPTED"})
	assert.ErrorIs(t, err, access.ErrUnauthenticated)
}

func TestAssign(t *testing.T) {
	svc, db := newTestService(t)
	ids := seedIdeas(t, db, 3)
	ctx := testutil.AsPrincipal("ad-1", "admin@x.com")

	result, err := svc.Assign(ctx, domain.AssignRequest{IDs: ids, AssigneeID: "ev-7"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.Assigned)

	var assigned int64
	require.NoError(t, db.Model(&ideadomain.Idea{}).Where("assignee_id = ?", "ev-7").Count(&assigned).Error)
	assert.Equal(t, int64(3), assigned)

	_, err = svc.Assign(ctx, domain.AssignRequest{IDs: ids, AssigneeID: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidAssignee)
}

type mockAudit struct {
	mock.Mock
}

func (m *mockAudit) Record(ctx context.Context, tx *gorm.DB, entry auditdomain.Entry) error {
	args := m.Called(ctx, tx, entry)
	return args.Error(0)
}

func (m *mockAudit) List(ctx context.Context, req auditdomain.ListAuditLogRequest) (auditdomain.ListAuditLogResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(auditdomain.ListAuditLogResponse), args.Error(1)
}

func TestUpdateStatusRollsBackWhenAuditFails(t *testing.T) {
	svc, db := newTestService(t)
	ids := seedIdeas(t, db, 3)

	audit := new(mockAudit)
	audit.On("Record", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("audit store down"))
	svc.audit = audit

	ctx := testutil.AsPrincipal("ev-1", "evaluator@x.com")
	_, err := svc.UpdateStatus(ctx, domain.StatusRequest{IDs: ids, Status: "REJECTED"})
	require.Error(t, err)

	assert.Equal(t, int64(0), statusCount(t, db, ideadomain.StatusRejected))
	assert.Equal(t, int64(3), statusCount(t, db, ideadomain.StatusSubmitted))
	audit.AssertExpectations(t)
}
