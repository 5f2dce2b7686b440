package service

import (
	"context"
	"strings"

	"github.com/smallbiznis/ideabox/internal/access"
	auditdomain "github.com/smallbiznis/ideabox/internal/audit/domain"
	"github.com/smallbiznis/ideabox/internal/bulkops/domain"
	"github.com/smallbiznis/ideabox/internal/clock"
	ideadomain "github.com/smallbiznis/ideabox/internal/idea/domain"
	"github.com/smallbiznis/ideabox/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Clock   clock.Clock
	Ideas   ideadomain.Repository
	Audit   auditdomain.Service `optional:"true"`
	Metrics *metrics.Metrics    `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	clock   clock.Clock
	ideas   ideadomain.Repository
	audit   auditdomain.Service
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("bulkops.service"),
		clock:   p.Clock,
		ideas:   p.Ideas,
		audit:   p.Audit,
		metrics: p.Metrics,
	}
}

// UpdateStatus sets status on every existing idea in the batch within one
// transaction. Unknown ids are skipped and not counted.
func (s *Service) UpdateStatus(ctx context.Context, req domain.StatusRequest) (domain.StatusResult, error) {
	if _, ok := access.PrincipalFromContext(ctx); !ok {
		return domain.StatusResult{}, access.ErrUnauthenticated
	}

	ids, err := domain.NormalizeIDs(req.IDs)
	if err != nil {
		return domain.StatusResult{}, err
	}
	status, ok := ideadomain.ParseStatus(req.Status)
	if !ok {
		return domain.StatusResult{}, domain.ErrInvalidStatus
	}

	var updated int64
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		affected, err := s.ideas.UpdateStatusBatch(ctx, tx, ids, status, s.clock.Now())
		if err != nil {
			return err
		}
		updated = affected
		return s.record(ctx, tx, auditdomain.Entry{
			Action:     auditdomain.ActionBulkStatus,
			TargetType: auditdomain.TargetIdea,
			TargetIDs:  ids,
			Metadata: map[string]any{
				"status":   string(status),
				"affected": affected,
			},
		})
	})
	if err != nil {
		return domain.StatusResult{}, err
	}

	s.metrics.RecordBulk(ctx, "status", updated)
	s.log.Info("bulk status applied",
		zap.String("status", string(status)),
		zap.Int("requested", len(ids)),
		zap.Int64("updated", updated),
	)
	return domain.StatusResult{Updated: updated}, nil
}

// Assign sets the assignee on every existing idea in the batch within one transaction.
func (s *Service) Assign(ctx context.Context, req domain.AssignRequest) (domain.AssignResult, error) {
	if _, ok := access.PrincipalFromContext(ctx); !ok {
		return domain.AssignResult{}, access.ErrUnauthenticated
	}

	ids, err := domain.NormalizeIDs(req.IDs)
	if err != nil {
		return domain.AssignResult{}, err
	}
	assignee := strings.TrimSpace(req.AssigneeID)
	if assignee == "" {
		return domain.AssignResult{}, domain.ErrInvalidAssignee
	}

	var assigned int64
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		affected, err := s.ideas.AssignBatch(ctx, tx, ids, assignee, s.clock.Now())
		if err != nil {
			return err
		}
		assigned = affected
		return s.record(ctx, tx, auditdomain.Entry{
			Action:     auditdomain.ActionBulkAssign,
			TargetType: auditdomain.TargetIdea,
			TargetIDs:  ids,
			Metadata: map[string]any{
				"assignee_id": assignee,
				"affected":    affected,
			},
		})
	})
	if err != nil {
		return domain.AssignResult{}, err
	}

	s.metrics.RecordBulk(ctx, "assign", assigned)
	s.log.Info("bulk assignment applied",
		zap.String("assignee_id", assignee),
		zap.Int("requested", len(ids)),
		zap.Int64("assigned", assigned),
	)
	return domain.AssignResult{Assigned: assigned}, nil
}

func (s *Service) record(ctx context.Context, tx *gorm.DB, entry auditdomain.Entry) error {
	if s.audit == nil {
		return nil
	}
	return s.audit.Record(ctx, tx, entry)
}
