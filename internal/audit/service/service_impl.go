package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/ideabox/internal/access"
	auditdomain "github.com/smallbiznis/ideabox/internal/audit/domain"
	"github.com/smallbiznis/ideabox/internal/audit/masking"
	"github.com/smallbiznis/ideabox/internal/clock"
	obscontext "github.com/smallbiznis/ideabox/internal/observability/context"
	"github.com/smallbiznis/ideabox/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const defaultPageSize = 50

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  auditdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  auditdomain.Repository
}

func NewService(p Params) auditdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("audit.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Record(ctx context.Context, tx *gorm.DB, entry auditdomain.Entry) error {
	action := strings.TrimSpace(entry.Action)
	if action == "" {
		return auditdomain.ErrInvalidAction
	}
	targetType := strings.TrimSpace(entry.TargetType)
	if targetType == "" {
		targetType = "unknown"
	}

	principal, _ := access.PrincipalFromContext(ctx)

	payload := map[string]any{}
	for key, value := range masking.MaskJSON(entry.Metadata) {
		payload[key] = value
	}
	if len(entry.TargetIDs) > 0 {
		payload["target_ids"] = entry.TargetIDs
	}
	if principal.Email != "" {
		payload["actor_email"] = masking.MaskEmail(principal.Email)
	}

	log := auditdomain.AuditLog{
		ID:         s.genID.Generate().String(),
		ActorID:    principal.SubjectID,
		ActorRole:  string(principal.Role),
		Action:     action,
		TargetType: targetType,
		Metadata:   datatypes.JSONMap(payload),
		RequestID:  obscontext.RequestIDFromContext(ctx),
		CreatedAt:  s.clock.Now(),
	}

	db := tx
	if db == nil {
		db = s.db
	}
	if err := s.repo.Insert(ctx, db, &log); err != nil {
		s.log.Warn("failed to write audit log", zap.String("action", action), zap.Error(err))
		return err
	}
	return nil
}

func (s *Service) List(ctx context.Context, req auditdomain.ListAuditLogRequest) (auditdomain.ListAuditLogResponse, error) {
	if _, ok := access.PrincipalFromContext(ctx); !ok {
		return auditdomain.ListAuditLogResponse{}, access.ErrUnauthenticated
	}

	page, err := pagination.Resolve(req.Limit, req.Offset, defaultPageSize)
	if err != nil {
		return auditdomain.ListAuditLogResponse{}, err
	}

	items, total, err := s.repo.List(ctx, s.db, auditdomain.ListFilter{Action: req.Action}, page)
	if err != nil {
		return auditdomain.ListAuditLogResponse{}, err
	}

	logs := make([]auditdomain.AuditLog, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		logs = append(logs, *item)
	}

	return auditdomain.ListAuditLogResponse{
		Items:      logs,
		Pagination: page.Info(total),
	}, nil
}
