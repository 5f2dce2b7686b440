package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/snowflake"
	"github.com/go-playground/validator/v10"
	"github.com/smallbiznis/ideabox/internal/access"
	"github.com/smallbiznis/ideabox/internal/clock"
	"github.com/smallbiznis/ideabox/internal/config"
	"github.com/smallbiznis/ideabox/internal/evaluation/domain"
	ideadomain "github.com/smallbiznis/ideabox/internal/idea/domain"
	"github.com/smallbiznis/ideabox/internal/observability/metrics"
	"github.com/smallbiznis/ideabox/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Policy  *config.ReviewPolicyHolder
	Repo    domain.Repository
	Ideas   ideadomain.Repository
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	policy   *config.ReviewPolicyHolder
	repo     domain.Repository
	ideas    ideadomain.Repository
	metrics  *metrics.Metrics
	validate *validator.Validate
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("evaluation.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		policy:   p.Policy,
		repo:     p.Repo,
		ideas:    p.Ideas,
		metrics:  p.Metrics,
		validate: validator.New(),
	}
}

var reviewerRoles = []access.Role{access.RoleEvaluator, access.RoleAdmin}

func (s *Service) Queue(ctx context.Context, req domain.QueueRequest) (domain.QueuePage, error) {
	page, err := pagination.Resolve(req.Limit, req.Offset, s.policy.Get().Queue.DefaultLimit)
	if err != nil {
		return domain.QueuePage{}, err
	}

	items, total, err := s.ideas.List(ctx, s.db, ideadomain.ListFilter{
		Statuses:    ideadomain.OpenStatuses,
		OldestFirst: true,
	}, page)
	if err != nil {
		return domain.QueuePage{}, err
	}

	now := s.clock.Now()
	queue := make([]domain.QueueItem, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		queue = append(queue, domain.QueueItem{
			ID:          item.ID,
			Title:       item.Title,
			Category:    item.Category,
			Status:      item.Status,
			OwnerID:     item.OwnerID,
			OwnerEmail:  item.OwnerEmail,
			AssigneeID:  item.AssigneeID,
			CreatedAt:   item.CreatedAt,
			DaysInQueue: daysBetween(item.CreatedAt, now),
		})
	}

	return domain.QueuePage{
		Items:      queue,
		Pagination: page.Info(total),
	}, nil
}

func (s *Service) Submit(ctx context.Context, req domain.SubmitRequest) (domain.Record, error) {
	principal, ok := access.PrincipalFromContext(ctx)
	if !ok {
		return domain.Record{}, access.ErrUnauthenticated
	}
	if !principal.Role.CanReview() {
		return domain.Record{}, &access.DeniedError{Attempted: principal.Role, Required: reviewerRoles}
	}

	ideaID := strings.TrimSpace(req.IdeaID)
	if ideaID == "" {
		return domain.Record{}, domain.ErrInvalidIdeaID
	}

	status, comments, fileURL, err := s.validateSubmission(req)
	if err != nil {
		return domain.Record{}, err
	}

	record := domain.Record{
		ID:          s.genID.Generate().String(),
		IdeaID:      ideaID,
		EvaluatorID: principal.SubjectID,
		Status:      status,
		Comments:    comments,
		FileURL:     fileURL,
		CreatedAt:   s.clock.Now(),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := s.ideas.FindByID(ctx, tx, ideaID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrIdeaNotFound
		}
		if err := s.repo.Insert(ctx, tx, &record); err != nil {
			return err
		}
		_, err = s.ideas.UpdateStatus(ctx, tx, ideaID, status, record.CreatedAt)
		return err
	})
	if err != nil {
		return domain.Record{}, err
	}

	s.metrics.RecordEvaluation(ctx, string(status))
	s.log.Info("evaluation recorded",
		zap.String("idea_id", ideaID),
		zap.String("record_id", record.ID),
		zap.String("decision", string(status)),
	)
	return record, nil
}

// validateSubmission checks the payload in a fixed order; the first failure wins.
func (s *Service) validateSubmission(req domain.SubmitRequest) (ideadomain.Status, string, *string, error) {
	rawStatus := strings.TrimSpace(req.Status)
	comments := strings.TrimSpace(req.Comments)
	if rawStatus == "" || comments == "" {
		return "", "", nil, domain.ErrMissingFields
	}

	status, ok := ideadomain.ParseStatus(rawStatus)
	if !ok || !status.IsDecision() {
		return "", "", nil, domain.ErrInvalidStatus
	}

	if utf8.RuneCountInString(comments) > domain.MaxCommentLength {
		return "", "", nil, domain.ErrCommentsTooLong
	}

	var fileURL *string
	if raw := strings.TrimSpace(req.FileURL); raw != "" {
		if err := s.validate.Var(raw, "http_url"); err != nil {
			return "", "", nil, domain.ErrInvalidFileURL
		}
		fileURL = &raw
	}

	return status, comments, fileURL, nil
}

func (s *Service) History(ctx context.Context, ideaID string) ([]domain.Record, error) {
	principal, ok := access.PrincipalFromContext(ctx)
	if !ok {
		return nil, access.ErrUnauthenticated
	}

	ideaID = strings.TrimSpace(ideaID)
	if ideaID == "" {
		return nil, domain.ErrInvalidIdeaID
	}

	item, err := s.ideas.FindByID(ctx, s.db, ideaID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrIdeaNotFound
	}
	if !principal.Role.CanReview() && item.OwnerID != principal.SubjectID {
		return nil, domain.ErrIdeaNotFound
	}

	rows, err := s.repo.ListByIdea(ctx, s.db, ideaID)
	if err != nil {
		return nil, err
	}

	records := make([]domain.Record, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		records = append(records, *row)
	}
	return records, nil
}

func daysBetween(from, now time.Time) int {
	elapsed := now.Sub(from)
	if elapsed < 0 {
		return 0
	}
	return int(elapsed / (24 * time.Hour))
}
