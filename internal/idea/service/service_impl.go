package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/ideabox/internal/access"
	"github.com/smallbiznis/ideabox/internal/clock"
	"github.com/smallbiznis/ideabox/internal/config"
	"github.com/smallbiznis/ideabox/internal/idea/domain"
	"github.com/smallbiznis/ideabox/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Clock  clock.Clock
	Policy *config.ReviewPolicyHolder
	Repo   domain.Repository
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	genID  *snowflake.Node
	clock  clock.Clock
	policy *config.ReviewPolicyHolder
	repo   domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("idea.service"),
		genID:  p.GenID,
		clock:  p.Clock,
		policy: p.Policy,
		repo:   p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateIdeaRequest) (domain.Idea, error) {
	principal, ok := access.PrincipalFromContext(ctx)
	if !ok {
		return domain.Idea{}, access.ErrUnauthenticated
	}

	title, description, category, err := validateContent(req.Title, req.Description, req.Category)
	if err != nil {
		return domain.Idea{}, err
	}

	status := domain.StatusSubmitted
	if raw := strings.TrimSpace(req.Status); raw != "" {
		parsed, ok := domain.ParseStatus(raw)
		if !ok || !parsed.IsEditable() {
			return domain.Idea{}, domain.ErrInvalidStatus
		}
		status = parsed
	}

	now := s.clock.Now()
	idea := domain.Idea{
		ID:          s.genID.Generate().String(),
		Title:       title,
		Description: description,
		Category:    category,
		Status:      status,
		OwnerID:     principal.SubjectID,
		OwnerEmail:  principal.Email,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, &idea); err != nil {
		return domain.Idea{}, err
	}

	s.log.Info("idea created", zap.String("idea_id", idea.ID), zap.String("status", string(idea.Status)))
	return idea, nil
}

func (s *Service) List(ctx context.Context, req domain.ListIdeaRequest) (domain.ListIdeaResponse, error) {
	principal, ok := access.PrincipalFromContext(ctx)
	if !ok {
		return domain.ListIdeaResponse{}, access.ErrUnauthenticated
	}

	page, err := pagination.Resolve(req.Limit, req.Offset, s.policy.Get().Listing.DefaultLimit)
	if err != nil {
		return domain.ListIdeaResponse{}, err
	}

	filter := domain.ListFilter{Category: strings.TrimSpace(req.Category)}
	if raw := strings.TrimSpace(req.Status); raw != "" {
		status, ok := domain.ParseStatus(raw)
		if !ok {
			return domain.ListIdeaResponse{}, domain.ErrInvalidStatus
		}
		filter.Statuses = []domain.Status{status}
	}
	if !principal.Role.CanReview() {
		filter.OwnerID = principal.SubjectID
	}

	items, total, err := s.repo.List(ctx, s.db, filter, page)
	if err != nil {
		return domain.ListIdeaResponse{}, err
	}

	ideas := make([]domain.Idea, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		ideas = append(ideas, *item)
	}

	return domain.ListIdeaResponse{
		Items:      ideas,
		Pagination: page.Info(total),
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Idea, error) {
	principal, ok := access.PrincipalFromContext(ctx)
	if !ok {
		return domain.Idea{}, access.ErrUnauthenticated
	}

	item, err := s.findVisible(ctx, principal, id)
	if err != nil {
		return domain.Idea{}, err
	}
	return *item, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateIdeaRequest) (domain.Idea, error) {
	principal, ok := access.PrincipalFromContext(ctx)
	if !ok {
		return domain.Idea{}, access.ErrUnauthenticated
	}

	item, err := s.findOwned(ctx, principal, req.ID)
	if err != nil {
		return domain.Idea{}, err
	}

	title, description, category := item.Title, item.Description, item.Category
	if req.Title != nil {
		title = *req.Title
	}
	if req.Description != nil {
		description = *req.Description
	}
	if req.Category != nil {
		category = *req.Category
	}
	title, description, category, err = validateContent(title, description, category)
	if err != nil {
		return domain.Idea{}, err
	}

	item.Title = title
	item.Description = description
	item.Category = category
	item.UpdatedAt = s.clock.Now()

	affected, err := s.repo.UpdateContent(ctx, s.db, item)
	if err != nil {
		return domain.Idea{}, err
	}
	if affected == 0 {
		// Status moved out of the editable set after the read.
		return domain.Idea{}, domain.ErrNotEditable
	}

	return *item, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	principal, ok := access.PrincipalFromContext(ctx)
	if !ok {
		return access.ErrUnauthenticated
	}

	item, err := s.findOwned(ctx, principal, id)
	if err != nil {
		return err
	}

	affected, err := s.repo.Delete(ctx, s.db, item.ID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotEditable
	}

	s.log.Info("idea deleted", zap.String("idea_id", item.ID))
	return nil
}

// findVisible hides other people's ideas from submitters.
func (s *Service) findVisible(ctx context.Context, principal access.Principal, id string) (*domain.Idea, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if !principal.Role.CanReview() && item.OwnerID != principal.SubjectID {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func (s *Service) findOwned(ctx context.Context, principal access.Principal, id string) (*domain.Idea, error) {
	item, err := s.findVisible(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != principal.SubjectID {
		return nil, domain.ErrNotOwner
	}
	if !item.Status.IsEditable() {
		return nil, domain.ErrNotEditable
	}
	return item, nil
}

func validateContent(title, description, category string) (string, string, string, error) {
	title = strings.TrimSpace(title)
	if title == "" || utf8.RuneCountInString(title) > domain.MaxTitleLength {
		return "", "", "", domain.ErrInvalidTitle
	}
	description = strings.TrimSpace(description)
	if description == "" || utf8.RuneCountInString(description) > domain.MaxDescriptionLength {
		return "", "", "", domain.ErrInvalidDescription
	}
	category = strings.TrimSpace(category)
	if category == "" || utf8.RuneCountInString(category) > domain.MaxCategoryLength {
		return "", "", "", domain.ErrInvalidCategory
	}
	return title, description, category, nil
}
