package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/ideabox/pkg/db/pagination"
)

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 5000
	MaxCategoryLength    = 100
)

type CreateIdeaRequest struct {
	Title       string
	Description string
	Category    string
	Status      string
}

type ListIdeaRequest struct {
	Limit    *int
	Offset   *int
	Status   string
	Category string
}

type ListIdeaResponse struct {
	Items      []Idea              `json:"items"`
	Pagination pagination.PageInfo `json:"pagination"`
}

// UpdateIdeaRequest carries optional content changes; nil fields are kept.
type UpdateIdeaRequest struct {
	ID          string
	Title       *string
	Description *string
	Category    *string
}

type Service interface {
	Create(context.Context, CreateIdeaRequest) (Idea, error)
	List(context.Context, ListIdeaRequest) (ListIdeaResponse, error)
	GetByID(ctx context.Context, id string) (Idea, error)
	Update(context.Context, UpdateIdeaRequest) (Idea, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidID          = errors.New("invalid_id")
	ErrInvalidTitle       = errors.New("invalid_title")
	ErrInvalidDescription = errors.New("invalid_description")
	ErrInvalidCategory    = errors.New("invalid_category")
	ErrInvalidStatus      = errors.New("invalid_status")
	ErrNotFound           = errors.New("not_found")
	ErrNotEditable        = errors.New("not_editable")
	ErrNotOwner           = errors.New("not_owner")
	ErrDuplicateID        = errors.New("duplicate_id")
)
