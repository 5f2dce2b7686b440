package domain

import (
	"context"
	"time"

	"github.com/smallbiznis/ideabox/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListFilter struct {
	Statuses []Status
	Category string
	OwnerID  string
	// OldestFirst orders by created_at ASC, id ASC; otherwise newest first.
	OldestFirst bool
}

// Repository methods take the handle to run on so callers can pass a transaction.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, idea *Idea) error
	FindByID(ctx context.Context, db *gorm.DB, id string) (*Idea, error)
	FindByIDs(ctx context.Context, db *gorm.DB, ids []string) ([]*Idea, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Page) ([]*Idea, int64, error)
	UpdateContent(ctx context.Context, db *gorm.DB, idea *Idea) (int64, error)
	Delete(ctx context.Context, db *gorm.DB, id string) (int64, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, id string, status Status, now time.Time) (int64, error)
	UpdateStatusBatch(ctx context.Context, db *gorm.DB, ids []string, status Status, now time.Time) (int64, error)
	AssignBatch(ctx context.Context, db *gorm.DB, ids []string, assigneeID string, now time.Time) (int64, error)
}
