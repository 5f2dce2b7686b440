package domain

import (
	"context"

	"gorm.io/gorm"
)

// Repository is insert and read only.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, record *Record) error
	ListByIdea(ctx context.Context, db *gorm.DB, ideaID string) ([]*Record, error)
}
