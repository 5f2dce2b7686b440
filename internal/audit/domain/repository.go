package domain

import (
	"context"

	"github.com/smallbiznis/ideabox/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListFilter struct {
	Action string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, entry *AuditLog) error
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Page) ([]*AuditLog, int64, error)
}
