package repository

import (
	"context"
	"strings"

	"github.com/smallbiznis/ideabox/internal/audit/domain"
	"github.com/smallbiznis/ideabox/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, entry *domain.AuditLog) error {
	if entry == nil {
		return nil
	}
	return db.WithContext(ctx).Create(entry).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter, page pagination.Page) ([]*domain.AuditLog, int64, error) {
	scope := func(tx *gorm.DB) *gorm.DB {
		if action := strings.TrimSpace(filter.Action); action != "" {
			tx = tx.Where("action = ?", action)
		}
		return tx
	}

	var total int64
	if err := db.WithContext(ctx).Model(&domain.AuditLog{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []*domain.AuditLog
	err := db.WithContext(ctx).
		Model(&domain.AuditLog{}).
		Scopes(scope).
		Order("created_at desc, id desc").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
