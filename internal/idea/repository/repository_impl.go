package repository

import (
	"context"
	"time"

	"github.com/smallbiznis/ideabox/internal/idea/domain"
	dbutil "github.com/smallbiznis/ideabox/pkg/db"
	"github.com/smallbiznis/ideabox/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

const ideaColumns = `id, title, description, category, status, owner_id, owner_email, assignee_id, created_at, updated_at`

func (r *repo) Insert(ctx context.Context, db *gorm.DB, idea *domain.Idea) error {
	err := db.WithContext(ctx).Exec(
		`INSERT INTO ideas (`+ideaColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		idea.ID,
		idea.Title,
		idea.Description,
		idea.Category,
		string(idea.Status),
		idea.OwnerID,
		idea.OwnerEmail,
		idea.AssigneeID,
		idea.CreatedAt,
		idea.UpdatedAt,
	).Error
	if dbutil.IsDuplicateKeyErr(err) {
		return domain.ErrDuplicateID
	}
	return err
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id string) (*domain.Idea, error) {
	var idea domain.Idea
	err := db.WithContext(ctx).Raw(
		`SELECT `+ideaColumns+` FROM ideas WHERE id = ?`,
		id,
	).Scan(&idea).Error
	if err != nil {
		return nil, err
	}
	if idea.ID == "" {
		return nil, nil
	}
	return &idea, nil
}

// FindByIDs returns the ideas that exist, in no particular order.
func (r *repo) FindByIDs(ctx context.Context, db *gorm.DB, ids []string) ([]*domain.Idea, error) {
	if len(ids) == 0 {
		return []*domain.Idea{}, nil
	}
	var ideas []*domain.Idea
	err := db.WithContext(ctx).Raw(
		`SELECT `+ideaColumns+` FROM ideas WHERE id IN ?`,
		ids,
	).Scan(&ideas).Error
	if err != nil {
		return nil, err
	}
	return ideas, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter, page pagination.Page) ([]*domain.Idea, int64, error) {
	scope := func(tx *gorm.DB) *gorm.DB {
		if len(filter.Statuses) > 0 {
			tx = tx.Where("status IN ?", statusValues(filter.Statuses))
		}
		if filter.Category != "" {
			tx = tx.Where("category = ?", filter.Category)
		}
		if filter.OwnerID != "" {
			tx = tx.Where("owner_id = ?", filter.OwnerID)
		}
		return tx
	}

	var total int64
	if err := db.WithContext(ctx).Model(&domain.Idea{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at desc, id desc"
	if filter.OldestFirst {
		order = "created_at asc, id asc"
	}

	var ideas []*domain.Idea
	err := db.WithContext(ctx).
		Model(&domain.Idea{}).
		Scopes(scope).
		Order(order).
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&ideas).Error
	if err != nil {
		return nil, 0, err
	}
	return ideas, total, nil
}

// UpdateContent only touches rows still in an editable status.
func (r *repo) UpdateContent(ctx context.Context, db *gorm.DB, idea *domain.Idea) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE ideas SET title = ?, description = ?, category = ?, updated_at = ?
		 WHERE id = ? AND status IN ?`,
		idea.Title,
		idea.Description,
		idea.Category,
		idea.UpdatedAt,
		idea.ID,
		statusValues(domain.EditableStatuses),
	)
	return res.RowsAffected, res.Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id string) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`DELETE FROM ideas WHERE id = ? AND status IN ?`,
		id,
		statusValues(domain.EditableStatuses),
	)
	return res.RowsAffected, res.Error
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id string, status domain.Status, now time.Time) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE ideas SET status = ?, updated_at = ? WHERE id = ?`,
		string(status),
		now,
		id,
	)
	return res.RowsAffected, res.Error
}

func (r *repo) UpdateStatusBatch(ctx context.Context, db *gorm.DB, ids []string, status domain.Status, now time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := db.WithContext(ctx).
		Model(&domain.Idea{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"status":     string(status),
			"updated_at": now,
		})
	return res.RowsAffected, res.Error
}

func (r *repo) AssignBatch(ctx context.Context, db *gorm.DB, ids []string, assigneeID string, now time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := db.WithContext(ctx).
		Model(&domain.Idea{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"assignee_id": assigneeID,
			"updated_at":  now,
		})
	return res.RowsAffected, res.Error
}

func statusValues(statuses []domain.Status) []string {
	values := make([]string, 0, len(statuses))
	for _, status := range statuses {
		values = append(values, string(status))
	}
	return values
}
