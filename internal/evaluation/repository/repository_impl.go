package repository

import (
	"context"

	"github.com/smallbiznis/ideabox/internal/evaluation/domain"
	dbutil "github.com/smallbiznis/ideabox/pkg/db"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, record *domain.Record) error {
	err := db.WithContext(ctx).Exec(
		`INSERT INTO evaluation_records (id, idea_id, evaluator_id, status, comments, file_url, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.IdeaID,
		record.EvaluatorID,
		string(record.Status),
		record.Comments,
		record.FileURL,
		record.CreatedAt,
	).Error
	if dbutil.IsDuplicateKeyErr(err) {
		return domain.ErrDuplicateRecord
	}
	return err
}

// ListByIdea returns the full history, newest first.
func (r *repo) ListByIdea(ctx context.Context, db *gorm.DB, ideaID string) ([]*domain.Record, error) {
	var records []*domain.Record
	err := db.WithContext(ctx).Raw(
		`SELECT id, idea_id, evaluator_id, status, comments, file_url, created_at
		 FROM evaluation_records
		 WHERE idea_id = ?
		 ORDER BY created_at DESC, id DESC`,
		ideaID,
	).Scan(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
