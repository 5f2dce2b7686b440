package domain

import (
	"context"
	"errors"
)

// MaxCommentLength is measured in characters, not bytes.
const MaxCommentLength = 500

type QueueRequest struct {
	Limit  *int
	Offset *int
}

type SubmitRequest struct {
	IdeaID   string
	Status   string
	Comments string
	FileURL  string
}

type Service interface {
	Queue(context.Context, QueueRequest) (QueuePage, error)
	Submit(context.Context, SubmitRequest) (Record, error)
	History(ctx context.Context, ideaID string) ([]Record, error)
}

var (
	ErrMissingFields   = errors.New("missing_fields")
	ErrInvalidStatus   = errors.New("invalid_status")
	ErrCommentsTooLong = errors.New("comments_too_long")
	ErrInvalidFileURL  = errors.New("invalid_file_url")
	ErrInvalidIdeaID   = errors.New("invalid_id")
	ErrIdeaNotFound    = errors.New("not_found")
	ErrDuplicateRecord = errors.New("duplicate_record")
)
