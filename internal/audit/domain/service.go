package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/ideabox/pkg/db/pagination"
	"gorm.io/gorm"
)

// Entry describes an operation to record. The actor and request id are
// taken from the context.
type Entry struct {
	Action     string
	TargetType string
	TargetIDs  []string
	Metadata   map[string]any
}

type ListAuditLogRequest struct {
	Limit  *int
	Offset *int
	Action string
}

type ListAuditLogResponse struct {
	Items      []AuditLog          `json:"items"`
	Pagination pagination.PageInfo `json:"pagination"`
}

type Service interface {
	// Record writes on tx when non-nil so the entry commits with the mutation.
	Record(ctx context.Context, tx *gorm.DB, entry Entry) error
	List(ctx context.Context, req ListAuditLogRequest) (ListAuditLogResponse, error)
}

var ErrInvalidAction = errors.New("invalid_action")
