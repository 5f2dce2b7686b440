package domain

import (
	"time"

	ideadomain "github.com/smallbiznis/ideabox/internal/idea/domain"
	"github.com/smallbiznis/ideabox/pkg/db/pagination"
)

// Record is one immutable evaluation decision. Records are never updated or deleted.
type Record struct {
	ID          string            `gorm:"primaryKey;size:64" json:"id"`
	IdeaID      string            `gorm:"size:64;not null;index" json:"idea_id"`
	EvaluatorID string            `gorm:"size:64;not null;index" json:"evaluator_id"`
	Status      ideadomain.Status `gorm:"size:32;not null" json:"status"`
	Comments    string            `gorm:"type:text;not null" json:"comments"`
	FileURL     *string           `gorm:"size:2048" json:"file_url,omitempty"`
	CreatedAt   time.Time         `gorm:"not null;index" json:"created_at"`
}

func (Record) TableName() string { return "evaluation_records" }

// QueueItem is an open idea with its waiting time computed at read time.
type QueueItem struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Category    string            `json:"category"`
	Status      ideadomain.Status `json:"status"`
	OwnerID     string            `json:"owner_id"`
	OwnerEmail  string            `json:"owner_email"`
	AssigneeID  *string           `json:"assignee_id,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	DaysInQueue int               `json:"days_in_queue"`
}

type QueuePage struct {
	Items      []QueueItem         `json:"items"`
	Pagination pagination.PageInfo `json:"pagination"`
}
