package domain

import (
	"strings"
	"time"
)

type Status string

const (
	StatusDraft         Status = "DRAFT"
	StatusSubmitted     Status = "SUBMITTED"
	StatusUnderReview   Status = "UNDER_REVIEW"
	StatusNeedsRevision Status = "NEEDS_REVISION"
	StatusAccepted      Status = "ACCEPTED"
	StatusRejected      Status = "REJECTED"

	// StatusApproved is accepted on input only and stored as ACCEPTED.
	StatusApproved Status = "APPROVED"
)

var (
	allStatuses = []Status{
		StatusDraft,
		StatusSubmitted,
		StatusUnderReview,
		StatusNeedsRevision,
		StatusAccepted,
		StatusRejected,
	}
	// OpenStatuses are the statuses shown in the evaluation queue.
	OpenStatuses = []Status{StatusSubmitted, StatusUnderReview}
	// EditableStatuses are the statuses in which the owner may edit or delete.
	EditableStatuses = []Status{StatusDraft, StatusSubmitted}
)

// ParseStatus normalizes s and maps the APPROVED alias to ACCEPTED.
func ParseStatus(s string) (Status, bool) {
	candidate := Status(strings.ToUpper(strings.TrimSpace(s)))
	if candidate == StatusApproved {
		return StatusAccepted, true
	}
	for _, status := range allStatuses {
		if status == candidate {
			return status, true
		}
	}
	return "", false
}

// IsDecision reports whether an evaluator may record s as an outcome.
func (s Status) IsDecision() bool {
	return s == StatusAccepted || s == StatusRejected || s == StatusNeedsRevision
}

func (s Status) IsEditable() bool {
	return s == StatusDraft || s == StatusSubmitted
}

type Idea struct {
	ID          string    `gorm:"primaryKey;size:64" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Category    string    `gorm:"size:100;not null;index" json:"category"`
	Status      Status    `gorm:"size:32;not null;index" json:"status"`
	OwnerID     string    `gorm:"size:64;not null;index" json:"owner_id"`
	OwnerEmail  string    `gorm:"size:320" json:"owner_email"`
	AssigneeID  *string   `gorm:"size:64;index" json:"assignee_id,omitempty"`
	CreatedAt   time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (Idea) TableName() string { return "ideas" }
