package domain

import (
	"time"

	"gorm.io/datatypes"
)

const (
	ActionBulkStatus = "idea.bulk_status"
	ActionBulkAssign = "idea.bulk_assign"
	ActionExport     = "idea.export"

	TargetIdea = "idea"
)

// AuditLog is an append-only record of a privileged operation.
type AuditLog struct {
	ID         string            `gorm:"primaryKey;size:64" json:"id"`
	ActorID    string            `gorm:"size:64;not null;index" json:"actor_id"`
	ActorRole  string            `gorm:"size:32;not null" json:"actor_role"`
	Action     string            `gorm:"size:64;not null;index" json:"action"`
	TargetType string            `gorm:"size:32;not null" json:"target_type"`
	Metadata   datatypes.JSONMap `json:"metadata,omitempty"`
	RequestID  string            `gorm:"size:64" json:"request_id,omitempty"`
	CreatedAt  time.Time         `gorm:"not null;index" json:"created_at"`
}

func (AuditLog) TableName() string { return "audit_logs" }
