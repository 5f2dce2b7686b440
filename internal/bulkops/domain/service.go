package domain

import (
	"context"
	"errors"
	"strings"
)

// MaxBatchSize bounds the raw id list of every bulk request.
const MaxBatchSize = 100

type StatusRequest struct {
	IDs    []string
	Status string
}

type StatusResult struct {
	Updated int64 `json:"updated"`
}

type AssignRequest struct {
	IDs        []string
	AssigneeID string
}

type AssignResult struct {
	Assigned int64 `json:"assigned"`
}

type Service interface {
	UpdateStatus(context.Context, StatusRequest) (StatusResult, error)
	Assign(context.Context, AssignRequest) (AssignResult, error)
}

var (
	ErrInvalidIDs      = errors.New("invalid_ids")
	ErrBatchTooLarge   = errors.New("batch_too_large")
	ErrInvalidStatus   = errors.New("invalid_status")
	ErrInvalidAssignee = errors.New("invalid_assignee")
)

// NormalizeIDs validates a raw id list and returns it trimmed and de-duplicated
// in first-seen order. The size bound applies to the raw list.
func NormalizeIDs(ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, ErrInvalidIDs
	}
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			return nil, ErrInvalidIDs
		}
	}
	if len(ids) > MaxBatchSize {
		return nil, ErrBatchTooLarge
	}

	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}
