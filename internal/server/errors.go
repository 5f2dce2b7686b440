package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/ideabox/internal/access"
	auditdomain "github.com/smallbiznis/ideabox/internal/audit/domain"
	bulkdomain "github.com/smallbiznis/ideabox/internal/bulkops/domain"
	evaluationdomain "github.com/smallbiznis/ideabox/internal/evaluation/domain"
	exportdomain "github.com/smallbiznis/ideabox/internal/export/domain"
	ideadomain "github.com/smallbiznis/ideabox/internal/idea/domain"
	"github.com/smallbiznis/ideabox/internal/identity"
	"github.com/smallbiznis/ideabox/pkg/db/pagination"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type          string            `json:"type"`
	Message       string            `json:"message"`
	Errors        []ValidationError `json:"errors,omitempty"`
	AttemptedRole string            `json:"attempted_role,omitempty"`
	RequiredRoles []string          `json:"required_roles,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not_found")
	ErrRateLimited  = errors.New("rate_limited")
	ErrUnavailable  = errors.New("service_unavailable")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	var denied *access.DeniedError
	if errors.As(err, &denied) {
		required := make([]string, 0, len(denied.Required))
		for _, role := range denied.Required {
			required = append(required, string(role))
		}
		return http.StatusForbidden, errorPayload{
			Type:          "forbidden",
			Message:       "role is not permitted for this operation",
			AttemptedRole: string(denied.Attempted),
			RequiredRoles: required,
		}
	}

	if isValidationError(err) {
		code := err.Error()
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, access.ErrUnauthenticated),
		errors.Is(err, identity.ErrMissingCredential),
		errors.Is(err, identity.ErrInvalidCredential):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, ideadomain.ErrNotOwner):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case errors.Is(err, ideadomain.ErrNotEditable):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "idea is not editable in its current status",
		}
	case errors.Is(err, ideadomain.ErrDuplicateID),
		errors.Is(err, evaluationdomain.ErrDuplicateRecord):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "resource already exists",
		}
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "rate_limited",
			Message: "too many bulk requests, retry later",
		}
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "service unavailable",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, pagination.ErrInvalidLimit),
		errors.Is(err, pagination.ErrInvalidOffset):
		return true
	case isIdeaValidationError(err),
		isEvaluationValidationError(err),
		isBulkValidationError(err),
		isExportValidationError(err),
		errors.Is(err, auditdomain.ErrInvalidAction):
		return true
	default:
		return false
	}
}

func isIdeaValidationError(err error) bool {
	switch {
	case errors.Is(err, ideadomain.ErrInvalidID),
		errors.Is(err, ideadomain.ErrInvalidTitle),
		errors.Is(err, ideadomain.ErrInvalidDescription),
		errors.Is(err, ideadomain.ErrInvalidCategory),
		errors.Is(err, ideadomain.ErrInvalidStatus):
		return true
	default:
		return false
	}
}

func isEvaluationValidationError(err error) bool {
	switch {
	case errors.Is(err, evaluationdomain.ErrMissingFields),
		errors.Is(err, evaluationdomain.ErrInvalidStatus),
		errors.Is(err, evaluationdomain.ErrCommentsTooLong),
		errors.Is(err, evaluationdomain.ErrInvalidFileURL),
		errors.Is(err, evaluationdomain.ErrInvalidIdeaID):
		return true
	default:
		return false
	}
}

func isBulkValidationError(err error) bool {
	switch {
	case errors.Is(err, bulkdomain.ErrInvalidIDs),
		errors.Is(err, bulkdomain.ErrBatchTooLarge),
		errors.Is(err, bulkdomain.ErrInvalidStatus),
		errors.Is(err, bulkdomain.ErrInvalidAssignee):
		return true
	default:
		return false
	}
}

func isExportValidationError(err error) bool {
	switch {
	case errors.Is(err, exportdomain.ErrBatchTooLarge),
		errors.Is(err, exportdomain.ErrInvalidStatus),
		errors.Is(err, exportdomain.ErrInvalidLimit),
		errors.Is(err, exportdomain.ErrInvalidFormat):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ideadomain.ErrNotFound),
		errors.Is(err, evaluationdomain.ErrIdeaNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

var validationFields = map[string]string{
	"missing_fields":    "status",
	"comments_too_long": "comments",
	"invalid_file_url":  "file_url",
	"invalid_ids":       "ids",
	"batch_too_large":   "ids",
	"invalid_assignee":  "assignee_id",
}

func validationErrorField(code string) string {
	if field, ok := validationFields[code]; ok {
		return field
	}
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	case "missing_fields":
		return "status and comments are required"
	case "comments_too_long":
		return "comments must be at most 500 characters"
	case "batch_too_large":
		return "at most 100 ids per request"
	case "invalid_limit":
		return "limit must be between 1 and 100"
	case "invalid_offset":
		return "offset must not be negative"
	default:
		return "invalid value"
	}
}

// classifyErrorForLog returns the error type and code written to the request log.
func classifyErrorForLog(err error) (string, string) {
	if err == nil {
		return "", ""
	}
	_, payload := mapError(err)
	code := payload.Type
	if len(payload.Errors) > 0 {
		code = payload.Errors[0].Code
	} else if payload.Type != "internal_error" {
		code = err.Error()
		var denied *access.DeniedError
		if errors.As(err, &denied) {
			code = "role_denied"
		}
	}
	return payload.Type, code
}
