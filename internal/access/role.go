package access

import (
	"context"
	"strings"

	"github.com/smallbiznis/ideabox/internal/identity"
)

// Role is the coarse permission level of a caller.
type Role string

const (
	RoleSubmitter Role = "submitter"
	RoleEvaluator Role = "evaluator"
	RoleAdmin     Role = "admin"
)

var AllRoles = []Role{RoleSubmitter, RoleEvaluator, RoleAdmin}

// CanReview reports whether the role sees every idea rather than only its own.
func (r Role) CanReview() bool {
	return r == RoleEvaluator || r == RoleAdmin
}

// ResolveRole derives a role from an email address. "admin" wins over
// "evaluator"/"eval"; anything else, including an empty email, is a submitter.
func ResolveRole(email string) Role {
	if email == "" {
		return RoleSubmitter
	}
	lower := strings.ToLower(email)
	switch {
	case strings.Contains(lower, "admin"):
		return RoleAdmin
	case strings.Contains(lower, "evaluator"), strings.Contains(lower, "eval"):
		return RoleEvaluator
	default:
		return RoleSubmitter
	}
}

// Resolver maps a verified identity to a role.
type Resolver interface {
	Resolve(ctx context.Context, id identity.Identity) (Role, error)
}

// EmailResolver applies ResolveRole to the identity's email.
type EmailResolver struct{}

func NewEmailResolver() Resolver { return EmailResolver{} }

func (EmailResolver) Resolve(_ context.Context, id identity.Identity) (Role, error) {
	return ResolveRole(id.Email), nil
}
