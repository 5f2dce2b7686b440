package access

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/smallbiznis/ideabox/internal/identity"
)

var ErrUnauthenticated = errors.New("unauthenticated")

// DeniedError is returned when the caller's role is outside the allowed set.
type DeniedError struct {
	Attempted Role
	Required  []Role
}

func (e *DeniedError) Error() string {
	required := make([]string, 0, len(e.Required))
	for _, role := range e.Required {
		required = append(required, string(role))
	}
	return fmt.Sprintf("role %q is not permitted, requires one of [%s]", e.Attempted, strings.Join(required, ", "))
}

// Principal is the request-scoped caller, fixed once the gate has passed.
type Principal struct {
	SubjectID string `json:"subject_id"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
}

// Authorize resolves the caller's role and checks it against allowed.
// Resolver failures are returned as-is and are not denials.
func Authorize(ctx context.Context, resolver Resolver, id identity.Identity, allowed []Role) (Principal, error) {
	if strings.TrimSpace(id.SubjectID) == "" {
		return Principal{}, ErrUnauthenticated
	}
	if resolver == nil {
		return Principal{}, errors.New("access: resolver is not configured")
	}

	role, err := resolver.Resolve(ctx, id)
	if err != nil {
		return Principal{}, fmt.Errorf("resolve role: %w", err)
	}

	for _, candidate := range allowed {
		if candidate == role {
			return Principal{SubjectID: id.SubjectID, Email: id.Email, Role: role}, nil
		}
	}

	required := make([]Role, len(allowed))
	copy(required, allowed)
	return Principal{}, &DeniedError{Attempted: role, Required: required}
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
