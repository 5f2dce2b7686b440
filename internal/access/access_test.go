package access

import (
	"context"
	"errors"
	"testing"

	"github.com/smallbiznis/ideabox/internal/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRole(t *testing.T) {
	cases := []struct {
		email string
		want  Role
	}{
		{email: "", want: RoleSubmitter},
		{email: "alice@x.com", want: RoleSubmitter},
		{email: "admin@x.com", want: RoleAdmin},
		{email: "ADMIN@X.COM", want: RoleAdmin},
		{email: "evaluator@x.com", want: RoleEvaluator},
		{email: "eval.team@x.com", want: RoleEvaluator},
		{email: "evaluator-admin@x.com", want: RoleAdmin},
		{email: "medieval@x.com", want: RoleEvaluator},
		{email: "badministrator@x.com", want: RoleAdmin},
	}
	for _, tc := range cases {
		t.Run(tc.email, func(t *testing.T) {
			assert.Equal(t, tc.want, ResolveRole(tc.email))
		})
	}
}

func TestResolveRoleIsDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		assert.Equal(t, RoleEvaluator, ResolveRole("Evaluator@x.com"))
	}
}

func TestAuthorizeAllowed(t *testing.T) {
	id := identity.Identity{SubjectID: "u-1", Email: "evaluator@x.com"}

	p, err := Authorize(context.Background(), EmailResolver{}, id, []Role{RoleEvaluator, RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, Principal{SubjectID: "u-1", Email: "evaluator@x.com", Role: RoleEvaluator}, p)
}

func TestAuthorizeDenied(t *testing.T) {
	id := identity.Identity{SubjectID: "u-1", Email: "alice@x.com"}

	_, err := Authorize(context.Background(), EmailResolver{}, id, []Role{RoleEvaluator, RoleAdmin})

	var denied *DeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, RoleSubmitter, denied.Attempted)
	assert.Equal(t, []Role{RoleEvaluator, RoleAdmin}, denied.Required)
}

func TestAuthorizeUnauthenticated(t *testing.T) {
	_, err := Authorize(context.Background(), EmailResolver{}, identity.Identity{}, AllRoles)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

type failingResolver struct{}

func (failingResolver) Resolve(context.Context, identity.Identity) (Role, error) {
	return "", errors.New("directory unavailable")
}

func TestAuthorizeResolverFailureIsNotDenial(t *testing.T) {
	id := identity.Identity{SubjectID: "u-1", Email: "admin@x.com"}

	_, err := Authorize(context.Background(), failingResolver{}, id, AllRoles)
	require.Error(t, err)

	var denied *DeniedError
	assert.False(t, errors.As(err, &denied))
}

func TestPrincipalContext(t *testing.T) {
	_, ok := PrincipalFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithPrincipal(context.Background(), Principal{SubjectID: "u-1", Role: RoleAdmin})
	p, ok := PrincipalFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, RoleAdmin, p.Role)
}
