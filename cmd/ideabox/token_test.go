package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/smallbiznis/ideabox/internal/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenCommandIssuesVerifiableToken(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("AUTH_JWT_SECRET", "cli-secret")
	t.Setenv("AUTH_JWT_ISSUER", "")

	cmd := tokenCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--subject", "user-7", "--email", "evaluator@x.com"})
	require.NoError(t, cmd.Execute())

	verifier, err := identity.NewJWTVerifier("cli-secret", "")
	require.NoError(t, err)
	id, err := verifier.Verify(context.Background(), strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, identity.Identity{SubjectID: "user-7", Email: "evaluator@x.com"}, id)
}

func TestTokenCommandRefusedInProduction(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("AUTH_JWT_SECRET", "cli-secret")

	cmd := tokenCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--subject", "user-7"})
	assert.Error(t, cmd.Execute())
}

func TestTokenCommandRequiresSubject(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "cli-secret")

	cmd := tokenCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})
	assert.Error(t, cmd.Execute())
}
