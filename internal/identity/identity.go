package identity

import (
	"context"
	"errors"
)

var (
	ErrMissingCredential = errors.New("missing_credential")
	ErrInvalidCredential = errors.New("invalid_credential")
)

// Identity is the verified caller as asserted by the bearer credential.
type Identity struct {
	SubjectID string
	Email     string
}

// Verifier validates a raw bearer credential.
type Verifier interface {
	Verify(ctx context.Context, raw string) (Identity, error)
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
