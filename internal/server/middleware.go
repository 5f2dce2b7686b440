package server

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/ideabox/internal/access"
	"github.com/smallbiznis/ideabox/internal/identity"
	obscontext "github.com/smallbiznis/ideabox/internal/observability/context"
	"github.com/smallbiznis/ideabox/internal/observability/logger"
	"go.uber.org/zap"
)

const bearerPrefix = "bearer "

// RequireAuth verifies the bearer credential and stores the identity on the request context.
func (s *Server) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			AbortWithError(c, identity.ErrMissingCredential)
			return
		}

		id, err := s.verifier.Verify(c.Request.Context(), raw)
		if err != nil {
			if !errors.Is(err, identity.ErrMissingCredential) && !errors.Is(err, identity.ErrInvalidCredential) {
				err = errors.Join(identity.ErrInvalidCredential, err)
			}
			AbortWithError(c, err)
			return
		}

		c.Request = c.Request.WithContext(identity.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

// RequireRole admits callers whose resolved role is in roles. Denied
// requests never reach the next handler.
func (s *Server) RequireRole(roles ...access.Role) gin.HandlerFunc {
	allowed := append([]access.Role(nil), roles...)
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		id, ok := identity.FromContext(ctx)
		if !ok {
			AbortWithError(c, access.ErrUnauthenticated)
			return
		}

		principal, err := access.Authorize(ctx, s.resolver, id, allowed)
		if err != nil {
			var denied *access.DeniedError
			if errors.As(err, &denied) {
				s.recordDenied(c, denied)
			}
			AbortWithError(c, err)
			return
		}

		ctx = access.WithPrincipal(ctx, principal)
		ctx = obscontext.WithActor(ctx, principal.SubjectID, string(principal.Role))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// AnyRole admits every authenticated caller and resolves its principal.
func (s *Server) AnyRole() gin.HandlerFunc {
	return s.RequireRole(access.AllRoles...)
}

func (s *Server) recordDenied(c *gin.Context, denied *access.DeniedError) {
	route := c.FullPath()
	if route == "" {
		route = "unknown"
	}
	role := string(denied.Attempted)

	s.obsMetrics.RecordAccessDenied(c.Request.Context(), role, route)
	if s.httpMetrics != nil {
		s.httpMetrics.ObserveDenied(route, role)
	}
	logger.FromContext(c.Request.Context()).Warn("access_denied",
		zap.String("route", route),
		zap.String("attempted_role", role),
		zap.Any("required_roles", denied.Required),
	)
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(header[len(bearerPrefix):])
}

func principalFrom(c *gin.Context) (access.Principal, bool) {
	return access.PrincipalFromContext(c.Request.Context())
}
