package server

import (
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/ideabox/internal/observability/logger"
	"go.uber.org/zap"
)

// BulkRateLimit throttles bulk mutations and exports per principal. It runs
// after the role gate so denied callers never consume tokens.
func (s *Server) BulkRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.Enabled() {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		principal, ok := principalFrom(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		endpoint := strings.TrimSpace(c.FullPath())
		if endpoint == "" {
			endpoint = "unknown"
		}

		res, err := s.limiter.Allow(ctx, principal.SubjectID)
		if err != nil {
			logger.FromContext(ctx).Warn("bulk rate limit check failed", zap.String("endpoint", endpoint), zap.Error(err))
			AbortWithError(c, ErrUnavailable)
			return
		}
		if !res.Allowed {
			logger.FromContext(ctx).Warn("bulk rate limit exceeded", zap.String("endpoint", endpoint))
			s.obsMetrics.RecordRateLimited(ctx, endpoint)

			retry := int(math.Ceil(res.RetryAfter.Seconds()))
			if retry < 1 {
				retry = 1
			}
			c.Header("Retry-After", strconv.Itoa(retry))
			AbortWithError(c, ErrRateLimited)
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		c.Next()
	}
}
