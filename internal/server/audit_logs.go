package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/smallbiznis/ideabox/internal/audit/domain"
)

func (s *Server) ListAuditLogs(c *gin.Context) {
	limit, offset, err := pageQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.auditSvc.List(c.Request.Context(), auditdomain.ListAuditLogRequest{
		Limit:  limit,
		Offset: offset,
		Action: strings.TrimSpace(c.Query("action")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
