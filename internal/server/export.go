package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	exportdomain "github.com/smallbiznis/ideabox/internal/export/domain"
)

type exportRequest struct {
	IDs    []string `json:"ids"`
	Format string   `json:"format"`
}

func (s *Server) ExportIdeasByIDs(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	file, err := s.exportSvc.ByIDs(c.Request.Context(), req.IDs, exportdomain.Format(req.Format))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	writeExport(c, file)
}

func (s *Server) ExportIdeasByFilter(c *gin.Context) {
	limit, err := parseOptionalInt(c.Query("limit"))
	if err != nil {
		AbortWithError(c, exportdomain.ErrInvalidLimit)
		return
	}

	file, err := s.exportSvc.ByFilter(c.Request.Context(), exportdomain.FilterRequest{
		Status:   strings.TrimSpace(c.Query("status")),
		Category: strings.TrimSpace(c.Query("category")),
		Limit:    limit,
		Format:   exportdomain.Format(c.Query("format")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	writeExport(c, file)
}

func writeExport(c *gin.Context, file exportdomain.File) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	c.Header("X-Export-Id", file.ID)
	c.Header("X-Export-Rows", fmt.Sprintf("%d", file.Rows))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
