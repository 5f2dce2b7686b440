package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	bulkdomain "github.com/smallbiznis/ideabox/internal/bulkops/domain"
)

type bulkStatusRequest struct {
	IDs    []string `json:"ids"`
	Status string   `json:"status"`
}

type bulkAssignRequest struct {
	IDs        []string `json:"ids"`
	AssigneeID string   `json:"assignee_id"`
}

func (s *Server) BulkUpdateStatus(c *gin.Context) {
	var req bulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.bulkSvc.UpdateStatus(c.Request.Context(), bulkdomain.StatusRequest{
		IDs:    req.IDs,
		Status: req.Status,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) BulkAssign(c *gin.Context) {
	var req bulkAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.bulkSvc.Assign(c.Request.Context(), bulkdomain.AssignRequest{
		IDs:        req.IDs,
		AssigneeID: req.AssigneeID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
