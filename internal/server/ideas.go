package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	ideadomain "github.com/smallbiznis/ideabox/internal/idea/domain"
)

type createIdeaRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Status      string `json:"status"`
}

type updateIdeaRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
}

func (s *Server) CreateIdea(c *gin.Context) {
	var req createIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.ideaSvc.Create(c.Request.Context(), ideadomain.CreateIdeaRequest{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Status:      req.Status,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListIdeas(c *gin.Context) {
	limit, offset, err := pageQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.ideaSvc.List(c.Request.Context(), ideadomain.ListIdeaRequest{
		Limit:    limit,
		Offset:   offset,
		Status:   strings.TrimSpace(c.Query("status")),
		Category: strings.TrimSpace(c.Query("category")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetIdeaByID(c *gin.Context) {
	resp, err := s.ideaSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateIdea(c *gin.Context) {
	var req updateIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.ideaSvc.Update(c.Request.Context(), ideadomain.UpdateIdeaRequest{
		ID:          strings.TrimSpace(c.Param("id")),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteIdea(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.ideaSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"id": id, "deleted": true}})
}
