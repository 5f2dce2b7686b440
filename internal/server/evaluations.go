package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	evaluationdomain "github.com/smallbiznis/ideabox/internal/evaluation/domain"
)

type submitEvaluationRequest struct {
	Status   string `json:"status"`
	Comments string `json:"comments"`
	FileURL  string `json:"file_url"`
}

func (s *Server) ListEvaluationQueue(c *gin.Context) {
	limit, offset, err := pageQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.evaluationSvc.Queue(c.Request.Context(), evaluationdomain.QueueRequest{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) SubmitEvaluation(c *gin.Context) {
	var req submitEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	record, err := s.evaluationSvc.Submit(c.Request.Context(), evaluationdomain.SubmitRequest{
		IdeaID:   strings.TrimSpace(c.Param("id")),
		Status:   req.Status,
		Comments: req.Comments,
		FileURL:  req.FileURL,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": record})
}

func (s *Server) ListEvaluationHistory(c *gin.Context) {
	records, err := s.evaluationSvc.History(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": records})
}
