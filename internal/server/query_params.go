package server

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/ideabox/pkg/db/pagination"
)

func parseOptionalInt(value string) (*int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// pageQuery reads limit/offset; range checks happen in pagination.Resolve.
func pageQuery(c *gin.Context) (*int, *int, error) {
	limit, err := parseOptionalInt(c.Query("limit"))
	if err != nil {
		return nil, nil, pagination.ErrInvalidLimit
	}
	offset, err := parseOptionalInt(c.Query("offset"))
	if err != nil {
		return nil, nil, pagination.ErrInvalidOffset
	}
	return limit, offset, nil
}
