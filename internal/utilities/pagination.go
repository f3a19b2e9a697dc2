package utilities

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// Pagination is the 1-indexed page window of a list query. Invalid or
// non-numeric input never reaches the store: both fields are coerced to
// positive integers with defaults page=1, limit=10.
type Pagination struct {
	Page  int
	Limit int
}

// ParsePagination reads page/limit query params defensively
func ParsePagination(c *gin.Context) Pagination {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}

	return Pagination{Page: page, Limit: limit}
}

// Offset converts the 1-indexed page to a row offset
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// TotalPages returns ceil(count/limit) for the result envelope
func (p Pagination) TotalPages(count int64) int64 {
	if count <= 0 {
		return 0
	}
	return (count + int64(p.Limit) - 1) / int64(p.Limit)
}
