// File: internal/common/pagination.go
package common

import "github.com/gin-gonic/gin"

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PaginationQuery holds the page window from the query string. Absent
// parameters are filled from the default tags during binding; Offset
// and Limit clamp whatever arrives into range.
type PaginationQuery struct {
	Page     int `form:"page,default=1"`
	PageSize int `form:"page_size,default=10"`
}

// GetPaginationParams extracts a clamped page window from the request.
// Unparseable input falls back to the defaults rather than failing the
// request.
func GetPaginationParams(c *gin.Context) (page, pageSize int) {
	var pq PaginationQuery
	if err := c.ShouldBindQuery(&pq); err != nil {
		return DefaultPage, DefaultPageSize
	}
	if pq.Page <= 0 {
		pq.Page = DefaultPage
	}
	return pq.Page, pq.Limit()
}

// Offset calculates the offset for database queries.
func (pq *PaginationQuery) Offset() int {
	if pq.Page <= 0 {
		pq.Page = DefaultPage
	}
	return (pq.Page - 1) * pq.Limit()
}

// Limit calculates the limit for database queries.
func (pq *PaginationQuery) Limit() int {
	if pq.PageSize <= 0 {
		pq.PageSize = DefaultPageSize
	}
	if pq.PageSize > MaxPageSize {
		pq.PageSize = MaxPageSize
	}
	return pq.PageSize
}
