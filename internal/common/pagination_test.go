// File: internal/common/pagination_test.go
package common

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestGetPaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name     string
		query    string
		page     int
		pageSize int
	}{
		{"defaults when absent", "", 1, 10},
		{"explicit values", "page=3&page_size=25", 3, 25},
		{"page size clamped to max", "page=2&page_size=500", 2, 100},
		{"garbage falls back to defaults", "page=abc&page_size=xyz", 1, 10},
		{"non-positive values fall back", "page=0&page_size=-5", 1, 10},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/?"+tc.query, nil)

			page, pageSize := GetPaginationParams(c)
			assert.Equal(t, tc.page, page)
			assert.Equal(t, tc.pageSize, pageSize)
		})
	}
}

func TestPaginationQuery_OffsetAndLimit(t *testing.T) {
	pq := PaginationQuery{Page: 3, PageSize: 20}
	assert.Equal(t, 40, pq.Offset())
	assert.Equal(t, 20, pq.Limit())

	// Out-of-range values clamp instead of producing bad SQL windows.
	pq = PaginationQuery{Page: 0, PageSize: 0}
	assert.Equal(t, 0, pq.Offset())
	assert.Equal(t, DefaultPageSize, pq.Limit())

	pq = PaginationQuery{Page: 1, PageSize: 1000}
	assert.Equal(t, MaxPageSize, pq.Limit())
}
