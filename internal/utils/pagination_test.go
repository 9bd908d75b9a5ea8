package utils

import (
	"encoding/json"
	"math"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaginationParams(t *testing.T) {
	tests := []struct {
		page, limit         int
		wantPage, wantLimit int
	}{
		{0, 0, 1, 10},
		{-3, 5, 1, 5},
		{2, 25, 2, 25},
		{1, 1000, 1, 100},
	}
	for _, tt := range tests {
		p := NewPaginationParams(tt.page, tt.limit)
		assert.Equal(t, tt.wantPage, p.Page)
		assert.Equal(t, tt.wantLimit, p.Limit)
	}
}

func TestHugePageDoesNotOverflow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/models?page=9223372036854775807&limit=10", nil)

	params := GetPaginationParams(c)
	assert.Equal(t, math.MaxInt32/10, params.Page)
	assert.GreaterOrEqual(t, params.Offset(), 0)
	assert.LessOrEqual(t, params.Offset(), math.MaxInt32)

	p := NewPage([]int{}, 3, params)
	assert.Equal(t, 1, p.TotalPages)
	assert.False(t, p.HasNextPage)
	assert.True(t, p.HasPrevPage)

	for _, limit := range []int{1, 7, MaxPageLimit} {
		params := NewPaginationParams(math.MaxInt, limit)
		assert.GreaterOrEqual(t, params.Offset(), 0, "limit %d", limit)
		assert.False(t, NewPage([]int{}, 50, params).HasNextPage, "limit %d", limit)
	}
}

func TestGetPaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/models?page=abc&limit=3", nil)

	p := GetPaginationParams(c)
	assert.Equal(t, PaginationParams{Page: 1, Limit: 3}, p)
}

func TestNewPageMetadata(t *testing.T) {
	for total := int64(1); total <= 35; total++ {
		for limit := 1; limit <= 12; limit++ {
			lastPage := int((total + int64(limit) - 1) / int64(limit))
			for page := 1; page <= lastPage+1; page++ {
				params := NewPaginationParams(page, limit)
				start := int64(params.Offset())
				n := int64(0)
				if start < total {
					n = min(int64(limit), total-start)
				}
				docs := make([]int, n)

				p := NewPage(docs, total, params)

				assert.LessOrEqual(t, len(p.Docs), limit)
				assert.Equal(t, lastPage, p.TotalPages)
				assert.Equal(t, int64(page*limit) < total, p.HasNextPage)
				assert.Equal(t, page > 1, p.HasPrevPage)
			}
		}
	}
}

func TestNewPageEmptyShortCircuit(t *testing.T) {
	p := NewPage[int](nil, 0, NewPaginationParams(4, 10))

	assert.Equal(t, Page[int]{Docs: []int{}, TotalDocs: 0, Limit: 10, TotalPages: 0, Page: 4}, p)
	assert.False(t, p.HasPrevPage)

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"docs":[],"totalDocs":0,"limit":10,"totalPages":0,"page":4,"hasNextPage":false,"hasPrevPage":false}`, string(raw))
}

func TestNewPageNilDocsSerializeAsArray(t *testing.T) {
	p := NewPage[string](nil, 12, NewPaginationParams(5, 10))

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"docs":[]`)
	assert.True(t, p.HasPrevPage)
	assert.False(t, p.HasNextPage)
}
