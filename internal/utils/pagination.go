// internal/utils/pagination.go
package utils

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

type PaginationParams struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// NewPaginationParams normalizes raw values: page is clamped to at least 1 and
// limit falls back to the default when missing or non-positive. Page is also
// capped so the offset fits in an int32; any page that far out is empty.
func NewPaginationParams(page, limit int) PaginationParams {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if maxPage := math.MaxInt32 / limit; page > maxPage {
		page = maxPage
	}
	return PaginationParams{Page: page, Limit: limit}
}

func GetPaginationParams(c *gin.Context) PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultPageLimit)))
	return NewPaginationParams(page, limit)
}

func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

func ApplyPagination(db *gorm.DB, params PaginationParams) *gorm.DB {
	return db.Offset(params.Offset()).Limit(params.Limit)
}

// Page is the paginated envelope returned by every listing.
type Page[T any] struct {
	Docs        []T   `json:"docs"`
	TotalDocs   int64 `json:"totalDocs"`
	Limit       int   `json:"limit"`
	TotalPages  int   `json:"totalPages"`
	Page        int   `json:"page"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// EmptyPage is the result for a query with no matches, whatever page was asked for.
func EmptyPage[T any](params PaginationParams) Page[T] {
	return Page[T]{
		Docs:  []T{},
		Limit: params.Limit,
		Page:  params.Page,
	}
}

func NewPage[T any](docs []T, total int64, params PaginationParams) Page[T] {
	if total == 0 {
		return EmptyPage[T](params)
	}
	if docs == nil {
		docs = []T{}
	}

	limit := int64(params.Limit)
	totalPages := int((total + limit - 1) / limit)
	return Page[T]{
		Docs:        docs,
		TotalDocs:   total,
		Limit:       params.Limit,
		TotalPages:  totalPages,
		Page:        params.Page,
		HasNextPage: params.Page < totalPages,
		HasPrevPage: params.Page > 1,
	}
}

func SetPaginationHeaders[T any](c *gin.Context, page Page[T]) {
	c.Header("X-Total-Count", strconv.FormatInt(page.TotalDocs, 10))
	c.Header("X-Page", strconv.Itoa(page.Page))
	c.Header("X-Per-Page", strconv.Itoa(page.Limit))
	c.Header("X-Total-Pages", strconv.Itoa(page.TotalPages))
}
