package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vietlabour/portal/internal/pkg/response"
	"gorm.io/gorm"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Query holds parsed pagination parameters. Pages are 1-indexed.
type Query struct {
	Page  int
	Limit int
}

// FromContext extracts and clamps page/limit from the request query string.
func FromContext(c *gin.Context) Query {
	page := parseIntOr(c.DefaultQuery("page", "1"), DefaultPage)
	limit := parseIntOr(c.DefaultQuery("limit", "10"), DefaultLimit)

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Query{Page: page, Limit: limit}
}

// Offset returns the row offset for this page.
func (q Query) Offset() int { return (q.Page - 1) * q.Limit }

// Meta computes the pagination block for a known total.
func (q Query) Meta(total int64) response.Pagination {
	pages := int((total + int64(q.Limit) - 1) / int64(q.Limit))
	return response.Pagination{Page: q.Page, Limit: q.Limit, Total: total, Pages: pages}
}

// Paginate counts the query, applies offset/limit, and fills dest with the
// requested page.
func Paginate[T any](tx *gorm.DB, q Query, dest *[]T) (response.Pagination, error) {
	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return response.Pagination{}, err
	}

	if err := tx.Offset(q.Offset()).Limit(q.Limit).Find(dest).Error; err != nil {
		return response.Pagination{}, err
	}

	return q.Meta(total), nil
}

func parseIntOr(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
