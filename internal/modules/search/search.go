// Package search implements the public keyword-driven scholar search: the
// query is resolved to matching approved keywords, then fanned out to the
// scholars tagged with any of them.
package search

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vietlabour/portal/internal/models"
	"github.com/vietlabour/portal/internal/modules/keyword"
	"github.com/vietlabour/portal/internal/pkg/pagination"
	"github.com/vietlabour/portal/internal/pkg/response"
	"gorm.io/gorm"
)

// Result is one page of search output.
type Result struct {
	Scholars []models.ScholarModel   `json:"scholars"`
	Keywords []models.KeywordSummary `json:"keywords"`
}

type Service struct {
	db       *gorm.DB
	keywords *keyword.Service
}

func NewService(db *gorm.DB, keywords *keyword.Service) *Service {
	return &Service{db: db, keywords: keywords}
}

// Search resolves query against approved keywords and returns the active
// scholars tagged with any matching keyword. No matching keyword (including
// an empty query) yields an empty page, not an error.
func (s *Service) Search(query string, q pagination.Query) (*Result, response.Pagination, error) {
	empty := &Result{Scholars: []models.ScholarModel{}, Keywords: []models.KeywordSummary{}}

	query = strings.TrimSpace(query)
	if query == "" {
		return empty, q.Meta(0), nil
	}

	matched, err := s.keywords.Search(query, true)
	if err != nil {
		return nil, response.Pagination{}, err
	}
	if len(matched) == 0 {
		return empty, q.Meta(0), nil
	}

	summaries := make([]models.KeywordSummary, 0, len(matched))
	likes := make([]string, 0, len(matched))
	args := make([]interface{}, 0, len(matched))
	for _, kw := range matched {
		summaries = append(summaries, kw.Summary())
		likes = append(likes, "keyword_ids LIKE ?")
		args = append(args, `%"`+kw.ID+`"%`)
	}

	tx := s.db.Model(&models.ScholarModel{}).
		Where("status = ?", models.ScholarStatusActive).
		Where("("+strings.Join(likes, " OR ")+")", args...).
		Order("frequent_contributor DESC, publication_count DESC, created_at DESC")

	var scholars []models.ScholarModel
	pag, err := pagination.Paginate(tx, q, &scholars)
	if err != nil {
		return nil, response.Pagination{}, err
	}

	return &Result{Scholars: scholars, Keywords: summaries}, pag, nil
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/search", h.search)
}

func (h *Handler) search(c *gin.Context) {
	q := pagination.FromContext(c)
	result, pag, err := h.svc.Search(c.Query("q"), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.PagedWith(c, result.Scholars, pag, gin.H{"keywords": result.Keywords})
}
