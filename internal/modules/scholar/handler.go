package scholar

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vietlabour/portal/internal/modules/keyword"
	"github.com/vietlabour/portal/internal/pkg/pagination"
	"github.com/vietlabour/portal/internal/pkg/response"
)

type Handler struct {
	svc      *Service
	keywords *keyword.Service
}

func NewHandler(svc *Service, keywords *keyword.Service) *Handler {
	return &Handler{svc: svc, keywords: keywords}
}

// RegisterRoutes mounts the public scholar directory routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	scholars := rg.Group("/scholars")
	scholars.GET("", h.list)
	scholars.GET("/occasional", h.occasional)
	scholars.GET("/:slug", h.getBySlug)
	scholars.GET("/:slug/publications", h.publications)
}

// RegisterAdminRoutes mounts scholar CRUD under the admin group.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	scholars := rg.Group("/scholars")
	scholars.GET("", h.adminList)
	scholars.POST("", h.create)
	scholars.GET("/:id", h.getByID)
	scholars.PUT("/:id", h.update)
	scholars.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)
	scholars, pag, err := h.svc.List(q, c.Query("q"), c.Query("sortBy"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paged(c, scholars, pag)
}

func (h *Handler) occasional(c *gin.Context) {
	q := pagination.FromContext(c)
	scholars, pag, err := h.svc.Occasional(q, c.Query("q"), c.Query("sortBy"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paged(c, scholars, pag)
}

// getBySlug returns the scholar profile with its keyword references resolved
// into embedded summaries.
func (h *Handler) getBySlug(c *gin.Context) {
	scholar, err := h.svc.GetBySlug(c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if scholar == nil {
		response.NotFound(c, "scholar not found")
		return
	}

	keywords, err := h.keywords.Summaries(scholar.KeywordIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"scholar": scholar, "keywords": keywords})
}

func (h *Handler) publications(c *gin.Context) {
	q := pagination.FromContext(c)

	var filters PublicationFilters
	if raw := strings.TrimSpace(c.Query("year")); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(c, "year must be an integer")
			return
		}
		filters.Year = &year
	}
	if raw := strings.TrimSpace(c.Query("type")); raw != "" {
		filters.Type = &raw
	}
	if raw := strings.TrimSpace(c.Query("isVietnamLabourRelated")); raw != "" {
		related, err := strconv.ParseBool(raw)
		if err != nil {
			response.BadRequest(c, "isVietnamLabourRelated must be a boolean")
			return
		}
		filters.Related = &related
	}

	scholar, pubs, pag, err := h.svc.PublicationsForScholar(c.Param("slug"), filters, q, c.Query("sortBy"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.PagedWith(c, pubs, pag, gin.H{"scholar": scholar.Summary()})
}

func (h *Handler) adminList(c *gin.Context) {
	q := pagination.FromContext(c)
	scholars, pag, err := h.svc.AdminList(q, c.Query("q"), c.Query("sortBy"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paged(c, scholars, pag)
}

func (h *Handler) getByID(c *gin.Context) {
	scholar, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if scholar == nil {
		response.NotFound(c, "scholar not found")
		return
	}
	response.OK(c, scholar)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateScholarDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	scholar, err := h.svc.Create(&dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, scholar)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateScholarDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	scholar, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, scholar)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
