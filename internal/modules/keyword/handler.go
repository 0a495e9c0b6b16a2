package keyword

import (
	"github.com/gin-gonic/gin"
	"github.com/vietlabour/portal/internal/pkg/pagination"
	"github.com/vietlabour/portal/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the public keyword routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	kws := rg.Group("/keywords")
	kws.GET("", h.list)
	kws.GET("/:slug", h.getBySlug)
	kws.GET("/:slug/scholars", h.scholars)
}

// RegisterAdminRoutes mounts keyword CRUD under the admin group.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	kws := rg.Group("/keywords")
	kws.GET("", h.adminList)
	kws.POST("", h.create)
	kws.GET("/:id", h.getByID)
	kws.PUT("/:id", h.update)
	kws.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)
	kws, pag, err := h.svc.List(q, c.Query("q"), true)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paged(c, kws, pag)
}

func (h *Handler) adminList(c *gin.Context) {
	q := pagination.FromContext(c)
	kws, pag, err := h.svc.List(q, c.Query("q"), false)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paged(c, kws, pag)
}

func (h *Handler) getBySlug(c *gin.Context) {
	kw, err := h.svc.GetBySlug(c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if kw == nil {
		response.NotFound(c, "keyword not found")
		return
	}
	response.OK(c, kw)
}

// scholars lists the active scholars tagged with the keyword identified by
// slug, sorted by relevance/name/publications.
func (h *Handler) scholars(c *gin.Context) {
	q := pagination.FromContext(c)
	kw, scholars, pag, err := h.svc.ScholarsBySlug(c.Param("slug"), q, c.Query("sortBy"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if kw == nil {
		response.NotFound(c, "keyword not found")
		return
	}
	response.PagedWith(c, scholars, pag, gin.H{"keyword": kw})
}

func (h *Handler) getByID(c *gin.Context) {
	kw, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if kw == nil {
		response.NotFound(c, "keyword not found")
		return
	}
	response.OK(c, kw)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateKeywordDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	kw, err := h.svc.Create(&dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, kw)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateKeywordDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	kw, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, kw)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
