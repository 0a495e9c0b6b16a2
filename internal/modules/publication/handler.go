package publication

import (
	"strconv"
	"strings"

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

// RegisterAdminRoutes mounts publication CRUD under the admin group.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	pubs := rg.Group("/publications")
	pubs.GET("", h.list)
	pubs.POST("", h.create)
	pubs.GET("/:id", h.getByID)
	pubs.PUT("/:id", h.update)
	pubs.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)

	lq := ListQuery{Q: c.Query("q"), SortBy: c.Query("sortBy")}
	if raw := strings.TrimSpace(c.Query("year")); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(c, "year must be an integer")
			return
		}
		lq.Year = &year
	}
	if raw := strings.TrimSpace(c.Query("type")); raw != "" {
		lq.Type = &raw
	}
	if raw := strings.TrimSpace(c.Query("isVietnamLabourRelated")); raw != "" {
		related, err := strconv.ParseBool(raw)
		if err != nil {
			response.BadRequest(c, "isVietnamLabourRelated must be a boolean")
			return
		}
		lq.Related = &related
	}
	if raw := strings.TrimSpace(c.Query("scholarId")); raw != "" {
		lq.ScholarID = &raw
	}

	pubs, pag, err := h.svc.List(q, lq)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paged(c, pubs, pag)
}

func (h *Handler) getByID(c *gin.Context) {
	pub, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if pub == nil {
		response.NotFound(c, "publication not found")
		return
	}
	response.OK(c, pub)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreatePublicationDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	pub, err := h.svc.Create(&dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, pub)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdatePublicationDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	pub, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, pub)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
