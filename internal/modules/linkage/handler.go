package linkage

import (
	"github.com/gin-gonic/gin"
	"github.com/vietlabour/portal/internal/models"
	"github.com/vietlabour/portal/internal/pkg/response"
)

type linkPublicationDTO struct {
	PublicationID string `json:"publicationId" binding:"required"`
}

type linkKeywordsDTO struct {
	KeywordIDs []string `json:"keywordIds" binding:"required"`
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterAdminRoutes mounts the scholar-scoped association routes and the
// maintenance endpoint under the admin group.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	scholars := rg.Group("/scholars/:id")
	scholars.GET("/publications", h.listPublications)
	scholars.POST("/publications", h.link)
	scholars.DELETE("/publications", h.unlink)
	scholars.POST("/keywords", h.linkKeywords)
	scholars.DELETE("/keywords", h.unlinkKeywords)

	rg.POST("/maintenance/reconcile", h.reconcile)
}

// listPublications returns every publication currently linked to the scholar.
func (h *Handler) listPublications(c *gin.Context) {
	scholarID := c.Param("id")
	if _, err := h.svc.scholarByID(scholarID); err != nil {
		response.Error(c, err)
		return
	}

	var pubs []models.PublicationModel
	if err := h.svc.db.Where("scholar_id = ?", scholarID).
		Order("year DESC, created_at DESC").
		Find(&pubs).Error; err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, pubs)
}

func (h *Handler) link(c *gin.Context) {
	var dto linkPublicationDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.svc.LinkPublication(c.Param("id"), dto.PublicationID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "publication linked"})
}

func (h *Handler) unlink(c *gin.Context) {
	var dto linkPublicationDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.svc.UnlinkPublication(c.Param("id"), dto.PublicationID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "publication unlinked"})
}

func (h *Handler) linkKeywords(c *gin.Context) {
	var dto linkKeywordsDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	scholar, err := h.svc.LinkKeywords(c.Param("id"), dto.KeywordIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, scholar)
}

func (h *Handler) unlinkKeywords(c *gin.Context) {
	var dto linkKeywordsDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	scholar, err := h.svc.UnlinkKeywords(c.Param("id"), dto.KeywordIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, scholar)
}

func (h *Handler) reconcile(c *gin.Context) {
	result, err := h.svc.ReconcileAll()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}
