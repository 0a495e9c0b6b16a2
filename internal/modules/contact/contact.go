// Package contact handles contact-form intake and the admin inbox.
package contact

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vietlabour/portal/internal/models"
	"github.com/vietlabour/portal/internal/pkg/apperr"
	"github.com/vietlabour/portal/internal/pkg/pagination"
	"github.com/vietlabour/portal/internal/pkg/response"
	"gorm.io/gorm"
)

type CreateContactDTO struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Subject string `json:"subject"`
	Message string `json:"message" binding:"required"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Create(dto *CreateContactDTO) (*models.ContactModel, error) {
	if !strings.Contains(dto.Email, "@") {
		return nil, apperr.Validationf("email is invalid")
	}
	msg := models.ContactModel{
		Name:    strings.TrimSpace(dto.Name),
		Email:   strings.TrimSpace(dto.Email),
		Subject: strings.TrimSpace(dto.Subject),
		Message: dto.Message,
	}
	return &msg, s.db.Create(&msg).Error
}

func (s *Service) List(q pagination.Query, unreadOnly bool) ([]models.ContactModel, response.Pagination, error) {
	tx := s.db.Model(&models.ContactModel{}).Order("created_at DESC")
	if unreadOnly {
		tx = tx.Where("is_read = ?", false)
	}
	var msgs []models.ContactModel
	pag, err := pagination.Paginate(tx, q, &msgs)
	return msgs, pag, err
}

func (s *Service) MarkRead(id string) (*models.ContactModel, error) {
	var msg models.ContactModel
	if err := s.db.First(&msg, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("contact message %s not found", id)
		}
		return nil, err
	}
	if err := s.db.Model(&msg).Update("is_read", true).Error; err != nil {
		return nil, err
	}
	msg.IsRead = true
	return &msg, nil
}

func (s *Service) Delete(id string) error {
	res := s.db.Delete(&models.ContactModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFoundf("contact message %s not found", id)
	}
	return nil
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/contact", h.create)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	msgs := rg.Group("/contacts")
	msgs.GET("", h.list)
	msgs.PATCH("/:id/read", h.markRead)
	msgs.DELETE("/:id", h.delete)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateContactDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	msg, err := h.svc.Create(&dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, msg)
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)
	msgs, pag, err := h.svc.List(q, c.Query("unread") == "true")
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paged(c, msgs, pag)
}

func (h *Handler) markRead(c *gin.Context) {
	msg, err := h.svc.MarkRead(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, msg)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
