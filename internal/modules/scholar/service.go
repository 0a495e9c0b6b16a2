package scholar

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vietlabour/portal/internal/models"
	"github.com/vietlabour/portal/internal/pkg/apperr"
	"github.com/vietlabour/portal/internal/pkg/filterbuilder"
	"github.com/vietlabour/portal/internal/pkg/pagination"
	"github.com/vietlabour/portal/internal/pkg/response"
	"github.com/vietlabour/portal/internal/pkg/slug"
	"gorm.io/gorm"
)

type CreateScholarDTO struct {
	Slug                string   `json:"slug"`
	FullName            string   `json:"fullName" binding:"required"`
	Affiliation         string   `json:"affiliation"`
	Position            string   `json:"position"`
	Bio                 string   `json:"bio"`
	Avatar              string   `json:"avatar"`
	Email               string   `json:"email"`
	WebsiteURL          string   `json:"websiteUrl"`
	ScholarURL          string   `json:"scholarUrl"`
	Interests           []string `json:"interests"`
	Status              string   `json:"status"`
	FrequentContributor *bool    `json:"frequentContributor"`
	KeywordIDs          []string `json:"keywordIds"`
}

type UpdateScholarDTO struct {
	Slug                *string   `json:"slug"`
	FullName            *string   `json:"fullName"`
	Affiliation         *string   `json:"affiliation"`
	Position            *string   `json:"position"`
	Bio                 *string   `json:"bio"`
	Avatar              *string   `json:"avatar"`
	Email               *string   `json:"email"`
	WebsiteURL          *string   `json:"websiteUrl"`
	ScholarURL          *string   `json:"scholarUrl"`
	Interests           *[]string `json:"interests"`
	Status              *string   `json:"status"`
	FrequentContributor *bool     `json:"frequentContributor"`
	KeywordIDs          *[]string `json:"keywordIds"`
}

// PublicationFilters narrows the publications listed for a scholar.
type PublicationFilters struct {
	Year    *int
	Type    *string
	Related *bool
}

// Service handles scholar directory queries and admin CRUD.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

var directorySortOrders = map[string]string{
	"relevance":    "frequent_contributor DESC, publication_count DESC, created_at DESC",
	"name":         "full_name ASC",
	"publications": "publication_count DESC, created_at DESC",
	"affiliation":  "affiliation ASC, full_name ASC",
}

func directoryOrder(sortBy, def string) (string, error) {
	if sortBy == "" {
		sortBy = def
	}
	order, ok := directorySortOrders[sortBy]
	if !ok {
		return "", apperr.Validationf("unknown sortBy %q", sortBy)
	}
	return order, nil
}

// List returns active scholars, optionally filtered by a free-text query
// across name, affiliation, position and interests.
func (s *Service) List(q pagination.Query, search, sortBy string) ([]models.ScholarModel, response.Pagination, error) {
	return s.listWithStatus(q, search, sortBy, "relevance", nil)
}

// Occasional returns active scholars not flagged as frequent contributors.
func (s *Service) Occasional(q pagination.Query, search, sortBy string) ([]models.ScholarModel, response.Pagination, error) {
	frequent := false
	return s.listWithStatus(q, search, sortBy, "name", &frequent)
}

// AdminList returns all scholars regardless of status.
func (s *Service) AdminList(q pagination.Query, search, sortBy string) ([]models.ScholarModel, response.Pagination, error) {
	order, err := directoryOrder(sortBy, "name")
	if err != nil {
		return nil, response.Pagination{}, err
	}
	tx := s.db.Model(&models.ScholarModel{}).Order(order)
	return s.finishList(tx, q, search)
}

func (s *Service) listWithStatus(q pagination.Query, search, sortBy, defaultSort string, frequent *bool) ([]models.ScholarModel, response.Pagination, error) {
	order, err := directoryOrder(sortBy, defaultSort)
	if err != nil {
		return nil, response.Pagination{}, err
	}

	tx := s.db.Model(&models.ScholarModel{}).
		Where("status = ?", models.ScholarStatusActive).
		Order(order)
	if frequent != nil {
		tx = tx.Where("frequent_contributor = ?", *frequent)
	}
	return s.finishList(tx, q, search)
}

func (s *Service) finishList(tx *gorm.DB, q pagination.Query, search string) ([]models.ScholarModel, response.Pagination, error) {

	fb := filterbuilder.New("normalized_name", "full_name", "affiliation", "position", "interests").
		Text(search, "normalized_name", "affiliation", "position", "interests")
	tx, err := fb.Apply(tx)
	if err != nil {
		return nil, response.Pagination{}, err
	}

	var scholars []models.ScholarModel
	pag, err := pagination.Paginate(tx, q, &scholars)
	return scholars, pag, err
}

// GetBySlug fetches an active scholar by slug. Hidden scholars are invisible
// on the public surface.
func (s *Service) GetBySlug(scholarSlug string) (*models.ScholarModel, error) {
	var scholar models.ScholarModel
	err := s.db.Where("slug = ? AND status = ?", scholarSlug, models.ScholarStatusActive).First(&scholar).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &scholar, nil
}

func (s *Service) GetByID(id string) (*models.ScholarModel, error) {
	var scholar models.ScholarModel
	if err := s.db.First(&scholar, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &scholar, nil
}

var publicationSortOrders = map[string]string{
	"year":      "year DESC, created_at DESC",
	"title":     "title ASC",
	"citations": "citations DESC, year DESC",
}

// PublicationsForScholar lists the publications linked to an active scholar,
// filtered by year, type and the Vietnam-labour relation flag.
func (s *Service) PublicationsForScholar(scholarSlug string, filters PublicationFilters, q pagination.Query, sortBy string) (*models.ScholarModel, []models.PublicationModel, response.Pagination, error) {
	if sortBy == "" {
		sortBy = "year"
	}
	order, ok := publicationSortOrders[sortBy]
	if !ok {
		return nil, nil, response.Pagination{}, apperr.Validationf("unknown sortBy %q", sortBy)
	}

	scholar, err := s.GetBySlug(scholarSlug)
	if err != nil {
		return nil, nil, response.Pagination{}, err
	}
	if scholar == nil {
		return nil, nil, response.Pagination{}, apperr.NotFoundf("scholar %s not found", scholarSlug)
	}

	fb := filterbuilder.New("scholar_id", "year", "type", "is_vietnam_labour_related").
		Eq("scholar_id", scholar.ID)
	if filters.Year != nil {
		fb.Eq("year", *filters.Year)
	}
	if filters.Type != nil {
		normalized, ok := models.NormalizePublicationType(*filters.Type)
		if !ok {
			return nil, nil, response.Pagination{}, apperr.Validationf("unknown publication type %q", *filters.Type)
		}
		fb.Eq("type", normalized)
	}
	if filters.Related != nil {
		fb.Eq("is_vietnam_labour_related", *filters.Related)
	}

	tx, err := fb.Apply(s.db.Model(&models.PublicationModel{}).Order(order))
	if err != nil {
		return nil, nil, response.Pagination{}, err
	}

	var pubs []models.PublicationModel
	pag, err := pagination.Paginate(tx, q, &pubs)
	return scholar, pubs, pag, err
}

// resolveSlug derives a unique scholar slug, appending -1, -2, … on
// collision. Same scheme as keyword slugs.
func (s *Service) resolveSlug(candidate string) (string, error) {
	base := slug.Normalize(candidate)
	if base == "" {
		base = "scholar"
	}
	for i := 0; ; i++ {
		try := base
		if i > 0 {
			try = fmt.Sprintf("%s-%d", base, i)
		}
		var count int64
		if err := s.db.Unscoped().Model(&models.ScholarModel{}).Where("slug = ?", try).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return try, nil
		}
	}
}

func validStatus(status string) bool {
	return status == models.ScholarStatusActive || status == models.ScholarStatusHidden
}

// Create inserts a new scholar. The slug is derived from the full name when
// not provided; an explicit slug must be free.
func (s *Service) Create(dto *CreateScholarDTO) (*models.ScholarModel, error) {
	fullName := strings.TrimSpace(dto.FullName)
	if fullName == "" {
		return nil, apperr.Validationf("fullName is required")
	}

	status := dto.Status
	if status == "" {
		status = models.ScholarStatusActive
	}
	if !validStatus(status) {
		return nil, apperr.Validationf("status must be active or hidden")
	}

	scholarSlug := strings.TrimSpace(dto.Slug)
	if scholarSlug == "" {
		resolved, err := s.resolveSlug(fullName)
		if err != nil {
			return nil, err
		}
		scholarSlug = resolved
	} else {
		var count int64
		if err := s.db.Unscoped().Model(&models.ScholarModel{}).Where("slug = ?", scholarSlug).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, apperr.Conflictf("scholar slug %q already exists", scholarSlug)
		}
	}

	scholar := models.ScholarModel{
		Slug:           scholarSlug,
		FullName:       fullName,
		NormalizedName: strings.ToLower(fullName),
		Affiliation:    dto.Affiliation,
		Position:       dto.Position,
		Bio:            dto.Bio,
		Avatar:         dto.Avatar,
		Email:          dto.Email,
		WebsiteURL:     dto.WebsiteURL,
		ScholarURL:     dto.ScholarURL,
		Interests:      models.StringArray(dto.Interests),
		Status:         status,
		KeywordIDs:     models.StringArray(dto.KeywordIDs),
	}
	if dto.FrequentContributor != nil {
		scholar.FrequentContributor = *dto.FrequentContributor
	}
	return &scholar, s.db.Create(&scholar).Error
}

// Update applies partial changes to a scholar.
func (s *Service) Update(id string, dto *UpdateScholarDTO) (*models.ScholarModel, error) {
	scholar, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if scholar == nil {
		return nil, apperr.NotFoundf("scholar %s not found", id)
	}

	updates := map[string]interface{}{}
	if dto.FullName != nil {
		fullName := strings.TrimSpace(*dto.FullName)
		if fullName == "" {
			return nil, apperr.Validationf("fullName cannot be empty")
		}
		updates["full_name"] = fullName
		updates["normalized_name"] = strings.ToLower(fullName)
	}
	if dto.Slug != nil {
		newSlug := strings.TrimSpace(*dto.Slug)
		if newSlug == "" {
			return nil, apperr.Validationf("slug cannot be empty")
		}
		if newSlug != scholar.Slug {
			var count int64
			if err := s.db.Unscoped().Model(&models.ScholarModel{}).Where("slug = ? AND id <> ?", newSlug, id).Count(&count).Error; err != nil {
				return nil, err
			}
			if count > 0 {
				return nil, apperr.Conflictf("scholar slug %q already exists", newSlug)
			}
			updates["slug"] = newSlug
		}
	}
	if dto.Status != nil {
		if !validStatus(*dto.Status) {
			return nil, apperr.Validationf("status must be active or hidden")
		}
		updates["status"] = *dto.Status
	}
	if dto.Affiliation != nil {
		updates["affiliation"] = *dto.Affiliation
	}
	if dto.Position != nil {
		updates["position"] = *dto.Position
	}
	if dto.Bio != nil {
		updates["bio"] = *dto.Bio
	}
	if dto.Avatar != nil {
		updates["avatar"] = *dto.Avatar
	}
	if dto.Email != nil {
		updates["email"] = *dto.Email
	}
	if dto.WebsiteURL != nil {
		updates["website_url"] = *dto.WebsiteURL
	}
	if dto.ScholarURL != nil {
		updates["scholar_url"] = *dto.ScholarURL
	}
	if dto.Interests != nil {
		updates["interests"] = models.StringArray(*dto.Interests)
	}
	if dto.FrequentContributor != nil {
		updates["frequent_contributor"] = *dto.FrequentContributor
	}
	if dto.KeywordIDs != nil {
		updates["keyword_ids"] = models.StringArray(*dto.KeywordIDs)
	}

	if len(updates) == 0 {
		return scholar, nil
	}
	if err := s.db.Model(scholar).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// Delete removes a scholar after unlinking its publications. The publications
// survive as standalone records.
func (s *Service) Delete(id string) error {
	scholar, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if scholar == nil {
		return apperr.NotFoundf("scholar %s not found", id)
	}

	if err := s.db.Model(&models.PublicationModel{}).
		Where("scholar_id = ?", id).
		Update("scholar_id", nil).Error; err != nil {
		return err
	}
	return s.db.Delete(&models.ScholarModel{}, "id = ?", id).Error
}
