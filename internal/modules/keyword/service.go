package keyword

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

type CreateKeywordDTO struct {
	Name        string   `json:"name" binding:"required"`
	DisplayName string   `json:"displayName"`
	Aliases     []string `json:"aliases"`
	Description string   `json:"description"`
	IsApproved  *bool    `json:"isApproved"`
}

type UpdateKeywordDTO struct {
	Name        *string   `json:"name"`
	DisplayName *string   `json:"displayName"`
	Aliases     *[]string `json:"aliases"`
	Description *string   `json:"description"`
	IsApproved  *bool     `json:"isApproved"`
}

// Service implements the keyword resolver: CRUD, free-text matching and
// URL-safe slug disambiguation.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ResolveSlug normalizes candidate into a URL-safe slug and appends -1, -2, …
// until the slug is free. Counts include soft-deleted rows so the unique
// index can never collide.
func (s *Service) ResolveSlug(candidate string) (string, error) {
	base := slug.Normalize(candidate)
	if base == "" {
		base = "keyword"
	}

	for i := 0; ; i++ {
		try := base
		if i > 0 {
			try = fmt.Sprintf("%s-%d", base, i)
		}
		var count int64
		if err := s.db.Unscoped().Model(&models.KeywordModel{}).Where("slug = ?", try).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return try, nil
		}
	}
}

// Search returns keywords whose name, display name, description or any alias
// contains query, case-insensitively. An empty query returns no keywords;
// callers that want "no filter" must not call Search at all.
func (s *Service) Search(query string, approvedOnly bool) ([]models.KeywordModel, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	pattern := "%" + filterbuilder.EscapeLike(strings.ToLower(query)) + "%"
	tx := s.db.Model(&models.KeywordModel{}).Where(
		"LOWER(name) LIKE ? ESCAPE '\\' OR LOWER(display_name) LIKE ? ESCAPE '\\' OR LOWER(description) LIKE ? ESCAPE '\\' OR LOWER(aliases) LIKE ? ESCAPE '\\'",
		pattern, pattern, pattern, pattern,
	)
	if approvedOnly {
		tx = tx.Where("is_approved = ?", true)
	}

	var kws []models.KeywordModel
	return kws, tx.Order("display_name ASC").Find(&kws).Error
}

// Create persists a new keyword. Name collisions are a conflict; slug
// collisions are resolved by ResolveSlug.
func (s *Service) Create(dto *CreateKeywordDTO) (*models.KeywordModel, error) {
	name := strings.TrimSpace(dto.Name)
	if name == "" {
		return nil, apperr.Validationf("name is required")
	}

	var count int64
	if err := s.db.Unscoped().Model(&models.KeywordModel{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperr.Conflictf("keyword name %q already exists", name)
	}

	displayName := strings.TrimSpace(dto.DisplayName)
	if displayName == "" {
		displayName = name
	}

	resolved, err := s.ResolveSlug(displayName)
	if err != nil {
		return nil, err
	}

	kw := models.KeywordModel{
		Name:        name,
		DisplayName: displayName,
		Slug:        resolved,
		Aliases:     models.StringArray(dto.Aliases),
		Description: dto.Description,
		IsApproved:  true,
	}
	if dto.IsApproved != nil {
		kw.IsApproved = *dto.IsApproved
	}
	return &kw, s.db.Create(&kw).Error
}

// List returns keywords paginated, optionally restricted to approved ones
// and filtered by a free-text query.
func (s *Service) List(q pagination.Query, search string, approvedOnly bool) ([]models.KeywordModel, response.Pagination, error) {
	tx := s.db.Model(&models.KeywordModel{}).Order("display_name ASC")
	if approvedOnly {
		tx = tx.Where("is_approved = ?", true)
	}

	fb := filterbuilder.New("name", "display_name", "description", "aliases").
		Text(search, "name", "display_name", "description", "aliases")
	tx, err := fb.Apply(tx)
	if err != nil {
		return nil, response.Pagination{}, err
	}

	var kws []models.KeywordModel
	pag, err := pagination.Paginate(tx, q, &kws)
	return kws, pag, err
}

func (s *Service) GetByID(id string) (*models.KeywordModel, error) {
	var kw models.KeywordModel
	if err := s.db.First(&kw, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &kw, nil
}

// GetBySlug returns the approved keyword with the exact slug, or nil.
func (s *Service) GetBySlug(kwSlug string) (*models.KeywordModel, error) {
	var kw models.KeywordModel
	if err := s.db.Where("slug = ? AND is_approved = ?", kwSlug, true).First(&kw).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &kw, nil
}

// Update applies partial changes. A changed display name re-runs slug
// resolution; a changed name re-checks uniqueness.
func (s *Service) Update(id string, dto *UpdateKeywordDTO) (*models.KeywordModel, error) {
	kw, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if kw == nil {
		return nil, apperr.NotFoundf("keyword %s not found", id)
	}

	updates := map[string]interface{}{}
	if dto.Name != nil {
		name := strings.TrimSpace(*dto.Name)
		if name == "" {
			return nil, apperr.Validationf("name cannot be empty")
		}
		if name != kw.Name {
			var count int64
			if err := s.db.Unscoped().Model(&models.KeywordModel{}).Where("name = ? AND id <> ?", name, id).Count(&count).Error; err != nil {
				return nil, err
			}
			if count > 0 {
				return nil, apperr.Conflictf("keyword name %q already exists", name)
			}
			updates["name"] = name
		}
	}
	if dto.DisplayName != nil {
		displayName := strings.TrimSpace(*dto.DisplayName)
		if displayName == "" {
			return nil, apperr.Validationf("displayName cannot be empty")
		}
		if displayName != kw.DisplayName {
			resolved, err := s.ResolveSlug(displayName)
			if err != nil {
				return nil, err
			}
			updates["display_name"] = displayName
			updates["slug"] = resolved
		}
	}
	if dto.Aliases != nil {
		updates["aliases"] = models.StringArray(*dto.Aliases)
	}
	if dto.Description != nil {
		updates["description"] = *dto.Description
	}
	if dto.IsApproved != nil {
		updates["is_approved"] = *dto.IsApproved
	}

	if len(updates) == 0 {
		return kw, nil
	}
	if err := s.db.Model(kw).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// Delete removes a keyword and strips its id from every scholar and
// publication keyword set.
func (s *Service) Delete(id string) error {
	kw, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if kw == nil {
		return apperr.NotFoundf("keyword %s not found", id)
	}

	if err := s.db.Delete(&models.KeywordModel{}, "id = ?", id).Error; err != nil {
		return err
	}

	like := `%"` + id + `"%`

	var scholars []models.ScholarModel
	if err := s.db.Where("keyword_ids LIKE ?", like).Find(&scholars).Error; err != nil {
		return err
	}
	for i := range scholars {
		trimmed := scholars[i].KeywordIDs.Difference([]string{id})
		if err := s.db.Model(&scholars[i]).Update("keyword_ids", trimmed).Error; err != nil {
			return err
		}
	}

	var pubs []models.PublicationModel
	if err := s.db.Where("keyword_ids LIKE ?", like).Find(&pubs).Error; err != nil {
		return err
	}
	for i := range pubs {
		trimmed := pubs[i].KeywordIDs.Difference([]string{id})
		if err := s.db.Model(&pubs[i]).Update("keyword_ids", trimmed).Error; err != nil {
			return err
		}
	}
	return nil
}

// Summaries resolves keyword ids into their embedded reference shape,
// preserving the order of ids. Unknown ids are skipped.
func (s *Service) Summaries(ids []string) ([]models.KeywordSummary, error) {
	if len(ids) == 0 {
		return []models.KeywordSummary{}, nil
	}
	var kws []models.KeywordModel
	if err := s.db.Where("id IN ?", []string(ids)).Find(&kws).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]models.KeywordModel, len(kws))
	for _, kw := range kws {
		byID[kw.ID] = kw
	}
	out := make([]models.KeywordSummary, 0, len(ids))
	for _, id := range ids {
		if kw, ok := byID[id]; ok {
			out = append(out, kw.Summary())
		}
	}
	return out, nil
}

var scholarsSortOrders = map[string]string{
	"relevance":    "related_publication_count DESC, publication_count DESC, created_at DESC",
	"name":         "full_name ASC",
	"publications": "publication_count DESC, created_at DESC",
}

// ScholarsBySlug returns the approved keyword with the given slug and the
// active scholars tagged with it. An unknown slug returns a nil keyword and
// an empty page; the handler decides the status code.
func (s *Service) ScholarsBySlug(kwSlug string, q pagination.Query, sortBy string) (*models.KeywordModel, []models.ScholarModel, response.Pagination, error) {
	if sortBy == "" {
		sortBy = "relevance"
	}
	order, ok := scholarsSortOrders[sortBy]
	if !ok {
		return nil, nil, response.Pagination{}, apperr.Validationf("unknown sortBy %q", sortBy)
	}

	kw, err := s.GetBySlug(kwSlug)
	if err != nil {
		return nil, nil, response.Pagination{}, err
	}
	if kw == nil {
		return nil, []models.ScholarModel{}, q.Meta(0), nil
	}

	tx := s.db.Model(&models.ScholarModel{}).
		Where("status = ?", models.ScholarStatusActive).
		Where("keyword_ids LIKE ?", `%"`+kw.ID+`"%`).
		Order(order)

	var scholars []models.ScholarModel
	pag, err := pagination.Paginate(tx, q, &scholars)
	return kw, scholars, pag, err
}
