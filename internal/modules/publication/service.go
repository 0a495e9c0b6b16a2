package publication

import (
	"errors"
	"strings"
	"time"

	"github.com/vietlabour/portal/internal/models"
	"github.com/vietlabour/portal/internal/modules/linkage"
	"github.com/vietlabour/portal/internal/pkg/apperr"
	"github.com/vietlabour/portal/internal/pkg/filterbuilder"
	"github.com/vietlabour/portal/internal/pkg/pagination"
	"github.com/vietlabour/portal/internal/pkg/response"
	"gorm.io/gorm"
)

type CreatePublicationDTO struct {
	Title          string   `json:"title" binding:"required"`
	Authors        []string `json:"authors" binding:"required"`
	Year           int      `json:"year" binding:"required"`
	Type           string   `json:"type"`
	CitationDetail string   `json:"citationDetail"`
	Abstract       string   `json:"abstract"`
	Quote          string   `json:"quote"`
	DOI            string   `json:"doi"`
	URL            string   `json:"url"`
	Citations      int      `json:"citations"`

	IsVietnamLabourRelated *bool    `json:"isVietnamLabourRelated"`
	KeywordIDs             []string `json:"keywordIds"`
	Tags                   []string `json:"tags"`
}

type UpdatePublicationDTO struct {
	Title          *string   `json:"title"`
	Authors        *[]string `json:"authors"`
	Year           *int      `json:"year"`
	Type           *string   `json:"type"`
	CitationDetail *string   `json:"citationDetail"`
	Abstract       *string   `json:"abstract"`
	Quote          *string   `json:"quote"`
	DOI            *string   `json:"doi"`
	URL            *string   `json:"url"`
	Citations      *int      `json:"citations"`

	IsVietnamLabourRelated *bool     `json:"isVietnamLabourRelated"`
	KeywordIDs             *[]string `json:"keywordIds"`
	Tags                   *[]string `json:"tags"`
}

// ListQuery narrows the admin publication listing.
type ListQuery struct {
	Q         string
	Year      *int
	Type      *string
	Related   *bool
	ScholarID *string
	SortBy    string
}

// Service handles publication CRUD. Publications are created standalone and
// linked to scholars through the linkage service.
type Service struct {
	db      *gorm.DB
	linkage *linkage.Service
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// SetLinkage wires the linkage service for counter recounts on delete.
func (s *Service) SetLinkage(l *linkage.Service) { s.linkage = l }

func yearInRange(year int) bool {
	return year >= 1800 && year <= time.Now().Year()+1
}

// optionalString normalizes an empty string to absent.
func optionalString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

var listSortOrders = map[string]string{
	"year":      "year DESC, created_at DESC",
	"title":     "title ASC",
	"citations": "citations DESC, year DESC",
	"created":   "created_at DESC",
}

// List returns publications paginated, filtered by the admin query.
func (s *Service) List(q pagination.Query, lq ListQuery) ([]models.PublicationModel, response.Pagination, error) {
	sortBy := lq.SortBy
	if sortBy == "" {
		sortBy = "year"
	}
	order, ok := listSortOrders[sortBy]
	if !ok {
		return nil, response.Pagination{}, apperr.Validationf("unknown sortBy %q", sortBy)
	}

	fb := filterbuilder.New("title", "authors", "year", "type", "is_vietnam_labour_related", "scholar_id").
		Text(lq.Q, "title", "authors")
	if lq.Year != nil {
		fb.Eq("year", *lq.Year)
	}
	if lq.Type != nil {
		normalized, ok := models.NormalizePublicationType(*lq.Type)
		if !ok {
			return nil, response.Pagination{}, apperr.Validationf("unknown publication type %q", *lq.Type)
		}
		fb.Eq("type", normalized)
	}
	if lq.Related != nil {
		fb.Eq("is_vietnam_labour_related", *lq.Related)
	}
	if lq.ScholarID != nil {
		fb.Eq("scholar_id", *lq.ScholarID)
	}

	tx, err := fb.Apply(s.db.Model(&models.PublicationModel{}).Order(order))
	if err != nil {
		return nil, response.Pagination{}, err
	}

	var pubs []models.PublicationModel
	pag, err := pagination.Paginate(tx, q, &pubs)
	return pubs, pag, err
}

func (s *Service) GetByID(id string) (*models.PublicationModel, error) {
	var pub models.PublicationModel
	if err := s.db.First(&pub, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pub, nil
}

// Create inserts a standalone, unlinked publication.
func (s *Service) Create(dto *CreatePublicationDTO) (*models.PublicationModel, error) {
	title := strings.TrimSpace(dto.Title)
	if title == "" {
		return nil, apperr.Validationf("title is required")
	}
	if len(dto.Authors) == 0 {
		return nil, apperr.Validationf("authors is required")
	}
	if !yearInRange(dto.Year) {
		return nil, apperr.Validationf("year %d is out of range", dto.Year)
	}

	pubType := models.PublicationTypeOther
	if dto.Type != "" {
		normalized, ok := models.NormalizePublicationType(dto.Type)
		if !ok {
			return nil, apperr.Validationf("unknown publication type %q", dto.Type)
		}
		pubType = normalized
	}

	pub := models.PublicationModel{
		Title:          title,
		Authors:        models.StringArray(dto.Authors),
		Year:           dto.Year,
		Type:           pubType,
		CitationDetail: dto.CitationDetail,
		Abstract:       dto.Abstract,
		Quote:          dto.Quote,
		DOI:            optionalString(dto.DOI),
		URL:            optionalString(dto.URL),
		Citations:      dto.Citations,
		KeywordIDs:     models.StringArray(dto.KeywordIDs),
		Tags:           models.StringArray(dto.Tags),
	}
	if dto.IsVietnamLabourRelated != nil {
		pub.IsVietnamLabourRelated = *dto.IsVietnamLabourRelated
	}
	return &pub, s.db.Create(&pub).Error
}

// Update applies partial changes. Changing the relation flag on a linked
// publication recounts the owner's counters.
func (s *Service) Update(id string, dto *UpdatePublicationDTO) (*models.PublicationModel, error) {
	pub, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if pub == nil {
		return nil, apperr.NotFoundf("publication %s not found", id)
	}

	updates := map[string]interface{}{}
	if dto.Title != nil {
		title := strings.TrimSpace(*dto.Title)
		if title == "" {
			return nil, apperr.Validationf("title cannot be empty")
		}
		updates["title"] = title
	}
	if dto.Authors != nil {
		if len(*dto.Authors) == 0 {
			return nil, apperr.Validationf("authors cannot be empty")
		}
		updates["authors"] = models.StringArray(*dto.Authors)
	}
	if dto.Year != nil {
		if !yearInRange(*dto.Year) {
			return nil, apperr.Validationf("year %d is out of range", *dto.Year)
		}
		updates["year"] = *dto.Year
	}
	if dto.Type != nil {
		normalized, ok := models.NormalizePublicationType(*dto.Type)
		if !ok {
			return nil, apperr.Validationf("unknown publication type %q", *dto.Type)
		}
		updates["type"] = normalized
	}
	if dto.CitationDetail != nil {
		updates["citation_detail"] = *dto.CitationDetail
	}
	if dto.Abstract != nil {
		updates["abstract"] = *dto.Abstract
	}
	if dto.Quote != nil {
		updates["quote"] = *dto.Quote
	}
	if dto.DOI != nil {
		updates["doi"] = optionalString(*dto.DOI)
	}
	if dto.URL != nil {
		updates["url"] = optionalString(*dto.URL)
	}
	if dto.Citations != nil {
		updates["citations"] = *dto.Citations
	}
	if dto.IsVietnamLabourRelated != nil {
		updates["is_vietnam_labour_related"] = *dto.IsVietnamLabourRelated
	}
	if dto.KeywordIDs != nil {
		updates["keyword_ids"] = models.StringArray(*dto.KeywordIDs)
	}
	if dto.Tags != nil {
		updates["tags"] = models.StringArray(*dto.Tags)
	}

	if len(updates) == 0 {
		return pub, nil
	}
	if err := s.db.Model(pub).Updates(updates).Error; err != nil {
		return nil, err
	}

	if pub.ScholarID != nil && s.linkage != nil && dto.IsVietnamLabourRelated != nil {
		if err := s.linkage.Recount(*pub.ScholarID); err != nil {
			return nil, err
		}
	}
	return s.GetByID(id)
}

// Delete removes a publication. A linked owner's counters are recounted
// afterwards.
func (s *Service) Delete(id string) error {
	pub, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if pub == nil {
		return apperr.NotFoundf("publication %s not found", id)
	}

	if err := s.db.Delete(&models.PublicationModel{}, "id = ?", id).Error; err != nil {
		return err
	}
	if pub.ScholarID != nil && s.linkage != nil {
		return s.linkage.Recount(*pub.ScholarID)
	}
	return nil
}
