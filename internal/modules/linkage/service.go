package linkage

import (
	"errors"

	"github.com/vietlabour/portal/internal/models"
	"github.com/vietlabour/portal/internal/pkg/apperr"
	"github.com/vietlabour/portal/internal/pkg/metrics"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service maintains the scholar↔publication and scholar↔keyword associations
// and keeps the denormalized publication counters consistent.
//
// Counter recomputation is always a full recount from the store after each
// mutation, never an incremental adjustment. Link/unlink are low-frequency
// admin actions, so the extra read is cheap and the counters self-heal even
// when a prior write was only partially applied.
type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewService(db *gorm.DB, log *zap.Logger) *Service {
	return &Service{db: db, log: log}
}

func (s *Service) scholarByID(id string) (*models.ScholarModel, error) {
	var scholar models.ScholarModel
	if err := s.db.First(&scholar, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("scholar %s not found", id)
		}
		return nil, err
	}
	return &scholar, nil
}

func (s *Service) publicationByID(id string) (*models.PublicationModel, error) {
	var pub models.PublicationModel
	if err := s.db.First(&pub, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("publication %s not found", id)
		}
		return nil, err
	}
	return &pub, nil
}

// LinkPublication assigns the publication to the scholar and recounts the
// scholar's publication counters.
func (s *Service) LinkPublication(scholarID, publicationID string) error {
	scholar, err := s.scholarByID(scholarID)
	if err != nil {
		return err
	}
	pub, err := s.publicationByID(publicationID)
	if err != nil {
		return err
	}

	previousOwner := pub.ScholarID

	if err := s.db.Model(pub).Update("scholar_id", scholar.ID).Error; err != nil {
		return err
	}
	if err := s.Recount(scholar.ID); err != nil {
		return err
	}
	// Re-linking steals the publication; the previous owner's counters must
	// also be recounted.
	if previousOwner != nil && *previousOwner != scholar.ID {
		if err := s.Recount(*previousOwner); err != nil {
			return err
		}
	}

	metrics.LinkOperations.WithLabelValues("link").Inc()
	return nil
}

// UnlinkPublication clears the association and recounts the counters. The
// publication must currently belong to the given scholar; the record itself
// is never deleted.
func (s *Service) UnlinkPublication(scholarID, publicationID string) error {
	scholar, err := s.scholarByID(scholarID)
	if err != nil {
		return err
	}
	pub, err := s.publicationByID(publicationID)
	if err != nil {
		return err
	}
	if pub.ScholarID == nil || *pub.ScholarID != scholar.ID {
		return apperr.NotFoundf("publication %s is not linked to scholar %s", publicationID, scholarID)
	}

	if err := s.db.Model(pub).Update("scholar_id", nil).Error; err != nil {
		return err
	}
	if err := s.Recount(scholar.ID); err != nil {
		return err
	}

	metrics.LinkOperations.WithLabelValues("unlink").Inc()
	return nil
}

// LinkKeywords adds the keyword ids to the scholar's keyword set. Every id
// must reference an existing keyword. Keyword association counts are derived
// on read, so there are no counters to recompute.
func (s *Service) LinkKeywords(scholarID string, keywordIDs []string) (*models.ScholarModel, error) {
	if len(keywordIDs) == 0 {
		return nil, apperr.Validationf("keywordIds is required")
	}
	scholar, err := s.scholarByID(scholarID)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.KeywordModel{}).Where("id IN ?", keywordIDs).Count(&count).Error; err != nil {
		return nil, err
	}
	if int(count) != len(dedupe(keywordIDs)) {
		return nil, apperr.NotFoundf("one or more keywords not found")
	}

	merged := scholar.KeywordIDs.Union(keywordIDs)
	if err := s.db.Model(scholar).Update("keyword_ids", merged).Error; err != nil {
		return nil, err
	}
	scholar.KeywordIDs = merged
	return scholar, nil
}

// UnlinkKeywords removes the keyword ids from the scholar's keyword set.
func (s *Service) UnlinkKeywords(scholarID string, keywordIDs []string) (*models.ScholarModel, error) {
	if len(keywordIDs) == 0 {
		return nil, apperr.Validationf("keywordIds is required")
	}
	scholar, err := s.scholarByID(scholarID)
	if err != nil {
		return nil, err
	}

	trimmed := scholar.KeywordIDs.Difference(keywordIDs)
	if err := s.db.Model(scholar).Update("keyword_ids", trimmed).Error; err != nil {
		return nil, err
	}
	scholar.KeywordIDs = trimmed
	return scholar, nil
}

// Recount recomputes and persists both publication counters for a scholar
// from the live publication records.
func (s *Service) Recount(scholarID string) error {
	var total, related int64
	if err := s.db.Model(&models.PublicationModel{}).Where("scholar_id = ?", scholarID).Count(&total).Error; err != nil {
		return err
	}
	if err := s.db.Model(&models.PublicationModel{}).
		Where("scholar_id = ? AND is_vietnam_labour_related = ?", scholarID, true).
		Count(&related).Error; err != nil {
		return err
	}

	return s.db.Model(&models.ScholarModel{}).Where("id = ?", scholarID).Updates(map[string]interface{}{
		"publication_count":         total,
		"related_publication_count": related,
	}).Error
}

// ReconcileResult summarizes a reconciliation pass.
type ReconcileResult struct {
	Scholars int `json:"scholars"`
	Repaired int `json:"repaired"`
}

// ReconcileAll walks every scholar, recounts its publication counters and
// repairs any drift. Runs from the cron job and the admin maintenance
// endpoint.
func (s *Service) ReconcileAll() (*ReconcileResult, error) {
	var scholars []models.ScholarModel
	if err := s.db.Find(&scholars).Error; err != nil {
		return nil, err
	}

	result := &ReconcileResult{Scholars: len(scholars)}
	for i := range scholars {
		scholar := &scholars[i]

		var total, related int64
		if err := s.db.Model(&models.PublicationModel{}).Where("scholar_id = ?", scholar.ID).Count(&total).Error; err != nil {
			return result, err
		}
		if err := s.db.Model(&models.PublicationModel{}).
			Where("scholar_id = ? AND is_vietnam_labour_related = ?", scholar.ID, true).
			Count(&related).Error; err != nil {
			return result, err
		}

		if scholar.PublicationCount == int(total) && scholar.RelatedPublicationCount == int(related) {
			continue
		}

		s.log.Warn("stale publication counters",
			zap.String("scholar", scholar.ID),
			zap.Int("cachedCount", scholar.PublicationCount),
			zap.Int64("liveCount", total),
			zap.Int("cachedRelated", scholar.RelatedPublicationCount),
			zap.Int64("liveRelated", related),
		)
		if err := s.db.Model(scholar).Updates(map[string]interface{}{
			"publication_count":         total,
			"related_publication_count": related,
		}).Error; err != nil {
			return result, err
		}
		result.Repaired++
		metrics.ReconcileDrift.Inc()
	}

	metrics.ReconcileRuns.Inc()
	return result, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
