package linkage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vietlabour/portal/internal/database"
	"github.com/vietlabour/portal/internal/models"
	"github.com/vietlabour/portal/internal/pkg/apperr"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewService(db, zap.NewNop()), db
}

func createScholar(t *testing.T, db *gorm.DB, slug string) *models.ScholarModel {
	t.Helper()
	s := models.ScholarModel{Slug: slug, FullName: slug, Status: models.ScholarStatusActive}
	require.NoError(t, db.Create(&s).Error)
	return &s
}

func createPublication(t *testing.T, db *gorm.DB, title string, related bool) *models.PublicationModel {
	t.Helper()
	p := models.PublicationModel{Title: title, Year: 2020, Type: models.PublicationTypeArticle, IsVietnamLabourRelated: related}
	require.NoError(t, db.Create(&p).Error)
	return &p
}

func reloadScholar(t *testing.T, db *gorm.DB, id string) *models.ScholarModel {
	t.Helper()
	var s models.ScholarModel
	require.NoError(t, db.First(&s, "id = ?", id).Error)
	return &s
}

func TestLinkUnlinkCounterLifecycle(t *testing.T) {
	svc, db := newTestService(t)
	scholar := createScholar(t, db, "nguyen-van-an")
	related := createPublication(t, db, "Strike Settlement in Dong Nai", true)
	unrelated := createPublication(t, db, "Comparative Trade Theory", false)

	require.NoError(t, svc.LinkPublication(scholar.ID, related.ID))
	got := reloadScholar(t, db, scholar.ID)
	assert.Equal(t, 1, got.PublicationCount)
	assert.Equal(t, 1, got.RelatedPublicationCount)

	require.NoError(t, svc.LinkPublication(scholar.ID, unrelated.ID))
	got = reloadScholar(t, db, scholar.ID)
	assert.Equal(t, 2, got.PublicationCount)
	assert.Equal(t, 1, got.RelatedPublicationCount)

	require.NoError(t, svc.UnlinkPublication(scholar.ID, related.ID))
	got = reloadScholar(t, db, scholar.ID)
	assert.Equal(t, 1, got.PublicationCount)
	assert.Equal(t, 0, got.RelatedPublicationCount)

	require.NoError(t, svc.UnlinkPublication(scholar.ID, unrelated.ID))
	got = reloadScholar(t, db, scholar.ID)
	assert.Equal(t, 0, got.PublicationCount)
	assert.Equal(t, 0, got.RelatedPublicationCount)

	// The publication record itself survives an unlink.
	var pub models.PublicationModel
	require.NoError(t, db.First(&pub, "id = ?", related.ID).Error)
	assert.Nil(t, pub.ScholarID)
}

func TestLinkIsIdempotent(t *testing.T) {
	svc, db := newTestService(t)
	scholar := createScholar(t, db, "tran-thi-mai")
	pub := createPublication(t, db, "Minimum Wage Rounds", true)

	require.NoError(t, svc.LinkPublication(scholar.ID, pub.ID))
	require.NoError(t, svc.LinkPublication(scholar.ID, pub.ID))

	got := reloadScholar(t, db, scholar.ID)
	assert.Equal(t, 1, got.PublicationCount)
	assert.Equal(t, 1, got.RelatedPublicationCount)
}

func TestRelinkStealsAndRecountsPreviousOwner(t *testing.T) {
	svc, db := newTestService(t)
	first := createScholar(t, db, "first-owner")
	second := createScholar(t, db, "second-owner")
	pub := createPublication(t, db, "Factory Dormitories", true)

	require.NoError(t, svc.LinkPublication(first.ID, pub.ID))
	require.NoError(t, svc.LinkPublication(second.ID, pub.ID))

	assert.Equal(t, 0, reloadScholar(t, db, first.ID).PublicationCount)
	got := reloadScholar(t, db, second.ID)
	assert.Equal(t, 1, got.PublicationCount)
	assert.Equal(t, 1, got.RelatedPublicationCount)
}

func TestLinkNotFound(t *testing.T) {
	svc, db := newTestService(t)
	scholar := createScholar(t, db, "present")
	pub := createPublication(t, db, "Present Paper", false)

	assert.True(t, apperr.IsNotFound(svc.LinkPublication("ghost", pub.ID)))
	assert.True(t, apperr.IsNotFound(svc.LinkPublication(scholar.ID, "ghost")))
}

func TestUnlinkRequiresOwnership(t *testing.T) {
	svc, db := newTestService(t)
	owner := createScholar(t, db, "owner")
	other := createScholar(t, db, "other")
	pub := createPublication(t, db, "Owned Paper", false)
	orphan := createPublication(t, db, "Orphan Paper", false)

	require.NoError(t, svc.LinkPublication(owner.ID, pub.ID))

	assert.True(t, apperr.IsNotFound(svc.UnlinkPublication(other.ID, pub.ID)))
	assert.True(t, apperr.IsNotFound(svc.UnlinkPublication(owner.ID, orphan.ID)))

	// Failed unlinks leave the link in place.
	var reloaded models.PublicationModel
	require.NoError(t, db.First(&reloaded, "id = ?", pub.ID).Error)
	require.NotNil(t, reloaded.ScholarID)
	assert.Equal(t, owner.ID, *reloaded.ScholarID)
}

func TestLinkKeywords(t *testing.T) {
	svc, db := newTestService(t)
	scholar := createScholar(t, db, "kw-holder")
	kwA := models.KeywordModel{Name: "strikes", DisplayName: "Strikes", Slug: "strikes", IsApproved: true}
	kwB := models.KeywordModel{Name: "wages", DisplayName: "Wages", Slug: "wages", IsApproved: true}
	require.NoError(t, db.Create(&kwA).Error)
	require.NoError(t, db.Create(&kwB).Error)

	got, err := svc.LinkKeywords(scholar.ID, []string{kwA.ID, kwB.ID, kwA.ID})
	require.NoError(t, err)
	assert.Equal(t, models.StringArray{kwA.ID, kwB.ID}, got.KeywordIDs)

	// Linking again keeps the set deduplicated.
	got, err = svc.LinkKeywords(scholar.ID, []string{kwB.ID})
	require.NoError(t, err)
	assert.Equal(t, models.StringArray{kwA.ID, kwB.ID}, got.KeywordIDs)
}

func TestLinkKeywordsValidation(t *testing.T) {
	svc, db := newTestService(t)
	scholar := createScholar(t, db, "kw-holder")

	_, err := svc.LinkKeywords(scholar.ID, nil)
	assert.True(t, apperr.IsValidation(err))

	_, err = svc.LinkKeywords(scholar.ID, []string{"ghost-keyword"})
	assert.True(t, apperr.IsNotFound(err))
}

func TestUnlinkKeywords(t *testing.T) {
	svc, db := newTestService(t)
	kw := models.KeywordModel{Name: "strikes", DisplayName: "Strikes", Slug: "strikes", IsApproved: true}
	require.NoError(t, db.Create(&kw).Error)

	scholar := models.ScholarModel{Slug: "holder", FullName: "Holder", KeywordIDs: models.StringArray{kw.ID, "other"}}
	require.NoError(t, db.Create(&scholar).Error)

	got, err := svc.UnlinkKeywords(scholar.ID, []string{kw.ID, "never-there"})
	require.NoError(t, err)
	assert.Equal(t, models.StringArray{"other"}, got.KeywordIDs)
}

func TestReconcileAllRepairsDrift(t *testing.T) {
	svc, db := newTestService(t)
	scholar := createScholar(t, db, "drifted")
	pub := createPublication(t, db, "Linked Paper", true)
	require.NoError(t, svc.LinkPublication(scholar.ID, pub.ID))
	clean := createScholar(t, db, "clean")

	// Simulate drift left behind by a partially applied write.
	require.NoError(t, db.Model(&models.ScholarModel{}).Where("id = ?", scholar.ID).Updates(map[string]interface{}{
		"publication_count":         7,
		"related_publication_count": 0,
	}).Error)

	result, err := svc.ReconcileAll()
	require.NoError(t, err)
	assert.Equal(t, 2, result.Scholars)
	assert.Equal(t, 1, result.Repaired)

	got := reloadScholar(t, db, scholar.ID)
	assert.Equal(t, 1, got.PublicationCount)
	assert.Equal(t, 1, got.RelatedPublicationCount)
	assert.Equal(t, 0, reloadScholar(t, db, clean.ID).PublicationCount)

	// A second pass finds nothing to repair.
	result, err = svc.ReconcileAll()
	require.NoError(t, err)
	assert.Equal(t, 0, result.Repaired)
}

func TestRecountDirect(t *testing.T) {
	svc, db := newTestService(t)
	scholar := createScholar(t, db, "manual")
	pub := createPublication(t, db, "Manually Assigned", true)
	require.NoError(t, db.Model(pub).Update("scholar_id", scholar.ID).Error)

	require.NoError(t, svc.Recount(scholar.ID))
	got := reloadScholar(t, db, scholar.ID)
	assert.Equal(t, 1, got.PublicationCount)
	assert.Equal(t, 1, got.RelatedPublicationCount)
}
