package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vietlabour/portal/internal/database"
	"github.com/vietlabour/portal/internal/models"
	"github.com/vietlabour/portal/internal/modules/keyword"
	"github.com/vietlabour/portal/internal/pkg/pagination"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	return NewService(db, keyword.NewService(db)), db
}

func seedKeyword(t *testing.T, db *gorm.DB, name, slug string, approved bool) *models.KeywordModel {
	t.Helper()
	kw := models.KeywordModel{Name: name, DisplayName: name, Slug: slug, IsApproved: approved}
	require.NoError(t, db.Create(&kw).Error)
	return &kw
}

func seedScholar(t *testing.T, db *gorm.DB, slug, status string, keywordIDs ...string) *models.ScholarModel {
	t.Helper()
	s := models.ScholarModel{Slug: slug, FullName: slug, Status: status, KeywordIDs: models.StringArray(keywordIDs)}
	require.NoError(t, db.Create(&s).Error)
	return &s
}

func firstPage() pagination.Query { return pagination.Query{Page: 1, Limit: 10} }

func TestSearchFansOutToScholars(t *testing.T) {
	svc, db := newTestService(t)
	law := seedKeyword(t, db, "Labour Law", "labour-law", true)
	strikes := seedKeyword(t, db, "Labour Strikes", "labour-strikes", true)
	seedKeyword(t, db, "Migration", "migration", true)

	tagged := seedScholar(t, db, "tagged-both", models.ScholarStatusActive, law.ID, strikes.ID)
	taggedOne := seedScholar(t, db, "tagged-one", models.ScholarStatusActive, strikes.ID)
	seedScholar(t, db, "untagged", models.ScholarStatusActive)

	result, pag, err := svc.Search("labour", firstPage())
	require.NoError(t, err)
	assert.Len(t, result.Keywords, 2)
	assert.Equal(t, int64(2), pag.Total)

	slugs := []string{result.Scholars[0].Slug, result.Scholars[1].Slug}
	assert.ElementsMatch(t, []string{tagged.Slug, taggedOne.Slug}, slugs)
}

func TestSearchSkipsHiddenAndUnapproved(t *testing.T) {
	svc, db := newTestService(t)
	approved := seedKeyword(t, db, "Strikes", "strikes", true)
	pending := seedKeyword(t, db, "Strike Funds", "strike-funds", false)

	seedScholar(t, db, "hidden", models.ScholarStatusHidden, approved.ID)
	seedScholar(t, db, "pending-only", models.ScholarStatusActive, pending.ID)
	visible := seedScholar(t, db, "visible", models.ScholarStatusActive, approved.ID)

	result, pag, err := svc.Search("strike", firstPage())
	require.NoError(t, err)
	// Only the approved keyword participates in the fan-out.
	require.Len(t, result.Keywords, 1)
	assert.Equal(t, "strikes", result.Keywords[0].Slug)
	require.Len(t, result.Scholars, 1)
	assert.Equal(t, visible.Slug, result.Scholars[0].Slug)
	assert.Equal(t, int64(1), pag.Total)
}

func TestSearchEmptyQuery(t *testing.T) {
	svc, db := newTestService(t)
	kw := seedKeyword(t, db, "Strikes", "strikes", true)
	seedScholar(t, db, "someone", models.ScholarStatusActive, kw.ID)

	result, pag, err := svc.Search("   ", firstPage())
	require.NoError(t, err)
	assert.Empty(t, result.Scholars)
	assert.Empty(t, result.Keywords)
	assert.Equal(t, int64(0), pag.Total)
}

func TestSearchNoMatchingKeyword(t *testing.T) {
	svc, db := newTestService(t)
	kw := seedKeyword(t, db, "Strikes", "strikes", true)
	seedScholar(t, db, "someone", models.ScholarStatusActive, kw.ID)

	result, pag, err := svc.Search("astronomy", firstPage())
	require.NoError(t, err)
	assert.Empty(t, result.Scholars)
	assert.Empty(t, result.Keywords)
	assert.Equal(t, int64(0), pag.Total)
}

func TestSearchRanking(t *testing.T) {
	svc, db := newTestService(t)
	kw := seedKeyword(t, db, "Strikes", "strikes", true)

	quiet := models.ScholarModel{Slug: "quiet", FullName: "Quiet", Status: models.ScholarStatusActive,
		KeywordIDs: models.StringArray{kw.ID}, PublicationCount: 1}
	prolific := models.ScholarModel{Slug: "prolific", FullName: "Prolific", Status: models.ScholarStatusActive,
		KeywordIDs: models.StringArray{kw.ID}, FrequentContributor: true, PublicationCount: 9}
	require.NoError(t, db.Create(&quiet).Error)
	require.NoError(t, db.Create(&prolific).Error)

	result, _, err := svc.Search("strikes", firstPage())
	require.NoError(t, err)
	require.Len(t, result.Scholars, 2)
	assert.Equal(t, "prolific", result.Scholars[0].Slug)
}
