package pagination

import (
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func ctxWithQuery(t *testing.T, query string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/scholars?"+query, nil)
	return c
}

func TestFromContextDefaults(t *testing.T) {
	q := FromContext(ctxWithQuery(t, ""))
	assert.Equal(t, Query{Page: 1, Limit: 10}, q)
}

func TestFromContextClamping(t *testing.T) {
	cases := []struct {
		query string
		want  Query
	}{
		{"page=3&limit=25", Query{Page: 3, Limit: 25}},
		{"page=0&limit=0", Query{Page: 1, Limit: 10}},
		{"page=-2&limit=-5", Query{Page: 1, Limit: 10}},
		{"page=2&limit=500", Query{Page: 2, Limit: 100}},
		{"page=abc&limit=xyz", Query{Page: 1, Limit: 10}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FromContext(ctxWithQuery(t, tc.query)), "query %q", tc.query)
	}
}

func TestMeta(t *testing.T) {
	q := Query{Page: 2, Limit: 10}

	meta := q.Meta(35)
	assert.Equal(t, int64(35), meta.Total)
	assert.Equal(t, 4, meta.Pages)

	assert.Equal(t, 0, Query{Page: 1, Limit: 10}.Meta(0).Pages)
	assert.Equal(t, 1, Query{Page: 1, Limit: 10}.Meta(10).Pages)
	assert.Equal(t, 2, Query{Page: 1, Limit: 10}.Meta(11).Pages)
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Query{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 40, Query{Page: 5, Limit: 10}.Offset())
}

type paginateRow struct {
	ID   int `gorm:"primaryKey"`
	Name string
}

func TestPaginateWalksWholeSet(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&paginateRow{}))

	for i := 1; i <= 23; i++ {
		require.NoError(t, db.Create(&paginateRow{ID: i, Name: fmt.Sprintf("row-%02d", i)}).Error)
	}

	var all []paginateRow
	for page := 1; ; page++ {
		q := Query{Page: page, Limit: 10}
		var rows []paginateRow
		meta, err := Paginate(db.Model(&paginateRow{}).Order("id ASC"), q, &rows)
		require.NoError(t, err)

		assert.Equal(t, int64(23), meta.Total)
		assert.Equal(t, 3, meta.Pages)
		all = append(all, rows...)
		if page >= meta.Pages {
			break
		}
	}

	// Concatenating all pages reproduces the full ordered set exactly once.
	require.Len(t, all, 23)
	for i, row := range all {
		assert.Equal(t, i+1, row.ID)
	}
}

func TestPaginatePastEnd(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&paginateRow{}))
	require.NoError(t, db.Create(&paginateRow{ID: 1, Name: "only"}).Error)

	var rows []paginateRow
	meta, err := Paginate(db.Model(&paginateRow{}), Query{Page: 9, Limit: 10}, &rows)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Equal(t, int64(1), meta.Total)
	assert.Equal(t, 1, meta.Pages)
}
