package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestShouldSkipCachePath(t *testing.T) {
	patterns := []string{"/healthz", "/metrics", "/admin/*", " "}

	assert.True(t, shouldSkipCachePath("/healthz", patterns))
	assert.True(t, shouldSkipCachePath("/admin/scholars", patterns))
	assert.False(t, shouldSkipCachePath("/scholars", patterns))
	assert.False(t, shouldSkipCachePath("/healthz/extra", patterns))
}

func TestHasBypassTimestamp(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for _, query := range []string{"ts=123", "timestamp=123", "_t=123", "t=1"} {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/scholars?"+query, nil)
		assert.True(t, hasBypassTimestamp(c), "query %q", query)
	}

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/scholars?page=2", nil)
	assert.False(t, hasBypassTimestamp(c))
}

func TestCacheBodyWriterCapture(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	w := &cacheBodyWriter{ResponseWriter: c.Writer, maxBodyBytes: 8}
	_, err := w.Write([]byte("12345"))
	assert.NoError(t, err)
	assert.Equal(t, "12345", string(w.body))
	assert.False(t, w.overflow)

	// Writing past the limit truncates the capture and flags overflow so the
	// partial body is never cached.
	_, err = w.Write([]byte("67890"))
	assert.NoError(t, err)
	assert.Equal(t, "12345678", string(w.body))
	assert.True(t, w.overflow)
}
