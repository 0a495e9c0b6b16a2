// Package response implements the API envelope: successes are
// {"success":true,"data":...}, errors are {"success":false,"error":...}.
// Paginated lists carry a pagination block alongside data.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vietlabour/portal/internal/pkg/apperr"
)

// Pagination metadata returned with paginated responses.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// OK sends a 200 success envelope.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// Paged sends a 200 success envelope with pagination metadata.
func Paged(c *gin.Context, data interface{}, p Pagination) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data, "pagination": p})
}

// PagedWith sends a paginated envelope with extra top-level fields merged in
// (e.g. the matched keyword of a keyword-scoped listing).
func PagedWith(c *gin.Context, data interface{}, p Pagination, extra gin.H) {
	body := gin.H{"success": true, "data": data, "pagination": p}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// Created sends a 201 success envelope.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest sends a 400 error envelope.
func BadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": message})
}

// NotFound sends a 404 error envelope.
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "not found"
	}
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"success": false, "error": message})
}

// Error maps a service error onto the HTTP surface. Classified errors return
// their message with the matching status; anything else is a store error:
// it is attached to the gin context for the request logger and surfaced as a
// generic 500 so storage internals never leak to the caller.
func Error(c *gin.Context, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindValidation, apperr.KindConflict:
		BadRequest(c, err.Error())
	case apperr.KindNotFound:
		NotFound(c, err.Error())
	default:
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
	}
}
