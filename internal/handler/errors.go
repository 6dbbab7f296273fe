package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jeffleon2/draftea-settlement-service/internal/service"
	"github.com/sirupsen/logrus"
)

var statusByCategory = map[service.Category]int{
	service.CategoryAuth:        http.StatusUnauthorized,
	service.CategoryMalformed:   http.StatusBadRequest,
	service.CategoryNotFound:    http.StatusNotFound,
	service.CategoryDeclined:    http.StatusConflict,
	service.CategoryConflict:    http.StatusConflict,
	service.CategoryRateLimited: http.StatusTooManyRequests,
	service.CategoryRetriable:   http.StatusServiceUnavailable,
	service.CategoryInvariant:   http.StatusInternalServerError,
	service.CategoryInternal:    http.StatusInternalServerError,
}

// StatusFor maps an error category to its HTTP status.
func StatusFor(err error) int {
	if status, ok := statusByCategory[service.CategoryOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// respondError writes the category and reason only. The wrapped cause is
// logged, never returned.
func respondError(c *gin.Context, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		logrus.WithField("path", c.FullPath()).Errorf("Request failed: %s", err.Error())
	}

	body := gin.H{"error": service.CategoryOf(err)}
	if reason := service.ReasonOf(err); reason != "" {
		body["reason"] = reason
	}
	c.JSON(status, body)
}

func badRequest(c *gin.Context, reason string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": service.CategoryMalformed, "reason": reason})
}
