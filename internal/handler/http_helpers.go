package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/healthmeal/internal/service"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

func statusForKind(kind service.ErrorKind) int {
	switch kind {
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindAuthentication:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError 将业务错误统一映射为状态码与错误信息。
func (a *API) respondServiceError(c *gin.Context, err error) {
	kind := service.KindOf(err)
	status := statusForKind(kind)
	message := err.Error()

	var outputErr *service.ModelOutputError
	if errors.As(err, &outputErr) && a.exposeRaw {
		message = message + "; raw output: " + outputErr.Raw
	}

	if status >= http.StatusInternalServerError {
		log.Printf("[API] %s %s failed (%s): %v", c.Request.Method, c.FullPath(), kind, err)
		if kind == service.KindPersistence {
			message = "internal server error"
		}
	}
	respondError(c, status, message)
}

func parseDateField(raw, field string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, fmt.Errorf("%w: %s is required", service.ErrInvalidInput, field)
	}
	return service.ParseDate(raw)
}

func parseOptionalDateQuery(c *gin.Context, key string) (time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return time.Time{}, nil
	}
	return service.ParseDate(raw)
}
