package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/hkennandya-dev/morning-glory-test-go/internal/apierror"
	"github.com/hkennandya-dev/morning-glory-test-go/internal/dto"
	"github.com/hkennandya-dev/morning-glory-test-go/internal/filter"
	"github.com/hkennandya-dev/morning-glory-test-go/internal/middleware"
	"github.com/hkennandya-dev/morning-glory-test-go/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ok writes the uniform success envelope. Pagination is only attached on
// list responses.
func ok(c *gin.Context, status int, msg string, data any, pg *dto.Pagination) {
	body := gin.H{"status": status, "message": msg}
	if data != nil {
		body["data"] = data
	}
	if pg != nil {
		body["pagination"] = pg
	}
	c.JSON(status, body)
}

// fail converts an error into the structured error envelope. Validation and
// filter errors are client errors; ErrNotFound maps to 404 with the
// operation-specific message; anything else falls back to the given status
// with a generic message and gets logged with full detail.
func fail(c *gin.Context, err error, notFoundMsg string, fallbackStatus int, fallbackMsg string) {
	var verr *apierror.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, verr)
		return
	}
	var aerr *apierror.APIError
	if errors.As(err, &aerr) {
		c.JSON(aerr.Status, aerr)
		return
	}
	if errors.Is(err, filter.ErrInvalid) {
		c.JSON(http.StatusBadRequest, apierror.New(http.StatusBadRequest, err.Error()))
		return
	}
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, apierror.New(http.StatusNotFound, notFoundMsg))
		return
	}

	log.Error().
		Str("request_id", c.GetString(middleware.RequestIDKey)).
		Str("path", c.FullPath()).
		Err(err).
		Msg("request failed")
	c.JSON(fallbackStatus, apierror.New(fallbackStatus, fallbackMsg))
}

// parseID reads the numeric identifier from the URL path.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(http.StatusBadRequest, "ID tidak valid"))
		return 0, false
	}
	return id, true
}
