package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/digital-legacy/internal/application"
	"github.com/oksasatya/digital-legacy/pkg/helpers"
	"github.com/oksasatya/digital-legacy/pkg/response"
)

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, application.ErrMissingInput), errors.Is(err, application.ErrInvalidAction):
		return http.StatusBadRequest
	case errors.Is(err, application.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, application.ErrNotTrustedContact), errors.Is(err, application.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, application.ErrUnknownDeceasedUser), errors.Is(err, application.ErrNotFound), errors.Is(err, application.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, application.ErrEmailTaken):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err in the response envelope. Unknown errors are logged
// and reported without detail.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		if logger != nil {
			helpers.RequestEntry(logger, c).WithError(err).Error("request failed")
		}
		response.Error[any](c, status, "internal error", nil)
		return
	}
	response.Error[any](c, status, err.Error(), nil)
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error[any](c, http.StatusBadRequest, "invalid id", nil)
		return 0, false
	}
	return id, true
}
