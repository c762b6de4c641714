package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bravo68web/folio/internal/application/dto"
	apperrors "github.com/bravo68web/folio/pkg/errors"
	"github.com/bravo68web/folio/pkg/logger"
)

// handleError handles errors and returns appropriate HTTP responses. Server
// side failures are logged with the request id and never leak their cause.
func handleError(c *gin.Context, err error) {
	_ = c.Error(err)

	appErr, ok := apperrors.As(err)
	if !ok {
		logger.Get().Error("Unhandled error",
			logger.RequestID(c.GetString("request_id")),
			logger.Path(c.Request.URL.Path),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: "An unexpected error occurred",
		})
		return
	}

	status := appErr.HTTPStatus()
	message := appErr.Message
	if status < http.StatusInternalServerError {
		message = appErr.Error()
	}
	c.JSON(status, dto.ErrorResponse{
		Error:   appErr.Kind,
		Message: message,
		Details: appErr.Details,
	})
}

// bindError converts a query or body binding failure into a 400
func bindError(err error) error {
	return apperrors.BadRequest("invalid request: "+err.Error(), apperrors.ErrInvalidInput)
}
