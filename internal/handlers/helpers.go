package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "spendchat/internal/errors"
	"spendchat/internal/logger"
)

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, ErrorResponse{Error: ErrorDetail{Code: appErr.Code, Message: appErr.Message}})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, ErrorResponse{Error: ErrorDetail{
		Code:    apperrors.ErrInternalServer.Code,
		Message: apperrors.ErrInternalServer.Message,
	}})
}

// bindError converts a binding failure into an INVALID_INPUT response.
func bindError(c *gin.Context, err error) {
	respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
}
