package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "spendchat/internal/errors"
	"spendchat/internal/logger"
)

// ErrorHandler returns a Gin middleware that converts errors set on the Gin
// context into JSON error responses. AppErrors keep their code and message;
// anything else is logged and reported as a generic internal error.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		writeError(c, c.Errors.Last().Err)
	}
}

// abortWithAppError stops the chain and writes err in the standard envelope.
func abortWithAppError(c *gin.Context, err error) {
	writeError(c, err)
	c.Abort()
}

func writeError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"message", appErr.Message,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, gin.H{
		"error": gin.H{
			"code":    apperrors.ErrInternalServer.Code,
			"message": apperrors.ErrInternalServer.Message,
		},
	})
}
