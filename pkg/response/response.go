package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jongocollab/jongohub/pkg/apperror"
	"go.uber.org/zap"
)

// Envelope is the response shape shared by every API endpoint:
// {"success": bool, "message": string, ...}.

// OK writes a success envelope with the given payload fields merged in.
func OK(c *gin.Context, status int, message string, fields gin.H) {
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(status, body)
}

// Error writes a failure envelope. AppError context fields are merged into
// the body; internal errors are logged and their detail suppressed outside
// development mode.
func Error(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)
	message := err.Error()

	body := gin.H{"success": false}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		for k, v := range appErr.Context {
			body[k] = v
		}
	}

	if code == http.StatusInternalServerError {
		zap.L().Error("internal error", zap.Error(err), zap.String("path", c.FullPath()))
		if gin.Mode() == gin.ReleaseMode {
			message = "internal server error"
		}
	}

	body["message"] = message
	c.AbortWithStatusJSON(code, body)
}
