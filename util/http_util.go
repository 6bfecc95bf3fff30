// api/util/http_util.go
package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	postly_errors "github.com/postly/api/errors"
	logger "github.com/postly/api/logging"
)

// APIResponse is the envelope every endpoint returns. Internal failures
// carry a generic message; detail stays in the log.
type APIResponse struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	StatusCode int         `json:"statusCode"`
	Error      string      `json:"error,omitempty"`
	Data       interface{} `json:"data,omitempty"`
}

func RespondWithError(c *gin.Context, code int, message string, err error) {
	logger.Error(message,
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method))
	c.JSON(code, APIResponse{
		Success:    false,
		Message:    message,
		StatusCode: code,
		Error:      errorLabel(code),
	})
}

// AbortWithError mirrors RespondWithError for middleware, which must also
// stop the handler chain.
func AbortWithError(c *gin.Context, code int, message string, err error) {
	logger.Warn(message,
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method))
	c.AbortWithStatusJSON(code, APIResponse{
		Success:    false,
		Message:    message,
		StatusCode: code,
		Error:      errorLabel(code),
	})
}

func RespondWithData(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, APIResponse{
		Success:    true,
		Message:    message,
		StatusCode: code,
		Data:       data,
	})
}

func RespondWithMessage(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Success:    true,
		Message:    message,
		StatusCode: code,
	})
}

func errorLabel(code int) string {
	switch code {
	case http.StatusNotFound:
		return "Not found"
	case http.StatusUnauthorized:
		return "Token error"
	case http.StatusBadRequest:
		return "Validation error"
	case http.StatusForbidden:
		return "Forbidden"
	case http.StatusConflict:
		return "Conflict"
	case http.StatusInternalServerError:
		return "Internal server error"
	default:
		return ""
	}
}

// GetUserIDFromContext returns the caller identity attached by the access
// token middleware.
func GetUserIDFromContext(c *gin.Context) (string, error) {
	userID, exists := c.Get("userID")
	if !exists {
		return "", postly_errors.ErrUnauthorized
	}
	return userID.(string), nil
}

// GetUsernameFromContext returns the caller's display handle, when present.
func GetUsernameFromContext(c *gin.Context) (string, error) {
	username, exists := c.Get("username")
	if !exists {
		return "", postly_errors.ErrUnauthorized
	}
	return username.(string), nil
}
