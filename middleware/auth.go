// api/middleware/auth.go

package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	postly_errors "github.com/postly/api/errors"
	"github.com/postly/api/token"
	"github.com/postly/api/util"
)

// RefreshTokenHeader carries the raw refresh token on refresh requests.
const RefreshTokenHeader = "X-Refresh-Token"

// VerifyAccessToken is the admission gate for protected routes. A failed
// verification short-circuits the request; handler logic never runs. On
// success the caller identity is attached to the request context.
func VerifyAccessToken(tokens *token.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			util.AbortWithError(c, http.StatusUnauthorized, "Unauthorized", postly_errors.ErrMissingToken)
			return
		}

		claims, err := tokens.Verify(token.Access, raw)
		if err != nil {
			abortTokenFailure(c, err)
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("username", claims.Username)
		c.Next()
	}
}

// VerifyRefreshToken gates the token-refresh route. The refresh token
// travels in its own header and carries the subject identity only.
func VerifyRefreshToken(tokens *token.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(RefreshTokenHeader)
		if raw == "" {
			util.AbortWithError(c, http.StatusUnauthorized, "Unauthorized", postly_errors.ErrMissingToken)
			return
		}

		claims, err := tokens.Verify(token.Refresh, raw)
		if err != nil {
			abortTokenFailure(c, err)
			return
		}

		c.Set("userID", claims.UserID)
		c.Next()
	}
}

func abortTokenFailure(c *gin.Context, err error) {
	switch {
	case errors.Is(err, postly_errors.ErrTokenExpired):
		util.AbortWithError(c, http.StatusUnauthorized, "Token has expired", err)
	case errors.Is(err, postly_errors.ErrInvalidToken), errors.Is(err, postly_errors.ErrMissingToken):
		util.AbortWithError(c, http.StatusUnauthorized, "Invalid token", err)
	default:
		util.AbortWithError(c, http.StatusInternalServerError, "A server error occured during token validation", err)
	}
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
