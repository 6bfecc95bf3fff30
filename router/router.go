// api/router/router.go

package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/postly/api/controller"
	"github.com/postly/api/middleware"
	"github.com/postly/api/token"
)

func SetupRouter(
	controllers *controller.Controllers,
	tokens *token.Service,
	rateLimitRequests int,
	rateLimitDuration time.Duration,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.RateLimiter(rateLimitRequests, rateLimitDuration))

	api := router.Group("/api")

	// Auth wires its own middleware: signup and login are public, the
	// refresh route checks the refresh token instead of the access token.
	controllers.Auth.RegisterRoutes(api,
		middleware.VerifyAccessToken(tokens),
		middleware.VerifyRefreshToken(tokens))

	protected := api.Group("", middleware.VerifyAccessToken(tokens))

	controllers.Profile.RegisterRoutes(protected)
	controllers.Post.RegisterRoutes(protected)
	controllers.Comment.RegisterRoutes(protected)

	return router
}
