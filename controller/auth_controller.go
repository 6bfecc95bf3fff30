// api/controller/auth_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	postly_errors "github.com/postly/api/errors"
	"github.com/postly/api/model"
	"github.com/postly/api/service"
	"github.com/postly/api/util"
)

type AuthController struct {
	authService    service.IAuthService
	validationUtil *util.ValidationUtil
}

func NewAuthController(authService service.IAuthService, validationUtil *util.ValidationUtil) *AuthController {
	return &AuthController{
		authService:    authService,
		validationUtil: validationUtil,
	}
}

// RegisterRoutes registers the API routes. Signup and login are public;
// the rest sit behind the token middleware passed in by the router.
func (ac *AuthController) RegisterRoutes(r *gin.RouterGroup, access, refresh gin.HandlerFunc) {
	auth := r.Group("/auth")
	{
		auth.POST("/signup", ac.Signup)
		auth.POST("/login", ac.Login)
		auth.GET("", access, ac.AuthState)
		auth.GET("/refresh", refresh, ac.Refresh)
		auth.POST("/logout", access, ac.Logout)
	}
}

// Signup endpoint
func (ac *AuthController) Signup(c *gin.Context) {
	var creds model.SignupCredentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid signup data", err)
		return
	}
	if err := ac.validationUtil.ValidateSignupCredentials(&creds); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	result, err := ac.authService.Signup(c, creds)
	if err != nil {
		switch err {
		case postly_errors.ErrAccountExists:
			util.RespondWithError(c, http.StatusConflict, "An account with this email already exists", err)
		case postly_errors.ErrUsernameTaken:
			util.RespondWithError(c, http.StatusConflict, "Username is already taken", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to create account", err)
		}
		return
	}

	util.RespondWithData(c, http.StatusCreated, "Signup successful", result)
}

// Login endpoint
func (ac *AuthController) Login(c *gin.Context) {
	var creds model.LoginCredentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid login data", err)
		return
	}
	if err := ac.validationUtil.ValidateLoginCredentials(&creds); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	result, err := ac.authService.Login(c, creds)
	if err != nil {
		switch err {
		case postly_errors.ErrUserNotFound:
			util.RespondWithError(c, http.StatusNotFound, "No account found for this email", err)
		case postly_errors.ErrInvalidCredentials:
			util.RespondWithError(c, http.StatusUnauthorized, "Incorrect email or password", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to log in", err)
		}
		return
	}

	util.RespondWithData(c, http.StatusCreated, "Login successful", result)
}

// AuthState endpoint
func (ac *AuthController) AuthState(c *gin.Context) {
	userID, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	auth, err := ac.authService.AuthState(c, userID)
	if err != nil {
		if err == postly_errors.ErrUserNotFound {
			util.RespondWithError(c, http.StatusNotFound, "User not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to resolve auth state", err)
		}
		return
	}

	util.RespondWithData(c, http.StatusOK, "Authenticated", auth)
}

// Refresh endpoint
func (ac *AuthController) Refresh(c *gin.Context) {
	userID, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	accessToken, err := ac.authService.Refresh(c, userID)
	if err != nil {
		if err == postly_errors.ErrUserNotFound {
			util.RespondWithError(c, http.StatusNotFound, "User not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to refresh token", err)
		}
		return
	}

	util.RespondWithData(c, http.StatusOK, "Token refreshed", gin.H{"accessToken": accessToken})
}

// Logout endpoint
func (ac *AuthController) Logout(c *gin.Context) {
	userID, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	if err := ac.authService.Logout(c, userID); err != nil {
		if err == postly_errors.ErrUserNotFound {
			util.RespondWithError(c, http.StatusNotFound, "User not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to log out", err)
		}
		return
	}

	util.RespondWithMessage(c, http.StatusOK, "Logout successful")
}
