// api/controller/profile_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	postly_errors "github.com/postly/api/errors"
	"github.com/postly/api/service"
	"github.com/postly/api/util"
)

type ProfileController struct {
	profileService service.IProfileService
}

func NewProfileController(profileService service.IProfileService) *ProfileController {
	return &ProfileController{profileService: profileService}
}

// RegisterRoutes registers the API routes
func (pc *ProfileController) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/profile", pc.GetProfile)
}

// GetProfile endpoint
func (pc *ProfileController) GetProfile(c *gin.Context) {
	userID, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	profile, err := pc.profileService.GetProfile(c, userID)
	if err != nil {
		if err == postly_errors.ErrUserNotFound {
			util.RespondWithError(c, http.StatusNotFound, "User not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve profile", err)
		}
		return
	}

	util.RespondWithData(c, http.StatusOK, "Profile retrieved", profile)
}
