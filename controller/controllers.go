// api/controller/controllers.go
package controller

import (
	"github.com/postly/api/service"
	"github.com/postly/api/util"
)

type Controllers struct {
	Auth    *AuthController
	Profile *ProfileController
	Post    *PostController
	Comment *CommentController
}

func InitializeControllers(services *service.Services, validationUtil *util.ValidationUtil) *Controllers {
	return &Controllers{
		Auth:    NewAuthController(services.Auth, validationUtil),
		Profile: NewProfileController(services.Profile),
		Post:    NewPostController(services.Post, validationUtil),
		Comment: NewCommentController(services.Comment, validationUtil),
	}
}
