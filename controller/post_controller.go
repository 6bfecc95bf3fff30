// api/controller/post_controller.go
package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	postly_errors "github.com/postly/api/errors"
	"github.com/postly/api/model"
	"github.com/postly/api/service"
	"github.com/postly/api/util"
	helper_util "github.com/postly/api/util/helper"
)

type PostController struct {
	postService    service.IPostService
	validationUtil *util.ValidationUtil
}

func NewPostController(postService service.IPostService, validationUtil *util.ValidationUtil) *PostController {
	return &PostController{
		postService:    postService,
		validationUtil: validationUtil,
	}
}

// RegisterRoutes registers the API routes
func (pc *PostController) RegisterRoutes(r *gin.RouterGroup) {
	posts := r.Group("/posts")
	{
		posts.GET("", pc.ListPosts)
		posts.GET("/created", pc.ListCreatedPosts)
		posts.GET("/liked", pc.ListLikedPosts)
		posts.GET("/archived", pc.ListArchivedPosts)
		posts.POST("", pc.CreatePost)
		posts.GET("/:postId", pc.GetPost)
		posts.PUT("/:postId/like", pc.ToggleLike)
		posts.PUT("/:postId/view", pc.RegisterView)
		posts.PUT("/:postId/archive", pc.ToggleArchive)
	}
}

// ListPosts endpoint
func (pc *PostController) ListPosts(c *gin.Context) {
	pc.listWith(c, pc.postService.ListPosts, "Posts retrieved")
}

// ListCreatedPosts endpoint
func (pc *PostController) ListCreatedPosts(c *gin.Context) {
	pc.listWith(c, pc.postService.ListCreatedPosts, "Created posts retrieved")
}

// ListLikedPosts endpoint
func (pc *PostController) ListLikedPosts(c *gin.Context) {
	pc.listWith(c, pc.postService.ListLikedPosts, "Liked posts retrieved")
}

// ListArchivedPosts endpoint
func (pc *PostController) ListArchivedPosts(c *gin.Context) {
	pc.listWith(c, pc.postService.ListArchivedPosts, "Archived posts retrieved")
}

// CreatePost endpoint
func (pc *PostController) CreatePost(c *gin.Context) {
	var input model.PostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid post data", postly_errors.ErrInvalidPostData)
		return
	}
	if err := pc.validationUtil.ValidatePostInput(&input); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, err.Error(), err)
		return
	}
	userID, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	postID, err := pc.postService.CreatePost(c, userID, input)
	if err != nil {
		pc.respondPostError(c, err, "Failed to create post")
		return
	}

	util.RespondWithData(c, http.StatusCreated, "Post created", gin.H{"postId": postID})
}

// GetPost endpoint
func (pc *PostController) GetPost(c *gin.Context) {
	userID, postID, ok := pc.postParams(c)
	if !ok {
		return
	}

	post, err := pc.postService.GetPost(c, userID, postID)
	if err != nil {
		pc.respondPostError(c, err, "Failed to retrieve post")
		return
	}

	util.RespondWithData(c, http.StatusOK, "Post retrieved", post)
}

// ToggleLike endpoint
func (pc *PostController) ToggleLike(c *gin.Context) {
	userID, postID, ok := pc.postParams(c)
	if !ok {
		return
	}

	likes, liked, err := pc.postService.ToggleLike(c, userID, postID)
	if err != nil {
		pc.respondPostError(c, err, "Failed to update like")
		return
	}

	message := "Post unliked"
	if liked {
		message = "Post liked"
	}
	util.RespondWithData(c, http.StatusOK, message, gin.H{"likes": likes, "isLikedByCurrentUser": liked})
}

// RegisterView endpoint
func (pc *PostController) RegisterView(c *gin.Context) {
	userID, postID, ok := pc.postParams(c)
	if !ok {
		return
	}

	if err := pc.postService.RegisterView(c, userID, postID); err != nil {
		pc.respondPostError(c, err, "Failed to register view")
		return
	}

	util.RespondWithMessage(c, http.StatusOK, "View registered")
}

// ToggleArchive endpoint
func (pc *PostController) ToggleArchive(c *gin.Context) {
	userID, postID, ok := pc.postParams(c)
	if !ok {
		return
	}

	archived, err := pc.postService.ToggleArchive(c, userID, postID)
	if err != nil {
		pc.respondPostError(c, err, "Failed to update archive state")
		return
	}

	message := "Post unarchived"
	if archived {
		message = "Post archived"
	}
	util.RespondWithData(c, http.StatusOK, message, gin.H{"isArchived": archived})
}

func (pc *PostController) listWith(c *gin.Context, list func(ctx context.Context, userID string, opts model.ListOptions) (*model.PaginationData, error), message string) {
	page, searchQuery, err := helper_util.GetListingParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", postly_errors.ErrInvalidPagination)
		return
	}
	userID, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	result, err := list(c, userID, model.ListOptions{Page: page, SearchQuery: searchQuery})
	if err != nil {
		pc.respondPostError(c, err, "Failed to list posts")
		return
	}

	util.RespondWithData(c, http.StatusOK, message, result)
}

func (pc *PostController) postParams(c *gin.Context) (userID, postID string, ok bool) {
	userID, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return "", "", false
	}
	postID = c.Param("postId")
	if err := pc.validationUtil.ValidateObjectID(postID); err != nil {
		util.RespondWithError(c, http.StatusNotFound, "Post not found", postly_errors.ErrPostNotFound)
		return "", "", false
	}
	return userID, postID, true
}

func (pc *PostController) respondPostError(c *gin.Context, err error, fallback string) {
	switch err {
	case postly_errors.ErrPostNotFound:
		util.RespondWithError(c, http.StatusNotFound, "Post not found", err)
	case postly_errors.ErrUserNotFound:
		util.RespondWithError(c, http.StatusNotFound, "User not found", err)
	case postly_errors.ErrPostArchived:
		util.RespondWithError(c, http.StatusForbidden, "This post has been archived", err)
	case postly_errors.ErrOwnPost:
		util.RespondWithError(c, http.StatusForbidden, "You cannot perform this action on your own post", err)
	case postly_errors.ErrNotPostOwner:
		util.RespondWithError(c, http.StatusForbidden, "Only the author can archive a post", err)
	case postly_errors.ErrAlreadyViewed:
		util.RespondWithError(c, http.StatusForbidden, "You have already viewed this post", err)
	case postly_errors.ErrUnauthorized:
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
	default:
		util.RespondWithError(c, http.StatusInternalServerError, fallback, err)
	}
}
