// api/controller/comment_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	postly_errors "github.com/postly/api/errors"
	"github.com/postly/api/model"
	"github.com/postly/api/service"
	"github.com/postly/api/util"
	helper_util "github.com/postly/api/util/helper"
)

type CommentController struct {
	commentService service.ICommentService
	validationUtil *util.ValidationUtil
}

func NewCommentController(commentService service.ICommentService, validationUtil *util.ValidationUtil) *CommentController {
	return &CommentController{
		commentService: commentService,
		validationUtil: validationUtil,
	}
}

// RegisterRoutes registers the API routes
func (cc *CommentController) RegisterRoutes(r *gin.RouterGroup) {
	comments := r.Group("/posts/:postId/comments")
	{
		comments.GET("", cc.ListComments)
		comments.POST("", cc.AddComment)
		comments.PUT("/:commentId/like", cc.ToggleLike)
	}
}

// ListComments endpoint
func (cc *CommentController) ListComments(c *gin.Context) {
	userID, postID, ok := cc.commentParams(c)
	if !ok {
		return
	}
	page, err := helper_util.GetPageParam(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", postly_errors.ErrInvalidPagination)
		return
	}

	result, total, err := cc.commentService.ListComments(c, userID, postID, page)
	if err != nil {
		cc.respondCommentError(c, err, "Failed to list comments")
		return
	}

	util.RespondWithData(c, http.StatusOK, "Comments retrieved", gin.H{
		"comments":      result,
		"totalComments": total,
	})
}

// AddComment endpoint
func (cc *CommentController) AddComment(c *gin.Context) {
	userID, postID, ok := cc.commentParams(c)
	if !ok {
		return
	}

	var input model.CommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid comment data", postly_errors.ErrInvalidCommentData)
		return
	}
	if err := cc.validationUtil.ValidateCommentInput(&input); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	comment, err := cc.commentService.AddComment(c, userID, postID, input)
	if err != nil {
		cc.respondCommentError(c, err, "Failed to add comment")
		return
	}

	util.RespondWithData(c, http.StatusCreated, "Comment added", comment)
}

// ToggleLike endpoint
func (cc *CommentController) ToggleLike(c *gin.Context) {
	userID, postID, ok := cc.commentParams(c)
	if !ok {
		return
	}
	commentID := c.Param("commentId")
	if err := cc.validationUtil.ValidateObjectID(commentID); err != nil {
		util.RespondWithError(c, http.StatusNotFound, "Comment not found", postly_errors.ErrCommentNotFound)
		return
	}

	liked, err := cc.commentService.ToggleLike(c, userID, postID, commentID)
	if err != nil {
		cc.respondCommentError(c, err, "Failed to update like")
		return
	}

	message := "Comment unliked"
	if liked {
		message = "Comment liked"
	}
	util.RespondWithData(c, http.StatusOK, message, gin.H{"isLikedByCurrentUser": liked})
}

func (cc *CommentController) commentParams(c *gin.Context) (userID, postID string, ok bool) {
	userID, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return "", "", false
	}
	postID = c.Param("postId")
	if err := cc.validationUtil.ValidateObjectID(postID); err != nil {
		util.RespondWithError(c, http.StatusNotFound, "Post not found", postly_errors.ErrPostNotFound)
		return "", "", false
	}
	return userID, postID, true
}

func (cc *CommentController) respondCommentError(c *gin.Context, err error, fallback string) {
	switch err {
	case postly_errors.ErrPostNotFound:
		util.RespondWithError(c, http.StatusNotFound, "Post not found", err)
	case postly_errors.ErrCommentNotFound:
		util.RespondWithError(c, http.StatusNotFound, "Comment not found", err)
	case postly_errors.ErrOwnComment:
		util.RespondWithError(c, http.StatusForbidden, "You cannot like your own comment", err)
	case postly_errors.ErrUnauthorized:
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
	default:
		util.RespondWithError(c, http.StatusInternalServerError, fallback, err)
	}
}
