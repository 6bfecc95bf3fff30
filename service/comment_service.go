// api/service/comment_service.go
package service

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/postly/api/audit"
	"github.com/postly/api/cache"
	postly_errors "github.com/postly/api/errors"
	"github.com/postly/api/model"
	"github.com/postly/api/util"
)

// CommentEvent is the payload published on comment.* events.
type CommentEvent struct {
	CommentID string
	PostID    string
	UserID    string
}

// CommentService owns the comment lifecycle of a post.
type CommentService struct {
	commentDAO      ICommentDAO
	postDAO         IPostDAO
	userDAO         IUserDAO
	cacheService    *util.CacheService
	notificationSvc *util.NotificationService
	auditService    audit.Service
	eventBus        *util.EventBus
}

func NewCommentService(commentDAO ICommentDAO, postDAO IPostDAO, userDAO IUserDAO, cacheService *util.CacheService, notificationSvc *util.NotificationService, auditService audit.Service, eventBus *util.EventBus) *CommentService {
	service := &CommentService{
		commentDAO:      commentDAO,
		postDAO:         postDAO,
		userDAO:         userDAO,
		cacheService:    cacheService,
		notificationSvc: notificationSvc,
		auditService:    auditService,
		eventBus:        eventBus,
	}

	for _, eventType := range []string{"comment.created", "comment.liked", "comment.unliked"} {
		eventBus.Subscribe(eventType, service.handleCommentEvent)
	}

	return service
}

func (s *CommentService) handleCommentEvent(ctx context.Context, event util.Event) error {
	payload, ok := event.Payload.(CommentEvent)
	if !ok {
		return errors.New("invalid comment event payload")
	}

	changeType := strings.TrimPrefix(event.Type, "comment.")
	if err := s.notificationSvc.NotifyCommentChange(ctx, changeType, payload.CommentID, payload.PostID); err != nil {
		return err
	}
	return s.auditService.Record(ctx, audit.Entry{
		UserID:   payload.UserID,
		Action:   event.Type,
		TargetID: payload.CommentID,
	})
}

// ListComments returns one page of a post's comments, newest first,
// along with the live total comment count. The count is taken on every
// request so the client's total stays fresh even when the page itself
// comes from the cache.
func (s *CommentService) ListComments(ctx context.Context, userID, postID string, page int) (*model.PaginationData, int64, error) {
	viewerID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, 0, postly_errors.ErrUnauthorized
	}
	postOID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, 0, postly_errors.ErrPostNotFound
	}

	exists, err := s.postDAO.ExistsByID(ctx, postOID)
	if err != nil {
		return nil, 0, postly_errors.ErrInternalServer
	}
	if !exists {
		return nil, 0, postly_errors.ErrPostNotFound
	}

	total, err := s.commentDAO.CountByPost(ctx, postOID)
	if err != nil {
		return nil, 0, postly_errors.ErrInternalServer
	}
	totalPages := int((total + CommentPageLimit - 1) / CommentPageLimit)
	offset := (page - 1) * CommentPageLimit

	key := cache.CommentsPageKey(postID, page, CommentPageLimit)
	if cached, ok := s.cacheService.GetCommentsPage(key); ok {
		return &model.PaginationData{
			Offset:     offset,
			Page:       page,
			Limit:      CommentPageLimit,
			TotalPages: totalPages,
			Data:       cached,
		}, total, nil
	}

	comments, err := s.commentDAO.FindByPost(ctx, postOID, int64(offset), CommentPageLimit)
	if err != nil {
		return nil, 0, postly_errors.ErrInternalServer
	}

	views, err := s.buildViews(ctx, comments, viewerID)
	if err != nil {
		return nil, 0, err
	}

	s.cacheService.SetCommentsPage(views, key)

	return &model.PaginationData{
		Offset:     offset,
		Page:       page,
		Limit:      CommentPageLimit,
		TotalPages: totalPages,
		Data:       views,
	}, total, nil
}

// AddComment stores a new text comment on a post and links it on the
// post document. Every cached comment page of the post goes stale.
func (s *CommentService) AddComment(ctx context.Context, userID, postID string, input model.CommentInput) (*model.CommentView, error) {
	authorID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, postly_errors.ErrUnauthorized
	}
	postOID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, postly_errors.ErrPostNotFound
	}

	exists, err := s.postDAO.ExistsByID(ctx, postOID)
	if err != nil {
		return nil, postly_errors.ErrInternalServer
	}
	if !exists {
		return nil, postly_errors.ErrPostNotFound
	}

	comment, err := s.commentDAO.Create(ctx, model.Comment{
		Author:   authorID,
		Content:  input.Content,
		Type:     model.CommentTypeText,
		BlogPost: postOID,
	})
	if err != nil {
		return nil, postly_errors.ErrInternalServer
	}

	post, err := s.postDAO.AddComment(ctx, postOID, comment.ID)
	if err != nil {
		if errors.Is(err, postly_errors.ErrPostNotFound) {
			return nil, postly_errors.ErrPostNotFound
		}
		return nil, postly_errors.ErrInternalServer
	}

	// The post view carries the comment count, so it goes stale too.
	s.refreshPostView(ctx, *post, authorID)
	s.cacheService.InvalidatePostComments(postID)

	views, err := s.buildViews(ctx, []model.Comment{*comment}, authorID)
	if err != nil {
		return nil, err
	}

	s.eventBus.Publish(ctx, "comment.created", CommentEvent{CommentID: comment.ID.Hex(), PostID: postID, UserID: userID})
	return &views[0], nil
}

// ToggleLike flips the caller's like on a comment. Liking your own
// comment is rejected.
func (s *CommentService) ToggleLike(ctx context.Context, userID, postID, commentID string) (bool, error) {
	viewerID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return false, postly_errors.ErrUnauthorized
	}
	commentOID, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return false, postly_errors.ErrCommentNotFound
	}

	comment, err := s.commentDAO.FindByID(ctx, commentOID)
	if err != nil {
		if errors.Is(err, postly_errors.ErrCommentNotFound) {
			return false, postly_errors.ErrCommentNotFound
		}
		return false, postly_errors.ErrInternalServer
	}
	if comment.Author == viewerID {
		return false, postly_errors.ErrOwnComment
	}

	like := !comment.LikedBy(viewerID)
	if _, err := s.commentDAO.UpdateLikes(ctx, commentOID, viewerID, like); err != nil {
		if errors.Is(err, postly_errors.ErrCommentNotFound) {
			return false, postly_errors.ErrCommentNotFound
		}
		return false, postly_errors.ErrInternalServer
	}

	s.cacheService.InvalidatePostComments(postID)

	eventType := "comment.liked"
	if !like {
		eventType = "comment.unliked"
	}
	s.eventBus.Publish(ctx, eventType, CommentEvent{CommentID: commentID, PostID: postID, UserID: userID})
	return like, nil
}

func (s *CommentService) buildViews(ctx context.Context, comments []model.Comment, viewerID primitive.ObjectID) ([]model.CommentView, error) {
	authorIDs := make([]primitive.ObjectID, 0, len(comments))
	seen := map[primitive.ObjectID]bool{}
	for _, comment := range comments {
		if !seen[comment.Author] {
			seen[comment.Author] = true
			authorIDs = append(authorIDs, comment.Author)
		}
	}

	usernames, err := s.userDAO.UsernamesByID(ctx, authorIDs)
	if err != nil {
		return nil, postly_errors.ErrInternalServer
	}

	views := make([]model.CommentView, 0, len(comments))
	for _, comment := range comments {
		author := model.AuthorRef{ID: comment.Author.Hex(), Username: usernames[comment.Author]}
		views = append(views, comment.View(author, viewerID))
	}
	return views, nil
}

func (s *CommentService) refreshPostView(ctx context.Context, post model.Post, viewerID primitive.ObjectID) {
	usernames, err := s.userDAO.UsernamesByID(ctx, []primitive.ObjectID{post.Author})
	if err != nil {
		return
	}
	author := model.AuthorRef{ID: post.Author.Hex(), Username: usernames[post.Author]}
	s.cacheService.SetPost(post.View(author, viewerID))
}
