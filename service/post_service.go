// api/service/post_service.go
package service

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"github.com/postly/api/audit"
	"github.com/postly/api/cache"
	"github.com/postly/api/dao"
	postly_errors "github.com/postly/api/errors"
	"github.com/postly/api/model"
	"github.com/postly/api/util"
)

// PostEvent is the payload published on post.* events.
type PostEvent struct {
	PostID string
	UserID string
}

// PostService owns the post lifecycle. Every mutation writes the fresh
// post:{id} view back to the cache and drops exactly the listing
// families the mutation can stale.
type PostService struct {
	postDAO         IPostDAO
	userDAO         IUserDAO
	cacheService    *util.CacheService
	notificationSvc *util.NotificationService
	auditService    audit.Service
	eventBus        *util.EventBus
}

func NewPostService(postDAO IPostDAO, userDAO IUserDAO, cacheService *util.CacheService, notificationSvc *util.NotificationService, auditService audit.Service, eventBus *util.EventBus) *PostService {
	service := &PostService{
		postDAO:         postDAO,
		userDAO:         userDAO,
		cacheService:    cacheService,
		notificationSvc: notificationSvc,
		auditService:    auditService,
		eventBus:        eventBus,
	}

	for _, eventType := range []string{
		"post.created", "post.liked", "post.unliked",
		"post.viewed", "post.archived", "post.unarchived",
	} {
		eventBus.Subscribe(eventType, service.handlePostEvent)
	}

	return service
}

func (s *PostService) handlePostEvent(ctx context.Context, event util.Event) error {
	payload, ok := event.Payload.(PostEvent)
	if !ok {
		return errors.New("invalid post event payload")
	}

	changeType := strings.TrimPrefix(event.Type, "post.")
	if err := s.notificationSvc.NotifyPostChange(ctx, changeType, payload.PostID, payload.UserID); err != nil {
		return err
	}
	return s.auditService.Record(ctx, audit.Entry{
		UserID:   payload.UserID,
		Action:   event.Type,
		TargetID: payload.PostID,
	})
}

// ListPosts returns one page of the global listing, newest first,
// optionally filtered by search query.
func (s *PostService) ListPosts(ctx context.Context, userID string, opts model.ListOptions) (*model.PaginationData, error) {
	viewerID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, postly_errors.ErrUnauthorized
	}

	key := cache.PostsPageKey(opts.Page, PostPageLimit, opts.SearchQuery)
	return s.listPage(ctx, key, dao.PostQuery{Search: opts.SearchQuery}, viewerID, opts.Page)
}

// ListCreatedPosts returns one page of the caller's own active posts.
func (s *PostService) ListCreatedPosts(ctx context.Context, userID string, opts model.ListOptions) (*model.PaginationData, error) {
	viewerID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, postly_errors.ErrUnauthorized
	}

	key := cache.CreatedPostsPageKey(userID, opts.Page, PostPageLimit, opts.SearchQuery)
	return s.listPage(ctx, key, dao.PostQuery{AuthorID: viewerID, Search: opts.SearchQuery}, viewerID, opts.Page)
}

// ListLikedPosts returns one page of the posts the caller has liked.
func (s *PostService) ListLikedPosts(ctx context.Context, userID string, opts model.ListOptions) (*model.PaginationData, error) {
	viewerID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, postly_errors.ErrUnauthorized
	}

	key := cache.LikedPostsPageKey(userID, opts.Page, PostPageLimit, opts.SearchQuery)
	return s.listPage(ctx, key, dao.PostQuery{LikedBy: viewerID, Search: opts.SearchQuery}, viewerID, opts.Page)
}

// ListArchivedPosts returns one page of the caller's archived posts.
func (s *PostService) ListArchivedPosts(ctx context.Context, userID string, opts model.ListOptions) (*model.PaginationData, error) {
	viewerID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, postly_errors.ErrUnauthorized
	}

	key := cache.ArchivedPostsPageKey(userID, opts.Page, PostPageLimit, opts.SearchQuery)
	return s.listPage(ctx, key, dao.PostQuery{AuthorID: viewerID, Archived: true, Search: opts.SearchQuery}, viewerID, opts.Page)
}

// CreatePost stores a new post and returns its id. The global listing
// and the author's created listing go stale and are dropped.
func (s *PostService) CreatePost(ctx context.Context, userID string, input model.PostInput) (string, error) {
	authorID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return "", postly_errors.ErrUnauthorized
	}

	exists, err := s.userDAO.ExistsByID(ctx, authorID)
	if err != nil {
		return "", postly_errors.ErrInternalServer
	}
	if !exists {
		return "", postly_errors.ErrUserNotFound
	}

	post, err := s.postDAO.Create(ctx, model.Post{
		Author:   authorID,
		Category: input.Category,
		Title:    input.Title,
		Content:  input.Content,
	})
	if err != nil {
		return "", postly_errors.ErrInternalServer
	}

	s.cacheService.InvalidateGlobalListings()
	s.cacheService.InvalidateCreatedListings(userID)

	s.eventBus.Publish(ctx, "post.created", PostEvent{PostID: post.ID.Hex(), UserID: userID})
	return post.ID.Hex(), nil
}

// GetPost returns the single-post view, read-through on post:{id}.
// Archived posts are visible to their author only.
func (s *PostService) GetPost(ctx context.Context, userID, postID string) (*model.PostView, error) {
	viewerID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, postly_errors.ErrUnauthorized
	}
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, postly_errors.ErrPostNotFound
	}

	if cached, ok := s.cacheService.GetPost(postID); ok {
		if cached.IsArchived && cached.Author.ID != userID {
			return nil, postly_errors.ErrPostArchived
		}
		return cached, nil
	}

	post, err := s.postDAO.FindByID(ctx, oid)
	if err != nil {
		return nil, s.mapPostError(err)
	}
	if post.IsArchived && post.Author != viewerID {
		return nil, postly_errors.ErrPostArchived
	}

	view, err := s.buildView(ctx, *post, viewerID)
	if err != nil {
		return nil, err
	}

	s.cacheService.SetPost(*view)
	return view, nil
}

// ToggleLike flips the caller's like on a post. Liking your own post is
// rejected.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID string) (int, bool, error) {
	viewerID, oid, post, err := s.loadForMutation(ctx, userID, postID)
	if err != nil {
		return 0, false, err
	}
	if post.Author == viewerID {
		return 0, false, postly_errors.ErrOwnPost
	}

	like := !post.LikedBy(viewerID)
	updated, err := s.postDAO.UpdateLikes(ctx, oid, viewerID, like)
	if err != nil {
		return 0, false, s.mapPostError(err)
	}

	if err := s.refreshPostView(ctx, *updated, viewerID); err != nil {
		return 0, false, err
	}
	s.cacheService.InvalidateLikedListings(userID)
	s.cacheService.InvalidateGlobalListings()
	s.cacheService.InvalidateCreatedListings(updated.Author.Hex())

	eventType := "post.liked"
	if !like {
		eventType = "post.unliked"
	}
	s.eventBus.Publish(ctx, eventType, PostEvent{PostID: postID, UserID: userID})
	return len(updated.Likes), like, nil
}

// RegisterView records the caller on the post's views, once. Authors do
// not view their own posts and repeat views are rejected.
func (s *PostService) RegisterView(ctx context.Context, userID, postID string) error {
	viewerID, oid, post, err := s.loadForMutation(ctx, userID, postID)
	if err != nil {
		return err
	}
	if post.Author == viewerID {
		return postly_errors.ErrOwnPost
	}
	if post.ViewedBy(viewerID) {
		return postly_errors.ErrAlreadyViewed
	}

	updated, err := s.postDAO.AddView(ctx, oid, viewerID)
	if err != nil {
		return s.mapPostError(err)
	}

	if err := s.refreshPostView(ctx, *updated, viewerID); err != nil {
		return err
	}
	s.cacheService.InvalidateGlobalListings()
	s.cacheService.InvalidateCreatedListings(updated.Author.Hex())
	s.cacheService.InvalidateLikedListings(userID)

	s.eventBus.Publish(ctx, "post.viewed", PostEvent{PostID: postID, UserID: userID})
	return nil
}

// ToggleArchive flips the archived flag. Only the author may archive.
func (s *PostService) ToggleArchive(ctx context.Context, userID, postID string) (bool, error) {
	viewerID, oid, post, err := s.loadForMutation(ctx, userID, postID)
	if err != nil {
		return false, err
	}
	if post.Author != viewerID {
		return false, postly_errors.ErrNotPostOwner
	}

	archived := !post.IsArchived
	updated, err := s.postDAO.SetArchived(ctx, oid, archived)
	if err != nil {
		return false, s.mapPostError(err)
	}

	if err := s.refreshPostView(ctx, *updated, viewerID); err != nil {
		return false, err
	}
	s.cacheService.InvalidateLikedListings(userID)
	s.cacheService.InvalidateGlobalListings()
	s.cacheService.InvalidateCreatedListings(userID)
	s.cacheService.InvalidateArchivedListings(userID)

	eventType := "post.archived"
	if !archived {
		eventType = "post.unarchived"
	}
	s.eventBus.Publish(ctx, eventType, PostEvent{PostID: postID, UserID: userID})
	return archived, nil
}

// listPage is the shared read-through for all four listing families.
// Count and page fetch run in parallel on a miss.
func (s *PostService) listPage(ctx context.Context, key string, query dao.PostQuery, viewerID primitive.ObjectID, page int) (*model.PaginationData, error) {
	offset := (page - 1) * PostPageLimit

	if cached, ok := s.cacheService.GetPostPage(key); ok {
		return &model.PaginationData{
			Offset:     offset,
			Page:       page,
			Limit:      PostPageLimit,
			TotalPages: cached.TotalPages,
			Data:       cached.Data,
		}, nil
	}

	var (
		posts []model.Post
		total int64
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		posts, err = s.postDAO.Find(groupCtx, query, int64(offset), PostPageLimit)
		return err
	})
	group.Go(func() error {
		var err error
		total, err = s.postDAO.Count(groupCtx, query)
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, postly_errors.ErrInternalServer
	}

	views, err := s.buildViews(ctx, posts, viewerID)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + PostPageLimit - 1) / PostPageLimit)
	s.cacheService.SetPostPage(model.PostPage{Data: views, TotalPages: totalPages}, key)

	return &model.PaginationData{
		Offset:     offset,
		Page:       page,
		Limit:      PostPageLimit,
		TotalPages: totalPages,
		Data:       views,
	}, nil
}

func (s *PostService) buildViews(ctx context.Context, posts []model.Post, viewerID primitive.ObjectID) ([]model.PostView, error) {
	authorIDs := make([]primitive.ObjectID, 0, len(posts))
	seen := map[primitive.ObjectID]bool{}
	for _, post := range posts {
		if !seen[post.Author] {
			seen[post.Author] = true
			authorIDs = append(authorIDs, post.Author)
		}
	}

	usernames, err := s.userDAO.UsernamesByID(ctx, authorIDs)
	if err != nil {
		return nil, postly_errors.ErrInternalServer
	}

	views := make([]model.PostView, 0, len(posts))
	for _, post := range posts {
		author := model.AuthorRef{ID: post.Author.Hex(), Username: usernames[post.Author]}
		views = append(views, post.View(author, viewerID))
	}
	return views, nil
}

func (s *PostService) buildView(ctx context.Context, post model.Post, viewerID primitive.ObjectID) (*model.PostView, error) {
	usernames, err := s.userDAO.UsernamesByID(ctx, []primitive.ObjectID{post.Author})
	if err != nil {
		return nil, postly_errors.ErrInternalServer
	}
	author := model.AuthorRef{ID: post.Author.Hex(), Username: usernames[post.Author]}
	view := post.View(author, viewerID)
	return &view, nil
}

// refreshPostView writes the post-mutation view back under post:{id} so
// the next read serves fresh data without touching the database.
func (s *PostService) refreshPostView(ctx context.Context, post model.Post, viewerID primitive.ObjectID) error {
	view, err := s.buildView(ctx, post, viewerID)
	if err != nil {
		return err
	}
	s.cacheService.SetPost(*view)
	return nil
}

func (s *PostService) loadForMutation(ctx context.Context, userID, postID string) (primitive.ObjectID, primitive.ObjectID, *model.Post, error) {
	viewerID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, nil, postly_errors.ErrUnauthorized
	}
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, nil, postly_errors.ErrPostNotFound
	}

	post, err := s.postDAO.FindByID(ctx, oid)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, nil, s.mapPostError(err)
	}
	return viewerID, oid, post, nil
}

func (s *PostService) mapPostError(err error) error {
	if errors.Is(err, postly_errors.ErrPostNotFound) {
		return postly_errors.ErrPostNotFound
	}
	return postly_errors.ErrInternalServer
}
