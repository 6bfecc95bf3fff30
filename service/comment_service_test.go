// api/service/comment_service_test.go
package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/postly/api/cache"
	postly_errors "github.com/postly/api/errors"
	"github.com/postly/api/model"
	"github.com/postly/api/service"
	"github.com/postly/api/util"
)

type commentFixture struct {
	comments     *service.CommentService
	userDAO      *fakeUserDAO
	postDAO      *fakePostDAO
	commentDAO   *fakeCommentDAO
	store        *cache.Store
	cacheService *util.CacheService
	author       model.User
	reader       model.User
	post         model.Post
}

func newCommentFixture(t *testing.T) *commentFixture {
	t.Helper()
	userDAO := newFakeUserDAO()
	postDAO := newFakePostDAO()
	commentDAO := newFakeCommentDAO()
	store, cacheService := newTestCache()
	comments := service.NewCommentService(commentDAO, postDAO, userDAO, cacheService, util.NewNotificationService(), newFakeAuditService(), util.NewEventBus())

	author := userDAO.add(model.User{Username: "ada", Email: "ada@example.com"})
	reader := userDAO.add(model.User{Username: "bob", Email: "bob@example.com"})
	post := postDAO.add(model.Post{
		Author:    author.ID,
		Category:  "engineering",
		Title:     "A valid title",
		Content:   "content",
		CreatedAt: time.Now(),
	})

	return &commentFixture{
		comments:     comments,
		userDAO:      userDAO,
		postDAO:      postDAO,
		commentDAO:   commentDAO,
		store:        store,
		cacheService: cacheService,
		author:       author,
		reader:       reader,
		post:         post,
	}
}

func (f *commentFixture) addComment(author primitive.ObjectID, content string, createdAt time.Time) model.Comment {
	return f.commentDAO.add(model.Comment{
		Author:    author,
		Content:   content,
		Type:      model.CommentTypeText,
		BlogPost:  f.post.ID,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	})
}

func TestListComments(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()
	base := time.Now()
	f.addComment(f.reader.ID, "first", base)
	f.addComment(f.author.ID, "second", base.Add(time.Second))

	result, total, err := f.comments.ListComments(ctx, f.reader.ID.Hex(), f.post.ID.Hex(), 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, service.CommentPageLimit, result.Limit)

	views := result.Data.([]model.CommentView)
	assert.Len(t, views, 2)
	assert.Equal(t, "second", views[0].Content)
	assert.Equal(t, "ada", views[0].Author.Username)
	assert.Equal(t, "first", views[1].Content)
}

func TestListCommentsTotalStaysFreshOnCacheHit(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()
	f.addComment(f.reader.ID, "first", time.Now())

	_, total, err := f.comments.ListComments(ctx, f.reader.ID.Hex(), f.post.ID.Hex(), 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)

	// The page is cached now; a new comment bumps the count anyway
	f.addComment(f.author.ID, "second", time.Now())

	result, total, err := f.comments.ListComments(ctx, f.reader.ID.Hex(), f.post.ID.Hex(), 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)

	// The cached page itself is stale until something invalidates it
	views := result.Data.([]model.CommentView)
	assert.Len(t, views, 1)
}

func TestListCommentsUnknownPost(t *testing.T) {
	f := newCommentFixture(t)

	_, _, err := f.comments.ListComments(context.Background(), f.reader.ID.Hex(), primitive.NewObjectID().Hex(), 1)
	assert.ErrorIs(t, err, postly_errors.ErrPostNotFound)
}

func TestAddComment(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()
	readerID := f.reader.ID.Hex()
	postID := f.post.ID.Hex()

	// Seed a cached comment page so the invalidation is observable
	f.cacheService.SetCommentsPage([]model.CommentView{}, cache.CommentsPageKey(postID, 1, service.CommentPageLimit))

	view, err := f.comments.AddComment(ctx, readerID, postID, model.CommentInput{Content: "nice post"})
	assert.NoError(t, err)
	assert.Equal(t, "nice post", view.Content)
	assert.Equal(t, model.CommentTypeText, view.Type)
	assert.Equal(t, "bob", view.Author.Username)

	// The comment is linked on the post document
	post, err := f.postDAO.FindByID(ctx, f.post.ID)
	assert.NoError(t, err)
	assert.Len(t, post.Comments, 1)

	// Cached comment pages are dropped, the post view refreshed
	_, ok := f.store.Read(cache.CommentsPageKey(postID, 1, service.CommentPageLimit))
	assert.False(t, ok)
	cached, ok := f.cacheService.GetPost(postID)
	assert.True(t, ok)
	assert.Equal(t, 1, cached.Comments)
}

func TestAddCommentUnknownPost(t *testing.T) {
	f := newCommentFixture(t)

	_, err := f.comments.AddComment(context.Background(), f.reader.ID.Hex(), primitive.NewObjectID().Hex(), model.CommentInput{Content: "hi"})
	assert.ErrorIs(t, err, postly_errors.ErrPostNotFound)
}

func TestCommentToggleLike(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()
	comment := f.addComment(f.author.ID, "hello", time.Now())
	postID := f.post.ID.Hex()

	f.cacheService.SetCommentsPage([]model.CommentView{}, cache.CommentsPageKey(postID, 1, service.CommentPageLimit))

	liked, err := f.comments.ToggleLike(ctx, f.reader.ID.Hex(), postID, comment.ID.Hex())
	assert.NoError(t, err)
	assert.True(t, liked)

	stored, err := f.commentDAO.FindByID(ctx, comment.ID)
	assert.NoError(t, err)
	assert.Len(t, stored.Likes, 1)

	_, ok := f.store.Read(cache.CommentsPageKey(postID, 1, service.CommentPageLimit))
	assert.False(t, ok)

	// A second toggle removes the like
	liked, err = f.comments.ToggleLike(ctx, f.reader.ID.Hex(), postID, comment.ID.Hex())
	assert.NoError(t, err)
	assert.False(t, liked)
}

func TestCommentToggleLikeOwnComment(t *testing.T) {
	f := newCommentFixture(t)
	comment := f.addComment(f.reader.ID, "hello", time.Now())

	_, err := f.comments.ToggleLike(context.Background(), f.reader.ID.Hex(), f.post.ID.Hex(), comment.ID.Hex())
	assert.ErrorIs(t, err, postly_errors.ErrOwnComment)
}

func TestCommentToggleLikeUnknownComment(t *testing.T) {
	f := newCommentFixture(t)

	_, err := f.comments.ToggleLike(context.Background(), f.reader.ID.Hex(), f.post.ID.Hex(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, postly_errors.ErrCommentNotFound)
}
