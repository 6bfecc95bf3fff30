// api/util/cache_service.go

package util

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/postly/api/cache"
	logger "github.com/postly/api/logging"
	"github.com/postly/api/model"
)

// CacheService is the typed facade over the shared result store. Entries
// that fail to deserialize are treated as misses and dropped, never
// surfaced to callers.
type CacheService struct {
	store *cache.Store
}

func NewCacheService(store *cache.Store) *CacheService {
	return &CacheService{store: store}
}

func (c *CacheService) GetUserProfile(userID string) (*model.UserProfile, bool) {
	var profile model.UserProfile
	if !c.get(cache.UserKey(userID), &profile) {
		return nil, false
	}
	return &profile, true
}

func (c *CacheService) SetUserProfile(profile model.UserProfile) {
	c.set(profile, cache.UserKey(profile.ID))
}

func (c *CacheService) DeleteUserProfile(userID string) {
	c.store.Delete(cache.UserKey(userID))
}

func (c *CacheService) GetPost(postID string) (*model.PostView, bool) {
	var view model.PostView
	if !c.get(cache.PostKey(postID), &view) {
		return nil, false
	}
	return &view, true
}

func (c *CacheService) SetPost(view model.PostView) {
	c.set(view, cache.PostKey(view.ID))
}

func (c *CacheService) GetPostPage(key string) (*model.PostPage, bool) {
	var page model.PostPage
	if !c.get(key, &page) {
		return nil, false
	}
	return &page, true
}

func (c *CacheService) SetPostPage(page model.PostPage, key string) {
	c.set(page, key)
}

func (c *CacheService) GetCommentsPage(key string) ([]model.CommentView, bool) {
	var comments []model.CommentView
	if !c.get(key, &comments) {
		return nil, false
	}
	return comments, true
}

func (c *CacheService) SetCommentsPage(comments []model.CommentView, key string) {
	c.set(comments, key)
}

// InvalidateGlobalListings drops every cached page of the global listing.
func (c *CacheService) InvalidateGlobalListings() {
	c.store.DeletePrefix(cache.PostsPagePrefix)
}

// InvalidateCreatedListings drops every cached created-posts page of a user.
func (c *CacheService) InvalidateCreatedListings(userID string) {
	c.store.DeletePrefix(cache.CreatedPostsPrefix(userID))
}

// InvalidateLikedListings drops every cached liked-posts page of a user.
func (c *CacheService) InvalidateLikedListings(userID string) {
	c.store.DeletePrefix(cache.LikedPostsPrefix(userID))
}

// InvalidateArchivedListings drops every cached archived-posts page of a user.
func (c *CacheService) InvalidateArchivedListings(userID string) {
	c.store.DeletePrefix(cache.ArchivedPostsPrefix(userID))
}

// InvalidatePostComments drops every cached comment page of a post.
func (c *CacheService) InvalidatePostComments(postID string) {
	c.store.DeletePrefix(cache.CommentsPrefix(postID))
}

func (c *CacheService) get(key string, out interface{}) bool {
	raw, ok := c.store.Read(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		logger.Warn("Dropping undecodable cache entry", zap.Error(err), zap.String("key", key))
		c.store.Delete(key)
		return false
	}
	logger.Debug("Cache hit", zap.String("key", key))
	return true
}

func (c *CacheService) set(value interface{}, key string) {
	if err := c.store.Write(value, key); err != nil {
		logger.Warn("Failed to cache value", zap.Error(err), zap.String("key", key))
		return
	}
	logger.Debug("Cache write", zap.String("key", key))
}
