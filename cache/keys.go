// api/cache/keys.go
package cache

import "fmt"

// Cache key grammar. Invalidation works by literal prefix, so the exact
// byte layout of these keys is a contract: a prefix must cover exactly the
// family of entries one kind of mutation can stale.

// PostsPagePrefix covers every cached page of the global post listing.
const PostsPagePrefix = "posts-page:"

// UserKey addresses the cached session/profile snapshot of a user.
func UserKey(userID string) string {
	return fmt.Sprintf("user:%s", userID)
}

// PostKey addresses the cached single-post view.
func PostKey(postID string) string {
	return fmt.Sprintf("post:%s", postID)
}

// PostsPageKey addresses one page of the global post listing.
func PostsPageKey(page, limit int, searchQuery string) string {
	return withSearchQuery(fmt.Sprintf("posts-page:%d-limit:%d", page, limit), searchQuery)
}

// CreatedPostsPageKey addresses one page of a user's created posts.
func CreatedPostsPageKey(userID string, page, limit int, searchQuery string) string {
	return withSearchQuery(fmt.Sprintf("user:%s-createdPosts-page:%d-limit:%d", userID, page, limit), searchQuery)
}

// CreatedPostsPrefix covers every cached page of a user's created posts.
func CreatedPostsPrefix(userID string) string {
	return fmt.Sprintf("user:%s-createdPosts-page:", userID)
}

// LikedPostsPageKey addresses one page of a user's liked posts.
func LikedPostsPageKey(userID string, page, limit int, searchQuery string) string {
	return withSearchQuery(fmt.Sprintf("user:%s-likedPosts-page:%d-limit:%d", userID, page, limit), searchQuery)
}

// LikedPostsPrefix covers every cached page of a user's liked posts.
func LikedPostsPrefix(userID string) string {
	return fmt.Sprintf("user:%s-likedPosts-page:", userID)
}

// ArchivedPostsPageKey addresses one page of a user's archived posts.
func ArchivedPostsPageKey(userID string, page, limit int, searchQuery string) string {
	return withSearchQuery(fmt.Sprintf("user:%s-archivedPosts-page:%d-limit:%d", userID, page, limit), searchQuery)
}

// ArchivedPostsPrefix covers every cached page of a user's archived posts.
func ArchivedPostsPrefix(userID string) string {
	return fmt.Sprintf("user:%s-archivedPosts-page:", userID)
}

// CommentsPageKey addresses one page of a post's comments.
func CommentsPageKey(postID string, page, limit int) string {
	return fmt.Sprintf("post:%s-comments-page:%d-limit:%d", postID, page, limit)
}

// CommentsPrefix covers every cached comment page of a post.
func CommentsPrefix(postID string) string {
	return fmt.Sprintf("post:%s-comments-page:", postID)
}

func withSearchQuery(key, searchQuery string) string {
	if searchQuery == "" {
		return key
	}
	return fmt.Sprintf("%s-searchQuery:%s", key, searchQuery)
}
