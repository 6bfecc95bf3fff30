// api/errors/post_errors.go
package errors

import "errors"

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrPostArchived    = errors.New("post is archived")
	ErrOwnPost         = errors.New("cannot act on your own post")
	ErrNotPostOwner    = errors.New("post does not belong to you")
	ErrAlreadyViewed   = errors.New("post already viewed")
	ErrInvalidPostData = errors.New("invalid post data")
)
