// api/errors/comment_errors.go
package errors

import "errors"

var (
	ErrCommentNotFound    = errors.New("comment not found")
	ErrOwnComment         = errors.New("cannot like your own comment")
	ErrInvalidCommentData = errors.New("invalid comment data")
)
