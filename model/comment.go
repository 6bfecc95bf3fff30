// api/model/comment.go
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	helper_util "github.com/postly/api/util/helper"
)

// CommentTypeText is the only comment type currently supported
const CommentTypeText = "text"

// Comment is the comments collection document
type Comment struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty"`
	Author    primitive.ObjectID   `bson:"author"`
	Likes     []primitive.ObjectID `bson:"likes"`
	Content   string               `bson:"content"`
	Type      string               `bson:"type"`
	BlogPost  primitive.ObjectID   `bson:"blogPost"`
	CreatedAt time.Time            `bson:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt"`
}

// CommentView is the response/cache shape of a comment
type CommentView struct {
	ID                   string    `json:"_id"`
	Likes                int       `json:"likes"`
	Content              string    `json:"content"`
	IsLikedByCurrentUser bool      `json:"isLikedByCurrentUser"`
	Author               AuthorRef `json:"author"`
	Type                 string    `json:"type"`
	CreatedAt            string    `json:"createdAt"`
	UpdatedAt            string    `json:"updatedAt"`
}

// CommentInput is the expected add-comment request body
type CommentInput struct {
	Content string `json:"content"`
}

// LikedBy reports whether userID is in the comment's likes
func (c Comment) LikedBy(userID primitive.ObjectID) bool {
	for _, like := range c.Likes {
		if like == userID {
			return true
		}
	}
	return false
}

// View builds the response/cache view of the comment for the given caller
func (c Comment) View(author AuthorRef, viewerID primitive.ObjectID) CommentView {
	return CommentView{
		ID:                   c.ID.Hex(),
		Likes:                len(c.Likes),
		Content:              c.Content,
		IsLikedByCurrentUser: c.LikedBy(viewerID),
		Author:               author,
		Type:                 c.Type,
		CreatedAt:            helper_util.FormatISO(c.CreatedAt),
		UpdatedAt:            helper_util.FormatISO(c.UpdatedAt),
	}
}
