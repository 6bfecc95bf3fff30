// api/model/post.go
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	helper_util "github.com/postly/api/util/helper"
)

// Post is the blogposts collection document
type Post struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty"`
	Author     primitive.ObjectID   `bson:"author"`
	Category   string               `bson:"category"`
	Title      string               `bson:"title"`
	Content    string               `bson:"content"`
	Comments   []primitive.ObjectID `bson:"comments"`
	Likes      []primitive.ObjectID `bson:"likes"`
	Views      []primitive.ObjectID `bson:"views"`
	IsArchived bool                 `bson:"isArchived"`
	CreatedAt  time.Time            `bson:"createdAt"`
	UpdatedAt  time.Time            `bson:"updatedAt"`
}

// AuthorRef is the populated author reference carried by views
type AuthorRef struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
}

// PostView is the response/cache shape of a post: id lists collapsed to
// counts, timestamps ISO-formatted, liked status resolved for the caller
type PostView struct {
	ID                   string    `json:"_id"`
	Author               AuthorRef `json:"author"`
	Category             string    `json:"category"`
	Title                string    `json:"title"`
	Content              string    `json:"content"`
	Comments             int       `json:"comments"`
	Likes                int       `json:"likes"`
	Views                int       `json:"views"`
	IsLikedByCurrentUser bool      `json:"isLikedByCurrentUser"`
	IsArchived           bool      `json:"isArchived"`
	CreatedAt            string    `json:"createdAt"`
	UpdatedAt            string    `json:"updatedAt"`
}

// PostInput is the expected create-post request body
type PostInput struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

// ListOptions carries the validated listing query parameters
type ListOptions struct {
	Page        int
	SearchQuery string
}

// PostPage is what listing queries cache: one page plus the page count
type PostPage struct {
	Data       []PostView `json:"data"`
	TotalPages int        `json:"totalPages"`
}

// PaginationData is the listing response envelope
type PaginationData struct {
	Offset     int         `json:"offset"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"totalPages"`
	Data       interface{} `json:"data"`
}

// LikedBy reports whether userID is in the post's likes
func (p Post) LikedBy(userID primitive.ObjectID) bool {
	for _, like := range p.Likes {
		if like == userID {
			return true
		}
	}
	return false
}

// ViewedBy reports whether userID is in the post's views
func (p Post) ViewedBy(userID primitive.ObjectID) bool {
	for _, view := range p.Views {
		if view == userID {
			return true
		}
	}
	return false
}

// View builds the response/cache view of the post for the given caller
func (p Post) View(author AuthorRef, viewerID primitive.ObjectID) PostView {
	return PostView{
		ID:                   p.ID.Hex(),
		Author:               author,
		Category:             p.Category,
		Title:                p.Title,
		Content:              p.Content,
		Comments:             len(p.Comments),
		Likes:                len(p.Likes),
		Views:                len(p.Views),
		IsLikedByCurrentUser: p.LikedBy(viewerID),
		IsArchived:           p.IsArchived,
		CreatedAt:            helper_util.FormatISO(p.CreatedAt),
		UpdatedAt:            helper_util.FormatISO(p.UpdatedAt),
	}
}
