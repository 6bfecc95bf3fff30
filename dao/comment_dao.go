// api/dao/comment_dao.go
package dao

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	postly_errors "github.com/postly/api/errors"
	logger "github.com/postly/api/logging"
	"github.com/postly/api/model"
)

type CommentDAO struct {
	collection *mongo.Collection
}

func NewCommentDAO(database *mongo.Database) *CommentDAO {
	return &CommentDAO{collection: database.Collection("comments")}
}

// FindByID retrieves a comment by id, or ErrCommentNotFound.
func (dao *CommentDAO) FindByID(ctx context.Context, commentID primitive.ObjectID) (*model.Comment, error) {
	var comment model.Comment
	err := dao.collection.FindOne(ctx, bson.M{"_id": commentID}).Decode(&comment)
	if err == mongo.ErrNoDocuments {
		return nil, postly_errors.ErrCommentNotFound
	} else if err != nil {
		logger.Error("Failed to find comment by id", zap.Error(err), zap.String("commentID", commentID.Hex()))
		return nil, postly_errors.ErrDatabaseOperation
	}
	return &comment, nil
}

// FindByPost returns one page of a post's comments, newest first.
func (dao *CommentDAO) FindByPost(ctx context.Context, postID primitive.ObjectID, skip, limit int64) ([]model.Comment, error) {
	cursor, err := dao.collection.Find(ctx, bson.M{"blogPost": postID}, options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit))
	if err != nil {
		logger.Error("Failed to list comments", zap.Error(err), zap.String("postID", postID.Hex()))
		return nil, postly_errors.ErrDatabaseOperation
	}
	defer cursor.Close(ctx)

	comments := []model.Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		logger.Error("Failed to decode comments", zap.Error(err))
		return nil, postly_errors.ErrDatabaseOperation
	}
	return comments, nil
}

// CountByPost returns the total number of comments on a post.
func (dao *CommentDAO) CountByPost(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	count, err := dao.collection.CountDocuments(ctx, bson.M{"blogPost": postID})
	if err != nil {
		logger.Error("Failed to count comments", zap.Error(err), zap.String("postID", postID.Hex()))
		return 0, postly_errors.ErrDatabaseOperation
	}
	return count, nil
}

// Create inserts a new comment with fresh timestamps and returns it.
func (dao *CommentDAO) Create(ctx context.Context, comment model.Comment) (*model.Comment, error) {
	now := time.Now()
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = now
	comment.UpdatedAt = now
	if comment.Likes == nil {
		comment.Likes = []primitive.ObjectID{}
	}

	if _, err := dao.collection.InsertOne(ctx, comment); err != nil {
		logger.Error("Failed to create comment", zap.Error(err), zap.String("postID", comment.BlogPost.Hex()))
		return nil, postly_errors.ErrDatabaseOperation
	}

	logger.Debug("Comment created", zap.String("commentID", comment.ID.Hex()))
	return &comment, nil
}

// UpdateLikes adds or removes userID on the comment's likes and returns the
// updated document.
func (dao *CommentDAO) UpdateLikes(ctx context.Context, commentID, userID primitive.ObjectID, like bool) (*model.Comment, error) {
	update := bson.M{"$pull": bson.M{"likes": userID}, "$set": bson.M{"updatedAt": time.Now()}}
	if like {
		update = bson.M{"$addToSet": bson.M{"likes": userID}, "$set": bson.M{"updatedAt": time.Now()}}
	}

	var comment model.Comment
	err := dao.collection.FindOneAndUpdate(ctx, bson.M{"_id": commentID}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&comment)
	if err == mongo.ErrNoDocuments {
		return nil, postly_errors.ErrCommentNotFound
	} else if err != nil {
		logger.Error("Failed to update comment likes", zap.Error(err), zap.String("commentID", commentID.Hex()))
		return nil, postly_errors.ErrDatabaseOperation
	}
	return &comment, nil
}
