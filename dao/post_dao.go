// api/dao/post_dao.go
package dao

import (
	"context"
	"regexp"
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

// PostQuery describes which listing family is being fetched. Zero-value
// object ids mean "any author" / "any liker".
type PostQuery struct {
	AuthorID primitive.ObjectID
	LikedBy  primitive.ObjectID
	Archived bool
	Search   string
}

func (q PostQuery) filter() bson.M {
	filter := bson.M{"isArchived": q.Archived}
	if !q.AuthorID.IsZero() {
		filter["author"] = q.AuthorID
	}
	if !q.LikedBy.IsZero() {
		filter["likes"] = bson.M{"$in": []primitive.ObjectID{q.LikedBy}}
	}
	if q.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
		filter["$or"] = []bson.M{
			{"category": pattern},
			{"title": pattern},
			{"content": pattern},
		}
	}
	return filter
}

type PostDAO struct {
	collection *mongo.Collection
}

func NewPostDAO(database *mongo.Database) *PostDAO {
	return &PostDAO{collection: database.Collection("blogposts")}
}

// ExistsByID reports whether a post document with the given id exists.
func (dao *PostDAO) ExistsByID(ctx context.Context, postID primitive.ObjectID) (bool, error) {
	count, err := dao.collection.CountDocuments(ctx, bson.M{"_id": postID}, options.Count().SetLimit(1))
	if err != nil {
		logger.Error("Failed to check post existence", zap.Error(err), zap.String("postID", postID.Hex()))
		return false, postly_errors.ErrDatabaseOperation
	}
	return count > 0, nil
}

// FindByID retrieves a post by id, or ErrPostNotFound.
func (dao *PostDAO) FindByID(ctx context.Context, postID primitive.ObjectID) (*model.Post, error) {
	var post model.Post
	err := dao.collection.FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		return nil, postly_errors.ErrPostNotFound
	} else if err != nil {
		logger.Error("Failed to find post by id", zap.Error(err), zap.String("postID", postID.Hex()))
		return nil, postly_errors.ErrDatabaseOperation
	}
	return &post, nil
}

// Find returns one page of posts matching query, newest first.
func (dao *PostDAO) Find(ctx context.Context, query PostQuery, skip, limit int64) ([]model.Post, error) {
	cursor, err := dao.collection.Find(ctx, query.filter(), options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit))
	if err != nil {
		logger.Error("Failed to list posts", zap.Error(err))
		return nil, postly_errors.ErrDatabaseOperation
	}
	defer cursor.Close(ctx)

	posts := []model.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		logger.Error("Failed to decode posts", zap.Error(err))
		return nil, postly_errors.ErrDatabaseOperation
	}
	return posts, nil
}

// Count returns the total number of posts matching query.
func (dao *PostDAO) Count(ctx context.Context, query PostQuery) (int64, error) {
	count, err := dao.collection.CountDocuments(ctx, query.filter())
	if err != nil {
		logger.Error("Failed to count posts", zap.Error(err))
		return 0, postly_errors.ErrDatabaseOperation
	}
	return count, nil
}

// Create inserts a new post with fresh timestamps and returns it.
func (dao *PostDAO) Create(ctx context.Context, post model.Post) (*model.Post, error) {
	now := time.Now()
	post.ID = primitive.NewObjectID()
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.Comments == nil {
		post.Comments = []primitive.ObjectID{}
	}
	if post.Likes == nil {
		post.Likes = []primitive.ObjectID{}
	}
	if post.Views == nil {
		post.Views = []primitive.ObjectID{}
	}

	if _, err := dao.collection.InsertOne(ctx, post); err != nil {
		logger.Error("Failed to create post", zap.Error(err), zap.String("author", post.Author.Hex()))
		return nil, postly_errors.ErrDatabaseOperation
	}

	logger.Debug("Post created", zap.String("postID", post.ID.Hex()))
	return &post, nil
}

// UpdateLikes adds or removes userID on the post's likes and returns the
// updated document.
func (dao *PostDAO) UpdateLikes(ctx context.Context, postID, userID primitive.ObjectID, like bool) (*model.Post, error) {
	update := bson.M{"$pull": bson.M{"likes": userID}}
	if like {
		update = bson.M{"$addToSet": bson.M{"likes": userID}}
	}
	return dao.findByIDAndUpdate(ctx, postID, update)
}

// AddView records userID on the post's views and returns the updated document.
func (dao *PostDAO) AddView(ctx context.Context, postID, userID primitive.ObjectID) (*model.Post, error) {
	return dao.findByIDAndUpdate(ctx, postID, bson.M{"$addToSet": bson.M{"views": userID}})
}

// SetArchived flips the archived flag and returns the updated document.
func (dao *PostDAO) SetArchived(ctx context.Context, postID primitive.ObjectID, archived bool) (*model.Post, error) {
	return dao.findByIDAndUpdate(ctx, postID, bson.M{"$set": bson.M{"isArchived": archived}})
}

// AddComment appends commentID to the post's comments and returns the
// updated document.
func (dao *PostDAO) AddComment(ctx context.Context, postID, commentID primitive.ObjectID) (*model.Post, error) {
	return dao.findByIDAndUpdate(ctx, postID, bson.M{"$addToSet": bson.M{"comments": commentID}})
}

func (dao *PostDAO) findByIDAndUpdate(ctx context.Context, postID primitive.ObjectID, update bson.M) (*model.Post, error) {
	if set, ok := update["$set"].(bson.M); ok {
		set["updatedAt"] = time.Now()
	} else {
		update["$set"] = bson.M{"updatedAt": time.Now()}
	}

	var post model.Post
	err := dao.collection.FindOneAndUpdate(ctx, bson.M{"_id": postID}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&post)
	if err == mongo.ErrNoDocuments {
		return nil, postly_errors.ErrPostNotFound
	} else if err != nil {
		logger.Error("Failed to update post", zap.Error(err), zap.String("postID", postID.Hex()))
		return nil, postly_errors.ErrDatabaseOperation
	}
	return &post, nil
}
