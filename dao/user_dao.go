// api/dao/user_dao.go
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

type UserDAO struct {
	collection *mongo.Collection
}

func NewUserDAO(database *mongo.Database) *UserDAO {
	dao := &UserDAO{collection: database.Collection("users")}
	// Ensure unique index on email
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := dao.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		logger.Fatal("Failed to ensure unique index on user email", zap.Error(err))
	}
	return dao
}

// ExistsByID reports whether a user document with the given id exists.
func (dao *UserDAO) ExistsByID(ctx context.Context, userID primitive.ObjectID) (bool, error) {
	return dao.exists(ctx, bson.M{"_id": userID})
}

// ExistsByEmail reports whether an account is already registered under email.
func (dao *UserDAO) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return dao.exists(ctx, bson.M{"email": email})
}

// ExistsByUsername reports whether the display handle is already taken.
func (dao *UserDAO) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return dao.exists(ctx, bson.M{"username": username})
}

func (dao *UserDAO) exists(ctx context.Context, filter bson.M) (bool, error) {
	count, err := dao.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		logger.Error("Failed to check user existence", zap.Error(err), zap.Any("filter", filter))
		return false, postly_errors.ErrDatabaseOperation
	}
	return count > 0, nil
}

// FindByID retrieves a user by id, or ErrUserNotFound.
func (dao *UserDAO) FindByID(ctx context.Context, userID primitive.ObjectID) (*model.User, error) {
	var user model.User
	err := dao.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, postly_errors.ErrUserNotFound
	} else if err != nil {
		logger.Error("Failed to find user by id", zap.Error(err), zap.String("userID", userID.Hex()))
		return nil, postly_errors.ErrDatabaseOperation
	}
	return &user, nil
}

// FindByEmail retrieves a user by email, or ErrUserNotFound.
func (dao *UserDAO) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := dao.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, postly_errors.ErrUserNotFound
	} else if err != nil {
		logger.Error("Failed to find user by email", zap.Error(err))
		return nil, postly_errors.ErrDatabaseOperation
	}
	return &user, nil
}

// Create inserts a new user with fresh timestamps and returns it.
func (dao *UserDAO) Create(ctx context.Context, user model.User) (*model.User, error) {
	now := time.Now()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.BlogPosts == nil {
		user.BlogPosts = []primitive.ObjectID{}
	}

	if _, err := dao.collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, postly_errors.ErrAccountExists
		}
		logger.Error("Failed to create user", zap.Error(err), zap.String("email", user.Email))
		return nil, postly_errors.ErrDatabaseOperation
	}

	logger.Debug("User created", zap.String("userID", user.ID.Hex()))
	return &user, nil
}

// UsernamesByID resolves the display handles for a set of author ids in one
// query, used to populate author references on views.
func (dao *UserDAO) UsernamesByID(ctx context.Context, userIDs []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	usernames := make(map[primitive.ObjectID]string, len(userIDs))
	if len(userIDs) == 0 {
		return usernames, nil
	}

	cursor, err := dao.collection.Find(ctx,
		bson.M{"_id": bson.M{"$in": userIDs}},
		options.Find().SetProjection(bson.M{"_id": 1, "username": 1}))
	if err != nil {
		logger.Error("Failed to resolve usernames", zap.Error(err))
		return nil, postly_errors.ErrDatabaseOperation
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var user model.User
		if err := cursor.Decode(&user); err != nil {
			return nil, postly_errors.ErrDatabaseOperation
		}
		usernames[user.ID] = user.Username
	}
	if err := cursor.Err(); err != nil {
		return nil, postly_errors.ErrDatabaseOperation
	}
	return usernames, nil
}
