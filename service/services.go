// api/service/services.go
package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/postly/api/audit"
	"github.com/postly/api/dao"
	"github.com/postly/api/model"
	"github.com/postly/api/token"
	"github.com/postly/api/util"
)

// Page sizes are part of the cache key contract: changing them orphans
// every previously cached listing page.
const (
	PostPageLimit    = 16
	CommentPageLimit = 20
)

// IUserDAO is the slice of the data store the services need for users.
type IUserDAO interface {
	ExistsByID(ctx context.Context, userID primitive.ObjectID) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	FindByID(ctx context.Context, userID primitive.ObjectID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, user model.User) (*model.User, error)
	UsernamesByID(ctx context.Context, userIDs []primitive.ObjectID) (map[primitive.ObjectID]string, error)
}

// IPostDAO is the slice of the data store the services need for posts.
type IPostDAO interface {
	ExistsByID(ctx context.Context, postID primitive.ObjectID) (bool, error)
	FindByID(ctx context.Context, postID primitive.ObjectID) (*model.Post, error)
	Find(ctx context.Context, query dao.PostQuery, skip, limit int64) ([]model.Post, error)
	Count(ctx context.Context, query dao.PostQuery) (int64, error)
	Create(ctx context.Context, post model.Post) (*model.Post, error)
	UpdateLikes(ctx context.Context, postID, userID primitive.ObjectID, like bool) (*model.Post, error)
	AddView(ctx context.Context, postID, userID primitive.ObjectID) (*model.Post, error)
	SetArchived(ctx context.Context, postID primitive.ObjectID, archived bool) (*model.Post, error)
	AddComment(ctx context.Context, postID, commentID primitive.ObjectID) (*model.Post, error)
}

// ICommentDAO is the slice of the data store the services need for comments.
type ICommentDAO interface {
	FindByID(ctx context.Context, commentID primitive.ObjectID) (*model.Comment, error)
	FindByPost(ctx context.Context, postID primitive.ObjectID, skip, limit int64) ([]model.Comment, error)
	CountByPost(ctx context.Context, postID primitive.ObjectID) (int64, error)
	Create(ctx context.Context, comment model.Comment) (*model.Comment, error)
	UpdateLikes(ctx context.Context, commentID, userID primitive.ObjectID, like bool) (*model.Comment, error)
}

type IAuthService interface {
	Signup(ctx context.Context, creds model.SignupCredentials) (*model.AuthResult, error)
	Login(ctx context.Context, creds model.LoginCredentials) (*model.AuthResult, error)
	AuthState(ctx context.Context, userID string) (*model.AuthPayload, error)
	Refresh(ctx context.Context, userID string) (string, error)
	Logout(ctx context.Context, userID string) error
}

type IProfileService interface {
	GetProfile(ctx context.Context, userID string) (*model.UserProfile, error)
}

type IPostService interface {
	ListPosts(ctx context.Context, userID string, opts model.ListOptions) (*model.PaginationData, error)
	ListCreatedPosts(ctx context.Context, userID string, opts model.ListOptions) (*model.PaginationData, error)
	ListLikedPosts(ctx context.Context, userID string, opts model.ListOptions) (*model.PaginationData, error)
	ListArchivedPosts(ctx context.Context, userID string, opts model.ListOptions) (*model.PaginationData, error)
	CreatePost(ctx context.Context, userID string, input model.PostInput) (string, error)
	GetPost(ctx context.Context, userID, postID string) (*model.PostView, error)
	ToggleLike(ctx context.Context, userID, postID string) (likes int, liked bool, err error)
	RegisterView(ctx context.Context, userID, postID string) error
	ToggleArchive(ctx context.Context, userID, postID string) (archived bool, err error)
}

type ICommentService interface {
	ListComments(ctx context.Context, userID, postID string, page int) (*model.PaginationData, int64, error)
	AddComment(ctx context.Context, userID, postID string, input model.CommentInput) (*model.CommentView, error)
	ToggleLike(ctx context.Context, userID, postID, commentID string) (liked bool, err error)
}

type Services struct {
	Auth    IAuthService
	Profile IProfileService
	Post    IPostService
	Comment ICommentService
}

func InitializeServices(
	database *mongo.Database,
	tokens *token.Service,
	auditService audit.Service,
	cacheService *util.CacheService,
	notificationSvc *util.NotificationService,
	eventBus *util.EventBus,
) *Services {
	userDAO := dao.NewUserDAO(database)
	postDAO := dao.NewPostDAO(database)
	commentDAO := dao.NewCommentDAO(database)

	return &Services{
		Auth:    NewAuthService(userDAO, tokens, cacheService, auditService, eventBus),
		Profile: NewProfileService(userDAO, cacheService),
		Post:    NewPostService(postDAO, userDAO, cacheService, notificationSvc, auditService, eventBus),
		Comment: NewCommentService(commentDAO, postDAO, userDAO, cacheService, notificationSvc, auditService, eventBus),
	}
}
