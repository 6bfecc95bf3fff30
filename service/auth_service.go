// api/service/auth_service.go
package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/postly/api/audit"
	postly_errors "github.com/postly/api/errors"
	logger "github.com/postly/api/logging"
	"github.com/postly/api/model"
	"github.com/postly/api/token"
	"github.com/postly/api/util"
)

const bcryptCost = 12

// AuthService owns the account lifecycle: signup, login, auth state,
// token refresh and logout. The cached user:{id} snapshot doubles as the
// session; logout clears it but cannot revoke an already issued token.
type AuthService struct {
	userDAO      IUserDAO
	tokens       *token.Service
	cacheService *util.CacheService
	auditService audit.Service
	eventBus     *util.EventBus
}

func NewAuthService(userDAO IUserDAO, tokens *token.Service, cacheService *util.CacheService, auditService audit.Service, eventBus *util.EventBus) *AuthService {
	service := &AuthService{
		userDAO:      userDAO,
		tokens:       tokens,
		cacheService: cacheService,
		auditService: auditService,
		eventBus:     eventBus,
	}

	eventBus.Subscribe("user.signedup", service.handleUserEvent)
	eventBus.Subscribe("user.loggedin", service.handleUserEvent)
	eventBus.Subscribe("user.loggedout", service.handleUserEvent)

	return service
}

func (s *AuthService) handleUserEvent(ctx context.Context, event util.Event) error {
	userID, ok := event.Payload.(string)
	if !ok {
		return errors.New("invalid user event payload")
	}
	return s.auditService.Record(ctx, audit.Entry{
		UserID: userID,
		Action: event.Type,
	})
}

// Signup registers a new account, issues the token pair and caches the
// session snapshot.
func (s *AuthService) Signup(ctx context.Context, creds model.SignupCredentials) (*model.AuthResult, error) {
	exists, err := s.userDAO.ExistsByEmail(ctx, creds.Email)
	if err != nil {
		return nil, postly_errors.ErrInternalServer
	}
	if exists {
		return nil, postly_errors.ErrAccountExists
	}

	taken, err := s.userDAO.ExistsByUsername(ctx, creds.Username)
	if err != nil {
		return nil, postly_errors.ErrInternalServer
	}
	if taken {
		return nil, postly_errors.ErrUsernameTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcryptCost)
	if err != nil {
		logger.Error("Failed to hash password", zap.Error(err))
		return nil, postly_errors.ErrInternalServer
	}

	user, err := s.userDAO.Create(ctx, model.User{
		Username: creds.Username,
		Email:    creds.Email,
		Password: string(hashed),
	})
	if err != nil {
		if errors.Is(err, postly_errors.ErrAccountExists) {
			return nil, postly_errors.ErrAccountExists
		}
		return nil, postly_errors.ErrInternalServer
	}

	result, err := s.establishSession(*user)
	if err != nil {
		return nil, err
	}

	s.eventBus.Publish(ctx, "user.signedup", user.ID.Hex())
	return result, nil
}

// Login authenticates the credentials, issues the token pair and caches
// the session snapshot.
func (s *AuthService) Login(ctx context.Context, creds model.LoginCredentials) (*model.AuthResult, error) {
	user, err := s.userDAO.FindByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, postly_errors.ErrUserNotFound) {
			return nil, postly_errors.ErrUserNotFound
		}
		return nil, postly_errors.ErrInternalServer
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)); err != nil {
		return nil, postly_errors.ErrInvalidCredentials
	}

	result, err := s.establishSession(*user)
	if err != nil {
		return nil, err
	}

	s.eventBus.Publish(ctx, "user.loggedin", user.ID.Hex())
	return result, nil
}

// AuthState resolves the caller's identity, read-through on the session
// snapshot.
func (s *AuthService) AuthState(ctx context.Context, userID string) (*model.AuthPayload, error) {
	if cached, ok := s.cacheService.GetUserProfile(userID); ok {
		return &model.AuthPayload{Username: cached.Username, UserID: cached.ID}, nil
	}

	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.cacheService.SetUserProfile(user.Profile())
	return &model.AuthPayload{Username: user.Username, UserID: user.ID.Hex()}, nil
}

// Refresh mints a new access token for the subject of a verified refresh
// token. The refresh token itself is never re-issued here.
func (s *AuthService) Refresh(ctx context.Context, userID string) (string, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return "", err
	}

	accessToken, err := s.tokens.Issue(token.Access, user.ID.Hex(), user.Username)
	if err != nil {
		logger.Error("Failed to issue access token", zap.Error(err), zap.String("userID", userID))
		return "", postly_errors.ErrInternalServer
	}
	return accessToken, nil
}

// Logout clears the cached session snapshot. Outstanding tokens remain
// cryptographically valid until they expire.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if _, err := s.findUser(ctx, userID); err != nil {
		return err
	}

	s.cacheService.DeleteUserProfile(userID)
	s.eventBus.Publish(ctx, "user.loggedout", userID)
	return nil
}

func (s *AuthService) establishSession(user model.User) (*model.AuthResult, error) {
	accessToken, refreshToken, err := s.tokens.IssuePair(user.ID.Hex(), user.Username)
	if err != nil {
		logger.Error("Failed to issue token pair", zap.Error(err), zap.String("userID", user.ID.Hex()))
		return nil, postly_errors.ErrInternalServer
	}

	// The cached profile simulates a session
	s.cacheService.SetUserProfile(user.Profile())

	return &model.AuthResult{
		Auth:         model.AuthPayload{Username: user.Username, UserID: user.ID.Hex()},
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *AuthService) findUser(ctx context.Context, userID string) (*model.User, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, postly_errors.ErrUserNotFound
	}
	user, err := s.userDAO.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, postly_errors.ErrUserNotFound) {
			return nil, postly_errors.ErrUserNotFound
		}
		return nil, postly_errors.ErrInternalServer
	}
	return user, nil
}
