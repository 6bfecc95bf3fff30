// api/service/profile_service.go
package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	postly_errors "github.com/postly/api/errors"
	"github.com/postly/api/model"
	"github.com/postly/api/util"
)

// ProfileService serves the caller's own profile, read-through on the
// user:{id} snapshot.
type ProfileService struct {
	userDAO      IUserDAO
	cacheService *util.CacheService
}

func NewProfileService(userDAO IUserDAO, cacheService *util.CacheService) *ProfileService {
	return &ProfileService{userDAO: userDAO, cacheService: cacheService}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*model.UserProfile, error) {
	if cached, ok := s.cacheService.GetUserProfile(userID); ok {
		return cached, nil
	}

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

	profile := user.Profile()
	s.cacheService.SetUserProfile(profile)
	return &profile, nil
}
