// api/service/auth_service_test.go
package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/postly/api/cache"
	postly_errors "github.com/postly/api/errors"
	"github.com/postly/api/model"
	"github.com/postly/api/service"
	"github.com/postly/api/token"
	"github.com/postly/api/util"
)

func newAuthFixture(t *testing.T) (*service.AuthService, *fakeUserDAO, *cache.Store, *util.CacheService) {
	t.Helper()
	userDAO := newFakeUserDAO()
	store, cacheService := newTestCache()
	auth := service.NewAuthService(userDAO, newTestTokens(t), cacheService, newFakeAuditService(), util.NewEventBus())
	return auth, userDAO, store, cacheService
}

func seedUser(t *testing.T, userDAO *fakeUserDAO, username, email, password string) model.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return userDAO.add(model.User{Username: username, Email: email, Password: string(hashed)})
}

func TestSignup(t *testing.T) {
	auth, userDAO, store, _ := newAuthFixture(t)
	ctx := context.Background()

	result, err := auth.Signup(ctx, model.SignupCredentials{
		Username: "ada",
		Email:    "ada@example.com",
		Password: "password123",
	})
	assert.NoError(t, err)
	assert.Equal(t, "ada", result.Auth.Username)
	assert.NotEmpty(t, result.Auth.UserID)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.NotEqual(t, result.AccessToken, result.RefreshToken)

	// The stored password is hashed, never the plaintext
	user, err := userDAO.FindByEmail(ctx, "ada@example.com")
	assert.NoError(t, err)
	assert.NotEqual(t, "password123", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))

	// Signup establishes the session snapshot
	_, ok := store.Read(cache.UserKey(result.Auth.UserID))
	assert.True(t, ok)
}

func TestSignupDuplicateEmail(t *testing.T) {
	auth, userDAO, _, _ := newAuthFixture(t)
	seedUser(t, userDAO, "ada", "ada@example.com", "password123")

	_, err := auth.Signup(context.Background(), model.SignupCredentials{
		Username: "other",
		Email:    "ada@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, postly_errors.ErrAccountExists)
}

func TestSignupDuplicateUsername(t *testing.T) {
	auth, userDAO, _, _ := newAuthFixture(t)
	seedUser(t, userDAO, "ada", "ada@example.com", "password123")

	_, err := auth.Signup(context.Background(), model.SignupCredentials{
		Username: "ada",
		Email:    "other@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, postly_errors.ErrUsernameTaken)
}

func TestLogin(t *testing.T) {
	auth, userDAO, store, _ := newAuthFixture(t)
	user := seedUser(t, userDAO, "ada", "ada@example.com", "password123")

	result, err := auth.Login(context.Background(), model.LoginCredentials{
		Email:    "ada@example.com",
		Password: "password123",
	})
	assert.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), result.Auth.UserID)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)

	_, ok := store.Read(cache.UserKey(user.ID.Hex()))
	assert.True(t, ok)
}

func TestLoginWrongPassword(t *testing.T) {
	auth, userDAO, _, _ := newAuthFixture(t)
	seedUser(t, userDAO, "ada", "ada@example.com", "password123")

	_, err := auth.Login(context.Background(), model.LoginCredentials{
		Email:    "ada@example.com",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, postly_errors.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	auth, _, _, _ := newAuthFixture(t)

	_, err := auth.Login(context.Background(), model.LoginCredentials{
		Email:    "nobody@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, postly_errors.ErrUserNotFound)
}

func TestAuthStateReadThrough(t *testing.T) {
	auth, userDAO, store, _ := newAuthFixture(t)
	user := seedUser(t, userDAO, "ada", "ada@example.com", "password123")
	ctx := context.Background()

	// First call misses and fills the cache
	payload, err := auth.AuthState(ctx, user.ID.Hex())
	assert.NoError(t, err)
	assert.Equal(t, "ada", payload.Username)
	_, ok := store.Read(cache.UserKey(user.ID.Hex()))
	assert.True(t, ok)

	// Second call is served from the snapshot even if the user vanishes
	userDAO.mu.Lock()
	delete(userDAO.users, user.ID)
	userDAO.mu.Unlock()

	payload, err = auth.AuthState(ctx, user.ID.Hex())
	assert.NoError(t, err)
	assert.Equal(t, "ada", payload.Username)
}

func TestRefreshIssuesAccessOnly(t *testing.T) {
	auth, userDAO, _, _ := newAuthFixture(t)
	user := seedUser(t, userDAO, "ada", "ada@example.com", "password123")

	accessToken, err := auth.Refresh(context.Background(), user.ID.Hex())
	assert.NoError(t, err)
	assert.NotEmpty(t, accessToken)

	tokens := newTestTokens(t)
	claims, err := tokens.Verify(token.Access, accessToken)
	assert.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, "ada", claims.Username)
}

func TestRefreshUnknownUser(t *testing.T) {
	auth, _, _, _ := newAuthFixture(t)

	_, err := auth.Refresh(context.Background(), "662fbb3dfd353f1a946a8a2e")
	assert.ErrorIs(t, err, postly_errors.ErrUserNotFound)
}

func TestLogoutClearsSession(t *testing.T) {
	auth, userDAO, store, cacheService := newAuthFixture(t)
	user := seedUser(t, userDAO, "ada", "ada@example.com", "password123")
	cacheService.SetUserProfile(user.Profile())

	assert.NoError(t, auth.Logout(context.Background(), user.ID.Hex()))

	_, ok := store.Read(cache.UserKey(user.ID.Hex()))
	assert.False(t, ok)
}
