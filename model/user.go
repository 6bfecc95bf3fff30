// api/model/user.go
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	helper_util "github.com/postly/api/util/helper"
)

// User is the users collection document
type User struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Username  string               `bson:"username" json:"username"`
	Email     string               `bson:"email" json:"email"`
	Password  string               `bson:"password" json:"-"`
	BlogPosts []primitive.ObjectID `bson:"blogPosts" json:"-"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// UserProfile is the cached/response view of a user, the "session" snapshot
type UserProfile struct {
	ID        string `json:"_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// AuthPayload is the identity echoed back to the frontend
type AuthPayload struct {
	Username string `json:"username"`
	UserID   string `json:"userId"`
}

// AuthResult bundles the identity with a freshly issued token pair
type AuthResult struct {
	Auth         AuthPayload `json:"auth"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

// SignupCredentials is the expected signup request body
type SignupCredentials struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginCredentials is the expected login request body
type LoginCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Profile builds the response/cache view of the user
func (u User) Profile() UserProfile {
	return UserProfile{
		ID:        u.ID.Hex(),
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: helper_util.FormatISO(u.CreatedAt),
		UpdatedAt: helper_util.FormatISO(u.UpdatedAt),
	}
}
