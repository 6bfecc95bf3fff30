// api/token/token.go
package token

import (
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"

	postly_errors "github.com/postly/api/errors"
)

// Kind selects which signing secret and lifetime a token gets.
type Kind string

const (
	// Access tokens are short-lived and gate every protected request.
	Access Kind = "access"
	// Refresh tokens are long-lived and only mint new access tokens.
	Refresh Kind = "refresh"
)

// Claims is the identity a token binds to its validity window. Refresh
// tokens carry the user id only; access tokens add the display handle.
type Claims struct {
	UserID   string `json:"userId"`
	Username string `json:"username,omitempty"`
	jwt.StandardClaims
}

// Service mints and verifies signed tokens. Tokens are never persisted:
// a correctly signed, unexpired token is always accepted (there is no
// revocation list).
type Service struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// NewService creates a token service. Missing secrets are a fatal
// configuration error, not a per-request condition.
func NewService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) (*Service, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, fmt.Errorf("token signing secrets must be configured")
	}
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 120 * time.Hour
	}
	return &Service{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}, nil
}

// Issue signs a token of the given kind. Username is ignored for refresh
// tokens, which carry the subject identity only.
func (s *Service) Issue(kind Kind, userID, username string) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: userID,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.ttl(kind)).Unix(),
		},
	}
	if kind == Access {
		claims.Username = username
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret(kind))
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", kind, err)
	}
	return signed, nil
}

// Verify decodes raw, checks its signature and expiry against the secret
// for kind, and returns the embedded claims. Failures are classified as
// ErrMissingToken, ErrTokenExpired, ErrInvalidToken or ErrInternalServer.
func (s *Service) Verify(kind Kind, raw string) (*Claims, error) {
	if raw == "" {
		return nil, postly_errors.ErrMissingToken
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret(kind), nil
	})

	if err != nil {
		if ve, ok := err.(*jwt.ValidationError); ok {
			if ve.Errors&jwt.ValidationErrorExpired != 0 {
				return nil, postly_errors.ErrTokenExpired
			}
			if ve.Errors&(jwt.ValidationErrorMalformed|jwt.ValidationErrorSignatureInvalid|jwt.ValidationErrorUnverifiable) != 0 {
				return nil, postly_errors.ErrInvalidToken
			}
		}
		return nil, postly_errors.ErrInternalServer
	}

	if !parsed.Valid {
		return nil, postly_errors.ErrInvalidToken
	}
	return claims, nil
}

// IssuePair mints the access/refresh token pair handed out at signup and
// login. Refresh time only re-issues the access half.
func (s *Service) IssuePair(userID, username string) (accessToken, refreshToken string, err error) {
	accessToken, err = s.Issue(Access, userID, username)
	if err != nil {
		return "", "", err
	}
	refreshToken, err = s.Issue(Refresh, userID, "")
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func (s *Service) secret(kind Kind) []byte {
	if kind == Refresh {
		return s.refreshSecret
	}
	return s.accessSecret
}

func (s *Service) ttl(kind Kind) time.Duration {
	if kind == Refresh {
		return s.refreshTTL
	}
	return s.accessTTL
}
