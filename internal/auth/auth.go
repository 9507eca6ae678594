package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/smkhize/claims-management/internal"
	"github.com/smkhize/claims-management/internal/user"
)

type ServiceAPI interface {
	Authenticate(dto LoginDTO) (AuthTokens, error)
	RefreshTokens(refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	GetUser(userID int64) (*user.User, error)
}

// Directory is the account lookup collaborator the auth service depends on.
type Directory interface {
	FindByCredentials(email, password string) (*user.User, error)
	GetByID(id int64) (*user.User, error)
}

type TokenGeneratorAPI interface {
	GenerateAccessToken(userID, email string) (token string, err error)
	GenerateRefreshToken(userID, email string) (token string, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Claims represents JWT token claims.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}

// UserFromContext returns the authenticated user placed in the request
// context by AuthMiddleware.
func UserFromContext(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(internal.ContextUserKey).(*user.User)
	return u, ok
}

func ContextWithUser(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, internal.ContextUserKey, u)
}
