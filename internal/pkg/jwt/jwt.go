package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidSigningMethod = errors.New("invalid JWT signing method")
	// ErrSigningKeyTooShort guards HS512, which needs a 512-bit key.
	ErrSigningKeyTooShort = errors.New("HS512 signing key must be at least 64 bytes (512 bits)")
	ErrTokenExpired       = errors.New("JWT token has expired")
	ErrInvalidToken       = errors.New("invalid token")
)

// JWT issues and checks access tokens.
type JWT interface {
	Generate(uid int64, email, role string) (string, error)
	Verify(tokenStr string) (Claims, error)
}

type clocker interface {
	Now() time.Time
}

type generator interface {
	Generate() string
}

// Config holds the signing secret and token settings.
type Config struct {
	Secret     []byte
	Issuer     string
	Audiences  []string
	TTLMinutes time.Duration
	Clock      clocker
	// UUID generates the jti claim.
	UUID generator
}

// Claims are the registered claims plus the caller identity and role.
type Claims struct {
	jwt.RegisteredClaims
	UserID    int64  `json:"user_id,string"`
	UserEmail string `json:"user_email"`
	Role      string `json:"role"`
}

type authKey struct{}

// GetAuth returns nil for unauthenticated contexts.
func GetAuth(ctx context.Context) *Claims {
	clm, ok := ctx.Value(authKey{}).(Claims)
	if !ok {
		return nil
	}
	return &clm
}

// SetAuth stores the verified claims in ctx.
func SetAuth(ctx context.Context, clm Claims) context.Context {
	return context.WithValue(ctx, authKey{}, clm)
}
