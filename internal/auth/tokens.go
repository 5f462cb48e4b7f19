package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"fipet-service/internal/domain"
)

// Session is the verified identity attached to a request. It is passed
// explicitly into every operation that needs one; there is no ambient
// current-user state.
type Session struct {
	UserID string
}

type sessionClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// TokenVerifier issues and verifies HS256 session tokens.
type TokenVerifier struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenVerifier(secret string, ttl time.Duration) *TokenVerifier {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenVerifier{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed session token for a user.
func (v *TokenVerifier) Issue(userID string) (string, error) {
	now := time.Now()
	claims := &sessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(v.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// Verify checks a raw token string and returns the session it carries.
func (v *TokenVerifier) Verify(raw string) (Session, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrUnauthorized
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid || claims.UserID == "" {
		return Session{}, domain.ErrUnauthorized
	}
	return Session{UserID: claims.UserID}, nil
}

// FromAuthorizationHeader extracts and verifies a bearer token.
func (v *TokenVerifier) FromAuthorizationHeader(header string) (Session, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return Session{}, domain.ErrUnauthorized
	}
	return v.Verify(strings.TrimPrefix(header, prefix))
}
