package auth

import (
	"fmt"
	"time"

	"pos-service/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// Principal is the authenticated identity carried through a request
type Principal struct {
	UserID int64
	Role   string
}

type claims struct {
	UserID int64  `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Verifier signs and verifies credentials
type Verifier struct {
	secret []byte
	ttl    time.Duration
}

// NewVerifier creates a verifier from the shared signing secret
func NewVerifier(secret string, ttl time.Duration) *Verifier {
	return &Verifier{secret: []byte(secret), ttl: ttl}
}

// GenerateToken issues a signed token for the user
func (v *Verifier) GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(v.ttl)),
		},
	})
	return token.SignedString(v.secret)
}

// Verify checks a token and returns the principal it carries
func (v *Verifier) Verify(tokenString string) (*Principal, error) {
	token, err := jwt.ParseWithClaims(tokenString, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, models.ErrUnauthorized
	}

	c, ok := token.Claims.(*claims)
	if !ok {
		return nil, models.ErrUnauthorized
	}
	return &Principal{UserID: c.UserID, Role: c.Role}, nil
}
