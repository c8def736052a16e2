package service

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Roles carried in access tokens.
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

var ErrInvalidToken = errors.New("invalid token claims")

// Claims is the access token issued by the account service. Only validation
// happens here; tokens are minted elsewhere.
type Claims struct {
	jwt.RegisteredClaims
	AccountID string `json:"id"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
}

// UserID resolves the account id from the "id" claim, falling back to "sub".
func (c *Claims) UserID() (uuid.UUID, error) {
	raw := c.AccountID
	if raw == "" {
		raw = c.Subject
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: user id: %v", ErrInvalidToken, err)
	}
	return id, nil
}

// AuthService validates access tokens and resolves the account context.
type AuthService struct {
	secret []byte
}

// NewAuthService creates a new AuthService.
func NewAuthService(secret string) *AuthService {
	return &AuthService{secret: []byte(secret)}
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if _, err := claims.UserID(); err != nil {
		return nil, err
	}
	return claims, nil
}
