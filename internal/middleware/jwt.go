package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stemsi/neetquiz-backend/internal/response"
	"github.com/stemsi/neetquiz-backend/internal/service"
)

const (
	// ContextKeyClaims is the Gin context key for JWT claims.
	ContextKeyClaims = "claims"
	// ContextKeyUserID is the Gin context key for the resolved account id.
	ContextKeyUserID = "user_id"
)

// TokenValidator validates an access token and returns its claims.
type TokenValidator interface {
	ValidateToken(tokenStr string) (*service.Claims, error)
}

// RequireJWT validates a bearer token from the Authorization header and
// attaches the account context.
func RequireJWT(auth TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearerToken(c)
		if tokenStr == "" {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}
		authenticate(c, auth, tokenStr)
	}
}

// RequireWSAuth validates a token from the query param ?token=...
// Used for WebSocket upgrade requests.
func RequireWSAuth(auth TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := c.Query("token")
		if tokenStr == "" {
			tokenStr = bearerToken(c)
		}
		if tokenStr == "" {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}
		authenticate(c, auth, tokenStr)
	}
}

func authenticate(c *gin.Context, auth TokenValidator, tokenStr string) {
	claims, err := auth.ValidateToken(tokenStr)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenExpired)
			return
		}
		response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
		return
	}

	userID, err := claims.UserID()
	if err != nil {
		response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
		return
	}

	c.Set(ContextKeyClaims, claims)
	c.Set(ContextKeyUserID, userID)
	c.Next()
}

// GetClaims retrieves the JWT claims from the Gin context.
func GetClaims(c *gin.Context) *service.Claims {
	val, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil
	}
	claims, ok := val.(*service.Claims)
	if !ok {
		return nil
	}
	return claims
}

// GetUserID returns the authenticated account id; ok is false outside RequireJWT.
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	val, exists := c.Get(ContextKeyUserID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := val.(uuid.UUID)
	return id, ok
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
