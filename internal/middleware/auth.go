package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"anoa.com/folio/internal/entity"
	"anoa.com/folio/pkg/apperror"
	"anoa.com/folio/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ProfileFinder loads the profile named in a route.
type ProfileFinder interface {
	MustFindByUsername(ctx context.Context, username string) (*entity.Profile, error)
}

type AuthMiddleware struct {
	profiles ProfileFinder
	secret   string
}

func NewAuthMiddleware(profiles ProfileFinder, secret string) *AuthMiddleware {
	return &AuthMiddleware{
		profiles: profiles,
		secret:   secret,
	}
}

func bearerToken(c *gin.Context) string {
	parts := strings.Split(c.GetHeader("Authorization"), " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// subject validates tokenString and returns its subject claim.
func (m *AuthMiddleware) subject(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", errors.New("invalid token claims")
	}
	return claims.Subject, nil
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}

		sub, err := m.subject(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.Set(response.AccountIDKey, sub)
		c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is present and lets
// anonymous requests through.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := bearerToken(c); tokenString != "" {
			if sub, err := m.subject(tokenString); err == nil {
				c.Set(response.AccountIDKey, sub)
			}
		}
		c.Next()
	}
}

// ResolveProfile loads the :username profile, answering 404 when it does not
// exist, and records whether the caller owns it.
func (m *AuthMiddleware) ResolveProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, err := m.profiles.MustFindByUsername(c.Request.Context(), c.Param("username"))
		if err != nil {
			response.ResponseError(c, err)
			c.Abort()
			return
		}

		accountID, err := response.GetAccountID(c)
		c.Set(response.OwnerKey, err == nil && accountID == profile.AccountID)
		c.Next()
	}
}

// RequireOwner rejects callers that do not own the resolved profile.
func (m *AuthMiddleware) RequireOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := response.GetAccountID(c); err != nil {
			response.ResponseError(c, err)
			c.Abort()
			return
		}
		if !response.IsOwner(c) {
			response.ResponseError(c, apperror.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
