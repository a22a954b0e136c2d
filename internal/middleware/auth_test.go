package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"anoa.com/folio/internal/entity"
	"anoa.com/folio/pkg/apperror"
	"anoa.com/folio/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

type stubProfiles map[string]*entity.Profile

func (s stubProfiles) MustFindByUsername(_ context.Context, username string) (*entity.Profile, error) {
	if p, ok := s[username]; ok {
		return p, nil
	}
	return nil, apperror.NotFound("profile", username)
}

func sign(t *testing.T, sub string, key string, ttl time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   sub,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	})
	s, err := token.SignedString([]byte(key))
	require.NoError(t, err)
	return s
}

func newRouter(owner uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	m := NewAuthMiddleware(stubProfiles{"ada_l": {Username: "ada_l", AccountID: owner}}, secret)

	r := gin.New()
	r.GET("/me", m.RequireAuth(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(response.AccountIDKey))
	})
	profile := r.Group("/profiles/:username", m.OptionalAuth(), m.ResolveProfile())
	profile.GET("", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"owner": response.IsOwner(c)})
	})
	profile.PUT("", m.RequireOwner(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func do(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	owner := uuid.New()
	r := newRouter(owner)

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/me", sign(t, owner.String(), "wrong", time.Hour)).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/me", sign(t, owner.String(), secret, -time.Hour)).Code)

	w := do(r, http.MethodGet, "/me", sign(t, owner.String(), secret, time.Hour))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, owner.String(), w.Body.String())
}

func TestResolveProfileAndOwnership(t *testing.T) {
	owner := uuid.New()
	r := newRouter(owner)
	ownerToken := sign(t, owner.String(), secret, time.Hour)
	strangerToken := sign(t, uuid.NewString(), secret, time.Hour)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/profiles/nobody", "").Code)

	assert.JSONEq(t, `{"owner":false}`, do(r, http.MethodGet, "/profiles/ada_l", "").Body.String())
	assert.JSONEq(t, `{"owner":false}`, do(r, http.MethodGet, "/profiles/ada_l", "garbage").Body.String())
	assert.JSONEq(t, `{"owner":true}`, do(r, http.MethodGet, "/profiles/ada_l", ownerToken).Body.String())

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPut, "/profiles/ada_l", "").Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodPut, "/profiles/ada_l", strangerToken).Code)
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodPut, "/profiles/ada_l", ownerToken).Code)
}
