package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"anoa.com/folio/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{
			name:     "validation",
			err:      apperror.NewValidationError(map[string]string{"username": "Required"}),
			wantCode: http.StatusUnprocessableEntity,
			wantBody: `{"errors":{"username":"Required"}}`,
		},
		{
			name:     "not found",
			err:      fmt.Errorf("load: %w", apperror.NotFound("project", "42")),
			wantCode: http.StatusNotFound,
			wantBody: `{"error":"load: project \"42\" not found"}`,
		},
		{
			name:     "internal hides detail",
			err:      errors.New("pq: connection refused"),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			ResponseError(c, tt.err)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestSuccessSetsLocation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Success(c, http.StatusCreated, "/api/profiles/ada_l", gin.H{"ok": true})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/api/profiles/ada_l", w.Header().Get("Location"))
	var body map[string]bool
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body["ok"])
}

func TestGetAccountID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, err := GetAccountID(c)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	c.Set(AccountIDKey, "not-a-uuid")
	_, err = GetAccountID(c)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	c.Set(AccountIDKey, "0191d2a4-6a4b-7c3e-8d3f-1b2c3d4e5f60")
	id, err := GetAccountID(c)
	require.NoError(t, err)
	assert.Equal(t, "0191d2a4-6a4b-7c3e-8d3f-1b2c3d4e5f60", id.String())
}

func TestForm(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("title=Hello&year=2020"))
	c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	form, err := Form(c)

	require.NoError(t, err)
	assert.Equal(t, []string{"Hello"}, form["title"])
}
