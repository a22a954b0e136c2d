package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"anoa.com/folio/internal/config"
	"anoa.com/folio/internal/testutil"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type harness struct {
	t       *testing.T
	handler http.Handler
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{
		AppEnv:               "test",
		AllowedOrigins:       []string{"http://localhost:3000"},
		CacheTTL:             time.Minute,
		JWTSecret:            testSecret,
		RateLimitCheck:       3,
		RateLimitCheckWindow: time.Minute,
	}
	srv := NewServer(cfg, testutil.NewDB(t), rdb)
	return &harness{t: t, handler: srv.Handler()}
}

func token(t *testing.T, accountID uuid.UUID) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   accountID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func (h *harness) do(method, path, bearer string, form url.Values) *httptest.ResponseRecorder {
	h.t.Helper()
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// signUp registers an account and a profile for a fresh token.
func (h *harness) signUp(email, username string) string {
	h.t.Helper()
	tok := token(h.t, uuid.New())

	rec := h.do(http.MethodPost, "/api/account", tok, url.Values{"email": {email}})
	require.Equal(h.t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = h.do(http.MethodPost, "/api/profiles", tok, url.Values{"username": {username}, "display_name": {"Someone"}})
	require.Equal(h.t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(h.t, "/api/profiles/"+username, rec.Header().Get("Location"))
	return tok
}

func TestKindsEndpoint(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodGet, "/api/kinds", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	kinds := decode[[]map[string]any](t, rec)
	assert.Len(t, kinds, 12)
}

func TestProfileRoutes(t *testing.T) {
	h := newHarness(t)
	owner := h.signUp("ada@example.com", "ada_lovelace")
	other := h.signUp("grace@example.com", "grace_hopper")

	rec := h.do(http.MethodGet, "/api/profiles/ada_lovelace", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Someone", decode[map[string]any](t, rec)["display_name"])

	rec = h.do(http.MethodGet, "/api/profiles/nobody_here", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	update := url.Values{"username": {"ada_lovelace"}, "display_name": {"Ada"}}
	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodPut, "/api/profiles/ada_lovelace", "", update).Code)
	assert.Equal(t, http.StatusForbidden, h.do(http.MethodPut, "/api/profiles/ada_lovelace", other, update).Code)

	rec = h.do(http.MethodPut, "/api/profiles/ada_lovelace", owner, url.Values{"username": {"grace_hopper"}, "display_name": {"Ada"}})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	errs := decode[map[string]map[string]string](t, rec)["errors"]
	assert.Equal(t, "This username is already taken", errs["username"])

	rec = h.do(http.MethodGet, "/api/account/profiles", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ada_lovelace")
}

func TestResourceDraftsAreHiddenUntilPublished(t *testing.T) {
	h := newHarness(t)
	owner := h.signUp("ada@example.com", "ada_lovelace")
	base := "/api/profiles/ada_lovelace/resources/project"

	rec := h.do(http.MethodPost, base, "", url.Values{"title": {"Engine"}, "year": {"1843"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = h.do(http.MethodPost, base, owner, url.Values{"title": {"Engine"}, "year": {"1843"}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[map[string]any](t, rec)
	id := created["id"].(string)
	assert.Equal(t, base+"/"+id, rec.Header().Get("Location"))
	assert.Equal(t, false, created["published"])

	assert.Equal(t, "[]", strings.TrimSpace(h.do(http.MethodGet, base, "", nil).Body.String()))
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodGet, base+"/"+id, "", nil).Code)
	assert.Len(t, decode[[]map[string]any](t, h.do(http.MethodGet, base, owner, nil)), 1)

	rec = h.do(http.MethodPost, base+"/"+id+"/publish", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Len(t, decode[[]map[string]any](t, h.do(http.MethodGet, base, "", nil)), 1)
	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, base+"/"+id, "", nil).Code)

	assert.Equal(t, http.StatusNotFound, h.do(http.MethodGet, "/api/profiles/ada_lovelace/resources/spaceship", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodGet, base+"/not-a-uuid", owner, nil).Code)
}

func TestPostWithResourceAndTags(t *testing.T) {
	h := newHarness(t)
	owner := h.signUp("ada@example.com", "ada_lovelace")

	rec := h.do(http.MethodPost, "/api/profiles/ada_lovelace/resources/project", owner, url.Values{
		"title": {"Engine"}, "year": {"1843"}, "published": {"true"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resourceID := decode[map[string]any](t, rec)["id"].(string)

	rec = h.do(http.MethodPost, "/api/profiles/ada_lovelace/posts", owner, url.Values{
		"title":         {"Notes"},
		"content":       {"<p>Hello</p>"},
		"by":            {"Ada"},
		"published":     {"true"},
		"tags":          {`["math","engines"]`},
		"resource_kind": {"project"},
		"resource_id":   {resourceID},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = h.do(http.MethodPost, "/api/profiles/ada_lovelace/posts", owner, url.Values{
		"title":       {"Orphan"},
		"content":     {"<p>Hi</p>"},
		"by":          {"Ada"},
		"resource_id": {resourceID},
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = h.do(http.MethodGet, "/api/profiles/ada_lovelace/posts?tag=math", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = h.do(http.MethodGet, "/api/profiles/ada_lovelace/tags", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 2)
}

func TestValidateRunsOnlyTheSynchronousPass(t *testing.T) {
	h := newHarness(t)
	h.signUp("ada@example.com", "ada_lovelace")
	taken := url.Values{"username": {"ada_lovelace"}, "display_name": {"Copy"}}

	rec := h.do(http.MethodPost, "/api/validate/profile", "", taken)
	assert.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
	assert.Empty(t, rec.Body.String())

	rec = h.do(http.MethodPost, "/api/profiles", token(t, uuid.New()), taken)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	errs := decode[map[string]map[string]string](t, rec)["errors"]
	assert.Equal(t, "This username is already taken", errs["username"])

	rec = h.do(http.MethodPost, "/api/validate/profile", "", url.Values{"username": {"x"}, "display_name": {"Copy"}})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	errs = decode[map[string]map[string]string](t, rec)["errors"]
	assert.NotEmpty(t, errs["username"])

	rec = h.do(http.MethodPost, "/api/validate/project", "", url.Values{"title": {"Engine"}, "year": {"1843"}, "url": {"javascript:alert(1)"}})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	errs = decode[map[string]map[string]string](t, rec)["errors"]
	assert.Equal(t, "Must be a valid URL", errs["url"])

	assert.Equal(t, http.StatusNotFound, h.do(http.MethodPost, "/api/validate/spaceship", "", url.Values{}).Code)
}

func TestPostsFilteredByResourceFollowTheirOrder(t *testing.T) {
	h := newHarness(t)
	owner := h.signUp("ada@example.com", "ada_lovelace")
	base := "/api/profiles/ada_lovelace"

	rec := h.do(http.MethodPost, base+"/resources/project", owner, url.Values{
		"title": {"Engine"}, "year": {"1843"}, "published": {"true"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resourceID := decode[map[string]any](t, rec)["id"].(string)

	ids := make([]string, 0, 2)
	for _, title := range []string{"First", "Second"} {
		rec = h.do(http.MethodPost, base+"/posts", owner, url.Values{
			"title":         {title},
			"published":     {"true"},
			"resource_kind": {"project"},
			"resource_id":   {resourceID},
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		ids = append(ids, decode[map[string]any](t, rec)["id"].(string))
	}
	rec = h.do(http.MethodPost, base+"/posts", owner, url.Values{"title": {"Unrelated"}, "published": {"true"}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	filtered := base + "/posts?resource_id=" + resourceID
	assert.Len(t, decode[[]map[string]any](t, h.do(http.MethodGet, base+"/posts", "", nil)), 3)
	assert.Len(t, decode[[]map[string]any](t, h.do(http.MethodGet, filtered, "", nil)), 2)

	order := `[{"id":"` + ids[1] + `","order":1},{"id":"` + ids[0] + `","order":2}]`
	rec = h.do(http.MethodPut, base+"/resources/project/"+resourceID+"/posts/order", owner, url.Values{"order": {order}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	list := decode[[]map[string]any](t, h.do(http.MethodGet, filtered, "", nil))
	require.Len(t, list, 2)
	assert.Equal(t, ids[1], list[0]["id"])
	assert.Equal(t, ids[0], list[1]["id"])

	assert.Equal(t, http.StatusNotFound, h.do(http.MethodGet, base+"/posts?resource_id=nope", "", nil).Code)
}

func TestCheckEndpointsAreRateLimited(t *testing.T) {
	h := newHarness(t)
	h.signUp("ada@example.com", "ada_lovelace")

	rec := h.do(http.MethodGet, "/api/check/username?value=ada_lovelace", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode[map[string]bool](t, rec)["taken"])

	rec = h.do(http.MethodGet, "/api/check/email?value=ADA@example.com", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode[map[string]bool](t, rec)["taken"])

	rec = h.do(http.MethodGet, "/api/check/username?value=x", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decode[map[string]bool](t, rec)["taken"])

	rec = h.do(http.MethodGet, "/api/check/username?value=someone_new", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}
