package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-gin-storefront/internal/core/auth"
	"go-gin-storefront/internal/core/session"
	"go-gin-storefront/internal/domain"
)

func init() { gin.SetMode(gin.TestMode) }

func newManager(store session.Store) *session.Manager {
	return session.NewManager(store, &auth.Signer{
		Secret: []byte("0123456789abcdef0123456789abcdef"),
		Issuer: "test",
		TTL:    2 * time.Hour,
	}, session.CookieOptions{})
}

// login 直接在 store 里建会话，返回对应 cookie
func login(t *testing.T, m *session.Manager, role domain.Role) *http.Cookie {
	t.Helper()
	w := httptest.NewRecorder()
	require.NoError(t, m.Start(context.Background(), w, &session.Payload{ID: 7, Email: "u@x.com", Role: role}))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func gated(m *session.Manager, gates ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(LoadSession(m, zap.NewNop()))
	handlers := append(gates, func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/x", handlers...)
	return r
}

func do(r http.Handler, cookie *http.Cookie, jsonClient bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	if jsonClient {
		req.Header.Set("Accept", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuthenticated(t *testing.T) {
	m := newManager(session.NewMemoryStore())
	r := gated(m, RequireAuthenticated())

	w := do(r, nil, true)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, nil, false)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = do(r, login(t, m, domain.RoleStandard), false)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAuthenticated_TamperedCookie(t *testing.T) {
	m := newManager(session.NewMemoryStore())
	r := gated(m, RequireAuthenticated())

	c := login(t, m, domain.RoleAdmin)
	c.Value += "x"
	assert.Equal(t, http.StatusUnauthorized, do(r, c, true).Code)
}

func TestRequireAdmin(t *testing.T) {
	m := newManager(session.NewMemoryStore())
	r := gated(m, RequireAuthenticated(), RequireAdmin())

	assert.Equal(t, http.StatusUnauthorized, do(r, nil, true).Code)

	std := login(t, m, domain.RoleStandard)
	w := do(r, std, true)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	w = do(r, std, false)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")

	assert.Equal(t, http.StatusOK, do(r, login(t, m, domain.RoleAdmin), true).Code)
}

func TestRequireAdmin_AloneStillNeedsSession(t *testing.T) {
	m := newManager(session.NewMemoryStore())
	r := gated(m, RequireAdmin())

	assert.Equal(t, http.StatusUnauthorized, do(r, nil, true).Code)
	assert.Equal(t, http.StatusFound, do(r, nil, false).Code)
}

type failingStore struct{ session.Store }

func (failingStore) Get(context.Context, string) (*session.Payload, error) {
	return nil, errors.New("redis down")
}

func TestRequireAuthenticated_StoreErrorIs500(t *testing.T) {
	mem := session.NewMemoryStore()
	c := login(t, newManager(mem), domain.RoleAdmin)

	r := gated(newManager(failingStore{mem}), RequireAuthenticated())
	assert.Equal(t, http.StatusInternalServerError, do(r, c, true).Code)
}

func TestRequireAuthenticatedAPI_NeverRedirects(t *testing.T) {
	m := newManager(session.NewMemoryStore())
	r := gated(m, RequireAuthenticatedAPI())
	assert.Equal(t, http.StatusUnauthorized, do(r, nil, false).Code)
}

func TestWantsJSON(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, WantsJSON(c))

	c.Request.Header.Set("X-Requested-With", "XMLHttpRequest")
	assert.True(t, WantsJSON(c))
}
