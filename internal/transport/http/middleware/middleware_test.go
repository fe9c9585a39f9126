package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func serve(r *gin.Engine, method, path string, body io.Reader) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, body))
	return w
}

func TestRateLimitPerIP(t *testing.T) {
	r := gin.New()
	r.GET("/x", RateLimitPerIP(0.001, 2), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodGet, "/x", nil).Code)
	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodGet, "/x", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, http.MethodGet, "/x", nil).Code)
}

func TestIPLimiter_EvictsIdleVisitors(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	l := newIPLimiter(1, 1)
	l.now = func() time.Time { return now }

	l.get("10.0.0.1")
	now = now.Add(visitorIdle + time.Minute)
	l.get("10.0.0.2")

	assert.Len(t, l.visitors, 1)
	assert.Contains(t, l.visitors, "10.0.0.2")
}

func TestMaxBodyBytes(t *testing.T) {
	r := gin.New()
	r.Use(MaxBodyBytes(8))
	r.POST("/x", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			_ = c.Error(err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodPost, "/x", strings.NewReader("short")).Code)
	assert.Equal(t, http.StatusRequestEntityTooLarge,
		serve(r, http.MethodPost, "/x", strings.NewReader(strings.Repeat("a", 64))).Code)
}

func TestTimeout(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	r := gin.New()
	r.Use(RequestID(), Timeout(10*time.Millisecond, zap.New(core)))
	r.GET("/x", func(c *gin.Context) { <-c.Request.Context().Done() })
	r.GET("/late", func(c *gin.Context) {
		<-c.Request.Context().Done()
		c.String(http.StatusAccepted, "late")
	})

	assert.Equal(t, http.StatusGatewayTimeout, serve(r, http.MethodGet, "/x", nil).Code)
	// 已写出的响应不被覆盖
	assert.Equal(t, http.StatusAccepted, serve(r, http.MethodGet, "/late", nil).Code)

	require.Equal(t, 2, logs.Len())
	assert.NotEmpty(t, logs.All()[0].ContextMap()["rid"])
	assert.Equal(t, "/x", logs.All()[0].ContextMap()["route"])
}

func TestConcurrencyLimit_QueuesThenSheds(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	r := gin.New()
	r.Use(ConcurrencyLimit(1, 20*time.Millisecond))
	r.GET("/slow", func(c *gin.Context) {
		close(entered)
		<-release
		c.Status(http.StatusOK)
	})
	r.GET("/fast", func(c *gin.Context) { c.Status(http.StatusOK) })

	done := make(chan int)
	go func() { done <- serve(r, http.MethodGet, "/slow", nil).Code }()
	<-entered

	before := testutil.ToFloat64(httpShed)
	w := serve(r, http.MethodGet, "/fast", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Equal(t, 1.0, testutil.ToFloat64(httpShed)-before)

	// 排队期间槽位释放则照常处理
	go func() {
		time.Sleep(5 * time.Millisecond)
		close(release)
	}()
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/fast", nil).Code)
	assert.Equal(t, http.StatusOK, <-done)
}

func TestNoCache(t *testing.T) {
	r := gin.New()
	r.GET("/x", NoCache(), func(c *gin.Context) { c.Status(http.StatusOK) })

	h := serve(r, http.MethodGet, "/x", nil).Header()
	assert.Equal(t, "no-store, no-cache, must-revalidate, private", h.Get("Cache-Control"))
	assert.Equal(t, "no-cache", h.Get("Pragma"))
	assert.Equal(t, "0", h.Get("Expires"))
}

func TestRequestID_GeneratedAndEchoed(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(KeyRequestID)) })

	w := serve(r, http.MethodGet, "/x", nil)
	require.NotEmpty(t, w.Header().Get(KeyRequestID))
	assert.Equal(t, w.Header().Get(KeyRequestID), w.Body.String())

	const upstream = "5b0f3b7e-8a36-4c1e-9d59-0a4b8d0f4c11"
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(KeyRequestID, upstream)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, upstream, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(KeyRequestID, "abc\nlevel=error")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotContains(t, w.Body.String(), "level")
}

func TestAccessLog_MasksSecretsAndCarriesRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(RequestID(), AccessLog(zap.New(core)))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x?password=hunter2&q=zapatos", nil)
	req.Header.Set(KeyRequestID, "5b0f3b7e-8a36-4c1e-9d59-0a4b8d0f4c11")
	r.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "5b0f3b7e-8a36-4c1e-9d59-0a4b8d0f4c11", fields["rid"])
	assert.Equal(t, map[string][]string{"password": {"****"}, "q": {"zapatos"}}, fields["query"])
}

func TestMetrics_CountsByRoute(t *testing.T) {
	r := gin.New()
	r.Use(Metrics())
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(httpReqTotal.WithLabelValues("/items/:id", http.MethodGet, "200"))
	serve(r, http.MethodGet, "/items/1", nil)
	serve(r, http.MethodGet, "/items/2", nil)
	after := testutil.ToFloat64(httpReqTotal.WithLabelValues("/items/:id", http.MethodGet, "200"))

	assert.Equal(t, 2.0, after-before)
	assert.Equal(t, 0.0, testutil.ToFloat64(httpInFlight))
}

func TestObserveAuth(t *testing.T) {
	before := testutil.ToFloat64(authEvents.WithLabelValues("login", "bad_password"))
	ObserveAuth("login", "bad_password")
	assert.Equal(t, 1.0, testutil.ToFloat64(authEvents.WithLabelValues("login", "bad_password"))-before)
}
