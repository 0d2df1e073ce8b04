package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"storefront-service/models"
	aws_pkg "storefront-service/pkg/aws"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func identityRouter(mode string) *gin.Engine {
	r := gin.New()
	r.Use(Identity(mode))
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, ResolveUserID(c, c.Query("userId")))
	})
	return r
}

func get(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestResolveUserID_Precedence(t *testing.T) {
	r := identityRouter(GuestModeSession)

	req := httptest.NewRequest(http.MethodGet, "/whoami?userId=alice", nil)
	req.Header.Set(SessionHeader, "sess-1")
	assert.Equal(t, "alice", get(r, req).Body.String())

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(SessionHeader, "sess-1")
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "cookie-1"})
	assert.Equal(t, "sess-1", get(r, req).Body.String())

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "cookie-1"})
	w := get(r, req)
	assert.Equal(t, "cookie-1", w.Body.String())
	assert.Empty(t, w.Header().Get(SessionHeader))
}

func TestResolveUserID_SessionModeMintsDistinctIDs(t *testing.T) {
	r := identityRouter(GuestModeSession)

	first := get(r, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	second := get(r, httptest.NewRequest(http.MethodGet, "/whoami", nil))

	assert.NotEmpty(t, first.Body.String())
	assert.NotEqual(t, models.GuestUserID, first.Body.String())
	assert.NotEqual(t, first.Body.String(), second.Body.String())
	assert.Equal(t, first.Body.String(), first.Header().Get(SessionHeader))

	cookies := first.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.Equal(t, first.Body.String(), cookies[0].Value)
}

func TestIdentity_DefaultsToSharedGuest(t *testing.T) {
	for _, mode := range []string{"", "bogus"} {
		r := identityRouter(mode)
		w := get(r, httptest.NewRequest(http.MethodGet, "/whoami", nil))
		assert.Equal(t, models.GuestUserID, w.Body.String(), "mode %q", mode)
		assert.Empty(t, w.Header().Get(SessionHeader))
	}
}

func TestResolveUserID_SharedModeCollapsesGuests(t *testing.T) {
	r := identityRouter(GuestModeShared)

	first := get(r, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	second := get(r, httptest.NewRequest(http.MethodGet, "/whoami", nil))

	assert.Equal(t, models.GuestUserID, first.Body.String())
	assert.Equal(t, models.GuestUserID, second.Body.String())
	assert.Empty(t, first.Header().Get(SessionHeader))
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://shop.example.com/"}))
	r.GET("/api/cart", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	w := get(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://shop.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), SessionHeader)

	req = httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	assert.Equal(t, http.StatusForbidden, get(r, req).Code)

	req = httptest.NewRequest(http.MethodOptions, "/api/cart", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	assert.Equal(t, http.StatusNoContent, get(r, req).Code)

	assert.Equal(t, http.StatusOK, get(r, httptest.NewRequest(http.MethodGet, "/api/cart", nil)).Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewRateLimiter(PerMinute(60), 2, time.Minute)
	defer limiter.Stop()

	r := gin.New()
	r.Use(RateLimitMiddleware(limiter))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := []int{}
	for i := 0; i < 3; i++ {
		codes = append(codes, get(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestTimeout(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(50 * time.Millisecond))
	r.GET("/", func(c *gin.Context) {
		deadline, ok := c.Request.Context().Deadline()
		require.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(50*time.Millisecond), deadline, time.Second)
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, get(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
}

func TestSecurityHeadersAndRequestLogger(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders(), RequestLogger(zap.NewNop()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	w := get(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

type fakeRecorder struct {
	mu     sync.Mutex
	counts map[string]int
}

func (f *fakeRecorder) RecordCount(_ context.Context, name string, _ map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[name]++
	return nil
}

func (f *fakeRecorder) RecordLatency(_ context.Context, name string, _ time.Duration, _ map[string]string) error {
	return f.RecordCount(context.Background(), name, nil)
}

func (f *fakeRecorder) IsEnabled() bool { return true }

func (f *fakeRecorder) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[name]
}

func TestMetricsMiddleware(t *testing.T) {
	rec := &fakeRecorder{counts: map[string]int{}}
	var _ aws_pkg.MetricsRecorder = rec

	r := gin.New()
	r.Use(MetricsMiddleware(rec, "storefront"))
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	get(r, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Eventually(t, func() bool {
		return rec.count(aws_pkg.MetricHTTP4xx) == 1 && rec.count(aws_pkg.MetricHTTPRequests) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, rec.count(aws_pkg.MetricHTTP5xx))
}
