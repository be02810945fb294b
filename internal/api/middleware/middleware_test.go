package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func serve(router *gin.Engine, method, remote, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/test", nil)
	if remote != "" {
		req.RemoteAddr = remote
	}
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	if method == http.MethodOptions {
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCORS(t *testing.T) {
	router := setupTestRouter()
	router.Use(CORS(DefaultCORSConfig()))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	tests := []struct {
		name           string
		method         string
		origin         string
		wantStatus     int
		wantCORSHeader bool
	}{
		{"simple GET request with origin", http.MethodGet, "http://localhost:3000", http.StatusOK, true},
		{"preflight OPTIONS request", http.MethodOptions, "http://localhost:3000", http.StatusNoContent, true},
		{"no origin header", http.MethodGet, "", http.StatusOK, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(router, tt.method, "", tt.origin)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCORSHeader {
				assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

func TestCORSExposesRequestID(t *testing.T) {
	router := setupTestRouter()
	router.Use(CORS(DefaultCORSConfig()))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(router, http.MethodGet, "", "http://localhost:3000")
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), RequestIDHeader)
}

func TestCORSWithCustomConfig(t *testing.T) {
	cfg := CORSConfig{
		AllowOrigins: []string{"https://app.example.org"},
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Content-Type"},
		MaxAge:       time.Hour,
	}

	router := setupTestRouter()
	router.Use(CORS(cfg))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	w := serve(router, http.MethodGet, "", "https://app.example.org")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://app.example.org", w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(router, http.MethodGet, "", "https://evil.example")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRateLimit(t *testing.T) {
	router := setupTestRouter()
	router.Use(RateLimit(RateLimitConfig{RequestsPerSecond: 2, Burst: 2}))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	for i := 0; i < 2; i++ {
		w := serve(router, http.MethodGet, "192.168.1.1:1234", "")
		assert.Equal(t, http.StatusOK, w.Code, "Request %d should succeed", i+1)
	}

	w := serve(router, http.MethodGet, "192.168.1.1:1234", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, w.Body.String())
}

func TestRateLimitDifferentClients(t *testing.T) {
	router := setupTestRouter()
	router.Use(RateLimit(RateLimitConfig{RequestsPerSecond: 1, Burst: 1}))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "192.168.1.1:1234", "").Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "192.168.1.2:1234", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(router, http.MethodGet, "192.168.1.1:1234", "").Code)
}

func TestRateLimitEvictsIdleClients(t *testing.T) {
	now := time.Unix(1000, 0)
	l := newLimiters(RateLimitConfig{RequestsPerSecond: 1, Burst: 1, IdleTTL: time.Minute})
	l.now = func() time.Time { return now }

	first := l.get("a")
	l.get("b")
	assert.Equal(t, 2, l.size())
	assert.Same(t, first, l.get("a"))

	now = now.Add(30 * time.Second)
	l.get("a")

	now = now.Add(45 * time.Second)
	l.get("c")
	assert.Equal(t, 2, l.size(), "b idle past the TTL is dropped, a was seen recently")

	now = now.Add(2 * time.Minute)
	assert.NotSame(t, first, l.get("a"))
	assert.Equal(t, 1, l.size())
}

func TestGlobalRateLimit(t *testing.T) {
	router := setupTestRouter()
	router.Use(GlobalRateLimit(RateLimitConfig{RequestsPerSecond: 2, Burst: 2}))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "192.168.1.1:1234", "").Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "192.168.1.2:1234", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(router, http.MethodGet, "192.168.1.3:1234", "").Code)
}

func TestDefaultConfigs(t *testing.T) {
	cors := DefaultCORSConfig()
	assert.Contains(t, cors.AllowOrigins, "*")
	assert.Contains(t, cors.AllowMethods, "POST")
	assert.Contains(t, cors.AllowMethods, "DELETE")
	assert.Contains(t, cors.AllowHeaders, RequestIDHeader)
	assert.Equal(t, 12*time.Hour, cors.MaxAge)

	rate := DefaultRateLimitConfig()
	assert.Equal(t, 100, rate.RequestsPerSecond)
	assert.Equal(t, 200, rate.Burst)
	assert.Equal(t, 10*time.Minute, rate.IdleTTL)
}

func BenchmarkRateLimit(b *testing.B) {
	router := setupTestRouter()
	router.Use(RateLimit(DefaultRateLimitConfig()))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		serve(router, http.MethodGet, "192.168.1.1:1234", "")
	}
}
